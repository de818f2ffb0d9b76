// Package emailconfig is the SMTP/IMAP account form. It loads the saved
// configuration, validates every edit, saves through the mail API and
// reports the resulting configuration ID to its parent.
package emailconfig

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/nhle/mail-console/internal/imapprobe"
	"github.com/nhle/mail-console/internal/keys"
	"github.com/nhle/mail-console/internal/mailapi"
	"github.com/nhle/mail-console/internal/model"
	"github.com/nhle/mail-console/internal/theme"
	"github.com/nhle/mail-console/internal/ui/form"
	"github.com/nhle/mail-console/internal/ui/loader"
	"github.com/nhle/mail-console/internal/ui/toast"
	"github.com/nhle/mail-console/internal/validate"
)

// Phase is the state of the form.
type Phase int

const (
	PhaseEditing    Phase = iota
	PhaseLoading          // fetching the saved configuration
	PhaseSubmitting       // save in flight
	PhaseProbing          // IMAP login test in flight
)

const (
	savedMessage    = "Email configuration saved successfully"
	probeOKMessage  = "IMAP login succeeded"
	probeOffMessage = "Enable \"Use different email accounts for receiving emails\" to test IMAP"
	noConfigMessage = "No saved configuration to reload"

	sectionSMTP = "SMTP Settings (sending emails)"
	sectionIMAP = "IMAP Settings (receiving emails)"
)

// ConfigIDChangedMsg asks the owner of the configuration ID to replace it.
// An empty ID forgets the configuration.
type ConfigIDChangedMsg struct {
	ID string
}

// Prober tests IMAP settings with a real login.
type Prober interface {
	Probe(ctx context.Context, t imapprobe.Target) error
}

type loadedMsg struct {
	cfg model.EmailConfiguration
	err error
}

type savedMsg struct {
	cfg model.EmailConfiguration
	err error
}

type probedMsg struct {
	err error
}

// Model is the Bubble Tea model for the configuration form.
type Model struct {
	api    mailapi.API
	prober Prober
	keys   *keys.KeyMap
	logger zerolog.Logger

	form       *form.Form
	phase      Phase
	configID   string
	validation validate.Result
	touched    map[string]bool
	spinner    spinner.Model

	width  int
	height int
}

// New creates the form. When configID is non-empty the form starts in the
// loading phase and Init fetches that configuration.
func New(
	api mailapi.API,
	prober Prober,
	km *keys.KeyMap,
	logger zerolog.Logger,
	configID string,
) Model {
	m := Model{
		api:      api,
		prober:   prober,
		keys:     km,
		logger:   logger,
		form:     newForm(km),
		configID: configID,
		touched:  make(map[string]bool),
		spinner:  loader.NewSpinner(),
	}
	if configID != "" {
		m.phase = PhaseLoading
	}
	m.revalidate()
	return m
}

func newForm(km *keys.KeyMap) *form.Form {
	encOptions := make([]form.Option, 0, len(model.Encryptions))
	for _, e := range model.Encryptions {
		encOptions = append(encOptions, form.Option{Label: string(e), Value: string(e)})
	}
	replyTo := func(f *form.Form) bool { return f.Checked(keyReplyToToggle) }
	imap := func(f *form.Form) bool { return f.Checked(keyUseDifferent) }

	f := form.New(km, "Save",
		form.Spec{Key: keyFromName, Label: "From Name", Placeholder: "Enter from name", Section: sectionSMTP},
		form.Spec{Key: keyFromEmail, Label: "From Email", Placeholder: "Enter from email", Section: sectionSMTP},
		form.Spec{Key: keyUsername, Label: "Username", Placeholder: "Enter username", Section: sectionSMTP},
		form.Spec{Key: keyPassword, Label: "Password", Kind: form.Password, Placeholder: "Enter password", Section: sectionSMTP},
		form.Spec{Key: keySMTPHost, Label: "SMTP Host", Placeholder: "smtp.example.com", Section: sectionSMTP},
		form.Spec{Key: keySMTPPort, Label: "SMTP Port", Section: sectionSMTP},
		form.Spec{Key: keySMTPEncryption, Label: "SMTP Encryption", Kind: form.Radio, Options: encOptions, Section: sectionSMTP},
		form.Spec{Key: keyMessagePerDay, Label: "Message Per Day", Section: sectionSMTP},
		form.Spec{Key: keyMinTimeGap, Label: "Minimum time gap", Placeholder: "optional", Section: sectionSMTP},
		form.Spec{Key: keyReplyToToggle, Label: "Set a different reply to address", Kind: form.Checkbox, Section: sectionSMTP},
		form.Spec{Key: keyReplyToEmail, Label: "Reply To Email", Placeholder: "Enter email", Section: sectionSMTP, Visible: replyTo},
		form.Spec{Key: keyUseDifferent, Label: "Use different email accounts for receiving emails", Kind: form.Checkbox, Section: sectionIMAP},
		form.Spec{Key: keyIMAPHost, Label: "IMAP Host", Placeholder: "imap.example.com", Section: sectionIMAP, Visible: imap},
		form.Spec{Key: keyIMAPPort, Label: "IMAP Port", Section: sectionIMAP, Visible: imap},
		form.Spec{Key: keyIMAPEncryption, Label: "IMAP Encryption", Kind: form.Radio, Options: encOptions, Section: sectionIMAP, Visible: imap},
	)

	f.SetValue(keySMTPPort, strconv.Itoa(model.DefaultSMTPPort))
	f.SetValue(keySMTPEncryption, string(model.DefaultSMTPEncryption))
	f.SetValue(keyMessagePerDay, strconv.Itoa(model.DefaultMessagePerDay))
	f.SetValue(keyIMAPPort, strconv.Itoa(model.DefaultIMAPPort))
	return f
}

// Init fetches the saved configuration when there is one.
func (m Model) Init() tea.Cmd {
	if m.phase != PhaseLoading {
		return nil
	}
	return tea.Batch(m.spinner.Tick, m.loadCmd(m.configID))
}

// Reload re-fetches the saved configuration.
func (m *Model) Reload() tea.Cmd {
	if m.configID == "" {
		return toast.ErrorCmd(noConfigMessage)
	}
	if m.Busy() {
		return nil
	}
	m.phase = PhaseLoading
	return tea.Batch(m.spinner.Tick, m.loadCmd(m.configID))
}

// SetConfigID records the configuration ID owned by the parent.
func (m *Model) SetConfigID(id string) { m.configID = id }

// ConfigID returns the ID the form will save against.
func (m Model) ConfigID() string { return m.configID }

// Phase returns the current phase.
func (m Model) Phase() Phase { return m.phase }

// Busy reports whether a network call is in flight.
func (m Model) Busy() bool { return m.phase != PhaseEditing }

// Validation returns the most recent validation result.
func (m Model) Validation() validate.Result { return m.validation }

// SubmitEnabled reports whether Save can be activated.
func (m Model) SubmitEnabled() bool { return m.form.SubmitEnabled() }

// Value returns the text of a form field.
func (m Model) Value(key string) string { return m.form.Value(key) }

// Visible reports whether a form field is shown.
func (m Model) Visible(key string) bool { return m.form.Visible(key) }

// Values returns the visible form values.
func (m Model) Values() Values { return valuesFrom(m.form) }

// SetFieldValue edits a field as if the user had typed raw into it.
func (m Model) SetFieldValue(key, raw string) (Model, tea.Cmd) {
	res := m.form.Edit(key, raw)
	if res.Changed != "" {
		m.onChange(res.Changed)
	}
	return m, nil
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.form.SetWidth(min(width-4, 72))
}

// Focus gives keyboard focus back to the form.
func (m *Model) Focus() tea.Cmd { return m.form.Refocus() }

// Blur removes keyboard focus from the form.
func (m *Model) Blur() { m.form.Blur() }

// Update handles messages for the configuration form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadedMsg:
		return m.handleLoaded(msg)

	case savedMsg:
		return m.handleSaved(msg)

	case probedMsg:
		m.phase = PhaseEditing
		if msg.err != nil {
			return m, toast.ErrorCmd(msg.err.Error())
		}
		return m, toast.SuccessCmd(probeOKMessage)

	case tea.KeyMsg:
		if m.Busy() {
			return m, nil
		}
		if key.Matches(msg, m.keys.TestIMAP) {
			return m.startProbe()
		}
	}

	if m.Busy() {
		return m, nil
	}

	res, cmd := m.form.Update(msg)
	if res.Changed != "" {
		m.onChange(res.Changed)
	}
	if res.Submitted {
		var submit tea.Cmd
		m, submit = m.startSubmit()
		return m, tea.Batch(cmd, submit)
	}
	return m, cmd
}

// onChange coerces the edited field when it is numeric and revalidates
// the whole form.
func (m *Model) onChange(key string) {
	m.touched[key] = true
	if numericKeys[key] {
		raw := m.form.Value(key)
		if coerced := Coerce(raw); coerced != raw {
			m.form.SetValue(key, coerced)
		}
	}
	if key == keyReplyToToggle || key == keyUseDifferent {
		m.form.Refocus()
	}
	m.revalidate()
}

func (m *Model) revalidate() {
	m.validation = Validate(valuesFrom(m.form))
	m.form.SetSubmitEnabled(m.validation.OK())

	m.form.ClearErrors()
	for _, fe := range m.validation.Errors {
		k := fieldKeys[fe.Field]
		if m.touched[k] && m.form.Error(k) == "" {
			m.form.SetError(k, fe.Message)
		}
	}
}

func (m Model) handleLoaded(msg loadedMsg) (Model, tea.Cmd) {
	m.phase = PhaseEditing
	if msg.err != nil {
		m.logger.Warn().Err(msg.err).Str("config_id", m.configID).Msg("loading email configuration failed")
		return m, tea.Batch(
			toast.ErrorCmd(msg.err.Error()),
			changeIDCmd(""),
		)
	}

	populate(m.form, msg.cfg)
	m.form.Refocus()
	m.touched = make(map[string]bool)
	m.revalidate()
	return m, nil
}

func (m Model) handleSaved(msg savedMsg) (Model, tea.Cmd) {
	m.phase = PhaseEditing
	if msg.err != nil {
		m.logger.Warn().Err(msg.err).Msg("saving email configuration failed")
		return m, toast.ErrorCmd(msg.err.Error())
	}

	populate(m.form, msg.cfg)
	m.revalidate()
	m.logger.Info().Str("config_id", msg.cfg.ID).Msg("email configuration saved")
	return m, tea.Batch(
		toast.SuccessCmd(savedMessage),
		changeIDCmd(msg.cfg.ID),
	)
}

func (m Model) startSubmit() (Model, tea.Cmd) {
	v := valuesFrom(m.form)
	if !Validate(v).OK() {
		return m, nil
	}

	payload := Payload(v, m.configID)
	m.phase = PhaseSubmitting
	return m, tea.Batch(m.spinner.Tick, m.saveCmd(payload))
}

func (m Model) startProbe() (Model, tea.Cmd) {
	if m.prober == nil {
		return m, nil
	}
	v := valuesFrom(m.form)
	if !v.UseDifferentEmail {
		return m, toast.ErrorCmd(probeOffMessage)
	}
	for _, field := range []string{"IMAPHost", "IMAPPort", "IMAPEncryption"} {
		if fe, ok := Validate(v).For(field); ok {
			return m, toast.ErrorCmd(fe.Message)
		}
	}

	target := imapprobe.Target{
		Host:       v.IMAPHost,
		Port:       atoi(v.IMAPPort),
		Encryption: model.Encryption(v.IMAPEncryption),
		Username:   v.Username,
		Password:   v.Password,
	}
	m.phase = PhaseProbing
	return m, tea.Batch(m.spinner.Tick, m.probeCmd(target))
}

func (m Model) loadCmd(id string) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		cfg, err := api.GetEmailConfig(context.Background(), id)
		return loadedMsg{cfg: cfg, err: err}
	}
}

func (m Model) saveCmd(payload model.EmailConfiguration) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		cfg, err := api.SaveEmailConfig(context.Background(), payload)
		return savedMsg{cfg: cfg, err: err}
	}
}

func (m Model) probeCmd(t imapprobe.Target) tea.Cmd {
	prober := m.prober
	return func() tea.Msg {
		return probedMsg{err: prober.Probe(context.Background(), t)}
	}
}

func changeIDCmd(id string) tea.Cmd {
	return func() tea.Msg { return ConfigIDChangedMsg{ID: id} }
}

// View renders the form, or the loading overlay while busy.
func (m Model) View() string {
	switch m.phase {
	case PhaseLoading:
		return loader.View(m.width, m.height, m.spinner, "Loading configuration...")
	case PhaseSubmitting:
		return loader.View(m.width, m.height, m.spinner, "Saving configuration...")
	case PhaseProbing:
		return loader.View(m.width, m.height, m.spinner, "Testing IMAP login...")
	}

	title := theme.TitleStyle.Render("Email Configuration")
	hint := theme.HelpStyle.Render(fmt.Sprintf(
		"%s save · %s test IMAP",
		m.keys.Submit.Help().Key,
		m.keys.TestIMAP.Help().Key,
	))

	return lipgloss.NewStyle().Padding(0, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, m.form.View(), "", hint),
	)
}
