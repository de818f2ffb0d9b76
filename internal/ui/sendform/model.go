// Package sendform is the single-message compose form. It sends through
// the saved email configuration and clears itself after a successful send.
package sendform

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/nhle/mail-console/internal/keys"
	"github.com/nhle/mail-console/internal/mailapi"
	"github.com/nhle/mail-console/internal/model"
	"github.com/nhle/mail-console/internal/richtext"
	"github.com/nhle/mail-console/internal/theme"
	"github.com/nhle/mail-console/internal/ui/form"
	"github.com/nhle/mail-console/internal/ui/loader"
	"github.com/nhle/mail-console/internal/ui/toast"
	"github.com/nhle/mail-console/internal/validate"
)

const (
	keyTo      = "to"
	keySubject = "subject"
	keyBody    = "body"
)

const (
	notSentMessage  = "Email was not sent"
	noConfigMessage = "Save an email configuration first"
)

// Values are the validated fields of the form. The body is checked
// separately because it is edited as rich text.
type Values struct {
	To      string `validate:"required,mailbox"`
	Subject string `validate:"required"`
}

var messages = validate.Messages{
	"To":      {"required": "Please enter the recipient's email address!", "mailbox": "Please enter a valid email address!"},
	"Subject": {"*": "Please enter the subject!"},
}

var fieldKeys = map[string]string{
	"To":      keyTo,
	"Subject": keySubject,
}

// Validate checks v. It has no side effects.
func Validate(v Values) validate.Result {
	return validate.Struct(v, messages)
}

type sentMsg struct {
	result model.SendEmailResult
	err    error
}

// Model is the Bubble Tea model for the send-email form.
type Model struct {
	api    mailapi.API
	keys   *keys.KeyMap
	logger zerolog.Logger

	form       *form.Form
	configID   string
	validation validate.Result
	touched    map[string]bool
	busy       bool
	spinner    spinner.Model

	width  int
	height int
}

// New creates an empty send-email form.
func New(api mailapi.API, km *keys.KeyMap, logger zerolog.Logger) Model {
	m := Model{
		api:     api,
		keys:    km,
		logger:  logger,
		touched: make(map[string]bool),
		spinner: loader.NewSpinner(),
		form: form.New(km, "Send",
			form.Spec{Key: keyTo, Label: "To", Placeholder: "Enter recipient's email"},
			form.Spec{Key: keySubject, Label: "Subject", Placeholder: "Enter subject"},
			form.Spec{Key: keyBody, Label: "Body (Markdown)", Kind: form.TextArea, Placeholder: "Write your message..."},
		),
	}
	m.revalidate()
	return m
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetConfigID records the configuration the next send will use.
func (m *Model) SetConfigID(id string) { m.configID = id }

// ConfigID returns the configuration the next send will use.
func (m Model) ConfigID() string { return m.configID }

// Busy reports whether a send is in flight.
func (m Model) Busy() bool { return m.busy }

// SubmitEnabled reports whether Send can be activated.
func (m Model) SubmitEnabled() bool { return m.form.SubmitEnabled() }

// Value returns the text of a form field.
func (m Model) Value(key string) string { return m.form.Value(key) }

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
	m.form.SetWidth(min(width-4, 80))
}

// Focus gives keyboard focus back to the form.
func (m *Model) Focus() tea.Cmd { return m.form.Refocus() }

// Blur removes keyboard focus from the form.
func (m *Model) Blur() { m.form.Blur() }

// Update handles messages for the send-email form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case sentMsg:
		return m.handleSent(msg)
	}

	if m.busy {
		return m, nil
	}

	res, cmd := m.form.Update(msg)
	if res.Changed != "" {
		m.onChange(res.Changed)
	}
	if res.Submitted {
		var submit tea.Cmd
		m, submit = m.startSend()
		return m, tea.Batch(cmd, submit)
	}
	return m, cmd
}

func (m *Model) onChange(key string) {
	m.touched[key] = true
	m.revalidate()
}

func (m Model) values() Values {
	return Values{
		To:      strings.TrimSpace(m.form.Value(keyTo)),
		Subject: strings.TrimSpace(m.form.Value(keySubject)),
	}
}

// revalidate recomputes the Send button. The body guard is independent of
// the field validation.
func (m *Model) revalidate() {
	m.validation = Validate(m.values())
	bodyEmpty := richtext.IsEmpty(m.form.Value(keyBody))
	m.form.SetSubmitEnabled(m.validation.OK() && !bodyEmpty)

	m.form.ClearErrors()
	for _, fe := range m.validation.Errors {
		k := fieldKeys[fe.Field]
		if m.touched[k] && m.form.Error(k) == "" {
			m.form.SetError(k, fe.Message)
		}
	}
	if bodyEmpty && m.touched[keyBody] {
		m.form.SetError(keyBody, "Please enter the body!")
	}
}

func (m Model) startSend() (Model, tea.Cmd) {
	v := m.values()
	raw := m.form.Value(keyBody)
	if !Validate(v).OK() || richtext.IsEmpty(raw) {
		return m, nil
	}
	if m.configID == "" {
		return m, toast.ErrorCmd(noConfigMessage)
	}

	body, err := richtext.ToHTML(raw)
	if err != nil {
		return m, toast.ErrorCmd(err.Error())
	}

	req := model.SendEmailRequest{
		To:            v.To,
		Subject:       v.Subject,
		Body:          body,
		EmailConfigID: m.configID,
	}

	m.busy = true
	api := m.api
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		res, err := api.SendEmail(context.Background(), req)
		return sentMsg{result: res, err: err}
	})
}

func (m Model) handleSent(msg sentMsg) (Model, tea.Cmd) {
	m.busy = false

	if msg.err != nil {
		m.logger.Warn().Err(msg.err).Msg("sending email failed")
		return m, toast.ErrorCmd(msg.err.Error())
	}

	if !msg.result.Status {
		text := msg.result.Message
		if text == "" {
			text = notSentMessage
		}
		m.logger.Warn().Str("message", text).Msg("email rejected")
		return m, toast.ErrorCmd(text)
	}

	m.reset()
	m.logger.Info().Str("config_id", m.configID).Msg("email sent")
	return m, toast.SuccessCmd(msg.result.Message)
}

// reset clears every field after a successful send.
func (m *Model) reset() {
	m.form.SetValue(keyTo, "")
	m.form.SetValue(keySubject, "")
	m.form.SetValue(keyBody, "")
	m.form.Focus(keyTo)
	m.touched = make(map[string]bool)
	m.revalidate()
}

// View renders the form, or the loading overlay while sending.
func (m Model) View() string {
	if m.busy {
		return loader.View(m.width, m.height, m.spinner, "Sending email...")
	}

	title := theme.TitleStyle.Render("Send Email")
	hint := theme.HelpStyle.Render(m.keys.Submit.Help().Key + " send · tab leaves the body editor")

	return lipgloss.NewStyle().Padding(0, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, m.form.View(), "", hint),
	)
}
