package app

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog"

	"github.com/nhle/mail-console/internal/keys"
	"github.com/nhle/mail-console/internal/mailapi"
	"github.com/nhle/mail-console/internal/store"
	"github.com/nhle/mail-console/internal/theme"
	"github.com/nhle/mail-console/internal/ui"
	"github.com/nhle/mail-console/internal/ui/command"
	"github.com/nhle/mail-console/internal/ui/emailconfig"
	helpview "github.com/nhle/mail-console/internal/ui/help"
	"github.com/nhle/mail-console/internal/ui/sendform"
	"github.com/nhle/mail-console/internal/ui/toast"
)

// ViewState represents what is drawn in the content area.
type ViewState int

const (
	ViewTabs ViewState = iota
	ViewHelp
	ViewCommand
	ViewConfirmForget
)

// TabKey identifies a page of the tab strip.
type TabKey string

const (
	TabEmailConfig TabKey = "emailConfigPage"
	TabSendEmail   TabKey = "sendEmailPage"
)

var tabOrder = []TabKey{TabEmailConfig, TabSendEmail}

var tabTitles = map[TabKey]string{
	TabEmailConfig: "Email Config",
	TabSendEmail:   "Send Email",
}

// paletteCommands are offered by the command palette.
var paletteCommands = []command.Command{
	{Name: "config", Description: "open Email Config"},
	{Name: "send", Description: "open Send Email"},
	{Name: "reload", Description: "re-fetch the saved configuration"},
	{Name: "test-imap", Description: "try an IMAP login with the current settings"},
	{Name: "forget", Description: "forget the saved configuration on this machine"},
	{Name: "help", Description: "show keyboard shortcuts"},
	{Name: "quit", Description: "exit"},
}

// configIDPersistedMsg reports the outcome of writing the configuration ID
// to the store.
type configIDPersistedMsg struct {
	id  string
	err error
}

// Deps are the collaborators the shell wires into its pages.
type Deps struct {
	API    mailapi.API
	Prober emailconfig.Prober
	IDs    store.IdentifierStore
	Logger zerolog.Logger

	// ConfigID is the identifier read from IDs at startup.
	ConfigID string

	// ToastDuration is how long notifications stay visible.
	ToastDuration time.Duration
}

// forgetBinding holds the confirm dialog's answer on the heap so that huh's
// Value() pointer stays valid across Bubble Tea model copies.
type forgetBinding struct {
	confirmed bool
}

// Model is the root Bubble Tea model. It owns the configuration ID, the
// active tab and the overlays, and routes messages to the pages.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	ready        bool

	keys   *keys.KeyMap
	ids    store.IdentifierStore
	logger zerolog.Logger

	configID     string
	activeTab    TabKey
	sendDisabled bool

	configView  emailconfig.Model
	sendView    sendform.Model
	helpView    helpview.Model
	commandView command.Model
	toast       toast.Model

	confirm *huh.Form
	forget  *forgetBinding
}

// New creates the root model. The tab state is derived from d.ConfigID.
func New(d Deps) Model {
	km := keys.DefaultKeyMap()

	m := Model{
		currentView: ViewTabs,
		keys:        km,
		ids:         d.IDs,
		logger:      d.Logger,
		configView:  emailconfig.New(d.API, d.Prober, km, d.Logger, d.ConfigID),
		sendView:    sendform.New(d.API, km, d.Logger),
		helpView:    helpview.New(km, 80, 24),
		commandView: command.New(paletteCommands, 80, 24),
		toast:       toast.New(d.ToastDuration),
		forget:      &forgetBinding{},
	}
	m.applyConfigID(d.ConfigID)
	return m
}

// Init starts loading the saved configuration, if any.
func (m Model) Init() tea.Cmd {
	return m.configView.Init()
}

// ActiveTab returns the tab currently shown.
func (m Model) ActiveTab() TabKey { return m.activeTab }

// SendDisabled reports whether the Send Email tab is locked.
func (m Model) SendDisabled() bool { return m.sendDisabled }

// ConfigID returns the configuration identifier owned by the shell.
func (m Model) ConfigID() string { return m.configID }

// CurrentView returns the view drawn in the content area.
func (m Model) CurrentView() ViewState { return m.currentView }

// Toast returns the notification model.
func (m Model) Toast() toast.Model { return m.toast }

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.configView.SetSize(contentWidth, contentHeight)
		m.sendView.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.commandView.SetSize(contentWidth, contentHeight)
		if m.confirm != nil {
			m.confirm = m.confirm.WithWidth(min(contentWidth-4, 60))
		}
		return m, nil

	case toast.ShowMsg:
		if msg.Kind == toast.Error {
			m.logger.Debug().Str("text", msg.Text).Msg("error notice shown")
		}
		cmd := m.toast.Show(msg.Kind, msg.Text)
		return m, cmd

	case emailconfig.ConfigIDChangedMsg:
		cmd := m.setConfigID(msg.ID)
		return m, cmd

	case configIDPersistedMsg:
		if msg.err != nil {
			m.logger.Error().Err(msg.err).Str("config_id", msg.id).Msg("persisting configuration id failed")
			cmd := m.toast.Show(toast.Error, fmt.Sprintf("Could not remember configuration: %v", msg.err))
			return m, cmd
		}
		return m, nil

	case command.CommandMsg:
		m.currentView = ViewTabs
		cmd := m.executeCommand(string(msg))
		focus := m.focusActive()
		return m, tea.Batch(cmd, focus)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}

		if m.currentView == ViewConfirmForget {
			return m.updateConfirm(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Help):
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}
			m.previousView = m.currentView
			m.currentView = ViewHelp
			return m, nil

		case key.Matches(msg, m.keys.Command):
			if m.currentView == ViewCommand {
				m.currentView = m.previousView
				cmd := m.focusActive()
				return m, cmd
			}
			m.previousView = m.currentView
			m.currentView = ViewCommand
			m.blurPages()
			cmd := m.commandView.Focus()
			return m, cmd

		case key.Matches(msg, m.keys.Back):
			if m.currentView == ViewHelp || m.currentView == ViewCommand {
				m.currentView = ViewTabs
				cmd := m.focusActive()
				return m, cmd
			}
		}

		if m.currentView == ViewTabs {
			var cmd tea.Cmd
			handled := true
			switch {
			case key.Matches(msg, m.keys.NextTab):
				cmd = m.cycleTab(1)
			case key.Matches(msg, m.keys.PrevTab):
				cmd = m.cycleTab(-1)
			case key.Matches(msg, m.keys.ConfigTab):
				cmd = m.switchTab(TabEmailConfig)
			case key.Matches(msg, m.keys.SendTab):
				cmd = m.switchTab(TabSendEmail)
			case key.Matches(msg, m.keys.Reload):
				m.activateTab(TabEmailConfig)
				cmd = m.configView.Reload()
			default:
				handled = false
			}
			if handled {
				return m, cmd
			}
		}

		return m.updateActiveView(msg)
	}

	return m.broadcast(msg)
}

// updateActiveView dispatches a key press to the view that has focus.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewTabs:
		switch m.activeTab {
		case TabEmailConfig:
			m.configView, cmd = m.configView.Update(msg)
		case TabSendEmail:
			m.sendView, cmd = m.sendView.Update(msg)
		}
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}

	return m, cmd
}

// broadcast hands a non-key message to every page. Network results, spinner
// ticks and cursor blinks are addressed to one page but must reach it even
// while another tab is showing; pages ignore messages that are not theirs.
func (m Model) broadcast(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.configView, cmd = m.configView.Update(msg)
	cmds = append(cmds, cmd)
	m.sendView, cmd = m.sendView.Update(msg)
	cmds = append(cmds, cmd)
	m.toast, cmd = m.toast.Update(msg)
	cmds = append(cmds, cmd)

	switch m.currentView {
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
		cmds = append(cmds, cmd)
	case ViewConfirmForget:
		var next tea.Model
		next, cmd = m.confirm.Update(msg)
		if f, ok := next.(*huh.Form); ok {
			m.confirm = f
		}
		cmds = append(cmds, cmd)
		return m.checkConfirm(tea.Batch(cmds...))
	}

	return m, tea.Batch(cmds...)
}

// applyConfigID recomputes tab gating for id and resets the active tab.
func (m *Model) applyConfigID(id string) {
	m.configID = id
	m.configView.SetConfigID(id)
	m.sendView.SetConfigID(id)
	m.sendDisabled = id == ""

	if id != "" {
		m.activateTab(TabSendEmail)
	} else {
		m.activateTab(TabEmailConfig)
	}
}

// setConfigID replaces the identifier and writes it through to the store.
func (m *Model) setConfigID(id string) tea.Cmd {
	m.applyConfigID(id)
	return tea.Batch(m.persistConfigID(id), m.focusActive())
}

func (m Model) persistConfigID(id string) tea.Cmd {
	ids := m.ids
	if ids == nil {
		return nil
	}
	return func() tea.Msg {
		ctx := context.Background()
		var err error
		if id == "" {
			err = ids.Clear(ctx)
		} else {
			err = ids.Set(ctx, id)
		}
		return configIDPersistedMsg{id: id, err: err}
	}
}

// activateTab makes tab current without any gating checks.
func (m *Model) activateTab(tab TabKey) {
	m.activeTab = tab
	m.blurPages()
}

// switchTab honours a manual tab change unless tab is disabled.
func (m *Model) switchTab(tab TabKey) tea.Cmd {
	if tab == TabSendEmail && m.sendDisabled {
		return nil
	}
	m.activateTab(tab)
	return m.focusActive()
}

func (m *Model) cycleTab(dir int) tea.Cmd {
	idx := 0
	for i, t := range tabOrder {
		if t == m.activeTab {
			idx = i
		}
	}
	n := len(tabOrder)
	for step := 1; step < n; step++ {
		next := tabOrder[((idx+dir*step)%n+n)%n]
		if next == TabSendEmail && m.sendDisabled {
			continue
		}
		return m.switchTab(next)
	}
	return nil
}

func (m *Model) blurPages() {
	m.configView.Blur()
	m.sendView.Blur()
}

func (m *Model) focusActive() tea.Cmd {
	if m.currentView != ViewTabs {
		return nil
	}
	switch m.activeTab {
	case TabSendEmail:
		return m.sendView.Focus()
	default:
		return m.configView.Focus()
	}
}

// startForget opens the confirmation dialog for forgetting the saved
// configuration.
func (m *Model) startForget() tea.Cmd {
	if m.configID == "" {
		return m.toast.Show(toast.Error, "No saved configuration to forget")
	}

	m.forget.confirmed = false
	m.confirm = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Forget the saved email configuration?").
				Description(
					"This machine will stop using configuration " + m.configID + ".\n" +
						"It stays stored on the server.",
				).
				Affirmative("Yes, forget").
				Negative("Cancel").
				Value(&m.forget.confirmed),
		),
	).WithWidth(min(max(m.layout.ContentWidth()-4, 30), 60))

	m.previousView = ViewTabs
	m.currentView = ViewConfirmForget
	m.blurPages()
	return m.confirm.Init()
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirm == nil {
		m.currentView = ViewTabs
		return m, nil
	}
	if key.Matches(msg, m.keys.Back) {
		return m.finishForget(false)
	}

	next, cmd := m.confirm.Update(msg)
	if f, ok := next.(*huh.Form); ok {
		m.confirm = f
	}
	return m.checkConfirm(cmd)
}

func (m Model) checkConfirm(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	switch m.confirm.State {
	case huh.StateCompleted:
		return m.finishForget(m.forget.confirmed)
	case huh.StateAborted:
		return m.finishForget(false)
	}
	return m, cmd
}

// finishForget closes the dialog and, when confirmed, drops the identifier
// on this machine only.
func (m Model) finishForget(confirmed bool) (tea.Model, tea.Cmd) {
	m.confirm = nil
	m.currentView = ViewTabs

	if !confirmed {
		cmd := m.focusActive()
		return m, cmd
	}

	m.logger.Info().Str("config_id", m.configID).Msg("forgetting configuration id")
	persist := m.setConfigID("")
	notice := m.toast.Show(toast.Success, "Configuration forgotten on this machine")
	return m, tea.Batch(persist, notice)
}

// executeCommand handles a command string from the command palette.
func (m *Model) executeCommand(cmd string) tea.Cmd {
	switch cmd {
	case "config":
		return m.switchTab(TabEmailConfig)
	case "send":
		if m.sendDisabled {
			return m.toast.Show(toast.Error, "Save an email configuration first")
		}
		return m.switchTab(TabSendEmail)
	case "reload":
		m.activateTab(TabEmailConfig)
		return m.configView.Reload()
	case "test-imap":
		m.activateTab(TabEmailConfig)
		var c tea.Cmd
		m.configView, c = m.configView.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
		return c
	case "forget":
		return m.startForget()
	case "help":
		m.previousView = ViewTabs
		m.currentView = ViewHelp
		return nil
	case "quit", "q":
		return tea.Quit
	default:
		return m.toast.Show(toast.Error, fmt.Sprintf("Unknown command %q", cmd))
	}
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	tabs := m.layout.RenderTabs("mailconsole", m.tabs())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints(), m.toast.View())

	return m.layout.RenderWithFrame(tabs, content, statusBar)
}

func (m Model) tabs() []ui.Tab {
	out := make([]ui.Tab, 0, len(tabOrder))
	for _, t := range tabOrder {
		out = append(out, ui.Tab{
			Title:    tabTitles[t],
			Active:   t == m.activeTab,
			Disabled: t == TabSendEmail && m.sendDisabled,
		})
	}
	return out
}

// renderContent returns the rendered string for the current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewConfirmForget:
		if m.confirm == nil {
			return ""
		}
		return theme.PanelStyle.Render(m.confirm.View())
	}

	if m.activeTab == TabSendEmail {
		return m.sendView.View()
	}
	return m.configView.View()
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "f1 close help | esc back"
	case ViewCommand:
		return "enter execute | esc back"
	case ViewConfirmForget:
		return "←/→ choose | enter confirm | esc cancel"
	default:
		return m.helpView.ShortView()
	}
}
