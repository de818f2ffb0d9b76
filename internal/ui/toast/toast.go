// Package toast shows short-lived success and error notices.
package toast

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/mail-console/internal/theme"
)

// Kind distinguishes success notices from errors.
type Kind int

const (
	Success Kind = iota
	Error
)

// ShowMsg asks the shell to display a notice. Child views return it from
// commands instead of owning a toast themselves.
type ShowMsg struct {
	Kind Kind
	Text string
}

// SuccessCmd builds a command emitting a success notice.
func SuccessCmd(text string) tea.Cmd {
	return func() tea.Msg { return ShowMsg{Kind: Success, Text: text} }
}

// ErrorCmd builds a command emitting an error notice.
func ErrorCmd(text string) tea.Cmd {
	return func() tea.Msg { return ShowMsg{Kind: Error, Text: text} }
}

// expireMsg clears the notice with the matching sequence number.
type expireMsg struct{ seq int }

// Model holds at most one visible notice.
type Model struct {
	kind     Kind
	text     string
	visible  bool
	seq      int
	duration time.Duration
}

// New creates a toast whose notices disappear after d.
func New(d time.Duration) Model {
	if d <= 0 {
		d = 4 * time.Second
	}
	return Model{duration: d}
}

// Show replaces any current notice and schedules its expiry.
func (m *Model) Show(kind Kind, text string) tea.Cmd {
	m.seq++
	m.kind = kind
	m.text = text
	m.visible = true

	seq := m.seq
	return tea.Tick(m.duration, func(time.Time) tea.Msg {
		return expireMsg{seq: seq}
	})
}

// Update handles expiry ticks. A tick from an older notice is ignored.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if e, ok := msg.(expireMsg); ok && e.seq == m.seq {
		m.visible = false
		m.text = ""
	}
	return m, nil
}

// Visible reports whether a notice is showing.
func (m Model) Visible() bool { return m.visible }

// Text returns the current notice text.
func (m Model) Text() string { return m.text }

// Kind returns the current notice kind.
func (m Model) Kind() Kind { return m.kind }

// View renders the notice, or "" when none is showing.
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	return theme.ToastStyle(m.kind == Error).Render(m.text)
}
