package command

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mail-console/internal/theme"
)

// CommandMsg is emitted when the user executes a command.
type CommandMsg string

// Command is one entry the palette can run.
type Command struct {
	Name        string
	Description string
}

// Model is the command palette view.
type Model struct {
	input    textinput.Model
	commands []Command
	width    int
	height   int
}

// New creates a new command palette model offering the given commands.
func New(commands []Command, width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "type a command..."
	ti.Prompt = ": "
	ti.Focus()
	ti.Width = width - 6

	return Model{
		input:    ti,
		commands: commands,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			cmd := m.resolve(strings.TrimSpace(m.input.Value()))
			m.input.Reset()
			if cmd != "" {
				return m, func() tea.Msg {
					return CommandMsg(cmd)
				}
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// resolve maps typed text to a command name. An exact match wins; otherwise
// a unique prefix match is accepted. Unknown text is passed through so the
// caller can report it.
func (m Model) resolve(typed string) string {
	if typed == "" {
		return ""
	}
	typed = strings.ToLower(typed)

	var match string
	for _, c := range m.commands {
		if c.Name == typed {
			return c.Name
		}
		if strings.HasPrefix(c.Name, typed) {
			if match != "" {
				return typed
			}
			match = c.Name
		}
	}
	if match != "" {
		return match
	}
	return typed
}

// Matches returns the commands whose name starts with the current input.
func (m Model) Matches() []Command {
	typed := strings.ToLower(strings.TrimSpace(m.input.Value()))
	var out []Command
	for _, c := range m.commands {
		if strings.HasPrefix(c.Name, typed) {
			out = append(out, c)
		}
	}
	return out
}

// View renders the command palette.
func (m Model) View() string {
	title := theme.TitleStyle.Render("Command Palette")
	input := m.input.View()

	lines := []string{title, input, ""}
	for _, c := range m.Matches() {
		lines = append(lines,
			theme.LabelStyle.Render(c.Name)+"  "+theme.HelpStyle.Render(c.Description))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)

	return theme.PanelStyle.
		Width(max(m.width-4, 0)).
		Render(content)
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}
