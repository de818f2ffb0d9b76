package testutil

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// RunCmd executes cmd and every command nested in a tea.BatchMsg, returning
// the produced messages in order. Spinner ticks are dropped so a caller
// feeding the messages back into a model does not loop forever.
func RunCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	switch msg := msg.(type) {
	case nil:
		return nil
	case spinner.TickMsg:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, RunCmd(c)...)
		}
		return out
	default:
		return []tea.Msg{msg}
	}
}
