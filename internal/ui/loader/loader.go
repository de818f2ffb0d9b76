// Package loader renders the busy overlay shown while a form waits on the
// mail API.
package loader

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mail-console/internal/theme"
)

// NewSpinner returns the spinner every busy view uses.
func NewSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(theme.ColorBlue)
	return s
}

// View centres the spinner and label in a width x height box. The form
// underneath is not rendered, so it cannot be interacted with.
func View(width, height int, s spinner.Model, label string) string {
	content := lipgloss.JoinHorizontal(lipgloss.Center,
		s.View(),
		" ",
		theme.LabelStyle.Render(label),
	)
	if width <= 0 || height <= 0 {
		return content
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
