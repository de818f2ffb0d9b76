package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
	ColorDim    = lipgloss.AdaptiveColor{Dark: "#2B2F33", Light: "#EDF2F7"}
)

// HeaderStyle is used for the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// PanelStyle wraps overlays such as help and the command palette.
var PanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// Tab styles.
var (
	ActiveTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBlue).
			Border(lipgloss.RoundedBorder(), true, true, false, true).
			BorderForeground(ColorBlue).
			Padding(0, 2)

	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(ColorWhite).
				Border(lipgloss.RoundedBorder(), true, true, false, true).
				BorderForeground(ColorBorder).
				Padding(0, 2)

	DisabledTabStyle = InactiveTabStyle.
				Foreground(ColorGray).
				Faint(true)
)

// Form styles.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite).
			MarginBottom(1)

	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBlue).
			MarginTop(1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorWhite)

	FocusedLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorBlue)

	FieldErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Italic(true)

	ButtonStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Background(ColorBlue).
			Padding(0, 2)

	FocusedButtonStyle = ButtonStyle.
				Bold(true).
				Underline(true)

	DisabledButtonStyle = lipgloss.NewStyle().
				Foreground(ColorGray).
				Background(ColorSubtle).
				Padding(0, 2)
)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// ToastStyle returns the style for a success or error notification.
func ToastStyle(isError bool) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	if isError {
		return base.Foreground(ColorWhite).Background(ColorRed)
	}
	return base.Foreground(ColorWhite).Background(ColorGreen)
}
