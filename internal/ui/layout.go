package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mail-console/internal/theme"
)

// Tab describes one entry in the top tab strip.
type Tab struct {
	Title    string
	Active   bool
	Disabled bool
}

// Layout manages the terminal layout dimensions.
type Layout struct {
	Width           int
	Height          int
	TabsHeight      int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		TabsHeight:      3,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the page body,
// accounting for the tab strip and status bar.
func (l Layout) ContentHeight() int {
	h := l.Height - l.TabsHeight - l.StatusBarHeight
	if h < 0 {
		return 0
	}
	return h
}

// RenderTabs renders the tab strip with the application title on the right.
func (l Layout) RenderTabs(title string, tabs []Tab) string {
	rendered := make([]string, 0, len(tabs))
	for _, t := range tabs {
		style := theme.InactiveTabStyle
		switch {
		case t.Disabled:
			style = theme.DisabledTabStyle
		case t.Active:
			style = theme.ActiveTabStyle
		}
		rendered = append(rendered, style.Render(t.Title))
	}

	strip := lipgloss.JoinHorizontal(lipgloss.Bottom, rendered...)
	titleRendered := theme.HeaderStyle.Render(title)

	gap := l.Width - lipgloss.Width(strip) - lipgloss.Width(titleRendered)
	if gap < 1 {
		return strip
	}

	right := lipgloss.NewStyle().
		Height(lipgloss.Height(strip)).
		AlignVertical(lipgloss.Bottom).
		Render(strings.Repeat(" ", gap) + titleRendered)

	return lipgloss.JoinHorizontal(lipgloss.Bottom, strip, right)
}

// RenderStatusBar renders the bottom status bar with keyboard hints on the
// left and an optional notice (such as a toast) on the right.
func (l Layout) RenderStatusBar(hints, notice string) string {
	left := theme.StatusBarStyle.Render(hints)

	gap := l.Width - lipgloss.Width(left) - lipgloss.Width(notice)
	if gap < 0 {
		gap = 0
	}

	filler := lipgloss.NewStyle().
		Width(gap).
		Background(theme.StatusBarStyle.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, left, filler, notice)
}

// RenderWithFrame composes a full terminal view by vertically joining
// the tab strip, content area, and status bar.
func (l Layout) RenderWithFrame(
	tabs string,
	content string,
	statusBar string,
) string {
	body := lipgloss.NewStyle().
		Width(l.ContentWidth()).
		Height(l.ContentHeight()).
		Render(content)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		tabs,
		body,
		statusBar,
	)
}
