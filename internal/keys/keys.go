package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application. Plain letters
// are never bound because every view is a form that takes text input.
type KeyMap struct {
	// Focus movement inside a form
	Next key.Binding
	Prev key.Binding

	// Checkbox / radio
	Toggle key.Binding
	Left   key.Binding
	Right  key.Binding

	// Form actions
	Submit   key.Binding
	TestIMAP key.Binding
	Reload   key.Binding

	// Tabs
	NextTab   key.Binding
	PrevTab   key.Binding
	ConfigTab key.Binding
	SendTab   key.Binding

	// Overlays
	Command key.Binding
	Help    key.Binding
	Back    key.Binding

	Quit key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab/↓", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab/↑", "previous field"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "toggle"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "previous option"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "next option"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save / send"),
		),
		TestIMAP: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "test IMAP login"),
		),
		Reload: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "reload configuration"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "previous tab"),
		),
		ConfigTab: key.NewBinding(
			key.WithKeys("f2"),
			key.WithHelp("f2", "email config"),
		),
		SendTab: key.NewBinding(
			key.WithKeys("f3"),
			key.WithHelp("f3", "send email"),
		),
		Command: key.NewBinding(
			key.WithKeys("ctrl+k"),
			key.WithHelp("ctrl+k", "command palette"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "toggle help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Next, k.Submit, k.NextTab, k.Command, k.Help, k.Quit,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Toggle, k.Left, k.Right},
		{k.Submit, k.TestIMAP, k.Reload},
		{k.NextTab, k.PrevTab, k.ConfigTab, k.SendTab},
		{k.Command, k.Help, k.Back, k.Quit},
	}
}
