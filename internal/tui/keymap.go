package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Wheel
	Left  key.Binding
	Right key.Binding
	Press key.Binding

	// Amount
	Digit  key.Binding
	Delete key.Binding

	// Flow
	Confirm key.Binding
	Back    key.Binding

	// Value creation
	NextInput     key.Binding
	PrevInput     key.Binding
	ToggleTagType key.Binding

	// Application
	Help      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "turn left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "turn right"),
		),
		Press: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "press wedge"),
		),

		Digit: key.NewBinding(
			key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("0-9", "amount"),
		),
		Delete: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("⌫", "delete digit"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),

		NextInput: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		PrevInput: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous field"),
		),
		ToggleTagType: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "temporary tag"),
		),

		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Right, k.Confirm, k.Back, k.Help}
}

// FullHelp returns all key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Press},
		{k.Digit, k.Delete},
		{k.Confirm, k.Back},
		{k.NextInput, k.ToggleTagType},
		{k.Help, k.ForceQuit},
	}
}

// creationKeys is the help shown while typing a new value.
type creationKeys struct {
	KeyMap
	tags bool
}

func (k creationKeys) ShortHelp() []key.Binding {
	if k.tags {
		return []key.Binding{k.Confirm, k.Back, k.NextInput, k.ToggleTagType}
	}
	return []key.Binding{k.Confirm, k.Back}
}

func (k creationKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
