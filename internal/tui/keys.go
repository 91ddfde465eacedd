package tui

import "github.com/charmbracelet/bubbles/key"

// PickerKeys are the key bindings shared by every picker.
type PickerKeys struct {
	Quit   key.Binding
	Select key.Binding
}

// NewPickerKeys creates the standard picker key bindings.
func NewPickerKeys() PickerKeys {
	return PickerKeys{
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
	}
}

// ShortHelp returns a slice of key bindings for the short help view.
func (k PickerKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Quit}
}
