package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Selection
	Accept key.Binding
	Browse key.Binding

	// Classification
	Submit  key.Binding
	Dismiss key.Binding

	// Application
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns the default key bindings. Printable keys are avoided
// because the drop zone is a text input.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Accept: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "use typed path"),
		),
		Browse: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "drop zone / file picker"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+r", "f5"),
			key.WithHelp("Ctrl+R", "upload and classify"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("Ctrl+X", "dismiss notice"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("Ctrl+C", "force quit"),
		),
	}
}

// SetSubmitting disables the selection and submit controls while a request
// is in flight.
func (k *KeyMap) SetSubmitting(submitting bool) {
	k.Submit.SetEnabled(!submitting)
	k.Accept.SetEnabled(!submitting)
	k.Browse.SetEnabled(!submitting)
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Browse, k.Help, k.Quit}
}

// FullHelp returns all key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Accept, k.Browse},
		{k.Submit, k.Dismiss},
		{k.Help, k.Quit, k.ForceQuit},
	}
}
