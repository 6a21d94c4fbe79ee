package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Hint   key.Binding
	Reset  key.Binding
	Skip   key.Binding
	GiveUp key.Binding
	Next   key.Binding
	Quit   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Hint: key.NewBinding(
			key.WithKeys("ctrl+t", "f1"),
			key.WithHelp("ctrl+t", "hint"),
		),
		Reset: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "reset"),
		),
		Skip: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "skip"),
		),
		GiveUp: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "give up"),
		),
		Next: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "next card"),
			key.WithDisabled(),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Hint, k.Reset, k.Skip, k.GiveUp, k.Next, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
