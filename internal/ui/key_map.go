package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Submit   key.Binding
	Save     key.Binding
	Share    key.Binding
	Surprise key.Binding
	New      key.Binding
	Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "generate"),
		),
		Save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save to spotify"),
		),
		Share: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "share link"),
		),
		Surprise: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "surprise me"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new prompt"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Surprise, k.Save, k.Share, k.New, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
