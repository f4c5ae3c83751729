package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next     key.Binding
	Nectar   key.Binding
	Honey    key.Binding
	EggCare  key.Binding
	Autoplay key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("n", " ", "space"),
			key.WithHelp("n/space", "next shift"),
		),
		Nectar: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "nectar collector"),
		),
		Honey: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "honey manufacturer"),
		),
		EggCare: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "egg care"),
		),
		Autoplay: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "autoplay"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Autoplay, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Autoplay},
		{k.Nectar, k.Honey, k.EggCare},
		{k.Help, k.Quit},
	}
}
