package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the bindings handled by the root model. Each tab adds
// its own.
type KeyMap struct {
	Quit        key.Binding
	ForceQuit   key.Binding
	Help        key.Binding
	NextTab     key.Binding
	PrevTab     key.Binding
	Performance key.Binding
	Metrics     key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous tab"),
		),
		Performance: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "performance"),
		),
		Metrics: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "metrics"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.PrevTab},
		{k.Performance, k.Metrics},
		{k.Help, k.Quit},
	}
}

// tabHelp shows the active tab's bindings followed by the global ones.
type tabHelp struct {
	global KeyMap
	tab    help.KeyMap
}

func (h tabHelp) ShortHelp() []key.Binding {
	if h.tab == nil {
		return h.global.ShortHelp()
	}
	return append(h.tab.ShortHelp(), h.global.ShortHelp()...)
}

func (h tabHelp) FullHelp() [][]key.Binding {
	if h.tab == nil {
		return h.global.FullHelp()
	}
	return append(h.tab.FullHelp(), h.global.FullHelp()...)
}
