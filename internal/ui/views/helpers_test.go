package views

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kombatant/nvidia-oc/internal/ui/theme"
)

func testStyles() theme.Styles { return theme.DefaultTheme().Styles }

var specialKeys = map[string]tea.KeyType{
	"enter":       tea.KeyEnter,
	"esc":         tea.KeyEscape,
	"up":          tea.KeyUp,
	"down":        tea.KeyDown,
	"left":        tea.KeyLeft,
	"right":       tea.KeyRight,
	"home":        tea.KeyHome,
	"end":         tea.KeyEnd,
	"tab":         tea.KeyTab,
	"shift+right": tea.KeyShiftRight,
	"shift+left":  tea.KeyShiftLeft,
}

// keyPress builds the KeyMsg for a key name as bubbletea reports it.
func keyPress(k string) tea.KeyMsg {
	if t, ok := specialKeys[k]; ok {
		return tea.KeyMsg{Type: t}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}
