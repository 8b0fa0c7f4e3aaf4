package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/kombatant/nvidia-oc/internal/gpu/smi"
	"github.com/kombatant/nvidia-oc/internal/ui/theme"
)

// Selector cycles through the GPUs reported by nvidia-smi.
type Selector struct {
	entries []smi.Entry
	index   int
	focused bool
	styles  theme.Styles
}

// NewSelector creates a selector. An empty list is replaced by the
// default GPU 0 entry.
func NewSelector(styles theme.Styles, entries []smi.Entry) Selector {
	if len(entries) == 0 {
		entries = smi.Fallback()
	}
	return Selector{entries: entries, styles: styles}
}

// Selected returns the current entry.
func (s Selector) Selected() smi.Entry { return s.entries[s.index] }

// Entries returns the choices.
func (s Selector) Entries() []smi.Entry { return s.entries }

// Select moves to the entry with id and reports whether it exists.
func (s *Selector) Select(id string) bool {
	for i, e := range s.entries {
		if e.ID == id {
			s.index = i
			return true
		}
	}
	return false
}

// Next selects the following entry, wrapping.
func (s *Selector) Next() { s.index = (s.index + 1) % len(s.entries) }

// Previous selects the preceding entry, wrapping.
func (s *Selector) Previous() { s.index = (s.index - 1 + len(s.entries)) % len(s.entries) }

// Focus focuses the control.
func (s *Selector) Focus() { s.focused = true }

// Blur removes focus.
func (s *Selector) Blur() { s.focused = false }

// View renders "label  ‹ GPU 0: NAME ›".
func (s Selector) View() string {
	label, style := "  Target GPU", s.styles.Label
	if s.focused {
		label, style = "› Target GPU", s.styles.Value
	}
	choice := s.Selected().Label
	if len(s.entries) > 1 {
		choice = "‹ " + choice + " ›"
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		style.Copy().Width(26).Render(label),
		s.styles.Value.Render(choice),
	)
}
