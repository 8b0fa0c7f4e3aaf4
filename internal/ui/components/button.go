// Package components holds the small widgets the nvidia_oc screens are
// built from: header with tabs, footer, buttons, steppers, the GPU
// selector, meters and clock charts.
package components

import (
	"strings"

	"github.com/kombatant/nvidia-oc/internal/ui/theme"
)

// ButtonModel is a focusable button that can be disabled.
type ButtonModel struct {
	label    string
	focused  bool
	disabled bool
	styles   theme.Styles
}

// NewButton creates a button.
func NewButton(styles theme.Styles, label string) ButtonModel {
	return ButtonModel{label: label, styles: styles}
}

// View renders the button for its state. Disabled wins over focused.
func (m ButtonModel) View() string {
	switch {
	case m.disabled:
		return m.styles.ButtonDisabled.Render(m.label)
	case m.focused:
		return m.styles.ButtonFocused.Render(m.label)
	default:
		return m.styles.Button.Render(m.label)
	}
}

// Focus focuses the button.
func (m *ButtonModel) Focus() { m.focused = true }

// Blur removes focus.
func (m *ButtonModel) Blur() { m.focused = false }

// IsFocused reports whether the button has focus.
func (m ButtonModel) IsFocused() bool { return m.focused }

// SetDisabled enables or disables the button.
func (m *ButtonModel) SetDisabled(disabled bool) { m.disabled = disabled }

// IsDisabled reports whether the button is disabled.
func (m ButtonModel) IsDisabled() bool { return m.disabled }

// Label returns the button label.
func (m ButtonModel) Label() string { return m.label }

// SetLabel changes the button label.
func (m *ButtonModel) SetLabel(label string) { m.label = label }

// ButtonGroup is a row of buttons with one focus position.
type ButtonGroup struct {
	buttons []ButtonModel
	focused int
}

// NewButtonGroup creates a group; the first button is focused.
func NewButtonGroup(styles theme.Styles, labels ...string) ButtonGroup {
	g := ButtonGroup{buttons: make([]ButtonModel, len(labels))}
	for i, l := range labels {
		g.buttons[i] = NewButton(styles, l)
	}
	if len(g.buttons) > 0 {
		g.buttons[0].Focus()
	}
	return g
}

// View renders the buttons on one line.
func (g ButtonGroup) View() string {
	parts := make([]string, len(g.buttons))
	for i, b := range g.buttons {
		parts[i] = b.View()
	}
	return strings.Join(parts, " ")
}

// Next moves focus right, wrapping.
func (g *ButtonGroup) Next() { g.move(1) }

// Previous moves focus left, wrapping.
func (g *ButtonGroup) Previous() { g.move(-1) }

func (g *ButtonGroup) move(delta int) {
	n := len(g.buttons)
	if n == 0 {
		return
	}
	g.buttons[g.focused].Blur()
	g.focused = ((g.focused+delta)%n + n) % n
	g.buttons[g.focused].Focus()
}

// Focus moves focus to index.
func (g *ButtonGroup) Focus(index int) {
	if index < 0 || index >= len(g.buttons) {
		return
	}
	g.buttons[g.focused].Blur()
	g.focused = index
	g.buttons[index].Focus()
}

// Blur removes focus from every button without moving the position.
func (g *ButtonGroup) Blur() {
	for i := range g.buttons {
		g.buttons[i].Blur()
	}
}

// Refocus restores focus on the current position after Blur.
func (g *ButtonGroup) Refocus() {
	if len(g.buttons) > 0 {
		g.buttons[g.focused].Focus()
	}
}

// FocusedIndex returns the focus position.
func (g ButtonGroup) FocusedIndex() int { return g.focused }

// Len returns the number of buttons.
func (g ButtonGroup) Len() int { return len(g.buttons) }

// Button returns a pointer to the button at index, or nil.
func (g *ButtonGroup) Button(index int) *ButtonModel {
	if index < 0 || index >= len(g.buttons) {
		return nil
	}
	return &g.buttons[index]
}
