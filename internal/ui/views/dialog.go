// Package views provides the screens of the nvidia_oc TUI: the
// performance tab that edits and applies a parameter set, the metrics
// tab that charts live readings, and the modal dialog both use.
package views

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kombatant/nvidia-oc/internal/ui/components"
	"github.com/kombatant/nvidia-oc/internal/ui/theme"
)

// DialogKind selects the title colour and the buttons of a dialog.
type DialogKind int

const (
	// DialogConfirm asks a yes/no question.
	DialogConfirm DialogKind = iota
	// DialogInfo shows a result.
	DialogInfo
	// DialogWarning shows a non-fatal problem.
	DialogWarning
	// DialogError shows a failure.
	DialogError
)

// DialogResult is what a key press did to a dialog.
type DialogResult int

const (
	// DialogOpen means the dialog is still showing.
	DialogOpen DialogResult = iota
	// DialogAccepted means Yes or OK was chosen.
	DialogAccepted
	// DialogDismissed means No was chosen or the dialog was escaped.
	DialogDismissed
)

// DialogKeyMap defines key bindings for dialogs.
type DialogKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
	Yes     key.Binding
	No      key.Binding
	Left    key.Binding
	Right   key.Binding
}

// DefaultDialogKeyMap returns the default dialog key bindings.
func DefaultDialogKeyMap() DialogKeyMap {
	return DialogKeyMap{
		Confirm: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "choose"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Yes: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "yes"),
		),
		No: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "no"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h", "shift+tab"),
			key.WithHelp("←/h", "previous"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l", "tab"),
			key.WithHelp("→/l", "next"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k DialogKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel, k.Left, k.Right}
}

// FullHelp implements help.KeyMap.
func (k DialogKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Confirm, k.Cancel}, {k.Yes, k.No}, {k.Left, k.Right}}
}

// Dialog is a modal box. A confirm dialog has Yes and No buttons with
// No focused; the others have a single OK.
type Dialog struct {
	kind    DialogKind
	title   string
	body    string
	buttons components.ButtonGroup
	labels  []string
	styles  theme.Styles
	keyMap  DialogKeyMap
	width   int
}

// NewConfirmDialog creates a yes/no dialog.
func NewConfirmDialog(styles theme.Styles, title, body string) Dialog {
	d := newDialog(styles, DialogConfirm, title, body, "Yes", "No")
	d.buttons.Focus(1)
	return d
}

// NewMessageDialog creates a dialog with a single OK button.
func NewMessageDialog(styles theme.Styles, kind DialogKind, title, body string) Dialog {
	return newDialog(styles, kind, title, body, "OK")
}

func newDialog(styles theme.Styles, kind DialogKind, title, body string, labels ...string) Dialog {
	return Dialog{
		kind:    kind,
		title:   title,
		body:    body,
		buttons: components.NewButtonGroup(styles, labels...),
		labels:  labels,
		styles:  styles,
		keyMap:  DefaultDialogKeyMap(),
		width:   60,
	}
}

// Update handles a key press.
func (d Dialog) Update(msg tea.KeyMsg) (Dialog, DialogResult) {
	switch {
	case key.Matches(msg, d.keyMap.Cancel):
		return d, DialogDismissed
	case d.kind == DialogConfirm && key.Matches(msg, d.keyMap.Yes):
		return d, DialogAccepted
	case d.kind == DialogConfirm && key.Matches(msg, d.keyMap.No):
		return d, DialogDismissed
	case key.Matches(msg, d.keyMap.Left):
		d.buttons.Previous()
	case key.Matches(msg, d.keyMap.Right):
		d.buttons.Next()
	case key.Matches(msg, d.keyMap.Confirm):
		if d.kind == DialogConfirm && d.buttons.FocusedIndex() == 1 {
			return d, DialogDismissed
		}
		return d, DialogAccepted
	}
	return d, DialogOpen
}

// View renders the dialog box.
func (d Dialog) View() string {
	title := d.title
	switch d.kind {
	case DialogWarning:
		title = d.styles.Warning.Render(title)
	case DialogError:
		title = d.styles.Error.Render(title)
	}
	return d.styles.RenderDialog(title, d.body, d.labels, d.buttons.FocusedIndex(), d.width)
}

// SetWidth sets the box width, capped to fit the terminal.
func (d *Dialog) SetWidth(termWidth int) {
	w := termWidth - 4
	if w > 72 {
		w = 72
	}
	if w < 30 {
		w = 30
	}
	d.width = w
}

// Kind returns the dialog kind.
func (d Dialog) Kind() DialogKind { return d.kind }

// Title returns the dialog title.
func (d Dialog) Title() string { return d.title }

// Body returns the dialog text.
func (d Dialog) Body() string { return d.body }

// KeyMap returns the dialog key bindings.
func (d Dialog) KeyMap() DialogKeyMap { return d.keyMap }
