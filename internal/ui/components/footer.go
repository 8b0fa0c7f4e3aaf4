package components

import (
	"github.com/charmbracelet/bubbles/help"

	"github.com/kombatant/nvidia-oc/internal/ui/theme"
)

// StatusKind colors the footer status line.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusWarning
	StatusError
)

// FooterModel shows a status line above the key help.
type FooterModel struct {
	help   help.Model
	keyMap help.KeyMap
	status string
	kind   StatusKind
	width  int
	styles theme.Styles
}

// NewFooter creates a footer showing help for keyMap.
func NewFooter(styles theme.Styles, keyMap help.KeyMap) FooterModel {
	return FooterModel{help: help.New(), keyMap: keyMap, styles: styles}
}

// View renders the footer.
func (m FooterModel) View() string {
	var content string
	if m.status != "" {
		content = m.statusStyle().Render("● ") + m.status + "\n"
	}
	if m.keyMap != nil {
		m.help.Width = m.width
		content += m.help.View(m.keyMap)
	}
	return m.styles.Footer.Copy().Width(m.width).Render(content)
}

func (m FooterModel) statusStyle() interface{ Render(...string) string } {
	switch m.kind {
	case StatusSuccess:
		return m.styles.Success
	case StatusWarning:
		return m.styles.Warning
	case StatusError:
		return m.styles.Error
	default:
		return m.styles.Info
	}
}

// SetStatus replaces the status line.
func (m *FooterModel) SetStatus(status string, kind StatusKind) {
	m.status = status
	m.kind = kind
}

// ClearStatus removes the status line.
func (m *FooterModel) ClearStatus() {
	m.status = ""
	m.kind = StatusInfo
}

// Status returns the status line and its kind.
func (m FooterModel) Status() (string, StatusKind) { return m.status, m.kind }

// SetKeyMap swaps the help bindings.
func (m *FooterModel) SetKeyMap(keyMap help.KeyMap) { m.keyMap = keyMap }

// ToggleFullHelp switches between short and full help.
func (m *FooterModel) ToggleFullHelp() { m.help.ShowAll = !m.help.ShowAll }

// IsFullHelpShown reports whether full help is displayed.
func (m FooterModel) IsFullHelpShown() bool { return m.help.ShowAll }

// SetWidth sets the render width.
func (m *FooterModel) SetWidth(width int) { m.width = width }
