package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kombatant/nvidia-oc/internal/ui/theme"
)

// HeaderModel renders the title line with the tab strip and version.
type HeaderModel struct {
	title   string
	version string
	tabs    []string
	active  int
	width   int
	styles  theme.Styles
}

// NewHeader creates a header.
func NewHeader(styles theme.Styles, title, version string, tabs ...string) HeaderModel {
	return HeaderModel{title: title, version: version, tabs: tabs, styles: styles}
}

// View renders "title  [tab] tab ... vX".
func (m HeaderModel) View() string {
	parts := []string{m.styles.Logo.Render(m.title)}
	for i, t := range m.tabs {
		if i == m.active {
			parts = append(parts, m.styles.TabActive.Render(t))
		} else {
			parts = append(parts, m.styles.Tab.Render(t))
		}
	}
	left := strings.Join(parts, " ")

	var right string
	if m.version != "" {
		right = m.styles.VersionValue.Render("v" + m.version)
	}

	if m.width <= 0 {
		return m.styles.Header.Render(left + "  " + right)
	}

	gap := m.width - 4 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return m.styles.Header.Copy().Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// SetActive selects the highlighted tab.
func (m *HeaderModel) SetActive(i int) {
	if i >= 0 && i < len(m.tabs) {
		m.active = i
	}
}

// Active returns the highlighted tab.
func (m HeaderModel) Active() int { return m.active }

// SetWidth sets the render width.
func (m *HeaderModel) SetWidth(width int) { m.width = width }
