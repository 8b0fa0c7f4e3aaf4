package components

import (
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/kombatant/nvidia-oc/internal/ui/theme"
)

// Meter is a labelled horizontal bar over bubbles/progress, used for
// VRAM, fan, utilization and power.
type Meter struct {
	bar    progress.Model
	label  string
	styles theme.Styles
}

// NewMeter creates a meter of the given bar width in the primary color.
func NewMeter(t *theme.Theme, label string, width int) Meter {
	return Meter{
		bar:    newBar(t, t.Primary, width),
		label:  label,
		styles: t.Styles,
	}
}

func newBar(t *theme.Theme, fill lipgloss.TerminalColor, width int) progress.Model {
	bar := progress.New(progress.WithWidth(width), progress.WithoutPercentage(), progress.WithSolidFill(colorString(fill)))
	bar.Full = '█'
	bar.Empty = '░'
	bar.EmptyColor = colorString(t.Track)
	return bar
}

// colorString resolves a terminal color to the hex string bubbles/progress
// expects, picking the dark variant of adaptive colors.
func colorString(c lipgloss.TerminalColor) string {
	switch v := c.(type) {
	case lipgloss.Color:
		return string(v)
	case lipgloss.AdaptiveColor:
		if lipgloss.HasDarkBackground() {
			return v.Dark
		}
		return v.Light
	default:
		return ""
	}
}

// View renders the bar at fraction f (0..1) followed by text.
func (m Meter) View(f float64, text string) string {
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Label.Render(m.label),
		m.bar.ViewAs(f)+"  "+m.styles.MeterText.Render(text),
	)
}

// SetWidth resizes the bar.
func (m *Meter) SetWidth(width int) {
	if width > 0 {
		m.bar.Width = width
	}
}

// Width returns the bar width.
func (m Meter) Width() int { return m.bar.Width }
