package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kombatant/nvidia-oc/internal/telemetry"
)

var eighths = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Chart draws a time series as columns of block characters, newest on
// the right, scaled from zero to the visible maximum.
type Chart struct {
	title  string
	unit   string
	width  int
	height int
	series lipgloss.Style
	axis   lipgloss.Style
	label  lipgloss.Style
}

// NewChart creates a chart drawn in the given series style.
func NewChart(title, unit string, series, axis, label lipgloss.Style) Chart {
	return Chart{title: title, unit: unit, width: 40, height: 6, series: series, axis: axis, label: label}
}

// SetSize sets the plot area in cells.
func (c *Chart) SetSize(width, height int) {
	if width > 0 {
		c.width = width
	}
	if height > 0 {
		c.height = height
	}
}

// Size returns the plot area in cells.
func (c Chart) Size() (int, int) { return c.width, c.height }

// Columns returns the heights of the visible columns in eighths of a
// cell, one per point, for the last width points.
func (c Chart) Columns(points []telemetry.Point) []int {
	if len(points) > c.width {
		points = points[len(points)-c.width:]
	}
	top := scaleMax(points)
	cols := make([]int, len(points))
	full := c.height * 8
	for i, p := range points {
		v := p.V
		if v < 0 {
			v = 0
		}
		cols[i] = int(math.Round(v / top * float64(full)))
	}
	return cols
}

func scaleMax(points []telemetry.Point) float64 {
	top := 1.0
	for _, p := range points {
		if p.V > top {
			top = p.V
		}
	}
	return top
}

// View renders the title, the plot with a y axis and the time span.
func (c Chart) View(points []telemetry.Point) string {
	cols := c.Columns(points)
	top := scaleMax(points)
	if len(points) > c.width {
		points = points[len(points)-c.width:]
	}

	rows := make([]string, c.height)
	for r := 0; r < c.height; r++ {
		floor := (c.height - 1 - r) * 8
		var b strings.Builder
		b.WriteString(strings.Repeat(" ", c.width-len(cols)))
		for _, h := range cols {
			level := h - floor
			switch {
			case level <= 0:
				b.WriteRune(' ')
			case level >= 8:
				b.WriteRune('█')
			default:
				b.WriteRune(eighths[level])
			}
		}
		axis := "      "
		if r == 0 {
			axis = fmt.Sprintf("%5.0f ", top)
		} else if r == c.height-1 {
			axis = fmt.Sprintf("%5d ", 0)
		}
		rows[r] = c.axis.Render(axis+"│") + c.series.Render(b.String())
	}

	span := ""
	if n := len(points); n > 0 {
		span = fmt.Sprintf("last %.0fs", points[n-1].T-points[0].T)
	}
	current := telemetry.NA
	if n := len(points); n > 0 {
		current = fmt.Sprintf("%.0f %s", points[n-1].V, c.unit)
	}

	header := c.label.Render(c.title) + "  " + c.series.Render(current)
	footer := c.axis.Render(strings.Repeat(" ", 6) + "└" + strings.Repeat("─", c.width) + " " + span)
	return lipgloss.JoinVertical(lipgloss.Left, append(append([]string{header}, rows...), footer)...)
}
