package components

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kombatant/nvidia-oc/internal/ui/theme"
)

// StepperSpec describes the range of a Stepper in display units.
type StepperSpec struct {
	Label    string
	Unit     string
	Min      float64
	Max      float64
	Step     float64
	Coarse   float64
	Decimals int
}

// Stepper is a bounded numeric control with a fine and a coarse step.
// The value is held as an integer count of the smallest decimal unit so
// repeated steps do not drift.
type Stepper struct {
	spec    StepperSpec
	scale   float64
	value   int64
	min     int64
	max     int64
	step    int64
	coarse  int64
	focused bool
	width   int
	styles  theme.Styles
}

// NewStepper creates a stepper at value, clamped to the range.
func NewStepper(styles theme.Styles, spec StepperSpec, value float64) Stepper {
	scale := math.Pow10(spec.Decimals)
	s := Stepper{
		spec:   spec,
		scale:  scale,
		min:    int64(math.Round(spec.Min * scale)),
		max:    int64(math.Round(spec.Max * scale)),
		step:   int64(math.Round(spec.Step * scale)),
		coarse: int64(math.Round(spec.Coarse * scale)),
		width:  24,
		styles: styles,
	}
	if s.step < 1 {
		s.step = 1
	}
	if s.coarse < s.step {
		s.coarse = s.step
	}
	s.SetValue(value)
	return s
}

// Value returns the current value.
func (s Stepper) Value() float64 { return float64(s.value) / s.scale }

// Int returns the value rounded to the nearest integer.
func (s Stepper) Int() int64 { return int64(math.Round(s.Value())) }

// SetValue sets and clamps the value.
func (s *Stepper) SetValue(v float64) {
	s.value = s.clamp(int64(math.Round(v * s.scale)))
}

// Increment moves up one step, or one coarse step.
func (s *Stepper) Increment(coarse bool) { s.add(s.delta(coarse)) }

// Decrement moves down one step, or one coarse step.
func (s *Stepper) Decrement(coarse bool) { s.add(-s.delta(coarse)) }

// ToMin jumps to the lower bound.
func (s *Stepper) ToMin() { s.value = s.min }

// ToMax jumps to the upper bound.
func (s *Stepper) ToMax() { s.value = s.max }

func (s Stepper) delta(coarse bool) int64 {
	if coarse {
		return s.coarse
	}
	return s.step
}

func (s *Stepper) add(d int64) { s.value = s.clamp(s.value + d) }

func (s Stepper) clamp(v int64) int64 {
	if v < s.min {
		return s.min
	}
	if v > s.max {
		return s.max
	}
	return v
}

// Text formats the value with the configured decimals.
func (s Stepper) Text() string {
	return strconv.FormatFloat(s.Value(), 'f', s.spec.Decimals, 64)
}

// Fraction is the position of the value within the range, 0..1.
func (s Stepper) Fraction() float64 {
	if s.max == s.min {
		return 0
	}
	return float64(s.value-s.min) / float64(s.max-s.min)
}

// Label returns the control label.
func (s Stepper) Label() string { return s.spec.Label }

// Focus focuses the control.
func (s *Stepper) Focus() { s.focused = true }

// Blur removes focus.
func (s *Stepper) Blur() { s.focused = false }

// IsFocused reports whether the control has focus.
func (s Stepper) IsFocused() bool { return s.focused }

// SetWidth sets the bar width in cells.
func (s *Stepper) SetWidth(w int) {
	if w > 0 {
		s.width = w
	}
}

// View renders "label  [bar]  value unit".
func (s Stepper) View() string {
	label := s.spec.Label
	labelStyle := s.styles.Label
	if s.focused {
		label = "› " + label
		labelStyle = s.styles.Value
	} else {
		label = "  " + label
	}

	filled := int(math.Round(s.Fraction() * float64(s.width)))
	bar := s.styles.MeterFilled.Render(strings.Repeat("━", filled)) +
		s.styles.MeterEmpty.Render(strings.Repeat("─", s.width-filled))

	value := s.Text()
	if s.spec.Unit != "" {
		value += " " + s.spec.Unit
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		labelStyle.Copy().Width(26).Render(label),
		bar, "  ",
		s.styles.Value.Render(value),
	)
}
