package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles are the lipgloss styles derived from a Theme.
type Styles struct {
	// Frame
	Header       lipgloss.Style
	Logo         lipgloss.Style
	VersionValue lipgloss.Style
	Footer       lipgloss.Style
	Tab          lipgloss.Style
	TabActive    lipgloss.Style

	// Text
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Help     lipgloss.Style
	Code     lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style

	// Containers
	Card        lipgloss.Style
	CardFocused lipgloss.Style

	// Buttons
	Button         lipgloss.Style
	ButtonFocused  lipgloss.Style
	ButtonDisabled lipgloss.Style

	// Status
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style

	// Meters and charts
	MeterFilled  lipgloss.Style
	MeterEmpty   lipgloss.Style
	MeterText    lipgloss.Style
	SeriesCore   lipgloss.Style
	SeriesMemory lipgloss.Style
	Axis         lipgloss.Style

	// Dialogs
	Dialog      lipgloss.Style
	DialogTitle lipgloss.Style
}

// NewStyles builds the styles of t.
func NewStyles(t *Theme) Styles {
	button := lipgloss.NewStyle().
		Foreground(t.Text).
		Background(t.Panel).
		Padding(0, 3).
		MarginRight(1)

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)

	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Border),
		Logo: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary),
		VersionValue: lipgloss.NewStyle().
			Foreground(t.TextMuted),
		Footer: lipgloss.NewStyle().
			Foreground(t.TextMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(t.Border),
		Tab: lipgloss.NewStyle().
			Foreground(t.TextMuted).
			Padding(0, 2),
		TabActive: lipgloss.NewStyle().
			Foreground(t.TextInverse).
			Background(t.Primary).
			Bold(true).
			Padding(0, 2),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary),
		Subtitle: lipgloss.NewStyle().
			Foreground(t.TextMuted).
			Italic(true),
		Help: lipgloss.NewStyle().
			Foreground(t.TextMuted),
		Code: lipgloss.NewStyle().
			Foreground(t.Info).
			Background(t.Panel).
			Padding(0, 1),
		Label: lipgloss.NewStyle().
			Foreground(t.Text),
		Value: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		Card:        card,
		CardFocused: card.Copy().BorderForeground(t.BorderFocus),

		Button: button,
		ButtonFocused: button.Copy().
			Foreground(t.TextInverse).
			Background(t.Primary).
			Bold(true),
		ButtonDisabled: button.Copy().
			Foreground(t.TextMuted).
			Strikethrough(true),

		Success: lipgloss.NewStyle().Foreground(t.Success).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(t.Error).Bold(true),
		Info:    lipgloss.NewStyle().Foreground(t.Info),

		MeterFilled:  lipgloss.NewStyle().Foreground(t.Primary),
		MeterEmpty:   lipgloss.NewStyle().Foreground(t.Track),
		MeterText:    lipgloss.NewStyle().Foreground(t.TextMuted),
		SeriesCore:   lipgloss.NewStyle().Foreground(t.SeriesCore),
		SeriesMemory: lipgloss.NewStyle().Foreground(t.SeriesMemory),
		Axis:         lipgloss.NewStyle().Foreground(t.TextMuted),

		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Primary).
			Padding(1, 2),
		DialogTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary).
			MarginBottom(1),
	}
}

// RenderKeyValue renders "key: value" with the label and value styles.
func (s Styles) RenderKeyValue(key, value string) string {
	return s.Label.Render(key+": ") + s.Value.Render(value)
}

// RenderDialog renders a bordered box with a title, a body and a row of
// buttons, the focused one highlighted. A negative focused index
// highlights none.
func (s Styles) RenderDialog(title, body string, buttons []string, focused, width int) string {
	inner := width - 6
	if inner < 10 {
		inner = 10
	}

	var row strings.Builder
	for i, b := range buttons {
		if i == focused {
			row.WriteString(s.ButtonFocused.Render(b))
		} else {
			row.WriteString(s.Button.Render(b))
		}
	}

	content := s.DialogTitle.Render(title) + "\n" +
		lipgloss.NewStyle().Width(inner).Render(body)
	if len(buttons) > 0 {
		content += "\n\n" + lipgloss.NewStyle().Width(inner).Align(lipgloss.Center).Render(row.String())
	}
	return s.Dialog.Copy().Width(width - 2).Render(content)
}
