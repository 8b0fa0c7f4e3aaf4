package theme

import "github.com/charmbracelet/lipgloss"

// Name identifies a palette. The values match the theme key of the
// application config.
type Name string

const (
	NVIDIADark   Name = "nvidia-dark"
	NVIDIALight  Name = "nvidia-light"
	HighContrast Name = "high-contrast"
)

// Theme is a palette plus the styles derived from it.
type Theme struct {
	Name Name

	Primary     lipgloss.TerminalColor
	PrimaryDark lipgloss.TerminalColor

	Success lipgloss.TerminalColor
	Warning lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
	Info    lipgloss.TerminalColor

	Text        lipgloss.TerminalColor
	TextMuted   lipgloss.TerminalColor
	TextInverse lipgloss.TerminalColor

	Panel       lipgloss.TerminalColor
	Border      lipgloss.TerminalColor
	BorderFocus lipgloss.TerminalColor

	SeriesCore   lipgloss.TerminalColor
	SeriesMemory lipgloss.TerminalColor
	Track        lipgloss.TerminalColor

	Styles Styles
}

// DefaultTheme returns the NVIDIA dark theme.
func DefaultTheme() *Theme {
	t := &Theme{
		Name:         NVIDIADark,
		Primary:      NVIDIAGreen,
		PrimaryDark:  NVIDIAGreenDark,
		Success:      ColorSuccess,
		Warning:      ColorWarning,
		Error:        ColorError,
		Info:         ColorInfo,
		Text:         ColorText,
		TextMuted:    ColorTextMuted,
		TextInverse:  ColorTextInverse,
		Panel:        ColorBackgroundPanel,
		Border:       ColorBorder,
		BorderFocus:  ColorBorderFocus,
		SeriesCore:   ColorSeriesCore,
		SeriesMemory: ColorSeriesMemory,
		Track:        ColorTrack,
	}
	t.Styles = NewStyles(t)
	return t
}

// LightTheme returns the NVIDIA theme tuned for light backgrounds.
func LightTheme() *Theme {
	t := DefaultTheme()
	t.Name = NVIDIALight
	t.Text = lipgloss.Color("#1F2937")
	t.TextMuted = lipgloss.Color("#6B7280")
	t.TextInverse = lipgloss.Color("#FFFFFF")
	t.Panel = lipgloss.Color("#E5E7EB")
	t.Border = lipgloss.Color("#D1D5DB")
	t.SeriesCore = NVIDIAGreenDark
	t.SeriesMemory = lipgloss.Color("#0369A1")
	t.Track = lipgloss.Color("#E5E7EB")
	t.Styles = NewStyles(t)
	return t
}

// HighContrastTheme returns a maximum contrast theme.
func HighContrastTheme() *Theme {
	t := &Theme{
		Name:         HighContrast,
		Primary:      lipgloss.Color("#00FF00"),
		PrimaryDark:  lipgloss.Color("#008000"),
		Success:      lipgloss.AdaptiveColor{Light: "#008000", Dark: "#00FF00"},
		Warning:      lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#FFFF00"},
		Error:        lipgloss.Color("#FF0000"),
		Info:         lipgloss.AdaptiveColor{Light: "#0000FF", Dark: "#00FFFF"},
		Text:         ColorHighContrastText,
		TextMuted:    ColorHighContrastText,
		TextInverse:  lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#000000"},
		Panel:        lipgloss.AdaptiveColor{Light: "#C0C0C0", Dark: "#333333"},
		Border:       ColorHighContrastBorder,
		BorderFocus:  ColorHighContrastFocus,
		SeriesCore:   lipgloss.Color("#00FF00"),
		SeriesMemory: lipgloss.AdaptiveColor{Light: "#0000FF", Dark: "#00FFFF"},
		Track:        lipgloss.AdaptiveColor{Light: "#808080", Dark: "#333333"},
	}
	t.Styles = NewStyles(t)
	return t
}

// ByName returns the named theme, or the default for an unknown name.
func ByName(name string) *Theme {
	switch Name(name) {
	case NVIDIALight:
		return LightTheme()
	case HighContrast:
		return HighContrastTheme()
	default:
		return DefaultTheme()
	}
}

// Available lists the theme names.
func Available() []Name {
	return []Name{NVIDIADark, NVIDIALight, HighContrast}
}

// LevelColor returns the color of a reading level.
func (t *Theme) LevelColor(l Level) lipgloss.TerminalColor {
	switch l {
	case LevelCritical:
		return t.Error
	case LevelElevated:
		return t.Warning
	default:
		return t.Primary
	}
}
