// Package theme holds the palettes and lipgloss styles of the nvidia_oc
// terminal interface. The default palette is built around NVIDIA green
// and adapts to light and dark terminal backgrounds.
package theme

import "github.com/charmbracelet/lipgloss"

// Brand colors.
var (
	NVIDIAGreen      = lipgloss.Color("#76B900")
	NVIDIAGreenDark  = lipgloss.Color("#5A8F00")
	NVIDIAGreenLight = lipgloss.Color("#8BD000")
	NVIDIAGray       = lipgloss.Color("#666666")
	NVIDIAGrayDark   = lipgloss.Color("#404040")
)

// Semantic colors.
var (
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#22C55E", Dark: "#4ADE80"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "#EAB308", Dark: "#FACC15"}
	ColorError   = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"}
	ColorInfo    = lipgloss.AdaptiveColor{Light: "#0EA5E9", Dark: "#38BDF8"}
)

// Text colors.
var (
	ColorText        = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#F9FAFB"}
	ColorTextMuted   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	ColorTextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1A1A1A"}
)

// Surfaces and borders.
var (
	ColorBackgroundPanel = lipgloss.AdaptiveColor{Light: "#E5E7EB", Dark: "#333333"}
	ColorBorder          = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#404040"}
	ColorBorderFocus     = lipgloss.AdaptiveColor{Light: "#76B900", Dark: "#76B900"}
)

// Chart series. Core clock uses the brand green, memory clock a blue
// that stays readable next to it.
var (
	ColorSeriesCore   = lipgloss.AdaptiveColor{Light: "#5A8F00", Dark: "#8BD000"}
	ColorSeriesMemory = lipgloss.AdaptiveColor{Light: "#0369A1", Dark: "#38BDF8"}
	ColorTrack        = lipgloss.AdaptiveColor{Light: "#E5E7EB", Dark: "#404040"}
)

// High contrast colors.
var (
	ColorHighContrastText   = lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}
	ColorHighContrastBorder = lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}
	ColorHighContrastFocus  = lipgloss.AdaptiveColor{Light: "#0000FF", Dark: "#FFFF00"}
)

// Level classifies a reading for coloring: temperatures, load and power.
type Level int

const (
	LevelNormal Level = iota
	LevelElevated
	LevelCritical
)

// TempLevel maps a GPU temperature in °C to a level.
func TempLevel(celsius uint32) Level {
	switch {
	case celsius >= 85:
		return LevelCritical
	case celsius >= 70:
		return LevelElevated
	default:
		return LevelNormal
	}
}

// FractionLevel maps a 0..1 load fraction to a level.
func FractionLevel(f float64) Level {
	switch {
	case f >= 0.95:
		return LevelCritical
	case f >= 0.8:
		return LevelElevated
	default:
		return LevelNormal
	}
}
