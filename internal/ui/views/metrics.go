package views

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kombatant/nvidia-oc/internal/telemetry"
	"github.com/kombatant/nvidia-oc/internal/ui/components"
	"github.com/kombatant/nvidia-oc/internal/ui/theme"
)

// SampleMsg carries one device poll taken off the UI loop.
type SampleMsg struct {
	Sample telemetry.Sample
}

// MetricsModel shows live readings of the device opened at start-up and
// charts its clocks. Samples are recorded on SampleMsg; the charts only
// pick up new points on Redraw so drawing runs at its own rate.
type MetricsModel struct {
	width  int
	height int

	poller    *telemetry.Poller
	history   int
	hasSample bool

	vram  components.Meter
	fan   components.Meter
	util  components.Meter
	power components.Meter

	coreChart components.Chart
	memChart  components.Chart
	corePts   []telemetry.Point
	memPts    []telemetry.Point

	theme  *theme.Theme
	styles theme.Styles
}

// NewMetrics creates the metrics tab. historySize bounds the chart
// samples.
func NewMetrics(t *theme.Theme, historySize int) MetricsModel {
	s := t.Styles
	return MetricsModel{
		history:   historySize,
		vram:      components.NewMeter(t, "VRAM Usage", 30),
		fan:       components.NewMeter(t, "Fan Speed", 30),
		util:      components.NewMeter(t, "GPU Usage", 30),
		power:     components.NewMeter(t, "Power Usage", 30),
		coreChart: components.NewChart("Core Clock", "MHz", s.SeriesCore, s.Axis, s.Label),
		memChart:  components.NewChart("Memory Clock", "MHz", s.SeriesMemory, s.Axis, s.Label),
		theme:     t,
		styles:    s,
	}
}

// Init implements tea.Model.
func (m MetricsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the metrics tab.
func (m MetricsModel) Update(msg tea.Msg) (MetricsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		if msg.Device != nil {
			m.poller = telemetry.NewPoller(msg.Device, m.history)
		}
	case SampleMsg:
		if m.poller != nil {
			m.poller.Record(msg.Sample)
			m.hasSample = true
		}
	}
	return m, nil
}

// Poll returns a command that samples the device, or nil when no device
// is open.
func (m MetricsModel) Poll() tea.Cmd {
	if m.poller == nil {
		return nil
	}
	dev := m.poller.Device()
	return func() tea.Msg {
		return SampleMsg{Sample: telemetry.Collect(dev, time.Now())}
	}
}

// Redraw copies the recorded histories into the charts.
func (m *MetricsModel) Redraw() {
	if m.poller == nil {
		return
	}
	m.corePts = m.poller.Core.Points()
	m.memPts = m.poller.Memory.Points()
}

// Available reports whether a device is being polled.
func (m MetricsModel) Available() bool { return m.poller != nil }

// Last returns the latest sample and whether one was taken.
func (m MetricsModel) Last() (telemetry.Sample, bool) {
	if m.poller == nil {
		return telemetry.Sample{}, false
	}
	return m.poller.Last(), m.hasSample
}

// ChartPoints returns the points the charts currently draw.
func (m MetricsModel) ChartPoints() (core, memory []telemetry.Point) {
	return m.corePts, m.memPts
}

// View renders the metrics tab.
func (m MetricsModel) View() string {
	if m.poller == nil {
		return m.card(m.styles.Subtitle.Render("Metrics") + "\n" +
			m.styles.Warning.Render("NVML is unavailable; live metrics are disabled."))
	}

	s := m.poller.Last()
	if !m.hasSample {
		s = telemetry.Sample{}
	}

	temp := m.styles.Label.Render("Temperature: ") + lipgloss.NewStyle().
		Foreground(m.theme.LevelColor(tempLevel(s))).Bold(true).Render(s.TempText())

	memory := m.card(lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Subtitle.Render("Memory"),
		m.vram.View(s.VRAMFraction(), s.VRAMUsedText()+" "+s.VRAMTotalText()),
	))
	stats := m.card(lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Subtitle.Render("Clocks & Thermals"),
		m.styles.RenderKeyValue("Core Clock", s.CoreClockText()),
		m.styles.RenderKeyValue("Memory Clock", s.MemClockText()),
		temp,
		m.fan.View(s.FanFraction(), s.FanText()),
	))
	load := m.card(lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Subtitle.Render("Load"),
		m.util.View(s.UtilFraction(), s.UtilText()),
		m.power.View(s.PowerFraction(), s.PowerText()),
	))
	charts := lipgloss.JoinHorizontal(lipgloss.Top,
		m.card(m.coreChart.View(m.corePts)),
		m.card(m.memChart.View(m.memPts)),
	)
	return lipgloss.JoinVertical(lipgloss.Left, memory, stats, load, charts)
}

func tempLevel(s telemetry.Sample) theme.Level {
	if !s.HasTemp {
		return theme.LevelNormal
	}
	return theme.TempLevel(s.TempC)
}

func (m MetricsModel) card(content string) string {
	return m.styles.Card.Render(content)
}

// SetSize updates the view dimensions.
func (m *MetricsModel) SetSize(width, height int) {
	m.width = width
	m.height = height

	meterWidth := width - 40
	if meterWidth > 50 {
		meterWidth = 50
	}
	if meterWidth < 10 {
		meterWidth = 10
	}
	for _, meter := range []*components.Meter{&m.vram, &m.fan, &m.util, &m.power} {
		meter.SetWidth(meterWidth)
	}

	chartWidth := width/2 - 14
	if chartWidth < 10 {
		chartWidth = 10
	}
	m.coreChart.SetSize(chartWidth, 6)
	m.memChart.SetSize(chartWidth, 6)
}

// Poller returns the poller, nil when no device is open.
func (m MetricsModel) Poller() *telemetry.Poller { return m.poller }
