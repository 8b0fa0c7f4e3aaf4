// Package ui provides the Bubble Tea front-end started by --gui: a
// performance tab that edits, applies and installs a parameter set and
// a metrics tab that charts live readings.
package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kombatant/nvidia-oc/internal/constants"
	"github.com/kombatant/nvidia-oc/internal/exec"
	"github.com/kombatant/nvidia-oc/internal/gpu"
	"github.com/kombatant/nvidia-oc/internal/gpu/smi"
	"github.com/kombatant/nvidia-oc/internal/logging"
	"github.com/kombatant/nvidia-oc/internal/service"
	"github.com/kombatant/nvidia-oc/internal/ui/components"
	"github.com/kombatant/nvidia-oc/internal/ui/theme"
	"github.com/kombatant/nvidia-oc/internal/ui/views"
)

// Tab identifies a top-level screen.
type Tab int

const (
	// TabPerformance edits and applies settings.
	TabPerformance Tab = iota
	// TabMetrics shows live readings.
	TabMetrics
)

var tabNames = []string{"Performance", "Metrics"}

// String returns the tab title.
func (t Tab) String() string {
	if int(t) < len(tabNames) {
		return tabNames[t]
	}
	return "Unknown"
}

// ServiceReader is the part of the unit manager the UI reads.
type ServiceReader interface {
	Exists() bool
	Current() (service.Command, bool)
}

var _ ServiceReader = (*service.Manager)(nil)

// Deps are the collaborators of the UI.
type Deps struct {
	Library  gpu.Library
	Executor exec.Executor
	Service  ServiceReader
	Lister   smi.Lister
	Logger   logging.Logger
}

// Options configures the UI.
type Options struct {
	Version       string
	Program       string
	SettingsFile  string
	TempDir       string
	Theme         string
	PollInterval  time.Duration
	FrameInterval time.Duration
	HistorySize   int
}

// Model is the root Bubble Tea model. It owns the tab bar, the footer
// and both tabs, drives the poll and frame timers and routes keys.
type Model struct {
	tab      Tab
	width    int
	height   int
	ready    bool
	quitting bool
	loaded   bool
	nvmlInit bool
	polling  bool

	header  components.HeaderModel
	footer  components.FooterModel
	perf    views.PerformanceModel
	metrics views.MetricsModel

	keyMap KeyMap
	deps   Deps
	opts   Options
	logger logging.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates the root model.
func New(ctx context.Context, deps Deps, opts Options) Model {
	if opts.PollInterval <= 0 {
		opts.PollInterval = constants.PollInterval
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = constants.FrameInterval
	}
	if opts.HistorySize <= 0 {
		opts.HistorySize = constants.HistoryCapacity
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	t := theme.ByName(opts.Theme)
	keyMap := DefaultKeyMap()
	childCtx, cancel := context.WithCancel(ctx)

	m := Model{
		header: components.NewHeader(t.Styles, constants.AppName, opts.Version, tabNames...),
		perf: views.NewPerformance(t.Styles, views.PerformanceDeps{
			Executor:     deps.Executor,
			Program:      opts.Program,
			SettingsFile: opts.SettingsFile,
			TempDir:      opts.TempDir,
		}),
		metrics: views.NewMetrics(t, opts.HistorySize),
		keyMap:  keyMap,
		deps:    deps,
		opts:    opts,
		logger:  logger.WithPrefix("ui"),
		ctx:     childCtx,
		cancel:  cancel,
	}
	m.footer = components.NewFooter(t.Styles, m.helpKeys())
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.load(),
		pollTick(m.opts.PollInterval),
		frameTick(m.opts.FrameInterval),
	)
}

// load gathers the GPU list, the installed unit and the current device
// values. NVML is initialized once here and kept open for telemetry.
// The GPU list comes from nvidia-smi, then NVML, then the single
// default entry.
func (m Model) load() tea.Cmd {
	ctx, deps, log := m.ctx, m.deps, m.logger
	return func() tea.Msg {
		var msg loadedMsg
		var gpus []smi.GPU
		if deps.Lister != nil {
			var err error
			if gpus, err = deps.Lister.List(ctx); err != nil {
				log.Debug("nvidia-smi listing failed", "error", err)
			}
		}
		if deps.Service != nil {
			msg.ServiceExists = deps.Service.Exists()
			if cmd, ok := deps.Service.Current(); ok {
				msg.Service = &cmd
				if cmd.Index != nil {
					msg.Index = *cmd.Index
				}
			}
		}

		if deps.Library != nil {
			if err := gpu.InitWithRetry(ctx, deps.Library, 0); err != nil {
				log.Warn("NVML unavailable", "error", err)
			} else {
				msg.nvmlInit = true
				if len(gpus) == 0 {
					var err error
					if gpus, err = smi.FromLibrary(deps.Library); err != nil {
						log.Debug("NVML listing failed", "error", err)
					}
				}
				loadDevice(deps.Library, &msg, log)
			}
		}

		msg.Entries = smi.Entries(gpus)
		return msg
	}
}

// loadDevice opens the selected GPU and reads its current values into msg.
func loadDevice(lib gpu.Library, msg *loadedMsg, log logging.Logger) {
	dev, err := gpu.Open(lib, msg.Index)
	if err != nil {
		log.Warn("could not open GPU", "gpu", msg.Index, "error", err)
		return
	}
	readout := gpu.Query(dev)
	for _, err := range readout.Errors {
		log.Debug("query failed", "gpu", msg.Index, "error", err)
	}
	msg.Readout = &readout
	msg.Device = dev
	if c, err := dev.PowerManagementLimitConstraints(); err == nil {
		msg.PowerLimits = &c
	} else {
		log.Debug("power limit range unavailable", "gpu", msg.Index, "error", err)
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case loadedMsg:
		m.loaded = true
		m.nvmlInit = msg.nvmlInit
		m.perf, _ = m.perf.Update(msg.LoadedMsg)
		m.metrics, _ = m.metrics.Update(msg.LoadedMsg)
		if !m.perf.NVMLAvailable() {
			m.footer.SetStatus(views.NVMLWarning, components.StatusWarning)
		}
		return m, nil

	case PollTickMsg:
		cmds := []tea.Cmd{pollTick(m.opts.PollInterval)}
		if !m.polling {
			if poll := m.metrics.Poll(); poll != nil {
				m.polling = true
				cmds = append(cmds, poll)
			}
		}
		return m, tea.Batch(cmds...)

	case views.SampleMsg:
		m.polling = false
		m.metrics, _ = m.metrics.Update(msg)
		return m, nil

	case FrameTickMsg:
		if m.tab == TabMetrics {
			m.metrics.Redraw()
		}
		return m, frameTick(m.opts.FrameInterval)
	}

	var cmd tea.Cmd
	m.perf, cmd = m.perf.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keyMap.ForceQuit) {
		return m.quit()
	}
	if m.tab == TabPerformance && m.perf.HasDialog() {
		var cmd tea.Cmd
		m.perf, cmd = m.perf.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m.quit()
	case key.Matches(msg, m.keyMap.Help):
		m.footer.ToggleFullHelp()
		return m, nil
	case key.Matches(msg, m.keyMap.NextTab):
		m.setTab((m.tab + 1) % Tab(len(tabNames)))
		return m, nil
	case key.Matches(msg, m.keyMap.PrevTab):
		m.setTab((m.tab + Tab(len(tabNames)) - 1) % Tab(len(tabNames)))
		return m, nil
	case key.Matches(msg, m.keyMap.Performance):
		m.setTab(TabPerformance)
		return m, nil
	case key.Matches(msg, m.keyMap.Metrics):
		m.setTab(TabMetrics)
		return m, nil
	}

	if m.tab == TabPerformance {
		var cmd tea.Cmd
		m.perf, cmd = m.perf.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.cancel()
	return m, tea.Quit
}

func (m *Model) setTab(t Tab) {
	m.tab = t
	m.header.SetActive(int(t))
	m.footer.SetKeyMap(m.helpKeys())
	if t == TabMetrics {
		m.metrics.Redraw()
	}
}

func (m Model) helpKeys() tabHelp {
	if m.tab == TabPerformance {
		return tabHelp{global: m.keyMap, tab: m.perf.KeyMap()}
	}
	return tabHelp{global: m.keyMap}
}

func (m *Model) setSize(width, height int) {
	m.width = width
	m.height = height
	m.ready = true
	m.header.SetWidth(width)
	m.footer.SetWidth(width)

	body := height - lipgloss.Height(m.header.View()) - lipgloss.Height(m.footer.View())
	if body < 1 {
		body = 1
	}
	m.perf.SetSize(width, body)
	m.metrics.SetSize(width, body)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Initializing..."
	}

	var body string
	switch {
	case !m.loaded:
		body = "Reading GPU state..."
	case m.tab == TabMetrics:
		body = m.metrics.View()
	default:
		body = m.perf.View()
	}

	header := m.header.View()
	footer := m.footer.View()
	height := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if height < 1 {
		height = 1
	}
	body = lipgloss.NewStyle().MaxHeight(height).Render(body)
	body = lipgloss.NewStyle().Height(height).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// Shutdown cancels the model context and releases NVML if it was
// initialized.
func (m Model) Shutdown() {
	m.cancel()
	if m.nvmlInit && m.deps.Library != nil {
		if err := m.deps.Library.Shutdown(); err != nil {
			m.logger.Debug("NVML shutdown failed", "error", err)
		}
	}
}

// ActiveTab returns the visible tab.
func (m Model) ActiveTab() Tab { return m.tab }

// Performance returns the performance tab.
func (m Model) Performance() views.PerformanceModel { return m.perf }

// Metrics returns the metrics tab.
func (m Model) Metrics() views.MetricsModel { return m.metrics }

// Loaded reports whether the start-up state has arrived.
func (m Model) Loaded() bool { return m.loaded }

// IsQuitting reports whether quit was requested.
func (m Model) IsQuitting() bool { return m.quitting }

// Context returns the model context, cancelled on quit.
func (m Model) Context() context.Context { return m.ctx }

// Footer returns the footer.
func (m Model) Footer() components.FooterModel { return m.footer }
