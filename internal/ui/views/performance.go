package views

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"math"
	"os"
	osexec "os/exec"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kombatant/nvidia-oc/internal/constants"
	"github.com/kombatant/nvidia-oc/internal/errors"
	"github.com/kombatant/nvidia-oc/internal/exec"
	"github.com/kombatant/nvidia-oc/internal/gpu"
	"github.com/kombatant/nvidia-oc/internal/gpu/smi"
	"github.com/kombatant/nvidia-oc/internal/service"
	"github.com/kombatant/nvidia-oc/internal/settings"
	"github.com/kombatant/nvidia-oc/internal/ui/components"
	"github.com/kombatant/nvidia-oc/internal/ui/theme"
)

// Defaults used when neither NVML nor the installed unit supply a value.
const (
	DefaultPowerLimitW = constants.PowerDefaultW
	DefaultMinClock    = constants.MinClockDefault
	DefaultMaxClock    = constants.MaxClockDefault
)

// NVMLWarning is shown when the current device values could not be read.
const NVMLWarning = "Warning: could not query NVML — using service values or defaults."

// Button labels.
const (
	LabelApply         = "Apply Settings"
	LabelCreateService = "Create Service"
	LabelUpdateService = "Update Service"
	LabelSave          = "Save to File"
)

const (
	buttonApply = iota
	buttonService
	buttonSave
)

// Focusable rows, top to bottom.
const (
	fieldSelector = iota
	fieldPower
	fieldFreq
	fieldMem
	fieldMinClock
	fieldMaxClock
	fieldButtons
	fieldCount
)

// Stepper rows, in field order after the selector.
const (
	stepPower = iota
	stepFreq
	stepMem
	stepMinClock
	stepMaxClock
)

var stepperSpecs = [...]components.StepperSpec{
	{Label: "Power Limit", Unit: "W", Min: constants.PowerMinW, Max: constants.PowerMaxW, Step: 0.1, Coarse: 1, Decimals: 1},
	{Label: "Core Clock Offset", Unit: "MHz", Min: constants.FreqOffsetMin, Max: constants.FreqOffsetMax, Step: 1, Coarse: 10},
	{Label: "Memory Clock Offset", Unit: "MHz", Min: constants.MemOffsetMin, Max: constants.MemOffsetMax, Step: 1, Coarse: 10},
	{Label: "Min Core Clock", Unit: "MHz", Min: constants.ClockMin, Max: constants.ClockMax, Step: 1, Coarse: 10},
	{Label: "Max Core Clock", Unit: "MHz", Min: constants.ClockMin, Max: constants.ClockMax, Step: 1, Coarse: 10},
}

// LoadedMsg carries the start-up state gathered off the UI loop.
type LoadedMsg struct {
	Entries []smi.Entry
	// Index is the GPU the controls start on: the unit's index, or 0.
	Index uint32
	// Service is the installed unit's command; nil when there is no unit
	// or it has no ExecStart line.
	Service       *service.Command
	ServiceExists bool
	// Readout holds the current device values; nil when NVML could not
	// be initialized or the device could not be opened.
	Readout *gpu.Readout
	// Device is the open device for telemetry, nil with Readout.
	Device gpu.Device
	// PowerLimits is the device's power limit range; nil when unknown.
	PowerLimits *gpu.PowerConstraints
}

// ApplyDoneMsg is sent when the elevated set command exits.
type ApplyDoneMsg struct {
	Stdout string
	Stderr string
	Err    error
}

// ServiceDoneMsg is sent when the elevated service install exits.
type ServiceDoneMsg struct {
	Command service.Command
	Stdout  string
	Stderr  string
	Err     error
}

// SaveDoneMsg is sent when the settings file was written.
type SaveDoneMsg struct {
	Path  string
	Index uint32
	Err   error
}

// PerformanceKeyMap defines key bindings for the performance tab.
type PerformanceKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	CoarseDown key.Binding
	CoarseUp   key.Binding
	Min        key.Binding
	Max        key.Binding
	Activate   key.Binding
	Preview    key.Binding
}

// DefaultPerformanceKeyMap returns the default performance key bindings.
func DefaultPerformanceKeyMap() PerformanceKeyMap {
	return PerformanceKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h", "-"),
			key.WithHelp("←/h", "decrease"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l", "+", "="),
			key.WithHelp("→/l", "increase"),
		),
		CoarseDown: key.NewBinding(
			key.WithKeys("shift+left", "H", "pgdown"),
			key.WithHelp("H", "decrease more"),
		),
		CoarseUp: key.NewBinding(
			key.WithKeys("shift+right", "L", "pgup"),
			key.WithHelp("L", "increase more"),
		),
		Min: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home", "minimum"),
		),
		Max: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("end", "maximum"),
		),
		Activate: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "press button"),
		),
		Preview: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "toggle preview"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k PerformanceKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Activate, k.Preview}
}

// FullHelp implements help.KeyMap.
func (k PerformanceKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Left, k.Right, k.CoarseDown, k.CoarseUp},
		{k.Min, k.Max},
		{k.Activate, k.Preview},
	}
}

// PerformanceDeps are the collaborators of the performance tab.
type PerformanceDeps struct {
	// Executor builds the elevated commands.
	Executor exec.Executor
	// Program is the path of this executable, used in the command.
	Program string
	// SettingsFile is where "Save to File" writes.
	SettingsFile string
	// TempDir holds the rendered unit during install; os.TempDir when empty.
	TempDir string
}

// PerformanceModel edits a parameter set for one GPU and applies it,
// installs it as the boot-time unit, or saves it to the settings file.
type PerformanceModel struct {
	width  int
	height int

	selector components.Selector
	steppers [len(stepperSpecs)]components.Stepper
	buttons  components.ButtonGroup
	focus    int
	barWidth int

	showPreview   bool
	service       *service.Command
	serviceExists bool
	nvmlOK        bool
	loaded        bool

	// powerMaxW overrides the power control's upper bound when non-zero.
	powerMaxW float64
	// loadedPowerMW is the loaded power limit at full resolution, used
	// while the power control still shows it.
	loadedPowerMW *uint32

	dialog *Dialog
	// onAccept runs when the open confirm dialog is accepted.
	onAccept func(PerformanceModel) (PerformanceModel, tea.Cmd)

	deps   PerformanceDeps
	styles theme.Styles
	keyMap PerformanceKeyMap
}

// NewPerformance creates the performance tab with default values.
func NewPerformance(styles theme.Styles, deps PerformanceDeps) PerformanceModel {
	m := PerformanceModel{
		selector:    components.NewSelector(styles, nil),
		buttons:     components.NewButtonGroup(styles, LabelApply, LabelCreateService, LabelSave),
		showPreview: true,
		deps:        deps,
		styles:      styles,
		keyMap:      DefaultPerformanceKeyMap(),
	}
	m.setValues(DefaultPowerLimitW, 0, 0, DefaultMinClock, DefaultMaxClock)
	m.applyFocus()
	m.refreshServiceButton()
	return m
}

func (m *PerformanceModel) setValues(powerW float64, freq, mem, minClock, maxClock int64) {
	values := [len(stepperSpecs)]float64{powerW, float64(freq), float64(mem), float64(minClock), float64(maxClock)}
	for i, spec := range stepperSpecs {
		if i == stepPower && m.powerMaxW > 0 {
			spec.Max = m.powerMaxW
		}
		m.steppers[i] = components.NewStepper(m.styles, spec, values[i])
		m.steppers[i].SetWidth(m.barWidth)
	}
}

// Init implements tea.Model.
func (m PerformanceModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the performance tab.
func (m PerformanceModel) Update(msg tea.Msg) (PerformanceModel, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		m.load(msg)
		return m, nil

	case ApplyDoneMsg:
		m.showApplyResult(msg)
		return m, nil

	case ServiceDoneMsg:
		m.showServiceResult(msg)
		return m, nil

	case SaveDoneMsg:
		if msg.Err != nil {
			m.openMessage(DialogError, "Save Failed", "Failed to save configuration: "+errors.UserMessage(msg.Err))
		} else {
			m.openMessage(DialogInfo, "Saved", fmt.Sprintf("Saved GPU %d settings to %s.", msg.Index, msg.Path))
		}
		return m, nil

	case tea.KeyMsg:
		if m.dialog != nil {
			return m.updateDialog(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

// load sets the controls from, in order of preference, the device
// readout, the installed unit and the defaults. Min and max clock are
// not readable from NVML.
func (m *PerformanceModel) load(msg LoadedMsg) {
	m.loaded = true
	m.selector = components.NewSelector(m.styles, msg.Entries)
	m.selector.Select(strconv.FormatUint(uint64(msg.Index), 10))
	m.service = msg.Service
	m.serviceExists = msg.ServiceExists
	m.nvmlOK = msg.Readout != nil

	var svc settings.Settings
	if msg.Service != nil {
		svc = msg.Service.Settings
	}

	m.powerMaxW = 0
	if msg.PowerLimits != nil && msg.PowerLimits.Max > 0 {
		m.powerMaxW = float64(msg.PowerLimits.Max) / 1000
	}

	m.loadedPowerMW = nil
	switch {
	case msg.Readout != nil && msg.Readout.PowerLimit != nil:
		m.loadedPowerMW = msg.Readout.PowerLimit
	case svc.PowerLimit != nil:
		m.loadedPowerMW = svc.PowerLimit
	}
	power := float64(DefaultPowerLimitW)
	if m.loadedPowerMW != nil {
		power = float64(*m.loadedPowerMW) / 1000
	}

	freq := int64(0)
	switch {
	case msg.Readout != nil && msg.Readout.CoreOffset != nil:
		freq = int64(*msg.Readout.CoreOffset)
	case svc.FreqOffset != nil:
		freq = int64(*svc.FreqOffset)
	}

	mem := int64(0)
	switch {
	case msg.Readout != nil && msg.Readout.MemOffset != nil:
		mem = int64(*msg.Readout.MemOffset)
	case svc.MemOffset != nil:
		mem = int64(*svc.MemOffset)
	}

	minClock, maxClock := int64(DefaultMinClock), int64(DefaultMaxClock)
	if svc.MinClock != nil {
		minClock = int64(*svc.MinClock)
	}
	if svc.MaxClock != nil {
		maxClock = int64(*svc.MaxClock)
	}

	m.setValues(power, freq, mem, minClock, maxClock)
	m.applyFocus()
	m.refreshServiceButton()

	if !m.nvmlOK {
		m.openMessage(DialogWarning, "NVML", NVMLWarning)
	}
}

func (m PerformanceModel) handleKey(msg tea.KeyMsg) (PerformanceModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Up):
		m.moveFocus(-1)
	case key.Matches(msg, m.keyMap.Down):
		m.moveFocus(1)
	case key.Matches(msg, m.keyMap.Preview):
		m.showPreview = !m.showPreview
	case key.Matches(msg, m.keyMap.Activate):
		if m.focus == fieldButtons {
			return m.press(m.buttons.FocusedIndex())
		}
		m.moveFocus(1)
	case key.Matches(msg, m.keyMap.Left):
		m.adjust(func(s *components.Stepper) { s.Decrement(false) }, m.selector.Previous, m.buttons.Previous)
	case key.Matches(msg, m.keyMap.Right):
		m.adjust(func(s *components.Stepper) { s.Increment(false) }, m.selector.Next, m.buttons.Next)
	case key.Matches(msg, m.keyMap.CoarseDown):
		m.adjust(func(s *components.Stepper) { s.Decrement(true) }, m.selector.Previous, m.buttons.Previous)
	case key.Matches(msg, m.keyMap.CoarseUp):
		m.adjust(func(s *components.Stepper) { s.Increment(true) }, m.selector.Next, m.buttons.Next)
	case key.Matches(msg, m.keyMap.Min):
		m.adjust((*components.Stepper).ToMin, nil, nil)
	case key.Matches(msg, m.keyMap.Max):
		m.adjust((*components.Stepper).ToMax, nil, nil)
	}
	return m, nil
}

// adjust applies the action matching the focused row.
func (m *PerformanceModel) adjust(step func(*components.Stepper), selector, buttons func()) {
	switch {
	case m.focus == fieldSelector:
		if selector != nil {
			selector()
		}
	case m.focus == fieldButtons:
		if buttons != nil {
			buttons()
		}
	default:
		step(&m.steppers[m.focus-fieldPower])
	}
	m.refreshServiceButton()
}

func (m *PerformanceModel) moveFocus(delta int) {
	m.focus = (m.focus + delta + fieldCount) % fieldCount
	m.applyFocus()
}

func (m *PerformanceModel) applyFocus() {
	m.selector.Blur()
	for i := range m.steppers {
		m.steppers[i].Blur()
	}
	m.buttons.Blur()

	switch {
	case m.focus == fieldSelector:
		m.selector.Focus()
	case m.focus == fieldButtons:
		m.buttons.Refocus()
	default:
		m.steppers[m.focus-fieldPower].Focus()
	}
}

// refreshServiceButton disables the service button when the installed
// unit already carries the current values, and sets its label.
func (m *PerformanceModel) refreshServiceButton() {
	b := m.buttons.Button(buttonService)
	if m.serviceExists {
		b.SetLabel(LabelUpdateService)
	} else {
		b.SetLabel(LabelCreateService)
	}
	b.SetDisabled(!m.ServiceButtonEnabled())
}

func (m PerformanceModel) press(button int) (PerformanceModel, tea.Cmd) {
	switch button {
	case buttonApply:
		return m.requestApply()
	case buttonService:
		if !m.ServiceButtonEnabled() {
			return m, nil
		}
		return m.installService()
	case buttonSave:
		return m, m.save()
	}
	return m, nil
}

func (m PerformanceModel) requestApply() (PerformanceModel, tea.Cmd) {
	if strings.TrimSpace(m.Preview()) == "" {
		m.openMessage(DialogWarning, "Apply Settings", "Command is empty")
		return m, nil
	}
	d := NewConfirmDialog(m.styles, "Are you sure?", "This will apply any changes you've made to your GPU")
	d.SetWidth(m.width)
	m.dialog = &d
	m.onAccept = func(m PerformanceModel) (PerformanceModel, tea.Cmd) {
		return m, m.apply()
	}
	return m, nil
}

// apply runs the set command through the elevation helper with the
// terminal released, so a password prompt can be answered.
func (m PerformanceModel) apply() tea.Cmd {
	cmd := m.Command()
	c := m.deps.Executor.ElevatedCmd(cmd.Program, cmd.Args()...)
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return ApplyDoneMsg{Stdout: stdout.String(), Stderr: stderr.String(), Err: err}
	})
}

// installService writes the rendered unit to a temp file and runs
// "<self> service install --unit-file <tmp>" elevated. The temp file is
// removed when the command returns.
func (m PerformanceModel) installService() (PerformanceModel, tea.Cmd) {
	cmd := m.Command()
	tmp, err := os.CreateTemp(m.deps.TempDir, "nvidia_oc-*.service")
	if err == nil {
		_, err = tmp.WriteString(service.RenderUnit(cmd))
		if cerr := tmp.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(tmp.Name())
		}
	}
	if err != nil {
		m.openMessage(DialogError, "Service", "Failed to write temp service file: "+err.Error())
		return m, nil
	}

	path := tmp.Name()
	c := m.deps.Executor.ElevatedCmd(m.deps.Program, "service", "install", "--unit-file", path)
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr
	return m, tea.ExecProcess(c, func(err error) tea.Msg {
		os.Remove(path)
		return ServiceDoneMsg{Command: cmd, Stdout: stdout.String(), Stderr: stderr.String(), Err: err}
	})
}

// save merges the current set into the settings file.
func (m PerformanceModel) save() tea.Cmd {
	path := m.deps.SettingsFile
	index := m.Index()
	s := m.Settings()
	return func() tea.Msg {
		if err := s.Validate(); err != nil {
			return SaveDoneMsg{Path: path, Index: index, Err: err}
		}
		f, err := settings.Load(path)
		if err != nil {
			if !errors.IsCode(err, errors.NotFound) {
				return SaveDoneMsg{Path: path, Index: index, Err: err}
			}
			f = &settings.File{}
		}
		f.Put(index, s)
		return SaveDoneMsg{Path: path, Index: index, Err: settings.Save(path, f)}
	}
}

func (m *PerformanceModel) showApplyResult(msg ApplyDoneMsg) {
	status, launched := exitStatus(msg.Err)
	if !launched {
		m.openMessage(DialogError, "Apply Settings", "Failed to execute: "+msg.Err.Error())
		return
	}

	var shown strings.Builder
	if msg.Stdout != "" {
		shown.WriteString("STDOUT:\n" + msg.Stdout)
	}
	if msg.Stderr != "" {
		shown.WriteString("\nSTDERR:\n" + msg.Stderr)
	}
	if shown.Len() == 0 {
		shown.WriteString(fmt.Sprintf("Process exited with status: %d", status))
	}
	m.openMessage(DialogInfo, "Apply Settings", shown.String())
}

func (m *PerformanceModel) showServiceResult(msg ServiceDoneMsg) {
	status, launched := exitStatus(msg.Err)
	switch {
	case !launched:
		m.openMessage(DialogError, "Service", "Failed to execute: "+msg.Err.Error())
	case status != 0:
		out := msg.Stdout
		if msg.Stderr != "" {
			if out != "" {
				out += "\n"
			}
			out += msg.Stderr
		}
		if out == "" {
			out = fmt.Sprintf("Process exited with status: %d", status)
		}
		m.openMessage(DialogError, "Service", "Failed to install/update service: "+out)
	default:
		action := service.ActionCreated
		if m.serviceExists {
			action = service.ActionUpdated
		}
		cmd := msg.Command
		m.service = &cmd
		m.serviceExists = true
		m.refreshServiceButton()
		m.openMessage(DialogInfo, "Service", action.Message())
	}
}

// exitStatus returns the exit code behind err. launched is false when
// the process could not be started at all.
func exitStatus(err error) (status int, launched bool) {
	if err == nil {
		return 0, true
	}
	var exitErr *osexec.ExitError
	if stderrors.As(err, &exitErr) {
		return exitErr.ExitCode(), true
	}
	return -1, false
}

func (m *PerformanceModel) openMessage(kind DialogKind, title, body string) {
	d := NewMessageDialog(m.styles, kind, title, body)
	d.SetWidth(m.width)
	m.dialog = &d
	m.onAccept = nil
}

func (m PerformanceModel) updateDialog(msg tea.KeyMsg) (PerformanceModel, tea.Cmd) {
	d, result := m.dialog.Update(msg)
	switch result {
	case DialogOpen:
		m.dialog = &d
		return m, nil
	case DialogAccepted:
		accept := m.onAccept
		m.dialog, m.onAccept = nil, nil
		if accept != nil {
			return accept(m)
		}
	default:
		m.dialog, m.onAccept = nil, nil
	}
	return m, nil
}

// View renders the performance tab.
func (m PerformanceModel) View() string {
	if m.dialog != nil && m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.dialog.View())
	}
	if m.dialog != nil {
		return m.dialog.View()
	}

	card := func(focused bool, title string, body ...string) string {
		style := m.styles.Card
		if focused {
			style = m.styles.CardFocused
		}
		if m.width > 4 {
			style = style.Copy().Width(m.width - 4)
		}
		return style.Render(lipgloss.JoinVertical(lipgloss.Left,
			append([]string{m.styles.Subtitle.Render(title)}, body...)...))
	}

	rows := make([]string, len(m.steppers))
	for i, s := range m.steppers {
		rows[i] = s.View()
	}

	sections := []string{
		card(m.focus == fieldSelector, "Device Selection", m.selector.View()),
		card(m.focus > fieldSelector && m.focus < fieldButtons, "Performance", rows...),
	}
	if m.showPreview {
		sections = append(sections, card(false, "Command Preview", m.styles.Code.Render(m.Preview())))
	}
	sections = append(sections, "  "+m.buttons.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// GPUs returns the selector entries.
func (m PerformanceModel) GPUs() []smi.Entry { return m.selector.Entries() }

// Index returns the selected GPU index.
func (m PerformanceModel) Index() uint32 {
	n, err := strconv.ParseUint(m.selector.Selected().ID, 10, 32)
	if err != nil {
		return 0
	}
	return uint32(n)
}

// Settings returns the parameter set shown by the controls. The power
// limit is converted from watts to milliwatts; the loaded milliwatt
// value is kept as long as the control still shows it.
func (m PerformanceModel) Settings() settings.Settings {
	power := uint32(math.Round(m.steppers[stepPower].Value() * 1000))
	if m.loadedPowerMW != nil {
		shown := m.steppers[stepPower]
		shown.SetValue(float64(*m.loadedPowerMW) / 1000)
		if shown.Value() == m.steppers[stepPower].Value() {
			power = *m.loadedPowerMW
		}
	}
	return settings.Settings{
		PowerLimit: settings.Uint32(power),
		FreqOffset: settings.Int32(int32(m.steppers[stepFreq].Int())),
		MemOffset:  settings.Int32(int32(m.steppers[stepMem].Int())),
		MinClock:   settings.Uint32(uint32(m.steppers[stepMinClock].Int())),
		MaxClock:   settings.Uint32(uint32(m.steppers[stepMaxClock].Int())),
	}
}

// Command returns the set invocation for the current controls.
func (m PerformanceModel) Command() service.Command {
	return service.NewCommand(m.deps.Program, m.Index(), m.Settings())
}

// Preview returns the command line shown in the preview.
func (m PerformanceModel) Preview() string {
	return m.Command().String()
}

// ServiceButtonEnabled reports whether the service button can be
// pressed: always when no unit exists, otherwise only when some control
// differs from the unit.
func (m PerformanceModel) ServiceButtonEnabled() bool {
	if !m.serviceExists || m.service == nil {
		return true
	}
	return !m.service.Equal(m.Command())
}

// ServiceLabel returns the service button label.
func (m PerformanceModel) ServiceLabel() string {
	return m.buttons.Button(buttonService).Label()
}

// Stepper returns the control for a row: 0 power, 1 core offset, 2
// memory offset, 3 min clock, 4 max clock.
func (m *PerformanceModel) Stepper(i int) *components.Stepper {
	if i < 0 || i >= len(m.steppers) {
		return nil
	}
	return &m.steppers[i]
}

// Dialog returns the open dialog, or nil.
func (m PerformanceModel) Dialog() *Dialog { return m.dialog }

// HasDialog reports whether a dialog is open.
func (m PerformanceModel) HasDialog() bool { return m.dialog != nil }

// NVMLAvailable reports whether the device values were read.
func (m PerformanceModel) NVMLAvailable() bool { return m.nvmlOK }

// Loaded reports whether the start-up state has arrived.
func (m PerformanceModel) Loaded() bool { return m.loaded }

// PreviewShown reports whether the command preview is visible.
func (m PerformanceModel) PreviewShown() bool { return m.showPreview }

// Focus returns the focused row.
func (m PerformanceModel) Focus() int { return m.focus }

// KeyMap returns the performance key bindings.
func (m PerformanceModel) KeyMap() PerformanceKeyMap { return m.keyMap }

// SetSize updates the view dimensions.
func (m *PerformanceModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	barWidth := width - 48
	if barWidth > 40 {
		barWidth = 40
	}
	if barWidth < 8 {
		barWidth = 8
	}
	m.barWidth = barWidth
	for i := range m.steppers {
		m.steppers[i].SetWidth(barWidth)
	}
	if m.dialog != nil {
		m.dialog.SetWidth(width)
	}
}
