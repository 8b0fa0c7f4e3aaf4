package views

import (
	"fmt"
	"os"
	osexec "os/exec"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kombatant/nvidia-oc/internal/exec"
	"github.com/kombatant/nvidia-oc/internal/gpu"
	"github.com/kombatant/nvidia-oc/internal/gpu/smi"
	"github.com/kombatant/nvidia-oc/internal/service"
	"github.com/kombatant/nvidia-oc/internal/settings"
)

const program = "/usr/bin/nvidia_oc"

type perfHarness struct {
	exec *exec.MockExecutor
	deps PerformanceDeps
}

func newPerfHarness(t *testing.T) *perfHarness {
	t.Helper()
	dir := t.TempDir()
	h := &perfHarness{exec: exec.NewMockExecutor()}
	h.deps = PerformanceDeps{
		Executor:     h.exec,
		Program:      program,
		SettingsFile: filepath.Join(dir, "nvidia_oc.json"),
		TempDir:      dir,
	}
	return h
}

func (h *perfHarness) model() PerformanceModel {
	m := NewPerformance(testStyles(), h.deps)
	m.SetSize(120, 40)
	return m
}

func press(m PerformanceModel, keys ...string) (PerformanceModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = m.Update(keyPress(k))
	}
	return m, cmd
}

func twoGPUs() []smi.Entry {
	return []smi.Entry{
		{ID: "0", Label: "GPU 0: NVIDIA GeForce RTX 4090"},
		{ID: "1", Label: "GPU 1: NVIDIA GeForce RTX 3080"},
	}
}

func intPtr(v int) *int { return &v }

func u32Ptr(v uint32) *uint32 { return &v }

// installedUnit is a unit matching the controls after loading it
// without NVML.
func installedUnit() *service.Command {
	cmd := service.NewCommand(program, 0, settings.Settings{
		PowerLimit: settings.Uint32(250000),
		FreqOffset: settings.Int32(100),
		MemOffset:  settings.Int32(500),
		MinClock:   settings.Uint32(0),
		MaxClock:   settings.Uint32(3800),
	})
	return &cmd
}

// toButtons moves focus from the selector to the button row.
var toButtons = []string{"down", "down", "down", "down", "down", "down"}

// =============================================================================
// Initial values
// =============================================================================

func TestPerformance_Defaults(t *testing.T) {
	m := newPerfHarness(t).model()

	assert.Equal(t, program+" set --index 0 --power-limit 400000 --freq-offset 0 --mem-offset 0 --min-clock 0 --max-clock 3800", m.Preview())
	assert.Equal(t, LabelCreateService, m.ServiceLabel())
	assert.True(t, m.ServiceButtonEnabled())
	assert.False(t, m.Loaded())
	assert.True(t, m.PreviewShown())
}

func TestPerformance_LoadPrefersNVML(t *testing.T) {
	svc := service.NewCommand(program, 1, settings.Settings{
		PowerLimit: settings.Uint32(250000),
		FreqOffset: settings.Int32(100),
		MemOffset:  settings.Int32(500),
		MinClock:   settings.Uint32(210),
		MaxClock:   settings.Uint32(2700),
	})
	m := newPerfHarness(t).model()

	m, cmd := m.Update(LoadedMsg{
		Entries:       twoGPUs(),
		Index:         1,
		Service:       &svc,
		ServiceExists: true,
		Readout:       &gpu.Readout{CoreOffset: intPtr(150), MemOffset: intPtr(1000), PowerLimit: u32Ptr(350000)},
		Device:        gpu.NewMockDevice("RTX 3080"),
	})

	assert.Nil(t, cmd)
	assert.True(t, m.Loaded())
	assert.True(t, m.NVMLAvailable())
	assert.False(t, m.HasDialog())
	assert.Equal(t, program+" set --index 1 --power-limit 350000 --freq-offset 150 --mem-offset 1000 --min-clock 210 --max-clock 2700", m.Preview())
	assert.Equal(t, LabelUpdateService, m.ServiceLabel())
	assert.True(t, m.ServiceButtonEnabled(), "controls differ from the unit")
}

func TestPerformance_LoadFallsBackToService(t *testing.T) {
	m := newPerfHarness(t).model()

	m, _ = m.Update(LoadedMsg{Entries: twoGPUs(), Service: installedUnit(), ServiceExists: true})

	assert.False(t, m.NVMLAvailable())
	require.True(t, m.HasDialog())
	assert.Equal(t, DialogWarning, m.Dialog().Kind())
	assert.Equal(t, NVMLWarning, m.Dialog().Body())
	assert.Equal(t, installedUnit().String(), m.Preview())
	assert.False(t, m.ServiceButtonEnabled(), "controls equal the unit")
}

func TestPerformance_LoadPartialReadout(t *testing.T) {
	m := newPerfHarness(t).model()

	m, _ = m.Update(LoadedMsg{
		Service:       installedUnit(),
		ServiceExists: true,
		Readout:       &gpu.Readout{PowerLimit: u32Ptr(300000)},
	})

	assert.False(t, m.HasDialog(), "a readable device does not warn")
	assert.Equal(t, program+" set --index 0 --power-limit 300000 --freq-offset 100 --mem-offset 500 --min-clock 0 --max-clock 3800", m.Preview())
}

func TestPerformance_LoadDefaultsWithoutNVMLOrService(t *testing.T) {
	m := newPerfHarness(t).model()

	m, _ = m.Update(LoadedMsg{})

	assert.True(t, m.HasDialog())
	assert.Equal(t, program+" set --index 0 --power-limit 400000 --freq-offset 0 --mem-offset 0 --min-clock 0 --max-clock 3800", m.Preview())
	assert.Equal(t, LabelCreateService, m.ServiceLabel())
}

func TestPerformance_LoadKeepsMilliwattPowerLimit(t *testing.T) {
	unit := service.NewCommand(program, 0, settings.Settings{
		PowerLimit: settings.Uint32(312345),
		FreqOffset: settings.Int32(0),
		MemOffset:  settings.Int32(0),
		MinClock:   settings.Uint32(0),
		MaxClock:   settings.Uint32(3800),
	})
	m := newPerfHarness(t).model()
	m, _ = m.Update(LoadedMsg{Service: &unit, ServiceExists: true})
	m, _ = press(m, "esc")

	assert.Equal(t, "312.3", m.Stepper(stepPower).Text())
	assert.Contains(t, m.Preview(), "--power-limit 312345")
	assert.False(t, m.ServiceButtonEnabled())

	m, _ = press(m, "down", "right")
	assert.Contains(t, m.Preview(), "--power-limit 312400")
	assert.True(t, m.ServiceButtonEnabled())

	m, _ = press(m, "left")
	assert.Contains(t, m.Preview(), "--power-limit 312345")
	assert.False(t, m.ServiceButtonEnabled())
}

func TestPerformance_PowerRangeFromDevice(t *testing.T) {
	tests := []struct {
		name   string
		limits *gpu.PowerConstraints
		want   string
	}{
		{"device max", &gpu.PowerConstraints{Min: 100000, Max: 300000}, "--power-limit 300000"},
		{"unknown range", nil, "--power-limit 450000"},
		{"zero max", &gpu.PowerConstraints{}, "--power-limit 450000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newPerfHarness(t).model()
			m, _ = m.Update(LoadedMsg{
				Readout:     &gpu.Readout{PowerLimit: u32Ptr(280000)},
				PowerLimits: tt.limits,
			})
			assert.Contains(t, m.Preview(), "--power-limit 280000")

			m, _ = press(m, "down", "end")
			assert.Contains(t, m.Preview(), tt.want)
			m, _ = press(m, "shift+right")
			assert.Contains(t, m.Preview(), tt.want)
		})
	}
}

// =============================================================================
// Controls
// =============================================================================

func TestPerformance_ServiceButtonFollowsControls(t *testing.T) {
	m := newPerfHarness(t).model()
	m, _ = m.Update(LoadedMsg{Service: installedUnit(), ServiceExists: true})
	m, _ = press(m, "esc")
	require.False(t, m.HasDialog())
	require.False(t, m.ServiceButtonEnabled())

	m, _ = press(m, "down", "right")
	assert.Contains(t, m.Preview(), "--power-limit 250100")
	assert.True(t, m.ServiceButtonEnabled())

	m, _ = press(m, "left")
	assert.False(t, m.ServiceButtonEnabled())
}

func TestPerformance_Steps(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want string
	}{
		{"power fine", []string{"down", "right"}, "--power-limit 400100"},
		{"power coarse", []string{"down", "shift+right"}, "--power-limit 401000"},
		{"power max", []string{"down", "end"}, "--power-limit 450000"},
		{"freq negative", []string{"down", "down", "shift+left", "left"}, "--freq-offset -11"},
		{"mem coarse", []string{"down", "down", "down", "shift+right"}, "--mem-offset 10"},
		{"min clock max", []string{"down", "down", "down", "down", "end"}, "--min-clock 5000"},
		{"max clock min", []string{"up", "up", "home"}, "--max-clock 0"},
		{"gpu selector", []string{"right"}, "--index 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newPerfHarness(t).model()
			m, _ = m.Update(LoadedMsg{Entries: twoGPUs(), Readout: &gpu.Readout{}})
			m, _ = press(m, tt.keys...)
			assert.Contains(t, m.Preview(), tt.want)
		})
	}
}

func TestPerformance_FocusWraps(t *testing.T) {
	m := newPerfHarness(t).model()
	assert.Equal(t, fieldSelector, m.Focus())

	m, _ = press(m, "up")
	assert.Equal(t, fieldButtons, m.Focus())

	m, _ = press(m, "down")
	assert.Equal(t, fieldSelector, m.Focus())
}

func TestPerformance_TogglePreview(t *testing.T) {
	m := newPerfHarness(t).model()
	assert.Contains(t, m.View(), "Command Preview")

	m, _ = press(m, "p")
	assert.False(t, m.PreviewShown())
	assert.NotContains(t, m.View(), "Command Preview")
}

func TestPerformance_View(t *testing.T) {
	m := newPerfHarness(t).model()
	m, _ = m.Update(LoadedMsg{Entries: twoGPUs(), Readout: &gpu.Readout{}})

	view := m.View()
	assert.Contains(t, view, "Device Selection")
	assert.Contains(t, view, "Power Limit")
	assert.Contains(t, view, "Apply Settings")
	assert.Contains(t, view, "Create Service")
	assert.Contains(t, view, "Save to File")
}

// =============================================================================
// Apply
// =============================================================================

func TestPerformance_ApplyAsksFirst(t *testing.T) {
	h := newPerfHarness(t)
	m := h.model()

	m, cmd := press(m, append(toButtons, "enter")...)
	assert.Nil(t, cmd)
	require.True(t, m.HasDialog())
	assert.Equal(t, "Are you sure?", m.Dialog().Title())
	assert.Equal(t, "This will apply any changes you've made to your GPU", m.Dialog().Body())

	m, cmd = press(m, "n")
	assert.Nil(t, cmd)
	assert.False(t, m.HasDialog())
	assert.Empty(t, h.exec.Calls())
}

func TestPerformance_ApplyRunsElevated(t *testing.T) {
	h := newPerfHarness(t)
	m := h.model()

	m, _ = press(m, append(toButtons, "enter")...)
	m, cmd := press(m, "y")

	assert.NotNil(t, cmd)
	assert.False(t, m.HasDialog())
	require.Len(t, h.exec.Calls(), 1)
	call := h.exec.LastCall()
	assert.True(t, call.Elevated)
	assert.Equal(t, program+" set --index 0 --power-limit 400000 --freq-offset 0 --mem-offset 0 --min-clock 0 --max-clock 3800", call.Line())
}

func exitError(t *testing.T, code int) error {
	t.Helper()
	err := osexec.Command("sh", "-c", fmt.Sprintf("exit %d", code)).Run()
	require.Error(t, err)
	return err
}

func TestPerformance_ApplyResult(t *testing.T) {
	tests := []struct {
		name string
		msg  func(t *testing.T) ApplyDoneMsg
		kind DialogKind
		body string
	}{
		{"output", func(*testing.T) ApplyDoneMsg {
			return ApplyDoneMsg{Stdout: "Successfully set GPU parameters.\n", Stderr: "note\n"}
		}, DialogInfo, "STDOUT:\nSuccessfully set GPU parameters.\n\nSTDERR:\nnote\n"},
		{"stderr only", func(t *testing.T) ApplyDoneMsg {
			return ApplyDoneMsg{Stderr: "Error: Failed to set GPU power limit\n", Err: exitError(t, 4)}
		}, DialogInfo, "\nSTDERR:\nError: Failed to set GPU power limit\n"},
		{"no output", func(*testing.T) ApplyDoneMsg { return ApplyDoneMsg{} }, DialogInfo, "Process exited with status: 0"},
		{"no output failure", func(t *testing.T) ApplyDoneMsg { return ApplyDoneMsg{Err: exitError(t, 126)} }, DialogInfo, "Process exited with status: 126"},
		{"not started", func(*testing.T) ApplyDoneMsg {
			return ApplyDoneMsg{Err: fmt.Errorf("exec: \"pkexec\": executable file not found in $PATH")}
		}, DialogError, "Failed to execute: exec: \"pkexec\": executable file not found in $PATH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newPerfHarness(t).model()
			m, _ = m.Update(tt.msg(t))
			require.True(t, m.HasDialog())
			assert.Equal(t, tt.kind, m.Dialog().Kind())
			assert.Equal(t, tt.body, m.Dialog().Body())
		})
	}
}

// =============================================================================
// Service
// =============================================================================

func TestPerformance_InstallService(t *testing.T) {
	h := newPerfHarness(t)
	m := h.model()

	m, cmd := press(m, append(toButtons, "right", "enter")...)
	require.NotNil(t, cmd)
	assert.False(t, m.HasDialog())

	call := h.exec.LastCall()
	assert.True(t, call.Elevated)
	assert.Equal(t, program, call.Command)
	require.Len(t, call.Args, 4)
	assert.Equal(t, []string{"service", "install", "--unit-file"}, call.Args[:3])

	unit, err := os.ReadFile(call.Args[3])
	require.NoError(t, err)
	assert.Contains(t, string(unit), "ExecStart="+program+" set --index 0 --power-limit 400000 --freq-offset 0 --mem-offset 0 --min-clock 0 --max-clock 3800\n")
	assert.True(t, strings.HasPrefix(call.Args[3], h.deps.TempDir))
}

func TestPerformance_ServiceResult(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		m := newPerfHarness(t).model()
		m, _ = m.Update(ServiceDoneMsg{Command: m.Command()})

		require.True(t, m.HasDialog())
		assert.Equal(t, "Service created, enabled and started.", m.Dialog().Body())
		assert.Equal(t, LabelUpdateService, m.ServiceLabel())
		assert.False(t, m.ServiceButtonEnabled())
	})

	t.Run("updated", func(t *testing.T) {
		m := newPerfHarness(t).model()
		m, _ = m.Update(LoadedMsg{Service: installedUnit(), ServiceExists: true, Readout: &gpu.Readout{PowerLimit: u32Ptr(300000)}})
		m, _ = m.Update(ServiceDoneMsg{Command: m.Command()})

		assert.Equal(t, "Service updated and restarted.", m.Dialog().Body())
		assert.False(t, m.ServiceButtonEnabled())
	})

	t.Run("failed with output", func(t *testing.T) {
		m := newPerfHarness(t).model()
		m, _ = m.Update(ServiceDoneMsg{Stdout: "partial", Stderr: "Error: failed to daemon-reload", Err: exitError(t, 1)})

		assert.Equal(t, DialogError, m.Dialog().Kind())
		assert.Equal(t, "Failed to install/update service: partial\nError: failed to daemon-reload", m.Dialog().Body())
		assert.Equal(t, LabelCreateService, m.ServiceLabel())
	})

	t.Run("failed silently", func(t *testing.T) {
		m := newPerfHarness(t).model()
		m, _ = m.Update(ServiceDoneMsg{Err: exitError(t, 126)})

		assert.Equal(t, "Failed to install/update service: Process exited with status: 126", m.Dialog().Body())
	})
}

func TestPerformance_ServiceTempFileFailure(t *testing.T) {
	h := newPerfHarness(t)
	h.deps.TempDir = filepath.Join(h.deps.TempDir, "missing")
	m := h.model()

	m, cmd := press(m, append(toButtons, "right", "enter")...)

	assert.Nil(t, cmd)
	require.True(t, m.HasDialog())
	assert.Equal(t, DialogError, m.Dialog().Kind())
	assert.True(t, strings.HasPrefix(m.Dialog().Body(), "Failed to write temp service file: "))
	assert.Empty(t, h.exec.Calls())
}

func TestPerformance_DisabledServiceButton(t *testing.T) {
	h := newPerfHarness(t)
	m := h.model()
	m, _ = m.Update(LoadedMsg{Service: installedUnit(), ServiceExists: true})
	m, _ = press(m, "esc")

	m, cmd := press(m, append(toButtons, "right", "enter")...)

	assert.Nil(t, cmd)
	assert.False(t, m.HasDialog())
	assert.Empty(t, h.exec.Calls())
}

// =============================================================================
// Save
// =============================================================================

func TestPerformance_Save(t *testing.T) {
	h := newPerfHarness(t)
	require.NoError(t, settings.Save(h.deps.SettingsFile, &settings.File{Sets: map[uint32]settings.Settings{
		1: {FreqOffset: settings.Int32(50)},
	}}))
	m := h.model()

	m, cmd := press(m, append(toButtons, "left", "enter")...)
	require.NotNil(t, cmd)

	msg := cmd()
	done, ok := msg.(SaveDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.Err)

	f, err := settings.Load(h.deps.SettingsFile)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1}, f.Indices())
	assert.Equal(t, uint32(400000), *f.Sets[0].PowerLimit)
	assert.Equal(t, int32(50), *f.Sets[1].FreqOffset)

	m, _ = m.Update(msg)
	assert.Equal(t, fmt.Sprintf("Saved GPU 0 settings to %s.", h.deps.SettingsFile), m.Dialog().Body())
}

func TestPerformance_SaveCreatesFile(t *testing.T) {
	h := newPerfHarness(t)
	m := h.model()

	_, cmd := press(m, append(toButtons, "left", "enter")...)
	require.NotNil(t, cmd)
	done := cmd().(SaveDoneMsg)
	require.NoError(t, done.Err)

	f, err := settings.Load(h.deps.SettingsFile)
	require.NoError(t, err)
	assert.Equal(t, uint32(3800), *f.Sets[0].MaxClock)
}

func TestPerformance_SaveRejectsInvertedClocks(t *testing.T) {
	h := newPerfHarness(t)
	m := h.model()
	m, _ = press(m, "down", "down", "down", "down", "end")

	_, cmd := press(m, "down", "down", "left", "enter")
	require.NotNil(t, cmd)
	msg := cmd()
	require.Error(t, msg.(SaveDoneMsg).Err)

	m, _ = m.Update(msg)
	assert.Equal(t, DialogError, m.Dialog().Kind())
	assert.Contains(t, m.Dialog().Body(), "Failed to save configuration:")
	_, err := os.Stat(h.deps.SettingsFile)
	assert.True(t, os.IsNotExist(err))
}
