package app

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kombatant/nvidia-oc/internal/config"
	"github.com/kombatant/nvidia-oc/internal/errors"
	"github.com/kombatant/nvidia-oc/internal/exec"
	"github.com/kombatant/nvidia-oc/internal/gpu"
	"github.com/kombatant/nvidia-oc/internal/logging"
	"github.com/kombatant/nvidia-oc/internal/privilege"
	"github.com/kombatant/nvidia-oc/internal/settings"
)

// newTestApp returns an initialized App backed by mocks.
func newTestApp(t *testing.T, devices ...*gpu.MockDevice) (*App, *gpu.MockLibrary) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.UnitDir = t.TempDir()
	cfg.InitTimeout = 200 * time.Millisecond

	priv := privilege.NewManager()
	priv.SetRoot(true)
	lib := gpu.NewMockLibrary(devices...)

	a := New(DefaultOptions())
	c := a.Container()
	c.SetConfig(cfg)
	c.SetLogger(logging.NewNop())
	c.SetPrivilege(priv)
	c.SetExecutor(exec.NewMockExecutor())
	c.SetGPU(lib)

	require.NoError(t, a.Initialize(context.Background(), InitOptions{}))
	return a, lib
}

func writeFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nvidia_oc.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

// =============================================================================
// Container Tests
// =============================================================================

func TestNewContainer(t *testing.T) {
	c := NewContainer()
	assert.NotNil(t, c)
	assert.Nil(t, c.GetConfig())
	assert.Nil(t, c.GetLogger())
	assert.Nil(t, c.GetExecutor())
	assert.Nil(t, c.GetPrivilege())
	assert.Nil(t, c.GetGPU())
	assert.Nil(t, c.GetService())
	assert.Nil(t, c.GetSMI())
}

func TestContainer_Validate(t *testing.T) {
	c := NewContainer()

	err := c.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.Configuration))
	assert.Contains(t, err.Error(), "config not initialized")

	c.SetConfig(config.DefaultConfig())
	assert.Contains(t, c.Validate().Error(), "logger not initialized")

	c.SetLogger(logging.NewNop())
	assert.Contains(t, c.Validate().Error(), "executor not initialized")
}

func TestContainer_ConcurrentAccess(t *testing.T) {
	c := NewContainer()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.SetLogger(logging.NewNop())
			c.SetGPU(gpu.NewMockLibrary())
		}()
		go func() {
			defer wg.Done()
			_ = c.GetLogger()
			_ = c.GetGPU()
		}()
	}
	wg.Wait()
}

// =============================================================================
// Lifecycle Tests
// =============================================================================

func TestLifecycle_Shutdown_LIFO(t *testing.T) {
	l := NewLifecycle(time.Second)
	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		l.OnShutdown(func(context.Context) error {
			order = append(order, i)
			return nil
		})
	}

	require.NoError(t, l.Shutdown())
	assert.Equal(t, []int{3, 2, 1}, order)
}

func TestLifecycle_Shutdown_ReturnsLastErrorOnce(t *testing.T) {
	l := NewLifecycle(time.Second)
	calls := 0
	l.OnShutdown(func(context.Context) error { calls++; return fmt.Errorf("first") })
	l.OnShutdown(func(context.Context) error { calls++; return fmt.Errorf("second") })

	err := l.Shutdown()
	require.Error(t, err)
	assert.Equal(t, "first", err.Error())

	assert.NoError(t, l.Shutdown())
	assert.Equal(t, 2, calls)
}

func TestLifecycle_Context_CancelledByShutdown(t *testing.T) {
	l := NewLifecycle(time.Second)
	ctx, stop := l.Context(context.Background())
	defer stop()

	go func() { _ = l.Shutdown() }()

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context not cancelled by shutdown")
	}
}

// =============================================================================
// App Tests
// =============================================================================

func TestApp_Initialize_Defaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	a := New(DefaultOptions())
	var console bytes.Buffer

	err := a.Initialize(context.Background(), InitOptions{
		Console: &console,
		Overrides: func(cfg *config.Config) {
			cfg.LogLevel = "debug"
		},
	})

	require.NoError(t, err)
	c := a.Container()
	assert.NotNil(t, c.GetGPU())
	assert.NotNil(t, c.GetService())
	assert.NotNil(t, c.GetSMI())
	assert.Equal(t, "debug", a.Config().LogLevel)
	assert.Equal(t, "/etc/systemd/system/nvidia_oc.service", c.GetService().UnitPath())
	assert.Contains(t, console.String(), "starting application")
	require.NoError(t, a.Shutdown())
}

func TestApp_Initialize_InvalidOverride(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	a := New(DefaultOptions())

	err := a.Initialize(context.Background(), InitOptions{
		Overrides: func(cfg *config.Config) {
			cfg.Verbose = true
			cfg.Quiet = true
		},
	})

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.Configuration))
	assert.Contains(t, err.Error(), "verbose and quiet")
}

func TestApp_Initialize_InvalidConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: [broken"), 0o644))

	err := New(DefaultOptions()).Initialize(context.Background(), InitOptions{ConfigPath: path})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestApp_Initialize_LogFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "nvidia_oc.log")
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("log_file: "+logFile+"\nlog_level: debug\n"), 0o644))

	a := New(DefaultOptions())
	require.NoError(t, a.Initialize(context.Background(), InitOptions{ConfigPath: cfgFile, Interactive: true}))
	a.Logger().Info("hello from test")
	require.NoError(t, a.Shutdown())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from test")
}

func TestApp_Run_PanicRecovery(t *testing.T) {
	a, _ := newTestApp(t)

	err := a.Run(context.Background(), func(context.Context) error {
		panic("boom")
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic: boom")
}

func TestApp_HandlePanic_WithoutLogger(t *testing.T) {
	a := New(DefaultOptions())
	err := a.handlePanic("no logger")
	assert.Contains(t, err.Error(), "no logger")
}

func TestApp_Accessors(t *testing.T) {
	a := New(Options{Version: "1.2.3", BuildTime: "now", GitCommit: "abc", ShutdownTimeout: time.Second})
	assert.Equal(t, "1.2.3", a.Version())
	assert.Equal(t, "now", a.BuildTime())
	assert.Equal(t, "abc", a.GitCommit())
	assert.NotNil(t, a.Lifecycle())
	assert.NotNil(t, a.Logger())
	assert.Equal(t, config.DefaultConfig().SettingsFile, a.Config().SettingsFile)
}

// =============================================================================
// GPU operations
// =============================================================================

func TestApp_ApplySettings(t *testing.T) {
	dev := gpu.NewMockDevice("RTX 4090")
	a, lib := newTestApp(t, dev)

	err := a.ApplySettings(context.Background(), 0, settings.Settings{
		FreqOffset: settings.Int32(150),
		PowerLimit: settings.Uint32(300000),
	})

	require.NoError(t, err)
	assert.Equal(t, 150, dev.GpcOffset)
	assert.Equal(t, uint32(300000), dev.PowerLimit)
	assert.Equal(t, 1, lib.InitCalls)
	assert.Equal(t, 1, lib.ShutdownCalls)
}

func TestApp_ApplySettings_Invalid(t *testing.T) {
	a, lib := newTestApp(t, gpu.NewMockDevice("x"))

	err := a.ApplySettings(context.Background(), 0, settings.Settings{MinClock: settings.Uint32(100)})

	assert.True(t, errors.IsCode(err, errors.Validation))
	assert.Equal(t, 0, lib.InitCalls)
}

func TestApp_ApplySettings_RetriesInit(t *testing.T) {
	dev := gpu.NewMockDevice("x")
	a, lib := newTestApp(t, dev)
	a.Config().InitTimeout = 5 * time.Second
	lib.InitErr = fmt.Errorf("Driver Not Loaded")
	lib.InitFailures = 2

	require.NoError(t, a.ApplySettings(context.Background(), 0, settings.Settings{MemOffset: settings.Int32(-100)}))

	assert.Equal(t, 3, lib.InitCalls)
	assert.Equal(t, -100, dev.MemOffset)
}

func TestApp_ApplySettings_NoDevice(t *testing.T) {
	a, lib := newTestApp(t)

	err := a.ApplySettings(context.Background(), 3, settings.Settings{FreqOffset: settings.Int32(1)})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to get GPU 3")
	assert.Equal(t, 1, lib.ShutdownCalls)
}

func TestApp_ApplyFile(t *testing.T) {
	dev0 := gpu.NewMockDevice("a")
	dev1 := gpu.NewMockDevice("b")
	a, _ := newTestApp(t, dev0, dev1)
	path := writeFile(t, `{"sets": {"1": {"memOffset": 500}, "0": {"freqOffset": -50, "minClock": 210, "maxClock": 2800}}}`)

	require.NoError(t, a.ApplyFile(context.Background(), path))

	assert.Equal(t, -50, dev0.GpcOffset)
	assert.Equal(t, [2]uint32{210, 2800}, dev0.LockedClocks)
	assert.Equal(t, 500, dev1.MemOffset)
}

func TestApp_ApplyFile_StopsAtFirstFailure(t *testing.T) {
	dev0 := gpu.NewMockDevice("a").Fail("SetPowerManagementLimit", fmt.Errorf("No Permission"))
	dev1 := gpu.NewMockDevice("b")
	a, _ := newTestApp(t, dev0, dev1)
	path := writeFile(t, `{"sets": {"0": {"powerLimit": 100000}, "1": {"freqOffset": 10}}}`)

	err := a.ApplyFile(context.Background(), path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to set GPU power limit")
	assert.Equal(t, 0, dev1.GpcOffset)
}

func TestApp_LoadFile_Errors(t *testing.T) {
	a, _ := newTestApp(t)

	_, err := a.LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Equal(t, errors.ErrNoConfig, err)
	assert.Contains(t, err.Error(), "Configuration file not found and no valid arguments were provided.")

	_, err = a.LoadFile(writeFile(t, `{"sets": `))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.Configuration))
}

func TestApp_Query(t *testing.T) {
	dev := gpu.NewMockDevice("a").Fail("MemClkVfOffset", fmt.Errorf("Not Supported"))
	dev.GpcOffset = 120
	dev.PowerLimit = 275000
	a, lib := newTestApp(t, dev)
	lib.InitErr = fmt.Errorf("should not retry")
	lib.InitFailures = 0

	_, err := a.Query(context.Background(), 0)
	require.Error(t, err)
	assert.Equal(t, 1, lib.InitCalls, "query does not retry init")

	lib.InitErr = nil
	readout, err := a.Query(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"GPU core clock offset: 120 MHz",
		"GPU power limit: 275 W",
	}, readout.Lines())
	assert.Len(t, readout.Errors, 1)
}

func TestApp_Watch(t *testing.T) {
	dev := gpu.NewMockDevice("a")
	a, _ := newTestApp(t, dev)
	path := writeFile(t, `{"sets": {"0": {"freqOffset": 10}}}`)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Watch(ctx, path) }()

	assert.Eventually(t, func() bool {
		return len(dev.CallsSnapshot()) > 0
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}
