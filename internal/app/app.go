package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"time"

	"github.com/kombatant/nvidia-oc/internal/config"
	"github.com/kombatant/nvidia-oc/internal/errors"
	"github.com/kombatant/nvidia-oc/internal/exec"
	"github.com/kombatant/nvidia-oc/internal/gpu"
	"github.com/kombatant/nvidia-oc/internal/gpu/nvml"
	"github.com/kombatant/nvidia-oc/internal/gpu/smi"
	"github.com/kombatant/nvidia-oc/internal/logging"
	"github.com/kombatant/nvidia-oc/internal/privilege"
	"github.com/kombatant/nvidia-oc/internal/service"
	"github.com/kombatant/nvidia-oc/internal/settings"
	"github.com/kombatant/nvidia-oc/internal/watch"
)

// App represents the main application with its dependencies and lifecycle.
type App struct {
	container *Container
	lifecycle *Lifecycle
	version   string
	buildTime string
	gitCommit string
}

// Options configures the application.
type Options struct {
	Version         string
	BuildTime       string
	GitCommit       string
	ShutdownTimeout time.Duration
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		Version:         "unknown",
		BuildTime:       "unknown",
		GitCommit:       "unknown",
		ShutdownTimeout: 5 * time.Second,
	}
}

// InitOptions controls a single Initialize call.
type InitOptions struct {
	// ConfigPath is the YAML application config; empty means the default location.
	ConfigPath string
	// Overrides applies command-line flags on top of the loaded config.
	Overrides func(*config.Config)
	// Interactive keeps log output off the terminal.
	Interactive bool
	// Console receives console log output, stderr when nil.
	Console io.Writer
}

// New creates a new application with the given options.
func New(opts Options) *App {
	return &App{
		container: NewContainer(),
		lifecycle: NewLifecycle(opts.ShutdownTimeout),
		version:   opts.Version,
		buildTime: opts.BuildTime,
		gitCommit: opts.GitCommit,
	}
}

// Initialize sets up all application components in order: config,
// logger, privilege manager, executor, then the GPU library, the unit
// manager and the nvidia-smi lister. Components already present in the
// container are left alone.
func (a *App) Initialize(ctx context.Context, opts InitOptions) error {
	c := a.container

	// 1. Configuration
	cfg := c.GetConfig()
	if cfg == nil {
		var err error
		cfg, err = a.loadConfig(opts.ConfigPath)
		if err != nil {
			return errors.Wrap(errors.Configuration, "failed to load config", err).WithOp("app.Initialize")
		}
	}
	if opts.Overrides != nil {
		opts.Overrides(cfg)
	}
	if err := config.NewValidator().ValidateOrError(cfg); err != nil {
		return err
	}
	c.SetConfig(cfg)

	// 2. Logger
	logger := c.GetLogger()
	if logger == nil {
		l, closer, err := logging.Setup(logging.SetupOptions{
			Level:       logging.ParseLevel(cfg.EffectiveLogLevel()),
			File:        cfg.LogFile,
			NoColor:     cfg.NoColor,
			Quiet:       cfg.Quiet,
			Interactive: opts.Interactive,
			Console:     opts.Console,
		})
		if err != nil {
			return errors.Wrap(errors.Configuration, "failed to initialize logger", err).WithOp("app.Initialize")
		}
		a.lifecycle.OnShutdown(func(context.Context) error { return closer.Close() })
		logger = l
		c.SetLogger(logger)
	}

	logger.Debug("starting application",
		"version", a.version,
		"build_time", a.buildTime,
		"git_commit", a.gitCommit,
	)

	// 3. Privilege manager
	priv := c.GetPrivilege()
	if priv == nil {
		priv = privilege.NewManager()
		c.SetPrivilege(priv)
	}
	if priv.IsRoot() {
		logger.Debug("running as root")
	} else if priv.CurrentUser() != nil {
		logger.Debug("running as user", "user", priv.CurrentUser().Username, "helper", priv.Method())
	}

	// 4. Executor
	executor := c.GetExecutor()
	if executor == nil {
		execOpts := exec.DefaultOptions()
		if cfg.CommandTimeout > 0 {
			execOpts.Timeout = cfg.CommandTimeout
		}
		executor = exec.NewExecutor(execOpts, priv)
		c.SetExecutor(executor)
	}

	// 5. Domain components
	if c.GetGPU() == nil {
		c.SetGPU(nvml.NewProvider())
	}
	if c.GetService() == nil {
		c.SetService(service.NewManager(executor,
			service.WithUnitDir(cfg.UnitDir),
			service.WithName(cfg.ServiceName),
			service.WithLogger(logger.WithPrefix("service")),
		))
	}
	if c.GetSMI() == nil {
		c.SetSMI(smi.NewParser(executor))
	}

	return c.Validate()
}

// Run executes fn with panic recovery.
func (a *App) Run(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = a.handlePanic(r)
		}
	}()
	return fn(ctx)
}

// Shutdown gracefully shuts down the application.
func (a *App) Shutdown() error {
	return a.lifecycle.Shutdown()
}

// Container returns the dependency container.
func (a *App) Container() *Container {
	return a.container
}

// Lifecycle returns the lifecycle manager.
func (a *App) Lifecycle() *Lifecycle {
	return a.lifecycle
}

// Version returns the application version.
func (a *App) Version() string {
	return a.version
}

// BuildTime returns the application build time.
func (a *App) BuildTime() string {
	return a.buildTime
}

// GitCommit returns the application git commit.
func (a *App) GitCommit() string {
	return a.gitCommit
}

// Logger returns the application logger, or a no-op logger before
// Initialize.
func (a *App) Logger() logging.Logger {
	if l := a.container.GetLogger(); l != nil {
		return l
	}
	return logging.NewNop()
}

// Config returns the application config, or the defaults before
// Initialize.
func (a *App) Config() *config.Config {
	if cfg := a.container.GetConfig(); cfg != nil {
		return cfg
	}
	return config.DefaultConfig()
}

// LoadFile reads the GPU configuration file. A missing file is reported
// as errors.ErrNoConfig.
func (a *App) LoadFile(path string) (*settings.File, error) {
	f, err := settings.Load(path)
	if err != nil {
		if errors.IsCode(err, errors.NotFound) {
			a.Logger().Debug("configuration file missing", "file", path)
			return nil, errors.ErrNoConfig
		}
		return nil, err
	}
	return f, nil
}

// ApplySettings applies s to the GPU at index. NVML initialization is
// retried for up to the configured init timeout.
func (a *App) ApplySettings(ctx context.Context, index uint32, s settings.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	return a.withGPU(ctx, true, func(lib gpu.Library) error {
		return a.applyOne(lib, index, s)
	})
}

// ApplySets applies every set of f in ascending index order, stopping
// at the first failure.
func (a *App) ApplySets(ctx context.Context, f *settings.File) error {
	if err := f.Validate(); err != nil {
		return err
	}
	return a.withGPU(ctx, true, func(lib gpu.Library) error {
		for _, index := range f.Indices() {
			if err := a.applyOne(lib, index, f.Sets[index]); err != nil {
				return err
			}
		}
		return nil
	})
}

// ApplyFile loads path and applies it.
func (a *App) ApplyFile(ctx context.Context, path string) error {
	f, err := a.LoadFile(path)
	if err != nil {
		return err
	}
	return a.ApplySets(ctx, f)
}

// Query reads the current parameters of the GPU at index. A failure to
// reach the device is returned; per-field read failures are in the
// Readout.
func (a *App) Query(ctx context.Context, index uint32) (gpu.Readout, error) {
	var readout gpu.Readout
	err := a.withGPU(ctx, false, func(lib gpu.Library) error {
		dev, err := gpu.Open(lib, index)
		if err != nil {
			return err
		}
		readout = gpu.Query(dev)
		return nil
	})
	return readout, err
}

// Watch applies path and re-applies it on every change until ctx is
// done or the process receives SIGINT or SIGTERM.
func (a *App) Watch(ctx context.Context, path string) error {
	ctx, stop := a.lifecycle.Context(ctx)
	defer stop()

	w := watch.New(path, func(ctx context.Context) error {
		return a.ApplyFile(ctx, path)
	}, watch.WithLogger(a.Logger().WithPrefix("watch")))
	return w.Run(ctx)
}

func (a *App) applyOne(lib gpu.Library, index uint32, s settings.Settings) error {
	log := a.Logger().WithFields("gpu", index)
	dev, err := gpu.Open(lib, index)
	if err != nil {
		return err
	}
	log.Debug("applying settings", "settings", s.String())
	if err := gpu.Apply(dev, s); err != nil {
		return err
	}
	log.Info("settings applied", "settings", s.String())
	return nil
}

func (a *App) withGPU(ctx context.Context, retry bool, fn func(gpu.Library) error) error {
	lib := a.container.GetGPU()
	if lib == nil {
		return errors.ErrNVMLUnavailable
	}

	var timeout time.Duration
	if retry {
		timeout = a.Config().InitTimeout
	}
	if err := gpu.InitWithRetry(ctx, lib, timeout); err != nil {
		return err
	}
	defer func() {
		if err := lib.Shutdown(); err != nil {
			a.Logger().Debug("NVML shutdown failed", "error", err)
		}
	}()
	return fn(lib)
}

func (a *App) loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = config.DefaultConfig().ConfigPath()
	}
	return config.NewLoader(path).Load()
}

// handlePanic handles a recovered panic and returns an error.
// It logs the panic with a stack trace if a logger is available.
func (a *App) handlePanic(r interface{}) error {
	stack := debug.Stack()
	logger := a.container.GetLogger()

	if logger != nil {
		logger.Error("panic recovered",
			"panic", fmt.Sprintf("%v", r),
			"stack", string(stack),
		)
	} else {
		fmt.Fprintf(os.Stderr, "PANIC: %v\n%s\n", r, stack)
	}

	return errors.Newf(errors.Unknown, "panic: %v", r)
}
