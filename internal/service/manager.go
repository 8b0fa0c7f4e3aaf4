package service

import (
	"context"
	"os"
	"path/filepath"

	"github.com/kombatant/nvidia-oc/internal/constants"
	"github.com/kombatant/nvidia-oc/internal/errors"
	"github.com/kombatant/nvidia-oc/internal/exec"
	"github.com/kombatant/nvidia-oc/internal/logging"
)

// Action tells whether Install created or replaced the unit.
type Action int

const (
	// ActionCreated means the unit did not exist and was enabled and started.
	ActionCreated Action = iota
	// ActionUpdated means an existing unit was replaced and restarted.
	ActionUpdated
)

// Message is the confirmation shown to the user.
func (a Action) Message() string {
	if a == ActionUpdated {
		return "Service updated and restarted."
	}
	return "Service created, enabled and started."
}

// Manager installs and removes the unit. Every systemctl call goes
// through the executor.
type Manager struct {
	executor exec.Executor
	logger   logging.Logger
	unitDir  string
	name     string
}

// Option configures a Manager.
type Option func(*Manager)

// WithUnitDir sets the directory holding the unit file.
func WithUnitDir(dir string) Option {
	return func(m *Manager) {
		m.unitDir = dir
	}
}

// WithName sets the service name, without the ".service" suffix.
func WithName(name string) Option {
	return func(m *Manager) {
		m.name = name
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// NewManager creates a Manager for /etc/systemd/system/nvidia_oc.service
// unless options say otherwise.
func NewManager(executor exec.Executor, opts ...Option) *Manager {
	m := &Manager{
		executor: executor,
		logger:   logging.NewNop(),
		unitDir:  constants.DefaultUnitDir,
		name:     constants.DefaultServiceName,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Name returns the systemd service name.
func (m *Manager) Name() string { return m.name }

// UnitPath returns the unit file path.
func (m *Manager) UnitPath() string {
	return filepath.Join(m.unitDir, m.name+".service")
}

// Exists reports whether the unit file is present.
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.UnitPath())
	return err == nil
}

// Read returns the unit file contents.
func (m *Manager) Read() (string, error) {
	data, err := os.ReadFile(m.UnitPath())
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrap(errors.NotFound, "service is not installed", err).WithOp("service.Read")
		}
		return "", errors.Wrap(errors.Service, "failed to read service", err).WithOp("service.Read")
	}
	return string(data), nil
}

// Current parses the installed unit. ok is false when there is no unit
// or it has no ExecStart line.
func (m *Manager) Current() (cmd Command, ok bool) {
	contents, err := m.Read()
	if err != nil {
		return Command{}, false
	}
	return ParseUnitFile(contents)
}

// Install writes contents as the unit with mode 0644, reloads systemd,
// then enables and starts a new unit or restarts an existing one.
func (m *Manager) Install(ctx context.Context, contents string) (Action, error) {
	action := ActionCreated
	if m.Exists() {
		action = ActionUpdated
	}
	log := m.logger.WithFields("unit", m.UnitPath())

	if err := m.writeUnit(contents); err != nil {
		return action, errors.Wrap(errors.Service, "failed to install service", err).WithOp("service.Install")
	}
	log.Debug("unit written")

	if err := m.systemctl(ctx, "daemon-reload"); err != nil {
		return action, errors.Wrap(errors.Service, "failed to daemon-reload", err).WithOp("service.Install")
	}

	if action == ActionCreated {
		if err := m.systemctl(ctx, "enable", "--now", m.name); err != nil {
			return action, errors.Wrap(errors.Service, "failed to enable/start service", err).WithOp("service.Install")
		}
	} else {
		if err := m.systemctl(ctx, "restart", m.name); err != nil {
			return action, errors.Wrap(errors.Service, "failed to restart service", err).WithOp("service.Install")
		}
	}

	log.Info(action.Message())
	return action, nil
}

// InstallFile installs the unit read from path.
func (m *Manager) InstallFile(ctx context.Context, path string) (Action, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ActionCreated, errors.Wrap(errors.NotFound, "failed to read unit file", err).WithOp("service.InstallFile")
	}
	return m.Install(ctx, string(data))
}

// Remove disables and stops the service, deletes the unit and reloads
// systemd.
func (m *Manager) Remove(ctx context.Context) error {
	if !m.Exists() {
		return errors.New(errors.NotFound, "service is not installed").WithOp("service.Remove")
	}

	if err := m.systemctl(ctx, "disable", "--now", m.name); err != nil {
		return errors.Wrap(errors.Service, "failed to disable/stop service", err).WithOp("service.Remove")
	}
	if err := os.Remove(m.UnitPath()); err != nil {
		return errors.Wrap(errors.Service, "failed to remove service", err).WithOp("service.Remove")
	}
	if err := m.systemctl(ctx, "daemon-reload"); err != nil {
		return errors.Wrap(errors.Service, "failed to daemon-reload", err).WithOp("service.Remove")
	}

	m.logger.Info("service removed", "unit", m.UnitPath())
	return nil
}

func (m *Manager) writeUnit(contents string) error {
	if err := os.MkdirAll(m.unitDir, 0o755); err != nil {
		return err
	}
	path := m.UnitPath()
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		return err
	}
	// WriteFile keeps the mode of an existing file.
	return os.Chmod(path, 0o644)
}

func (m *Manager) systemctl(ctx context.Context, args ...string) error {
	m.logger.Debug("running systemctl", "args", args)
	return m.executor.Execute(ctx, constants.Systemctl, args...).Err()
}
