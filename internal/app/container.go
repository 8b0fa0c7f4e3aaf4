// Package app wires nvidia_oc together: it loads configuration, builds
// the logger, executor, privilege manager and GPU library, and runs the
// apply, query and watch operations on top of them.
package app

import (
	"sync"

	"github.com/kombatant/nvidia-oc/internal/config"
	"github.com/kombatant/nvidia-oc/internal/errors"
	"github.com/kombatant/nvidia-oc/internal/exec"
	"github.com/kombatant/nvidia-oc/internal/gpu"
	"github.com/kombatant/nvidia-oc/internal/gpu/smi"
	"github.com/kombatant/nvidia-oc/internal/logging"
	"github.com/kombatant/nvidia-oc/internal/privilege"
	"github.com/kombatant/nvidia-oc/internal/service"
)

// Container holds all application dependencies. Anything set before
// App.Initialize is kept, which is how tests inject mocks.
type Container struct {
	mu        sync.RWMutex
	Config    *config.Config
	Logger    logging.Logger
	Executor  exec.Executor
	Privilege *privilege.Manager
	GPU       gpu.Library
	Service   *service.Manager
	SMI       smi.Lister
}

// NewContainer creates a new dependency container.
func NewContainer() *Container {
	return &Container{}
}

// SetConfig sets the configuration.
func (c *Container) SetConfig(cfg *config.Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Config = cfg
}

// SetLogger sets the logger.
func (c *Container) SetLogger(l logging.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Logger = l
}

// SetExecutor sets the command executor.
func (c *Container) SetExecutor(e exec.Executor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Executor = e
}

// SetPrivilege sets the privilege manager.
func (c *Container) SetPrivilege(p *privilege.Manager) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Privilege = p
}

// SetGPU sets the GPU library.
func (c *Container) SetGPU(lib gpu.Library) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.GPU = lib
}

// SetService sets the systemd unit manager.
func (c *Container) SetService(s *service.Manager) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Service = s
}

// SetSMI sets the nvidia-smi lister.
func (c *Container) SetSMI(l smi.Lister) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.SMI = l
}

// GetConfig returns the configuration.
func (c *Container) GetConfig() *config.Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Config
}

// GetLogger returns the logger.
func (c *Container) GetLogger() logging.Logger {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Logger
}

// GetExecutor returns the command executor.
func (c *Container) GetExecutor() exec.Executor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Executor
}

// GetPrivilege returns the privilege manager.
func (c *Container) GetPrivilege() *privilege.Manager {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Privilege
}

// GetGPU returns the GPU library.
func (c *Container) GetGPU() gpu.Library {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.GPU
}

// GetService returns the systemd unit manager.
func (c *Container) GetService() *service.Manager {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Service
}

// GetSMI returns the nvidia-smi lister.
func (c *Container) GetSMI() smi.Lister {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.SMI
}

// Validate checks that all required dependencies are set.
func (c *Container) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	missing := func(what string) error {
		return errors.Newf(errors.Configuration, "%s not initialized", what).WithOp("app.Validate")
	}
	switch {
	case c.Config == nil:
		return missing("config")
	case c.Logger == nil:
		return missing("logger")
	case c.Executor == nil:
		return missing("executor")
	case c.Privilege == nil:
		return missing("privilege manager")
	case c.GPU == nil:
		return missing("GPU library")
	case c.Service == nil:
		return missing("service manager")
	case c.SMI == nil:
		return missing("nvidia-smi lister")
	}
	return nil
}
