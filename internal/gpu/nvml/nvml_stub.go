//go:build nonvml
// +build nonvml

package nvml

import (
	"github.com/kombatant/nvidia-oc/internal/errors"
	"github.com/kombatant/nvidia-oc/internal/gpu"
)

// Provider stub, used when building without the NVIDIA libraries.
type Provider struct{}

func NewProvider() *Provider {
	return &Provider{}
}

func (p *Provider) Init() error {
	return errors.Wrap(errors.NVML, "built with nonvml tag", errors.ErrNVMLUnavailable).WithOp("nvml.Init")
}

func (p *Provider) Shutdown() error {
	return nil
}

func (p *Provider) DeviceCount() (int, error) {
	return 0, errors.ErrNVMLUnavailable
}

func (p *Provider) DeviceByIndex(int) (gpu.Device, error) {
	return nil, errors.ErrNVMLUnavailable
}

// Compile-time interface check
var _ gpu.Library = (*Provider)(nil)
