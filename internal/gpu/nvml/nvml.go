//go:build !nonvml
// +build !nonvml

// Package nvml adapts github.com/NVIDIA/go-nvml to the gpu.Library and
// gpu.Device interfaces. Build with -tags nonvml to get a stub that
// reports NVML as unavailable.
package nvml

import (
	"github.com/NVIDIA/go-nvml/pkg/nvml"

	"github.com/kombatant/nvidia-oc/internal/errors"
	"github.com/kombatant/nvidia-oc/internal/gpu"
)

// Provider is the NVML-backed gpu.Library.
type Provider struct{}

// NewProvider returns a Provider. Call Init before use.
func NewProvider() *Provider {
	return &Provider{}
}

func fail(code errors.Code, what string, ret nvml.Return) *errors.Error {
	return errors.Newf(code, "%s: %s", what, nvml.ErrorString(ret))
}

func (p *Provider) Init() error {
	if ret := nvml.Init(); ret != nvml.SUCCESS {
		return fail(errors.NVML, "failed to initialize NVML", ret).WithOp("nvml.Init")
	}
	return nil
}

func (p *Provider) Shutdown() error {
	if ret := nvml.Shutdown(); ret != nvml.SUCCESS {
		return fail(errors.NVML, "NVML shutdown failed", ret).WithOp("nvml.Shutdown")
	}
	return nil
}

func (p *Provider) DeviceCount() (int, error) {
	count, ret := nvml.DeviceGetCount()
	if ret != nvml.SUCCESS {
		return 0, fail(errors.NVML, "failed to get device count", ret)
	}
	return count, nil
}

func (p *Provider) DeviceByIndex(index int) (gpu.Device, error) {
	dev, ret := nvml.DeviceGetHandleByIndex(index)
	if ret != nvml.SUCCESS {
		return nil, fail(errors.Device, "failed to get GPU", ret).WithOp("nvml.DeviceByIndex")
	}
	return &device{dev: dev}, nil
}

type device struct {
	dev nvml.Device
}

func (d *device) Name() (string, error) {
	name, ret := d.dev.GetName()
	if ret != nvml.SUCCESS {
		return "", fail(errors.Device, "failed to get name", ret)
	}
	return name, nil
}

func (d *device) GpcClkVfOffset() (int, error) {
	v, ret := d.dev.GetGpcClkVfOffset()
	if ret != nvml.SUCCESS {
		return 0, fail(errors.Device, "failed to get GPU core clock offset", ret)
	}
	return v, nil
}

func (d *device) SetGpcClkVfOffset(offset int) error {
	if ret := d.dev.SetGpcClkVfOffset(offset); ret != nvml.SUCCESS {
		return fail(errors.Device, "nvmlDeviceSetGpcClkVfOffset", ret)
	}
	return nil
}

func (d *device) MemClkVfOffset() (int, error) {
	v, ret := d.dev.GetMemClkVfOffset()
	if ret != nvml.SUCCESS {
		return 0, fail(errors.Device, "failed to get GPU memory clock offset", ret)
	}
	return v, nil
}

func (d *device) SetMemClkVfOffset(offset int) error {
	if ret := d.dev.SetMemClkVfOffset(offset); ret != nvml.SUCCESS {
		return fail(errors.Device, "nvmlDeviceSetMemClkVfOffset", ret)
	}
	return nil
}

func (d *device) EnforcedPowerLimit() (uint32, error) {
	v, ret := d.dev.GetEnforcedPowerLimit()
	if ret != nvml.SUCCESS {
		return 0, fail(errors.Device, "failed to get GPU power limit", ret)
	}
	return v, nil
}

func (d *device) SetPowerManagementLimit(limit uint32) error {
	if ret := d.dev.SetPowerManagementLimit(limit); ret != nvml.SUCCESS {
		return fail(errors.Device, "nvmlDeviceSetPowerManagementLimit", ret)
	}
	return nil
}

func (d *device) PowerManagementLimitConstraints() (gpu.PowerConstraints, error) {
	lo, hi, ret := d.dev.GetPowerManagementLimitConstraints()
	if ret != nvml.SUCCESS {
		return gpu.PowerConstraints{}, fail(errors.Device, "failed to get power limit constraints", ret)
	}
	return gpu.PowerConstraints{Min: lo, Max: hi}, nil
}

func (d *device) SetGpuLockedClocks(minMHz, maxMHz uint32) error {
	if ret := d.dev.SetGpuLockedClocks(minMHz, maxMHz); ret != nvml.SUCCESS {
		return fail(errors.Device, "nvmlDeviceSetGpuLockedClocks", ret)
	}
	return nil
}

func (d *device) SetMemoryLockedClocks(minMHz, maxMHz uint32) error {
	if ret := d.dev.SetMemoryLockedClocks(minMHz, maxMHz); ret != nvml.SUCCESS {
		return fail(errors.Device, "nvmlDeviceSetMemoryLockedClocks", ret)
	}
	return nil
}

func (d *device) ClockInfo(clock gpu.ClockType) (uint32, error) {
	ct := nvml.CLOCK_GRAPHICS
	if clock == gpu.ClockMemory {
		ct = nvml.CLOCK_MEM
	}
	v, ret := d.dev.GetClockInfo(ct)
	if ret != nvml.SUCCESS {
		return 0, fail(errors.Device, "failed to get "+clock.String()+" clock", ret)
	}
	return v, nil
}

func (d *device) Temperature() (uint32, error) {
	v, ret := d.dev.GetTemperature(nvml.TEMPERATURE_GPU)
	if ret != nvml.SUCCESS {
		return 0, fail(errors.Device, "failed to get temperature", ret)
	}
	return v, nil
}

func (d *device) NumFans() (int, error) {
	n, ret := d.dev.GetNumFans()
	if ret != nvml.SUCCESS {
		return 0, fail(errors.Device, "failed to get fan count", ret)
	}
	return n, nil
}

func (d *device) FanSpeed(fan int) (uint32, error) {
	v, ret := d.dev.GetFanSpeed_v2(fan)
	if ret != nvml.SUCCESS {
		return 0, fail(errors.Device, "failed to get fan speed", ret)
	}
	return v, nil
}

func (d *device) UtilizationRates() (gpu.Utilization, error) {
	u, ret := d.dev.GetUtilizationRates()
	if ret != nvml.SUCCESS {
		return gpu.Utilization{}, fail(errors.Device, "failed to get utilization", ret)
	}
	return gpu.Utilization{GPU: u.Gpu, Memory: u.Memory}, nil
}

func (d *device) PowerUsage() (uint32, error) {
	v, ret := d.dev.GetPowerUsage()
	if ret != nvml.SUCCESS {
		return 0, fail(errors.Device, "failed to get power usage", ret)
	}
	return v, nil
}

func (d *device) MemoryInfo() (gpu.MemoryInfo, error) {
	m, ret := d.dev.GetMemoryInfo()
	if ret != nvml.SUCCESS {
		return gpu.MemoryInfo{}, fail(errors.Device, "failed to get memory info", ret)
	}
	return gpu.MemoryInfo{Total: m.Total, Used: m.Used, Free: m.Free}, nil
}

// Compile-time interface checks
var (
	_ gpu.Library = (*Provider)(nil)
	_ gpu.Device  = (*device)(nil)
)
