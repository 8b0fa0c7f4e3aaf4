// Package gpu is the narrow view of NVML that nvidia_oc needs: parameter
// setters, the readouts behind `get`, and the telemetry shown by the
// interactive UI. The cgo-backed implementation lives in gpu/nvml.
package gpu

import "fmt"

// ClockType selects a clock domain.
type ClockType int

const (
	ClockGraphics ClockType = iota
	ClockMemory
)

// String returns the clock domain name.
func (c ClockType) String() string {
	switch c {
	case ClockGraphics:
		return "graphics"
	case ClockMemory:
		return "memory"
	default:
		return fmt.Sprintf("ClockType(%d)", int(c))
	}
}

// Utilization is the percent of time the GPU and memory were busy.
type Utilization struct {
	GPU    uint32
	Memory uint32
}

// MemoryInfo is framebuffer memory in bytes.
type MemoryInfo struct {
	Total uint64
	Used  uint64
	Free  uint64
}

// PowerConstraints bounds the power management limit, in milliwatts.
type PowerConstraints struct {
	Min uint32
	Max uint32
}

// Library is the process-wide NVML handle.
type Library interface {
	Init() error
	Shutdown() error
	DeviceCount() (int, error)
	DeviceByIndex(index int) (Device, error)
}

// Device is a single GPU.
type Device interface {
	Name() (string, error)

	GpcClkVfOffset() (int, error)
	SetGpcClkVfOffset(offset int) error
	MemClkVfOffset() (int, error)
	SetMemClkVfOffset(offset int) error

	EnforcedPowerLimit() (uint32, error)
	SetPowerManagementLimit(limit uint32) error
	PowerManagementLimitConstraints() (PowerConstraints, error)

	SetGpuLockedClocks(minMHz, maxMHz uint32) error
	SetMemoryLockedClocks(minMHz, maxMHz uint32) error

	ClockInfo(clock ClockType) (uint32, error)
	Temperature() (uint32, error)
	NumFans() (int, error)
	FanSpeed(fan int) (uint32, error)
	UtilizationRates() (Utilization, error)
	PowerUsage() (uint32, error)
	MemoryInfo() (MemoryInfo, error)
}
