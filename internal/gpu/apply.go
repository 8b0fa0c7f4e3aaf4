package gpu

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/kombatant/nvidia-oc/internal/errors"
	"github.com/kombatant/nvidia-oc/internal/settings"
)

// InitWithRetry initializes lib, retrying with exponential backoff until
// timeout elapses or ctx is done. A boot-time unit can start before the
// driver has finished loading.
func InitWithRetry(ctx context.Context, lib Library, timeout time.Duration) error {
	if timeout <= 0 {
		if err := lib.Init(); err != nil {
			return errors.Wrap(errors.NVML, "Failed to initialize NVML", err).WithOp("gpu.InitWithRetry")
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 250 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	b.MaxElapsedTime = timeout

	err := backoff.Retry(lib.Init, backoff.WithContext(b, ctx))
	if err != nil {
		return errors.Wrap(errors.NVML, "Failed to initialize NVML", err).WithOp("gpu.InitWithRetry")
	}
	return nil
}

// Open returns the device at index.
func Open(lib Library, index uint32) (Device, error) {
	dev, err := lib.DeviceByIndex(int(index))
	if err != nil {
		return nil, errors.Wrapf(errors.Device, err, "Failed to get GPU %d", index).WithOp("gpu.Open")
	}
	return dev, nil
}

// Apply pushes s to dev in a fixed order: core offset, memory offset,
// power limit, locked core clocks, locked memory clocks. The first
// failure aborts the rest.
func Apply(dev Device, s settings.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}

	steps := []struct {
		enabled bool
		failMsg string
		run     func() error
	}{
		{s.FreqOffset != nil, "Failed to set GPU frequency offset", func() error {
			return dev.SetGpcClkVfOffset(int(*s.FreqOffset))
		}},
		{s.MemOffset != nil, "Failed to set GPU memory frequency offset", func() error {
			return dev.SetMemClkVfOffset(int(*s.MemOffset))
		}},
		{s.PowerLimit != nil, "Failed to set GPU power limit", func() error {
			return dev.SetPowerManagementLimit(*s.PowerLimit)
		}},
		{s.HasLockedClocks(), "Failed to set GPU min and max clocks", func() error {
			return dev.SetGpuLockedClocks(*s.MinClock, *s.MaxClock)
		}},
		{s.HasLockedMemClocks(), "Failed to set GPU min and max memory clocks", func() error {
			return dev.SetMemoryLockedClocks(*s.MinMemClock, *s.MaxMemClock)
		}},
	}

	for _, step := range steps {
		if !step.enabled {
			continue
		}
		if err := step.run(); err != nil {
			return errors.Wrap(errors.Device, step.failMsg, err).WithOp("gpu.Apply")
		}
	}
	return nil
}

// Readout is what `get` reports. A nil field failed to read and the
// matching entry in Errors says why.
type Readout struct {
	CoreOffset *int
	MemOffset  *int
	PowerLimit *uint32 // milliwatts
	Errors     []error
}

// Query reads the core offset, memory offset and enforced power limit.
// Each read is independent.
func Query(dev Device) Readout {
	var r Readout

	if v, err := dev.GpcClkVfOffset(); err == nil {
		r.CoreOffset = &v
	} else {
		r.Errors = append(r.Errors, fmt.Errorf("Failed to get GPU core clock offset: %w", err))
	}

	if v, err := dev.MemClkVfOffset(); err == nil {
		r.MemOffset = &v
	} else {
		r.Errors = append(r.Errors, fmt.Errorf("Failed to get GPU memory clock offset: %w", err))
	}

	if v, err := dev.EnforcedPowerLimit(); err == nil {
		r.PowerLimit = &v
	} else {
		r.Errors = append(r.Errors, fmt.Errorf("Failed to get GPU power limit: %w", err))
	}

	return r
}

// Lines formats the successful reads the way `get` prints them.
func (r Readout) Lines() []string {
	var out []string
	if r.CoreOffset != nil {
		out = append(out, fmt.Sprintf("GPU core clock offset: %d MHz", *r.CoreOffset))
	}
	if r.MemOffset != nil {
		out = append(out, fmt.Sprintf("GPU memory clock offset: %d MHz", *r.MemOffset))
	}
	if r.PowerLimit != nil {
		out = append(out, fmt.Sprintf("GPU power limit: %d W", *r.PowerLimit/1000))
	}
	return out
}
