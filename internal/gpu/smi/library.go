package smi

import (
	"strconv"

	"github.com/kombatant/nvidia-oc/internal/errors"
	"github.com/kombatant/nvidia-oc/internal/gpu"
)

// FromLibrary lists the devices of an initialized NVML library. It
// stands in for nvidia-smi when the tool is missing or fails. A device
// whose name cannot be read is listed without one.
func FromLibrary(lib gpu.Library) ([]GPU, error) {
	count, err := lib.DeviceCount()
	if err != nil {
		return nil, errors.Wrap(errors.NVML, "failed to count GPUs", err).WithOp("smi.FromLibrary")
	}

	gpus := make([]GPU, 0, count)
	for i := 0; i < count; i++ {
		g := GPU{ID: strconv.Itoa(i)}
		dev, err := lib.DeviceByIndex(i)
		if err != nil {
			return nil, errors.Wrapf(errors.Device, err, "failed to get GPU %d", i).WithOp("smi.FromLibrary")
		}
		if name, err := dev.Name(); err == nil {
			g.Name = name
		}
		gpus = append(gpus, g)
	}
	return gpus, nil
}
