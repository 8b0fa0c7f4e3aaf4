package gpu

import (
	"fmt"
	"sync"
)

// MockLibrary is an in-memory Library for tests.
type MockLibrary struct {
	mu      sync.Mutex
	Devices []*MockDevice
	InitErr error
	// InitFailures makes the first n Init calls fail with InitErr.
	InitFailures  int
	InitCalls     int
	ShutdownCalls int
}

// NewMockLibrary returns a library exposing the given devices.
func NewMockLibrary(devices ...*MockDevice) *MockLibrary {
	return &MockLibrary{Devices: devices}
}

func (m *MockLibrary) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InitCalls++
	if m.InitErr != nil && (m.InitFailures == 0 || m.InitCalls <= m.InitFailures) {
		return m.InitErr
	}
	return nil
}

func (m *MockLibrary) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ShutdownCalls++
	return nil
}

func (m *MockLibrary) DeviceCount() (int, error) {
	return len(m.Devices), nil
}

func (m *MockLibrary) DeviceByIndex(index int) (Device, error) {
	if index < 0 || index >= len(m.Devices) {
		return nil, fmt.Errorf("Invalid Argument")
	}
	return m.Devices[index], nil
}

// MockDevice is an in-memory Device. Setters record calls and update the
// matching readout; an entry in Errors makes the named method fail.
type MockDevice struct {
	mu sync.Mutex

	DeviceName  string
	GpcOffset   int
	MemOffset   int
	PowerLimit  uint32
	Constraints PowerConstraints
	GraphicsMHz uint32
	MemoryMHz   uint32
	TempC       uint32
	Fans        []uint32
	Util        Utilization
	PowerMW     uint32
	Memory      MemoryInfo

	LockedClocks    [2]uint32
	LockedMemClocks [2]uint32

	// Errors maps a method name (e.g. "SetPowerManagementLimit") to the error it returns.
	Errors map[string]error
	Calls  []string
}

// NewMockDevice returns a device with plausible readouts.
func NewMockDevice(name string) *MockDevice {
	return &MockDevice{
		DeviceName:  name,
		PowerLimit:  350000,
		Constraints: PowerConstraints{Min: 100000, Max: 450000},
		GraphicsMHz: 1950,
		MemoryMHz:   10501,
		TempC:       54,
		Fans:        []uint32{38, 40},
		Util:        Utilization{GPU: 12, Memory: 7},
		PowerMW:     87250,
		Memory:      MemoryInfo{Total: 24 << 30, Used: 3 << 30, Free: 21 << 30},
	}
}

// Fail makes method return err.
func (d *MockDevice) Fail(method string, err error) *MockDevice {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Errors == nil {
		d.Errors = make(map[string]error)
	}
	d.Errors[method] = err
	return d
}

func (d *MockDevice) call(method string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Calls = append(d.Calls, method)
	return d.Errors[method]
}

// CallsSnapshot returns a copy of the recorded method names.
func (d *MockDevice) CallsSnapshot() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.Calls))
	copy(out, d.Calls)
	return out
}

func (d *MockDevice) Name() (string, error) {
	if err := d.call("Name"); err != nil {
		return "", err
	}
	return d.DeviceName, nil
}

func (d *MockDevice) GpcClkVfOffset() (int, error) {
	if err := d.call("GpcClkVfOffset"); err != nil {
		return 0, err
	}
	return d.GpcOffset, nil
}

func (d *MockDevice) SetGpcClkVfOffset(offset int) error {
	if err := d.call("SetGpcClkVfOffset"); err != nil {
		return err
	}
	d.GpcOffset = offset
	return nil
}

func (d *MockDevice) MemClkVfOffset() (int, error) {
	if err := d.call("MemClkVfOffset"); err != nil {
		return 0, err
	}
	return d.MemOffset, nil
}

func (d *MockDevice) SetMemClkVfOffset(offset int) error {
	if err := d.call("SetMemClkVfOffset"); err != nil {
		return err
	}
	d.MemOffset = offset
	return nil
}

func (d *MockDevice) EnforcedPowerLimit() (uint32, error) {
	if err := d.call("EnforcedPowerLimit"); err != nil {
		return 0, err
	}
	return d.PowerLimit, nil
}

func (d *MockDevice) SetPowerManagementLimit(limit uint32) error {
	if err := d.call("SetPowerManagementLimit"); err != nil {
		return err
	}
	d.PowerLimit = limit
	return nil
}

func (d *MockDevice) PowerManagementLimitConstraints() (PowerConstraints, error) {
	if err := d.call("PowerManagementLimitConstraints"); err != nil {
		return PowerConstraints{}, err
	}
	return d.Constraints, nil
}

func (d *MockDevice) SetGpuLockedClocks(minMHz, maxMHz uint32) error {
	if err := d.call("SetGpuLockedClocks"); err != nil {
		return err
	}
	d.LockedClocks = [2]uint32{minMHz, maxMHz}
	return nil
}

func (d *MockDevice) SetMemoryLockedClocks(minMHz, maxMHz uint32) error {
	if err := d.call("SetMemoryLockedClocks"); err != nil {
		return err
	}
	d.LockedMemClocks = [2]uint32{minMHz, maxMHz}
	return nil
}

func (d *MockDevice) ClockInfo(clock ClockType) (uint32, error) {
	if err := d.call("ClockInfo"); err != nil {
		return 0, err
	}
	if clock == ClockMemory {
		return d.MemoryMHz, nil
	}
	return d.GraphicsMHz, nil
}

func (d *MockDevice) Temperature() (uint32, error) {
	if err := d.call("Temperature"); err != nil {
		return 0, err
	}
	return d.TempC, nil
}

func (d *MockDevice) NumFans() (int, error) {
	if err := d.call("NumFans"); err != nil {
		return 0, err
	}
	return len(d.Fans), nil
}

func (d *MockDevice) FanSpeed(fan int) (uint32, error) {
	if err := d.call("FanSpeed"); err != nil {
		return 0, err
	}
	if fan < 0 || fan >= len(d.Fans) {
		return 0, fmt.Errorf("Invalid Argument")
	}
	return d.Fans[fan], nil
}

func (d *MockDevice) UtilizationRates() (Utilization, error) {
	if err := d.call("UtilizationRates"); err != nil {
		return Utilization{}, err
	}
	return d.Util, nil
}

func (d *MockDevice) PowerUsage() (uint32, error) {
	if err := d.call("PowerUsage"); err != nil {
		return 0, err
	}
	return d.PowerMW, nil
}

func (d *MockDevice) MemoryInfo() (MemoryInfo, error) {
	if err := d.call("MemoryInfo"); err != nil {
		return MemoryInfo{}, err
	}
	return d.Memory, nil
}

// Compile-time interface checks
var (
	_ Library = (*MockLibrary)(nil)
	_ Device  = (*MockDevice)(nil)
)
