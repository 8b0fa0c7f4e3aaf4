// Package telemetry samples live GPU readings for the metrics view and
// keeps a bounded history of clock speeds for charting.
package telemetry

import (
	"fmt"
	"time"

	"github.com/kombatant/nvidia-oc/internal/constants"
	"github.com/kombatant/nvidia-oc/internal/gpu"
)

// NA is shown for a reading that could not be taken.
const NA = "N/A"

// Sample is one poll of a device. Each Has* flag says whether the
// matching reading succeeded.
type Sample struct {
	At time.Time

	HasMemory     bool
	VRAMUsedMiB   uint64
	VRAMTotalMiB  uint64
	HasCoreClock  bool
	CoreClockMHz  uint32
	HasMemClock   bool
	MemClockMHz   uint32
	HasTemp       bool
	TempC         uint32
	HasFan        bool
	FanPercent    uint32
	HasUtil       bool
	UtilPercent   uint32
	HasPower      bool
	PowerMW       uint32
	HasPowerLimit bool
	PowerLimitMW  uint32
}

// Collect reads every metric from dev. Failures only clear the
// corresponding flag.
func Collect(dev gpu.Device, now time.Time) Sample {
	s := Sample{At: now}

	if m, err := dev.MemoryInfo(); err == nil {
		s.HasMemory = true
		s.VRAMUsedMiB = m.Used / 1024 / 1024
		s.VRAMTotalMiB = m.Total / 1024 / 1024
	}
	if v, err := dev.ClockInfo(gpu.ClockGraphics); err == nil {
		s.HasCoreClock, s.CoreClockMHz = true, v
	}
	if v, err := dev.ClockInfo(gpu.ClockMemory); err == nil {
		s.HasMemClock, s.MemClockMHz = true, v
	}
	if v, err := dev.Temperature(); err == nil {
		s.HasTemp, s.TempC = true, v
	}
	fans := constants.MaxFanIndexProbe
	if n, err := dev.NumFans(); err == nil && n < fans {
		fans = n
	}
	for i := 0; i < fans; i++ {
		if v, err := dev.FanSpeed(i); err == nil {
			s.HasFan, s.FanPercent = true, v
			break
		}
	}
	if u, err := dev.UtilizationRates(); err == nil {
		s.HasUtil, s.UtilPercent = true, u.GPU
	}
	if v, err := dev.PowerUsage(); err == nil {
		s.HasPower, s.PowerMW = true, v
	}
	if v, err := dev.EnforcedPowerLimit(); err == nil {
		s.HasPowerLimit, s.PowerLimitMW = true, v
	}
	return s
}

// VRAMUsedText is the used amount in MiB, or N/A.
func (s Sample) VRAMUsedText() string {
	if !s.HasMemory {
		return NA
	}
	return fmt.Sprintf("%d", s.VRAMUsedMiB)
}

// VRAMTotalText is "/ <total> MiB", or empty when unknown.
func (s Sample) VRAMTotalText() string {
	if !s.HasMemory {
		return ""
	}
	return fmt.Sprintf("/ %d MiB", s.VRAMTotalMiB)
}

// VRAMFraction is used/total in [0,1].
func (s Sample) VRAMFraction() float64 {
	if !s.HasMemory || s.VRAMTotalMiB == 0 {
		return 0
	}
	return clamp01(float64(s.VRAMUsedMiB) / float64(s.VRAMTotalMiB))
}

func mhz(ok bool, v uint32) string {
	if !ok {
		return NA
	}
	return fmt.Sprintf("%d MHz", v)
}

// CoreClockText is e.g. "1950 MHz".
func (s Sample) CoreClockText() string { return mhz(s.HasCoreClock, s.CoreClockMHz) }

// MemClockText is e.g. "10501 MHz".
func (s Sample) MemClockText() string { return mhz(s.HasMemClock, s.MemClockMHz) }

// TempText is e.g. "54 °C".
func (s Sample) TempText() string {
	if !s.HasTemp {
		return NA
	}
	return fmt.Sprintf("%d °C", s.TempC)
}

// FanText is e.g. "40%".
func (s Sample) FanText() string {
	if !s.HasFan {
		return NA
	}
	return fmt.Sprintf("%d%%", s.FanPercent)
}

// FanFraction is the fan duty in [0,1], zero when unknown.
func (s Sample) FanFraction() float64 {
	if !s.HasFan {
		return 0
	}
	return clamp01(float64(s.FanPercent) / 100)
}

// UtilText is e.g. "12%".
func (s Sample) UtilText() string {
	if !s.HasUtil {
		return NA
	}
	return fmt.Sprintf("%d%%", s.UtilPercent)
}

// UtilFraction is utilization in [0,1].
func (s Sample) UtilFraction() float64 {
	if !s.HasUtil {
		return 0
	}
	return clamp01(float64(s.UtilPercent) / 100)
}

// PowerText renders usage against the enforced limit:
// "87.25 / 350.00 W", "87.25 W" when the limit is unknown, or N/A.
func (s Sample) PowerText() string {
	switch {
	case s.HasPower && s.HasPowerLimit:
		return fmt.Sprintf("%.2f / %.2f W", watts(s.PowerMW), watts(s.PowerLimitMW))
	case s.HasPower:
		return fmt.Sprintf("%.2f W", watts(s.PowerMW))
	default:
		return NA
	}
}

// PowerFraction is usage/limit in [0,1]. A zero limit reads as 0; an
// unknown limit reads as full.
func (s Sample) PowerFraction() float64 {
	switch {
	case s.HasPower && s.HasPowerLimit:
		if s.PowerLimitMW == 0 {
			return 0
		}
		return clamp01(float64(s.PowerMW) / float64(s.PowerLimitMW))
	case s.HasPower:
		if watts(s.PowerMW) < 1 {
			return watts(s.PowerMW)
		}
		return 1
	default:
		return 0
	}
}

func watts(mw uint32) float64 { return float64(mw) / 1000 }

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
