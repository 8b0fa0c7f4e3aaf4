package telemetry

import (
	"time"

	"github.com/kombatant/nvidia-oc/internal/gpu"
)

// Poller records clock histories for one device. It is not safe for
// concurrent Record calls; the UI serializes them.
type Poller struct {
	dev   gpu.Device
	start time.Time

	Core   *History
	Memory *History
	last   Sample
}

// NewPoller creates a poller whose histories hold capacity points.
func NewPoller(dev gpu.Device, capacity int) *Poller {
	return newPollerAt(dev, capacity, time.Now())
}

func newPollerAt(dev gpu.Device, capacity int, start time.Time) *Poller {
	return &Poller{
		dev:    dev,
		start:  start,
		Core:   NewHistory(capacity),
		Memory: NewHistory(capacity),
	}
}

// Record stores s as the latest sample and appends its successful clock
// reads to the histories.
func (p *Poller) Record(s Sample) Sample {
	elapsed := s.At.Sub(p.start).Seconds()
	if s.HasCoreClock {
		p.Core.Add(elapsed, float64(s.CoreClockMHz))
	}
	if s.HasMemClock {
		p.Memory.Add(elapsed, float64(s.MemClockMHz))
	}
	p.last = s
	return s
}

// Device returns the sampled device.
func (p *Poller) Device() gpu.Device { return p.dev }

// Last returns the most recent sample.
func (p *Poller) Last() Sample { return p.last }
