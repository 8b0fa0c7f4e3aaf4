package telemetry

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kombatant/nvidia-oc/internal/gpu"
)

// =============================================================================
// History
// =============================================================================

func TestHistory_FillsThenEvictsOldest(t *testing.T) {
	h := NewHistory(3)
	assert.Equal(t, 0, h.Len())
	_, ok := h.Last()
	assert.False(t, ok)

	h.Add(0, 10)
	h.Add(1, 20)
	assert.Equal(t, []Point{{0, 10}, {1, 20}}, h.Points())

	h.Add(2, 30)
	h.Add(3, 40)
	h.Add(4, 50)

	assert.Equal(t, 3, h.Len())
	assert.Equal(t, []Point{{2, 30}, {3, 40}, {4, 50}}, h.Points())
	last, ok := h.Last()
	require.True(t, ok)
	assert.Equal(t, Point{4, 50}, last)
}

func TestHistory_CapacityBound(t *testing.T) {
	h := NewHistory(300)
	for i := 0; i < 1000; i++ {
		h.Add(float64(i), float64(i))
	}

	pts := h.Points()
	require.Len(t, pts, 300)
	assert.Equal(t, 700.0, pts[0].T)
	assert.Equal(t, 999.0, pts[299].T)
}

func TestHistory_MinimumCapacity(t *testing.T) {
	h := NewHistory(0)
	assert.Equal(t, 1, h.Cap())
	assert.Empty(t, h.Points())

	h.Add(1, 1)
	h.Add(2, 2)
	assert.Equal(t, []Point{{2, 2}}, h.Points())
}

// =============================================================================
// Sample
// =============================================================================

func TestCollect_AllReadings(t *testing.T) {
	dev := gpu.NewMockDevice("RTX 4090")
	dev.Memory = gpu.MemoryInfo{Total: 24564 << 20, Used: 1536 << 20}
	dev.PowerMW = 87250
	dev.PowerLimit = 350000

	s := Collect(dev, time.Unix(0, 0))

	assert.Equal(t, "1536", s.VRAMUsedText())
	assert.Equal(t, "/ 24564 MiB", s.VRAMTotalText())
	assert.Equal(t, "1950 MHz", s.CoreClockText())
	assert.Equal(t, "10501 MHz", s.MemClockText())
	assert.Equal(t, "54 °C", s.TempText())
	assert.Equal(t, "38%", s.FanText())
	assert.Equal(t, "12%", s.UtilText())
	assert.Equal(t, "87.25 / 350.00 W", s.PowerText())
	assert.InDelta(t, 87.25/350.0, s.PowerFraction(), 1e-9)
	assert.InDelta(t, 0.12, s.UtilFraction(), 1e-9)
	assert.InDelta(t, 0.38, s.FanFraction(), 1e-9)
}

func TestCollect_Failures(t *testing.T) {
	boom := fmt.Errorf("Not Supported")
	dev := gpu.NewMockDevice("gpu").
		Fail("MemoryInfo", boom).
		Fail("ClockInfo", boom).
		Fail("Temperature", boom).
		Fail("FanSpeed", boom).
		Fail("UtilizationRates", boom).
		Fail("PowerUsage", boom).
		Fail("EnforcedPowerLimit", boom)

	s := Collect(dev, time.Now())

	assert.Equal(t, NA, s.VRAMUsedText())
	assert.Empty(t, s.VRAMTotalText())
	assert.Equal(t, NA, s.CoreClockText())
	assert.Equal(t, NA, s.MemClockText())
	assert.Equal(t, NA, s.TempText())
	assert.Equal(t, NA, s.FanText())
	assert.Equal(t, NA, s.UtilText())
	assert.Equal(t, NA, s.PowerText())
	assert.Zero(t, s.PowerFraction())
	assert.Zero(t, s.VRAMFraction())
}

func TestCollect_FanProbeBoundedByFanCount(t *testing.T) {
	tests := []struct {
		name   string
		fans   []uint32
		count  error
		probes int
		hasFan bool
	}{
		{"no fans", nil, nil, 0, false},
		{"two fans", []uint32{55, 60}, nil, 1, true},
		{"count unsupported", nil, fmt.Errorf("Not Supported"), 4, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := gpu.NewMockDevice("gpu")
			dev.Fans = tt.fans
			if tt.count != nil {
				dev.Fail("NumFans", tt.count)
			}

			s := Collect(dev, time.Now())
			assert.Equal(t, tt.hasFan, s.HasFan)

			var probes int
			for _, c := range dev.CallsSnapshot() {
				if c == "FanSpeed" {
					probes++
				}
			}
			assert.Equal(t, tt.probes, probes)
		})
	}
}

func TestPowerText_Variants(t *testing.T) {
	tests := []struct {
		name     string
		s        Sample
		text     string
		fraction float64
	}{
		{"usage and limit", Sample{HasPower: true, PowerMW: 150000, HasPowerLimit: true, PowerLimitMW: 300000}, "150.00 / 300.00 W", 0.5},
		{"zero limit", Sample{HasPower: true, PowerMW: 150000, HasPowerLimit: true}, "150.00 / 0.00 W", 0},
		{"usage only", Sample{HasPower: true, PowerMW: 42500}, "42.50 W", 1},
		{"nothing", Sample{}, "N/A", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.text, tt.s.PowerText())
			assert.InDelta(t, tt.fraction, tt.s.PowerFraction(), 1e-9)
		})
	}
}

// =============================================================================
// Poller
// =============================================================================

func TestPoller_RecordsClockHistory(t *testing.T) {
	dev := gpu.NewMockDevice("gpu")
	clock := time.Unix(1000, 0)
	p := newPollerAt(dev, 300, clock)

	p.Record(Collect(dev, clock.Add(time.Second)))
	dev.GraphicsMHz = 2100
	s := p.Record(Collect(dev, clock.Add(2*time.Second)))

	assert.Equal(t, uint32(2100), s.CoreClockMHz)
	assert.Equal(t, []Point{{1, 1950}, {2, 2100}}, p.Core.Points())
	assert.Equal(t, 2, p.Memory.Len())
	assert.Equal(t, s, p.Last())
}

func TestPoller_SkipsFailedClocks(t *testing.T) {
	dev := gpu.NewMockDevice("gpu").Fail("ClockInfo", fmt.Errorf("Unknown Error"))
	p := NewPoller(dev, 10)

	p.Record(Collect(dev, time.Now()))

	assert.Equal(t, 0, p.Core.Len())
	assert.Equal(t, 0, p.Memory.Len())
}

func TestPoller_RecordUsesSampleTime(t *testing.T) {
	start := time.Unix(500, 0)
	p := newPollerAt(gpu.NewMockDevice("gpu"), 5, start)

	s := Sample{At: start.Add(1500 * time.Millisecond), HasMemClock: true, MemClockMHz: 9501}
	p.Record(s)

	assert.Equal(t, 0, p.Core.Len())
	assert.Equal(t, []Point{{1.5, 9501}}, p.Memory.Points())
	assert.Equal(t, s, p.Last())
	assert.NotNil(t, p.Device())
}
