// Package settings models the GPU parameter sets nvidia_oc applies and
// the JSON file that persists them per GPU index.
package settings

import (
	"fmt"
	"strings"

	"github.com/kombatant/nvidia-oc/internal/errors"
)

// Settings is one parameter set for a single GPU. Nil fields are left
// untouched on the device.
type Settings struct {
	FreqOffset  *int32  `json:"freqOffset,omitempty"`
	MemOffset   *int32  `json:"memOffset,omitempty"`
	PowerLimit  *uint32 `json:"powerLimit,omitempty"` // milliwatts
	MinClock    *uint32 `json:"minClock,omitempty"`
	MaxClock    *uint32 `json:"maxClock,omitempty"`
	MinMemClock *uint32 `json:"minMemClock,omitempty"`
	MaxMemClock *uint32 `json:"maxMemClock,omitempty"`
}

// Int32 returns a pointer to v.
func Int32(v int32) *int32 { return &v }

// Uint32 returns a pointer to v.
func Uint32(v uint32) *uint32 { return &v }

// IsEmpty reports whether no field is set.
func (s Settings) IsEmpty() bool {
	return s.FreqOffset == nil && s.MemOffset == nil && s.PowerLimit == nil &&
		s.MinClock == nil && s.MaxClock == nil &&
		s.MinMemClock == nil && s.MaxMemClock == nil
}

// HasLockedClocks reports whether a core clock range is set.
func (s Settings) HasLockedClocks() bool {
	return s.MinClock != nil && s.MaxClock != nil
}

// HasLockedMemClocks reports whether a memory clock range is set.
func (s Settings) HasLockedMemClocks() bool {
	return s.MinMemClock != nil && s.MaxMemClock != nil
}

// Validate checks that clock bounds come in pairs and are ordered.
func (s Settings) Validate() error {
	var problems []string

	pair := func(minName, maxName string, min, max *uint32) {
		switch {
		case min != nil && max == nil:
			problems = append(problems, fmt.Sprintf("%s requires %s", minName, maxName))
		case min == nil && max != nil:
			problems = append(problems, fmt.Sprintf("%s requires %s", maxName, minName))
		case min != nil && max != nil && *min > *max:
			problems = append(problems, fmt.Sprintf("%s (%d) is greater than %s (%d)", minName, *min, maxName, *max))
		}
	}
	pair("min-clock", "max-clock", s.MinClock, s.MaxClock)
	pair("min-mem-clock", "max-mem-clock", s.MinMemClock, s.MaxMemClock)

	if len(problems) == 0 {
		return nil
	}
	return errors.New(errors.Validation, strings.Join(problems, "; ")).WithOp("settings.Validate")
}

// String renders the set fields for logs, e.g. "freq=+100 power=250000mW".
func (s Settings) String() string {
	var parts []string
	if s.FreqOffset != nil {
		parts = append(parts, fmt.Sprintf("freq=%+d", *s.FreqOffset))
	}
	if s.MemOffset != nil {
		parts = append(parts, fmt.Sprintf("mem=%+d", *s.MemOffset))
	}
	if s.PowerLimit != nil {
		parts = append(parts, fmt.Sprintf("power=%dmW", *s.PowerLimit))
	}
	if s.HasLockedClocks() {
		parts = append(parts, fmt.Sprintf("clocks=%d-%d", *s.MinClock, *s.MaxClock))
	}
	if s.HasLockedMemClocks() {
		parts = append(parts, fmt.Sprintf("memclocks=%d-%d", *s.MinMemClock, *s.MaxMemClock))
	}
	if len(parts) == 0 {
		return "(none)"
	}
	return strings.Join(parts, " ")
}
