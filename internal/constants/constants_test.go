package constants

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExitCode_Int(t *testing.T) {
	tests := []struct {
		name     string
		code     ExitCode
		expected int
	}{
		{"ExitSuccess", ExitSuccess, 0},
		{"ExitError", ExitError, 1},
		{"ExitPermission", ExitPermission, 2},
		{"ExitValidation", ExitValidation, 3},
		{"ExitApply", ExitApply, 4},
		{"ExitUserAbort", ExitUserAbort, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.code.Int())
		})
	}
}

func TestAppMetadata(t *testing.T) {
	assert.Equal(t, "nvidia_oc", AppName)
	assert.NotEmpty(t, AppDescription)
}

func TestTimings(t *testing.T) {
	assert.Equal(t, time.Second, PollInterval)
	assert.Equal(t, 33*time.Millisecond, FrameInterval)
	assert.Less(t, FrameInterval, PollInterval)
	assert.Greater(t, CommandTimeout, ShortTimeout)
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "/etc/nvidia_oc.json", DefaultSettingsFile)
	assert.Equal(t, "/etc/systemd/system", DefaultUnitDir)
	assert.Equal(t, "nvidia_oc", DefaultServiceName)
}

func TestControlRanges(t *testing.T) {
	assert.Less(t, PowerMinW, PowerDefaultW)
	assert.LessOrEqual(t, PowerDefaultW, PowerMaxW)
	assert.Equal(t, -FreqOffsetMax, FreqOffsetMin)
	assert.Equal(t, -MemOffsetMax, MemOffsetMin)
	assert.LessOrEqual(t, MaxClockDefault, ClockMax)
	assert.Equal(t, 300, HistoryCapacity)
}
