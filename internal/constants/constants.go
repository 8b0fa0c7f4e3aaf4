// Package constants defines application-wide constants for nvidia_oc.
package constants

import "time"

// Application metadata
const (
	// AppName is the binary and product name.
	AppName string = "nvidia_oc"
	// AppDescription is a short description of the application.
	AppDescription string = "NVIDIA GPU overclocking utility for Linux"
)

// ExitCode represents process exit codes for different termination scenarios.
type ExitCode int

const (
	// ExitSuccess indicates the application completed successfully.
	ExitSuccess ExitCode = iota
	// ExitError indicates a general error occurred.
	ExitError
	// ExitPermission indicates insufficient permissions and no way to elevate.
	ExitPermission
	// ExitValidation indicates invalid input or configuration.
	ExitValidation
	// ExitApply indicates a GPU parameter could not be applied.
	ExitApply
	// ExitUserAbort indicates the user cancelled the operation.
	ExitUserAbort
)

// Int returns the exit code as an int for use with os.Exit().
func (e ExitCode) Int() int {
	return int(e)
}

// Timeouts
const (
	// CommandTimeout bounds external commands such as systemctl.
	CommandTimeout time.Duration = 2 * time.Minute
	// ShortTimeout is for quick probes like nvidia-smi -L.
	ShortTimeout time.Duration = 10 * time.Second
	// InitTimeout is how long apply paths keep retrying NVML initialization.
	InitTimeout time.Duration = 10 * time.Second
	// PollInterval is the telemetry refresh period of the interactive UI.
	PollInterval time.Duration = time.Second
	// FrameInterval is the chart redraw period of the interactive UI (~30 Hz).
	FrameInterval time.Duration = 33 * time.Millisecond
	// WatchDebounce coalesces bursts of config file events.
	WatchDebounce time.Duration = 500 * time.Millisecond
	// WatchMinInterval is the shortest gap between two watch re-applies.
	WatchMinInterval time.Duration = time.Second
)

// Files and paths
const (
	// DefaultSettingsFile is the JSON file holding per-GPU parameter sets.
	DefaultSettingsFile string = "/etc/nvidia_oc.json"
	// DefaultConfigDir is the application config directory relative to $HOME.
	DefaultConfigDir string = ".config/nvidia_oc"
	// DefaultLogFile is the default log file name.
	DefaultLogFile string = "nvidia_oc.log"
	// ConfigFileName is the application config file name.
	ConfigFileName string = "config.yaml"
	// DefaultUnitDir is where systemd system units are installed.
	DefaultUnitDir string = "/etc/systemd/system"
	// DefaultServiceName is the systemd unit name without suffix.
	DefaultServiceName string = "nvidia_oc"
)

// Environment
const (
	// EnvPrefix prefixes environment overrides of the application config.
	EnvPrefix string = "NVIDIA_OC_"
	// EnvGUIRun marks the re-executed child process that hosts the interactive UI.
	EnvGUIRun string = "NVIDIA_OC_GUI_RUN"
)

// External tools
const (
	NvidiaSMI = "nvidia-smi"
	Systemctl = "systemctl"
	Pkexec    = "pkexec"
)

// Interactive control ranges and defaults.
const (
	PowerMinW        = 0.0
	PowerMaxW        = 450.0
	PowerDefaultW    = 400.0
	FreqOffsetMin    = -2000
	FreqOffsetMax    = 2000
	MemOffsetMin     = -20000
	MemOffsetMax     = 20000
	ClockMin         = 0
	ClockMax         = 5000
	MinClockDefault  = 0
	MaxClockDefault  = 3800
	HistoryCapacity  = 300
	MaxFanIndexProbe = 4
)
