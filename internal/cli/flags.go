// Package cli builds the nvidia_oc command tree on cobra: set, get,
// completion, service, watch and version, plus the flagless default
// that applies the configuration file.
package cli

import (
	"github.com/spf13/pflag"

	"github.com/kombatant/nvidia-oc/internal/config"
	"github.com/kombatant/nvidia-oc/internal/errors"
	"github.com/kombatant/nvidia-oc/internal/settings"
)

// GlobalFlags holds the persistent flags shared by every command.
type GlobalFlags struct {
	// Verbose enables debug logging.
	Verbose bool

	// Quiet suppresses console logging, only errors are printed.
	Quiet bool

	// ConfigFile specifies a custom application config path.
	ConfigFile string

	// LogFile specifies the path to write log output.
	LogFile string

	// LogLevel sets the logging verbosity (debug, info, warn, error).
	LogLevel string

	// NoColor disables colored terminal output.
	NoColor bool
}

// Validate checks GlobalFlags for conflicting options.
func (f *GlobalFlags) Validate() error {
	if f.Verbose && f.Quiet {
		return &FlagError{
			Flag:    "verbose/quiet",
			Message: "cannot use --verbose and --quiet together",
		}
	}
	if f.LogLevel != "" {
		if err := config.ValidateField("log_level", f.LogLevel); err != nil {
			return &FlagError{Flag: "log-level", Message: errors.UserMessage(err)}
		}
	}
	return nil
}

// Apply copies the flags that were given onto cfg. Flags take
// precedence over config file and environment values.
func (f *GlobalFlags) Apply(cfg *config.Config) {
	if f.Verbose {
		cfg.Verbose = true
		cfg.Quiet = false
	}
	if f.Quiet {
		cfg.Quiet = true
		cfg.Verbose = false
	}
	if f.NoColor {
		cfg.NoColor = true
	}
	if f.LogFile != "" {
		cfg.LogFile = f.LogFile
	}
	if f.LogLevel != "" {
		cfg.LogLevel = f.LogLevel
	}
}

func (f *GlobalFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.ConfigFile, "config", "c", "", "application config file (YAML)")
	fs.StringVar(&f.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&f.LogFile, "log-file", "", "write logs to this file")
	fs.BoolVarP(&f.Verbose, "verbose", "v", false, "enable debug logging")
	fs.BoolVarP(&f.Quiet, "quiet", "q", false, "only print errors")
	fs.BoolVar(&f.NoColor, "no-color", false, "disable colored output")
}

// FlagError represents an error with a command-line flag.
type FlagError struct {
	Flag    string
	Message string
}

// Error implements the error interface.
func (e *FlagError) Error() string {
	return "flag error: " + e.Flag + ": " + e.Message
}

// Names of the parameter flags shared by set and service install.
const (
	flagIndex       = "index"
	flagFreqOffset  = "freq-offset"
	flagMemOffset   = "mem-offset"
	flagPowerLimit  = "power-limit"
	flagMinClock    = "min-clock"
	flagMaxClock    = "max-clock"
	flagMinMemClock = "min-mem-clock"
	flagMaxMemClock = "max-mem-clock"
)

var valueFlags = []string{
	flagFreqOffset, flagMemOffset, flagPowerLimit,
	flagMinClock, flagMaxClock, flagMinMemClock, flagMaxMemClock,
}

// SetFlags holds the values of a parameter set given on the command line.
type SetFlags struct {
	Index       uint32
	FreqOffset  int32
	MemOffset   int32
	PowerLimit  uint32
	MinClock    uint32
	MaxClock    uint32
	MinMemClock uint32
	MaxMemClock uint32
}

func (f *SetFlags) register(fs *pflag.FlagSet) {
	fs.Uint32VarP(&f.Index, flagIndex, "i", 0, "GPU index")
	fs.Int32VarP(&f.FreqOffset, flagFreqOffset, "f", 0, "GPU frequency offset (MHz)")
	fs.Int32Var(&f.MemOffset, flagMemOffset, 0, "GPU memory frequency offset (MHz)")
	fs.Uint32VarP(&f.PowerLimit, flagPowerLimit, "p", 0, "GPU power limit in milliwatts")
	fs.Uint32Var(&f.MinClock, flagMinClock, 0, "GPU min clock (MHz)")
	fs.Uint32Var(&f.MaxClock, flagMaxClock, 0, "GPU max clock (MHz)")
	fs.Uint32Var(&f.MinMemClock, flagMinMemClock, 0, "GPU min memory clock (MHz)")
	fs.Uint32Var(&f.MaxMemClock, flagMaxMemClock, 0, "GPU max memory clock (MHz)")
}

// Settings returns the parameter set made of the flags that were given.
func (f *SetFlags) Settings(fs *pflag.FlagSet) settings.Settings {
	var s settings.Settings
	if fs.Changed(flagFreqOffset) {
		s.FreqOffset = settings.Int32(f.FreqOffset)
	}
	if fs.Changed(flagMemOffset) {
		s.MemOffset = settings.Int32(f.MemOffset)
	}
	if fs.Changed(flagPowerLimit) {
		s.PowerLimit = settings.Uint32(f.PowerLimit)
	}
	if fs.Changed(flagMinClock) {
		s.MinClock = settings.Uint32(f.MinClock)
	}
	if fs.Changed(flagMaxClock) {
		s.MaxClock = settings.Uint32(f.MaxClock)
	}
	if fs.Changed(flagMinMemClock) {
		s.MinMemClock = settings.Uint32(f.MinMemClock)
	}
	if fs.Changed(flagMaxMemClock) {
		s.MaxMemClock = settings.Uint32(f.MaxMemClock)
	}
	return s
}
