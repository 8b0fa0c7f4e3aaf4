// Package config holds the application settings of nvidia_oc: logging,
// file locations, systemd unit naming, and UI timing. Values come from
// defaults, then an optional YAML file, then NVIDIA_OC_* environment
// variables. GPU parameter sets live elsewhere (see package settings).
package config

import (
	"path/filepath"
	"time"
)

// Config represents the application configuration.
type Config struct {
	// Logging
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
	Verbose  bool   `yaml:"verbose"`
	Quiet    bool   `yaml:"quiet"`
	NoColor  bool   `yaml:"no_color"`

	// Locations
	ConfigDir    string `yaml:"config_dir"`
	SettingsFile string `yaml:"settings_file"`
	ServiceName  string `yaml:"service_name"`
	UnitDir      string `yaml:"unit_dir"`

	// Timing
	PollInterval   time.Duration `yaml:"poll_interval"`
	FrameInterval  time.Duration `yaml:"frame_interval"`
	InitTimeout    time.Duration `yaml:"init_timeout"`
	CommandTimeout time.Duration `yaml:"command_timeout"`

	// Interactive UI
	HistorySize int    `yaml:"history_size"`
	Theme       string `yaml:"theme"`
}

// ConfigPath returns the path to the YAML config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.ConfigDir, "config.yaml")
}

// UnitPath returns the full path of the systemd unit file.
func (c *Config) UnitPath() string {
	return filepath.Join(c.UnitDir, c.ServiceName+".service")
}

// IsVerbose returns true if verbose output is enabled and quiet is not.
func (c *Config) IsVerbose() bool {
	return c.Verbose && !c.Quiet
}

// EffectiveLogLevel folds the verbose flag into the configured level.
func (c *Config) EffectiveLogLevel() string {
	if c.IsVerbose() {
		return "debug"
	}
	return c.LogLevel
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
