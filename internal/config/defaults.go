package config

import (
	"os"
	"path/filepath"

	"github.com/kombatant/nvidia-oc/internal/constants"
)

// DefaultLogLevel is the default logging level.
const DefaultLogLevel = "info"

// DefaultTheme is the default UI theme name.
const DefaultTheme = "nvidia-dark"

// DefaultConfig returns a Config populated with defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:       DefaultLogLevel,
		ConfigDir:      defaultConfigDir(),
		SettingsFile:   constants.DefaultSettingsFile,
		ServiceName:    constants.DefaultServiceName,
		UnitDir:        constants.DefaultUnitDir,
		PollInterval:   constants.PollInterval,
		FrameInterval:  constants.FrameInterval,
		InitTimeout:    constants.InitTimeout,
		CommandTimeout: constants.CommandTimeout,
		HistorySize:    constants.HistoryCapacity,
		Theme:          DefaultTheme,
	}
}

// defaultConfigDir honours XDG_CONFIG_HOME and falls back to ~/.config.
func defaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, constants.AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", constants.DefaultConfigDir)
	}
	return filepath.Join(home, constants.DefaultConfigDir)
}

// GetConfigDir returns the configuration directory, respecting XDG.
func GetConfigDir() string {
	return defaultConfigDir()
}
