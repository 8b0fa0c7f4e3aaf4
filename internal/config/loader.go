package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kombatant/nvidia-oc/internal/constants"
	"github.com/kombatant/nvidia-oc/internal/errors"
)

// EnvPrefix is the prefix for environment variables.
const EnvPrefix = constants.EnvPrefix

// Loader loads configuration in order: defaults, file, environment.
type Loader struct {
	configPath string
	envPrefix  string
	lookupEnv  func(string) (string, bool)
}

// NewLoader creates a loader. An empty configPath skips the file stage.
func NewLoader(configPath string) *Loader {
	return NewLoaderWithPrefix(configPath, EnvPrefix)
}

// NewLoaderWithPrefix creates a loader with a custom environment prefix.
func NewLoaderWithPrefix(configPath, envPrefix string) *Loader {
	return &Loader{
		configPath: configPath,
		envPrefix:  envPrefix,
		lookupEnv:  os.LookupEnv,
	}
}

// Load builds the configuration. A missing file is not an error; an
// unreadable or malformed one is.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	if l.configPath != "" {
		if err := l.loadFromFile(cfg); err != nil {
			return nil, err
		}
	}

	l.loadFromEnv(cfg)
	return cfg, nil
}

// LoadAndValidate loads and validates in one step.
func (l *Loader) LoadAndValidate() (*Config, error) {
	cfg, err := l.Load()
	if err != nil {
		return nil, err
	}
	if err := NewValidator().ValidateOrError(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *Loader) loadFromFile(cfg *Config) error {
	data, err := os.ReadFile(l.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(errors.Configuration, "failed to read config file", err).
			WithOp("config.loadFromFile")
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrap(errors.Configuration, "failed to parse config file", err).
			WithOp("config.loadFromFile")
	}
	return nil
}

func (l *Loader) env(name string) (string, bool) {
	v, ok := l.lookupEnv(l.envPrefix + name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (l *Loader) loadFromEnv(cfg *Config) {
	strs := map[string]*string{
		"LOG_LEVEL":     &cfg.LogLevel,
		"LOG_FILE":      &cfg.LogFile,
		"CONFIG_DIR":    &cfg.ConfigDir,
		"SETTINGS_FILE": &cfg.SettingsFile,
		"SERVICE_NAME":  &cfg.ServiceName,
		"UNIT_DIR":      &cfg.UnitDir,
		"THEME":         &cfg.Theme,
	}
	for name, dst := range strs {
		if v, ok := l.env(name); ok {
			*dst = v
		}
	}

	bools := map[string]*bool{
		"VERBOSE":  &cfg.Verbose,
		"QUIET":    &cfg.Quiet,
		"NO_COLOR": &cfg.NoColor,
	}
	for name, dst := range bools {
		if v, ok := l.env(name); ok {
			*dst = parseBool(v)
		}
	}

	durations := map[string]*time.Duration{
		"POLL_INTERVAL":   &cfg.PollInterval,
		"FRAME_INTERVAL":  &cfg.FrameInterval,
		"INIT_TIMEOUT":    &cfg.InitTimeout,
		"COMMAND_TIMEOUT": &cfg.CommandTimeout,
	}
	for name, dst := range durations {
		if v, ok := l.env(name); ok {
			if d, err := time.ParseDuration(v); err == nil {
				*dst = d
			}
		}
	}

	if v, ok := l.env("HISTORY_SIZE"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.HistorySize = n
		}
	}
}

// parseBool accepts true, 1, yes, on (case-insensitive).
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}

// SaveConfig writes cfg as YAML to path, or to cfg.ConfigPath() when
// path is empty, creating the parent directory.
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = cfg.ConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.Configuration, "failed to create config directory", err).
			WithOp("config.SaveConfig")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(errors.Configuration, "failed to marshal config", err).
			WithOp("config.SaveConfig")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.Configuration, "failed to write config file", err).
			WithOp("config.SaveConfig")
	}
	return nil
}
