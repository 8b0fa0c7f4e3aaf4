package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kombatant/nvidia-oc/internal/errors"
	"github.com/kombatant/nvidia-oc/internal/logging"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation: %s: %s", e.Field, e.Message)
}

// Validator validates configuration.
type Validator struct {
	themes map[string]bool
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{
		themes: map[string]bool{
			"nvidia-dark":   true,
			"nvidia-light":  true,
			"high-contrast": true,
		},
	}
}

// Validate returns every problem found in cfg.
func (v *Validator) Validate(cfg *Config) []error {
	var errs []error
	add := func(field, format string, args ...interface{}) {
		errs = append(errs, &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if _, err := logging.LookupLevel(cfg.LogLevel); err != nil {
		add("log_level", "invalid log level %q: must be one of: debug, info, warn, error", cfg.LogLevel)
	}

	if cfg.Verbose && cfg.Quiet {
		add("verbose/quiet", "verbose and quiet cannot both be true")
	}

	if cfg.LogFile != "" {
		if dir := filepath.Dir(cfg.LogFile); dir != "." {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				add("log_file", "directory does not exist: %s", dir)
			}
		}
	}

	if cfg.SettingsFile == "" {
		add("settings_file", "settings file path cannot be empty")
	}
	if cfg.ServiceName == "" || strings.ContainsAny(cfg.ServiceName, "/ \t") {
		add("service_name", "invalid service name %q", cfg.ServiceName)
	}
	if cfg.UnitDir == "" {
		add("unit_dir", "unit directory cannot be empty")
	}

	durations := []struct {
		field string
		value time.Duration
	}{
		{"poll_interval", cfg.PollInterval},
		{"frame_interval", cfg.FrameInterval},
		{"init_timeout", cfg.InitTimeout},
		{"command_timeout", cfg.CommandTimeout},
	}
	for _, d := range durations {
		if d.value <= 0 {
			add(d.field, "%s must be positive", strings.ReplaceAll(d.field, "_", " "))
		}
	}
	if cfg.FrameInterval > 0 && cfg.PollInterval > 0 && cfg.FrameInterval > cfg.PollInterval {
		add("frame_interval", "frame interval must not exceed poll interval")
	}

	if cfg.HistorySize < 2 {
		add("history_size", "history size must be at least 2")
	}

	if !v.themes[cfg.Theme] {
		add("theme", "unknown theme %q", cfg.Theme)
	}

	return errs
}

// ValidateOrError validates and folds all problems into one error.
func (v *Validator) ValidateOrError(cfg *Config) error {
	errs := v.Validate(cfg)
	if len(errs) == 0 {
		return nil
	}

	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}

	return errors.New(errors.Configuration, strings.Join(msgs, "; ")).
		WithOp("config.Validate")
}

// IsValid returns true if the configuration is valid.
func (v *Validator) IsValid(cfg *Config) bool {
	return len(v.Validate(cfg)) == 0
}

// ValidateField checks a single value before it is assigned.
func ValidateField(field, value string) error {
	switch field {
	case "log_level":
		if _, err := logging.LookupLevel(value); err != nil {
			return &ValidationError{Field: field, Message: fmt.Sprintf("invalid log level %q", value)}
		}
	case "theme":
		if !NewValidator().themes[value] {
			return &ValidationError{Field: field, Message: fmt.Sprintf("unknown theme %q", value)}
		}
	}
	return nil
}
