package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kombatant/nvidia-oc/internal/errors"
)

// TestDefaultConfig tests that DefaultConfig returns valid defaults
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.LogFile)
	assert.False(t, cfg.Verbose)
	assert.False(t, cfg.Quiet)
	assert.Equal(t, "/etc/nvidia_oc.json", cfg.SettingsFile)
	assert.Equal(t, "nvidia_oc", cfg.ServiceName)
	assert.Equal(t, "/etc/systemd/system", cfg.UnitDir)
	assert.Equal(t, time.Second, cfg.PollInterval)
	assert.Equal(t, 33*time.Millisecond, cfg.FrameInterval)
	assert.Equal(t, 10*time.Second, cfg.InitTimeout)
	assert.Equal(t, 2*time.Minute, cfg.CommandTimeout)
	assert.Equal(t, 300, cfg.HistorySize)
	assert.Equal(t, "nvidia-dark", cfg.Theme)
	assert.True(t, NewValidator().IsValid(cfg))
}

func TestXDGConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/test-xdg-config")

	cfg := DefaultConfig()
	assert.Equal(t, filepath.Join("/tmp/test-xdg-config", "nvidia_oc"), cfg.ConfigDir)
	assert.Equal(t, cfg.ConfigDir, GetConfigDir())
}

func TestConfigPaths(t *testing.T) {
	cfg := &Config{ConfigDir: "/home/u/.config/nvidia_oc", UnitDir: "/etc/systemd/system", ServiceName: "nvidia_oc"}

	assert.Equal(t, "/home/u/.config/nvidia_oc/config.yaml", cfg.ConfigPath())
	assert.Equal(t, "/etc/systemd/system/nvidia_oc.service", cfg.UnitPath())
}

func TestConfigHelpers(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "info", cfg.EffectiveLogLevel())

	cfg.Verbose = true
	assert.True(t, cfg.IsVerbose())
	assert.Equal(t, "debug", cfg.EffectiveLogLevel())

	cfg.Quiet = true
	assert.False(t, cfg.IsVerbose())

	clone := cfg.Clone()
	clone.ServiceName = "other"
	assert.Equal(t, "nvidia_oc", cfg.ServiceName)
}

// =============================================================================
// Loader
// =============================================================================

func TestLoaderLoadDefaults(t *testing.T) {
	cfg, err := NewLoader("").Load()

	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoaderLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
log_level: debug
settings_file: /tmp/oc.json
service_name: gpu-oc
poll_interval: 2s
history_size: 120
theme: high-contrast
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := NewLoader(path).Load()

	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/oc.json", cfg.SettingsFile)
	assert.Equal(t, "gpu-oc", cfg.ServiceName)
	assert.Equal(t, 2*time.Second, cfg.PollInterval)
	assert.Equal(t, 120, cfg.HistorySize)
	assert.Equal(t, "high-contrast", cfg.Theme)
	// untouched fields keep defaults
	assert.Equal(t, 33*time.Millisecond, cfg.FrameInterval)
}

func TestLoaderFileNotFound(t *testing.T) {
	cfg, err := NewLoader("/nonexistent/path/config.yaml").Load()

	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoaderInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("invalid: yaml: content: ["), 0o644))

	_, err := NewLoader(path).Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
	assert.True(t, errors.IsCode(err, errors.Configuration))
}

func TestLoaderEnvironmentOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: warn\n"), 0o644))

	env := map[string]string{
		"NVIDIA_OC_LOG_LEVEL":       "debug",
		"NVIDIA_OC_VERBOSE":         "yes",
		"NVIDIA_OC_NO_COLOR":        "1",
		"NVIDIA_OC_SETTINGS_FILE":   "/srv/oc.json",
		"NVIDIA_OC_UNIT_DIR":        "/run/systemd/system",
		"NVIDIA_OC_POLL_INTERVAL":   "500ms",
		"NVIDIA_OC_INIT_TIMEOUT":    "30s",
		"NVIDIA_OC_COMMAND_TIMEOUT": "1m",
		"NVIDIA_OC_HISTORY_SIZE":    "600",
	}
	for k, v := range env {
		t.Setenv(k, v)
	}

	cfg, err := NewLoader(path).Load()

	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Verbose)
	assert.True(t, cfg.NoColor)
	assert.Equal(t, "/srv/oc.json", cfg.SettingsFile)
	assert.Equal(t, "/run/systemd/system", cfg.UnitDir)
	assert.Equal(t, 500*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 30*time.Second, cfg.InitTimeout)
	assert.Equal(t, time.Minute, cfg.CommandTimeout)
	assert.Equal(t, 600, cfg.HistorySize)
}

func TestLoaderInvalidEnvValuesIgnored(t *testing.T) {
	t.Setenv("NVIDIA_OC_POLL_INTERVAL", "soon")
	t.Setenv("NVIDIA_OC_HISTORY_SIZE", "lots")

	cfg, err := NewLoader("").Load()

	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.PollInterval)
	assert.Equal(t, 300, cfg.HistorySize)
}

func TestLoaderWithCustomPrefix(t *testing.T) {
	t.Setenv("OCTEST_LOG_LEVEL", "error")

	cfg, err := NewLoaderWithPrefix("", "OCTEST_").Load()

	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestLoaderLoadAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: loud\n"), 0o644))

	_, err := NewLoader(path).LoadAndValidate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.ServiceName = "gpu-oc"

	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := NewLoader(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "gpu-oc", loaded.ServiceName)
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"true", "TRUE", "1", "yes", " on "} {
		assert.True(t, parseBool(s), s)
	}
	for _, s := range []string{"false", "0", "no", "off", "maybe", ""} {
		assert.False(t, parseBool(s), s)
	}
}

// =============================================================================
// Validator
// =============================================================================

func TestValidatorReportsAllProblems(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "chatty"
	cfg.Verbose = true
	cfg.Quiet = true
	cfg.ServiceName = "bad name"
	cfg.PollInterval = 0
	cfg.HistorySize = 1
	cfg.Theme = "neon"

	errs := NewValidator().Validate(cfg)

	fields := make([]string, 0, len(errs))
	for _, err := range errs {
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		fields = append(fields, ve.Field)
	}
	assert.ElementsMatch(t, []string{
		"log_level", "verbose/quiet", "service_name", "poll_interval", "history_size", "theme",
	}, fields)
}

func TestValidatorFrameIntervalBound(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FrameInterval = 2 * time.Second

	err := NewValidator().ValidateOrError(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frame_interval")
}

func TestValidatorLogFileDirectory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogFile = "/nonexistent/dir/oc.log"
	assert.False(t, NewValidator().IsValid(cfg))

	cfg.LogFile = filepath.Join(t.TempDir(), "oc.log")
	assert.True(t, NewValidator().IsValid(cfg))

	cfg.LogFile = "oc.log"
	assert.True(t, NewValidator().IsValid(cfg))
}

func TestValidateField(t *testing.T) {
	assert.NoError(t, ValidateField("log_level", "debug"))
	assert.Error(t, ValidateField("log_level", "trace"))
	assert.NoError(t, ValidateField("theme", "nvidia-light"))
	assert.Error(t, ValidateField("theme", "solarized"))
	assert.NoError(t, ValidateField("unknown_field", "anything"))
}

func TestValidationErrorString(t *testing.T) {
	err := &ValidationError{Field: "theme", Message: "unknown theme"}
	assert.Equal(t, "config validation: theme: unknown theme", err.Error())
}
