package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PERFCLI_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, int64(33554432), cfg.Limits.MaxUploadBytes)
	assert.Equal(t, 20, cfg.Limits.MaxFiles)
	assert.Equal(t, 1.0, cfg.SLA.DefaultThresholdSeconds)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PERFCLI_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("PERFCLI_SERVER_PORT", "9000")
	t.Setenv("PERFCLI_SLA_DEFAULT_THRESHOLD_SECONDS", "2.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 2.5, cfg.SLA.DefaultThresholdSeconds)
}

func TestLoadFileOverlay(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "perfcli.yaml")
	require.NoError(t, os.WriteFile(file, []byte("server:\n  port: 9999\nlogging:\n  format: text\n"), 0644))
	t.Setenv("PERFCLI_CONFIG_FILE", file)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoadValidation(t *testing.T) {
	t.Setenv("PERFCLI_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad port", "PERFCLI_SERVER_PORT", "-1"},
		{"bad log format", "PERFCLI_LOGGING_FORMAT", "xml"},
		{"bad upload limit", "PERFCLI_LIMITS_MAX_UPLOAD_BYTES", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
