package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"API_BASE_URL", "NEXT_PUBLIC_API_BASE_URL", "API_KEY", "NEXT_PUBLIC_API_KEY",
		"PORT", "APP_ENV", "NODE_ENV", "CORS_ALLOWED_ORIGINS", "ROUTES_FILE",
		"LOG_LEVEL", "LOG_FORMAT", "BACKEND_PROBE_SCHEDULE",
	} {
		t.Setenv(key, "")
	}
}

// chdir switches the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24)
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.Backend.Configured())
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.False(t, cfg.Server.Production())
	assert.Empty(t, cfg.Server.AllowedOrigins)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, DefaultProbeSchedule, cfg.Server.ProbeSchedule)
}

func TestLoadBackend(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())
	t.Setenv("NEXT_PUBLIC_API_BASE_URL", "https://api.example.com/")
	t.Setenv("API_KEY", "secret")
	t.Setenv("APP_ENV", "Production")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("BACKEND_PROBE_SCHEDULE", "*/5 * * * *")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Backend.Configured())
	assert.Equal(t, "https://api.example.com", cfg.Backend.BaseURL)
	assert.Equal(t, "secret", cfg.Backend.APIKey)
	assert.True(t, cfg.Server.Production())
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "*/5 * * * *", cfg.Server.ProbeSchedule)
}

func TestBackendConfigured(t *testing.T) {
	assert.False(t, BackendConfig{BaseURL: "http://x"}.Configured())
	assert.False(t, BackendConfig{APIKey: "k"}.Configured())
	assert.True(t, BackendConfig{BaseURL: "http://x", APIKey: "k"}.Configured())
}
