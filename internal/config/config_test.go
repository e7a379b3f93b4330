package config_test

import (
	"testing"
	"time"

	"gallery/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"ENV", "PORT", "FIRESTORE_SA", "PROJECT_ID", "WALLPAPER_COLLECTION",
		"CORS_ALLOWED_ORIGINS", "STORAGE_BUCKET", "PUBSUB_TOPIC",
		"PUBSUB_SUBSCRIPTION", "FETCH_TIMEOUT", "SESSION_IDLE_TIMEOUT",
		"TRACE_STDOUT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.Dev())
	assert.False(t, cfg.Remote())
	assert.Equal(t, "wallpapers", cfg.WallpaperCollection)
	assert.Equal(t, 15*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTimeout)
	assert.NotEmpty(t, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.TraceStdout)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "prod")
	t.Setenv("PORT", "9090")
	t.Setenv("FIRESTORE_SA", "e30=")
	t.Setenv("PROJECT_ID", "gallery-prod")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("FETCH_TIMEOUT", "3s")
	t.Setenv("SESSION_IDLE_TIMEOUT", "5m")
	t.Setenv("TRACE_STDOUT", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.False(t, cfg.Dev())
	assert.True(t, cfg.Remote())
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 3*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 5*time.Minute, cfg.SessionIdleTimeout)
	assert.True(t, cfg.TraceStdout)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"bad timeout":        {"FETCH_TIMEOUT": "soon"},
		"negative timeout":   {"FETCH_TIMEOUT": "-1s"},
		"bad trace flag":     {"TRACE_STDOUT": "maybe"},
		"zero idle timeout":  {"SESSION_IDLE_TIMEOUT": "0s"},
		"bad port":           {"PORT": "http"},
		"missing project id": {"FIRESTORE_SA": "e30="},
	}

	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}

			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}
