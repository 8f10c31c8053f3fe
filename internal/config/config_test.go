package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/ats_test")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://localhost:5000", cfg.AIBackendURL)
	assert.Equal(t, 30*time.Second, cfg.AITimeout)
	assert.Equal(t, 6*time.Second, cfg.ScreenInterval)
	assert.Equal(t, 3, cfg.ScreenMaxRetries)
	assert.Equal(t, time.Second, cfg.ScreenBaseDelay)
	assert.Equal(t, 60*time.Second, cfg.ScreenMaxBackoff)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/ats_test")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SCREEN_INTERVAL", "30s")
	t.Setenv("SCREEN_MAX_RETRIES", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.ScreenInterval)
	assert.Equal(t, 5, cfg.ScreenMaxRetries)
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "placeholder")
	t.Setenv("JWT_SECRET", "placeholder")
	os.Unsetenv("DATABASE_URL")
	os.Unsetenv("JWT_SECRET")

	_, err := Load()
	assert.Error(t, err)
}
