package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.False(t, cfg.DevMode)
	assert.Equal(t, "./data/journal.db", cfg.DatabasePath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10000.0, cfg.DefaultAccountBalance)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DEV_MODE", "true")
	t.Setenv("DATABASE_PATH", "/tmp/test.db")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DEFAULT_ACCOUNT_BALANCE", "25000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, "/tmp/test.db", cfg.DatabasePath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 25000.0, cfg.DefaultAccountBalance)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	t.Setenv("DEFAULT_ACCOUNT_BALANCE", "lots")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 10000.0, cfg.DefaultAccountBalance)
}

func TestValidate(t *testing.T) {
	cfg := &Config{DatabasePath: "x.db", DefaultAccountBalance: 100}
	assert.NoError(t, cfg.Validate())

	cfg.DatabasePath = ""
	assert.Error(t, cfg.Validate())

	cfg.DatabasePath = "x.db"
	cfg.DefaultAccountBalance = 0
	assert.Error(t, cfg.Validate())
}
