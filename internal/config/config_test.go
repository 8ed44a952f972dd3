package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"PLANNER_ADDR", "PLANNER_STORAGE", "PLANNER_STATIC_DIR", "PLANNER_JWT_SECRET",
		"PLANNER_TOKEN_TTL", "PLANNER_CORS_ORIGINS", "PLANNER_ENV", "PLANNER_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, ":5001", cfg.Addr)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, "", cfg.StaticDir)
	assert.Equal(t, DefaultJWTSecret, cfg.JWTSecret)
	assert.True(t, cfg.UsesDefaultSecret())
	assert.Zero(t, cfg.TokenTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PLANNER_ADDR", ":9000")
	t.Setenv("PLANNER_STORAGE", "SQLite")
	t.Setenv("PLANNER_JWT_SECRET", "s3cret")
	t.Setenv("PLANNER_TOKEN_TTL", "24h")
	t.Setenv("PLANNER_CORS_ORIGINS", "http://localhost:3000, http://example.com")
	t.Setenv("PLANNER_LOG_LEVEL", "debug")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, StorageSQLite, cfg.Storage)
	assert.False(t, cfg.UsesDefaultSecret())
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"http://localhost:3000", "http://example.com"}, cfg.CORSOrigins)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestFlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PLANNER_ADDR", ":9000")

	cfg, err := Load([]string{"-addr", ":7000", "-env", "production"})
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Addr)
	assert.Equal(t, "production", cfg.Environment)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string][]string{
		"storage":   {"-storage", "postgres"},
		"ttl":       {"-token-ttl", "soon"},
		"negative":  {"-token-ttl", "-1m"},
		"log level": {"-log-level", "loud"},
		"unknown":   {"-nope"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			_, err := Load(args)
			assert.Error(t, err)
		})
	}
}
