package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{
	"SERVER_PORT", "STORE_DRIVER", "DATABASE_PATH", "BOLT_PATH",
	"STORE_TIMEOUT", "SESSION_LIFETIME", "ALLOWED_ORIGINS", "LOG_LEVEL",
	"DISCORD_KEY", "DISCORD_SECRET", "DISCORD_CALLBACK_URL",
	"GOOGLE_KEY", "GOOGLE_SECRET", "GOOGLE_CALLBACK_URL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, "brackets.db", cfg.DatabasePath)
	assert.Equal(t, "data/brackets.bolt", cfg.BoltPath)
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout)
	assert.Equal(t, 24*time.Hour, cfg.SessionLifetime)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Empty(t, cfg.OAuth.DiscordKey)
	assert.Empty(t, cfg.OAuth.GoogleKey)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORE_DRIVER", "BOLT")
	t.Setenv("STORE_TIMEOUT", "250ms")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DISCORD_KEY", "discord-key")
	t.Setenv("DISCORD_CALLBACK_URL", "http://localhost:8080/auth/discord/callback")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, DriverBolt, cfg.StoreDriver)
	assert.Equal(t, 250*time.Millisecond, cfg.StoreTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "discord-key", cfg.OAuth.DiscordKey)
	assert.Equal(t, "http://localhost:8080/auth/discord/callback", cfg.OAuth.DiscordCallbackURL)
}

func TestLoad_Invalid(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		value string
	}{
		{name: "port not a number", key: "SERVER_PORT", value: "http"},
		{name: "port out of range", key: "SERVER_PORT", value: "70000"},
		{name: "unknown driver", key: "STORE_DRIVER", value: "mongo"},
		{name: "bad timeout", key: "STORE_TIMEOUT", value: "soon"},
		{name: "negative lifetime", key: "SESSION_LIFETIME", value: "-1h"},
		{name: "bad log level", key: "LOG_LEVEL", value: "loud"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
