package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("MASKSYNC_DSN", "postgres://etl@warehouse:5439/analytics")
	t.Setenv("MASKSYNC_ENV", "prod")
	t.Setenv("MASKSYNC_MASKING_CONFIG", "/etc/masksync/masking.yaml")
	t.Setenv("MASKSYNC_USER_DIRECTORY", "/etc/masksync/users.yaml")
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg := LoadFromEnv()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "@hourly", cfg.Schedule)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MASKSYNC_SCHEDULE", "*/15 * * * *")
	t.Setenv("MASKSYNC_LISTEN_ADDR", ":9090")
	t.Setenv("MASKSYNC_LOG_LEVEL", "debug")

	cfg := LoadFromEnv()
	assert.Equal(t, "*/15 * * * *", cfg.Schedule)
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestValidate_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"missing dsn", Config{Environment: "prod", MaskingPath: "a", DirectoryPath: "b"}, "MASKSYNC_DSN"},
		{"missing env", Config{DSN: "d", MaskingPath: "a", DirectoryPath: "b"}, "MASKSYNC_ENV"},
		{"missing masking", Config{DSN: "d", Environment: "prod", DirectoryPath: "b"}, "MASKSYNC_MASKING_CONFIG"},
		{"missing directory", Config{DSN: "d", Environment: "prod", MaskingPath: "a"}, "MASKSYNC_USER_DIRECTORY"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, (&Config{LogLevel: "warn"}).SlogLevel())
	assert.Equal(t, slog.LevelError, (&Config{LogLevel: "ERROR"}).SlogLevel())
	assert.Equal(t, slog.LevelInfo, (&Config{LogLevel: "bogus"}).SlogLevel())
}
