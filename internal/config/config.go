// Package config handles runtime configuration and environment loading.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Config holds the runtime configuration for the masksync CLI and daemon.
// The two policy documents themselves are loaded separately; this only
// carries where to find them and how to reach the warehouse.
type Config struct {
	DSN           string // postgres-protocol DSN for the warehouse
	Environment   string // environment name substituted into {env} role templates
	MaskingPath   string // path to the masking rules YAML document
	DirectoryPath string // path to the external identity directory YAML document
	Schedule      string // cron expression for serve mode (default "@hourly")
	ListenAddr    string // status endpoint listen address (default ":8080")
	LogLevel      string // log level: debug, info, warn, error (default "info")
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() *Config {
	cfg := &Config{
		DSN:           os.Getenv("MASKSYNC_DSN"),
		Environment:   os.Getenv("MASKSYNC_ENV"),
		MaskingPath:   os.Getenv("MASKSYNC_MASKING_CONFIG"),
		DirectoryPath: os.Getenv("MASKSYNC_USER_DIRECTORY"),
		Schedule:      os.Getenv("MASKSYNC_SCHEDULE"),
		ListenAddr:    os.Getenv("MASKSYNC_LISTEN_ADDR"),
		LogLevel:      os.Getenv("MASKSYNC_LOG_LEVEL"),
	}
	if cfg.Schedule == "" {
		cfg.Schedule = "@hourly"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg
}

// Validate checks that the configuration is complete enough to run a cycle.
func (c *Config) Validate() error {
	if c.DSN == "" {
		return fmt.Errorf("MASKSYNC_DSN is required")
	}
	if c.Environment == "" {
		return fmt.Errorf("MASKSYNC_ENV is required")
	}
	if c.MaskingPath == "" {
		return fmt.Errorf("MASKSYNC_MASKING_CONFIG is required")
	}
	if c.DirectoryPath == "" {
		return fmt.Errorf("MASKSYNC_USER_DIRECTORY is required")
	}
	return nil
}

// SlogLevel maps the configured log level onto a slog level, defaulting to
// info for unrecognized values.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
