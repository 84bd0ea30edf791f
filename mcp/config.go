package mcp

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// serverConfig holds all configurable MCP server defaults, loaded once
// from environment variables at package init.
type serverConfig struct {
	SessionTTL           time.Duration
	SessionSweepInterval time.Duration
	MaxSessions          int
}

var cfg = loadConfig()

// loadConfig reads configuration from RELAXWALK_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		SessionTTL:           envDuration("RELAXWALK_SESSION_TTL", 30*time.Minute),
		SessionSweepInterval: envDuration("RELAXWALK_SESSION_SWEEP_INTERVAL", 60*time.Second),
		MaxSessions:          envInt("RELAXWALK_MAX_SESSIONS", 256),
	}
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}
