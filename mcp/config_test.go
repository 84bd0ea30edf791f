package mcp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func clearRelaxwalkEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"RELAXWALK_SESSION_TTL", "RELAXWALK_SESSION_SWEEP_INTERVAL", "RELAXWALK_MAX_SESSIONS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearRelaxwalkEnv(t)
	c := loadConfig()
	assert.Equal(t, 30*time.Minute, c.SessionTTL)
	assert.Equal(t, 60*time.Second, c.SessionSweepInterval)
	assert.Equal(t, 256, c.MaxSessions)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	clearRelaxwalkEnv(t)
	t.Setenv("RELAXWALK_SESSION_TTL", "5m")
	t.Setenv("RELAXWALK_SESSION_SWEEP_INTERVAL", "10s")
	t.Setenv("RELAXWALK_MAX_SESSIONS", "4")

	c := loadConfig()
	assert.Equal(t, 5*time.Minute, c.SessionTTL)
	assert.Equal(t, 10*time.Second, c.SessionSweepInterval)
	assert.Equal(t, 4, c.MaxSessions)
}

func TestLoadConfigInvalidValuesUseDefaults(t *testing.T) {
	clearRelaxwalkEnv(t)
	t.Setenv("RELAXWALK_SESSION_TTL", "not-a-duration")
	t.Setenv("RELAXWALK_MAX_SESSIONS", "-3")

	c := loadConfig()
	assert.Equal(t, 30*time.Minute, c.SessionTTL)
	assert.Equal(t, 256, c.MaxSessions)
}
