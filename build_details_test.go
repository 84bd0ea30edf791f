package relaxwalk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestVersion verifies that Version() returns the version variable. In
// normal builds this is set via ldflags; in development it defaults to
// "dev".
func TestVersion(t *testing.T) {
	result := Version()
	assert.NotEmpty(t, result, "Version() should not return empty string")
	assert.True(t,
		result == "dev" || strings.HasPrefix(result, "v"),
		"Version() should be 'dev' or start with 'v', got: %s", result)
}

// TestUserAgent verifies the format "relaxwalk/{version}".
func TestUserAgent(t *testing.T) {
	result := UserAgent()
	assert.True(t, strings.HasPrefix(result, "relaxwalk/"),
		"UserAgent() should start with 'relaxwalk/', got: %s", result)
	assert.Equal(t, "relaxwalk/"+Version(), result)
}

func TestUserAgentFormat(t *testing.T) {
	userAgent := UserAgent()
	assert.NotContains(t, userAgent, " ")
	assert.NotContains(t, userAgent, "\n")
	assert.NotContains(t, userAgent, "\x00")
}
