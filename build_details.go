package relaxwalk

import "fmt"

var (
	// version is set via ldflags during build by GoReleaser.
	// For development builds, this shows "dev".
	version = "dev"
)

// Version returns the compiled version, or "dev" if run from source.
func Version() string {
	return version
}

// UserAgent returns the User-Agent string the CLI and MCP server identify with.
func UserAgent() string {
	return fmt.Sprintf("relaxwalk/%s", version)
}
