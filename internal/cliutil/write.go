// Package cliutil provides small utilities shared by relaxwalk's CLI
// command handlers.
package cliutil

import (
	"fmt"
	"io"
	"os"
)

// Writef writes formatted output to w. If the write itself fails, the
// failure is reported to stderr rather than propagated, since command
// handlers print diagnostics on a best-effort basis.
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}
