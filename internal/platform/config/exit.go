package config

import (
	"fmt"
	"os"
)

// Process exit codes used by the engine commands. Supervisors restart on
// ExitCodeStartup but page an operator on ExitCodeReplayFailed, since a
// replica that cannot replay its log will fail identically on every restart.
const (
	ExitCodeStartup      = 1
	ExitCodeReplayFailed = 3
)

// Exitf writes a formatted error message to stderr and exits with code 1.
// It provides a consistent fatal-exit pattern for CLI entry points.
func Exitf(format string, args ...any) {
	ExitCodef(ExitCodeStartup, format, args...)
}

// ExitCodef writes a formatted error message to stderr and exits with code.
func ExitCodef(code int, format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(code)
}
