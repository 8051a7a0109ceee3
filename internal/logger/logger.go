// Package logger provides verbose-gated debug logging for the CLI.
// Informational output for the user goes to stdout via the commands; this
// package only carries diagnostics enabled with --verbose.
package logger

import (
	"log"
	"os"
	"sync/atomic"
)

var verbose atomic.Bool

var debugLog = log.New(os.Stderr, "debug: ", log.Ltime)

// SetVerbose toggles debug output.
func SetVerbose(v bool) {
	verbose.Store(v)
}

// Verbose reports whether debug output is enabled.
func Verbose() bool {
	return verbose.Load()
}

// Debugf logs a formatted message when verbose mode is on.
func Debugf(format string, args ...any) {
	if verbose.Load() {
		debugLog.Printf(format, args...)
	}
}
