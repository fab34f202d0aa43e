// Package logging wraps github.com/charmbracelet/log with the three
// verbosity levels the CLI exposes: quiet, default and debug (spec §6
// "debug" / "quiet" options).
package logging

import (
	"os"

	charmlog "github.com/charmbracelet/log"
)

// New builds a logger writing to stderr at the level implied by the
// debug/quiet flags. debug takes precedence over quiet if both are set.
func New(debug, quiet bool) *charmlog.Logger {
	logger := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
	})
	switch {
	case debug:
		logger.SetLevel(charmlog.DebugLevel)
	case quiet:
		logger.SetLevel(charmlog.WarnLevel)
	default:
		logger.SetLevel(charmlog.InfoLevel)
	}
	return logger
}
