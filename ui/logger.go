package ui

import (
	"io"

	"github.com/charmbracelet/log"
)

// NewLogger builds a Charm logger writing to w. Verbose mode reports caller
// and timestamp and lowers the level to debug.
func NewLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportCaller:    verbose,
		ReportTimestamp: verbose,
		Prefix:          "mercat",
	})

	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.InfoLevel)
	}

	return logger
}
