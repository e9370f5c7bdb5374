// Package logging configures the file-backed logger used while the TUI owns
// the terminal. Writing to stdout would corrupt the bubbletea screen, so all
// diagnostics go to a log file instead.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// NewFileLogger opens (or creates) the log file at path and returns a logger
// writing to it, plus a close func for shutdown.
func NewFileLogger(path string) (*log.Logger, func() error, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "todo",
	})
	return logger, f.Close, nil
}

// Discard returns a logger that drops everything. Used in tests and as the
// fallback when no logger is injected.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
