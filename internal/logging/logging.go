// Package logging installs the slog handler used by the buildgen CLI.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
)

// Level picks debug when verbose is set or the DEBUG environment variable is
// non-empty, info otherwise.
func Level(verbose bool) slog.Level {
	if verbose || os.Getenv("DEBUG") != "" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// Setup routes slog through a charmbracelet/log handler writing to w and
// makes it the default logger.
func Setup(w io.Writer, level slog.Level) *slog.Logger {
	handler := log.NewWithOptions(w, log.Options{
		Prefix:          "buildgen",
		Level:           log.Level(level),
		ReportTimestamp: level <= slog.LevelDebug,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
