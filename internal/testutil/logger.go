package testutil

import (
	"io"
	"log/slog"
)

// NopLogger returns a logger that discards everything. The controller,
// dispatcher and hub all require a logger, so suites pass this one instead
// of drowning test output in JSON.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
