package logger

import (
	"log/slog"
	"os"
)

// New returns a structured JSON logger using slog, tagged with the service name.
func New(service string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler).With("service", service)
}
