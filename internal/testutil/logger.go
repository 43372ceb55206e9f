// Package testutil contains helpers shared by tests.
package testutil

import (
	"io"
	"log/slog"

	"github.com/dtroode/musehabit-server/internal/logger"
)

// MakeNoopLogger returns a logger that discards everything.
func MakeNoopLogger() *logger.Logger {
	return &logger.Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))}
}
