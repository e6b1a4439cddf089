// Package logging configures the process-wide structured logger.
//
// Development gets human-readable text at DEBUG level, production gets
// JSON at INFO level so logs can be ingested by aggregators without
// extra parsing.
package logging

import (
	"log/slog"
	"os"
)

// Setup returns a *slog.Logger configured for the given environment
// ("dev", "staging", "prod"; anything unrecognised falls back to dev).
func Setup(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default:
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}
