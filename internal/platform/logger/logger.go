package logger

import (
	"log/slog"
	"os"
)

// New returns a JSON slog logger writing to stdout. Development gets debug
// level, everything else info.
func New(env string) *slog.Logger {
	level := slog.LevelInfo
	if env == "development" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
