package logging

import (
	"log/slog"
	"os"
	"strings"
)

// New builds the application logger: JSON handler on stdout with app metadata
// attached, level taken from config.
func New(env, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(level),
	})).With(
		slog.String("app", "resto-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
