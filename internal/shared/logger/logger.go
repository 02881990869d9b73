package logger

import (
	"io"
	"log/slog"
	"os"
)

// Setup installs the process-wide slog logger for env.
// Production writes JSON for the log collector, everything else writes text.
func Setup(env string) {
	slog.SetDefault(slog.New(newHandler(env, os.Stdout)))
	slog.Info("Logger initialized", "env", env, "level", levelFor(env).String())
}

func newHandler(env string, w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: levelFor(env)}

	switch env {
	case "production", "prod":
		return slog.NewJSONHandler(w, opts)
	default:
		return slog.NewTextHandler(w, opts)
	}
}

func levelFor(env string) slog.Level {
	switch env {
	case "local", "dev", "development":
		return slog.LevelDebug
	case "test":
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
