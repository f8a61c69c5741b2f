package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lmittmann/tint"

	"github.com/elee1766/streamchat/src/config"
)

// createREPLLogger creates a logger that doesn't interfere with the chat
// view by writing to a file instead of stdout/stderr
func createREPLLogger(conf config.LoggingConfig) *slog.Logger {
	logDir := config.GetDefaultLogPath()
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return discardLogger()
	}

	file, err := os.OpenFile(filepath.Join(logDir, "streamchat.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return discardLogger()
	}

	return slog.New(slog.NewJSONHandler(file, &slog.HandlerOptions{
		Level: parseLogLevel(conf.Level),
	}))
}

// createCLILogger creates a logger for one-shot commands on stderr
func createCLILogger(conf config.LoggingConfig) *slog.Logger {
	return newLogger(os.Stderr, conf)
}

func newLogger(w io.Writer, conf config.LoggingConfig) *slog.Logger {
	level := parseLogLevel(conf.Level)
	if conf.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level: level,
	}))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// parseLogLevel converts string log level to slog.Level
func parseLogLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
