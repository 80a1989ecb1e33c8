// Package logging builds the application's slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ecomdash/ecomdash/internal/config"
)

// New returns a logger configured from cfg. When cfg.LogFile is set, records
// go to a size-rotated file instead of stderr.
func New(cfg *config.Config) *slog.Logger {
	var w io.Writer = os.Stderr
	format, level, file, maxSize := "text", "info", "", 50
	if cfg != nil {
		format, level, file, maxSize = cfg.LogFormat, cfg.LogLevel, cfg.LogFile, cfg.LogMaxSizeMB
	}
	if file != "" {
		w = &lumberjack.Logger{
			Filename:   file,
			MaxSize:    maxSize,
			MaxBackups: 3,
			MaxAge:     28,
		}
	}
	return NewWithWriter(w, format, level)
}

// NewWithWriter returns a text or json logger writing to w.
func NewWithWriter(w io.Writer, format, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch level {
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
