// Package logging configures the process-wide slog logger, with optional
// file rotation.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
	"hermannm.dev/devlog"
)

// Log formats
const (
	FormatText = "text"
	FormatDev  = "dev" // colorized, multi-line attributes; terminals only
)

// Config holds logging configuration.
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // text (default) or dev
	FilePath   string // empty = Stderr
	MaxSizeMB  int    // rotate after this many megabytes
	MaxBackups int
	MaxAgeDays int
	Compress   bool // gzip rotated files

	// Stderr receives logs when FilePath is empty. Defaults to os.Stderr.
	// The MCP server speaks over stdout, so logs never go there.
	Stderr io.Writer
}

// Setup installs the default slog logger and returns a cleanup function to
// call on shutdown. The dev format only applies to stderr; files always get
// the text format.
func Setup(cfg Config) (func() error, error) {
	writer, cleanup, err := openWriter(cfg)
	if err != nil {
		return nil, err
	}

	level := ParseLevel(cfg.Level)
	var handler slog.Handler
	if strings.EqualFold(cfg.Format, FormatDev) && cfg.FilePath == "" {
		handler = devlog.NewHandler(writer, &devlog.Options{Level: level})
	} else {
		handler = slog.NewTextHandler(writer, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(handler))

	return cleanup, nil
}

func openWriter(cfg Config) (io.Writer, func() error, error) {
	if cfg.FilePath == "" {
		w := cfg.Stderr
		if w == nil {
			w = os.Stderr
		}
		return w, func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
		return nil, nil, err
	}

	lj := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
		LocalTime:  true,
	}
	return lj, lj.Close, nil
}

// ParseLevel maps a level name to a slog.Level. Unknown names mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
