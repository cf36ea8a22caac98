// Package logging sets up the diagnostic logger. The terminal UI owns
// stdout, so diagnostics go to a rotating file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/nhle/mailnest/internal/model"
)

// Logger wraps a zerolog logger together with the file it writes to.
type Logger struct {
	zerolog.Logger
	closer io.Closer
}

// New builds a JSON file logger from cfg. An empty cfg.File disables
// logging entirely.
func New(cfg model.LogConfig) (*Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if cfg.File == "" {
		return &Logger{Logger: zerolog.Nop()}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	maxSize := cfg.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 10
	}

	lj := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    maxSize,
		MaxBackups: cfg.MaxBackups,
		LocalTime:  true,
	}

	zl := zerolog.New(lj).
		Level(level).
		With().
		Timestamp().
		Str("app", "mailnest").
		Logger()

	return &Logger{Logger: zl, closer: lj}, nil
}

// NewWriter builds a logger writing to w, used by tests and by headless
// commands run with --verbose.
func NewWriter(w io.Writer, level zerolog.Level) *Logger {
	return &Logger{
		Logger: zerolog.New(w).Level(level).With().Timestamp().Logger(),
	}
}

// Console returns a human-readable logger on stderr.
func Console(level zerolog.Level) *Logger {
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return NewWriter(w, level)
}

// Close flushes and closes the log file, if any.
func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
