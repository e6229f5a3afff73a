// Package logging builds the process logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/ersonp/roster-core/internal/infrastructure/config"
)

// Setup returns a logger writing to stderr at the configured level.
// An unknown level falls back to info.
func Setup(cfg config.LogConfig) zerolog.Logger {
	return New(os.Stderr, cfg)
}

// New returns a logger writing to w.
func New(w io.Writer, cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	if cfg.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
