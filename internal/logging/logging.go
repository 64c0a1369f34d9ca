// Package logging configures the process-wide zerolog logger used for
// diagnostics. Operator-facing output goes through the monitor console,
// not through here.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

// Config holds logger configuration
type Config struct {
	Level  string // trace, debug, info, warn, error, disabled
	Pretty bool   // human-readable console output
}

// DefaultConfig logs warnings and above, pretty-printed when stderr is
// a terminal.
func DefaultConfig() Config {
	return Config{
		Level:  "warn",
		Pretty: term.IsTerminal(int(os.Stderr.Fd())),
	}
}

// Setup builds a logger writing to w and installs it as the global
// zerolog logger. Unknown levels fall back to warn.
func Setup(cfg Config, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.WarnLevel
	}

	if cfg.Pretty {
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.TimeOnly,
		}
	}

	logger := zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()

	log.Logger = logger
	return logger
}
