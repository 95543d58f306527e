// Package log provides the process-wide structured logging setup, backed by
// zerolog. Components receive a zerolog.Logger by injection and add their own
// component field via With.
package log

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config declares the desired logging behavior.
type Config struct {
	// Level is one of debug|info|warn|error. Empty means info.
	Level string `json:"level"`
	// Format is one of json|console. Empty means console.
	Format string `json:"format"`
	// Output is one of stdout|stderr. Empty means stderr.
	Output string `json:"output"`
}

// New builds a logger from cfg.
func New(cfg Config) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		parsed, err := zerolog.ParseLevel(cfg.Level)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("log: parse level %q: %w", cfg.Level, err)
		}
		level = parsed
	}

	var out io.Writer = os.Stderr
	if cfg.Output == "stdout" {
		out = os.Stdout
	}
	switch cfg.Format {
	case "", "console":
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	case "json":
	default:
		return zerolog.Nop(), fmt.Errorf("log: unknown format %q", cfg.Format)
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}

// Nop returns a disabled logger for components that were not handed one.
func Nop() zerolog.Logger { return zerolog.Nop() }
