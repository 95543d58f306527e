// Package client contains the Cobra CLI commands for taglog. Every command
// opens the store directly; there is no server process.
package client

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/trbck/tagged-logger/internal/archive"
	"github.com/trbck/tagged-logger/internal/config"
	pebblestore "github.com/trbck/tagged-logger/internal/store/pebble"
	"github.com/trbck/tagged-logger/internal/taglog"
	logpkg "github.com/trbck/tagged-logger/pkg/log"
)

// env bundles everything a command invocation needs. Close releases the
// store and the archive file.
type env struct {
	cfg    config.Config
	logger zerolog.Logger
	db     *pebblestore.DB
	eng    *taglog.Logger
	arch   *archive.Writer
}

func (e *env) Close() {
	if e.arch != nil {
		_ = e.arch.Close()
	}
	if e.db != nil {
		_ = e.db.Close()
	}
}

// openEnv resolves configuration (file, then env, then flags), builds the
// logger, and opens the store and engine.
func openEnv(cmd *cobra.Command) (*env, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	config.FromEnv(&cfg)
	if v, _ := cmd.Flags().GetString("data-dir"); v != "" {
		cfg.DataDir = v
	}
	if v, _ := cmd.Flags().GetString("prefix"); v != "" {
		cfg.Prefix = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if cfg.DataDir == "" {
		cfg.DataDir = config.DefaultDataDir()
	}

	logger, err := logpkg.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	mode := pebblestore.FsyncModeAlways
	switch cfg.Fsync {
	case "", "always":
	case "never":
		mode = pebblestore.FsyncModeNever
	case "interval":
		mode = pebblestore.FsyncModeInterval
	default:
		return nil, fmt.Errorf("invalid fsync mode %q; use always|interval|never", cfg.Fsync)
	}

	db, err := pebblestore.Open(pebblestore.Options{
		DataDir:       cfg.DataDir,
		Fsync:         mode,
		FsyncInterval: time.Duration(cfg.FsyncIntervalMs) * time.Millisecond,
		Logger:        logger,
	})
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, logger: logger, db: db}
	opts := taglog.Options{Store: db, Prefix: cfg.Prefix, Logger: logger}
	if cfg.ArchivePath != "" {
		w, err := archive.Open(cfg.ArchivePath)
		if err != nil {
			db.Close()
			return nil, err
		}
		e.arch = w
		opts.Archive = w.Archive
	}
	eng, err := taglog.Open(opts)
	if err != nil {
		e.Close()
		return nil, err
	}
	e.eng = eng
	return e, nil
}

// parseTime accepts RFC3339 or unix seconds (integer or fractional).
func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if sec, err := strconv.ParseFloat(s, 64); err == nil {
		return time.UnixMicro(int64(sec * 1e6)).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid time %q; expected RFC3339 or unix seconds", s)
}

// parsePair splits a key=value flag argument.
func parsePair(s string) (string, string, error) {
	k, v, ok := strings.Cut(s, "=")
	if !ok || k == "" {
		return "", "", fmt.Errorf("invalid pair %q; expected key=value", s)
	}
	return k, v, nil
}
