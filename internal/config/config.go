package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/trbck/tagged-logger/pkg/log"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	// DataDir is the Pebble database directory. Empty means the
	// OS-specific default (see DefaultDataDir).
	DataDir string `json:"dataDir"`
	// Prefix namespaces every key the engine writes.
	Prefix string `json:"prefix"`
	// Fsync is one of always|interval|never.
	Fsync string `json:"fsync"`
	// FsyncIntervalMs controls group-commit when Fsync is "interval".
	FsyncIntervalMs int `json:"fsyncIntervalMs"`
	// ArchivePath, when set, enables the default file archiver for
	// expiration sweeps.
	ArchivePath string `json:"archivePath"`

	Log log.Config `json:"log"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		Fsync:           "always",
		FsyncIntervalMs: 5,
		Log:             log.Config{Level: "info", Format: "console"},
	}
}

// Load reads configuration from a JSON file. An empty path returns defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}
