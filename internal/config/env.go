package config

import (
	"os"
	"strconv"
)

// FromEnv overlays TAGLOG_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("TAGLOG_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("TAGLOG_PREFIX"); v != "" {
		cfg.Prefix = v
	}
	if v := os.Getenv("TAGLOG_FSYNC"); v != "" {
		cfg.Fsync = v
	}
	if v := os.Getenv("TAGLOG_FSYNC_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.FsyncIntervalMs = n
		}
	}
	if v := os.Getenv("TAGLOG_ARCHIVE_PATH"); v != "" {
		cfg.ArchivePath = v
	}
	if v := os.Getenv("TAGLOG_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TAGLOG_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}
