package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Fsync != "always" {
		t.Fatalf("default fsync should be always, got %q", cfg.Fsync)
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("default log level")
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "taglog.json")
	data := []byte(`{"dataDir":"/tmp/tl","prefix":"app","fsync":"interval","fsyncIntervalMs":10,"log":{"level":"debug","format":"json"}}`)
	if err := os.WriteFile(file, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataDir != "/tmp/tl" || cfg.Prefix != "app" {
		t.Fatalf("unexpected: %+v", cfg)
	}
	if cfg.Fsync != "interval" || cfg.FsyncIntervalMs != 10 {
		t.Fatalf("fsync not loaded: %+v", cfg)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Fatalf("log config not loaded: %+v", cfg.Log)
	}
}

func TestFromEnv(t *testing.T) {
	cfg := Default()
	os.Setenv("TAGLOG_PREFIX", "staging")
	os.Setenv("TAGLOG_FSYNC", "never")
	os.Setenv("TAGLOG_LOG_LEVEL", "warn")
	t.Cleanup(func() {
		os.Unsetenv("TAGLOG_PREFIX")
		os.Unsetenv("TAGLOG_FSYNC")
		os.Unsetenv("TAGLOG_LOG_LEVEL")
	})
	FromEnv(&cfg)
	if cfg.Prefix != "staging" {
		t.Fatalf("env override prefix")
	}
	if cfg.Fsync != "never" {
		t.Fatalf("env override fsync")
	}
	if cfg.Log.Level != "warn" {
		t.Fatalf("env override log level")
	}
}
