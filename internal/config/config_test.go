package config

import (
	"log/slog"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.General.Currency != "USD" {
		t.Fatalf("currency = %q", cfg.General.Currency)
	}
	if cfg.General.DataDir != filepath.Join("/tmp/xdg-data", "tally") {
		t.Fatalf("data dir = %q", cfg.General.DataDir)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("TALLY_DATA_DIR", "/custom/data")
	t.Setenv("TALLY_CURRENCY", "EUR")
	t.Setenv("TALLY_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.General.DataDir != "/custom/data" {
		t.Fatalf("data dir = %q", cfg.General.DataDir)
	}
	if cfg.General.Currency != "EUR" {
		t.Fatalf("currency = %q", cfg.General.Currency)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Fatalf("log level = %v", cfg.SlogLevel())
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.General.Currency = "GBP"
	cfg.Appearance.Theme = "flexoki-light"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.General.Currency != "GBP" {
		t.Fatalf("currency = %q", loaded.General.Currency)
	}
	if loaded.Appearance.Theme != "flexoki-light" {
		t.Fatalf("theme = %q", loaded.Appearance.Theme)
	}
}
