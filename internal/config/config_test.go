package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("logging.level = %q", cfg.Logging.Level)
	}
	if cfg.Watcher.Debounce != 2*time.Second {
		t.Errorf("watcher.debounce = %v", cfg.Watcher.Debounce)
	}
	if cfg.Cursor.Dir != "./cursors" {
		t.Errorf("cursor.dir = %q", cfg.Cursor.Dir)
	}
	if cfg.Telegram.MaxAttempts != 2 || cfg.Telegram.Breaker.FailThreshold != 3 {
		t.Errorf("telegram defaults = %+v", cfg.Telegram)
	}
	if len(cfg.Sources) != 0 {
		t.Errorf("sources = %v, want none by default", cfg.Sources)
	}
}

func TestLoadMergesUserFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(path, []byte(`
timezone: UTC
watcher:
  debounce: 500ms
sources:
  - name: servicedesk
    path: /srv/legacy/servicedesk.db
`), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Timezone != "UTC" {
		t.Errorf("timezone = %q", cfg.Timezone)
	}
	if cfg.Watcher.Debounce != 500*time.Millisecond {
		t.Errorf("watcher.debounce = %v", cfg.Watcher.Debounce)
	}
	if len(cfg.Sources) != 1 || cfg.Sources[0].Name != "servicedesk" {
		t.Errorf("sources = %+v", cfg.Sources)
	}
	// untouched keys keep their defaults
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("http.addr = %q", cfg.HTTP.Addr)
	}
}

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := Config{Timezone: "Not/AZone"}
	if got := cfg.Location(); got != time.UTC {
		t.Errorf("Location() = %v, want UTC", got)
	}
}
