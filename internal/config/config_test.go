// ABOUTME: Tests for configuration loading, defaults, and persistence.
// ABOUTME: Uses XDG_CONFIG_HOME redirection to isolate from the real config.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadMissingConfigReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.GetBackend() != "sqlite" {
		t.Errorf("default backend: got %s, want sqlite", cfg.GetBackend())
	}
	if cfg.GetGarminDays() != 30 {
		t.Errorf("default sync days: got %d, want 30", cfg.GetGarminDays())
	}
	if cfg.GetVoiceTimeout() != 60*time.Second {
		t.Errorf("default voice timeout: got %v", cfg.GetVoiceTimeout())
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := &Config{
		Backend: "charm",
		DataDir: "/tmp/healthmon-test",
	}
	cfg.Garmin.SummaryDB = "/data/garmin_summary.db"
	cfg.Garmin.Days = 7
	cfg.Voice.Language = "pl-PL"
	cfg.Voice.TimeoutSeconds = 10

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Backend != "charm" || loaded.DataDir != "/tmp/healthmon-test" {
		t.Errorf("core fields mismatch: %+v", loaded)
	}
	if loaded.GetGarminSummaryDB() != "/data/garmin_summary.db" {
		t.Errorf("garmin path mismatch: %s", loaded.GetGarminSummaryDB())
	}
	if loaded.GetGarminDays() != 7 {
		t.Errorf("garmin days mismatch: %d", loaded.GetGarminDays())
	}
	if loaded.Voice.Language != "pl-PL" {
		t.Errorf("voice language mismatch: %s", loaded.Voice.Language)
	}
	if loaded.GetVoiceTimeout() != 10*time.Second {
		t.Errorf("voice timeout mismatch: %v", loaded.GetVoiceTimeout())
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	if got := ExpandPath("~/data"); got != filepath.Join(home, "data") {
		t.Errorf("ExpandPath(~/data) = %s", got)
	}
	if got := ExpandPath("/abs/path"); got != "/abs/path" {
		t.Errorf("absolute path should pass through, got %s", got)
	}
	if got := ExpandPath("~"); got != home {
		t.Errorf("ExpandPath(~) = %s", got)
	}
}

func TestGarminDefaultPaths(t *testing.T) {
	cfg := &Config{}

	if !strings.HasSuffix(cfg.GetGarminSummaryDB(), filepath.Join("HealthData", "DBs", "garmin_summary.db")) {
		t.Errorf("unexpected summary default: %s", cfg.GetGarminSummaryDB())
	}
	if !strings.HasSuffix(cfg.GetGarminMainDB(), filepath.Join("HealthData", "DBs", "garmin.db")) {
		t.Errorf("unexpected main default: %s", cfg.GetGarminMainDB())
	}
}

func TestOpenStorageUnknownBackend(t *testing.T) {
	cfg := &Config{Backend: "postgres"}

	if _, err := cfg.OpenStorage(); err == nil {
		t.Error("expected error for unknown backend")
	}
}
