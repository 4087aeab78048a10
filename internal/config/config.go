// ABOUTME: healthmon configuration management with backend selection.
// ABOUTME: Handles data paths, Garmin sync sources, and voice pipeline settings.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/harperreed/healthmon/internal/charm"
	"github.com/harperreed/healthmon/internal/storage"
)

// Config stores healthmon configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default) or "charm".
	// The charm backend syncs events and biometric days across devices via
	// Charm Cloud; the Garmin sync still reads local GarminDB files.
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for data storage; health.db lives here.
	// Supports ~ expansion. Defaults to ~/.local/share/healthmon.
	DataDir string `json:"data_dir,omitempty"`

	Garmin GarminConfig `json:"garmin,omitempty"`
	Voice  VoiceConfig  `json:"voice,omitempty"`
}

// GarminConfig locates the GarminDB files the sync adapter reads.
type GarminConfig struct {
	// SummaryDB is the GarminDB days_summary database.
	// Defaults to ~/HealthData/DBs/garmin_summary.db.
	SummaryDB string `json:"summary_db,omitempty"`

	// MainDB is the GarminDB sleep-detail database (optional).
	// Defaults to ~/HealthData/DBs/garmin.db.
	MainDB string `json:"main_db,omitempty"`

	// Days is how many days back to sync by default.
	Days int `json:"days,omitempty"`
}

// VoiceConfig holds voice pipeline settings.
type VoiceConfig struct {
	// Language hint for transcription (BCP-47); empty means en-US.
	Language string `json:"language,omitempty"`

	// Model is the Anthropic model used for structured parsing.
	Model string `json:"model,omitempty"`

	// BaseURL overrides the Anthropic API endpoint (used in tests).
	BaseURL string `json:"base_url,omitempty"`

	// TimeoutSeconds bounds each external call. Defaults to 60.
	TimeoutSeconds int `json:"timeout_seconds,omitempty"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return "sqlite"
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetGarminSummaryDB returns the GarminDB summary database path.
func (c *Config) GetGarminSummaryDB() string {
	if c.Garmin.SummaryDB != "" {
		return ExpandPath(c.Garmin.SummaryDB)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "HealthData", "DBs", "garmin_summary.db")
}

// GetGarminMainDB returns the GarminDB sleep-detail database path.
func (c *Config) GetGarminMainDB() string {
	if c.Garmin.MainDB != "" {
		return ExpandPath(c.Garmin.MainDB)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "HealthData", "DBs", "garmin.db")
}

// GetGarminDays returns how many days back to sync, defaulting to 30.
func (c *Config) GetGarminDays() int {
	if c.Garmin.Days <= 0 {
		return 30
	}
	return c.Garmin.Days
}

// GetVoiceTimeout returns the bounded timeout for external voice calls.
func (c *Config) GetVoiceTimeout() time.Duration {
	if c.Voice.TimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.Voice.TimeoutSeconds) * time.Second
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage creates a Repository implementation based on the configured backend.
func (c *Config) OpenStorage() (storage.Repository, error) {
	switch backend := c.GetBackend(); backend {
	case "sqlite":
		dbPath := filepath.Join(c.GetDataDir(), "health.db")
		return storage.Open(dbPath)
	case "charm":
		return charm.InitClient()
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "healthmon", "config.json")
}

// Load reads config from disk.
func Load() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
