// ABOUTME: Root Cobra command for the hm CLI.
// ABOUTME: Handles config loading and storage lifecycle via PersistentPre/PostRunE.
package main

import (
	"fmt"

	"github.com/harperreed/healthmon/internal/config"
	"github.com/harperreed/healthmon/internal/storage"
	"github.com/spf13/cobra"
)

var (
	cfg  *config.Config
	repo storage.Repository
)

var rootCmd = &cobra.Command{
	Use:   "hm",
	Short: "Personal health event logger",
	Long: `hm is a CLI tool for logging health events and correlating them with
Garmin biometrics.

WHAT IT TRACKS:

  Events        food, activity, symptom, mood, stress, sleep, other
  Biometrics    steps, resting HR, stress, sleep (synced from GarminDB)

QUICK START:

  $ hm log food avocado                      # Log a food event
  $ hm log food beer --category alcohol      # Log with a category
  $ hm symptom face_redness 6                # Log a symptom with 0-10 score
  $ hm list --today                          # See today's events
  $ hm today                                 # Day summary with biometrics

CORRELATION:

  $ hm sync                                  # Pull GarminDB daily summaries
  $ hm correlate --from 2024-01-01 --to 2024-01-31
  $ hm correlate --tag symptom               # Symptoms vs sleep/stress

VOICE INPUT:

  $ hm voice                                 # Record, transcribe, confirm
  $ hm voice --text "had a beer, redness 7"  # Skip recording

  Voice notes are transcribed with Google Cloud Speech and parsed into
  structured events by Claude. Nothing is written until you confirm.

MCP INTEGRATION:

  Run 'hm mcp' to start the Model Context Protocol server for use with
  Claude Desktop or other MCP-compatible AI assistants:

  {
    "mcpServers": {
      "healthmon": { "command": "hm", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  The event log is append-only: events are never edited or deleted, and
  corrections are logged as new events. Data lives in SQLite at
  ~/.local/share/healthmon/health.db by default; set "backend": "charm"
  in ~/.config/healthmon/config.json to sync the log via Charm Cloud.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip storage init for commands that don't need it
		switch cmd.Name() {
		case "version", "help", "completion", "install-skill", "link", "unlink":
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		repo, err = cfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open storage: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if repo != nil {
			return repo.Close()
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
