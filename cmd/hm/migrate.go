// ABOUTME: CLI command for migrating a legacy health.db into the event log.
// ABOUTME: One-time migration tool for users of the original Python tracker.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/harperreed/healthmon/internal/storage"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate <legacy.db>",
	Short: "Migrate a legacy health.db",
	Long: `Migrate data from the original Python health tracker's database.

The legacy schema stored the event value as free text, holding either an
item name or a numeric score. Migration maps each row to the current
schema:

  - numeric value  -> name taken from the category column, value kept
  - free-text value -> value becomes the name, category carried over

Garmin daily rows are migrated as-is with their columns renamed.
Migrated events get source "import". Existing data is preserved;
duplicate event IDs cannot occur because legacy IDs were numeric.

EXAMPLES:

  hm migrate ~/old/health.db`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		legacyPath := args[0]
		if _, err := os.Stat(legacyPath); err != nil {
			return fmt.Errorf("legacy database not found: %s", legacyPath)
		}

		summary, err := storage.MigrateLegacy(legacyPath, repo)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		color.Green("✓ Migration complete")
		fmt.Printf("  Events:         %d\n", summary.Events)
		fmt.Printf("  Biometric days: %d\n", summary.BiometricDays)
		if summary.Skipped > 0 {
			color.Yellow("  Skipped:        %d (unparseable rows)", summary.Skipped)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
