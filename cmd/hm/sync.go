// ABOUTME: CLI command for syncing GarminDB daily summaries.
// ABOUTME: Reads local GarminDB files and upserts per-day biometrics.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/healthmon/internal/garmin"
	"github.com/harperreed/healthmon/internal/models"
	"github.com/spf13/cobra"
)

var (
	syncDays      int
	syncSummaryDB string
	syncMainDB    string
	syncQuiet     bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync Garmin biometrics",
	Long: `Pull daily biometric summaries from a local GarminDB installation.

GarminDB (https://github.com/tcgoetz/GarminDB) downloads your Garmin
Connect data into SQLite files. hm reads those files and copies the
daily summaries (steps, resting HR, stress, sleep) into its own store,
keyed by calendar day. Re-running a sync overwrites the affected days,
so it is always safe to repeat.

SETUP:

  1. Install GarminDB and run its download:
     garmindb_cli.py --all --download --import --analyze

  2. Sync into hm:
     hm sync

By default the last 30 days are synced from
~/HealthData/DBs/garmin_summary.db; sleep detail is merged from
garmin.db when present.

EXAMPLES:

  hm sync                 # Last 30 days
  hm sync --days 90       # Go further back
  hm sync --summary-db /data/garmin_summary.db`,
	RunE: func(cmd *cobra.Command, args []string) error {
		summaryPath := cfg.GetGarminSummaryDB()
		if syncSummaryDB != "" {
			summaryPath = syncSummaryDB
		}
		mainPath := cfg.GetGarminMainDB()
		if syncMainDB != "" {
			mainPath = syncMainDB
		}
		days := cfg.GetGarminDays()
		if syncDays > 0 {
			days = syncDays
		}

		syncer := garmin.NewSyncer(repo, summaryPath, mainPath)
		if !syncQuiet {
			faint := color.New(color.Faint)
			syncer.Progress = func(b *models.BiometricDay) {
				steps := "-"
				if b.Steps != nil {
					steps = fmt.Sprintf("%d steps", *b.Steps)
				}
				sleep := "-"
				if b.SleepTotalSec != nil {
					sleep = formatHours(*b.SleepTotalSec)
				}
				faint.Printf("  %s  %-12s sleep %s\n",
					b.Day.Format(models.DayFormat), steps, sleep)
			}
		}
		res, err := syncer.Sync(days)
		if err != nil {
			if models.IsExternal(err) {
				return fmt.Errorf("garmin sync: %w", err)
			}
			return err
		}

		color.Green("✓ Synced %d day(s)", res.Days)
		fmt.Printf("  from %s\n", res.From.Format(models.DayFormat))
		return nil
	},
}

func init() {
	syncCmd.Flags().IntVar(&syncDays, "days", 0, "how many days back to sync (default 30)")
	syncCmd.Flags().StringVar(&syncSummaryDB, "summary-db", "", "path to garmin_summary.db")
	syncCmd.Flags().StringVar(&syncMainDB, "main-db", "", "path to garmin.db (sleep detail)")
	syncCmd.Flags().BoolVarP(&syncQuiet, "quiet", "q", false, "suppress per-day output")
	rootCmd.AddCommand(syncCmd)
}
