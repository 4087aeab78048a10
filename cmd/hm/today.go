// ABOUTME: CLI command for the day summary view.
// ABOUTME: Shows today's events grouped by tag plus synced Garmin biometrics.
package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/healthmon/internal/models"
	"github.com/spf13/cobra"
)

var todayDate string

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's events and biometrics",
	Long: `Show the day summary: events grouped by tag, plus the day's Garmin
biometrics if they have been synced.

EXAMPLES:

  hm today                     # Today's summary
  hm today --date 2024-01-05   # Summary for a past day`,
	RunE: func(cmd *cobra.Command, args []string) error {
		day := models.DayOf(time.Now().UTC())
		if todayDate != "" {
			d, err := models.ParseDay(todayDate)
			if err != nil {
				return fmt.Errorf("invalid date: %s (use YYYY-MM-DD)", todayDate)
			}
			day = d
		}

		byTag, err := repo.SummarizeDay(day)
		if err != nil {
			return fmt.Errorf("failed to summarize day: %w", err)
		}

		bold := color.New(color.Bold)
		faint := color.New(color.Faint)
		bold.Printf("%s\n\n", day.Format("Monday, 2006-01-02"))

		if len(byTag) == 0 {
			fmt.Println("No events logged.")
		} else {
			var tags []models.Tag
			for t := range byTag {
				tags = append(tags, t)
			}
			sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })

			for _, t := range tags {
				bold.Printf("%s\n", t)
				for _, e := range byTag[t] {
					value := ""
					if e.Value != nil {
						value = fmt.Sprintf(" %.1f", *e.Value)
					}
					notes := ""
					if e.Notes != nil && *e.Notes != "" {
						notes = faint.Sprintf(" (%s)", *e.Notes)
					}
					fmt.Printf("  %s %s%s%s\n",
						faint.Sprint(e.Timestamp.Format("15:04")),
						e.Name, value, notes)
				}
			}
		}

		b, err := repo.GetDay(day)
		if err != nil {
			return fmt.Errorf("failed to get biometrics: %w", err)
		}

		fmt.Println()
		if b == nil {
			faint.Println("No biometrics synced for this day. Run 'hm sync'.")
			return nil
		}

		bold.Println("biometrics")
		if b.Steps != nil {
			fmt.Printf("  steps    %d\n", *b.Steps)
		}
		if b.RestingHR != nil {
			fmt.Printf("  rhr      %.0f bpm\n", *b.RestingHR)
		}
		if b.StressAvg != nil {
			fmt.Printf("  stress   %d\n", *b.StressAvg)
		}
		if b.SleepTotalSec != nil {
			fmt.Printf("  sleep    %s", formatHours(*b.SleepTotalSec))
			if b.SleepRemSec != nil {
				fmt.Printf(" %s", faint.Sprintf("(REM %s)", formatHours(*b.SleepRemSec)))
			}
			fmt.Println()
		}
		if b.ActiveCalories != nil {
			fmt.Printf("  active   %d kcal\n", *b.ActiveCalories)
		}

		return nil
	},
}

// formatHours renders seconds as "6h30m".
func formatHours(sec int) string {
	h := sec / 3600
	m := (sec % 3600) / 60
	return fmt.Sprintf("%dh%02dm", h, m)
}

func init() {
	todayCmd.Flags().StringVar(&todayDate, "date", "", "show a specific day (YYYY-MM-DD)")
	rootCmd.AddCommand(todayCmd)
}
