// ABOUTME: CLI command for the event-biometric correlation view.
// ABOUTME: Joins events with same-day Garmin data over a date range.
package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/healthmon/internal/models"
	"github.com/spf13/cobra"
)

var (
	correlateFrom string
	correlateTo   string
	correlateTag  string
)

var correlateCmd = &cobra.Command{
	Use:   "correlate",
	Short: "Join events with same-day biometrics",
	Long: `Show events side by side with the Garmin biometrics of their calendar
day. Events on unsynced days are still shown, with the biometric columns
left blank.

The default range is the last 30 days.

EXAMPLES:

  hm correlate                                   # Last 30 days
  hm correlate --from 2024-01-01 --to 2024-01-31
  hm correlate --tag symptom                     # Symptoms vs sleep/stress`,
	RunE: func(cmd *cobra.Command, args []string) error {
		to := models.DayOf(time.Now().UTC())
		from := to.AddDate(0, 0, -30)

		if correlateFrom != "" {
			d, err := models.ParseDay(correlateFrom)
			if err != nil {
				return fmt.Errorf("invalid from date: %s (use YYYY-MM-DD)", correlateFrom)
			}
			from = d
		}
		if correlateTo != "" {
			d, err := models.ParseDay(correlateTo)
			if err != nil {
				return fmt.Errorf("invalid to date: %s (use YYYY-MM-DD)", correlateTo)
			}
			to = d
		}
		if to.Before(from) {
			return fmt.Errorf("range is backwards: %s is after %s",
				from.Format(models.DayFormat), to.Format(models.DayFormat))
		}

		pairs, err := repo.JoinBiometrics(from, to)
		if err != nil {
			return fmt.Errorf("failed to join biometrics: %w", err)
		}

		if correlateTag != "" {
			var filtered []*models.EventBiometrics
			for _, p := range pairs {
				if p.Event.Tag == models.Tag(correlateTag) {
					filtered = append(filtered, p)
				}
			}
			pairs = filtered
		}

		if len(pairs) == 0 {
			fmt.Println("No events in range.")
			return nil
		}

		faint := color.New(color.Faint)
		fmt.Printf("%-17s %-9s %-20s %7s %7s %6s %8s\n",
			"TIME", "TAG", "NAME", "VALUE", "SLEEP", "STRESS", "STEPS")
		for _, p := range pairs {
			e := p.Event
			value := ""
			if e.Value != nil {
				value = fmt.Sprintf("%.1f", *e.Value)
			}

			sleep, stress, steps := "-", "-", "-"
			if b := p.Biometrics; b != nil {
				if b.SleepTotalSec != nil {
					sleep = formatHours(*b.SleepTotalSec)
				}
				if b.StressAvg != nil {
					stress = fmt.Sprintf("%d", *b.StressAvg)
				}
				if b.Steps != nil {
					steps = fmt.Sprintf("%d", *b.Steps)
				}
			}

			fmt.Printf("%-17s %-9s %-20s %7s %7s %6s %8s\n",
				faint.Sprint(e.Timestamp.Format("2006-01-02 15:04")),
				e.Tag, truncate(e.Name, 20), value, sleep, stress, steps)
		}

		return nil
	},
}

func init() {
	correlateCmd.Flags().StringVar(&correlateFrom, "from", "", "first day of the range (YYYY-MM-DD)")
	correlateCmd.Flags().StringVar(&correlateTo, "to", "", "last day of the range (YYYY-MM-DD)")
	correlateCmd.Flags().StringVarP(&correlateTag, "tag", "t", "", "only include events with this tag")
	rootCmd.AddCommand(correlateCmd)
}
