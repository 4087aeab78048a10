// ABOUTME: CLI command for listing health events.
// ABOUTME: Supports filtering by tag, day, and time range.
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/healthmon/internal/models"
	"github.com/spf13/cobra"
)

var (
	listTag   string
	listToday bool
	listSince string
	listLimit int
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List health events",
	Long: `List recent events from the health log, most recent first.

OUTPUT FORMAT:

  Each line shows: ID  TIMESTAMP  TAG  NAME  [VALUE]  (NOTES)

  The ID is an 8-character prefix usable wherever an event ID is asked for.

EXAMPLES:

  hm list                    # Show last 20 events (all tags)
  hm list --tag food         # Show only food events
  hm list --today            # Show only today's events
  hm list --since 2024-01-01 # Show events from a date onward
  hm list -t symptom -n 50   # Show last 50 symptoms`,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := models.EventFilter{Tag: listTag, Limit: listLimit}

		if listToday {
			day := models.DayOf(time.Now().UTC())
			filter.Since = day
			filter.Until = day.AddDate(0, 0, 1)
		} else if listSince != "" {
			d, err := models.ParseDay(listSince)
			if err != nil {
				return fmt.Errorf("invalid date: %s (use YYYY-MM-DD)", listSince)
			}
			filter.Since = d
		}

		events, err := repo.ListEvents(filter)
		if err != nil {
			return fmt.Errorf("failed to list events: %w", err)
		}

		if len(events) == 0 {
			fmt.Println("No events found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, e := range events {
			value := ""
			if e.Value != nil {
				value = fmt.Sprintf(" %.1f", *e.Value)
			}
			category := ""
			if e.Category != nil {
				category = faint.Sprintf(" [%s]", *e.Category)
			}
			notes := ""
			if e.Notes != nil && *e.Notes != "" {
				notes = faint.Sprintf(" (%s)", truncate(*e.Notes, 30))
			}
			fmt.Printf("%s %s %s %s%s%s%s\n",
				faint.Sprint(e.ID.String()[:8]),
				faint.Sprint(e.Timestamp.Format("2006-01-02 15:04")),
				padRight(string(e.Tag), 9),
				e.Name,
				value, category, notes)
		}

		return nil
	},
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func init() {
	listCmd.Flags().StringVarP(&listTag, "tag", "t", "", "filter by tag")
	listCmd.Flags().BoolVar(&listToday, "today", false, "only today's events")
	listCmd.Flags().StringVar(&listSince, "since", "", "only events since date (YYYY-MM-DD)")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "max number of results")
	rootCmd.AddCommand(listCmd)
}
