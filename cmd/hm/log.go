// ABOUTME: CLI commands for appending health events.
// ABOUTME: Handles the generic log command and the symptom scoring shortcut.
package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/healthmon/internal/models"
	"github.com/spf13/cobra"
)

var (
	logAt       string
	logNotes    string
	logCategory string
)

var logCmd = &cobra.Command{
	Use:     "log <tag> <name> [value]",
	Aliases: []string{"l"},
	Short:   "Log a health event",
	Long: `Append an event to the health log.

The log is append-only: events are never edited or deleted. To correct a
mistake, log a new event with a note.

TAGS:

  food, activity, symptom, mood, stress, sleep, other

Unknown tags are accepted too, so the vocabulary can grow with your needs.

EXAMPLES:

  hm log food avocado
  hm log food beer --category alcohol
  hm log activity gaming 2 --notes "evening session"
  hm log stress work 7 --at "2024-01-05 14:00"
  hm log sleep quality 8`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		tag, name := args[0], args[1]

		e := models.NewEvent(models.Tag(tag), name)

		if len(args) == 3 {
			value, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid value: %s", args[2])
			}
			e = e.WithValue(value)
		}

		if logAt != "" {
			t, err := parseTime(logAt)
			if err != nil {
				return fmt.Errorf("invalid timestamp: %s", logAt)
			}
			e = e.WithTimestamp(t)
		}
		if logCategory != "" {
			e = e.WithCategory(logCategory)
		}
		if logNotes != "" {
			e = e.WithNotes(logNotes)
		}

		if err := repo.CreateEvent(e); err != nil {
			return fmt.Errorf("failed to log event: %w", err)
		}

		if !models.IsKnownTag(e.Tag) {
			color.Yellow("note: %q is not a standard tag", tag)
		}
		color.Green("✓ Logged %s: %s", tag, name)
		fmt.Printf("  %s %s\n",
			color.New(color.Faint).Sprint(e.ID.String()[:8]),
			color.New(color.Faint).Sprint(e.Timestamp.Format("2006-01-02 15:04")))

		return nil
	},
}

var symptomCmd = &cobra.Command{
	Use:   "symptom <name> <score>",
	Short: "Log a symptom with a 0-10 score",
	Long: `Shortcut for logging a scored symptom event.

Equivalent to 'hm log symptom <name> <score>' but renders a score bar.

EXAMPLES:

  hm symptom face_redness 6
  hm symptom headache 3 --notes "after screen time"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		score, err := strconv.ParseFloat(args[1], 64)
		if err != nil || score < 0 || score > 10 {
			return fmt.Errorf("invalid score: %s (use 0-10)", args[1])
		}

		e := models.NewEvent(models.TagSymptom, name).WithValue(score)
		if logAt != "" {
			t, err := parseTime(logAt)
			if err != nil {
				return fmt.Errorf("invalid timestamp: %s", logAt)
			}
			e = e.WithTimestamp(t)
		}
		if logNotes != "" {
			e = e.WithNotes(logNotes)
		}

		if err := repo.CreateEvent(e); err != nil {
			return fmt.Errorf("failed to log symptom: %w", err)
		}

		color.Green("✓ Logged symptom: %s", name)
		fmt.Printf("  %s %s %.0f/10\n",
			color.New(color.Faint).Sprint(e.ID.String()[:8]),
			scoreBar(score), score)

		return nil
	},
}

// scoreBar renders a 0-10 score as a ten-segment bar.
func scoreBar(score float64) string {
	filled := int(score)
	if filled < 0 {
		filled = 0
	}
	if filled > 10 {
		filled = 10
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
}

func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"2006-01-02",
		time.RFC3339,
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format")
}

func init() {
	logCmd.Flags().StringVar(&logAt, "at", "", "timestamp (YYYY-MM-DD HH:MM)")
	logCmd.Flags().StringVar(&logNotes, "notes", "", "notes for the event")
	logCmd.Flags().StringVarP(&logCategory, "category", "c", "", "subcategory (e.g. alcohol, workout)")

	symptomCmd.Flags().StringVar(&logAt, "at", "", "timestamp (YYYY-MM-DD HH:MM)")
	symptomCmd.Flags().StringVar(&logNotes, "notes", "", "notes for the symptom")

	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(symptomCmd)
}
