// ABOUTME: One-way migration from the legacy Python health.db schema.
// ABOUTME: Maps integer-id rows with TEXT values onto the UUID event model.
package storage

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/harperreed/healthmon/internal/models"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Events        int
	BiometricDays int
	Skipped       int
}

// MigrateLegacy copies all rows from a legacy health.db (the Python
// tool's schema) into dst. Legacy events carry INTEGER ids and a TEXT
// value column that held either the item name ("avocado") or a numeric
// score with the name in the category column ("face_redness" / "6").
// Fresh UUIDs are assigned; rows with no usable name are skipped.
func MigrateLegacy(legacyPath string, dst Repository) (*MigrateSummary, error) {
	src, err := sql.Open("sqlite", legacyPath)
	if err != nil {
		return nil, &StorageError{Op: "open legacy database", Err: err}
	}
	defer src.Close()

	summary := &MigrateSummary{}

	if err := migrateLegacyEvents(src, dst, summary); err != nil {
		return nil, err
	}
	if err := migrateLegacyBiometrics(src, dst, summary); err != nil {
		return nil, err
	}

	return summary, nil
}

func migrateLegacyEvents(src *sql.DB, dst Repository, summary *MigrateSummary) error {
	rows, err := src.Query(`
		SELECT timestamp, tag, category, value, notes, source
		FROM events
		ORDER BY id ASC
	`)
	if err != nil {
		return &StorageError{Op: "read legacy events", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var timestamp, tag string
		var category, value, notes, source sql.NullString

		if err := rows.Scan(&timestamp, &tag, &category, &value, &notes, &source); err != nil {
			return &StorageError{Op: "scan legacy event", Err: err}
		}

		e, ok := legacyToEvent(timestamp, tag, category, value, notes)
		if !ok {
			summary.Skipped++
			continue
		}

		if err := dst.CreateEvent(e); err != nil {
			return fmt.Errorf("migrate event: %w", err)
		}
		summary.Events++
	}

	return rows.Err()
}

// legacyToEvent maps one legacy row onto the new model.
func legacyToEvent(timestamp, tag string, category, value, notes sql.NullString) (*models.Event, bool) {
	var name string
	var numeric *float64
	var cat *string

	raw := ""
	if value.Valid {
		raw = value.String
	}

	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		// Numeric value: the name lived in the category column.
		if !category.Valid || category.String == "" {
			name = tag
		} else {
			name = category.String
		}
		numeric = &f
	} else {
		// Free-form value: that string is the name.
		name = raw
		if category.Valid && category.String != "" {
			c := category.String
			cat = &c
		}
	}

	if name == "" || tag == "" {
		return nil, false
	}

	e := models.NewEvent(models.Tag(tag), name).WithSource(models.SourceImport)
	if ts, err := time.Parse(time.RFC3339, timestamp); err == nil {
		e.WithTimestamp(ts)
	}
	e.Value = numeric
	e.Category = cat
	if notes.Valid && notes.String != "" {
		e.WithNotes(notes.String)
	}
	return e, true
}

func migrateLegacyBiometrics(src *sql.DB, dst Repository, summary *MigrateSummary) error {
	rows, err := src.Query(`
		SELECT day, steps, rhr_avg, hr_avg, stress_avg,
		       sleep_total_sec, sleep_rem_sec, calories_active, synced_at
		FROM garmin_daily
		ORDER BY day ASC
	`)
	if err != nil {
		// Legacy databases predating the Garmin sync have no garmin_daily table.
		return nil
	}
	defer rows.Close()

	for rows.Next() {
		var day string
		var syncedAt sql.NullString
		var steps, stress, sleep, rem, calories sql.NullInt64
		var rhr, ahr sql.NullFloat64

		if err := rows.Scan(&day, &steps, &rhr, &ahr, &stress, &sleep, &rem, &calories, &syncedAt); err != nil {
			return &StorageError{Op: "scan legacy biometric day", Err: err}
		}

		d, err := time.Parse(models.DayFormat, day)
		if err != nil {
			summary.Skipped++
			continue
		}

		b := models.NewBiometricDay(d)
		b.Steps = nullInt(steps)
		b.RestingHR = nullFloat(rhr)
		b.AvgHR = nullFloat(ahr)
		b.StressAvg = nullInt(stress)
		b.SleepTotalSec = nullInt(sleep)
		b.SleepRemSec = nullInt(rem)
		b.ActiveCalories = nullInt(calories)
		if syncedAt.Valid {
			if ts, err := time.Parse(time.RFC3339, syncedAt.String); err == nil {
				b.SyncedAt = ts
			}
		}

		if err := dst.UpsertDay(b); err != nil {
			return fmt.Errorf("migrate biometric day: %w", err)
		}
		summary.BiometricDays++
	}

	return rows.Err()
}
