// ABOUTME: garmin_daily access for SQLite storage.
// ABOUTME: Narrow read interface plus the upsert used by the sync adapter.
package storage

import (
	"database/sql"
	"errors"
	"time"

	"github.com/harperreed/healthmon/internal/models"
)

const biometricColumns = "day, steps, resting_hr, avg_hr, stress_avg, sleep_total_sec, sleep_rem_sec, active_calories, synced_at"

// GetDay returns the biometric row for the given date, or nil when the
// sync has not populated that day. Absence is not an error.
func (d *DB) GetDay(day time.Time) (*models.BiometricDay, error) {
	query := `SELECT ` + biometricColumns + ` FROM garmin_daily WHERE day = ?`
	row := d.db.QueryRow(query, models.DayOf(day).Format(models.DayFormat))

	b, err := scanBiometricDay(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, &StorageError{Op: "get biometric day", Err: err}
	}
	return b, nil
}

// UpsertDay writes a biometric row, overwriting any existing row for
// that day. Only the Garmin sync adapter calls this; re-running a sync
// replaces, never duplicates.
func (d *DB) UpsertDay(b *models.BiometricDay) error {
	query := `
		INSERT INTO garmin_daily (` + biometricColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(day) DO UPDATE SET
			steps = excluded.steps,
			resting_hr = excluded.resting_hr,
			avg_hr = excluded.avg_hr,
			stress_avg = excluded.stress_avg,
			sleep_total_sec = excluded.sleep_total_sec,
			sleep_rem_sec = excluded.sleep_rem_sec,
			active_calories = excluded.active_calories,
			synced_at = excluded.synced_at
	`
	_, err := d.db.Exec(query,
		models.DayOf(b.Day).Format(models.DayFormat),
		b.Steps,
		b.RestingHR,
		b.AvgHR,
		b.StressAvg,
		b.SleepTotalSec,
		b.SleepRemSec,
		b.ActiveCalories,
		b.SyncedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return &StorageError{Op: "upsert biometric day", Err: err}
	}
	return nil
}

// ListDays returns biometric rows for days in [from, to], ordered by day
// ascending.
func (d *DB) ListDays(from, to time.Time) ([]*models.BiometricDay, error) {
	query := `
		SELECT ` + biometricColumns + `
		FROM garmin_daily
		WHERE day >= ? AND day <= ?
		ORDER BY day ASC
	`
	rows, err := d.db.Query(query,
		models.DayOf(from).Format(models.DayFormat),
		models.DayOf(to).Format(models.DayFormat),
	)
	if err != nil {
		return nil, &StorageError{Op: "list biometric days", Err: err}
	}
	defer rows.Close()

	var days []*models.BiometricDay
	for rows.Next() {
		b, err := scanBiometricDay(rows.Scan)
		if err != nil {
			return nil, &StorageError{Op: "scan biometric day", Err: err}
		}
		days = append(days, b)
	}
	return days, rows.Err()
}

// scanBiometricDay scans one garmin_daily row via the given scan func.
func scanBiometricDay(scan func(dest ...interface{}) error) (*models.BiometricDay, error) {
	var b models.BiometricDay
	var day, syncedAt string
	var steps, stress, sleep, rem, calories sql.NullInt64
	var rhr, ahr sql.NullFloat64

	err := scan(&day, &steps, &rhr, &ahr, &stress, &sleep, &rem, &calories, &syncedAt)
	if err != nil {
		return nil, err
	}

	b.Day, _ = time.Parse(models.DayFormat, day)
	b.SyncedAt, _ = time.Parse(time.RFC3339, syncedAt)
	b.Steps = nullInt(steps)
	b.RestingHR = nullFloat(rhr)
	b.AvgHR = nullFloat(ahr)
	b.StressAvg = nullInt(stress)
	b.SleepTotalSec = nullInt(sleep)
	b.SleepRemSec = nullInt(rem)
	b.ActiveCalories = nullInt(calories)

	return &b, nil
}
