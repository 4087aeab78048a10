// ABOUTME: GarminDB sync adapter reading days_summary into the biometrics store.
// ABOUTME: Merges optional sleep detail from garmin.db and upserts by calendar day.

package garmin

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/harperreed/healthmon/internal/models"
	"github.com/harperreed/healthmon/internal/storage"
)

// Syncer copies daily biometric summaries out of a local GarminDB
// installation. It only ever reads the Garmin databases; all writes go
// through the healthmon repository.
type Syncer struct {
	repo        storage.Repository
	summaryPath string
	mainPath    string

	// Progress, when set, is called after each day is stored.
	Progress func(*models.BiometricDay)
}

// SyncResult reports what a sync pass did.
type SyncResult struct {
	Days int
	From time.Time
}

// NewSyncer creates a sync adapter. summaryPath must point at
// garmin_summary.db; mainPath (garmin.db, for sleep detail) is optional
// and skipped when the file is absent.
func NewSyncer(repo storage.Repository, summaryPath, mainPath string) *Syncer {
	return &Syncer{repo: repo, summaryPath: summaryPath, mainPath: mainPath}
}

// Sync pulls the last `days` days of summaries and upserts them.
// Re-running over the same window overwrites rather than duplicates.
func (s *Syncer) Sync(days int) (*SyncResult, error) {
	if days <= 0 {
		days = 30
	}
	cutoff := models.DayOf(time.Now().UTC()).AddDate(0, 0, -days)
	return s.SyncSince(cutoff)
}

// SyncSince pulls every summary on or after the given day.
func (s *Syncer) SyncSince(cutoff time.Time) (*SyncResult, error) {
	if _, err := os.Stat(s.summaryPath); err != nil {
		return nil, &models.ExternalServiceError{
			Service: "garmindb",
			Err:     fmt.Errorf("summary database not found at %s (run garmindb_cli first)", s.summaryPath),
		}
	}

	summaries, err := s.readSummaries(cutoff)
	if err != nil {
		return nil, &models.ExternalServiceError{Service: "garmindb", Err: err}
	}

	sleep, err := s.readSleepDetail(cutoff)
	if err != nil {
		return nil, &models.ExternalServiceError{Service: "garmindb", Err: err}
	}

	for _, b := range summaries {
		if detail, ok := sleep[b.Day.Format(models.DayFormat)]; ok {
			b.SleepTotalSec = detail.total
			b.SleepRemSec = detail.rem
		}
		if err := s.repo.UpsertDay(b); err != nil {
			return nil, err
		}
		if s.Progress != nil {
			s.Progress(b)
		}
	}

	return &SyncResult{Days: len(summaries), From: cutoff}, nil
}

func (s *Syncer) readSummaries(cutoff time.Time) ([]*models.BiometricDay, error) {
	db, err := sql.Open("sqlite", s.summaryPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open summary database: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(`
		SELECT day, steps, rhr_avg, hr_avg, stress_avg,
		       sleep_avg, rem_sleep_avg, calories_active_avg
		FROM days_summary
		WHERE day >= ?
		ORDER BY day ASC`, cutoff.Format(models.DayFormat))
	if err != nil {
		return nil, fmt.Errorf("query days_summary: %w", err)
	}
	defer rows.Close()

	var out []*models.BiometricDay
	for rows.Next() {
		var (
			dayStr           string
			steps            sql.NullInt64
			rhr, hr          sql.NullFloat64
			stress           sql.NullFloat64
			sleepAvg, remAvg sql.NullString
			caloriesActive   sql.NullFloat64
		)
		if err := rows.Scan(&dayStr, &steps, &rhr, &hr, &stress, &sleepAvg, &remAvg, &caloriesActive); err != nil {
			return nil, fmt.Errorf("scan days_summary: %w", err)
		}

		day, err := models.ParseDay(dayStr)
		if err != nil {
			return nil, fmt.Errorf("bad day value %q: %w", dayStr, err)
		}

		b := models.NewBiometricDay(day)
		if steps.Valid {
			v := int(steps.Int64)
			b.Steps = &v
		}
		if rhr.Valid {
			b.RestingHR = &rhr.Float64
		}
		if hr.Valid {
			b.AvgHR = &hr.Float64
		}
		if stress.Valid {
			v := int(stress.Float64)
			b.StressAvg = &v
		}
		if sleepAvg.Valid {
			b.SleepTotalSec = durationSeconds(sleepAvg.String)
		}
		if remAvg.Valid {
			b.SleepRemSec = durationSeconds(remAvg.String)
		}
		if caloriesActive.Valid {
			v := int(caloriesActive.Float64)
			b.ActiveCalories = &v
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

type sleepDetail struct {
	total, rem *int
}

// readSleepDetail pulls per-night sleep from garmin.db when available.
// Those values are more precise than the days_summary averages, so they
// win when both are present. A missing file or table is not an error.
func (s *Syncer) readSleepDetail(cutoff time.Time) (map[string]sleepDetail, error) {
	out := map[string]sleepDetail{}
	if s.mainPath == "" {
		return out, nil
	}
	if _, err := os.Stat(s.mainPath); err != nil {
		return out, nil
	}

	db, err := sql.Open("sqlite", s.mainPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open main database: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(`
		SELECT day, total_sleep, rem_sleep
		FROM sleep
		WHERE day >= ?`, cutoff.Format(models.DayFormat))
	if err != nil {
		// Older GarminDB versions lack the sleep table.
		return out, nil
	}
	defer rows.Close()

	for rows.Next() {
		var day string
		var total, rem sql.NullString
		if err := rows.Scan(&day, &total, &rem); err != nil {
			return nil, fmt.Errorf("scan sleep: %w", err)
		}
		d := sleepDetail{}
		if total.Valid {
			d.total = durationSeconds(total.String)
		}
		if rem.Valid {
			d.rem = durationSeconds(rem.String)
		}
		if d.total != nil || d.rem != nil {
			out[day] = d
		}
	}
	return out, rows.Err()
}

// durationSeconds converts GarminDB duration values to whole seconds.
// GarminDB stores these inconsistently: some columns hold "HH:MM:SS"
// strings, others plain numbers of seconds. Unparseable values map to nil.
func durationSeconds(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if strings.Contains(raw, ":") {
		parts := strings.Split(raw, ":")
		if len(parts) != 3 {
			return nil
		}
		h, err1 := strconv.Atoi(parts[0])
		m, err2 := strconv.Atoi(parts[1])
		sec, err3 := strconv.Atoi(strings.SplitN(parts[2], ".", 2)[0])
		if err1 != nil || err2 != nil || err3 != nil {
			return nil
		}
		total := h*3600 + m*60 + sec
		return &total
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	total := int(f)
	return &total
}
