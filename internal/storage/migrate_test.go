// ABOUTME: Tests for legacy health.db migration.
// ABOUTME: Builds a Python-schema fixture and verifies the field mapping.
package storage

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/healthmon/internal/models"
)

// setupLegacyDB creates a fixture with the Python tool's schema.
func setupLegacyDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "legacy.db")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open legacy fixture: %v", err)
	}
	defer db.Close()

	schema := `
	CREATE TABLE events (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT    NOT NULL,
		tag       TEXT    NOT NULL,
		category  TEXT,
		value     TEXT,
		notes     TEXT,
		source    TEXT    NOT NULL DEFAULT 'cli'
	);
	CREATE TABLE garmin_daily (
		day             TEXT PRIMARY KEY,
		steps           INTEGER,
		rhr_avg         REAL,
		hr_avg          REAL,
		stress_avg      INTEGER,
		sleep_total_sec INTEGER,
		sleep_rem_sec   INTEGER,
		calories_active INTEGER,
		synced_at       TEXT NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("create legacy schema: %v", err)
	}

	rows := []struct {
		ts, tag, category, value, notes string
	}{
		// hm log food avocado --category regular
		{"2024-01-05T08:00:00Z", "food", "regular", "avocado", ""},
		// hm symptom face_redness 6 --notes "after breakfast"
		{"2024-01-05T20:00:00Z", "symptom", "face_redness", "6", "after breakfast"},
		// hm log stress 7 (no category, numeric value)
		{"2024-01-05T14:00:00Z", "stress", "", "7", ""},
	}
	for _, r := range rows {
		_, err := db.Exec(
			`INSERT INTO events (timestamp, tag, category, value, notes) VALUES (?, ?, ?, NULLIF(?, ''), NULLIF(?, ''))`,
			r.ts, r.tag, r.category, r.value, r.notes)
		if err != nil {
			t.Fatalf("insert legacy event: %v", err)
		}
	}

	_, err = db.Exec(
		`INSERT INTO garmin_daily (day, steps, rhr_avg, stress_avg, sleep_total_sec, synced_at)
		 VALUES ('2024-01-05', 8000, 51.0, 45, 23400, '2024-01-06T03:00:00Z')`)
	if err != nil {
		t.Fatalf("insert legacy biometrics: %v", err)
	}

	return path
}

func TestMigrateLegacy(t *testing.T) {
	legacy := setupLegacyDB(t)
	dst := setupTestDB(t)

	summary, err := MigrateLegacy(legacy, dst)
	if err != nil {
		t.Fatalf("MigrateLegacy failed: %v", err)
	}
	if summary.Events != 3 {
		t.Errorf("expected 3 migrated events, got %d", summary.Events)
	}
	if summary.BiometricDays != 1 {
		t.Errorf("expected 1 migrated day, got %d", summary.BiometricDays)
	}

	events, err := dst.ListEvents(models.EventFilter{})
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}

	byName := map[string]*models.Event{}
	for _, e := range events {
		byName[e.Name] = e
		if e.Source != models.SourceImport {
			t.Errorf("migrated event %s has source %q, want import", e.Name, e.Source)
		}
	}

	// Free-form value becomes the name, category carried over
	avocado := byName["avocado"]
	if avocado == nil {
		t.Fatal("avocado event missing")
	}
	if avocado.Tag != models.TagFood || avocado.Value != nil {
		t.Errorf("avocado mapping wrong: %+v", avocado)
	}
	if avocado.Category == nil || *avocado.Category != "regular" {
		t.Errorf("avocado category wrong: %v", avocado.Category)
	}

	// Numeric value: name comes from the category column
	redness := byName["face_redness"]
	if redness == nil {
		t.Fatal("face_redness event missing")
	}
	if redness.Value == nil || *redness.Value != 6 {
		t.Errorf("face_redness value wrong: %v", redness.Value)
	}
	if redness.Notes == nil || *redness.Notes != "after breakfast" {
		t.Errorf("face_redness notes wrong: %v", redness.Notes)
	}

	// Numeric value with no category falls back to the tag as name
	stress := byName["stress"]
	if stress == nil {
		t.Fatal("stress event missing")
	}
	if stress.Tag != models.TagStress || stress.Value == nil || *stress.Value != 7 {
		t.Errorf("stress mapping wrong: %+v", stress)
	}

	// Biometric columns renamed
	day, err := dst.GetDay(mustDay(t, "2024-01-05"))
	if err != nil {
		t.Fatalf("GetDay failed: %v", err)
	}
	if day == nil {
		t.Fatal("migrated day missing")
	}
	if day.RestingHR == nil || *day.RestingHR != 51.0 {
		t.Errorf("rhr_avg not mapped: %v", day.RestingHR)
	}
	if day.SleepTotalSec == nil || *day.SleepTotalSec != 23400 {
		t.Errorf("sleep not mapped: %v", day.SleepTotalSec)
	}
}

func mustDay(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := models.ParseDay(s)
	if err != nil {
		t.Fatalf("parse day %s: %v", s, err)
	}
	return d
}
