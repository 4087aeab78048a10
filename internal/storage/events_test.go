// ABOUTME: Tests for event log operations.
// ABOUTME: Covers create/list round-trips, day summaries, and biometric joins.
package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/harperreed/healthmon/internal/models"
)

func TestCreateAndGetEvent(t *testing.T) {
	db := setupTestDB(t)

	e := models.NewEvent(models.TagFood, "avocado").WithCategory("regular")
	if err := db.CreateEvent(e); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	got, err := db.GetEvent(e.ID.String())
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}

	if got.ID != e.ID {
		t.Errorf("ID mismatch: got %s, want %s", got.ID, e.ID)
	}
	if got.Tag != models.TagFood {
		t.Errorf("Tag mismatch: got %s, want food", got.Tag)
	}
	if got.Name != "avocado" {
		t.Errorf("Name mismatch: got %s, want avocado", got.Name)
	}
	if got.Category == nil || *got.Category != "regular" {
		t.Errorf("Category mismatch: got %v", got.Category)
	}
	// Unset optionals come back absent, not zero
	if got.Value != nil {
		t.Errorf("Value should be nil, got %v", *got.Value)
	}
	if got.Notes != nil {
		t.Errorf("Notes should be nil, got %v", *got.Notes)
	}
}

func TestGetEventByPrefix(t *testing.T) {
	db := setupTestDB(t)

	e := models.NewEvent(models.TagMood, "relaxed")
	if err := db.CreateEvent(e); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	got, err := db.GetEvent(e.ID.String()[:8])
	if err != nil {
		t.Fatalf("GetEvent by prefix failed: %v", err)
	}
	if got.ID != e.ID {
		t.Errorf("prefix lookup returned wrong event: %s", got.ID)
	}

	if _, err := db.GetEvent("ffffffff"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing prefix: got %v, want ErrNotFound", err)
	}
}

func TestCreateEventValidation(t *testing.T) {
	db := setupTestDB(t)

	if err := db.CreateEvent(models.NewEvent("", "x")); !models.IsValidation(err) {
		t.Errorf("empty tag: got %v, want ValidationError", err)
	}
	if err := db.CreateEvent(models.NewEvent(models.TagFood, "")); !models.IsValidation(err) {
		t.Errorf("empty name: got %v, want ValidationError", err)
	}

	// Nothing was persisted
	events, err := db.ListEvents(models.EventFilter{})
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected empty store after failed validation, got %d events", len(events))
	}
}

func TestListEventsOrderAndFilter(t *testing.T) {
	db := setupTestDB(t)

	base := time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC)
	food := models.NewEvent(models.TagFood, "avocado").WithTimestamp(base)
	symptom := models.NewEvent(models.TagSymptom, "face_redness").WithValue(6).WithTimestamp(base.Add(2 * time.Hour))
	late := models.NewEvent(models.TagFood, "beer").WithCategory("alcohol").WithTimestamp(base.Add(12 * time.Hour))

	for _, e := range []*models.Event{food, symptom, late} {
		if err := db.CreateEvent(e); err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}
	}

	// Unfiltered, most recent first
	events, err := db.ListEvents(models.EventFilter{})
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].Name != "beer" || events[2].Name != "avocado" {
		t.Errorf("wrong order: %s, %s, %s", events[0].Name, events[1].Name, events[2].Name)
	}

	// Tag filter returns only matching events
	foods, err := db.ListEvents(models.EventFilter{Tag: "food"})
	if err != nil {
		t.Fatalf("ListEvents by tag failed: %v", err)
	}
	if len(foods) != 2 {
		t.Errorf("expected 2 food events, got %d", len(foods))
	}
	for _, e := range foods {
		if e.Tag != models.TagFood {
			t.Errorf("tag filter leaked %s event", e.Tag)
		}
	}

	// Time range
	morning, err := db.ListEvents(models.EventFilter{
		Since: base,
		Until: base.Add(3 * time.Hour),
	})
	if err != nil {
		t.Fatalf("ListEvents by range failed: %v", err)
	}
	if len(morning) != 2 {
		t.Errorf("expected 2 morning events, got %d", len(morning))
	}

	// No match is an empty slice, not an error
	none, err := db.ListEvents(models.EventFilter{Tag: "sleep"})
	if err != nil {
		t.Fatalf("ListEvents with no match failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no sleep events, got %d", len(none))
	}
}

func TestEventRoundTripFieldFidelity(t *testing.T) {
	db := setupTestDB(t)

	ts := time.Date(2024, 3, 14, 9, 26, 53, 0, time.UTC)
	e := models.NewEvent(models.TagStress, "work").
		WithValue(7).
		WithCategory("deadline").
		WithNotes("all day").
		WithTimestamp(ts).
		WithSource(models.SourceVoice)

	if err := db.CreateEvent(e); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	got, err := db.GetEvent(e.ID.String())
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}

	if !got.Timestamp.Equal(ts) {
		t.Errorf("Timestamp mismatch: got %v, want %v", got.Timestamp, ts)
	}
	if got.Value == nil || *got.Value != 7 {
		t.Errorf("Value mismatch: got %v", got.Value)
	}
	if got.Category == nil || *got.Category != "deadline" {
		t.Errorf("Category mismatch: got %v", got.Category)
	}
	if got.Notes == nil || *got.Notes != "all day" {
		t.Errorf("Notes mismatch: got %v", got.Notes)
	}
	if got.Source != models.SourceVoice {
		t.Errorf("Source mismatch: got %s", got.Source)
	}
}

func TestSummarizeDayBoundaries(t *testing.T) {
	db := setupTestDB(t)

	day := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	onDay := models.NewEvent(models.TagFood, "egg").WithTimestamp(day.Add(7 * time.Hour))
	endOfDay := models.NewEvent(models.TagMood, "tired").WithTimestamp(day.Add(23*time.Hour + 59*time.Minute))
	dayBefore := models.NewEvent(models.TagFood, "pizza").WithTimestamp(day.Add(-time.Minute))
	dayAfter := models.NewEvent(models.TagFood, "toast").WithTimestamp(day.Add(24 * time.Hour))

	for _, e := range []*models.Event{onDay, endOfDay, dayBefore, dayAfter} {
		if err := db.CreateEvent(e); err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}
	}

	byTag, err := db.SummarizeDay(day)
	if err != nil {
		t.Fatalf("SummarizeDay failed: %v", err)
	}

	if len(byTag) != 2 {
		t.Fatalf("expected 2 tags, got %d: %v", len(byTag), byTag)
	}
	if len(byTag[models.TagFood]) != 1 || byTag[models.TagFood][0].Name != "egg" {
		t.Errorf("food group wrong: %+v", byTag[models.TagFood])
	}
	if len(byTag[models.TagMood]) != 1 {
		t.Errorf("mood group wrong: %+v", byTag[models.TagMood])
	}
}

func TestJoinBiometricsOuterJoin(t *testing.T) {
	db := setupTestDB(t)

	matched := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	unmatched := time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)

	e1 := models.NewEvent(models.TagSymptom, "face_redness").WithValue(6).WithTimestamp(matched.Add(20 * time.Hour))
	e2 := models.NewEvent(models.TagFood, "beer").WithTimestamp(unmatched.Add(19 * time.Hour))
	if err := db.CreateEvent(e1); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	if err := db.CreateEvent(e2); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	b := models.NewBiometricDay(matched)
	sleep := int(6.5 * 3600)
	stress := 45
	b.SleepTotalSec = &sleep
	b.StressAvg = &stress
	if err := db.UpsertDay(b); err != nil {
		t.Fatalf("UpsertDay failed: %v", err)
	}

	pairs, err := db.JoinBiometrics(matched, unmatched)
	if err != nil {
		t.Fatalf("JoinBiometrics failed: %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(pairs))
	}

	// Jan 5 symptom joined with its biometric row
	if pairs[0].Event.Name != "face_redness" {
		t.Fatalf("expected face_redness first, got %s", pairs[0].Event.Name)
	}
	if pairs[0].Biometrics == nil {
		t.Fatal("expected biometrics for Jan 5")
	}
	if got := pairs[0].Biometrics.SleepTotal(); got != 6*time.Hour+30*time.Minute {
		t.Errorf("sleep mismatch: got %v", got)
	}
	if pairs[0].Biometrics.StressAvg == nil || *pairs[0].Biometrics.StressAvg != 45 {
		t.Errorf("stress mismatch: %v", pairs[0].Biometrics.StressAvg)
	}

	// Jan 6 event retained with nil biometrics, not dropped
	if pairs[1].Event.Name != "beer" {
		t.Fatalf("expected beer second, got %s", pairs[1].Event.Name)
	}
	if pairs[1].Biometrics != nil {
		t.Error("expected nil biometrics for unmatched day")
	}
}

func TestJoinBiometricsSingleDayScenario(t *testing.T) {
	db := setupTestDB(t)

	// record_event("symptom", "face_redness", value=6) at 2024-01-05T20:00
	ts := time.Date(2024, 1, 5, 20, 0, 0, 0, time.UTC)
	e := models.NewEvent(models.TagSymptom, "face_redness").WithValue(6).WithTimestamp(ts)
	if err := db.CreateEvent(e); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	// then sync writes sleep=6.5h, stress=45 for that day
	b := models.NewBiometricDay(ts)
	sleep := 23400
	stress := 45
	b.SleepTotalSec = &sleep
	b.StressAvg = &stress
	if err := db.UpsertDay(b); err != nil {
		t.Fatalf("UpsertDay failed: %v", err)
	}

	day := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	pairs, err := db.JoinBiometrics(day, day)
	if err != nil {
		t.Fatalf("JoinBiometrics failed: %v", err)
	}
	if len(pairs) != 1 {
		t.Fatalf("expected exactly 1 pair, got %d", len(pairs))
	}
	p := pairs[0]
	if p.Event.ID != e.ID || p.Event.Value == nil || *p.Event.Value != 6 {
		t.Errorf("event mismatch: %+v", p.Event)
	}
	if p.Biometrics == nil {
		t.Fatal("expected biometric match")
	}
	if *p.Biometrics.SleepTotalSec != 23400 || *p.Biometrics.StressAvg != 45 {
		t.Errorf("biometrics mismatch: %+v", p.Biometrics)
	}
}
