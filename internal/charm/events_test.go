// ABOUTME: Unit tests for Charm-based event storage.
// ABOUTME: Tests key formats and JSON round-trips without a live KV.
package charm

import (
	"testing"
	"time"

	"github.com/harperreed/healthmon/internal/models"
)

func TestEventKeyFormat(t *testing.T) {
	e := models.NewEvent(models.TagFood, "avocado")
	key := EventPrefix + e.ID.String()

	if key[:6] != "event:" {
		t.Errorf("Expected key to start with 'event:', got: %s", key[:6])
	}
}

func TestDayKeyFormat(t *testing.T) {
	day := time.Date(2024, 1, 5, 13, 30, 0, 0, time.UTC)
	key := DayPrefix + models.DayOf(day).Format(models.DayFormat)

	if key != "day:2024-01-05" {
		t.Errorf("Expected day:2024-01-05, got: %s", key)
	}
}

func TestEventJSONRoundTrip(t *testing.T) {
	e := models.NewEvent(models.TagSymptom, "face_redness").
		WithValue(6).
		WithNotes("after breakfast")

	data, err := marshalJSON(e)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	got, err := unmarshalJSON[models.Event](data)
	if err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if got.ID != e.ID || got.Name != e.Name {
		t.Errorf("round-trip mismatch: %+v", got)
	}
	if got.Value == nil || *got.Value != 6 {
		t.Errorf("value lost in round-trip: %v", got.Value)
	}
	if !got.Timestamp.Equal(e.Timestamp) {
		t.Errorf("timestamp mismatch: %v != %v", got.Timestamp, e.Timestamp)
	}
}
