// ABOUTME: Event model and Tag values for the health event log.
// ABOUTME: Events are append-only; corrections are new superseding events.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Tag categorizes an event. The set is open: these are the well-known
// values, but any non-empty string is accepted so new categories don't
// require a schema change.
type Tag string

const (
	TagFood     Tag = "food"
	TagSymptom  Tag = "symptom"
	TagActivity Tag = "activity"
	TagStress   Tag = "stress"
	TagMood     Tag = "mood"
	TagSleep    Tag = "sleep"
	TagOther    Tag = "other"
)

// KnownTags lists the well-known tag values, in display order.
var KnownTags = []Tag{
	TagFood, TagSymptom, TagActivity, TagStress, TagMood, TagSleep, TagOther,
}

// IsKnownTag reports whether t is one of the well-known tags.
// Unknown tags are still valid; callers use this only to warn.
func IsKnownTag(t Tag) bool {
	for _, k := range KnownTags {
		if k == t {
			return true
		}
	}
	return false
}

// Event source values.
const (
	SourceCLI    = "cli"
	SourceVoice  = "voice"
	SourceMCP    = "mcp"
	SourceImport = "import"
)

// Event is a single logged occurrence: something eaten, felt, or done.
type Event struct {
	ID        uuid.UUID `json:"id" yaml:"id"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Tag       Tag       `json:"tag" yaml:"tag"`
	Name      string    `json:"name" yaml:"name"`
	Value     *float64  `json:"value,omitempty" yaml:"value,omitempty"`
	Category  *string   `json:"category,omitempty" yaml:"category,omitempty"`
	Notes     *string   `json:"notes,omitempty" yaml:"notes,omitempty"`
	Source    string    `json:"source" yaml:"source"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// NewEvent creates an Event with a fresh UUID and the current UTC time.
// Timestamps are stored UTC-normalized; rendering converts to local time.
func NewEvent(tag Tag, name string) *Event {
	now := time.Now().UTC()
	return &Event{
		ID:        uuid.New(),
		Timestamp: now,
		Tag:       tag,
		Name:      name,
		Source:    SourceCLI,
		CreatedAt: now,
	}
}

// WithValue sets the numeric magnitude (severity score, stress level).
func (e *Event) WithValue(v float64) *Event {
	e.Value = &v
	return e
}

// WithCategory sets the category attribute.
func (e *Event) WithCategory(category string) *Event {
	e.Category = &category
	return e
}

// WithNotes sets notes on the event.
func (e *Event) WithNotes(notes string) *Event {
	e.Notes = &notes
	return e
}

// WithTimestamp sets a custom timestamp, normalized to UTC.
// Backfilled events are allowed; the log makes no ordering guarantee.
func (e *Event) WithTimestamp(t time.Time) *Event {
	e.Timestamp = t.UTC()
	return e
}

// WithSource sets the provenance of the event.
func (e *Event) WithSource(source string) *Event {
	e.Source = source
	return e
}

// Validate checks the Event invariants: non-empty tag and name.
func (e *Event) Validate() error {
	if e.Tag == "" {
		return &ValidationError{Field: "tag", Reason: "must not be empty"}
	}
	if e.Name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	return nil
}

// Day returns the UTC calendar date the event falls on, the key used
// for biometric joins.
func (e *Event) Day() time.Time {
	return DayOf(e.Timestamp)
}

// DayOf truncates t to its UTC calendar date.
func DayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// EventFilter narrows event listings. Zero values mean "no filter".
// Since is inclusive, Until exclusive, both compared on the timestamp.
type EventFilter struct {
	Tag   string
	Since time.Time
	Until time.Time
	Limit int
}

// DayFormat is the canonical YYYY-MM-DD layout for calendar dates.
const DayFormat = "2006-01-02"

// ParseDay parses a YYYY-MM-DD string into a UTC date.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DayFormat, s)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "date", Reason: "want YYYY-MM-DD"}
	}
	return t, nil
}
