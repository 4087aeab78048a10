// ABOUTME: Event log operations for SQLite storage.
// ABOUTME: Append-only writes plus list, daily summary, and biometric join.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/healthmon/internal/models"
)

const eventColumns = "id, timestamp, tag, name, value, category, notes, source, created_at"

// CreateEvent validates and stores a new event. The event log is
// append-only; there is no update path.
func (d *DB) CreateEvent(e *models.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO events (` + eventColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := d.db.Exec(query,
		e.ID.String(),
		e.Timestamp.UTC().Format(time.RFC3339),
		string(e.Tag),
		e.Name,
		e.Value,
		e.Category,
		e.Notes,
		e.Source,
		e.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return &StorageError{Op: "create event", Err: err}
	}
	return nil
}

// GetEvent retrieves an event by ID or ID prefix.
func (d *DB) GetEvent(idOrPrefix string) (*models.Event, error) {
	id, err := d.resolveEventID(idOrPrefix)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
	return scanEvent(d.db.QueryRow(query, id))
}

// ListEvents retrieves events matching the filter, ordered by timestamp
// descending (most recent first). No matches yields an empty slice.
func (d *DB) ListEvents(f models.EventFilter) ([]*models.Event, error) {
	var clauses []string
	var args []interface{}

	if f.Tag != "" {
		clauses = append(clauses, "tag = ?")
		args = append(args, f.Tag)
	}
	if !f.Since.IsZero() {
		clauses = append(clauses, "timestamp >= ?")
		args = append(args, f.Since.UTC().Format(time.RFC3339))
	}
	if !f.Until.IsZero() {
		clauses = append(clauses, "timestamp < ?")
		args = append(args, f.Until.UTC().Format(time.RFC3339))
	}

	query := `SELECT ` + eventColumns + ` FROM events`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY timestamp DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, &StorageError{Op: "list events", Err: err}
	}
	defer rows.Close()

	return scanEvents(rows)
}

// SummarizeDay groups the events on the given UTC calendar date by tag.
// Tags without events are omitted; within a tag, events are ordered by
// timestamp ascending (the order of the day).
func (d *DB) SummarizeDay(day time.Time) (map[models.Tag][]*models.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE date(timestamp) = ?
		ORDER BY timestamp ASC
	`
	rows, err := d.db.Query(query, models.DayOf(day).Format(models.DayFormat))
	if err != nil {
		return nil, &StorageError{Op: "summarize day", Err: err}
	}
	defer rows.Close()

	events, err := scanEvents(rows)
	if err != nil {
		return nil, err
	}

	byTag := make(map[models.Tag][]*models.Event)
	for _, e := range events {
		byTag[e.Tag] = append(byTag[e.Tag], e)
	}
	return byTag, nil
}

// JoinBiometrics returns every event whose date falls in [from, to],
// each paired with the garmin_daily row for its date, or nil when the
// sync has no data for that day. Left-outer semantics: events without
// a biometric match are never dropped.
func (d *DB) JoinBiometrics(from, to time.Time) ([]*models.EventBiometrics, error) {
	query := `
		SELECT e.id, e.timestamp, e.tag, e.name, e.value, e.category, e.notes, e.source, e.created_at,
		       g.day, g.steps, g.resting_hr, g.avg_hr, g.stress_avg,
		       g.sleep_total_sec, g.sleep_rem_sec, g.active_calories, g.synced_at
		FROM events e
		LEFT JOIN garmin_daily g ON date(e.timestamp) = g.day
		WHERE date(e.timestamp) >= ? AND date(e.timestamp) <= ?
		ORDER BY e.timestamp ASC
	`
	rows, err := d.db.Query(query,
		models.DayOf(from).Format(models.DayFormat),
		models.DayOf(to).Format(models.DayFormat),
	)
	if err != nil {
		return nil, &StorageError{Op: "join biometrics", Err: err}
	}
	defer rows.Close()

	var pairs []*models.EventBiometrics
	for rows.Next() {
		var (
			e         models.Event
			idStr     string
			tag       string
			timestamp string
			createdAt string
			value     sql.NullFloat64
			category  sql.NullString
			notes     sql.NullString

			day      sql.NullString
			syncedAt sql.NullString
			steps    sql.NullInt64
			rhr      sql.NullFloat64
			ahr      sql.NullFloat64
			stress   sql.NullInt64
			sleep    sql.NullInt64
			rem      sql.NullInt64
			calories sql.NullInt64
		)

		err := rows.Scan(&idStr, &timestamp, &tag, &e.Name, &value, &category, &notes, &e.Source, &createdAt,
			&day, &steps, &rhr, &ahr, &stress, &sleep, &rem, &calories, &syncedAt)
		if err != nil {
			return nil, &StorageError{Op: "scan joined row", Err: err}
		}

		fillEvent(&e, idStr, timestamp, tag, createdAt, value, category, notes)

		pair := &models.EventBiometrics{Event: &e}
		if day.Valid {
			b := &models.BiometricDay{}
			b.Day, _ = time.Parse(models.DayFormat, day.String)
			if syncedAt.Valid {
				b.SyncedAt, _ = time.Parse(time.RFC3339, syncedAt.String)
			}
			b.Steps = nullInt(steps)
			b.RestingHR = nullFloat(rhr)
			b.AvgHR = nullFloat(ahr)
			b.StressAvg = nullInt(stress)
			b.SleepTotalSec = nullInt(sleep)
			b.SleepRemSec = nullInt(rem)
			b.ActiveCalories = nullInt(calories)
			pair.Biometrics = b
		}
		pairs = append(pairs, pair)
	}

	return pairs, rows.Err()
}

// resolveEventID finds the full ID from a prefix.
func (d *DB) resolveEventID(idOrPrefix string) (string, error) {
	// If it looks like a full UUID, use it directly
	if len(idOrPrefix) == 36 && strings.Count(idOrPrefix, "-") == 4 {
		return idOrPrefix, nil
	}

	query := `SELECT id FROM events WHERE id LIKE ? || '%'`
	rows, err := d.db.Query(query, idOrPrefix)
	if err != nil {
		return "", &StorageError{Op: "resolve event ID", Err: err}
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", &StorageError{Op: "scan event ID", Err: err}
		}
		matches = append(matches, id)
	}

	if len(matches) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	}
	if len(matches) > 1 {
		return "", fmt.Errorf("ambiguous prefix %s: matches multiple records", idOrPrefix)
	}

	return matches[0], nil
}

// scanEvent scans a single row into an Event struct.
func scanEvent(row *sql.Row) (*models.Event, error) {
	var e models.Event
	var idStr, tag, timestamp, createdAt string
	var value sql.NullFloat64
	var category, notes sql.NullString

	err := row.Scan(&idStr, &timestamp, &tag, &e.Name, &value, &category, &notes, &e.Source, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, &StorageError{Op: "scan event", Err: err}
	}

	fillEvent(&e, idStr, timestamp, tag, createdAt, value, category, notes)
	return &e, nil
}

// scanEvents scans multiple rows into a slice of Events.
func scanEvents(rows *sql.Rows) ([]*models.Event, error) {
	var events []*models.Event

	for rows.Next() {
		var e models.Event
		var idStr, tag, timestamp, createdAt string
		var value sql.NullFloat64
		var category, notes sql.NullString

		err := rows.Scan(&idStr, &timestamp, &tag, &e.Name, &value, &category, &notes, &e.Source, &createdAt)
		if err != nil {
			return nil, &StorageError{Op: "scan event", Err: err}
		}

		fillEvent(&e, idStr, timestamp, tag, createdAt, value, category, notes)
		events = append(events, &e)
	}

	return events, rows.Err()
}

func fillEvent(e *models.Event, idStr, timestamp, tag, createdAt string, value sql.NullFloat64, category, notes sql.NullString) {
	e.ID, _ = uuid.Parse(idStr)
	e.Tag = models.Tag(tag)
	e.Timestamp, _ = time.Parse(time.RFC3339, timestamp)
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if value.Valid {
		v := value.Float64
		e.Value = &v
	}
	if category.Valid {
		c := category.String
		e.Category = &c
	}
	if notes.Valid {
		n := notes.String
		e.Notes = &n
	}
}

func nullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func nullFloat(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}
