// ABOUTME: Event log operations for Charm KV storage.
// ABOUTME: Uses type-prefixed keys with client-side filtering and day joins.
package charm

import (
	"fmt"
	"sort"
	"time"

	"github.com/harperreed/healthmon/internal/models"
	"github.com/harperreed/healthmon/internal/storage"
)

// CreateEvent appends a new event to the KV store.
func (c *Client) CreateEvent(e *models.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}

	key := EventPrefix + e.ID.String()
	data, err := marshalJSON(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return c.set(key, data)
}

// GetEvent retrieves an event by ID or ID prefix.
func (c *Client) GetEvent(idOrPrefix string) (*models.Event, error) {
	matches, err := c.matchByIDPrefix(EventPrefix, idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if len(matches) == 0 {
		return nil, storage.ErrNotFound
	}
	if len(matches) > 1 {
		return nil, fmt.Errorf("ambiguous event ID prefix: %s", idOrPrefix)
	}

	event, err := unmarshalJSON[models.Event](matches[0])
	if err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}

// ListEvents retrieves events matching the filter, most recent first.
func (c *Client) ListEvents(f models.EventFilter) ([]*models.Event, error) {
	allData, err := c.listByPrefix(EventPrefix)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	events := make([]*models.Event, 0, len(allData))
	for _, data := range allData {
		e, err := unmarshalJSON[models.Event](data)
		if err != nil {
			continue // Skip invalid entries
		}
		if f.Tag != "" && e.Tag != models.Tag(f.Tag) {
			continue
		}
		if !f.Since.IsZero() && e.Timestamp.Before(f.Since) {
			continue
		}
		if !f.Until.IsZero() && !e.Timestamp.Before(f.Until) {
			continue
		}
		events = append(events, e)
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].Timestamp.After(events[j].Timestamp)
	})

	if f.Limit > 0 && len(events) > f.Limit {
		events = events[:f.Limit]
	}

	return events, nil
}

// SummarizeDay returns the day's events grouped by tag, earliest first.
func (c *Client) SummarizeDay(day time.Time) (map[models.Tag][]*models.Event, error) {
	day = models.DayOf(day)
	events, err := c.ListEvents(models.EventFilter{
		Since: day,
		Until: day.AddDate(0, 0, 1),
	})
	if err != nil {
		return nil, err
	}

	// ListEvents sorts descending; flip to chronological for the summary
	sort.Slice(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})

	byTag := make(map[models.Tag][]*models.Event)
	for _, e := range events {
		byTag[e.Tag] = append(byTag[e.Tag], e)
	}
	return byTag, nil
}

// JoinBiometrics pairs each event in the range with its day's biometric
// row, or nil when that day was never synced.
func (c *Client) JoinBiometrics(from, to time.Time) ([]*models.EventBiometrics, error) {
	from = models.DayOf(from)
	to = models.DayOf(to)

	events, err := c.ListEvents(models.EventFilter{
		Since: from,
		Until: to.AddDate(0, 0, 1),
	})
	if err != nil {
		return nil, err
	}

	days, err := c.ListDays(from, to)
	if err != nil {
		return nil, err
	}
	byDay := make(map[string]*models.BiometricDay, len(days))
	for _, b := range days {
		byDay[b.Day.Format(models.DayFormat)] = b
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})

	pairs := make([]*models.EventBiometrics, 0, len(events))
	for _, e := range events {
		pairs = append(pairs, &models.EventBiometrics{
			Event:      e,
			Biometrics: byDay[e.Day().Format(models.DayFormat)],
		})
	}
	return pairs, nil
}
