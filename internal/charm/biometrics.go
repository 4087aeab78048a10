// ABOUTME: Biometric day operations and export support for Charm KV storage.
// ABOUTME: Keys rows by calendar day so re-syncs overwrite in place.
package charm

import (
	"fmt"
	"sort"
	"time"

	"github.com/harperreed/healthmon/internal/models"
	"github.com/harperreed/healthmon/internal/storage"
)

// GetDay retrieves one day's biometrics, or nil when never synced.
func (c *Client) GetDay(day time.Time) (*models.BiometricDay, error) {
	key := DayPrefix + models.DayOf(day).Format(models.DayFormat)
	data, ok, err := c.get(key)
	if err != nil {
		return nil, fmt.Errorf("get day: %w", err)
	}
	if !ok {
		return nil, nil
	}

	b, err := unmarshalJSON[models.BiometricDay](data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal day: %w", err)
	}
	return b, nil
}

// UpsertDay writes a day's biometrics, replacing any previous row.
func (c *Client) UpsertDay(b *models.BiometricDay) error {
	key := DayPrefix + models.DayOf(b.Day).Format(models.DayFormat)
	data, err := marshalJSON(b)
	if err != nil {
		return fmt.Errorf("marshal day: %w", err)
	}
	return c.set(key, data)
}

// ListDays returns synced days within the inclusive range, ascending.
func (c *Client) ListDays(from, to time.Time) ([]*models.BiometricDay, error) {
	allData, err := c.listByPrefix(DayPrefix)
	if err != nil {
		return nil, fmt.Errorf("list days: %w", err)
	}

	from = models.DayOf(from)
	to = models.DayOf(to)

	days := make([]*models.BiometricDay, 0, len(allData))
	for _, data := range allData {
		b, err := unmarshalJSON[models.BiometricDay](data)
		if err != nil {
			continue // Skip invalid entries
		}
		if b.Day.Before(from) || b.Day.After(to) {
			continue
		}
		days = append(days, b)
	}

	sort.Slice(days, func(i, j int) bool {
		return days[i].Day.Before(days[j].Day)
	})
	return days, nil
}

// GetAllData retrieves all data for export.
func (c *Client) GetAllData() (*storage.ExportData, error) {
	events, err := c.ListEvents(models.EventFilter{})
	if err != nil {
		return nil, err
	}

	from := time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
	days, err := c.ListDays(from, to)
	if err != nil {
		return nil, err
	}

	return &storage.ExportData{
		Version:    "1.0",
		ExportedAt: time.Now().UTC(),
		Tool:       "healthmon",
		Events:     events,
		Biometrics: days,
	}, nil
}

// ImportData imports events and biometric days from an export file.
func (c *Client) ImportData(data *storage.ExportData) error {
	for _, e := range data.Events {
		if err := c.CreateEvent(e); err != nil {
			return fmt.Errorf("import event: %w", err)
		}
	}
	for _, b := range data.Biometrics {
		if err := c.UpsertDay(b); err != nil {
			return fmt.Errorf("import biometric day: %w", err)
		}
	}
	return nil
}
