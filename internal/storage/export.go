// ABOUTME: Export and import functionality for health data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package storage

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/healthmon/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportData represents the full export format for health data.
type ExportData struct {
	Version    string                 `json:"version" yaml:"version"`
	ExportedAt time.Time              `json:"exported_at" yaml:"exported_at"`
	Tool       string                 `json:"tool" yaml:"tool"`
	Events     []*models.Event        `json:"events" yaml:"events"`
	Biometrics []*models.BiometricDay `json:"biometrics" yaml:"biometrics"`
}

// GetAllData retrieves all data for export.
func (d *DB) GetAllData() (*ExportData, error) {
	events, err := d.ListEvents(models.EventFilter{})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	days, err := allDaysOf(d)
	if err != nil {
		return nil, fmt.Errorf("list biometric days: %w", err)
	}

	return &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now().UTC(),
		Tool:       "healthmon",
		Events:     events,
		Biometrics: days,
	}, nil
}

// ImportData imports data from an export file. Events keep their original
// IDs and timestamps; biometric days are upserted.
func (d *DB) ImportData(data *ExportData) error {
	for _, e := range data.Events {
		if err := d.CreateEvent(e); err != nil {
			return fmt.Errorf("import event: %w", err)
		}
	}

	for _, b := range data.Biometrics {
		if err := d.UpsertDay(b); err != nil {
			return fmt.Errorf("import biometric day: %w", err)
		}
	}

	return nil
}

// ExportJSON exports all data as JSON.
func ExportJSON(r Repository) ([]byte, error) {
	data, err := r.GetAllData()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportJSON exports all data as JSON.
func (d *DB) ExportJSON() ([]byte, error) {
	return ExportJSON(d)
}

// ExportYAML exports all data as YAML, with events grouped by tag.
func ExportYAML(r Repository) ([]byte, error) {
	data, err := r.GetAllData()
	if err != nil {
		return nil, err
	}

	yamlData := struct {
		Version    string                 `yaml:"version"`
		ExportedAt string                 `yaml:"exported_at"`
		Tool       string                 `yaml:"tool"`
		Events     map[string][]yamlEvent `yaml:"events"`
		Biometrics []yamlBiometricDay     `yaml:"biometrics"`
	}{
		Version:    data.Version,
		ExportedAt: data.ExportedAt.Format(time.RFC3339),
		Tool:       data.Tool,
		Events:     make(map[string][]yamlEvent),
		Biometrics: make([]yamlBiometricDay, 0, len(data.Biometrics)),
	}

	for _, e := range data.Events {
		ye := yamlEvent{
			ID:        e.ID.String()[:8],
			Name:      e.Name,
			Timestamp: e.Timestamp.Format(time.RFC3339),
			Source:    e.Source,
		}
		if e.Value != nil {
			ye.Value = e.Value
		}
		if e.Category != nil {
			ye.Category = *e.Category
		}
		if e.Notes != nil {
			ye.Notes = *e.Notes
		}
		yamlData.Events[string(e.Tag)] = append(yamlData.Events[string(e.Tag)], ye)
	}

	for _, b := range data.Biometrics {
		yb := yamlBiometricDay{Day: b.Day.Format(models.DayFormat)}
		if b.Steps != nil {
			yb.Steps = b.Steps
		}
		if b.RestingHR != nil {
			yb.RestingHR = b.RestingHR
		}
		if b.StressAvg != nil {
			yb.StressAvg = b.StressAvg
		}
		if b.SleepTotalSec != nil {
			h := float64(*b.SleepTotalSec) / 3600
			yb.SleepHours = &h
		}
		yamlData.Biometrics = append(yamlData.Biometrics, yb)
	}

	return yaml.Marshal(yamlData)
}

// ExportYAML exports all data as YAML, with events grouped by tag.
func (d *DB) ExportYAML() ([]byte, error) {
	return ExportYAML(d)
}

type yamlEvent struct {
	ID        string   `yaml:"id"`
	Name      string   `yaml:"name"`
	Value     *float64 `yaml:"value,omitempty"`
	Category  string   `yaml:"category,omitempty"`
	Notes     string   `yaml:"notes,omitempty"`
	Timestamp string   `yaml:"timestamp"`
	Source    string   `yaml:"source,omitempty"`
}

type yamlBiometricDay struct {
	Day        string   `yaml:"day"`
	Steps      *int     `yaml:"steps,omitempty"`
	RestingHR  *float64 `yaml:"resting_hr,omitempty"`
	StressAvg  *int     `yaml:"stress_avg,omitempty"`
	SleepHours *float64 `yaml:"sleep_hours,omitempty"`
}

// ExportMarkdown exports data as Markdown, grouped by tag, with a
// biometrics table at the end.
func ExportMarkdown(r Repository, tag string, since *time.Time) (string, error) {
	filter := models.EventFilter{Tag: tag}
	if since != nil {
		filter.Since = *since
	}
	events, err := r.ListEvents(filter)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	now := time.Now()

	sb.WriteString(fmt.Sprintf("# Health Log Export - %s\n\n", now.Format(models.DayFormat)))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	// Group by tag
	grouped := make(map[models.Tag][]*models.Event)
	for _, e := range events {
		grouped[e.Tag] = append(grouped[e.Tag], e)
	}

	var tags []models.Tag
	for t := range grouped {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool {
		return string(tags[i]) < string(tags[j])
	})

	for _, t := range tags {
		sb.WriteString(fmt.Sprintf("## %s\n\n", t))
		sb.WriteString("| Time | Name | Value | Category | Notes |\n")
		sb.WriteString("|------|------|-------|----------|-------|\n")
		for _, e := range grouped[t] {
			value := ""
			if e.Value != nil {
				value = fmt.Sprintf("%.1f", *e.Value)
			}
			category := ""
			if e.Category != nil {
				category = *e.Category
			}
			notes := ""
			if e.Notes != nil {
				notes = *e.Notes
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
				e.Timestamp.Format("2006-01-02 15:04"),
				e.Name, value, category, notes))
		}
		sb.WriteString("\n")
	}

	// Biometrics section
	days, err := allDaysOf(r)
	if err == nil && len(days) > 0 {
		if since != nil {
			var filtered []*models.BiometricDay
			for _, b := range days {
				if !b.Day.Before(models.DayOf(*since)) {
					filtered = append(filtered, b)
				}
			}
			days = filtered
		}

		if len(days) > 0 {
			sb.WriteString("## Biometrics\n\n")
			sb.WriteString("| Day | Steps | RHR | Stress | Sleep | REM |\n")
			sb.WriteString("|-----|-------|-----|--------|-------|-----|\n")
			for _, b := range days {
				sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s |\n",
					b.Day.Format(models.DayFormat),
					fmtInt(b.Steps),
					fmtFloat(b.RestingHR),
					fmtInt(b.StressAvg),
					fmtDuration(b.SleepTotalSec),
					fmtDuration(b.SleepRemSec)))
			}
		}
	}

	return sb.String(), nil
}

// ExportMarkdown exports data as Markdown, grouped by tag.
func (d *DB) ExportMarkdown(tag string, since *time.Time) (string, error) {
	return ExportMarkdown(d, tag, since)
}

// ImportJSON imports data from JSON bytes.
func ImportJSON(r Repository, data []byte) error {
	var exportData ExportData
	if err := json.Unmarshal(data, &exportData); err != nil {
		return fmt.Errorf("unmarshal JSON: %w", err)
	}
	return r.ImportData(&exportData)
}

// ImportJSON imports data from JSON bytes.
func (d *DB) ImportJSON(data []byte) error {
	return ImportJSON(d, data)
}

// allDaysOf returns every synced day, ordered by day ascending.
func allDaysOf(r Repository) ([]*models.BiometricDay, error) {
	from := time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
	return r.ListDays(from, to)
}

func fmtInt(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

func fmtFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.0f", *v)
}

func fmtDuration(sec *int) string {
	if sec == nil {
		return "-"
	}
	h := *sec / 3600
	m := (*sec % 3600) / 60
	return fmt.Sprintf("%dh%02dm", h, m)
}
