// ABOUTME: MCP tool implementations for the health event log.
// ABOUTME: Provides event logging, day summaries, and biometric correlation.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/healthmon/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	// log_event
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_event",
		Description: "Append a health event (food, activity, symptom, mood, stress, sleep, other)",
	}, s.handleLogEvent)

	// list_events
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_events",
		Description: "List recent health events, optionally filtered by tag or time range",
	}, s.handleListEvents)

	// today_summary
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "today_summary",
		Description: "Get today's events grouped by tag plus the day's Garmin biometrics",
	}, s.handleTodaySummary)

	// get_biometrics
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_biometrics",
		Description: "Get the synced Garmin biometrics for a calendar day",
	}, s.handleGetBiometrics)

	// correlate_range
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "correlate_range",
		Description: "Join events with same-day biometrics over a date range for correlation analysis",
	}, s.handleCorrelateRange)
}

// Tool input/output types

type logEventInput struct {
	Tag      string  `json:"tag" jsonschema:"Event tag (food, activity, symptom, mood, stress, sleep, other)"`
	Name     string  `json:"name" jsonschema:"The specific item or observation (e.g. avocado, face_redness)"`
	Value    float64 `json:"value,omitempty" jsonschema:"Numeric score or quantity, omit if not applicable"`
	HasValue bool    `json:"has_value,omitempty" jsonschema:"Set true when value is meaningful (distinguishes 0 from absent)"`
	Category string  `json:"category,omitempty" jsonschema:"Optional subcategory (e.g. alcohol, workout)"`
	Notes    string  `json:"notes,omitempty" jsonschema:"Optional free-text context"`
	LoggedAt string  `json:"logged_at,omitempty" jsonschema:"Timestamp (ISO 8601), defaults to now"`
}

type eventOutput struct {
	ID      string `json:"id"`
	Tag     string `json:"tag"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

type listEventsInput struct {
	Tag   string `json:"tag,omitempty" jsonschema:"Filter by tag"`
	Since string `json:"since,omitempty" jsonschema:"Earliest day to include (YYYY-MM-DD)"`
	Until string `json:"until,omitempty" jsonschema:"Day after the last day to include (YYYY-MM-DD)"`
	Limit int    `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type getBiometricsInput struct {
	Day string `json:"day" jsonschema:"Calendar day (YYYY-MM-DD)"`
}

type correlateRangeInput struct {
	From string `json:"from" jsonschema:"First day of the range (YYYY-MM-DD)"`
	To   string `json:"to" jsonschema:"Last day of the range (YYYY-MM-DD)"`
	Tag  string `json:"tag,omitempty" jsonschema:"Only include events with this tag"`
}

// Tool handlers

func (s *Server) handleLogEvent(ctx context.Context, req *mcp.CallToolRequest, input logEventInput) (*mcp.CallToolResult, eventOutput, error) {
	e := models.NewEvent(models.Tag(input.Tag), input.Name).WithSource(models.SourceMCP)

	if input.HasValue {
		e = e.WithValue(input.Value)
	}
	if input.Category != "" {
		e = e.WithCategory(input.Category)
	}
	if input.Notes != "" {
		e = e.WithNotes(input.Notes)
	}
	if input.LoggedAt != "" {
		t, err := time.Parse(time.RFC3339, input.LoggedAt)
		if err != nil {
			t, err = time.Parse("2006-01-02 15:04", input.LoggedAt)
		}
		if err != nil {
			return nil, eventOutput{}, fmt.Errorf("invalid logged_at: %s", input.LoggedAt)
		}
		e = e.WithTimestamp(t)
	}

	if err := s.repo.CreateEvent(e); err != nil {
		return nil, eventOutput{}, fmt.Errorf("failed to log event: %w", err)
	}

	return nil, eventOutput{
		ID:      e.ID.String()[:8],
		Tag:     string(e.Tag),
		Name:    e.Name,
		Message: fmt.Sprintf("Logged %s: %s (ID: %s)", e.Tag, e.Name, e.ID.String()[:8]),
	}, nil
}

func (s *Server) handleListEvents(ctx context.Context, req *mcp.CallToolRequest, input listEventsInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	filter := models.EventFilter{Tag: input.Tag, Limit: input.Limit}
	if input.Since != "" {
		d, err := models.ParseDay(input.Since)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid since: %s", input.Since)
		}
		filter.Since = d
	}
	if input.Until != "" {
		d, err := models.ParseDay(input.Until)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid until: %s", input.Until)
		}
		filter.Until = d
	}

	events, err := s.repo.ListEvents(filter)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list events: %w", err)
	}

	if len(events) == 0 {
		return nil, map[string]interface{}{"message": "No events found."}, nil
	}

	return nil, events, nil
}

func (s *Server) handleTodaySummary(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, any, error) {
	today := models.DayOf(time.Now().UTC())

	byTag, err := s.repo.SummarizeDay(today)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to summarize day: %w", err)
	}

	biometrics, err := s.repo.GetDay(today)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get biometrics: %w", err)
	}

	count := 0
	for _, events := range byTag {
		count += len(events)
	}

	result := map[string]interface{}{
		"date":        today.Format(models.DayFormat),
		"events":      byTag,
		"biometrics":  biometrics,
		"event_count": count,
	}
	return nil, result, nil
}

func (s *Server) handleGetBiometrics(ctx context.Context, req *mcp.CallToolRequest, input getBiometricsInput) (*mcp.CallToolResult, any, error) {
	day, err := models.ParseDay(input.Day)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid day: %s", input.Day)
	}

	b, err := s.repo.GetDay(day)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get biometrics: %w", err)
	}
	if b == nil {
		return nil, map[string]interface{}{
			"message": fmt.Sprintf("No biometrics synced for %s.", input.Day),
		}, nil
	}
	return nil, b, nil
}

func (s *Server) handleCorrelateRange(ctx context.Context, req *mcp.CallToolRequest, input correlateRangeInput) (*mcp.CallToolResult, any, error) {
	from, err := models.ParseDay(input.From)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid from: %s", input.From)
	}
	to, err := models.ParseDay(input.To)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid to: %s", input.To)
	}
	if to.Before(from) {
		return nil, nil, fmt.Errorf("range is backwards: %s > %s", input.From, input.To)
	}

	pairs, err := s.repo.JoinBiometrics(from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to join biometrics: %w", err)
	}

	if input.Tag != "" {
		var filtered []*models.EventBiometrics
		for _, p := range pairs {
			if p.Event.Tag == models.Tag(input.Tag) {
				filtered = append(filtered, p)
			}
		}
		pairs = filtered
	}

	if len(pairs) == 0 {
		return nil, map[string]interface{}{"message": "No events in range."}, nil
	}
	return nil, pairs, nil
}
