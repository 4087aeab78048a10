// ABOUTME: MCP resource implementations for the health event log.
// ABOUTME: Provides healthmon://recent, healthmon://today, and healthmon://correlation.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/healthmon/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerResources() {
	// healthmon://recent - Last 20 events across all tags
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "healthmon://recent",
		Name:        "Recent Health Events",
		Description: "Last 20 health events across all tags",
		MIMEType:    "application/json",
	}, s.handleRecentResource)

	// healthmon://today - Today's events plus the day's biometrics
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "healthmon://today",
		Name:        "Today's Health Data",
		Description: "Today's events grouped by tag plus synced Garmin biometrics",
		MIMEType:    "application/json",
	}, s.handleTodayResource)

	// healthmon://correlation - Last 30 days of events joined with biometrics
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "healthmon://correlation",
		Name:        "Event-Biometric Correlation",
		Description: "Last 30 days of events joined with same-day Garmin biometrics",
		MIMEType:    "application/json",
	}, s.handleCorrelationResource)
}

// Resource handlers

func (s *Server) handleRecentResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	events, err := s.repo.ListEvents(models.EventFilter{Limit: 20})
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	result := map[string]interface{}{
		"events": events,
		"count":  len(events),
	}
	return jsonResource("healthmon://recent", result)
}

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	today := models.DayOf(time.Now().UTC())

	byTag, err := s.repo.SummarizeDay(today)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize day: %w", err)
	}

	biometrics, err := s.repo.GetDay(today)
	if err != nil {
		return nil, fmt.Errorf("failed to get biometrics: %w", err)
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
	return jsonResource("healthmon://today", result)
}

func (s *Server) handleCorrelationResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	to := models.DayOf(time.Now().UTC())
	from := to.AddDate(0, 0, -30)

	pairs, err := s.repo.JoinBiometrics(from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to join biometrics: %w", err)
	}

	result := map[string]interface{}{
		"from":  from.Format(models.DayFormat),
		"to":    to.Format(models.DayFormat),
		"pairs": pairs,
		"count": len(pairs),
	}
	return jsonResource("healthmon://correlation", result)
}

func jsonResource(uri string, result interface{}) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
