// ABOUTME: Tests for CLI helpers.
// ABOUTME: Covers time parsing, score bars, and output formatting.
package main

import (
	"strings"
	"testing"
	"time"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple datetime", "2024-01-05 14:00", false},
		{"T-separated", "2024-01-05T14:00", false},
		{"date only", "2024-01-05", false},
		{"RFC3339", "2024-01-05T14:00:00Z", false},
		{"garbage", "yesterday afternoon", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTime(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseTime(%q) failed: %v", tt.input, err)
			}
			if got.Year() != 2024 || got.Month() != time.January || got.Day() != 5 {
				t.Errorf("parseTime(%q) = %v", tt.input, got)
			}
		})
	}
}

func TestScoreBar(t *testing.T) {
	tests := []struct {
		score  float64
		filled int
	}{
		{0, 0},
		{6, 6},
		{10, 10},
		{12, 10}, // clamped
		{-1, 0},  // clamped
	}

	for _, tt := range tests {
		bar := scoreBar(tt.score)
		if got := strings.Count(bar, "█"); got != tt.filled {
			t.Errorf("scoreBar(%v): %d filled segments, want %d", tt.score, got, tt.filled)
		}
		if got := strings.Count(bar, "░"); got != 10-tt.filled {
			t.Errorf("scoreBar(%v): %d empty segments, want %d", tt.score, got, 10-tt.filled)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 30); got != "short" {
		t.Errorf("truncate should pass short strings through, got %q", got)
	}
	long := strings.Repeat("x", 40)
	got := truncate(long, 30)
	if len(got) != 30 || !strings.HasSuffix(got, "...") {
		t.Errorf("truncate(40 chars, 30) = %q", got)
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("food", 9); got != "food     " {
		t.Errorf("padRight = %q", got)
	}
	if got := padRight("very long tag", 9); got != "very long tag" {
		t.Errorf("padRight should not truncate, got %q", got)
	}
}

func TestFormatHours(t *testing.T) {
	tests := []struct {
		sec  int
		want string
	}{
		{23400, "6h30m"},
		{3600, "1h00m"},
		{0, "0h00m"},
		{4200, "1h10m"},
	}
	for _, tt := range tests {
		if got := formatHours(tt.sec); got != tt.want {
			t.Errorf("formatHours(%d) = %q, want %q", tt.sec, got, tt.want)
		}
	}
}

func TestEmbeddedSkill(t *testing.T) {
	content, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		t.Fatalf("embedded skill missing: %v", err)
	}

	text := string(content)
	if !strings.HasPrefix(text, "---\n") {
		t.Error("skill missing frontmatter")
	}
	if !strings.Contains(text, "name: healthmon") {
		t.Error("skill missing name")
	}
	for _, cmd := range []string{"hm log", "hm symptom", "hm sync", "hm correlate"} {
		if !strings.Contains(text, cmd) {
			t.Errorf("skill missing %q usage", cmd)
		}
	}
}

func TestRootCommandWiring(t *testing.T) {
	want := []string{
		"log", "symptom", "list", "today", "correlate",
		"sync", "voice", "export", "import", "migrate",
		"mcp", "cloud", "install-skill",
	}
	have := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		have[c.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("command %q not registered", name)
		}
	}
}
