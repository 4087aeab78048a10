// ABOUTME: Claude-backed parser turning free-text diary entries into events.
// ABOUTME: Calls the Anthropic Messages API and decodes the JSON event array.

package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/harperreed/healthmon/internal/models"
)

const (
	defaultAnthropicBaseURL = "https://api.anthropic.com"
	defaultParserModel      = "claude-haiku-4-5"
	anthropicVersion        = "2023-06-01"
)

const parserSystemPrompt = `You parse health diary entries into structured events for a health tracker.

Return a JSON array of event objects. Each object has these fields:
  tag      - one of: food, activity, symptom, mood, stress, sleep, other
  name     - the specific item or observation (e.g. "avocado", "face_redness", "gaming")
  value    - numeric score or quantity when one was stated, otherwise null
  category - subcategory relevant to the tag, or null. Examples:
               food:     regular, junk, simple_carbs, alcohol, allergenic
               activity: gaming, workout, walk, work, social
               mood:     relaxed, anxious, happy, tired
  notes    - any extra context, or null

Rules:
- Split compound entries: "avocado and egg" means two food events
- Infer reasonable defaults for Polish or English input
- For scores or ratings mentioned without context, use tag=symptom or stress
- Return ONLY a valid JSON array, no explanation or markdown
- If nothing health-related is found, return []

Examples:
  Input:  "zjadlem awokado i jajko na sniadanie, gralem 2 godziny"
  Output: [{"tag":"food","name":"awokado","category":"regular","notes":"sniadanie"},
           {"tag":"food","name":"jajko","category":"regular","notes":"sniadanie"},
           {"tag":"activity","name":"gaming","value":2,"notes":null}]

  Input:  "redness is about 7, had a beer and felt stressed at work all day"
  Output: [{"tag":"symptom","name":"face_redness","value":7},
           {"tag":"food","name":"beer","category":"alcohol"},
           {"tag":"stress","name":"work","notes":"all day"}]`

// ClaudeParser extracts structured events with the Anthropic Messages API.
type ClaudeParser struct {
	// APIKey authenticates requests. Required.
	APIKey string

	// Model to use; empty means the default haiku model.
	Model string

	// BaseURL overrides the API endpoint (tests point it at a mock).
	BaseURL string

	// HTTPClient defaults to a client with a 60s timeout.
	HTTPClient *http.Client
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Parse sends the transcript to Claude and decodes the returned events.
func (p *ClaudeParser) Parse(ctx context.Context, transcript string) ([]EventCandidate, error) {
	if p.APIKey == "" {
		return nil, &models.ExternalServiceError{
			Service: "anthropic",
			Err:     fmt.Errorf("ANTHROPIC_API_KEY not set"),
		}
	}

	model := p.Model
	if model == "" {
		model = defaultParserModel
	}
	baseURL := strings.TrimSuffix(p.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultAnthropicBaseURL
	}
	client := p.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}

	body, err := json.Marshal(messagesRequest{
		Model:     model,
		MaxTokens: 1024,
		System:    parserSystemPrompt,
		Messages:  []message{{Role: "user", Content: transcript}},
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", p.APIKey)
	req.Header.Set("Anthropic-Version", anthropicVersion)

	resp, err := client.Do(req)
	if err != nil {
		return nil, &models.ExternalServiceError{Service: "anthropic", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &models.ExternalServiceError{Service: "anthropic", Err: fmt.Errorf("read response: %w", err)}
	}

	var decoded messagesResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, &models.ExternalServiceError{Service: "anthropic", Err: fmt.Errorf("decode response: %w", err)}
	}
	if resp.StatusCode != http.StatusOK {
		msg := resp.Status
		if decoded.Error != nil {
			msg = decoded.Error.Message
		}
		return nil, &models.ExternalServiceError{Service: "anthropic", Err: fmt.Errorf("messages API: %s", msg)}
	}
	if len(decoded.Content) == 0 {
		return nil, &models.ExternalServiceError{Service: "anthropic", Err: fmt.Errorf("empty response content")}
	}

	raw := stripCodeFences(decoded.Content[0].Text)
	if raw == "" {
		return nil, nil
	}

	var candidates []EventCandidate
	if err := json.Unmarshal([]byte(raw), &candidates); err != nil {
		return nil, &models.ExternalServiceError{
			Service: "anthropic",
			Err:     fmt.Errorf("model returned invalid JSON: %w", err),
		}
	}
	return candidates, nil
}

// stripCodeFences removes a markdown fence the model sometimes wraps
// around the JSON despite the prompt.
func stripCodeFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "```") {
		return raw
	}
	lines := strings.Split(raw, "\n")
	if len(lines) > 1 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[1 : len(lines)-1]
	} else {
		lines = lines[1:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
