// ABOUTME: Voice pipeline ports and orchestration.
// ABOUTME: Wires record, transcribe, and parse stages into confirmed event writes.

package voice

import (
	"context"
	"fmt"
	"os"

	"github.com/harperreed/healthmon/internal/models"
	"github.com/harperreed/healthmon/internal/storage"
)

// Recorder captures microphone audio and returns the path of a WAV file.
type Recorder interface {
	Record(ctx context.Context) (string, error)
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(ctx context.Context) (string, error)

func (f RecorderFunc) Record(ctx context.Context) (string, error) { return f(ctx) }

// Transcriber converts a WAV file into a transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, wavPath string) (string, error)
}

// Parser extracts structured event candidates from a transcript.
type Parser interface {
	Parse(ctx context.Context, transcript string) ([]EventCandidate, error)
}

// EventCandidate is one event proposed by the parser, before confirmation.
type EventCandidate struct {
	Tag      string   `json:"tag"`
	Name     string   `json:"name"`
	Value    *float64 `json:"value,omitempty"`
	Category *string  `json:"category,omitempty"`
	Notes    *string  `json:"notes,omitempty"`
}

// Event converts the candidate into a voice-sourced event.
func (c EventCandidate) Event() *models.Event {
	e := models.NewEvent(models.Tag(c.Tag), c.Name).WithSource(models.SourceVoice)
	if c.Value != nil {
		e = e.WithValue(*c.Value)
	}
	if c.Category != nil {
		e = e.WithCategory(*c.Category)
	}
	if c.Notes != nil {
		e = e.WithNotes(*c.Notes)
	}
	return e
}

// Result reports one pipeline run.
type Result struct {
	Transcript string
	Created    []*models.Event
}

// Pipeline runs record -> transcribe -> parse -> confirm -> store.
// Nothing is written until every candidate passed validation and the
// Confirm hook accepted the whole batch.
type Pipeline struct {
	Recorder    Recorder
	Transcriber Transcriber
	Parser      Parser
	Repo        storage.Repository

	// Confirm decides whether the proposed events get written. A nil
	// hook accepts everything (used by tests and --yes).
	Confirm func(transcript string, events []*models.Event) (bool, error)
}

// Run executes the full pipeline from the microphone. The recording is
// deleted once a transcript has been obtained.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	wavPath, err := p.Recorder.Record(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = os.Remove(wavPath) }()

	transcript, err := p.Transcriber.Transcribe(ctx, wavPath)
	if err != nil {
		return nil, err
	}

	return p.RunText(ctx, transcript)
}

// RunText executes the pipeline from an existing transcript, skipping
// the audio stages.
func (p *Pipeline) RunText(ctx context.Context, transcript string) (*Result, error) {
	res := &Result{Transcript: transcript}
	if transcript == "" {
		return res, nil
	}

	candidates, err := p.Parser.Parse(ctx, transcript)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return res, nil
	}

	events := make([]*models.Event, 0, len(candidates))
	for _, c := range candidates {
		e := c.Event()
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("parser produced invalid event: %w", err)
		}
		events = append(events, e)
	}

	if p.Confirm != nil {
		ok, err := p.Confirm(transcript, events)
		if err != nil {
			return nil, err
		}
		if !ok {
			return res, nil
		}
	}

	for _, e := range events {
		if err := p.Repo.CreateEvent(e); err != nil {
			return nil, err
		}
		res.Created = append(res.Created, e)
	}
	return res, nil
}
