// ABOUTME: Tests for the voice pipeline orchestration.
// ABOUTME: Uses stub ports and a real sqlite store to verify confirmation gating.
package voice

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/harperreed/healthmon/internal/models"
	"github.com/harperreed/healthmon/internal/storage"
)

type stubRecorder struct {
	path string
	err  error
}

func (s *stubRecorder) Record(ctx context.Context) (string, error) { return s.path, s.err }

type stubTranscriber struct {
	transcript string
	err        error
}

func (s *stubTranscriber) Transcribe(ctx context.Context, wavPath string) (string, error) {
	return s.transcript, s.err
}

type stubParser struct {
	candidates []EventCandidate
	err        error
}

func (s *stubParser) Parse(ctx context.Context, transcript string) ([]EventCandidate, error) {
	return s.candidates, s.err
}

func setupRepo(t *testing.T) storage.Repository {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "health.db"))
	if err != nil {
		t.Fatalf("open repo: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func floatPtr(v float64) *float64 { return &v }

func TestPipelineWritesConfirmedEvents(t *testing.T) {
	repo := setupRepo(t)

	p := &Pipeline{
		Recorder:    &stubRecorder{path: "note.wav"},
		Transcriber: &stubTranscriber{transcript: "had a beer, redness about 7"},
		Parser: &stubParser{candidates: []EventCandidate{
			{Tag: "food", Name: "beer"},
			{Tag: "symptom", Name: "face_redness", Value: floatPtr(7)},
		}},
		Repo: repo,
	}

	res, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Transcript != "had a beer, redness about 7" {
		t.Errorf("transcript mismatch: %q", res.Transcript)
	}
	if len(res.Created) != 2 {
		t.Fatalf("expected 2 created events, got %d", len(res.Created))
	}

	events, err := repo.ListEvents(models.EventFilter{})
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 stored events, got %d", len(events))
	}
	for _, e := range events {
		if e.Source != models.SourceVoice {
			t.Errorf("event %s has source %q, want voice", e.Name, e.Source)
		}
	}
}

func TestPipelineRejectedConfirmationWritesNothing(t *testing.T) {
	repo := setupRepo(t)

	p := &Pipeline{
		Recorder:    &stubRecorder{path: "note.wav"},
		Transcriber: &stubTranscriber{transcript: "had a beer"},
		Parser:      &stubParser{candidates: []EventCandidate{{Tag: "food", Name: "beer"}}},
		Repo:        repo,
		Confirm: func(transcript string, events []*models.Event) (bool, error) {
			return false, nil
		},
	}

	res, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(res.Created) != 0 {
		t.Errorf("rejected batch should create nothing, got %d", len(res.Created))
	}

	events, err := repo.ListEvents(models.EventFilter{})
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("store should be empty after rejection, got %d events", len(events))
	}
}

func TestPipelineInvalidCandidateWritesNothing(t *testing.T) {
	repo := setupRepo(t)

	p := &Pipeline{
		Recorder:    &stubRecorder{path: "note.wav"},
		Transcriber: &stubTranscriber{transcript: "had a beer and something odd"},
		Parser: &stubParser{candidates: []EventCandidate{
			{Tag: "food", Name: "beer"},
			{Tag: "food", Name: ""}, // parser glitch
		}},
		Repo: repo,
	}

	if _, err := p.Run(context.Background()); err == nil {
		t.Fatal("expected error for invalid candidate")
	}

	// The valid candidate must not have been written either
	events, err := repo.ListEvents(models.EventFilter{})
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("partial write after invalid candidate: %d events", len(events))
	}
}

func TestRunRemovesRecording(t *testing.T) {
	repo := setupRepo(t)

	wavPath := filepath.Join(t.TempDir(), "note.wav")
	if err := os.WriteFile(wavPath, []byte("RIFF"), 0600); err != nil {
		t.Fatalf("write recording: %v", err)
	}

	p := &Pipeline{
		Recorder:    &stubRecorder{path: wavPath},
		Transcriber: &stubTranscriber{transcript: "had a beer"},
		Parser:      &stubParser{candidates: []EventCandidate{{Tag: "food", Name: "beer"}}},
		Repo:        repo,
	}

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if _, err := os.Stat(wavPath); !os.IsNotExist(err) {
		t.Errorf("recording should be removed after the run, stat err: %v", err)
	}
}

func TestPipelineEmptyTranscriptShortCircuits(t *testing.T) {
	repo := setupRepo(t)

	p := &Pipeline{
		Recorder:    &stubRecorder{path: "note.wav"},
		Transcriber: &stubTranscriber{transcript: ""},
		Parser:      &stubParser{err: errors.New("parser should not be called")},
		Repo:        repo,
	}

	res, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(res.Created) != 0 {
		t.Errorf("expected no events for silence, got %d", len(res.Created))
	}
}

func TestPipelineTranscriberErrorPropagates(t *testing.T) {
	repo := setupRepo(t)
	wantErr := &models.ExternalServiceError{Service: "speech", Err: errors.New("unavailable")}

	p := &Pipeline{
		Recorder:    &stubRecorder{path: "note.wav"},
		Transcriber: &stubTranscriber{err: wantErr},
		Parser:      &stubParser{},
		Repo:        repo,
	}

	_, err := p.Run(context.Background())
	if !models.IsExternal(err) {
		t.Errorf("expected ExternalServiceError, got %v", err)
	}
}

func TestRunTextSkipsAudioStages(t *testing.T) {
	repo := setupRepo(t)

	p := &Pipeline{
		Recorder:    &stubRecorder{err: errors.New("recorder should not be called")},
		Transcriber: &stubTranscriber{err: errors.New("transcriber should not be called")},
		Parser:      &stubParser{candidates: []EventCandidate{{Tag: "mood", Name: "relaxed"}}},
		Repo:        repo,
	}

	res, err := p.RunText(context.Background(), "feeling relaxed")
	if err != nil {
		t.Fatalf("RunText failed: %v", err)
	}
	if len(res.Created) != 1 || res.Created[0].Name != "relaxed" {
		t.Errorf("unexpected result: %+v", res.Created)
	}
}
