// ABOUTME: Google Cloud Speech transcriber for short voice notes.
// ABOUTME: Uses synchronous Recognize with retry on transient gRPC failures.

package voice

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/harperreed/healthmon/internal/models"
)

// GoogleTranscriber sends recorded WAV files to the Cloud Speech API.
// Voice notes are short, so the synchronous Recognize endpoint is enough.
type GoogleTranscriber struct {
	client     *speech.Client
	language   string
	timeout    time.Duration
	maxRetries int
}

// NewGoogleTranscriber creates a transcriber. Credentials come from the
// standard GOOGLE_APPLICATION_CREDENTIALS environment. language is a
// BCP-47 code; empty means en-US.
func NewGoogleTranscriber(ctx context.Context, language string, timeout time.Duration) (*GoogleTranscriber, error) {
	var opts []option.ClientOption
	if creds := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); creds != "" {
		opts = append(opts, option.WithCredentialsFile(creds))
	}
	c, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, &models.ExternalServiceError{Service: "speech", Err: fmt.Errorf("speech client: %w", err)}
	}
	if language == "" {
		language = "en-US"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &GoogleTranscriber{
		client:     c,
		language:   language,
		timeout:    timeout,
		maxRetries: 4,
	}, nil
}

// Close releases the underlying gRPC connection.
func (t *GoogleTranscriber) Close() error {
	if t == nil || t.client == nil {
		return nil
	}
	return t.client.Close()
}

// Transcribe sends the WAV file and returns the joined transcript.
func (t *GoogleTranscriber) Transcribe(ctx context.Context, wavPath string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	data, err := os.ReadFile(wavPath)
	if err != nil {
		return "", fmt.Errorf("read recording: %w", err)
	}
	if len(data) == 0 {
		return "", nil
	}

	req := &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:            captureSampleRate,
			AudioChannelCount:          captureChannels,
			LanguageCode:               t.language,
			EnableAutomaticPunctuation: true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: data},
		},
	}

	resp, err := t.retry(ctx, func() (*speechpb.RecognizeResponse, error) {
		return t.client.Recognize(ctx, req)
	})
	if err != nil {
		return "", &models.ExternalServiceError{Service: "speech", Err: err}
	}

	var full strings.Builder
	for _, r := range resp.Results {
		if r == nil || len(r.Alternatives) == 0 || r.Alternatives[0] == nil {
			continue
		}
		alt := strings.TrimSpace(r.Alternatives[0].Transcript)
		if alt == "" {
			continue
		}
		if full.Len() > 0 {
			full.WriteString(" ")
		}
		full.WriteString(alt)
	}
	return full.String(), nil
}

func (t *GoogleTranscriber) retry(ctx context.Context, fn func() (*speechpb.RecognizeResponse, error)) (*speechpb.RecognizeResponse, error) {
	backoff := 750 * time.Millisecond
	var last error
	for attempt := 0; attempt <= t.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		resp, err := fn()
		if err == nil {
			return resp, nil
		}
		last = err

		code := status.Code(err)
		if code != codes.Unavailable && code != codes.ResourceExhausted && code != codes.DeadlineExceeded {
			return nil, err
		}
		if attempt == t.maxRetries {
			break
		}
		time.Sleep(backoff)
		backoff *= 2
		if backoff > 10*time.Second {
			backoff = 10 * time.Second
		}
	}
	return nil, last
}
