// ABOUTME: CLI command for the voice input pipeline.
// ABOUTME: Records, transcribes, parses, and confirms events before writing.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/healthmon/internal/models"
	"github.com/harperreed/healthmon/internal/voice"
	"github.com/spf13/cobra"
)

var (
	voiceText     string
	voiceLang     string
	voiceDuration int
	voiceYes      bool
)

// One reader for all stdin prompts so the stop and confirm reads don't
// buffer past each other.
var stdin = bufio.NewReader(os.Stdin)

var voiceCmd = &cobra.Command{
	Use:   "voice",
	Short: "Log events by voice",
	Long: `Record a voice note, transcribe it, and turn it into structured events.

PIPELINE:

  1. Record from the default microphone until Enter (capped at --duration)
  2. Transcribe with Google Cloud Speech
  3. Parse into events with Claude
  4. Show the proposed events and ask for confirmation
  5. Append confirmed events to the log (source: voice)

Nothing is written unless you confirm the whole batch.

REQUIREMENTS:

  GOOGLE_APPLICATION_CREDENTIALS   Google Cloud service account (transcription)
  ANTHROPIC_API_KEY                Anthropic API key (parsing)

With --text the audio stages are skipped, so only ANTHROPIC_API_KEY is
needed.

EXAMPLES:

  hm voice                                     # Record and confirm
  hm voice --lang pl-PL                        # Polish voice note
  hm voice --text "had a beer, redness 7"      # Parse text directly
  hm voice --text "avocado and egg" --yes      # Skip confirmation`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		parser := &voice.ClaudeParser{
			APIKey:  os.Getenv("ANTHROPIC_API_KEY"),
			Model:   cfg.Voice.Model,
			BaseURL: cfg.Voice.BaseURL,
		}

		p := &voice.Pipeline{
			Parser: parser,
			Repo:   repo,
		}
		if !voiceYes {
			p.Confirm = confirmEvents
		}

		var res *voice.Result
		var err error
		if voiceText != "" {
			res, err = p.RunText(ctx, voiceText)
		} else {
			lang := cfg.Voice.Language
			if voiceLang != "" {
				lang = voiceLang
			}
			duration := 30 * time.Second
			if voiceDuration > 0 {
				duration = time.Duration(voiceDuration) * time.Second
			}

			transcriber, terr := voice.NewGoogleTranscriber(ctx, lang, cfg.GetVoiceTimeout())
			if terr != nil {
				return terr
			}
			defer transcriber.Close()

			mic := &voice.MicRecorder{Duration: duration}
			fmt.Printf("Recording... press Enter to finish (capture stops after %s)\n", duration)

			// Record on a goroutine; the Enter read stays on this one so
			// it never competes with the confirmation prompt for stdin.
			recCtx, recCancel := context.WithCancel(ctx)
			type recorded struct {
				path string
				err  error
			}
			recCh := make(chan recorded, 1)
			go func() {
				path, rerr := mic.Record(recCtx)
				recCh <- recorded{path, rerr}
			}()
			_, _ = stdin.ReadString('\n')
			recCancel()
			rec := <-recCh
			if rec.err != nil {
				return fmt.Errorf("voice pipeline: %w", rec.err)
			}

			p.Recorder = voice.RecorderFunc(func(context.Context) (string, error) {
				return rec.path, nil
			})
			p.Transcriber = transcriber
			res, err = p.Run(ctx)
		}
		if err != nil {
			return fmt.Errorf("voice pipeline: %w", err)
		}

		if res.Transcript == "" {
			fmt.Println("Nothing transcribed.")
			return nil
		}
		if len(res.Created) == 0 {
			fmt.Println("No events logged.")
			return nil
		}

		color.Green("✓ Logged %d event(s)", len(res.Created))
		faint := color.New(color.Faint)
		for _, e := range res.Created {
			value := ""
			if e.Value != nil {
				value = fmt.Sprintf(" %.1f", *e.Value)
			}
			fmt.Printf("  %s %s: %s%s\n",
				faint.Sprint(e.ID.String()[:8]), e.Tag, e.Name, value)
		}
		return nil
	},
}

// confirmEvents shows the transcript and proposed events, then asks y/N.
func confirmEvents(transcript string, events []*models.Event) (bool, error) {
	faint := color.New(color.Faint)
	fmt.Printf("\nTranscript: %s\n\n", faint.Sprint(transcript))
	fmt.Printf("Proposed events:\n")
	for _, e := range events {
		value := ""
		if e.Value != nil {
			value = fmt.Sprintf(" %.1f", *e.Value)
		}
		category := ""
		if e.Category != nil {
			category = faint.Sprintf(" [%s]", *e.Category)
		}
		notes := ""
		if e.Notes != nil && *e.Notes != "" {
			notes = faint.Sprintf(" (%s)", *e.Notes)
		}
		fmt.Printf("  %-9s %s%s%s%s\n", e.Tag, e.Name, value, category, notes)
	}

	fmt.Print("\nLog these events? [y/N] ")
	response, err := stdin.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("failed to read response: %w", err)
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

func init() {
	voiceCmd.Flags().StringVar(&voiceText, "text", "", "parse this text instead of recording")
	voiceCmd.Flags().StringVar(&voiceLang, "lang", "", "transcription language (BCP-47, e.g. pl-PL)")
	voiceCmd.Flags().IntVar(&voiceDuration, "duration", 0, "recording cap in seconds (default 30)")
	voiceCmd.Flags().BoolVarP(&voiceYes, "yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(voiceCmd)
}
