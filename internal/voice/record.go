// ABOUTME: Microphone capture via malgo, written out as 16-bit mono WAV.
// ABOUTME: Records until the duration elapses or the context is cancelled.

package voice

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gen2brain/malgo"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/harperreed/healthmon/internal/models"
)

const (
	captureSampleRate = 16000
	captureBitDepth   = 16
	captureChannels   = 1
)

// MicRecorder captures audio from the default input device.
type MicRecorder struct {
	// Duration caps the recording length. Zero means 30 seconds.
	Duration time.Duration

	// Dir is where the WAV file is written. Empty means the OS temp dir.
	Dir string
}

// Record captures PCM from the microphone and returns the WAV file path.
func (r *MicRecorder) Record(ctx context.Context) (string, error) {
	duration := r.Duration
	if duration <= 0 {
		duration = 30 * time.Second
	}

	malgoCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return "", &models.ExternalServiceError{Service: "audio", Err: fmt.Errorf("initialize audio context: %w", err)}
	}
	defer func() {
		_ = malgoCtx.Uninit()
		malgoCtx.Free()
	}()

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = captureChannels
	deviceConfig.SampleRate = captureSampleRate
	deviceConfig.Alsa.NoMMap = 1

	var mu sync.Mutex
	var pcm []byte
	onReceiveFrames := func(_, pSample []byte, _ uint32) {
		mu.Lock()
		pcm = append(pcm, pSample...)
		mu.Unlock()
	}

	device, err := malgo.InitDevice(malgoCtx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: onReceiveFrames,
	})
	if err != nil {
		return "", &models.ExternalServiceError{Service: "audio", Err: fmt.Errorf("initialize capture device: %w", err)}
	}
	defer device.Uninit()

	if err := device.Start(); err != nil {
		return "", &models.ExternalServiceError{Service: "audio", Err: fmt.Errorf("start capture: %w", err)}
	}

	select {
	case <-time.After(duration):
	case <-ctx.Done():
	}
	if err := device.Stop(); err != nil {
		return "", &models.ExternalServiceError{Service: "audio", Err: fmt.Errorf("stop capture: %w", err)}
	}
	if err := ctx.Err(); err != nil && err != context.Canceled {
		return "", err
	}

	mu.Lock()
	data := pcm
	mu.Unlock()
	if len(data) == 0 {
		return "", &models.ExternalServiceError{Service: "audio", Err: fmt.Errorf("no audio captured")}
	}

	dir := r.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	wavPath := filepath.Join(dir, fmt.Sprintf("healthmon-%d.wav", time.Now().UnixNano()))
	if err := writeWAV(wavPath, data); err != nil {
		return "", err
	}
	return wavPath, nil
}

// writeWAV saves raw 16-bit mono PCM as a WAV file.
func writeWAV(path string, pcm []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav file: %w", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, captureSampleRate, captureBitDepth, captureChannels, 1)
	buf := &audio.IntBuffer{
		Data:           pcmToInts(pcm),
		Format:         &audio.Format{SampleRate: captureSampleRate, NumChannels: captureChannels},
		SourceBitDepth: captureBitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}
	return enc.Close()
}

// pcmToInts reads little-endian 16-bit samples into an int slice.
func pcmToInts(pcm []byte) []int {
	samples := make([]int, 0, len(pcm)/2)
	buf := bytes.NewBuffer(pcm)
	for {
		var sample int16
		if err := binary.Read(buf, binary.LittleEndian, &sample); err != nil {
			break
		}
		samples = append(samples, int(sample))
	}
	return samples
}
