package speech

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	mp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ewilliams-labs/cadenza/internal/core/ports"
)

// maxClipBytes caps the decoded PCM read from one clip. Microphone clips
// are a few seconds long; anything past this is not a voice snippet.
const maxClipBytes = 10 << 20

// decodeClip turns a base64 mp3 payload into mono samples in [-1, 1] plus
// the clip's sample rate. Payload problems come back wrapped in
// ports.ErrInvalidSignal.
func decodeClip(audioB64 string) ([]float64, int, error) {
	payload := strings.TrimSpace(audioB64)
	if i := strings.IndexByte(payload, ','); i >= 0 {
		// Drop a data-URL prefix.
		payload = payload[i+1:]
	}
	if payload == "" {
		return nil, 0, fmt.Errorf("speech adapter: empty audio: %w", ports.ErrInvalidSignal)
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("speech adapter: decode base64: %v: %w", err, ports.ErrInvalidSignal)
	}

	decoder, err := mp3.NewDecoder(bytes.NewReader(raw))
	if err != nil {
		return nil, 0, fmt.Errorf("speech adapter: decode mp3: %v: %w", err, ports.ErrInvalidSignal)
	}

	pcm, err := io.ReadAll(io.LimitReader(decoder, maxClipBytes))
	if err != nil {
		return nil, 0, fmt.Errorf("speech adapter: read samples: %v: %w", err, ports.ErrInvalidSignal)
	}

	// The decoded stream is 16-bit little-endian stereo; fold to mono.
	samples := make([]float64, 0, len(pcm)/4)
	for i := 0; i+3 < len(pcm); i += 4 {
		left := int16(pcm[i]) | int16(pcm[i+1])<<8
		right := int16(pcm[i+2]) | int16(pcm[i+3])<<8
		samples = append(samples, (float64(left)+float64(right))/2/32768.0)
	}
	if len(samples) == 0 {
		return nil, 0, fmt.Errorf("speech adapter: clip contains no samples: %w", ports.ErrInvalidSignal)
	}

	return samples, decoder.SampleRate(), nil
}
