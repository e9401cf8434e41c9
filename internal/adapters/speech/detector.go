// Package speech scores emotions from short voice clips. There is no
// learned model behind it: the clip is decoded to PCM and a handful of
// prosodic features drive a heuristic rule table.
package speech

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ewilliams-labs/cadenza/internal/core/domain"
	"github.com/ewilliams-labs/cadenza/internal/core/ports"
)

type Detector struct {
	logger zerolog.Logger
}

// compile-time interface assertion
var _ ports.SpeechDetector = (*Detector)(nil)

func NewDetector(logger zerolog.Logger) *Detector {
	return &Detector{logger: logger}
}

// Analyze decodes a base64 mp3 clip and scores it. The clip's own sample
// rate wins over the caller's hint; the hint only fills in when the
// decoder cannot say.
func (d *Detector) Analyze(ctx context.Context, audioB64 string, sampleRate int) (domain.ModalityResult, error) {
	samples, rate, err := decodeClip(audioB64)
	if err != nil {
		return domain.ModalityResult{}, err
	}
	if rate <= 0 {
		rate = sampleRate
	}
	if rate <= 0 {
		rate = 16000
	}

	features := extractFeatures(samples, rate)
	d.logger.Debug().
		Float64("energy", features.Energy).
		Float64("zcr", features.ZCR).
		Float64("tempo", features.Tempo).
		Int("samples", len(samples)).
		Msg("scored voice clip")

	probs := scoreFeatures(features)
	top, confidence := probs.Top()
	return domain.ModalityResult{
		Emotion:       top,
		Confidence:    confidence,
		Probabilities: probs,
	}, nil
}
