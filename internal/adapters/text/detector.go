// Package text scores emotions from free text. With a model configured it
// runs an ONNX emotion classifier; without one, or when the model fails,
// it falls back to keyword scoring.
package text

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ewilliams-labs/cadenza/internal/core/domain"
	"github.com/ewilliams-labs/cadenza/internal/core/ports"
)

// maxInputRunes caps what is handed to the model; longer submissions are
// truncated, not rejected.
const maxInputRunes = 512

// modelLabelMapping folds model output labels into the canonical set.
// Labels outside the table count as neutral.
var modelLabelMapping = map[string]domain.Label{
	"joy":       domain.Happy,
	"happiness": domain.Happy,
	"love":      domain.Happy,
	"sadness":   domain.Sad,
	"sad":       domain.Sad,
	"anger":     domain.Angry,
	"angry":     domain.Angry,
	"disgust":   domain.Angry,
	"fear":      domain.Calm,
	"surprise":  domain.Excited,
	"neutral":   domain.Neutral,
}

type Detector struct {
	classifier *Classifier
	logger     zerolog.Logger
}

// compile-time interface assertion
var _ ports.TextDetector = (*Detector)(nil)

// NewDetector wires the detector. A nil classifier is valid and routes
// every call through the keyword fallback.
func NewDetector(classifier *Classifier, logger zerolog.Logger) *Detector {
	return &Detector{classifier: classifier, logger: logger}
}

func (d *Detector) Analyze(ctx context.Context, input string) (domain.ModalityResult, error) {
	if strings.TrimSpace(input) == "" {
		return domain.ModalityResult{}, fmt.Errorf("text adapter: empty text: %w", ports.ErrInvalidSignal)
	}

	probs := d.modelScores(input)
	if probs == nil {
		probs = fallbackScore(input)
	}

	top, confidence := probs.Top()
	return domain.ModalityResult{
		Emotion:       top,
		Confidence:    confidence,
		Probabilities: probs,
	}, nil
}

// modelScores runs the classifier when one is loaded. A nil return routes
// the caller to the keyword fallback.
func (d *Detector) modelScores(input string) domain.ProbabilityVector {
	if d.classifier == nil {
		return nil
	}

	truncated := input
	if runes := []rune(input); len(runes) > maxInputRunes {
		truncated = string(runes[:maxInputRunes])
	}

	scores, err := d.classifier.Classify(truncated)
	if err != nil {
		d.logger.Warn().Err(err).Msg("text model failed, using keyword fallback")
		return nil
	}
	return mapModelScores(scores)
}

// mapModelScores folds per-label model scores into the canonical vector.
func mapModelScores(scores map[string]float64) domain.ProbabilityVector {
	probs := domain.ProbabilityVector{}
	for label, score := range scores {
		canonical, ok := modelLabelMapping[strings.ToLower(label)]
		if !ok {
			canonical = domain.Neutral
		}
		probs[canonical] += score
	}
	return probs.Normalized()
}
