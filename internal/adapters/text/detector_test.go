package text

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ewilliams-labs/cadenza/internal/core/domain"
	"github.com/ewilliams-labs/cadenza/internal/core/ports"
)

func TestDetector_Analyze_FallbackWithoutModel(t *testing.T) {
	detector := NewDetector(nil, zerolog.Nop())

	result, err := detector.Analyze(context.Background(), "I feel amazing and wonderful")
	if err != nil {
		t.Fatalf("expected a fallback result, got error: %v", err)
	}
	if result.Emotion != domain.Happy {
		t.Fatalf("emotion: got %s, want %s", result.Emotion, domain.Happy)
	}
	if !result.Probabilities.IsNormalized() {
		t.Fatalf("expected unit probability mass, got %f", result.Probabilities.Sum())
	}
}

func TestDetector_Analyze_EmptyInput(t *testing.T) {
	detector := NewDetector(nil, zerolog.Nop())

	for _, input := range []string{"", "   \n\t"} {
		if _, err := detector.Analyze(context.Background(), input); !errors.Is(err, ports.ErrInvalidSignal) {
			t.Fatalf("input %q: expected an invalid-signal error, got %v", input, err)
		}
	}
}

func TestMapModelScores(t *testing.T) {
	tests := []struct {
		name   string
		scores map[string]float64
		want   domain.ProbabilityVector
	}{
		{
			name:   "happy family folds together",
			scores: map[string]float64{"joy": 0.5, "love": 0.2, "sadness": 0.2, "fear": 0.1},
			want: domain.ProbabilityVector{
				domain.Happy: 0.7,
				domain.Sad:   0.2,
				domain.Calm:  0.1,
			},
		},
		{
			name:   "disgust counts as anger",
			scores: map[string]float64{"anger": 0.3, "disgust": 0.3, "neutral": 0.4},
			want: domain.ProbabilityVector{
				domain.Angry:   0.6,
				domain.Neutral: 0.4,
			},
		},
		{
			name:   "unknown labels count as neutral",
			scores: map[string]float64{"contempt": 1.0},
			want: domain.ProbabilityVector{
				domain.Neutral: 1.0,
			},
		},
		{
			name:   "mixed case labels",
			scores: map[string]float64{"Joy": 0.6, "SADNESS": 0.4},
			want: domain.ProbabilityVector{
				domain.Happy: 0.6,
				domain.Sad:   0.4,
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := mapModelScores(tt.scores)
			if !got.IsNormalized() {
				t.Fatalf("expected unit mass, got %f", got.Sum())
			}
			for _, label := range domain.Labels() {
				if !near(got[label], tt.want[label]) {
					t.Fatalf("%s: got %f, want %f", label, got[label], tt.want[label])
				}
			}
		})
	}
}

func TestMapModelScores_NoMass(t *testing.T) {
	got := mapModelScores(map[string]float64{})
	if !got.IsNormalized() {
		t.Fatalf("expected the uniform fallback, got sum %f", got.Sum())
	}
	for _, label := range domain.Labels() {
		if !near(got[label], 1.0/6.0) {
			t.Fatalf("%s: got %f, want 1/6", label, got[label])
		}
	}
}
