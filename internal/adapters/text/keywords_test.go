package text

import (
	"math"
	"testing"

	"github.com/ewilliams-labs/cadenza/internal/core/domain"
)

func near(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9
}

func TestFallbackScore(t *testing.T) {
	tests := []struct {
		name           string
		input          string
		wantTop        domain.Label
		wantConfidence float64
	}{
		{
			name:           "two happy hits",
			input:          "I am so happy, this is wonderful",
			wantTop:        domain.Happy,
			wantConfidence: 2.0 / 3.0,
		},
		{
			name:           "sad idioms",
			input:          "feeling blue and down tonight",
			wantTop:        domain.Sad,
			wantConfidence: 2.0 / 3.0,
		},
		{
			name:           "no hits lands on neutral",
			input:          "nothing in particular",
			wantTop:        domain.Neutral,
			wantConfidence: 1.0,
		},
		{
			name:           "substring matching is deliberate",
			input:          "madam curie",
			wantTop:        domain.Angry, // "mad" inside "madam", ties break in canonical order
			wantConfidence: 0.5,
		},
		{
			name:           "excited counts for happy and excited",
			input:          "excited",
			wantTop:        domain.Happy,
			wantConfidence: 1.0 / 3.0,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := fallbackScore(tt.input)
			if !got.IsNormalized() {
				t.Fatalf("expected unit mass, got %f", got.Sum())
			}

			top, confidence := got.Top()
			if top != tt.wantTop {
				t.Fatalf("top: got %s, want %s", top, tt.wantTop)
			}
			if !near(confidence, tt.wantConfidence) {
				t.Fatalf("confidence: got %f, want %f", confidence, tt.wantConfidence)
			}
		})
	}
}

func TestFallbackScore_NeutralFloor(t *testing.T) {
	// Even a text full of hits keeps one neutral count.
	got := fallbackScore("happy sad angry calm excited")
	if got[domain.Neutral] <= 0 {
		t.Fatalf("expected a neutral floor, got %f", got[domain.Neutral])
	}
}
