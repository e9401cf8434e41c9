package speech

import (
	"testing"

	"github.com/ewilliams-labs/cadenza/internal/core/domain"
)

func TestScoreFeatures(t *testing.T) {
	tests := []struct {
		name           string
		features       clipFeatures
		wantTop        domain.Label
		wantConfidence float64
	}{
		{
			name:           "loud fast clip reads excited",
			features:       clipFeatures{Energy: 0.06, Tempo: 130, ZCR: 0.05},
			wantTop:        domain.Excited,
			wantConfidence: 0.5,
		},
		{
			name:           "quiet slow clip reads sad",
			features:       clipFeatures{Energy: 0.02, Tempo: 80, ZCR: 0.05},
			wantTop:        domain.Sad,
			wantConfidence: 0.375,
		},
		{
			name:           "strong moderate tempo reads happy",
			features:       clipFeatures{Energy: 0.045, Tempo: 115, ZCR: 0.05},
			wantTop:        domain.Happy,
			wantConfidence: 0.5,
		},
		{
			name:           "soft moderate tempo reads calm",
			features:       clipFeatures{Energy: 0.035, Tempo: 100, ZCR: 0.05},
			wantTop:        domain.Calm,
			wantConfidence: 0.5,
		},
		{
			name:           "agitated loud fast clip",
			features:       clipFeatures{Energy: 0.06, Tempo: 130, ZCR: 0.2},
			wantTop:        domain.Excited,
			wantConfidence: 0.5,
		},
		{
			name:           "inconclusive clip floors to neutral",
			features:       clipFeatures{Energy: 0.035, Tempo: 150, ZCR: 0.05},
			wantTop:        domain.Neutral,
			wantConfidence: 1.0,
		},
		{
			name:           "agitation alone still floors to neutral",
			features:       clipFeatures{Energy: 0.035, Tempo: 150, ZCR: 0.2},
			wantTop:        domain.Neutral,
			wantConfidence: 5.0 / 7.0,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := scoreFeatures(tt.features)
			if !got.IsNormalized() {
				t.Fatalf("expected unit mass, got %f", got.Sum())
			}

			top, confidence := got.Top()
			if top != tt.wantTop {
				t.Fatalf("top: got %s, want %s", top, tt.wantTop)
			}
			if !near(confidence, tt.wantConfidence, 1e-9) {
				t.Fatalf("confidence: got %f, want %f", confidence, tt.wantConfidence)
			}
		})
	}
}

func TestScoreFeatures_AgitationBump(t *testing.T) {
	calmSide := scoreFeatures(clipFeatures{Energy: 0.06, Tempo: 130, ZCR: 0.05})
	agitated := scoreFeatures(clipFeatures{Energy: 0.06, Tempo: 130, ZCR: 0.2})

	if agitated[domain.Angry] <= calmSide[domain.Angry] {
		t.Fatalf("expected the crossing-rate bump to raise anger: %f vs %f",
			agitated[domain.Angry], calmSide[domain.Angry])
	}
}

func TestScoreFeatures_TieBreaksInCanonicalOrder(t *testing.T) {
	// Quiet slow clips score sad and calm equally; sad wins the tie.
	got := scoreFeatures(clipFeatures{Energy: 0.02, Tempo: 80, ZCR: 0.05})
	if !near(got[domain.Sad], got[domain.Calm], 1e-9) {
		t.Fatalf("expected a sad/calm tie, got %f vs %f", got[domain.Sad], got[domain.Calm])
	}
	if top, _ := got.Top(); top != domain.Sad {
		t.Fatalf("expected sad to win the tie, got %s", top)
	}
}
