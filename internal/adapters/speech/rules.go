package speech

import "github.com/ewilliams-labs/cadenza/internal/core/domain"

// scoreFeatures maps prosodic features to emotion scores. Loud fast
// speech reads as excitement or anger, quiet slow speech as sadness or
// calm; inconclusive clips get a neutral floor before normalization.
func scoreFeatures(f clipFeatures) domain.ProbabilityVector {
	probs := domain.ProbabilityVector{}

	switch {
	case f.Energy > 0.05 && f.Tempo > 120:
		probs[domain.Excited] = 0.4
		probs[domain.Angry] = 0.2
		probs[domain.Happy] = 0.2
	case f.Energy < 0.03 && f.Tempo < 100:
		probs[domain.Sad] = 0.3
		probs[domain.Calm] = 0.3
		probs[domain.Neutral] = 0.2
	case f.Energy > 0.04 && f.Tempo >= 100 && f.Tempo <= 130:
		probs[domain.Happy] = 0.4
		probs[domain.Excited] = 0.2
		probs[domain.Neutral] = 0.2
	case f.Energy < 0.04 && f.Tempo >= 90 && f.Tempo <= 120:
		probs[domain.Calm] = 0.4
		probs[domain.Neutral] = 0.3
		probs[domain.Sad] = 0.1
	}

	// A high crossing rate reads as agitation.
	if f.ZCR > 0.1 {
		probs[domain.Angry] += 0.1
		probs[domain.Excited] += 0.1
	}

	if probs.Sum() < 0.5 {
		probs[domain.Neutral] = 0.5
	}

	return probs.Normalized()
}
