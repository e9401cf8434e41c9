package face

import "github.com/ewilliams-labs/cadenza/internal/core/domain"

// Raw label names reported by the inference service.
const (
	rawAngry    = "angry"
	rawDisgust  = "disgust"
	rawFear     = "fear"
	rawHappy    = "happy"
	rawSad      = "sad"
	rawSurprise = "surprise"
	rawNeutral  = "neutral"
)

// calmSiphonThreshold is the neutral share above which part of the neutral
// mass is reassigned to calm, which the service has no class for.
const calmSiphonThreshold = 0.4

// mapRawEmotions folds the service's seven labels into the canonical six.
// Raw scores are scaled to unit mass up front so the calm threshold means
// the same thing whether the service reports percentages or fractions.
func mapRawEmotions(raw map[string]float64) domain.ProbabilityVector {
	var total float64
	for _, score := range raw {
		if score > 0 {
			total += score
		}
	}
	if total <= 0 {
		return domain.UniformVector()
	}
	share := func(label string) float64 {
		score := raw[label]
		if score <= 0 {
			return 0
		}
		return score / total
	}

	v := domain.ProbabilityVector{
		domain.Happy:   share(rawHappy),
		domain.Sad:     share(rawSad) + share(rawFear)*0.5,
		domain.Angry:   share(rawAngry) + share(rawDisgust)*0.5,
		domain.Neutral: share(rawNeutral),
		domain.Excited: share(rawSurprise),
	}

	if v[domain.Neutral] > calmSiphonThreshold {
		v[domain.Calm] = v[domain.Neutral] * 0.4
		v[domain.Neutral] *= 0.6
	}

	return v.Normalized()
}
