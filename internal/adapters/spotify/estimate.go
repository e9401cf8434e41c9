package spotify

import (
	"math"
	"strings"

	"github.com/ewilliams-labs/cadenza/internal/core/domain"
)

// Defaults for features the API no longer exposes.
const (
	baseValence         = 0.5
	baseEnergy          = 0.5
	defaultTempo        = 120.0
	defaultDanceability = 0.5
	defaultAcousticness = 0.5
	defaultKey          = 0
	defaultMode         = 1
)

// moodKeywords maps genre keyword families to valence/energy shifts. A
// family fires at most once no matter how many of its keywords appear.
var moodKeywords = []struct {
	keywords []string
	valence  float64
	energy   float64
}{
	{
		keywords: []string{"pop", "dance", "disco", "funk", "happy", "upbeat", "party", "summer", "synthpop"},
		valence:  0.4,
		energy:   0.3,
	},
	{
		keywords: []string{"sad", "acoustic", "ballad", "slow", "blues", "folk", "indie folk", "melancholy", "piano", "heartbreak"},
		valence:  -0.4,
		energy:   -0.3,
	},
	{
		keywords: []string{"metal", "rock", "punk", "grunge", "aggressive", "hardcore", "screamo", "industrial"},
		valence:  -0.3,
		energy:   0.4,
	},
	{
		keywords: []string{"classical", "jazz", "ambient", "chill", "lo-fi", "piano", "meditation", "sleep", "instrumental"},
		valence:  0.2,
		energy:   -0.4,
	},
	{
		keywords: []string{"edm", "techno", "house", "party", "electronic", "dubstep", "drum and bass", "trance", "club"},
		valence:  0.3,
		energy:   0.5,
	},
}

// estimateFeatures derives valence and energy from genre tags by shifting
// a 0.5/0.5 baseline per matching mood family, clamped to [0, 1]. No
// genres means the plain baseline.
func estimateFeatures(genres []string) *domain.AudioFeatures {
	valence := baseValence
	energy := baseEnergy

	if len(genres) > 0 {
		genreText := strings.ToLower(strings.Join(genres, " "))
		for _, family := range moodKeywords {
			for _, keyword := range family.keywords {
				if strings.Contains(genreText, keyword) {
					valence += family.valence
					energy += family.energy
					break
				}
			}
		}
	}

	return &domain.AudioFeatures{
		Valence:      clamp01(valence),
		Energy:       clamp01(energy),
		Tempo:        defaultTempo,
		Danceability: defaultDanceability,
		Acousticness: defaultAcousticness,
		Key:          defaultKey,
		Mode:         defaultMode,
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
