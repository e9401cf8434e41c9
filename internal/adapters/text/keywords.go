package text

import (
	"strings"

	"github.com/ewilliams-labs/cadenza/internal/core/domain"
)

// keywordGroups back the fallback scorer used when no model is loaded.
// Matching is substring-based on the lowercased text; each keyword counts
// at most once.
var keywordGroups = []struct {
	label domain.Label
	words []string
}{
	{domain.Happy, []string{"happy", "joy", "excited", "love", "great", "wonderful", "amazing", "fantastic"}},
	{domain.Sad, []string{"sad", "depressed", "unhappy", "miserable", "down", "blue", "gloomy"}},
	{domain.Angry, []string{"angry", "mad", "furious", "annoyed", "irritated", "frustrated"}},
	{domain.Calm, []string{"calm", "peaceful", "relaxed", "serene", "tranquil", "chill"}},
	{domain.Excited, []string{"excited", "energetic", "pumped", "hyped", "thrilled"}},
}

// fallbackScore counts keyword hits per label. Neutral always holds one
// count, so text with no hits lands fully on neutral.
func fallbackScore(input string) domain.ProbabilityVector {
	lower := strings.ToLower(input)

	probs := domain.ProbabilityVector{domain.Neutral: 1}
	for _, group := range keywordGroups {
		var hits float64
		for _, word := range group.words {
			if strings.Contains(lower, word) {
				hits++
			}
		}
		probs[group.label] = hits
	}
	return probs.Normalized()
}
