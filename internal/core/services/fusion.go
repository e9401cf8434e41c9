package services

import (
	"github.com/ewilliams-labs/cadenza/internal/core/domain"
)

// FusionEngine combines per-modality probability vectors into one verdict
// using a weighted average. It holds no mutable state and is safe for
// concurrent use.
type FusionEngine struct {
	defaults map[string]float64
}

// NewFusionEngine constructs the engine. A nil or empty weight map falls
// back to the stock face/speech/text weighting.
func NewFusionEngine(defaultWeights map[string]float64) *FusionEngine {
	if len(defaultWeights) == 0 {
		defaultWeights = domain.DefaultModalityWeights()
	}
	defaults := make(map[string]float64, len(defaultWeights))
	for name, w := range defaultWeights {
		defaults[name] = w
	}
	return &FusionEngine{defaults: defaults}
}

// Fuse averages the usable contributions, weighting each by its own weight
// or the engine default, with weights renormalized over the modalities that
// actually contributed. So a single usable modality always carries weight
// 1.0 and reproduces its own distribution. The fused vector sums to one
// even when the inputs do not.
//
// When no contribution is usable, Fuse returns a NoUsableModalityError; it
// never invents a verdict.
func (e *FusionEngine) Fuse(contributions []domain.ModalityContribution) (domain.FusionResult, error) {
	type vote struct {
		name   string
		vector domain.ProbabilityVector
		weight float64
	}

	supplied := make([]string, 0, len(contributions))
	votes := make([]vote, 0, len(contributions))
	for _, c := range contributions {
		supplied = append(supplied, c.Name)
		if !c.Usable() {
			continue
		}
		w := e.defaults[c.Name]
		if c.Weight != nil {
			w = *c.Weight
		}
		if w < 0 {
			continue
		}
		votes = append(votes, vote{name: c.Name, vector: c.Vector, weight: w})
	}

	if len(votes) == 0 {
		return domain.FusionResult{}, domain.NoUsableModalityError{Supplied: supplied}
	}

	var totalWeight float64
	for _, v := range votes {
		totalWeight += v.weight
	}
	if totalWeight <= 0 {
		// Every vote carried weight zero; degrade to an even split.
		for i := range votes {
			votes[i].weight = 1
		}
		totalWeight = float64(len(votes))
	}

	used := make([]string, 0, len(votes))
	weights := make(map[string]float64, len(votes))
	fused := make(domain.ProbabilityVector, 6)
	for _, v := range votes {
		w := v.weight / totalWeight
		used = append(used, v.name)
		weights[v.name] = w
		for _, l := range domain.Labels() {
			fused[l] += v.vector[l] * w
		}
	}

	// Final normalization absorbs rounding error and unnormalized inputs.
	fused = fused.Normalized()
	top, confidence := fused.Top()

	return domain.FusionResult{
		Emotion:        top,
		Confidence:     confidence,
		Probabilities:  fused,
		ModalitiesUsed: used,
		Weights:        weights,
	}, nil
}
