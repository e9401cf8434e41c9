package domain

import "math"

// SumTolerance is the allowed deviation from 1.0 before a vector counts as
// unnormalized.
const SumTolerance = 1e-6

// ProbabilityVector maps canonical labels to non-negative scores. Labels
// absent from the map score zero; keys outside the canonical set carry no
// mass and are ignored.
type ProbabilityVector map[Label]float64

// UniformVector returns the maximum-entropy distribution: 1/6 per label.
func UniformVector() ProbabilityVector {
	v := make(ProbabilityVector, len(canonicalOrder))
	for _, l := range canonicalOrder {
		v[l] = 1.0 / float64(len(canonicalOrder))
	}
	return v
}

// Sum returns the total mass over the canonical labels.
func (v ProbabilityVector) Sum() float64 {
	var total float64
	for _, l := range canonicalOrder {
		total += v[l]
	}
	return total
}

// IsNormalized reports whether the mass sums to 1.0 within SumTolerance.
func (v ProbabilityVector) IsNormalized() bool {
	return math.Abs(v.Sum()-1.0) <= SumTolerance
}

// Normalized returns a copy scaled to unit mass over the canonical labels.
// A vector without positive mass normalizes to the uniform distribution.
func (v ProbabilityVector) Normalized() ProbabilityVector {
	total := v.Sum()
	if total <= 0 {
		return UniformVector()
	}
	out := make(ProbabilityVector, len(canonicalOrder))
	for _, l := range canonicalOrder {
		out[l] = v[l] / total
	}
	return out
}

// Top returns the highest-scoring label and its score. Ties resolve to
// whichever label comes first in canonical order.
func (v ProbabilityVector) Top() (Label, float64) {
	best := canonicalOrder[0]
	bestScore := v[best]
	for _, l := range canonicalOrder[1:] {
		if v[l] > bestScore {
			best = l
			bestScore = v[l]
		}
	}
	return best, bestScore
}
