package domain

// Modality names understood by the fusion engine.
const (
	ModalityFace   = "face"
	ModalitySpeech = "speech"
	ModalityText   = "text"
)

// DefaultModalityWeights returns the stock weighting applied when a
// contribution does not carry its own weight.
func DefaultModalityWeights() map[string]float64 {
	return map[string]float64{
		ModalityFace:   0.4,
		ModalitySpeech: 0.3,
		ModalityText:   0.3,
	}
}

// ModalityContribution is one modality's vote going into fusion: a
// probability vector plus an optional weight override. A nil Weight means
// "use the engine default for this modality".
type ModalityContribution struct {
	Name   string
	Vector ProbabilityVector
	Weight *float64
}

// Usable reports whether the contribution can take part in fusion: the
// vector exists, carries no negative score, and has positive mass on the
// canonical labels.
func (m ModalityContribution) Usable() bool {
	if len(m.Vector) == 0 {
		return false
	}
	for _, p := range m.Vector {
		if p < 0 {
			return false
		}
	}
	return m.Vector.Sum() > 0
}

// ModalityResult is a single detector's verdict before fusion.
type ModalityResult struct {
	Emotion       Label             `json:"emotion"`
	Confidence    float64           `json:"confidence"`
	Probabilities ProbabilityVector `json:"probabilities"`
}

// NeutralResult is the low-confidence verdict a detector reports when it
// saw no signal, such as a frame with no face in it.
func NeutralResult() ModalityResult {
	return ModalityResult{
		Emotion:       Neutral,
		Confidence:    0.5,
		Probabilities: UniformVector(),
	}
}

// FusionResult is the combined verdict across modalities. ModalitiesUsed
// lists, in input order, the modalities that actually contributed; Weights
// holds their renormalized weights.
type FusionResult struct {
	Emotion        Label              `json:"emotion_fused"`
	Confidence     float64            `json:"confidence"`
	Probabilities  ProbabilityVector  `json:"probabilities"`
	ModalitiesUsed []string           `json:"modalities_used"`
	Weights        map[string]float64 `json:"weights"`
}

// NeutralFallback is the caller-side stand-in used when fusion reports that
// no modality was usable.
func NeutralFallback() FusionResult {
	return FusionResult{
		Emotion:        Neutral,
		Confidence:     0.5,
		Probabilities:  UniformVector(),
		ModalitiesUsed: []string{},
		Weights:        map[string]float64{},
	}
}
