package domain

// Label identifies one of the canonical emotion classes.
type Label string

const (
	Happy   Label = "happy"
	Sad     Label = "sad"
	Angry   Label = "angry"
	Calm    Label = "calm"
	Neutral Label = "neutral"
	Excited Label = "excited"
)

// canonicalOrder fixes the label order used for iteration and tie-breaking.
// Every loop over labels in this module walks this slice so results stay
// deterministic.
var canonicalOrder = []Label{Happy, Sad, Angry, Calm, Neutral, Excited}

// Labels returns the canonical emotion labels in their fixed order.
func Labels() []Label {
	out := make([]Label, len(canonicalOrder))
	copy(out, canonicalOrder)
	return out
}

// IsCanonical reports whether l is one of the six canonical labels.
func (l Label) IsCanonical() bool {
	for _, c := range canonicalOrder {
		if l == c {
			return true
		}
	}
	return false
}
