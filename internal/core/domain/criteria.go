package domain

// Range is an inclusive numeric interval.
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether x lies inside the interval, bounds included.
func (r Range) Contains(x float64) bool {
	return x >= r.Min && x <= r.Max
}

// MoodCriteria is the audio-feature window a label maps to. Windows overlap
// on purpose; one track can satisfy several moods at once.
type MoodCriteria struct {
	Valence Range
	Energy  Range
}

var moodCriteria = map[Label]MoodCriteria{
	Happy:   {Valence: Range{0.6, 1.0}, Energy: Range{0.5, 1.0}},
	Sad:     {Valence: Range{0.0, 0.4}, Energy: Range{0.0, 0.6}},
	Angry:   {Valence: Range{0.0, 0.5}, Energy: Range{0.6, 1.0}},
	Calm:    {Valence: Range{0.4, 1.0}, Energy: Range{0.0, 0.4}},
	Neutral: {Valence: Range{0.3, 0.7}, Energy: Range{0.3, 0.7}},
	Excited: {Valence: Range{0.5, 1.0}, Energy: Range{0.7, 1.0}},
}

// MoodCriteriaFor returns the feature window for a label. Labels outside
// the canonical set fall back to the neutral window.
func MoodCriteriaFor(l Label) MoodCriteria {
	if c, ok := moodCriteria[l]; ok {
		return c
	}
	return moodCriteria[Neutral]
}

// MatchesTrack reports whether the track's features fall inside the window.
// Tracks without known features never match.
func (c MoodCriteria) MatchesTrack(t Track) bool {
	if t.Features == nil {
		return false
	}
	return c.Valence.Contains(t.Features.Valence) && c.Energy.Contains(t.Features.Energy)
}
