package domain

import "time"

// Snapshot is an immutable view of the track catalog. Once published a
// snapshot is never mutated; a refresh builds a new one and swaps the
// pointer, so readers holding an old snapshot keep a consistent view.
type Snapshot struct {
	ID       string
	LoadedAt time.Time
	Tracks   []Track
}

// Empty reports whether the snapshot holds no tracks.
func (s *Snapshot) Empty() bool {
	return s == nil || len(s.Tracks) == 0
}

// Recommendation pairs a matched track with how the match was made.
// Degraded marks picks that fell back to the whole catalog because no track
// satisfied the mood window.
type Recommendation struct {
	Track    Track
	Emotion  Label
	Degraded bool
}
