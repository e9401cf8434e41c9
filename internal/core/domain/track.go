package domain

// AudioFeatures carries the acoustic profile of a track. Valence and energy
// drive mood matching; the rest feed catalog statistics.
type AudioFeatures struct {
	Valence      float64
	Energy       float64
	Tempo        float64
	Danceability float64
	Acousticness float64
	Key          int
	Mode         int
}

// Track represents a musical track in the domain layer.
type Track struct {
	ID         string
	Title      string
	Artist     string // all credited artists, comma separated
	Album      string // optional
	ImageURL   string
	PreviewURL string
	URL        string // Spotify page for the track
	DurationMs int
	Features   *AudioFeatures // nil when valence or energy is unknown
}
