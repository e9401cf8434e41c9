package domain

// CatalogStats aggregates the current snapshot for the stats endpoint.
// MoodDistribution buckets overlap, so the counts may exceed TotalSongs.
// Cached is false when no catalog has been loaded yet.
type CatalogStats struct {
	TotalSongs         int           `json:"total_songs"`
	TotalDurationHours float64       `json:"total_duration_hours"`
	AverageValence     float64       `json:"average_valence"`
	AverageEnergy      float64       `json:"average_energy"`
	AverageTempo       float64       `json:"average_tempo"`
	MoodDistribution   map[Label]int `json:"mood_distribution"`
	Cached             bool          `json:"cached"`
}
