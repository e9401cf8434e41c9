package services

import (
	"math"

	"github.com/ewilliams-labs/cadenza/internal/core/domain"
)

// ComputeStats aggregates a snapshot for the stats endpoint. Tracks without
// known features count toward the totals but not toward the averages or the
// mood distribution. An empty snapshot yields zeroed aggregates with Cached
// false.
func ComputeStats(snap *domain.Snapshot) domain.CatalogStats {
	stats := domain.CatalogStats{
		MoodDistribution: make(map[domain.Label]int, 6),
	}
	for _, l := range domain.Labels() {
		stats.MoodDistribution[l] = 0
	}
	if snap.Empty() {
		return stats
	}

	stats.Cached = true
	stats.TotalSongs = len(snap.Tracks)

	var durationMs float64
	var valenceSum, energySum, tempoSum float64
	var featured int
	for _, t := range snap.Tracks {
		durationMs += float64(t.DurationMs)
		if t.Features == nil {
			continue
		}
		featured++
		valenceSum += t.Features.Valence
		energySum += t.Features.Energy
		tempoSum += t.Features.Tempo
		for _, l := range domain.Labels() {
			if domain.MoodCriteriaFor(l).MatchesTrack(t) {
				stats.MoodDistribution[l]++
			}
		}
	}

	stats.TotalDurationHours = round2(durationMs / (1000 * 60 * 60))
	if featured > 0 {
		stats.AverageValence = valenceSum / float64(featured)
		stats.AverageEnergy = energySum / float64(featured)
		stats.AverageTempo = tempoSum / float64(featured)
	}
	return stats
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
