package services

import (
	"testing"

	"github.com/ewilliams-labs/cadenza/internal/core/domain"
)

func TestComputeStats_EmptySnapshot(t *testing.T) {
	tests := []struct {
		name string
		snap *domain.Snapshot
	}{
		{name: "nil snapshot", snap: nil},
		{name: "no tracks", snap: testSnapshot()},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			stats := ComputeStats(tc.snap)
			if stats.Cached {
				t.Fatal("expected cached=false for an empty snapshot")
			}
			if stats.TotalSongs != 0 || stats.TotalDurationHours != 0 {
				t.Fatalf("expected zeroed totals, got %+v", stats)
			}
			if len(stats.MoodDistribution) != len(domain.Labels()) {
				t.Fatalf("expected a bucket per label, got %v", stats.MoodDistribution)
			}
			for label, count := range stats.MoodDistribution {
				if count != 0 {
					t.Fatalf("expected zero count for %s, got %d", label, count)
				}
			}
		})
	}
}

func TestComputeStats_Aggregates(t *testing.T) {
	upbeat := featured("upbeat", 0.8, 0.8)
	upbeat.Features.Tempo = 120
	upbeat.DurationMs = 200_000

	gloomy := featured("gloomy", 0.1, 0.1)
	gloomy.Features.Tempo = 80
	gloomy.DurationMs = 100_000

	bare := domain.Track{ID: "bare", DurationMs: 60_000}

	stats := ComputeStats(testSnapshot(upbeat, gloomy, bare))

	if !stats.Cached {
		t.Fatal("expected cached=true for a populated snapshot")
	}
	if stats.TotalSongs != 3 {
		t.Fatalf("expected 3 songs, got %d", stats.TotalSongs)
	}
	// 360000ms is 0.1h; the featureless track still counts toward duration.
	if !floatNear(stats.TotalDurationHours, 0.1, 1e-9) {
		t.Fatalf("expected 0.1 hours, got %f", stats.TotalDurationHours)
	}
	// Averages run over feature-complete tracks only.
	if !floatNear(stats.AverageValence, 0.45, 1e-9) {
		t.Fatalf("expected average valence 0.45, got %f", stats.AverageValence)
	}
	if !floatNear(stats.AverageEnergy, 0.45, 1e-9) {
		t.Fatalf("expected average energy 0.45, got %f", stats.AverageEnergy)
	}
	if !floatNear(stats.AverageTempo, 100, 1e-9) {
		t.Fatalf("expected average tempo 100, got %f", stats.AverageTempo)
	}

	want := map[domain.Label]int{
		domain.Happy:   1,
		domain.Sad:     1,
		domain.Angry:   0,
		domain.Calm:    0,
		domain.Neutral: 0,
		domain.Excited: 1,
	}
	for label, count := range want {
		if got := stats.MoodDistribution[label]; got != count {
			t.Fatalf("expected %d tracks in %s, got %d", count, label, got)
		}
	}
}

func TestComputeStats_OverlappingMoodWindows(t *testing.T) {
	// Valence 0.65 / energy 0.65 sits inside both the happy and the
	// neutral windows, so one track lands in two buckets.
	stats := ComputeStats(testSnapshot(featured("both", 0.65, 0.65)))

	if stats.MoodDistribution[domain.Happy] != 1 {
		t.Fatalf("expected the track in the happy bucket, got %v", stats.MoodDistribution)
	}
	if stats.MoodDistribution[domain.Neutral] != 1 {
		t.Fatalf("expected the track in the neutral bucket too, got %v", stats.MoodDistribution)
	}
}

func TestComputeStats_DurationRounding(t *testing.T) {
	track := featured("long", 0.5, 0.5)
	track.DurationMs = 3_456_789 // 0.96022h

	stats := ComputeStats(testSnapshot(track))
	if !floatNear(stats.TotalDurationHours, 0.96, 1e-9) {
		t.Fatalf("expected duration rounded to 0.96, got %f", stats.TotalDurationHours)
	}
}

func TestComputeStats_AveragesKeepPrecision(t *testing.T) {
	a := featured("a", 0.123456, 0.2)
	b := featured("b", 0.654321, 0.4)

	stats := ComputeStats(testSnapshot(a, b))
	if !floatNear(stats.AverageValence, 0.3888885, 1e-9) {
		t.Fatalf("expected the unrounded mean 0.3888885, got %f", stats.AverageValence)
	}
}
