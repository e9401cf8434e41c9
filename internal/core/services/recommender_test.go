package services

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ewilliams-labs/cadenza/internal/core/domain"
)

func testSnapshot(tracks ...domain.Track) *domain.Snapshot {
	return &domain.Snapshot{ID: "snap-test", Tracks: tracks}
}

func featured(id string, valence, energy float64) domain.Track {
	return domain.Track{
		ID:       id,
		Title:    "title-" + id,
		Artist:   "artist-" + id,
		Features: &domain.AudioFeatures{Valence: valence, Energy: energy},
	}
}

func TestRecommender_Recommend_MatchesMoodWindow(t *testing.T) {
	rec := NewRecommender(zerolog.Nop(), 42)
	snap := testSnapshot(
		featured("upbeat", 0.8, 0.8),
		featured("gloomy", 0.1, 0.1),
		featured("middling", 0.5, 0.5),
	)

	tests := []struct {
		name    string
		emotion domain.Label
		wantID  string
	}{
		{name: "happy picks the high valence track", emotion: domain.Happy, wantID: "upbeat"},
		{name: "sad picks the low valence track", emotion: domain.Sad, wantID: "gloomy"},
		{name: "excited picks the high energy track", emotion: domain.Excited, wantID: "upbeat"},
		{name: "neutral picks the midrange track", emotion: domain.Neutral, wantID: "middling"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := rec.Recommend(tc.emotion, "", snap)
			if err != nil {
				t.Fatalf("expected a recommendation, got: %v", err)
			}
			if got.Track.ID != tc.wantID {
				t.Fatalf("expected track %s, got %s", tc.wantID, got.Track.ID)
			}
			if got.Degraded {
				t.Fatal("expected an exact mood match, not a degraded pick")
			}
			if got.Emotion != tc.emotion {
				t.Fatalf("expected emotion %s on the recommendation, got %s", tc.emotion, got.Emotion)
			}
		})
	}
}

func TestRecommender_Recommend_UnknownEmotionFallsBackToNeutral(t *testing.T) {
	rec := NewRecommender(zerolog.Nop(), 42)
	snap := testSnapshot(
		featured("upbeat", 0.9, 0.9),
		featured("middling", 0.5, 0.5),
	)

	got, err := rec.Recommend(domain.Label("bored"), "", snap)
	if err != nil {
		t.Fatalf("expected a recommendation, got: %v", err)
	}
	if got.Track.ID != "middling" {
		t.Fatalf("expected the neutral window to apply, got track %s", got.Track.ID)
	}
}

func TestRecommender_Recommend_ExcludesCurrentTrack(t *testing.T) {
	rec := NewRecommender(zerolog.Nop(), 7)
	snap := testSnapshot(
		featured("first", 0.8, 0.8),
		featured("second", 0.85, 0.75),
	)

	// Both tracks sit in the happy window. With one excluded the other
	// must come back every time.
	for i := 0; i < 100; i++ {
		got, err := rec.Recommend(domain.Happy, "first", snap)
		if err != nil {
			t.Fatalf("expected a recommendation, got: %v", err)
		}
		if got.Track.ID == "first" {
			t.Fatalf("excluded track returned on run %d", i)
		}
	}
}

func TestRecommender_Recommend_DegradedFallback(t *testing.T) {
	rec := NewRecommender(zerolog.Nop(), 7)
	// No track matches the angry window (valence <= 0.5, energy >= 0.6).
	snap := testSnapshot(
		featured("upbeat", 0.9, 0.9),
		featured("mellow", 0.7, 0.2),
	)

	got, err := rec.Recommend(domain.Angry, "", snap)
	if err != nil {
		t.Fatalf("expected a degraded recommendation, got: %v", err)
	}
	if !got.Degraded {
		t.Fatal("expected the degraded flag to be set")
	}
}

func TestRecommender_Recommend_DegradedFallbackHoldsExclusion(t *testing.T) {
	rec := NewRecommender(zerolog.Nop(), 7)
	snap := testSnapshot(
		featured("upbeat", 0.9, 0.9),
		featured("mellow", 0.7, 0.2),
	)

	for i := 0; i < 100; i++ {
		got, err := rec.Recommend(domain.Angry, "upbeat", snap)
		if err != nil {
			t.Fatalf("expected a degraded recommendation, got: %v", err)
		}
		if got.Track.ID != "mellow" {
			t.Fatalf("expected the non-excluded track, got %s on run %d", got.Track.ID, i)
		}
		if !got.Degraded {
			t.Fatal("expected the degraded flag to be set")
		}
	}
}

func TestRecommender_Recommend_TracksWithoutFeatures(t *testing.T) {
	rec := NewRecommender(zerolog.Nop(), 7)
	bare := domain.Track{ID: "bare", Title: "no features"}
	snap := testSnapshot(bare, featured("upbeat", 0.9, 0.9))

	// Featureless tracks never satisfy a mood window.
	for i := 0; i < 50; i++ {
		got, err := rec.Recommend(domain.Happy, "", snap)
		if err != nil {
			t.Fatalf("expected a recommendation, got: %v", err)
		}
		if got.Track.ID != "upbeat" {
			t.Fatalf("expected the featured track, got %s", got.Track.ID)
		}
	}

	// They stay reachable through the degraded path.
	got, err := rec.Recommend(domain.Angry, "upbeat", snap)
	if err != nil {
		t.Fatalf("expected a degraded recommendation, got: %v", err)
	}
	if got.Track.ID != "bare" {
		t.Fatalf("expected the featureless track via fallback, got %s", got.Track.ID)
	}
}

func TestRecommender_Recommend_EmptyCatalog(t *testing.T) {
	rec := NewRecommender(zerolog.Nop(), 7)

	tests := []struct {
		name      string
		snap      *domain.Snapshot
		excludeID string
	}{
		{name: "nil snapshot", snap: nil},
		{name: "no tracks", snap: testSnapshot()},
		{name: "only track excluded", snap: testSnapshot(featured("solo", 0.8, 0.8)), excludeID: "solo"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := rec.Recommend(domain.Happy, tc.excludeID, tc.snap)
			if err == nil {
				t.Fatal("expected an error, got nil")
			}
			if !errors.Is(err, domain.ErrEmptyCatalog) {
				t.Fatalf("expected ErrEmptyCatalog, got: %v", err)
			}
		})
	}
}

func TestRecommender_Recommend_SeededDeterminism(t *testing.T) {
	snap := testSnapshot(
		featured("a", 0.8, 0.8),
		featured("b", 0.85, 0.75),
		featured("c", 0.9, 0.6),
	)

	first := NewRecommender(zerolog.Nop(), 1234)
	second := NewRecommender(zerolog.Nop(), 1234)
	for i := 0; i < 20; i++ {
		lhs, err := first.Recommend(domain.Happy, "", snap)
		if err != nil {
			t.Fatalf("expected a recommendation, got: %v", err)
		}
		rhs, err := second.Recommend(domain.Happy, "", snap)
		if err != nil {
			t.Fatalf("expected a recommendation, got: %v", err)
		}
		if lhs.Track.ID != rhs.Track.ID {
			t.Fatalf("same seed diverged on pick %d: %s vs %s", i, lhs.Track.ID, rhs.Track.ID)
		}
	}
}
