package services

import (
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ewilliams-labs/cadenza/internal/core/domain"
)

// Recommender picks a track whose audio features suit an emotion label.
// It is safe for concurrent use.
type Recommender struct {
	logger zerolog.Logger

	// rng is protected by rngMu for concurrent access.
	rng   *rand.Rand
	rngMu sync.Mutex
}

// NewRecommender constructs a Recommender. Seed 0 selects a time-based
// seed; tests pass a fixed seed for reproducible picks.
func NewRecommender(logger zerolog.Logger, seed int64) *Recommender {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	// #nosec G404 -- shuffle source for track picks, not security-sensitive
	return &Recommender{
		logger: logger,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Recommend returns a uniformly random track from the snapshot whose
// valence and energy sit inside the emotion's mood window. The excluded
// track is never returned while any alternative exists. When no track fits
// the window the pick degrades to the whole catalog minus the excluded
// track, flagged via Recommendation.Degraded. An empty or fully excluded
// snapshot yields ErrEmptyCatalog.
func (r *Recommender) Recommend(emotion domain.Label, excludeID string, snap *domain.Snapshot) (domain.Recommendation, error) {
	if snap.Empty() {
		return domain.Recommendation{}, domain.ErrEmptyCatalog
	}

	criteria := domain.MoodCriteriaFor(emotion)

	candidates := make([]domain.Track, 0, len(snap.Tracks))
	for _, t := range snap.Tracks {
		if excludeID != "" && t.ID == excludeID {
			continue
		}
		if criteria.MatchesTrack(t) {
			candidates = append(candidates, t)
		}
	}

	degraded := false
	if len(candidates) == 0 {
		degraded = true
		for _, t := range snap.Tracks {
			if excludeID != "" && t.ID == excludeID {
				continue
			}
			candidates = append(candidates, t)
		}
	}

	if len(candidates) == 0 {
		return domain.Recommendation{}, domain.ErrEmptyCatalog
	}

	if degraded {
		r.logger.Warn().
			Str("emotion", string(emotion)).
			Int("catalog_size", len(snap.Tracks)).
			Msg("no track matched the mood window, falling back to the whole catalog")
	}

	pick := candidates[r.intn(len(candidates))]
	return domain.Recommendation{Track: pick, Emotion: emotion, Degraded: degraded}, nil
}

func (r *Recommender) intn(n int) int {
	r.rngMu.Lock()
	defer r.rngMu.Unlock()
	return r.rng.Intn(n)
}
