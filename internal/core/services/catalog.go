package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ewilliams-labs/cadenza/internal/core/domain"
	"github.com/ewilliams-labs/cadenza/internal/core/ports"
	"github.com/ewilliams-labs/cadenza/internal/metrics"
)

// ErrNoCatalogSource indicates a refresh was requested without an upstream
// playlist provider configured.
var ErrNoCatalogSource = errors.New("no catalog source configured")

// Catalog owns the current track snapshot. Reads are lock-free pointer
// loads; refreshes build a new snapshot and swap it in atomically, so
// in-flight readers keep the version they started with.
type Catalog struct {
	source  ports.CatalogSource
	store   ports.CatalogStore
	logger  zerolog.Logger
	current atomic.Pointer[domain.Snapshot]
}

// NewCatalog constructs a Catalog starting from an empty snapshot. The
// source may be nil when no upstream provider is configured; Refresh then
// fails while cached data keeps serving.
func NewCatalog(source ports.CatalogSource, store ports.CatalogStore, logger zerolog.Logger) *Catalog {
	c := &Catalog{source: source, store: store, logger: logger}
	c.current.Store(&domain.Snapshot{})
	return c
}

// Snapshot returns the current catalog view. Never nil.
func (c *Catalog) Snapshot() *domain.Snapshot {
	return c.current.Load()
}

// LoadCached hydrates the snapshot from the local store. An empty store is
// not an error; the snapshot just stays empty.
func (c *Catalog) LoadCached(ctx context.Context) error {
	tracks, err := c.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("service: load cached catalog: %w", err)
	}
	if len(tracks) == 0 {
		c.logger.Info().Msg("no cached catalog found")
		return nil
	}
	snap := c.publish(tracks)
	c.logger.Info().
		Int("tracks", len(tracks)).
		Str("snapshot_id", snap.ID).
		Msg("catalog loaded from cache")
	return nil
}

// Refresh pulls the playlist from the upstream source, persists it, and
// publishes a fresh snapshot. The previous snapshot stays valid for readers
// that already hold it.
func (c *Catalog) Refresh(ctx context.Context) (*domain.Snapshot, error) {
	if c.source == nil {
		metrics.CatalogRefreshesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("service: refresh catalog: %w", ErrNoCatalogSource)
	}

	tracks, err := c.source.FetchPlaylist(ctx)
	if err != nil {
		metrics.CatalogRefreshesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("service: fetch playlist: %w", err)
	}

	if err := c.store.ReplaceAll(ctx, tracks); err != nil {
		metrics.CatalogRefreshesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("service: persist catalog: %w", err)
	}

	snap := c.publish(tracks)
	metrics.CatalogRefreshesTotal.WithLabelValues("success").Inc()
	c.logger.Info().
		Int("tracks", len(tracks)).
		Str("snapshot_id", snap.ID).
		Msg("catalog refreshed")
	return snap, nil
}

// Republish rebuilds the snapshot from the store. Background jobs call this
// after updating stored features so readers see the refined values.
func (c *Catalog) Republish(ctx context.Context) error {
	tracks, err := c.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("service: republish catalog: %w", err)
	}
	snap := c.publish(tracks)
	c.logger.Debug().
		Int("tracks", len(tracks)).
		Str("snapshot_id", snap.ID).
		Msg("catalog republished")
	return nil
}

func (c *Catalog) publish(tracks []domain.Track) *domain.Snapshot {
	snap := &domain.Snapshot{
		ID:       uuid.NewString(),
		LoadedAt: time.Now().UTC(),
		Tracks:   tracks,
	}
	c.current.Store(snap)
	metrics.CatalogTracks.Set(float64(len(tracks)))
	return snap
}
