package ports

import (
	"context"

	"github.com/ewilliams-labs/cadenza/internal/core/domain"
)

// CatalogSource fetches the authoritative track list from an upstream
// provider, typically one configured Spotify playlist.
type CatalogSource interface {
	FetchPlaylist(ctx context.Context) ([]domain.Track, error)
}

// CatalogStore persists the local catalog cache between runs. ReplaceAll
// swaps the whole cache in one transaction so readers never observe a
// half-written catalog.
type CatalogStore interface {
	ReplaceAll(ctx context.Context, tracks []domain.Track) error
	LoadAll(ctx context.Context) ([]domain.Track, error)
	UpdateEnergy(ctx context.Context, trackID string, energy float64) error
	Close() error
}
