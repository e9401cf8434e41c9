package rest

import (
	"errors"
	"net/http"

	"github.com/ewilliams-labs/cadenza/internal/core/services"
	"github.com/ewilliams-labs/cadenza/internal/worker"
)

// fetchPlaylistResponse reports what a sync pulled in.
type fetchPlaylistResponse struct {
	Status        string  `json:"status"`
	SongsCached   int     `json:"songs_cached"`
	DurationHours float64 `json:"duration_hours"`
}

// PlaylistStats handles GET /api/playlist/stats. An empty catalog yields
// zeroed aggregates with cached false rather than an error.
func (h *Handler) PlaylistStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.CatalogStats())
}

// FetchPlaylist handles POST /api/setup/fetch-playlist. It pulls the
// configured playlist, swaps in the new snapshot, and queues preview
// analysis for tracks that ship a clip.
func (h *Handler) FetchPlaylist(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.RefreshCatalog(r.Context())
	if err != nil {
		if errors.Is(err, services.ErrNoCatalogSource) {
			writeError(w, http.StatusServiceUnavailable, "Spotify handler not initialized")
			return
		}
		h.logger.Error().Err(err).Msg("playlist fetch failed")
		writeError(w, http.StatusBadGateway, "failed to fetch playlist")
		return
	}

	if h.pool != nil {
		for _, t := range snap.Tracks {
			if t.PreviewURL == "" {
				continue
			}
			h.pool.Submit(worker.Job{TrackID: t.ID, PreviewURL: t.PreviewURL})
		}
	}

	stats := services.ComputeStats(snap)
	writeJSON(w, http.StatusOK, fetchPlaylistResponse{
		Status:        "success",
		SongsCached:   stats.TotalSongs,
		DurationHours: stats.TotalDurationHours,
	})
}
