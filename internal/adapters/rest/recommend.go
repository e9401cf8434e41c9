package rest

import (
	"errors"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/ewilliams-labs/cadenza/internal/core/domain"
	"github.com/ewilliams-labs/cadenza/internal/metrics"
)

const errCodeEmptyCatalog = "EMPTY_CATALOG"

type recommendRequest struct {
	Emotion       string `json:"emotion"`
	CurrentSongID string `json:"current_song_id"`
}

// recommendationResponse flattens a matched track into the wire shape.
// Valence and energy are zero for tracks whose features are still unknown.
type recommendationResponse struct {
	SongID     string  `json:"song_id"`
	Title      string  `json:"title"`
	Artist     string  `json:"artist"`
	Album      string  `json:"album"`
	ImageURL   string  `json:"image_url"`
	PreviewURL string  `json:"preview_url"`
	URL        string  `json:"url"`
	Valence    float64 `json:"valence"`
	Energy     float64 `json:"energy"`
	DurationMs int     `json:"duration_ms"`
	Emotion    string  `json:"emotion"`
	Degraded   bool    `json:"degraded"`
}

func toRecommendationResponse(rec domain.Recommendation) recommendationResponse {
	resp := recommendationResponse{
		SongID:     rec.Track.ID,
		Title:      rec.Track.Title,
		Artist:     rec.Track.Artist,
		Album:      rec.Track.Album,
		ImageURL:   rec.Track.ImageURL,
		PreviewURL: rec.Track.PreviewURL,
		URL:        rec.Track.URL,
		DurationMs: rec.Track.DurationMs,
		Emotion:    string(rec.Emotion),
		Degraded:   rec.Degraded,
	}
	if f := rec.Track.Features; f != nil {
		resp.Valence = f.Valence
		resp.Energy = f.Energy
	}
	return resp
}

// Recommend handles POST /api/recommend. Emotions outside the canonical
// set match against the neutral mood window.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	emotion := domain.Label(strings.ToLower(strings.TrimSpace(req.Emotion)))
	if emotion == "" {
		writeError(w, http.StatusBadRequest, "emotion is required")
		return
	}

	rec, err := h.svc.RecommendTrack(emotion, req.CurrentSongID)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyCatalog) {
			metrics.RecommendationsTotal.WithLabelValues(string(emotion), "empty").Inc()
			writeErrorWithCode(w, http.StatusNotFound, "No song found. Please sync playlist first.", errCodeEmptyCatalog)
			return
		}
		h.logger.Error().Err(err).Str("emotion", string(emotion)).Msg("recommendation failed")
		writeError(w, http.StatusInternalServerError, "recommendation failed")
		return
	}

	outcome := "matched"
	if rec.Degraded {
		outcome = "degraded"
		metrics.DegradedMatchesTotal.Inc()
	}
	metrics.RecommendationsTotal.WithLabelValues(string(emotion), outcome).Inc()

	h.logger.Info().
		Str("emotion", string(emotion)).
		Str("song_id", rec.Track.ID).
		Bool("degraded", rec.Degraded).
		Msg("recommended song")
	writeJSON(w, http.StatusOK, toRecommendationResponse(rec))
}
