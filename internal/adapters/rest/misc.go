package rest

import (
	"net/http"

	"github.com/goccy/go-json"
)

type healthResponse struct {
	Status                string          `json:"status"`
	ModelsLoaded          bool            `json:"models_loaded"`
	SpotifyPlaylistLoaded bool            `json:"spotify_playlist_loaded"`
	Detectors             map[string]bool `json:"detectors"`
}

// feedbackRequest mirrors what the player UI reports after a song. It is
// acknowledged and logged, never persisted.
type feedbackRequest struct {
	SongID            string  `json:"song_id"`
	Emotion           string  `json:"emotion"`
	EmotionConfidence float64 `json:"emotion_confidence"`
	Rating            string  `json:"rating"`
	Timestamp         string  `json:"timestamp"`
}

type sessionAnalyticsResponse struct {
	EmotionsTimeline []any `json:"emotions_timeline"`
	SongsPlayed      []any `json:"songs_played"`
	Feedback         []any `json:"feedback"`
}

// Root handles GET /api/.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Emotion Music API",
		"status":  "running",
	})
}

// HealthCheck handles GET /api/health.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	face, speech, text := h.svc.DetectorStatus()
	writeJSON(w, http.StatusOK, healthResponse{
		Status:                "ok",
		ModelsLoaded:          face && speech && text,
		SpotifyPlaylistLoaded: !h.svc.Snapshot().Empty(),
		Detectors: map[string]bool{
			"face":   face,
			"speech": speech,
			"text":   text,
		},
	})
}

// Feedback handles POST /api/feedback. Session history stays out of scope,
// so the rating is acknowledged and dropped.
func (h *Handler) Feedback(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.SongID == "" {
		writeError(w, http.StatusBadRequest, "song_id is required")
		return
	}
	switch req.Rating {
	case "like", "dislike", "skip":
	default:
		writeError(w, http.StatusBadRequest, "rating must be like, dislike or skip")
		return
	}

	h.logger.Info().
		Str("song_id", req.SongID).
		Str("emotion", req.Emotion).
		Str("rating", req.Rating).
		Msg("feedback received")

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "received",
		"note":   "feedback is not stored",
	})
}

// SessionAnalytics handles GET /api/analytics/session. The shape is kept
// for UI compatibility; without session storage it is always empty.
func (h *Handler) SessionAnalytics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionAnalyticsResponse{
		EmotionsTimeline: []any{},
		SongsPlayed:      []any{},
		Feedback:         []any{},
	})
}
