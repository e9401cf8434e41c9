package rest

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/ewilliams-labs/cadenza/internal/core/domain"
	"github.com/ewilliams-labs/cadenza/internal/metrics"
)

const strategyLate = "late"

// fuseModality is one detector verdict supplied by the client. A missing
// probability map makes the modality unusable rather than invalid.
type fuseModality struct {
	Probabilities domain.ProbabilityVector `json:"probabilities"`
	Confidence    float64                  `json:"confidence"`
}

type fuseRequest struct {
	Face     *fuseModality      `json:"face"`
	Speech   *fuseModality      `json:"speech"`
	Text     *fuseModality      `json:"text"`
	Strategy string             `json:"strategy"`
	Weights  map[string]float64 `json:"weights"`
}

// contributions converts the request into fusion inputs in the fixed
// face, speech, text order so reported weights stay deterministic.
func (req fuseRequest) contributions() []domain.ModalityContribution {
	var out []domain.ModalityContribution
	add := func(name string, m *fuseModality) {
		if m == nil {
			return
		}
		c := domain.ModalityContribution{Name: name, Vector: m.Probabilities}
		if w, ok := req.Weights[name]; ok {
			weight := w
			c.Weight = &weight
		}
		out = append(out, c)
	}
	add(domain.ModalityFace, req.Face)
	add(domain.ModalitySpeech, req.Speech)
	add(domain.ModalityText, req.Text)
	return out
}

// Fuse handles POST /api/fuse.
func (h *Handler) Fuse(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var req fuseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Strategy == "" {
		req.Strategy = strategyLate
	}
	if req.Strategy != strategyLate {
		writeError(w, http.StatusBadRequest, "Only late fusion supported")
		return
	}

	result, err := h.svc.FuseModalities(req.contributions())
	if err != nil {
		if errors.Is(err, domain.ErrNoUsableModality) {
			// callers always get a verdict; unusable input degrades to neutral
			metrics.FusionTotal.WithLabelValues("fallback").Inc()
			h.logger.Warn().Msg("no usable modality supplied, returning neutral fallback")
			writeJSON(w, http.StatusOK, domain.NeutralFallback())
			return
		}
		h.logger.Error().Err(err).Msg("fusion failed")
		writeError(w, http.StatusInternalServerError, "fusion failed")
		return
	}

	metrics.FusionTotal.WithLabelValues("fused").Inc()
	writeJSON(w, http.StatusOK, result)
}
