package rest

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/ewilliams-labs/cadenza/internal/core/ports"
)

const (
	errCodeDetectorUnavailable = "DETECTOR_UNAVAILABLE"
	errCodeInvalidSignal       = "INVALID_SIGNAL"
)

// facePredictRequest carries one base64 encoded camera frame.
type facePredictRequest struct {
	Image string `json:"image"`
}

// speechPredictRequest carries a base64 encoded voice clip. SampleRate is
// only a hint; the decoded clip's own rate wins when they disagree.
type speechPredictRequest struct {
	Audio      string `json:"audio"`
	SampleRate int    `json:"sample_rate"`
}

type textPredictRequest struct {
	Text string `json:"text"`
}

// PredictFace handles POST /api/predict/face.
func (h *Handler) PredictFace(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var req facePredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Image == "" {
		writeError(w, http.StatusBadRequest, "image is required")
		return
	}

	result, err := h.svc.AnalyzeFace(r.Context(), req.Image)
	if err != nil {
		switch {
		case errors.Is(err, ports.ErrDetectorUnavailable):
			writeErrorWithCode(w, http.StatusServiceUnavailable, "Face detector not loaded", errCodeDetectorUnavailable)
		case errors.Is(err, ports.ErrInvalidSignal):
			writeErrorWithCode(w, http.StatusBadRequest, "image payload could not be decoded", errCodeInvalidSignal)
		default:
			// the face scorer is an external service, so its failures are upstream failures
			h.logger.Error().Err(err).Msg("face prediction failed")
			writeError(w, http.StatusBadGateway, "face analysis failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// PredictSpeech handles POST /api/predict/speech.
func (h *Handler) PredictSpeech(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var req speechPredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Audio == "" {
		writeError(w, http.StatusBadRequest, "audio is required")
		return
	}

	result, err := h.svc.AnalyzeSpeech(r.Context(), req.Audio, req.SampleRate)
	if err != nil {
		switch {
		case errors.Is(err, ports.ErrDetectorUnavailable):
			writeErrorWithCode(w, http.StatusServiceUnavailable, "Speech detector not loaded", errCodeDetectorUnavailable)
		case errors.Is(err, ports.ErrInvalidSignal):
			writeErrorWithCode(w, http.StatusBadRequest, "audio payload could not be decoded", errCodeInvalidSignal)
		default:
			h.logger.Error().Err(err).Msg("speech prediction failed")
			writeError(w, http.StatusInternalServerError, "speech analysis failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// PredictText handles POST /api/predict/text.
func (h *Handler) PredictText(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var req textPredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.svc.AnalyzeText(r.Context(), req.Text)
	if err != nil {
		switch {
		case errors.Is(err, ports.ErrDetectorUnavailable):
			writeErrorWithCode(w, http.StatusServiceUnavailable, "Text detector not loaded", errCodeDetectorUnavailable)
		case errors.Is(err, ports.ErrInvalidSignal):
			writeErrorWithCode(w, http.StatusBadRequest, "text is required", errCodeInvalidSignal)
		default:
			h.logger.Error().Err(err).Msg("text prediction failed")
			writeError(w, http.StatusInternalServerError, "text analysis failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}
