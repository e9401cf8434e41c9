package rest

import (
	"net/http"
	"strings"

	"github.com/goccy/go-json"
)

// errorResponse is the wire shape for every error reply.
type errorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

func writeErrorWithCode(w http.ResponseWriter, status int, detail, code string) {
	writeJSON(w, status, errorResponse{Detail: detail, Code: code})
}

// isJSONContentType accepts application/json with optional parameters such
// as a charset.
func isJSONContentType(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return false
	}
	mediaType := strings.TrimSpace(strings.SplitN(ct, ";", 2)[0])
	return strings.EqualFold(mediaType, "application/json")
}
