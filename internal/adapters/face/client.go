// Package face provides an adapter for an external face-emotion inference
// service. It forwards a base64 frame and maps the service's seven raw
// labels onto the canonical six.
package face

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ewilliams-labs/cadenza/internal/core/domain"
	"github.com/ewilliams-labs/cadenza/internal/core/ports"
)

const defaultTimeout = 15 * time.Second

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type analyzeRequest struct {
	Image string `json:"image"`
}

type analyzeResponse struct {
	Faces []detectedFace `json:"faces"`
	Error string         `json:"error,omitempty"`
}

type detectedFace struct {
	Emotions map[string]float64 `json:"emotions"`
}

// compile-time interface assertion
var _ ports.FaceDetector = (*Client)(nil)

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Analyze sends the frame to the inference service and maps the strongest
// face's emotions to a canonical result. A frame with no face in it yields
// the low-confidence neutral verdict rather than an error.
func (c *Client) Analyze(ctx context.Context, imageB64 string) (domain.ModalityResult, error) {
	payload := strings.TrimSpace(imageB64)
	if i := strings.IndexByte(payload, ','); i >= 0 {
		// Drop a data-URL prefix; the service expects bare base64.
		payload = payload[i+1:]
	}
	if payload == "" {
		return domain.ModalityResult{}, fmt.Errorf("face adapter: empty image: %w", ports.ErrInvalidSignal)
	}

	body, err := json.Marshal(analyzeRequest{Image: payload})
	if err != nil {
		return domain.ModalityResult{}, fmt.Errorf("face adapter: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return domain.ModalityResult{}, fmt.Errorf("face adapter: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.ModalityResult{}, fmt.Errorf("face adapter: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return domain.ModalityResult{}, fmt.Errorf("face adapter: rejected payload (status %d): %w", resp.StatusCode, ports.ErrInvalidSignal)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.ModalityResult{}, fmt.Errorf("face adapter: unexpected status %d", resp.StatusCode)
	}

	var parsed analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return domain.ModalityResult{}, fmt.Errorf("face adapter: decode response: %w", err)
	}
	if parsed.Error != "" {
		return domain.ModalityResult{}, fmt.Errorf("face adapter: %s", parsed.Error)
	}

	if len(parsed.Faces) == 0 {
		return domain.NeutralResult(), nil
	}

	probs := mapRawEmotions(parsed.Faces[0].Emotions)
	top, confidence := probs.Top()
	return domain.ModalityResult{
		Emotion:       top,
		Confidence:    confidence,
		Probabilities: probs,
	}, nil
}
