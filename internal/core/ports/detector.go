package ports

import (
	"context"
	"errors"

	"github.com/ewilliams-labs/cadenza/internal/core/domain"
)

// ErrDetectorUnavailable indicates the modality's detector is not
// configured or could not be loaded.
var ErrDetectorUnavailable = errors.New("detector unavailable")

// ErrInvalidSignal indicates the supplied payload could not be decoded into
// the modality's signal, such as malformed base64 or a non-MP3 clip.
var ErrInvalidSignal = errors.New("invalid signal payload")

// FaceDetector scores emotions from a still image.
type FaceDetector interface {
	Analyze(ctx context.Context, imageB64 string) (domain.ModalityResult, error)
}

// SpeechDetector scores emotions from a short voice clip.
type SpeechDetector interface {
	Analyze(ctx context.Context, audioB64 string, sampleRate int) (domain.ModalityResult, error)
}

// TextDetector scores emotions from free text.
type TextDetector interface {
	Analyze(ctx context.Context, text string) (domain.ModalityResult, error)
}
