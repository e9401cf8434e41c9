package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ewilliams-labs/cadenza/internal/core/domain"
	"github.com/ewilliams-labs/cadenza/internal/core/ports"
)

// Orchestrator coordinates the detectors, the fusion engine, and the
// catalog services behind one facade for the transport layer.
type Orchestrator struct {
	fusion  *FusionEngine
	rec     *Recommender
	catalog *Catalog
	face    ports.FaceDetector
	speech  ports.SpeechDetector
	text    ports.TextDetector
	logger  zerolog.Logger
}

// NewOrchestrator constructs an Orchestrator. Any detector may be nil; its
// endpoint then reports the detector as unavailable.
func NewOrchestrator(
	fusion *FusionEngine,
	rec *Recommender,
	catalog *Catalog,
	face ports.FaceDetector,
	speech ports.SpeechDetector,
	text ports.TextDetector,
	logger zerolog.Logger,
) *Orchestrator {
	return &Orchestrator{
		fusion:  fusion,
		rec:     rec,
		catalog: catalog,
		face:    face,
		speech:  speech,
		text:    text,
		logger:  logger,
	}
}

// AnalyzeFace scores emotions on a base64-encoded image.
func (o *Orchestrator) AnalyzeFace(ctx context.Context, imageB64 string) (domain.ModalityResult, error) {
	if o.face == nil {
		return domain.ModalityResult{}, fmt.Errorf("service: face detector: %w", ports.ErrDetectorUnavailable)
	}
	result, err := o.face.Analyze(ctx, imageB64)
	if err != nil {
		return domain.ModalityResult{}, fmt.Errorf("service: face analysis failed: %w", err)
	}
	return result, nil
}

// AnalyzeSpeech scores emotions on a base64-encoded voice clip.
func (o *Orchestrator) AnalyzeSpeech(ctx context.Context, audioB64 string, sampleRate int) (domain.ModalityResult, error) {
	if o.speech == nil {
		return domain.ModalityResult{}, fmt.Errorf("service: speech detector: %w", ports.ErrDetectorUnavailable)
	}
	result, err := o.speech.Analyze(ctx, audioB64, sampleRate)
	if err != nil {
		return domain.ModalityResult{}, fmt.Errorf("service: speech analysis failed: %w", err)
	}
	return result, nil
}

// AnalyzeText scores emotions on free text.
func (o *Orchestrator) AnalyzeText(ctx context.Context, text string) (domain.ModalityResult, error) {
	if o.text == nil {
		return domain.ModalityResult{}, fmt.Errorf("service: text detector: %w", ports.ErrDetectorUnavailable)
	}
	result, err := o.text.Analyze(ctx, text)
	if err != nil {
		return domain.ModalityResult{}, fmt.Errorf("service: text analysis failed: %w", err)
	}
	return result, nil
}

// FuseModalities combines per-modality probability vectors into one
// verdict. The typed no-usable-modality error survives the wrapping so the
// caller can pick its fallback.
func (o *Orchestrator) FuseModalities(contributions []domain.ModalityContribution) (domain.FusionResult, error) {
	result, err := o.fusion.Fuse(contributions)
	if err != nil {
		return domain.FusionResult{}, fmt.Errorf("service: fuse modalities: %w", err)
	}
	return result, nil
}

// RecommendTrack picks a track for the emotion from the current snapshot.
func (o *Orchestrator) RecommendTrack(emotion domain.Label, excludeID string) (domain.Recommendation, error) {
	rec, err := o.rec.Recommend(emotion, excludeID, o.catalog.Snapshot())
	if err != nil {
		return domain.Recommendation{}, fmt.Errorf("service: recommend track: %w", err)
	}
	return rec, nil
}

// CatalogStats aggregates the current snapshot.
func (o *Orchestrator) CatalogStats() domain.CatalogStats {
	return ComputeStats(o.catalog.Snapshot())
}

// RefreshCatalog pulls the configured playlist and publishes a new
// snapshot.
func (o *Orchestrator) RefreshCatalog(ctx context.Context) (*domain.Snapshot, error) {
	return o.catalog.Refresh(ctx)
}

// Snapshot exposes the current catalog view for the transport layer.
func (o *Orchestrator) Snapshot() *domain.Snapshot {
	return o.catalog.Snapshot()
}

// DetectorStatus reports which modality detectors are wired in.
func (o *Orchestrator) DetectorStatus() (face, speech, text bool) {
	return o.face != nil, o.speech != nil, o.text != nil
}
