package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ewilliams-labs/cadenza/internal/core/domain"
	"github.com/ewilliams-labs/cadenza/internal/core/ports"
)

type stubFace struct {
	result domain.ModalityResult
	err    error
}

func (s *stubFace) Analyze(_ context.Context, _ string) (domain.ModalityResult, error) {
	return s.result, s.err
}

type stubSpeech struct {
	result domain.ModalityResult
	err    error
}

func (s *stubSpeech) Analyze(_ context.Context, _ string, _ int) (domain.ModalityResult, error) {
	return s.result, s.err
}

type stubText struct {
	result domain.ModalityResult
	err    error
}

func (s *stubText) Analyze(_ context.Context, _ string) (domain.ModalityResult, error) {
	return s.result, s.err
}

func newTestOrchestrator(face ports.FaceDetector, speech ports.SpeechDetector, text ports.TextDetector, store *stubStore) *Orchestrator {
	catalog := NewCatalog(nil, store, zerolog.Nop())
	_ = catalog.LoadCached(context.Background())
	return NewOrchestrator(
		NewFusionEngine(nil),
		NewRecommender(zerolog.Nop(), 42),
		catalog,
		face, speech, text,
		zerolog.Nop(),
	)
}

func TestOrchestrator_Analyze_NilDetectors(t *testing.T) {
	orch := newTestOrchestrator(nil, nil, nil, &stubStore{})
	ctx := context.Background()

	if _, err := orch.AnalyzeFace(ctx, "img"); !errors.Is(err, ports.ErrDetectorUnavailable) {
		t.Fatalf("expected ErrDetectorUnavailable for face, got: %v", err)
	}
	if _, err := orch.AnalyzeSpeech(ctx, "clip", 22050); !errors.Is(err, ports.ErrDetectorUnavailable) {
		t.Fatalf("expected ErrDetectorUnavailable for speech, got: %v", err)
	}
	if _, err := orch.AnalyzeText(ctx, "hello"); !errors.Is(err, ports.ErrDetectorUnavailable) {
		t.Fatalf("expected ErrDetectorUnavailable for text, got: %v", err)
	}
}

func TestOrchestrator_Analyze_PassesThrough(t *testing.T) {
	want := domain.ModalityResult{
		Emotion:       domain.Happy,
		Confidence:    0.9,
		Probabilities: domain.ProbabilityVector{domain.Happy: 0.9, domain.Neutral: 0.1},
	}
	orch := newTestOrchestrator(&stubFace{result: want}, &stubSpeech{result: want}, &stubText{result: want}, &stubStore{})
	ctx := context.Background()

	got, err := orch.AnalyzeFace(ctx, "img")
	if err != nil {
		t.Fatalf("expected face analysis to succeed, got: %v", err)
	}
	if got.Emotion != want.Emotion || got.Confidence != want.Confidence {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestOrchestrator_Analyze_WrapsDetectorErrors(t *testing.T) {
	orch := newTestOrchestrator(
		&stubFace{err: ports.ErrInvalidSignal},
		nil, nil,
		&stubStore{},
	)

	_, err := orch.AnalyzeFace(context.Background(), "not-an-image")
	if !errors.Is(err, ports.ErrInvalidSignal) {
		t.Fatalf("expected ErrInvalidSignal to survive wrapping, got: %v", err)
	}
}

func TestOrchestrator_FuseModalities_KeepsTypedError(t *testing.T) {
	orch := newTestOrchestrator(nil, nil, nil, &stubStore{})

	_, err := orch.FuseModalities(nil)
	if !errors.Is(err, domain.ErrNoUsableModality) {
		t.Fatalf("expected ErrNoUsableModality to survive wrapping, got: %v", err)
	}
}

func TestOrchestrator_RecommendTrack(t *testing.T) {
	store := &stubStore{stored: []domain.Track{
		featured("upbeat", 0.8, 0.8),
		featured("gloomy", 0.1, 0.1),
	}}
	orch := newTestOrchestrator(nil, nil, nil, store)

	rec, err := orch.RecommendTrack(domain.Sad, "")
	if err != nil {
		t.Fatalf("expected a recommendation, got: %v", err)
	}
	if rec.Track.ID != "gloomy" {
		t.Fatalf("expected the sad-window track, got %s", rec.Track.ID)
	}
}

func TestOrchestrator_RecommendTrack_EmptyCatalog(t *testing.T) {
	orch := newTestOrchestrator(nil, nil, nil, &stubStore{})

	_, err := orch.RecommendTrack(domain.Happy, "")
	if !errors.Is(err, domain.ErrEmptyCatalog) {
		t.Fatalf("expected ErrEmptyCatalog, got: %v", err)
	}
}

func TestOrchestrator_DetectorStatus(t *testing.T) {
	orch := newTestOrchestrator(&stubFace{}, nil, &stubText{}, &stubStore{})

	face, speech, text := orch.DetectorStatus()
	if !face || speech || !text {
		t.Fatalf("expected face=true speech=false text=true, got %v %v %v", face, speech, text)
	}
}
