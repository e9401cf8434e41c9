package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ewilliams-labs/cadenza/internal/adapters/face"
	"github.com/ewilliams-labs/cadenza/internal/adapters/rest"
	"github.com/ewilliams-labs/cadenza/internal/adapters/speech"
	"github.com/ewilliams-labs/cadenza/internal/adapters/spotify"
	"github.com/ewilliams-labs/cadenza/internal/adapters/sqlite"
	"github.com/ewilliams-labs/cadenza/internal/adapters/text"
	"github.com/ewilliams-labs/cadenza/internal/config"
	"github.com/ewilliams-labs/cadenza/internal/core/ports"
	"github.com/ewilliams-labs/cadenza/internal/core/services"
	"github.com/ewilliams-labs/cadenza/internal/logging"
	"github.com/ewilliams-labs/cadenza/internal/worker"
)

func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
	logging.Init(cfg.Logging)

	// 2. Driven adapters
	store, err := sqlite.NewStore(cfg.Catalog.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize catalog store")
	}
	defer store.Close()

	var source ports.CatalogSource
	if cfg.Spotify.Enabled() {
		source = spotify.NewClient(spotify.Config{
			ClientID:          cfg.Spotify.ClientID,
			ClientSecret:      cfg.Spotify.ClientSecret,
			PlaylistID:        cfg.Spotify.PlaylistID,
			BaseURL:           cfg.Spotify.BaseURL,
			TokenURL:          cfg.Spotify.TokenURL,
			RequestsPerSecond: cfg.Spotify.RequestsPerSecond,
			Burst:             cfg.Spotify.Burst,
		}, logging.Component("spotify"))
	} else {
		log.Warn().Msg("spotify credentials not set, playlist sync disabled")
	}

	catalog := services.NewCatalog(source, store, logging.Component("catalog"))
	if err := catalog.LoadCached(context.Background()); err != nil {
		log.Warn().Err(err).Msg("could not load cached catalog")
	}
	if cfg.Catalog.RefreshOnStart && source != nil {
		if _, err := catalog.Refresh(context.Background()); err != nil {
			log.Warn().Err(err).Msg("startup catalog refresh failed, serving cached data")
		}
	}

	// 3. Modality detectors. Each one is optional; a missing detector
	// turns its endpoint into a 503 instead of failing startup.
	var faceDetector ports.FaceDetector
	if cfg.Face.BaseURL != "" {
		faceDetector = face.NewClient(cfg.Face.BaseURL, cfg.Face.Timeout)
	} else {
		log.Warn().Msg("face scorer url not set, face modality disabled")
	}

	speechDetector := speech.NewDetector(logging.Component("speech"))

	var classifier *text.Classifier
	if cfg.Text.ModelPath != "" {
		classifier, err = text.NewClassifier(cfg.Text.ModelPath, cfg.Text.VocabPath, cfg.Text.MaxSequenceLength)
		if err != nil {
			log.Warn().Err(err).Msg("text model failed to load, falling back to keyword scoring")
			classifier = nil
		} else {
			defer classifier.Close()
		}
	}
	textDetector := text.NewDetector(classifier, logging.Component("text"))

	// 4. Core services
	svc := services.NewOrchestrator(
		services.NewFusionEngine(cfg.Fusion.Weights),
		services.NewRecommender(logging.Component("recommender"), cfg.Catalog.Seed),
		catalog,
		faceDetector,
		speechDetector,
		textDetector,
		logging.Component("orchestrator"),
	)

	// 5. Background preview analysis
	var pool *worker.Pool
	if cfg.Worker.PreviewAnalysis {
		if cfg.Worker.MaxPreviewBytes > 0 {
			worker.MaxPreviewBytes = cfg.Worker.MaxPreviewBytes
		}
		pool = worker.NewPool(store, catalog, logging.Component("worker"), cfg.Worker.QueueSize)
		pool.Start(cfg.Worker.Count)
		defer pool.Stop()
	}

	// 6. HTTP server
	handler := rest.NewHandler(svc, pool, logging.Component("rest"), rest.Options{
		CORSOrigins:     cfg.Server.CORSOrigins,
		RateLimit:       cfg.Server.RateLimit,
		RateLimitWindow: cfg.Server.RateLimitWindow,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 15 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("cadenza api listening")
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Error().Err(err).Msg("server failed")
			return
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown error")
		}
	}
}
