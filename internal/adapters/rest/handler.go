// Package rest exposes the emotion and recommendation services over HTTP.
package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ewilliams-labs/cadenza/internal/core/services"
	"github.com/ewilliams-labs/cadenza/internal/worker"
)

// Options tunes the HTTP surface. A zero RateLimit disables throttling.
type Options struct {
	CORSOrigins     []string
	RateLimit       int
	RateLimitWindow time.Duration
}

// Handler manages the HTTP interface for our application.
type Handler struct {
	svc    *services.Orchestrator // Dependency on the Core Service
	pool   *worker.Pool           // nil when preview analysis is disabled
	logger zerolog.Logger
	router chi.Router
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(svc *services.Orchestrator, pool *worker.Pool, logger zerolog.Logger, opts Options) *Handler {
	h := &Handler{
		svc:    svc,
		pool:   pool,
		logger: logger,
		router: chi.NewRouter(),
	}

	h.routes(opts)

	return h
}

// ServeHTTP satisfies the http.Handler interface.
// It acts as a proxy, passing the request to our internal router.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// routes defines middleware and the mapping between URLs and methods.
func (h *Handler) routes(opts Options) {
	r := h.router

	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(h.logger))
	r.Use(chimiddleware.Recoverer)

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if opts.RateLimit > 0 {
		window := opts.RateLimitWindow
		if window <= 0 {
			window = time.Minute
		}
		r.Use(httprate.LimitByIP(opts.RateLimit, window))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/", h.Root)
		r.Get("/health", h.HealthCheck)
		// Emotion Detection
		r.Post("/predict/face", h.PredictFace)
		r.Post("/predict/speech", h.PredictSpeech)
		r.Post("/predict/text", h.PredictText)
		r.Post("/fuse", h.Fuse)
		// Recommendations
		r.Post("/recommend", h.Recommend)
		r.Post("/feedback", h.Feedback)
		// Catalog Management
		r.Get("/playlist/stats", h.PlaylistStats)
		r.Post("/setup/fetch-playlist", h.FetchPlaylist)
		r.Get("/analytics/session", h.SessionAnalytics)
	})

	r.Handle("/metrics", promhttp.Handler())
}
