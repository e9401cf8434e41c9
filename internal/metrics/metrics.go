// Package metrics exposes Prometheus instrumentation for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cadenza_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadenza_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// Fusion Metrics
	FusionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadenza_fusion_total",
			Help: "Total number of fusion calls by outcome",
		},
		[]string{"outcome"}, // "fused", "fallback"
	)

	// Recommendation Metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadenza_recommendations_total",
			Help: "Total number of recommendation requests by emotion and outcome",
		},
		[]string{"emotion", "outcome"}, // "matched", "degraded", "empty"
	)

	DegradedMatchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cadenza_degraded_matches_total",
			Help: "Recommendations that fell back to the whole catalog because no track matched the mood window",
		},
	)

	// Catalog Metrics
	CatalogTracks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cadenza_catalog_tracks",
			Help: "Number of tracks in the current catalog snapshot",
		},
	)

	CatalogRefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadenza_catalog_refreshes_total",
			Help: "Total number of catalog refresh attempts by status",
		},
		[]string{"status"}, // "success", "error"
	)

	// Background Worker Metrics
	PreviewAnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadenza_preview_analyses_total",
			Help: "Total number of background preview analyses by status",
		},
		[]string{"status"}, // "success", "error", "skipped", "dropped"
	)
)
