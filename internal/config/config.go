package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ewilliams-labs/cadenza/internal/core/domain"
	"github.com/ewilliams-labs/cadenza/internal/logging"
)

// Config holds all application configuration. Values are layered in
// order of precedence: built-in defaults, then an optional YAML file,
// then CADENZA_* environment variables. Immutable after Load and safe
// for concurrent reads.
type Config struct {
	Server  ServerConfig   `koanf:"server"`
	Spotify SpotifyConfig  `koanf:"spotify"`
	Catalog CatalogConfig  `koanf:"catalog"`
	Fusion  FusionConfig   `koanf:"fusion"`
	Face    FaceConfig     `koanf:"face"`
	Text    TextConfig     `koanf:"text"`
	Worker  WorkerConfig   `koanf:"worker"`
	Logging logging.Config `koanf:"logging"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"gte=1,lte=65535"`
	Timeout         time.Duration `koanf:"timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimit       int           `koanf:"rate_limit" validate:"gte=0"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// SpotifyConfig holds the upstream catalog source settings. Leaving the
// credentials empty disables playlist sync; cached data keeps serving.
type SpotifyConfig struct {
	ClientID          string  `koanf:"client_id"`
	ClientSecret      string  `koanf:"client_secret"`
	PlaylistID        string  `koanf:"playlist_id"`
	BaseURL           string  `koanf:"base_url" validate:"omitempty,url"`
	TokenURL          string  `koanf:"token_url" validate:"omitempty,url"`
	RequestsPerSecond float64 `koanf:"requests_per_second" validate:"gt=0"`
	Burst             int     `koanf:"burst" validate:"gte=1"`
}

// Enabled reports whether playlist sync is configured.
func (c SpotifyConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// CatalogConfig holds local catalog storage settings. Seed pins the
// recommendation picker for reproducible runs; zero seeds from the clock.
type CatalogConfig struct {
	DatabasePath   string `koanf:"database_path" validate:"required"`
	RefreshOnStart bool   `koanf:"refresh_on_start"`
	Seed           int64  `koanf:"seed"`
}

// FusionConfig holds the default per-modality fusion weights.
type FusionConfig struct {
	Weights map[string]float64 `koanf:"weights"`
}

// FaceConfig points at the external facial-expression scorer. An empty
// base URL leaves the face modality disabled.
type FaceConfig struct {
	BaseURL string        `koanf:"base_url" validate:"omitempty,url"`
	Timeout time.Duration `koanf:"timeout"`
}

// TextConfig holds the text emotion model settings. Without a model path
// the detector falls back to keyword scoring.
type TextConfig struct {
	ModelPath         string `koanf:"model_path"`
	VocabPath         string `koanf:"vocab_path"`
	MaxSequenceLength int    `koanf:"max_sequence_length" validate:"gt=0"`
}

// WorkerConfig holds the background preview-analysis pool settings.
type WorkerConfig struct {
	Count           int   `koanf:"count" validate:"gte=1"`
	QueueSize       int   `koanf:"queue_size" validate:"gte=1"`
	PreviewAnalysis bool  `koanf:"preview_analysis"`
	MaxPreviewBytes int64 `koanf:"max_preview_bytes" validate:"gte=0"`
}

// defaultConfig returns a Config with all defaults applied. Defaults are
// layered first, then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			Timeout:         30 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimit:       100,
			RateLimitWindow: time.Minute,
		},
		Spotify: SpotifyConfig{
			BaseURL:           "https://api.spotify.com/v1",
			TokenURL:          "https://accounts.spotify.com/api/token",
			RequestsPerSecond: 10,
			Burst:             5,
		},
		Catalog: CatalogConfig{
			DatabasePath:   "data/cadenza.db",
			RefreshOnStart: false,
			Seed:           0,
		},
		Fusion: FusionConfig{
			Weights: domain.DefaultModalityWeights(),
		},
		Face: FaceConfig{
			BaseURL: "",
			Timeout: 15 * time.Second,
		},
		Text: TextConfig{
			ModelPath:         "",
			VocabPath:         "",
			MaxSequenceLength: 128,
		},
		Worker: WorkerConfig{
			Count:           4,
			QueueSize:       64,
			PreviewAnalysis: true,
			MaxPreviewBytes: 5 << 20,
		},
		Logging: logging.Config{
			Level:  "info",
			Format: "json",
		},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks tag constraints plus the cross-field rules the tags
// cannot express.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if (c.Spotify.ClientID == "") != (c.Spotify.ClientSecret == "") {
		return fmt.Errorf("SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET must be set together")
	}
	if c.Spotify.Enabled() && c.Spotify.PlaylistID == "" {
		return fmt.Errorf("SPOTIFY_PLAYLIST_ID is required when Spotify credentials are set")
	}

	var weightSum float64
	for name, w := range c.Fusion.Weights {
		if w < 0 {
			return fmt.Errorf("fusion weight for %q must not be negative", name)
		}
		weightSum += w
	}
	if len(c.Fusion.Weights) > 0 && weightSum <= 0 {
		return fmt.Errorf("fusion weights must sum to a positive value")
	}

	return nil
}
