package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// defaultConfigPaths lists where config files are searched, first hit wins.
var defaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cadenza/config.yaml",
}

// configPathEnvVar overrides the config file search.
const configPathEnvVar = "CADENZA_CONFIG"

// Load assembles the configuration from three layers: struct defaults,
// an optional YAML file, and CADENZA_* environment variables, with env
// vars taking the highest precedence.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("CADENZA_", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(configPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range defaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths lists the paths parsed as comma-separated slices when
// they arrive from env vars.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}
		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps CADENZA_-stripped env var names to config paths.
// Unmapped names are dropped so stray variables cannot pollute the
// configuration.
var envMappings = map[string]string{
	"server_host":              "server.host",
	"server_port":              "server.port",
	"server_timeout":           "server.timeout",
	"server_cors_origins":      "server.cors_origins",
	"server_rate_limit":        "server.rate_limit",
	"server_rate_limit_window": "server.rate_limit_window",

	"spotify_client_id":           "spotify.client_id",
	"spotify_client_secret":       "spotify.client_secret",
	"spotify_playlist_id":         "spotify.playlist_id",
	"spotify_base_url":            "spotify.base_url",
	"spotify_token_url":           "spotify.token_url",
	"spotify_requests_per_second": "spotify.requests_per_second",
	"spotify_burst":               "spotify.burst",

	"catalog_database_path":    "catalog.database_path",
	"catalog_refresh_on_start": "catalog.refresh_on_start",
	"catalog_seed":             "catalog.seed",

	"fusion_weight_face":   "fusion.weights.face",
	"fusion_weight_speech": "fusion.weights.speech",
	"fusion_weight_text":   "fusion.weights.text",

	"face_base_url": "face.base_url",
	"face_timeout":  "face.timeout",

	"text_model_path":          "text.model_path",
	"text_vocab_path":          "text.vocab_path",
	"text_max_sequence_length": "text.max_sequence_length",

	"worker_count":             "worker.count",
	"worker_queue_size":        "worker.queue_size",
	"worker_preview_analysis":  "worker.preview_analysis",
	"worker_max_preview_bytes": "worker.max_preview_bytes",

	"log_level":  "logging.level",
	"log_format": "logging.format",
}

func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, "CADENZA_"))
	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return ""
}
