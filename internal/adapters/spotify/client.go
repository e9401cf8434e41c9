// Package spotify implements the catalog source port against the
// Spotify Web API using the client-credentials flow.
package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"github.com/ewilliams-labs/cadenza/internal/core/domain"
	"github.com/ewilliams-labs/cadenza/internal/core/ports"
)

const artistBatchSize = 50

// Config holds the connection settings for the Spotify client.
type Config struct {
	ClientID          string
	ClientSecret      string
	PlaylistID        string
	BaseURL           string
	TokenURL          string
	RequestsPerSecond float64
	Burst             int
}

// Client is an HTTP client for the Spotify adapter. Token refresh is
// handled by the oauth2 transport; outbound calls go through a rate
// limiter and a circuit breaker.
type Client struct {
	httpClient *http.Client
	baseURL    string
	playlistID string
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[*http.Response]
	logger     zerolog.Logger

	maxRetries  int
	baseBackoff time.Duration
}

// compile-time interface assertion
var _ ports.CatalogSource = (*Client)(nil)

// NewClient constructs a new Spotify client.
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	creds := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
	}
	httpClient := creds.Client(context.Background())
	httpClient.Timeout = 30 * time.Second

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 10
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	breaker := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        "spotify",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	})

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		playlistID: cfg.PlaylistID,
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		breaker:    breaker,
		logger:     logger,
	}
}

// FetchPlaylist pulls the configured playlist with all paging followed and
// maps every playable entry to a domain track. Valence and energy are
// estimated from the lead artist's genres.
func (c *Client) FetchPlaylist(ctx context.Context) ([]domain.Track, error) {
	if c.playlistID == "" {
		return nil, fmt.Errorf("spotify adapter: no playlist configured")
	}

	// 1. Fetch the playlist with its first page of tracks.
	var playlist wirePlaylist
	if err := c.getJSON(ctx, fmt.Sprintf("%s/playlists/%s", c.baseURL, c.playlistID), &playlist); err != nil {
		return nil, fmt.Errorf("spotify adapter: fetch playlist: %w", err)
	}
	items := playlist.Tracks.Items

	// 2. Follow the paging cursor until exhausted.
	next := playlist.Tracks.Next
	for next != "" {
		var page wireTrackPage
		if err := c.getJSON(ctx, next, &page); err != nil {
			return nil, fmt.Errorf("spotify adapter: fetch playlist page: %w", err)
		}
		items = append(items, page.Items...)
		next = page.Next
	}
	c.logger.Info().Int("items", len(items)).Msg("fetched playlist tracks")

	// 3. Resolve lead-artist genres in batches.
	genresByArtist, err := c.fetchLeadArtistGenres(ctx, items)
	if err != nil {
		return nil, err
	}

	// 4. Map to domain tracks with estimated features.
	tracks := make([]domain.Track, 0, len(items))
	for _, item := range items {
		if item.Track == nil {
			continue
		}
		tracks = append(tracks, buildTrack(*item.Track, genresByArtist[leadArtistID(*item.Track)]))
	}
	return tracks, nil
}

// fetchLeadArtistGenres collects the distinct lead-artist IDs and resolves
// their genre tags through the batched artists endpoint.
func (c *Client) fetchLeadArtistGenres(ctx context.Context, items []wirePlaylistItem) (map[string][]string, error) {
	seen := make(map[string]struct{})
	var ids []string
	for _, item := range items {
		if item.Track == nil {
			continue
		}
		id := leadArtistID(*item.Track)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	c.logger.Info().Int("artists", len(ids)).Msg("resolving artist genres")

	genres := make(map[string][]string, len(ids))
	for start := 0; start < len(ids); start += artistBatchSize {
		end := start + artistBatchSize
		if end > len(ids) {
			end = len(ids)
		}

		query := url.Values{}
		query.Set("ids", strings.Join(ids[start:end], ","))

		var batch wireArtistsResponse
		if err := c.getJSON(ctx, fmt.Sprintf("%s/artists?%s", c.baseURL, query.Encode()), &batch); err != nil {
			return nil, fmt.Errorf("spotify adapter: fetch artists: %w", err)
		}
		for _, artist := range batch.Artists {
			genres[artist.ID] = artist.Genres
		}
	}
	return genres, nil
}

// getJSON issues a GET through the retry layer and decodes the body.
func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func leadArtistID(t wireTrack) string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0].ID
}

// buildTrack maps a wire track plus its lead artist's genres to the
// domain representation.
func buildTrack(t wireTrack, genres []string) domain.Track {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.Name)
	}

	imageURL := ""
	if len(t.Album.Images) > 0 {
		imageURL = t.Album.Images[0].URL
	}

	return domain.Track{
		ID:         t.ID,
		Title:      t.Name,
		Artist:     strings.Join(names, ", "),
		Album:      t.Album.Name,
		ImageURL:   imageURL,
		PreviewURL: t.PreviewURL,
		URL:        t.ExternalURLs["spotify"],
		DurationMs: t.DurationMs,
		Features:   estimateFeatures(genres),
	}
}
