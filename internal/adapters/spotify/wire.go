package spotify

// Wire types for the playlist and artist endpoints. Only the fields
// mapped into the domain are declared.

type wirePlaylist struct {
	Tracks wireTrackPage `json:"tracks"`
}

type wireTrackPage struct {
	Items []wirePlaylistItem `json:"items"`
	Next  string             `json:"next"`
}

type wirePlaylistItem struct {
	// Track is null for entries removed from the market.
	Track *wireTrack `json:"track"`
}

type wireTrack struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	DurationMs   int               `json:"duration_ms"`
	PreviewURL   string            `json:"preview_url"`
	Artists      []wireArtistRef   `json:"artists"`
	Album        wireAlbum         `json:"album"`
	ExternalURLs map[string]string `json:"external_urls"`
}

type wireArtistRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type wireAlbum struct {
	Name   string      `json:"name"`
	Images []wireImage `json:"images"`
}

type wireImage struct {
	URL string `json:"url"`
}

type wireArtistsResponse struct {
	Artists []wireArtist `json:"artists"`
}

type wireArtist struct {
	ID     string   `json:"id"`
	Genres []string `json:"genres"`
}
