// Package sqlite provides the SQLite-backed implementation of the
// catalog store port.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously

	"github.com/ewilliams-labs/cadenza/internal/core/domain"
	"github.com/ewilliams-labs/cadenza/internal/core/ports"
)

// Store implements the catalog store port for SQLite.
type Store struct {
	db *sql.DB
}

var _ ports.CatalogStore = (*Store)(nil)

// NewStore creates a connection and runs the schema migration. The parent
// directory is created for plain file paths.
func NewStore(storagePath string) (*Store, error) {
	if dir := filepath.Dir(storagePath); dir != "." && !strings.HasPrefix(storagePath, "file:") && storagePath != ":memory:" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return store, nil
}

// Close ensures the DB connection is closed gracefully
func (s *Store) Close() error {
	return s.db.Close()
}

// ReplaceAll swaps the cached catalog for the given tracks in one
// transaction. Playlist order and duplicate entries survive via the
// position column.
func (s *Store) ReplaceAll(ctx context.Context, tracks []domain.Track) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Safety net: auto-rollback if we error/panic before commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM catalog_tracks"); err != nil {
		return fmt.Errorf("failed to clear old catalog: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO catalog_tracks (
			track_id, title, artist, album, image_url, preview_url, url, duration_ms,
			valence, energy, tempo, danceability, acousticness, key_signature, mode
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range tracks {
		var valence, energy, tempo, danceability, acousticness sql.NullFloat64
		var keySignature, mode sql.NullInt64
		if t.Features != nil {
			valence = sql.NullFloat64{Float64: t.Features.Valence, Valid: true}
			energy = sql.NullFloat64{Float64: t.Features.Energy, Valid: true}
			tempo = sql.NullFloat64{Float64: t.Features.Tempo, Valid: true}
			danceability = sql.NullFloat64{Float64: t.Features.Danceability, Valid: true}
			acousticness = sql.NullFloat64{Float64: t.Features.Acousticness, Valid: true}
			keySignature = sql.NullInt64{Int64: int64(t.Features.Key), Valid: true}
			mode = sql.NullInt64{Int64: int64(t.Features.Mode), Valid: true}
		}
		if _, err := stmt.ExecContext(
			ctx,
			t.ID,
			t.Title,
			t.Artist,
			t.Album,
			t.ImageURL,
			t.PreviewURL,
			t.URL,
			t.DurationMs,
			valence,
			energy,
			tempo,
			danceability,
			acousticness,
			keySignature,
			mode,
		); err != nil {
			return fmt.Errorf("failed to save track %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("transaction commit failed: %w", err)
	}
	return nil
}

// LoadAll returns the cached catalog in stored playlist order. Tracks with
// unknown valence or energy come back without features.
func (s *Store) LoadAll(ctx context.Context) ([]domain.Track, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT track_id, title, artist, album, image_url, preview_url, url, duration_ms,
			valence, energy, tempo, danceability, acousticness, key_signature, mode
		FROM catalog_tracks
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	defer rows.Close()

	var tracks []domain.Track
	for rows.Next() {
		var t domain.Track
		var album, imageURL, previewURL, url sql.NullString
		var duration sql.NullInt64
		var valence, energy, tempo, danceability, acousticness sql.NullFloat64
		var keySignature, mode sql.NullInt64
		if err := rows.Scan(
			&t.ID,
			&t.Title,
			&t.Artist,
			&album,
			&imageURL,
			&previewURL,
			&url,
			&duration,
			&valence,
			&energy,
			&tempo,
			&danceability,
			&acousticness,
			&keySignature,
			&mode,
		); err != nil {
			return nil, fmt.Errorf("failed to scan catalog track: %w", err)
		}
		if album.Valid {
			t.Album = album.String
		}
		if imageURL.Valid {
			t.ImageURL = imageURL.String
		}
		if previewURL.Valid {
			t.PreviewURL = previewURL.String
		}
		if url.Valid {
			t.URL = url.String
		}
		if duration.Valid {
			t.DurationMs = int(duration.Int64)
		}
		if valence.Valid && energy.Valid {
			t.Features = &domain.AudioFeatures{
				Valence:      valence.Float64,
				Energy:       energy.Float64,
				Tempo:        tempo.Float64,
				Danceability: danceability.Float64,
				Acousticness: acousticness.Float64,
				Key:          int(keySignature.Int64),
				Mode:         int(mode.Int64),
			}
		}
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate catalog tracks: %w", err)
	}
	return tracks, nil
}

// UpdateEnergy writes a refined energy value for every stored entry of the
// track.
func (s *Store) UpdateEnergy(ctx context.Context, trackID string, energy float64) error {
	if _, err := s.db.ExecContext(
		ctx,
		"UPDATE catalog_tracks SET energy = ? WHERE track_id = ?",
		energy,
		trackID,
	); err != nil {
		return fmt.Errorf("failed to update track energy: %w", err)
	}
	return nil
}

func (s *Store) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS catalog_tracks (
		position INTEGER PRIMARY KEY,
		track_id TEXT NOT NULL,
		title TEXT NOT NULL,
		artist TEXT NOT NULL,
		album TEXT,
		image_url TEXT,
		preview_url TEXT,
		url TEXT,
		duration_ms INTEGER,
		valence REAL,
		energy REAL,
		tempo REAL,
		danceability REAL,
		acousticness REAL,
		key_signature INTEGER,
		mode INTEGER,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_catalog_tracks_track_id ON catalog_tracks(track_id);
	`
	if _, err := s.db.Exec(query); err != nil {
		return err
	}

	if _, err := s.db.Exec("ALTER TABLE catalog_tracks ADD COLUMN url TEXT"); err != nil {
		if !isDuplicateColumnError(err) {
			return err
		}
	}

	return nil
}

func isDuplicateColumnError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "duplicate column") || strings.Contains(err.Error(), "already exists"))
}
