package repository

import (
	"context"
	"errors"

	"reelbox/internal/models"
)

var (
	// ErrPlaylistNotFound is returned when no playlist matches an id.
	ErrPlaylistNotFound = errors.New("playlist not found")
	// ErrWriteNotAcknowledged is returned when the store did not confirm a write.
	ErrWriteNotAcknowledged = errors.New("write not acknowledged")
)

// PlaylistRepository defines storage operations for playlists.
type PlaylistRepository interface {
	List(ctx context.Context) ([]*models.Playlist, error)
	Get(ctx context.Context, id string) (*models.Playlist, error)
	// Create stores the playlist and returns the id assigned by the store.
	Create(ctx context.Context, playlist *models.Playlist) (string, error)
	// AddMovies merges movies into the stored set of the playlist with the
	// given id and reports whether a playlist matched. Matching nothing is
	// not an error; an id the backend cannot parse matches nothing.
	AddMovies(ctx context.Context, id string, movies []string) (bool, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// mergeMovies appends each movie not already present, keeping first-seen order.
func mergeMovies(existing, movies []string) []string {
	seen := make(map[string]struct{}, len(existing)+len(movies))
	merged := make([]string, 0, len(existing)+len(movies))
	for _, m := range existing {
		seen[m] = struct{}{}
		merged = append(merged, m)
	}
	for _, m := range movies {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		merged = append(merged, m)
	}
	return merged
}
