package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"reelbox/internal/models"
)

// InMemoryRepository stores playlists in-memory for development and tests.
type InMemoryRepository struct {
	mu        sync.RWMutex
	playlists map[string]*models.Playlist
	order     []string
}

// NewInMemoryRepository returns an empty repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		playlists: make(map[string]*models.Playlist),
	}
}

// List returns every playlist in insertion order.
func (r *InMemoryRepository) List(_ context.Context) ([]*models.Playlist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Playlist, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, clonePlaylist(r.playlists[id]))
	}
	return result, nil
}

// Get returns a playlist by id.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*models.Playlist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	playlist, ok := r.playlists[id]
	if !ok {
		return nil, ErrPlaylistNotFound
	}
	return clonePlaylist(playlist), nil
}

// Create persists a playlist under a fresh id.
func (r *InMemoryRepository) Create(_ context.Context, playlist *models.Playlist) (string, error) {
	if playlist == nil {
		return "", errors.New("playlist is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	playlist.ID = uuid.NewString()
	r.playlists[playlist.ID] = clonePlaylist(playlist)
	r.order = append(r.order, playlist.ID)

	return playlist.ID, nil
}

// AddMovies merges movies into an existing playlist.
func (r *InMemoryRepository) AddMovies(_ context.Context, id string, movies []string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.playlists[id]
	if !ok {
		return false, nil
	}
	existing.Movies = mergeMovies(existing.Movies, movies)
	return true, nil
}

// Delete removes a playlist by id.
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.playlists[id]; !ok {
		return ErrPlaylistNotFound
	}
	delete(r.playlists, id)
	for i, candidate := range r.order {
		if candidate == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Ping always succeeds.
func (r *InMemoryRepository) Ping(_ context.Context) error {
	return nil
}

func clonePlaylist(src *models.Playlist) *models.Playlist {
	if src == nil {
		return nil
	}
	clone := *src
	if src.Movies != nil {
		clone.Movies = make([]string, len(src.Movies))
		copy(clone.Movies, src.Movies)
	}
	return &clone
}
