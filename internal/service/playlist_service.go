package service

import (
	"context"
	"errors"
	"fmt"

	"reelbox/internal/events"
	"reelbox/internal/logging"
	"reelbox/internal/models"
	"reelbox/internal/repository"
)

// Domain errors returned by PlaylistService. Callers match them with errors.Is.
var (
	ErrNotFound     = errors.New("playlist not found")
	ErrUpdateFailed = errors.New("failed to update playlist")
	ErrDeleteFailed = errors.New("failed to delete playlist")
)

// PlaylistService coordinates playlist operations.
type PlaylistService struct {
	repo      repository.PlaylistRepository
	publisher events.Publisher
}

// New creates a PlaylistService. A nil publisher disables change events.
func New(repo repository.PlaylistRepository, publisher events.Publisher) *PlaylistService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &PlaylistService{repo: repo, publisher: publisher}
}

// List returns every stored playlist.
func (s *PlaylistService) List(ctx context.Context) ([]models.PlaylistView, error) {
	playlists, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	return models.ToViews(playlists), nil
}

// Get returns a playlist by id.
func (s *PlaylistService) Get(ctx context.Context, id string) (models.PlaylistView, error) {
	playlist, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPlaylistNotFound) {
			return models.PlaylistView{}, ErrNotFound
		}
		return models.PlaylistView{}, fmt.Errorf("get playlist: %w", err)
	}
	return models.ToView(playlist), nil
}

// Create stores a new playlist and returns its assigned id.
func (s *PlaylistService) Create(ctx context.Context, playlist *models.Playlist) (string, error) {
	id, err := s.repo.Create(ctx, playlist)
	if err != nil {
		return "", fmt.Errorf("create playlist: %w", err)
	}

	s.publish(ctx, events.Event{
		Type:       events.PlaylistCreated,
		PlaylistID: id,
		Name:       playlist.Name,
		Movies:     playlist.Movies,
	})
	return id, nil
}

// Update merges playlist.Movies into the stored playlist. The name is never changed.
// An update that matches no playlist succeeds without publishing an event.
func (s *PlaylistService) Update(ctx context.Context, playlist *models.Playlist) error {
	matched, err := s.repo.AddMovies(ctx, playlist.ID, playlist.Movies)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrWriteNotAcknowledged):
		return fmt.Errorf("%w: %v", ErrUpdateFailed, err)
	default:
		return fmt.Errorf("update playlist: %w", err)
	}
	if !matched {
		return nil
	}

	s.publish(ctx, events.Event{
		Type:       events.PlaylistUpdated,
		PlaylistID: playlist.ID,
		Movies:     playlist.Movies,
	})
	return nil
}

// Delete removes a playlist by id.
func (s *PlaylistService) Delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrPlaylistNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrWriteNotAcknowledged):
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	default:
		return fmt.Errorf("delete playlist: %w", err)
	}

	s.publish(ctx, events.Event{Type: events.PlaylistDeleted, PlaylistID: id})
	return nil
}

func (s *PlaylistService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		logging.FromContext(ctx).Warn().
			Err(err).
			Str("event", event.Type).
			Str("playlist_id", event.PlaylistID).
			Msg("failed to publish playlist event")
	}
}
