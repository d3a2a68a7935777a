package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"reelbox/internal/models"
)

const (
	listPlaylistsQuery = `
		SELECT id, name, movies
		FROM playlists
		ORDER BY created_at, id`

	getPlaylistQuery = `
		SELECT id, name, movies
		FROM playlists
		WHERE id = $1`

	insertPlaylistQuery = `
		INSERT INTO playlists (id, name, movies)
		VALUES ($1, $2, $3)`

	// Appends the input movies that are not stored yet, once each, in input order.
	addMoviesQuery = `
		UPDATE playlists
		SET movies = movies || ARRAY(
			SELECT m
			FROM unnest($2::text[]) WITH ORDINALITY AS input(m, ord)
			WHERE NOT (m = ANY(movies))
			GROUP BY m
			ORDER BY min(ord)
		)
		WHERE id = $1`

	deletePlaylistQuery = `
		DELETE FROM playlists
		WHERE id = $1`
)

// PostgresRepository persists playlists in PostgreSQL with movies in a text[] column.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a repository backed by PostgreSQL.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns all playlists in creation order.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Playlist, error) {
	rows, err := r.db.QueryContext(ctx, listPlaylistsQuery)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	defer rows.Close()

	playlists := []*models.Playlist{}
	for rows.Next() {
		var playlist models.Playlist
		if err := rows.Scan(&playlist.ID, &playlist.Name, pq.Array(&playlist.Movies)); err != nil {
			return nil, fmt.Errorf("scan playlist: %w", err)
		}
		if playlist.Movies == nil {
			playlist.Movies = []string{}
		}
		playlists = append(playlists, &playlist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate playlists: %w", err)
	}
	return playlists, nil
}

// Get returns a single playlist.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Playlist, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrPlaylistNotFound
	}

	var playlist models.Playlist
	err := r.db.QueryRowContext(ctx, getPlaylistQuery, id).
		Scan(&playlist.ID, &playlist.Name, pq.Array(&playlist.Movies))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlaylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get playlist: %w", err)
	}
	if playlist.Movies == nil {
		playlist.Movies = []string{}
	}
	return &playlist, nil
}

// Create inserts a playlist under a new UUID.
func (r *PostgresRepository) Create(ctx context.Context, playlist *models.Playlist) (string, error) {
	if playlist == nil {
		return "", errors.New("playlist is required")
	}

	movies := playlist.Movies
	if movies == nil {
		movies = []string{}
	}

	id := uuid.NewString()
	if _, err := r.db.ExecContext(ctx, insertPlaylistQuery, id, playlist.Name, pq.Array(movies)); err != nil {
		return "", fmt.Errorf("insert playlist: %w", err)
	}
	playlist.ID = id
	return id, nil
}

// AddMovies merges movies into the stored array in a single statement.
func (r *PostgresRepository) AddMovies(ctx context.Context, id string, movies []string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}
	if movies == nil {
		movies = []string{}
	}

	res, err := r.db.ExecContext(ctx, addMoviesQuery, id, pq.Array(movies))
	if err != nil {
		return false, classifyExecError("update playlist", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update playlist rows affected: %w", err)
	}
	return affected > 0, nil
}

// Delete removes a playlist.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrPlaylistNotFound
	}

	res, err := r.db.ExecContext(ctx, deletePlaylistQuery, id)
	if err != nil {
		return classifyExecError("delete playlist", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete playlist rows affected: %w", err)
	}
	if affected == 0 {
		return ErrPlaylistNotFound
	}
	return nil
}

// classifyExecError maps statements the server rejected to
// ErrWriteNotAcknowledged and leaves connection failures as they are.
func classifyExecError(op string, err error) error {
	var pgErr *pgconn.PgError
	var pqErr *pq.Error
	if errors.As(err, &pgErr) || errors.As(err, &pqErr) {
		return fmt.Errorf("%s: %w: %v", op, ErrWriteNotAcknowledged, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Ping verifies the connection.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
