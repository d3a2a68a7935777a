package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"reelbox/internal/config"
	"reelbox/internal/repository"
)

type backoffConfig struct {
	pingTimeout    time.Duration
	maxWait        time.Duration
	initialBackoff time.Duration
	maxBackoff     time.Duration
}

var startupBackoff = backoffConfig{
	pingTimeout:    5 * time.Second,
	maxWait:        30 * time.Second,
	initialBackoff: 500 * time.Millisecond,
	maxBackoff:     5 * time.Second,
}

// waitForPing retries ping until the instance responds or maxWait elapses.
func waitForPing(ctx context.Context, cfg backoffConfig, ping func(context.Context) error) error {
	deadline := time.Now().Add(cfg.maxWait)
	backoff := cfg.initialBackoff
	var lastErr error

	for {
		pingCtx, cancel := context.WithTimeout(ctx, cfg.pingTimeout)
		lastErr = ping(pingCtx)
		cancel()

		if lastErr == nil {
			return nil
		}

		// Respect caller cancellation.
		if ctx.Err() != nil {
			break
		}

		if time.Now().After(deadline) {
			break
		}

		log.Debug().Err(lastErr).Dur("backoff", backoff).Msg("store not ready, retrying")

		select {
		case <-ctx.Done():
			return fmt.Errorf("ping: %w", ctx.Err())
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > cfg.maxBackoff {
			backoff = cfg.maxBackoff
		}
	}

	return fmt.Errorf("ping: %w", lastErr)
}

// store bundles the playlist repository with the handle that owns its connection.
type store struct {
	repo  repository.PlaylistRepository
	close func(context.Context) error
}

// openStore connects to the backend selected by STORE_DRIVER.
func openStore(ctx context.Context, cfg *config.Config) (*store, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		return &store{
			repo:  repository.NewInMemoryRepository(),
			close: func(context.Context) error { return nil },
		}, nil

	case config.DriverPostgres:
		db, err := openPostgres(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, err
		}
		return &store{
			repo:  repository.NewPostgresRepository(db),
			close: func(context.Context) error { return db.Close() },
		}, nil

	case config.DriverMongo:
		client, err := openMongo(ctx, cfg.Mongo.URI)
		if err != nil {
			return nil, err
		}
		collection := client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)
		return &store{
			repo:  repository.NewMongoRepository(collection),
			close: client.Disconnect,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}

// openPostgres opens a database/sql handle on the pgx driver and waits for it to respond.
func openPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := waitForPing(ctx, startupBackoff, db.PingContext); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, nil
}

// openMongo creates a client for uri and waits for the primary to respond.
func openMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	ping := func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	}
	if err := waitForPing(ctx, startupBackoff, ping); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	return client, nil
}
