package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/five82/pantry/internal/config"
	"github.com/five82/pantry/internal/docstore"
)

const (
	connectAttempts = 4
	connectBase     = 500 * time.Millisecond
	maxBackoff      = 5 * time.Second
)

// openDocstore opens the favorites backend named in cfg. The CouchDB backend
// is retried with backoff so a server that is still starting does not fail
// the launch.
func openDocstore(ctx context.Context, cfg config.Config, logger *slog.Logger) (docstore.Store, error) {
	if cfg.Favorites.Backend == config.BackendLocal {
		bolt, err := docstore.OpenBolt(cfg.FavoritesPath())
		if err != nil {
			return nil, fmt.Errorf("open local favorites: %w", err)
		}
		logger.Info("favorites backend ready", "backend", "local", "path", cfg.FavoritesPath())
		return bolt, nil
	}

	couchCfg := docstore.CouchConfig{
		URL:      cfg.Favorites.CouchDBURL,
		User:     cfg.Favorites.CouchDBUser,
		Password: cfg.Favorites.CouchDBPassword,
		Database: cfg.Favorites.CouchDBDatabase,
	}
	couch, err := retry(ctx, logger, "open couchdb", func(ctx context.Context) (*docstore.Couch, error) {
		return docstore.OpenCouch(ctx, couchCfg)
	})
	if err != nil {
		return nil, err
	}
	logger.Info("favorites backend ready", "backend", "couchdb", "database", couchCfg.Database)
	return couch, nil
}

// retry calls fn up to connectAttempts times, sleeping with exponential
// backoff between failures.
func retry[T any](ctx context.Context, logger *slog.Logger, op string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error
	for attempt := 0; attempt < connectAttempts; attempt++ {
		if attempt > 0 {
			wait := calculateBackoff(attempt-1, connectBase)
			logger.Warn(op+" failed, retrying", "attempt", attempt, "wait", wait, "error", lastErr)
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(wait):
			}
		}
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err
	}
	return zero, fmt.Errorf("%s: %w", op, lastErr)
}

// calculateBackoff doubles base for each failure, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	d := base
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}
