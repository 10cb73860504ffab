// Package syncstate persists the change-detection state between runs.
package syncstate

import (
	"context"
	"fmt"

	"sheetsync/internal/config"
	"sheetsync/internal/models"
)

// Store reads and writes the single SyncState record.
//
// Load returns (nil, nil) when no state has been saved yet; a missing record
// is the normal first-run condition, not an error.
type Store interface {
	Load(ctx context.Context) (*models.SyncState, error)
	Save(ctx context.Context, state *models.SyncState) error
	Close() error
}

// Open creates the store selected by cfg.Backend.
func Open(ctx context.Context, cfg config.StateConfig) (Store, error) {
	switch cfg.Backend {
	case config.StateBackendFile:
		return NewFileStore(cfg.Path)
	case config.StateBackendSQLite:
		return NewSQLiteStore(ctx, cfg.Path, cfg.Key)
	case config.StateBackendRedis:
		return NewRedisStore(ctx, cfg.RedisURL, cfg.Key)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidStateBackend, cfg.Backend)
	}
}
