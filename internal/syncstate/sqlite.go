package syncstate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"sheetsync/internal/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS sync_state (
	key         TEXT PRIMARY KEY,
	last_sync   TEXT NOT NULL,
	songs_hash  TEXT NOT NULL,
	run_id      TEXT NOT NULL DEFAULT '',
	total_songs INTEGER NOT NULL DEFAULT 0,
	forced_sync INTEGER NOT NULL DEFAULT 0
)`

// SQLiteStore keeps the state as one row of a SQLite table.
type SQLiteStore struct {
	db  *sql.DB
	key string
}

// NewSQLiteStore opens (or creates) the database at path and ensures the schema.
func NewSQLiteStore(ctx context.Context, path, key string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}

	if key == "" {
		key = "default"
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating sync_state table: %w", err)
	}

	return &SQLiteStore{db: db, key: key}, nil
}

// Load reads the state row. A missing row yields (nil, nil).
func (s *SQLiteStore) Load(ctx context.Context) (*models.SyncState, error) {
	var (
		state    models.SyncState
		lastSync string
		forced   int
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT last_sync, songs_hash, run_id, total_songs, forced_sync FROM sync_state WHERE key = ?`,
		s.key,
	).Scan(&lastSync, &state.SongsHash, &state.RunID, &state.TotalSongs, &forced)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("querying sync state: %w", err)
	}

	state.LastSync, err = time.Parse(time.RFC3339Nano, lastSync)
	if err != nil {
		return nil, fmt.Errorf("parsing last_sync %q: %w", lastSync, err)
	}

	state.ForcedSync = forced != 0

	return &state, nil
}

// Save upserts the state row.
func (s *SQLiteStore) Save(ctx context.Context, state *models.SyncState) error {
	forced := 0
	if state.ForcedSync {
		forced = 1
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_state (key, last_sync, songs_hash, run_id, total_songs, forced_sync)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			last_sync = excluded.last_sync,
			songs_hash = excluded.songs_hash,
			run_id = excluded.run_id,
			total_songs = excluded.total_songs,
			forced_sync = excluded.forced_sync`,
		s.key,
		state.LastSync.UTC().Format(time.RFC3339Nano),
		state.SongsHash,
		state.RunID,
		state.TotalSongs,
		forced,
	)
	if err != nil {
		return fmt.Errorf("saving sync state: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
