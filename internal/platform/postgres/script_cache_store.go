package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/scriptcache"
	"github.com/phrazzld/lingo-api/internal/store"
)

// PostgresScriptCache implements the scriptcache.Cache interface on a
// PostgreSQL table, so generated scripts survive process restarts.
type PostgresScriptCache struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresScriptCache creates a new PostgreSQL-backed script cache.
func NewPostgresScriptCache(db store.DBTX, logger *slog.Logger) *PostgresScriptCache {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresScriptCache{
		db:     db,
		logger: logger.With(slog.String("component", "script_cache")),
	}
}

// Ensure PostgresScriptCache implements scriptcache.Cache
var _ scriptcache.Cache = (*PostgresScriptCache)(nil)

// Get implements scriptcache.Cache.Get. A missing key returns
// (nil, nil); callers treat any error as a miss anyway.
func (c *PostgresScriptCache) Get(ctx context.Context, key string) (*domain.Script, error) {
	query := `
		SELECT script
		FROM script_cache
		WHERE cache_key = $1
	`

	var payload []byte
	err := c.db.QueryRowContext(ctx, query, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cached script: %w", err)
	}

	var script domain.Script
	if err := json.Unmarshal(payload, &script); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached script: %w", err)
	}

	return &script, nil
}

// Put implements scriptcache.Cache.Put, upserting the entry so a key
// collision refreshes the stored script.
func (c *PostgresScriptCache) Put(ctx context.Context, key string, script *domain.Script) error {
	log := logger.FromContextOrDefault(ctx, c.logger)

	payload, err := json.Marshal(script)
	if err != nil {
		return fmt.Errorf("failed to marshal script for cache: %w", err)
	}

	query := `
		INSERT INTO script_cache (cache_key, script, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (cache_key)
		DO UPDATE SET script = EXCLUDED.script, created_at = EXCLUDED.created_at
	`
	_, err = c.db.ExecContext(ctx, query, key, payload, time.Now().UTC())
	if err != nil {
		log.Warn("failed to write script cache entry",
			slog.String("error", err.Error()),
			slog.String("cache_key", key))
		return fmt.Errorf("failed to write cached script: %w", err)
	}

	return nil
}
