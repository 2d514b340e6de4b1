package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/store"
)

// PostgresProgressStore implements the store.ProgressStore interface
// using a PostgreSQL database as the storage backend. Each user has at
// most one progress row holding the serialized unit network.
type PostgresProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProgressStore creates a new PostgreSQL implementation of
// the ProgressStore interface.
func NewPostgresProgressStore(db store.DBTX, logger *slog.Logger) *PostgresProgressStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

// Ensure PostgresProgressStore implements store.ProgressStore
var _ store.ProgressStore = (*PostgresProgressStore)(nil)

// SaveSnapshot implements store.ProgressStore.SaveSnapshot. The whole
// network is upserted as a single JSONB document keyed by user.
func (s *PostgresProgressStore) SaveSnapshot(ctx context.Context, userID uuid.UUID, snap store.ProgressSnapshot) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal progress snapshot: %w", err)
	}

	query := `
		INSERT INTO user_progress (user_id, snapshot, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id)
		DO UPDATE SET snapshot = EXCLUDED.snapshot, updated_at = EXCLUDED.updated_at
	`
	_, err = s.db.ExecContext(ctx, query, userID, payload, time.Now().UTC())
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: user does not exist", store.ErrInvalidEntity)
		}
		log.Error("failed to save progress snapshot",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return fmt.Errorf("failed to save progress snapshot: %w", err)
	}

	return nil
}

// GetSnapshot implements store.ProgressStore.GetSnapshot. A user with
// no stored row gets a zero-value snapshot.
func (s *PostgresProgressStore) GetSnapshot(ctx context.Context, userID uuid.UUID) (store.ProgressSnapshot, error) {
	query := `
		SELECT snapshot
		FROM user_progress
		WHERE user_id = $1
	`

	var payload []byte
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.ProgressSnapshot{}, nil
		}
		return store.ProgressSnapshot{}, fmt.Errorf("failed to get progress snapshot: %w", err)
	}

	var snap store.ProgressSnapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return store.ProgressSnapshot{}, fmt.Errorf("failed to unmarshal progress snapshot: %w", err)
	}

	return snap, nil
}
