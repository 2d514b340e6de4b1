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
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/store"
)

// PostgresScriptRequestStore implements the store.ScriptRequestStore
// interface using a PostgreSQL database as the storage backend. The
// generated script is stored as JSONB alongside the request row.
type PostgresScriptRequestStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresScriptRequestStore creates a new PostgreSQL implementation
// of the ScriptRequestStore interface.
func NewPostgresScriptRequestStore(db store.DBTX, logger *slog.Logger) *PostgresScriptRequestStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresScriptRequestStore{
		db:     db,
		logger: logger.With(slog.String("component", "script_request_store")),
	}
}

// Ensure PostgresScriptRequestStore implements store.ScriptRequestStore
var _ store.ScriptRequestStore = (*PostgresScriptRequestStore)(nil)

// Create implements store.ScriptRequestStore.Create.
func (s *PostgresScriptRequestStore) Create(ctx context.Context, req *domain.ScriptRequest) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO script_requests (id, user_id, config, max_units, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		req.ID,
		req.UserID,
		[]byte(req.Config),
		req.MaxUnits,
		string(req.Status),
		req.CreatedAt,
		req.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: user does not exist", store.ErrInvalidEntity)
		}
		log.Error("failed to create script request",
			slog.String("error", err.Error()),
			slog.String("request_id", req.ID.String()))
		return fmt.Errorf("failed to create script request: %w", err)
	}

	return nil
}

// GetByID implements store.ScriptRequestStore.GetByID.
func (s *PostgresScriptRequestStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ScriptRequest, error) {
	query := `
		SELECT id, user_id, config, max_units, status, created_at, updated_at
		FROM script_requests
		WHERE id = $1
	`

	var req domain.ScriptRequest
	var config []byte
	var status string
	var createdAt, updatedAt time.Time

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&req.ID, &req.UserID, &config, &req.MaxUnits, &status, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrScriptRequestNotFound
		}
		return nil, fmt.Errorf("failed to get script request: %w", err)
	}

	req.Config = json.RawMessage(config)
	req.Status = domain.ScriptRequestStatus(status)
	req.CreatedAt = createdAt
	req.UpdatedAt = updatedAt
	return &req, nil
}

// UpdateStatus implements store.ScriptRequestStore.UpdateStatus.
func (s *PostgresScriptRequestStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ScriptRequestStatus) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE script_requests
		SET status = $2, updated_at = $3
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, id, string(status), time.Now().UTC())
	if err != nil {
		log.Error("failed to update script request status",
			slog.String("error", err.Error()),
			slog.String("request_id", id.String()),
			slog.String("status", string(status)))
		return fmt.Errorf("failed to update script request status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return store.ErrScriptRequestNotFound
	}

	return nil
}

// SaveResult implements store.ScriptRequestStore.SaveResult. It stores
// the generated script and marks the request completed in one update.
func (s *PostgresScriptRequestStore) SaveResult(ctx context.Context, id uuid.UUID, script *domain.Script) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	payload, err := json.Marshal(script)
	if err != nil {
		return fmt.Errorf("failed to marshal script: %w", err)
	}

	query := `
		UPDATE script_requests
		SET result = $2, status = $3, updated_at = $4
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, id, payload,
		string(domain.ScriptRequestStatusCompleted), time.Now().UTC())
	if err != nil {
		log.Error("failed to save script result",
			slog.String("error", err.Error()),
			slog.String("request_id", id.String()))
		return fmt.Errorf("failed to save script result: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return store.ErrScriptRequestNotFound
	}

	return nil
}

// GetResult implements store.ScriptRequestStore.GetResult.
func (s *PostgresScriptRequestStore) GetResult(ctx context.Context, id uuid.UUID) (*domain.Script, error) {
	query := `
		SELECT result
		FROM script_requests
		WHERE id = $1
	`

	var payload []byte
	err := s.db.QueryRowContext(ctx, query, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrScriptRequestNotFound
		}
		return nil, fmt.Errorf("failed to get script result: %w", err)
	}

	if len(payload) == 0 {
		return nil, store.ErrScriptNotReady
	}

	var script domain.Script
	if err := json.Unmarshal(payload, &script); err != nil {
		return nil, fmt.Errorf("failed to unmarshal script result: %w", err)
	}

	return &script, nil
}
