package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/store"
	"github.com/phrazzld/lingo-api/internal/task"
)

// ExecuteRebuilder turns a persisted task row back into runnable
// logic. It receives the stored type and payload and returns the
// execution closure for a recovered task.
type ExecuteRebuilder func(taskType string, payload []byte) (func(ctx context.Context) error, error)

// PostgresTaskStore implements the task.TaskStore interface using
// PostgreSQL. Recovered rows are wrapped in databaseTask values whose
// execution logic is supplied by the configured rebuilder.
type PostgresTaskStore struct {
	db      store.DBTX
	rebuild ExecuteRebuilder
	logger  *slog.Logger
}

// NewPostgresTaskStore creates a new PostgresTaskStore.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements task.TaskStore
var _ task.TaskStore = (*PostgresTaskStore)(nil)

// SetExecuteRebuilder installs the function used to reconstruct
// execution logic for tasks loaded from the database. Must be called
// before the runner recovers tasks, or recovered tasks fail on
// Execute.
func (s *PostgresTaskStore) SetExecuteRebuilder(rebuild ExecuteRebuilder) {
	s.rebuild = rebuild
}

// WithTx implements task.TaskStore.WithTx, returning a store bound to
// the given transaction. The rebuilder carries over.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) task.TaskStore {
	return &PostgresTaskStore{
		db:      tx,
		rebuild: s.rebuild,
		logger:  s.logger,
	}
}

// SaveTask persists a task to the database.
func (s *PostgresTaskStore) SaveTask(ctx context.Context, t task.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO tasks (id, type, payload, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, query,
		t.ID(),
		t.Type(),
		t.Payload(),
		string(t.Status()),
		now,
		now,
	)
	if err != nil {
		log.Error("failed to save task",
			slog.String("task_id", t.ID().String()),
			slog.String("task_type", t.Type()),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to save task: %w", err)
	}

	return nil
}

// UpdateTaskStatus updates the status of a task. A missing task is a
// no-op, so status writes for already-purged tasks do not fail the
// worker.
func (s *PostgresTaskStore) UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, status task.TaskStatus, errorMsg string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET status = $1, error_message = $2, updated_at = $3
		WHERE id = $4
	`
	result, err := s.db.ExecContext(ctx, query, string(status), errorMsg, time.Now().UTC(), taskID)
	if err != nil {
		log.Error("failed to update task status",
			slog.String("task_id", taskID.String()),
			slog.String("status", string(status)),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to update task status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		log.Warn("no task found to update status", slog.String("task_id", taskID.String()))
	}

	return nil
}

// GetPendingTasks retrieves all tasks with "pending" status.
func (s *PostgresTaskStore) GetPendingTasks(ctx context.Context) ([]task.Task, error) {
	return s.getTasksByStatus(ctx, task.TaskStatusPending, 0)
}

// GetProcessingTasks retrieves tasks with "processing" status.
func (s *PostgresTaskStore) GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]task.Task, error) {
	return s.getTasksByStatus(ctx, task.TaskStatusProcessing, olderThan)
}

// getTasksByStatus loads tasks in the given status, optionally limited
// to tasks untouched for longer than olderThan.
func (s *PostgresTaskStore) getTasksByStatus(ctx context.Context, status task.TaskStatus, olderThan time.Duration) ([]task.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, type, payload, status, error_message, created_at, updated_at
		FROM tasks
		WHERE status = $1
	`
	args := []any{string(status)}

	if olderThan > 0 {
		query += ` AND updated_at < $2`
		args = append(args, time.Now().UTC().Add(-olderThan))
	}
	query += ` ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks by status",
			slog.String("status", string(status)),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to query tasks by status: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []task.Task
	for rows.Next() {
		var (
			id           uuid.UUID
			taskType     string
			payload      []byte
			taskStatus   string
			errorMessage sql.NullString
			createdAt    time.Time
			updatedAt    time.Time
		)

		if err := rows.Scan(&id, &taskType, &payload, &taskStatus, &errorMessage, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}

		t := &databaseTask{
			id:           id,
			taskType:     taskType,
			payload:      payload,
			status:       task.TaskStatus(taskStatus),
			errorMessage: errorMessage.String,
			createdAt:    createdAt,
			updatedAt:    updatedAt,
		}

		if s.rebuild != nil {
			executeFn, err := s.rebuild(taskType, payload)
			if err != nil {
				log.Error("failed to rebuild task execution",
					slog.String("task_id", id.String()),
					slog.String("task_type", taskType),
					slog.String("error", err.Error()))
			} else {
				t.executeFn = executeFn
			}
		}

		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}

	return tasks, nil
}

// databaseTask implements the task.Task interface for tasks loaded
// from the database. It keeps the persisted identity and payload; the
// execution closure comes from the store's rebuilder.
type databaseTask struct {
	id           uuid.UUID
	taskType     string
	payload      []byte
	status       task.TaskStatus
	errorMessage string
	createdAt    time.Time
	updatedAt    time.Time
	executeFn    func(ctx context.Context) error
}

func (t *databaseTask) ID() uuid.UUID {
	return t.id
}

func (t *databaseTask) Type() string {
	return t.taskType
}

func (t *databaseTask) Payload() []byte {
	return t.payload
}

func (t *databaseTask) Status() task.TaskStatus {
	return t.status
}

// Execute runs the rebuilt execution logic.
func (t *databaseTask) Execute(ctx context.Context) error {
	if t.executeFn == nil {
		return fmt.Errorf("recovered task %s has no execution logic configured", t.id)
	}
	return t.executeFn(ctx)
}
