package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
)

// Common errors
var (
	ErrNilScriptService = errors.New("script service cannot be nil")
	ErrEmptyRequestID   = errors.New("script request ID cannot be empty")
)

// ScriptService defines the operations the generation task needs: it
// loads the request, drives its status transitions, builds the script
// (consulting the cache first), and persists the result.
type ScriptService interface {
	// GetRequest retrieves a script request by its ID
	GetRequest(ctx context.Context, requestID uuid.UUID) (*domain.ScriptRequest, error)

	// UpdateRequestStatus transitions a request's status
	UpdateRequestStatus(ctx context.Context, requestID uuid.UUID, status domain.ScriptRequestStatus) error

	// BuildScript produces the script for a request, using the cache
	// when possible and falling back to the content generator
	BuildScript(ctx context.Context, req *domain.ScriptRequest) (*domain.Script, error)

	// SaveResult stores the generated script and marks the request completed
	SaveResult(ctx context.Context, requestID uuid.UUID, script *domain.Script) error
}

// scriptGenerationPayload represents the serialized data stored in the task.
type scriptGenerationPayload struct {
	RequestID uuid.UUID `json:"request_id"`
}

// ScriptGenerationTask implements the Task interface for generating a
// curriculum script from a pending script request.
type ScriptGenerationTask struct {
	id        uuid.UUID
	requestID uuid.UUID
	service   ScriptService
	logger    *slog.Logger
	status    TaskStatus
}

// NewScriptGenerationTask creates a new script generation task.
func NewScriptGenerationTask(
	requestID uuid.UUID,
	service ScriptService,
	logger *slog.Logger,
) (*ScriptGenerationTask, error) {
	if service == nil {
		return nil, ErrNilScriptService
	}
	if requestID == uuid.Nil {
		return nil, ErrEmptyRequestID
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ScriptGenerationTask{
		id:        uuid.New(),
		requestID: requestID,
		service:   service,
		logger: logger.With(
			slog.String("task_type", TaskTypeScriptGeneration),
			slog.String("request_id", requestID.String())),
		status: TaskStatusPending,
	}, nil
}

// ID returns the task's unique identifier.
func (t *ScriptGenerationTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier.
func (t *ScriptGenerationTask) Type() string {
	return TaskTypeScriptGeneration
}

// Payload returns the task data as a byte slice.
func (t *ScriptGenerationTask) Payload() []byte {
	data, err := json.Marshal(scriptGenerationPayload{RequestID: t.requestID})
	if err != nil {
		t.logger.Error("failed to marshal task payload", slog.String("error", err.Error()))
		return []byte{}
	}
	return data
}

// Status returns the current task status.
func (t *ScriptGenerationTask) Status() TaskStatus {
	return t.status
}

// Execute runs the full generation lifecycle: load the request, mark
// it processing, build the script, validate it, and save the result.
// On any failure the request is marked failed before returning.
func (t *ScriptGenerationTask) Execute(ctx context.Context) error {
	t.status = TaskStatusProcessing
	t.logger.Info("starting script generation task")

	if err := ctx.Err(); err != nil {
		t.status = TaskStatusFailed
		return fmt.Errorf("task cancelled by context: %w", err)
	}

	req, err := t.service.GetRequest(ctx, t.requestID)
	if err != nil {
		t.status = TaskStatusFailed
		t.logger.Error("failed to retrieve script request", slog.String("error", err.Error()))
		return fmt.Errorf("failed to retrieve script request: %w", err)
	}

	if err := t.service.UpdateRequestStatus(ctx, t.requestID, domain.ScriptRequestStatusProcessing); err != nil {
		t.status = TaskStatusFailed
		t.logger.Error("failed to update request status to processing", slog.String("error", err.Error()))
		return fmt.Errorf("failed to update request status to processing: %w", err)
	}

	script, err := t.service.BuildScript(ctx, req)
	if err != nil {
		_ = t.service.UpdateRequestStatus(ctx, t.requestID, domain.ScriptRequestStatusFailed)
		t.status = TaskStatusFailed
		t.logger.Error("failed to build script", slog.String("error", err.Error()))
		return fmt.Errorf("failed to build script: %w", err)
	}

	if err := script.Validate(); err != nil {
		_ = t.service.UpdateRequestStatus(ctx, t.requestID, domain.ScriptRequestStatusFailed)
		t.status = TaskStatusFailed
		t.logger.Error("generated script failed validation", slog.String("error", err.Error()))
		return fmt.Errorf("generated script failed validation: %w", err)
	}

	if err := t.service.SaveResult(ctx, t.requestID, script); err != nil {
		_ = t.service.UpdateRequestStatus(ctx, t.requestID, domain.ScriptRequestStatusFailed)
		t.status = TaskStatusFailed
		t.logger.Error("failed to save script result", slog.String("error", err.Error()))
		return fmt.Errorf("failed to save script result: %w", err)
	}

	t.status = TaskStatusCompleted
	t.logger.Info("script generation task completed",
		slog.Int("round_count", len(script.Rounds)))
	return nil
}
