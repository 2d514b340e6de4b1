package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
)

// ScriptRequestStore defines persistence operations for script
// generation requests and their generated results.
type ScriptRequestStore interface {
	// Create saves a new pending request.
	Create(ctx context.Context, req *domain.ScriptRequest) error

	// GetByID retrieves a request by ID. Returns
	// ErrScriptRequestNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ScriptRequest, error)

	// UpdateStatus transitions a request's status.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ScriptRequestStatus) error

	// SaveResult stores the generated script for a completed request.
	SaveResult(ctx context.Context, id uuid.UUID, script *domain.Script) error

	// GetResult loads the generated script for a request. Returns
	// ErrScriptNotReady if generation has not completed.
	GetResult(ctx context.Context, id uuid.UUID) (*domain.Script, error)
}
