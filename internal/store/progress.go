package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
)

// ProgressSnapshot is the persisted form of a user's unit network.
type ProgressSnapshot struct {
	Nodes []domain.UnitNode `json:"nodes"`
	Edges []domain.UnitEdge `json:"edges"`
}

// ProgressStore defines persistence operations for learner progress.
// Snapshots are whole-network upserts: the engine rebuilds its model
// from the stream, then persists the resulting graph in one call.
type ProgressStore interface {
	// SaveSnapshot replaces the stored snapshot for the user.
	SaveSnapshot(ctx context.Context, userID uuid.UUID, snap ProgressSnapshot) error

	// GetSnapshot loads the stored snapshot for the user. A user with
	// no stored progress gets an empty snapshot, not an error.
	GetSnapshot(ctx context.Context, userID uuid.UUID) (ProgressSnapshot, error)
}
