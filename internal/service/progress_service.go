package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/store"
)

// ProgressService persists and restores learner progress snapshots.
type ProgressService struct {
	progress store.ProgressStore
	logger   *slog.Logger
}

// NewProgressService creates a new ProgressService.
func NewProgressService(progress store.ProgressStore, logger *slog.Logger) *ProgressService {
	if progress == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("progress store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ProgressService{
		progress: progress,
		logger:   logger.With(slog.String("component", "progress_service")),
	}
}

// Save validates and stores a progress snapshot for the user.
func (s *ProgressService) Save(ctx context.Context, userID uuid.UUID, snap store.ProgressSnapshot) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for i := range snap.Nodes {
		if snap.Nodes[i].ID == "" {
			return fmt.Errorf("%w: node %d has empty ID", store.ErrInvalidEntity, i)
		}
	}
	for i := range snap.Edges {
		if snap.Edges[i].SourceID == "" || snap.Edges[i].TargetID == "" {
			return fmt.Errorf("%w: edge %d has empty endpoint", store.ErrInvalidEntity, i)
		}
	}

	if err := s.progress.SaveSnapshot(ctx, userID, snap); err != nil {
		return err
	}

	log.Info("progress snapshot saved",
		slog.String("user_id", userID.String()),
		slog.Int("node_count", len(snap.Nodes)),
		slog.Int("edge_count", len(snap.Edges)))
	return nil
}

// Load retrieves the stored snapshot for the user. A user with no
// stored progress gets an empty snapshot.
func (s *ProgressService) Load(ctx context.Context, userID uuid.UUID) (store.ProgressSnapshot, error) {
	return s.progress.GetSnapshot(ctx, userID)
}
