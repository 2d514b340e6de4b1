// Package service contains the application services that sit between
// the HTTP layer and the stores.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/events"
	"github.com/phrazzld/lingo-api/internal/generation"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/scriptcache"
	"github.com/phrazzld/lingo-api/internal/store"
	"github.com/phrazzld/lingo-api/internal/task"
)

// ScriptService coordinates script requests: accepting them, building
// scripts through the cache and generator, and serving results.
type ScriptService struct {
	requests      store.ScriptRequestStore
	cache         scriptcache.Cache
	generator     generation.ScriptGenerator
	emitter       events.Emitter
	schemaVersion int
	logger        *slog.Logger
}

// NewScriptService creates a new ScriptService.
func NewScriptService(
	requests store.ScriptRequestStore,
	cache scriptcache.Cache,
	generator generation.ScriptGenerator,
	emitter events.Emitter,
	schemaVersion int,
	logger *slog.Logger,
) *ScriptService {
	if requests == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("request store cannot be nil")
	}
	if generator == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("generator cannot be nil")
	}
	if schemaVersion == 0 {
		schemaVersion = scriptcache.DefaultSchemaVersion
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ScriptService{
		requests:      requests,
		cache:         cache,
		generator:     generator,
		emitter:       emitter,
		schemaVersion: schemaVersion,
		logger:        logger.With(slog.String("component", "script_service")),
	}
}

// Ensure ScriptService satisfies the background task's contract
var _ task.ScriptService = (*ScriptService)(nil)

// CreateRequest accepts a new script request, persists it as pending,
// and emits the event that triggers background generation.
func (s *ScriptService) CreateRequest(ctx context.Context, userID uuid.UUID, cfg json.RawMessage, maxUnits int) (*domain.ScriptRequest, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	req, err := domain.NewScriptRequest(userID, cfg, maxUnits)
	if err != nil {
		return nil, err
	}

	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	if s.emitter != nil {
		event := events.New(task.EventScriptGenerationRequested,
			task.GenerationRequested{RequestID: req.ID})
		if err := s.emitter.Emit(ctx, event); err != nil {
			log.Error("failed to emit generation event",
				slog.String("error", err.Error()),
				slog.String("request_id", req.ID.String()))
			return nil, fmt.Errorf("failed to schedule generation: %w", err)
		}
	}

	log.Info("script request accepted",
		slog.String("request_id", req.ID.String()),
		slog.String("user_id", userID.String()),
		slog.Int("max_units", maxUnits))

	return req, nil
}

// GetRequest retrieves a script request by its ID.
func (s *ScriptService) GetRequest(ctx context.Context, requestID uuid.UUID) (*domain.ScriptRequest, error) {
	return s.requests.GetByID(ctx, requestID)
}

// GetRequestForUser retrieves a request and verifies the caller owns
// it. An existing request owned by someone else reads as not found, so
// request IDs cannot be probed across accounts.
func (s *ScriptService) GetRequestForUser(ctx context.Context, requestID, userID uuid.UUID) (*domain.ScriptRequest, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.UserID != userID {
		return nil, store.ErrScriptRequestNotFound
	}
	return req, nil
}

// UpdateRequestStatus transitions a request's status.
func (s *ScriptService) UpdateRequestStatus(ctx context.Context, requestID uuid.UUID, status domain.ScriptRequestStatus) error {
	return s.requests.UpdateStatus(ctx, requestID, status)
}

// BuildScript produces the script for a request. The cache is
// consulted first; a hit skips generation entirely. Cache failures in
// either direction are logged and otherwise ignored, so a broken cache
// degrades to regeneration.
func (s *ScriptService) BuildScript(ctx context.Context, req *domain.ScriptRequest) (*domain.Script, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	key := scriptcache.Key(s.schemaVersion, req.Config, req.MaxUnits)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err != nil {
			log.Warn("script cache read failed, regenerating",
				slog.String("error", err.Error()),
				slog.String("cache_key", key))
		} else if cached != nil {
			log.Info("script cache hit",
				slog.String("cache_key", key),
				slog.String("request_id", req.ID.String()))
			return cached, nil
		}
	}

	script, err := s.generator.GenerateScript(ctx, req.Config, req.MaxUnits)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	if err := script.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, key, script); err != nil {
			log.Warn("script cache write failed",
				slog.String("error", err.Error()),
				slog.String("cache_key", key))
		}
	}

	return script, nil
}

// SaveResult stores the generated script and marks the request
// completed.
func (s *ScriptService) SaveResult(ctx context.Context, requestID uuid.UUID, script *domain.Script) error {
	return s.requests.SaveResult(ctx, requestID, script)
}

// GetResult loads the generated script for a request owned by the
// given user. Returns store.ErrScriptNotReady while generation is
// still in flight.
func (s *ScriptService) GetResult(ctx context.Context, requestID, userID uuid.UUID) (*domain.Script, error) {
	if _, err := s.GetRequestForUser(ctx, requestID, userID); err != nil {
		return nil, err
	}
	return s.requests.GetResult(ctx, requestID)
}

// FlattenScript turns a script's rounds into the single ordered item
// queue a practice session plays through.
func FlattenScript(script *domain.Script) []domain.LearningItem {
	if script == nil {
		return nil
	}

	var total int
	for i := range script.Rounds {
		total += len(script.Rounds[i].Items)
	}

	items := make([]domain.LearningItem, 0, total)
	for i := range script.Rounds {
		items = append(items, script.Rounds[i].Items...)
	}
	return items
}
