package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/events"
)

// EventScriptGenerationRequested is emitted by the API layer when a
// script request is accepted and needs background generation.
const EventScriptGenerationRequested = "script.generation_requested"

// GenerationRequested is the payload for EventScriptGenerationRequested.
type GenerationRequested struct {
	RequestID uuid.UUID `json:"request_id"`
}

// TaskFactory creates tasks for a script request.
type TaskFactory interface {
	CreateTask(requestID uuid.UUID) (Task, error)
}

// TaskSubmitter accepts tasks for background execution.
type TaskSubmitter interface {
	Submit(ctx context.Context, task Task) error
}

// FactoryEventHandler bridges the event bus and the task runner: on a
// generation-requested event it creates the corresponding task and
// submits it for execution.
type FactoryEventHandler struct {
	factory   TaskFactory
	submitter TaskSubmitter
	logger    *slog.Logger
}

// NewFactoryEventHandler creates an event handler that turns
// generation-requested events into submitted tasks.
func NewFactoryEventHandler(
	factory TaskFactory,
	submitter TaskSubmitter,
	logger *slog.Logger,
) *FactoryEventHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &FactoryEventHandler{
		factory:   factory,
		submitter: submitter,
		logger:    logger.With(slog.String("component", "task_event_handler")),
	}
}

// Ensure FactoryEventHandler implements events.Handler
var _ events.Handler = (*FactoryEventHandler)(nil)

// HandleEvent processes generation-requested events. Events of other
// types are ignored without error.
func (h *FactoryEventHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	if event.Type != EventScriptGenerationRequested {
		return nil
	}

	payload, ok := event.Payload.(GenerationRequested)
	if !ok {
		h.logger.Error("unexpected payload type for generation event",
			slog.String("event_id", event.ID.String()))
		return fmt.Errorf("unexpected payload type %T", event.Payload)
	}

	task, err := h.factory.CreateTask(payload.RequestID)
	if err != nil {
		h.logger.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("request_id", payload.RequestID.String()),
			slog.String("event_id", event.ID.String()))
		return fmt.Errorf("failed to create task: %w", err)
	}

	if err := h.submitter.Submit(ctx, task); err != nil {
		h.logger.Error("failed to submit task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID().String()),
			slog.String("request_id", payload.RequestID.String()))
		return fmt.Errorf("failed to submit task: %w", err)
	}

	h.logger.Info("task created and submitted",
		slog.String("task_id", task.ID().String()),
		slog.String("request_id", payload.RequestID.String()))
	return nil
}
