package task

import (
	"log/slog"

	"github.com/google/uuid"
)

// ScriptGenerationTaskFactory creates ScriptGenerationTask instances.
type ScriptGenerationTaskFactory struct {
	service ScriptService
	logger  *slog.Logger
}

// NewScriptGenerationTaskFactory creates a new factory for script
// generation tasks.
func NewScriptGenerationTaskFactory(service ScriptService, logger *slog.Logger) *ScriptGenerationTaskFactory {
	if logger == nil {
		logger = slog.Default()
	}

	return &ScriptGenerationTaskFactory{
		service: service,
		logger:  logger.With(slog.String("component", "script_generation_task_factory")),
	}
}

// CreateTask creates a new ScriptGenerationTask for the given request.
func (f *ScriptGenerationTaskFactory) CreateTask(requestID uuid.UUID) (Task, error) {
	return NewScriptGenerationTask(requestID, f.service, f.logger)
}
