package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/config"
	"github.com/phrazzld/lingo-api/internal/events"
	"github.com/phrazzld/lingo-api/internal/generation"
	"github.com/phrazzld/lingo-api/internal/platform/gemini"
	"github.com/phrazzld/lingo-api/internal/platform/postgres"
	"github.com/phrazzld/lingo-api/internal/service"
	"github.com/phrazzld/lingo-api/internal/service/auth"
	"github.com/phrazzld/lingo-api/internal/store"
	"github.com/phrazzld/lingo-api/internal/task"
)

// application holds the shared application dependencies so wiring and
// shutdown stay in one place.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore store.UserStore
	taskStore *postgres.PostgresTaskStore

	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	generator        generation.ScriptGenerator
	scriptService    *service.ScriptService
	progressService  *service.ProgressService

	eventEmitter *events.InMemoryEmitter
	taskRunner   *task.TaskRunner
}

// newApplication creates an application with all dependencies
// initialized and the background task runner started.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)
	scriptRequestStore := postgres.NewPostgresScriptRequestStore(db, logger)
	progressStore := postgres.NewPostgresProgressStore(db, logger)
	scriptCache := postgres.NewPostgresScriptCache(db, logger)

	app.generator, err = gemini.NewGeminiGenerator(ctx, logger, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize script generator: %w", err)
	}
	logger.Info("script generator initialized", slog.String("model", cfg.LLM.ModelName))

	app.eventEmitter = events.NewInMemoryEmitter(logger)

	app.scriptService = service.NewScriptService(
		scriptRequestStore,
		scriptCache,
		app.generator,
		app.eventEmitter,
		cfg.Engine.CacheSchemaVersion,
		logger,
	)
	app.progressService = service.NewProgressService(progressStore, logger)

	taskFactory := task.NewScriptGenerationTaskFactory(app.scriptService, logger)

	// Recovered task rows need their execution logic rebuilt from the
	// persisted payload before the runner can retry them.
	app.taskStore.SetExecuteRebuilder(func(taskType string, payload []byte) (func(ctx context.Context) error, error) {
		if taskType != task.TaskTypeScriptGeneration {
			return nil, fmt.Errorf("unknown task type %q", taskType)
		}

		var p struct {
			RequestID uuid.UUID `json:"request_id"`
		}
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("failed to decode task payload: %w", err)
		}

		rebuilt, err := taskFactory.CreateTask(p.RequestID)
		if err != nil {
			return nil, err
		}
		return rebuilt.Execute, nil
	})

	app.taskRunner = task.NewTaskRunner(app.taskStore, task.TaskRunnerConfig{
		QueueSize:    cfg.Task.QueueSize,
		WorkerCount:  cfg.Task.WorkerCount,
		StuckTaskAge: time.Duration(cfg.Task.StuckTaskAgeMinutes) * time.Minute,
	}, logger)
	if err := app.taskRunner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}

	app.eventEmitter.RegisterHandler(task.NewFactoryEventHandler(taskFactory, app.taskRunner, logger))

	logger.Info("application initialized")
	return app, nil
}

// Run starts the HTTP server and blocks until shutdown.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}

	app.logger.Info("application shutdown completed")
}
