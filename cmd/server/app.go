package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/dhruvat/astra-api/internal/blueprint"
	"github.com/dhruvat/astra-api/internal/config"
	"github.com/dhruvat/astra-api/internal/events"
	"github.com/dhruvat/astra-api/internal/generation"
	"github.com/dhruvat/astra-api/internal/platform/anthropic"
	"github.com/dhruvat/astra-api/internal/platform/gemini"
	"github.com/dhruvat/astra-api/internal/platform/openai"
	"github.com/dhruvat/astra-api/internal/platform/postgres"
	"github.com/dhruvat/astra-api/internal/service/auth"
	"github.com/dhruvat/astra-api/internal/store"
	"github.com/dhruvat/astra-api/internal/task"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore      store.UserStore
	blueprintStore store.BlueprintStore
	taskStore      task.TaskStore

	// Services
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	registry         *generation.Registry
	orchestrator     *generation.Orchestrator
	generator        *blueprint.Generator

	// Event system
	eventEmitter events.EventEmitter

	// Task handling
	taskFactory *task.BlueprintGenerationTaskFactory
	taskRunner  *task.TaskRunner
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("initializing JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	app.passwordVerifier = auth.NewBcryptVerifier()

	// Stores
	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, logger)
	app.blueprintStore = postgres.NewPostgresBlueprintStore(db, logger)

	// Generation pipeline: registry, one adapter per backend, and the
	// orchestrator that falls back across them. The registry resolves
	// credentials through the LLM config so availability reflects the same
	// keys the adapters were built with.
	app.registry = generation.NewRegistry(cfg.LLM.Credential)

	geminiClient, err := gemini.NewClient(ctx, cfg.LLM.GeminiAPIKey, logger)
	if err != nil {
		return nil, fmt.Errorf("initializing gemini client: %w", err)
	}

	clients := []generation.CompletionClient{
		openai.NewClient(cfg.LLM.OpenAIAPIKey, logger),
		anthropic.NewClient(cfg.LLM.ClaudeAPIKey, logger),
		geminiClient,
	}

	app.orchestrator = generation.NewOrchestrator(app.registry, clients, cfg.LLM.DefaultProvider, logger)
	app.generator = blueprint.NewGenerator(app.orchestrator, logger)

	// Task machinery: the factory both creates new tasks and revives
	// persisted ones after a restart.
	app.taskFactory = task.NewBlueprintGenerationTaskFactory(
		app.userStore,
		app.blueprintStore,
		app.generator,
		logger,
	)
	app.taskStore = postgres.NewPostgresTaskStore(db, app.taskFactory.ReviveTask, logger)

	app.taskRunner = task.NewTaskRunner(app.taskStore, task.TaskRunnerConfig{
		WorkerCount:  cfg.Task.WorkerCount,
		QueueSize:    cfg.Task.QueueSize,
		StuckTaskAge: time.Duration(cfg.Task.StuckTaskAge) * time.Minute,
	}, logger)
	if err := app.taskRunner.Start(); err != nil {
		return nil, fmt.Errorf("starting task runner: %w", err)
	}

	// Event system: registration and generate requests emit task request
	// events; the handler turns them into runnable tasks.
	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(task.NewTaskFactoryEventHandler(app.taskFactory, app.taskRunner, logger))
	app.eventEmitter = emitter

	logger.Info("application initialized")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
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
			app.logger.Error("closing database connection", slog.String("error", err.Error()))
		}
	}

	app.logger.Info("application shutdown completed")
}
