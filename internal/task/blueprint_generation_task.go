package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dhruvat/astra-api/internal/blueprint"
	"github.com/dhruvat/astra-api/internal/domain"
	"github.com/dhruvat/astra-api/internal/store"
)

// Common errors
var (
	ErrNilUserStore      = errors.New("user store cannot be nil")
	ErrNilBlueprintStore = errors.New("blueprint store cannot be nil")
	ErrNilGenerator      = errors.New("generator cannot be nil")
	ErrEmptyUserID       = errors.New("user ID cannot be empty")
)

// ContentGenerator defines the blueprint generation operation the task
// depends on. *blueprint.Generator is the production implementation.
type ContentGenerator interface {
	GenerateAll(ctx context.Context, profile *domain.Profile, sink blueprint.PageSink) (domain.BlueprintContent, error)
}

// blueprintGenerationPayload is the persisted task payload.
type blueprintGenerationPayload struct {
	UserID uuid.UUID `json:"user_id"`
}

// BlueprintGenerationTask generates the full blueprint content for one
// user in the background. Each page is persisted as soon as it is
// generated, so an interrupted run keeps its completed pages.
type BlueprintGenerationTask struct {
	id             uuid.UUID
	userID         uuid.UUID
	status         TaskStatus
	userStore      store.UserStore
	blueprintStore store.BlueprintStore
	generator      ContentGenerator
	logger         *slog.Logger
}

// NewBlueprintGenerationTask creates a task that generates and persists
// the blueprint content for the given user.
func NewBlueprintGenerationTask(
	userID uuid.UUID,
	userStore store.UserStore,
	blueprintStore store.BlueprintStore,
	generator ContentGenerator,
	logger *slog.Logger,
) (*BlueprintGenerationTask, error) {
	if userID == uuid.Nil {
		return nil, ErrEmptyUserID
	}
	if userStore == nil {
		return nil, ErrNilUserStore
	}
	if blueprintStore == nil {
		return nil, ErrNilBlueprintStore
	}
	if generator == nil {
		return nil, ErrNilGenerator
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &BlueprintGenerationTask{
		id:             uuid.New(),
		userID:         userID,
		status:         TaskStatusPending,
		userStore:      userStore,
		blueprintStore: blueprintStore,
		generator:      generator,
		logger:         logger.With(slog.String("component", "blueprint_generation_task")),
	}, nil
}

// ID implements Task.ID
func (t *BlueprintGenerationTask) ID() uuid.UUID {
	return t.id
}

// Type implements Task.Type
func (t *BlueprintGenerationTask) Type() string {
	return TaskTypeBlueprintGeneration
}

// Payload implements Task.Payload
func (t *BlueprintGenerationTask) Payload() []byte {
	data, err := json.Marshal(blueprintGenerationPayload{UserID: t.userID})
	if err != nil {
		// Marshaling a struct of plain fields cannot fail at runtime.
		return nil
	}
	return data
}

// Status implements Task.Status
func (t *BlueprintGenerationTask) Status() TaskStatus {
	return t.status
}

// Execute implements Task.Execute
// It loads the user, generates every blueprint page, persists each page as
// it completes, and finally marks the user's blueprint as generated.
func (t *BlueprintGenerationTask) Execute(ctx context.Context) error {
	log := t.logger.With(
		slog.String("task_id", t.id.String()),
		slog.String("user_id", t.userID.String()))

	start := time.Now()
	log.Info("starting blueprint generation")

	user, err := t.userStore.GetByID(ctx, t.userID)
	if err != nil {
		return fmt.Errorf("loading user: %w", err)
	}

	profile := user.Profile()
	if profile == nil {
		return blueprint.ErrMissingProfile
	}

	sink := func(ctx context.Context, page string, content domain.PageContent) error {
		return t.blueprintStore.SetPage(ctx, t.userID, page, content)
	}

	content, err := t.generator.GenerateAll(ctx, profile, sink)
	if err != nil {
		return fmt.Errorf("generating blueprint: %w", err)
	}

	// Write the complete set in one shot so the stored blueprint matches
	// exactly what this run produced, even if an earlier run left pages
	// behind that the per-page writes above did not touch.
	if err := t.blueprintStore.SetAll(ctx, t.userID, content); err != nil {
		return fmt.Errorf("persisting blueprint: %w", err)
	}

	if err := t.userStore.SetBlueprintGenerated(ctx, t.userID, true); err != nil {
		return fmt.Errorf("marking blueprint generated: %w", err)
	}

	failed := 0
	for _, page := range domain.BlueprintPages {
		if content[page].IsFailed() {
			failed++
		}
	}

	log.Info("blueprint generation finished",
		slog.Int("pages", len(content)),
		slog.Int("failed_pages", failed),
		slog.Duration("elapsed", time.Since(start)))
	return nil
}

// BlueprintGenerationTaskFactory creates blueprint generation tasks with
// their dependencies pre-wired. It also revives persisted tasks after a
// restart.
type BlueprintGenerationTaskFactory struct {
	userStore      store.UserStore
	blueprintStore store.BlueprintStore
	generator      ContentGenerator
	logger         *slog.Logger
}

// NewBlueprintGenerationTaskFactory creates a factory over the given
// dependencies.
func NewBlueprintGenerationTaskFactory(
	userStore store.UserStore,
	blueprintStore store.BlueprintStore,
	generator ContentGenerator,
	logger *slog.Logger,
) *BlueprintGenerationTaskFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &BlueprintGenerationTaskFactory{
		userStore:      userStore,
		blueprintStore: blueprintStore,
		generator:      generator,
		logger:         logger,
	}
}

// CreateTask creates a new blueprint generation task for the given user.
func (f *BlueprintGenerationTaskFactory) CreateTask(userID uuid.UUID) (Task, error) {
	return NewBlueprintGenerationTask(userID, f.userStore, f.blueprintStore, f.generator, f.logger)
}

// ReviveTask reconstructs a blueprint generation task from its persisted
// form. Unknown task types are rejected so the store can fall back to a
// non-executable record.
func (f *BlueprintGenerationTaskFactory) ReviveTask(
	id uuid.UUID,
	taskType string,
	payload []byte,
	status TaskStatus,
) (Task, error) {
	if taskType != TaskTypeBlueprintGeneration {
		return nil, fmt.Errorf("unknown task type: %s", taskType)
	}

	var p blueprintGenerationPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("decoding task payload: %w", err)
	}

	t, err := NewBlueprintGenerationTask(p.UserID, f.userStore, f.blueprintStore, f.generator, f.logger)
	if err != nil {
		return nil, err
	}
	t.id = id
	t.status = status
	return t, nil
}
