package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dhruvat/astra-api/internal/events"
)

// TaskFactory creates executable tasks for a user. Implemented by
// *BlueprintGenerationTaskFactory.
type TaskFactory interface {
	CreateTask(userID uuid.UUID) (Task, error)
}

// TaskSubmitter accepts tasks for background processing. Implemented by
// *TaskRunner.
type TaskSubmitter interface {
	Submit(ctx context.Context, task Task) error
}

// TaskFactoryEventHandler implements the events.EventHandler interface.
// It turns task request events into concrete tasks and submits them to the
// runner, decoupling the services that trigger background work from the
// task machinery.
type TaskFactoryEventHandler struct {
	factory   TaskFactory
	submitter TaskSubmitter
	logger    *slog.Logger
}

// NewTaskFactoryEventHandler creates an event handler that uses the given
// factory to create tasks and submits them to the provided submitter.
func NewTaskFactoryEventHandler(
	factory TaskFactory,
	submitter TaskSubmitter,
	logger *slog.Logger,
) *TaskFactoryEventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskFactoryEventHandler{
		factory:   factory,
		submitter: submitter,
		logger:    logger.With(slog.String("component", "task_factory_event_handler")),
	}
}

// Ensure TaskFactoryEventHandler implements events.EventHandler
var _ events.EventHandler = (*TaskFactoryEventHandler)(nil)

// HandleEvent implements events.EventHandler.HandleEvent
// It only handles blueprint generation requests; other event types are
// ignored so additional handlers can claim them.
func (h *TaskFactoryEventHandler) HandleEvent(ctx context.Context, event *events.TaskRequestEvent) error {
	if event.Type != TaskTypeBlueprintGeneration {
		h.logger.Debug("ignoring event of unhandled type",
			slog.String("event_id", event.ID.String()),
			slog.String("event_type", event.Type))
		return nil
	}

	var payload struct {
		UserID uuid.UUID `json:"user_id"`
	}
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("decoding event payload: %w", err)
	}

	t, err := h.factory.CreateTask(payload.UserID)
	if err != nil {
		return fmt.Errorf("creating task from event: %w", err)
	}

	if err := h.submitter.Submit(ctx, t); err != nil {
		return fmt.Errorf("submitting task: %w", err)
	}

	h.logger.Info("task created from event",
		slog.String("event_id", event.ID.String()),
		slog.String("task_id", t.ID().String()),
		slog.String("user_id", payload.UserID.String()))
	return nil
}
