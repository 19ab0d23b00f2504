package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dhruvat/astra-api/internal/platform/logger"
	"github.com/dhruvat/astra-api/internal/store"
	"github.com/dhruvat/astra-api/internal/task"
)

// ReviveFunc reconstructs an executable task from its persisted form.
// It is called when tasks are loaded back from the database after a
// restart; returning an error means the task cannot be revived and a
// non-executable placeholder is used instead.
type ReviveFunc func(id uuid.UUID, taskType string, payload []byte, status task.TaskStatus) (task.Task, error)

// PostgresTaskStore implements the task.TaskStore interface using PostgreSQL.
type PostgresTaskStore struct {
	db     store.DBTX
	revive ReviveFunc
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgresTaskStore. revive may be nil,
// in which case loaded tasks are returned as non-executable records (their
// Execute fails); the runner still uses them for status bookkeeping.
func NewPostgresTaskStore(db store.DBTX, revive ReviveFunc, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		revive: revive,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements task.TaskStore interface
var _ task.TaskStore = (*PostgresTaskStore)(nil)

// SaveTask persists a task to the database.
func (s *PostgresTaskStore) SaveTask(ctx context.Context, t task.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO tasks (id, type, payload, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, query,
		t.ID(),
		t.Type(),
		t.Payload(),
		t.Status(),
		now,
		now,
	)
	if err != nil {
		log.Error("failed to save task",
			slog.String("task_id", t.ID().String()),
			slog.String("task_type", t.Type()),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to save task to database: %w", err)
	}

	return nil
}

// UpdateTaskStatus updates the status of a task in the database.
// Updating a task that no longer exists is treated as a no-op.
func (s *PostgresTaskStore) UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, status task.TaskStatus, errorMsg string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET status = $1, error_message = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := s.db.ExecContext(ctx, query,
		status,
		errorMsg,
		time.Now().UTC(),
		taskID,
	)
	if err != nil {
		log.Error("failed to update task status",
			slog.String("task_id", taskID.String()),
			slog.String("status", string(status)),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to update task status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		log.Warn("no task found with ID to update status",
			slog.String("task_id", taskID.String()))
	}

	return nil
}

// GetPendingTasks retrieves all tasks with "pending" status.
func (s *PostgresTaskStore) GetPendingTasks(ctx context.Context) ([]task.Task, error) {
	return s.getTasksByStatus(ctx, task.TaskStatusPending, 0)
}

// GetProcessingTasks retrieves tasks with "processing" status, optionally
// filtered to those older than the given duration.
func (s *PostgresTaskStore) GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]task.Task, error) {
	return s.getTasksByStatus(ctx, task.TaskStatusProcessing, olderThan)
}

// WithTx implements task.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) task.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		revive: s.revive,
		logger: s.logger,
	}
}

func (s *PostgresTaskStore) getTasksByStatus(ctx context.Context, status task.TaskStatus, olderThan time.Duration) ([]task.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var query string
	var args []any

	if olderThan > 0 {
		query = `
			SELECT id, type, payload, status
			FROM tasks
			WHERE status = $1 AND updated_at < $2
			ORDER BY created_at ASC
		`
		args = []any{status, time.Now().UTC().Add(-olderThan)}
	} else {
		query = `
			SELECT id, type, payload, status
			FROM tasks
			WHERE status = $1
			ORDER BY created_at ASC
		`
		args = []any{status}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks by status",
			slog.String("status", string(status)),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to query tasks by status: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var tasks []task.Task
	for rows.Next() {
		var id uuid.UUID
		var taskType string
		var payload []byte
		var taskStatus task.TaskStatus

		if err := rows.Scan(&id, &taskType, &payload, &taskStatus); err != nil {
			log.Error("failed to scan task row",
				slog.String("status", string(status)),
				slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}

		tasks = append(tasks, s.rehydrate(id, taskType, payload, taskStatus, log))
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating task rows",
			slog.String("status", string(status)),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}

	return tasks, nil
}

// rehydrate turns a persisted record back into an executable task via the
// revive hook, falling back to a non-executable record on failure.
func (s *PostgresTaskStore) rehydrate(id uuid.UUID, taskType string, payload []byte, status task.TaskStatus, log *slog.Logger) task.Task {
	if s.revive != nil {
		t, err := s.revive(id, taskType, payload, status)
		if err == nil {
			return t
		}
		log.Warn("failed to revive task, keeping as record",
			slog.String("task_id", id.String()),
			slog.String("task_type", taskType),
			slog.String("error", err.Error()))
	}

	return &recordTask{
		id:       id,
		taskType: taskType,
		payload:  payload,
		status:   status,
	}
}

// recordTask is a persisted task without an execution function. It keeps
// status bookkeeping working for task types the process no longer knows
// how to run.
type recordTask struct {
	id       uuid.UUID
	taskType string
	payload  []byte
	status   task.TaskStatus
}

func (t *recordTask) ID() uuid.UUID           { return t.id }
func (t *recordTask) Type() string            { return t.taskType }
func (t *recordTask) Payload() []byte         { return t.payload }
func (t *recordTask) Status() task.TaskStatus { return t.status }

func (t *recordTask) Execute(ctx context.Context) error {
	return errors.New("no execution function defined for recovered task")
}
