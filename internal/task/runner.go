package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ErrQueueFull is returned by Submit when the in-memory queue has no room.
// The task is already persisted at that point and will be picked up by
// Recover on the next start.
var ErrQueueFull = errors.New("task queue is full")

// TaskRunnerConfig sizes the worker pool and queue for background
// blueprint generation.
type TaskRunnerConfig struct {
	// WorkerCount is the number of concurrent workers draining the queue.
	WorkerCount int

	// QueueSize bounds the in-memory queue. Submit fails once it is full.
	QueueSize int

	// StuckTaskAge is how long a task may sit in the processing state
	// before the monitor assumes its worker died and resets it.
	StuckTaskAge time.Duration

	// StuckTaskCheckInterval is the stuck-task monitor's polling period.
	// Zero means five minutes.
	StuckTaskCheckInterval time.Duration
}

// TaskRunner executes persisted tasks on a bounded worker pool. Every task
// is saved through the store before it is queued, so a crash loses at most
// in-flight work, never the record of it; Recover requeues the survivors
// on the next start.
type TaskRunner struct {
	store  TaskStore
	queue  chan Task
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	config TaskRunnerConfig
	logger *slog.Logger
}

// NewTaskRunner creates a TaskRunner over the given store. The runner does
// nothing until Start is called.
func NewTaskRunner(store TaskStore, config TaskRunnerConfig, logger *slog.Logger) *TaskRunner {
	if config.StuckTaskCheckInterval == 0 {
		config.StuckTaskCheckInterval = 5 * time.Minute
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &TaskRunner{
		store:  store,
		queue:  make(chan Task, config.QueueSize),
		ctx:    ctx,
		cancel: cancel,
		config: config,
		logger: logger.With(slog.String("component", "task_runner")),
	}
}

// Submit persists the task and places it on the queue. The save happens
// first: a task that exists only in memory would vanish on restart, while
// a persisted one is recovered.
func (r *TaskRunner) Submit(ctx context.Context, task Task) error {
	if err := r.store.SaveTask(ctx, task); err != nil {
		return fmt.Errorf("saving task: %w", err)
	}

	select {
	case r.queue <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Start recovers unfinished tasks from the store, then launches the
// workers and the stuck-task monitor.
func (r *TaskRunner) Start() error {
	if err := r.Recover(); err != nil {
		return fmt.Errorf("recovering tasks: %w", err)
	}

	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.runWorker(i)
	}

	r.wg.Add(1)
	go r.watchStuckTasks()

	return nil
}

// Stop cancels all workers and waits for them to drain.
func (r *TaskRunner) Stop() {
	r.cancel()
	r.wg.Wait()
	close(r.queue)
}

// Recover requeues tasks left unfinished by a previous run: pending tasks
// go straight back on the queue, and tasks interrupted mid-processing are
// reset to pending first so their status history reflects the restart.
func (r *TaskRunner) Recover() error {
	ctx := context.Background()

	pending, err := r.store.GetPendingTasks(ctx)
	if err != nil {
		return fmt.Errorf("loading pending tasks: %w", err)
	}

	// Age zero: any task still marked processing at startup was
	// interrupted, however recently.
	interrupted, err := r.store.GetProcessingTasks(ctx, 0)
	if err != nil {
		return fmt.Errorf("loading interrupted tasks: %w", err)
	}

	r.logger.Info("recovering unfinished tasks",
		slog.Int("pending", len(pending)),
		slog.Int("interrupted", len(interrupted)))

	for _, task := range pending {
		r.requeue(task)
	}

	for _, task := range interrupted {
		if err := r.store.UpdateTaskStatus(ctx, task.ID(), TaskStatusPending, "reset after restart"); err != nil {
			r.logger.Error("resetting interrupted task",
				slog.String("task_id", task.ID().String()),
				slog.String("error", err.Error()))
			continue
		}
		r.requeue(task)
	}

	return nil
}

// requeue places a recovered or reset task back on the queue without
// blocking. A full queue is only logged: the task is still persisted as
// pending and the next restart tries again.
func (r *TaskRunner) requeue(task Task) {
	select {
	case r.queue <- task:
	default:
		r.logger.Error("queue full, task stays pending until next start",
			slog.String("task_id", task.ID().String()),
			slog.String("task_type", task.Type()))
	}
}

func (r *TaskRunner) runWorker(id int) {
	defer r.wg.Done()

	log := r.logger.With(slog.Int("worker", id))
	log.Debug("worker started")

	for {
		select {
		case <-r.ctx.Done():
			log.Debug("worker stopping")
			return
		case task, ok := <-r.queue:
			if !ok {
				log.Debug("queue closed, worker stopping")
				return
			}
			r.execute(task, id)
		}
	}
}

// execute runs one task, moving it through processing to completed or
// failed. Status updates that fail are logged but never abort the task:
// the generated content matters more than the bookkeeping row.
func (r *TaskRunner) execute(task Task, workerID int) {
	ctx := context.Background()
	log := r.logger.With(
		slog.String("task_id", task.ID().String()),
		slog.String("task_type", task.Type()),
		slog.Int("worker", workerID))

	if err := r.store.UpdateTaskStatus(ctx, task.ID(), TaskStatusProcessing, ""); err != nil {
		log.Error("marking task processing", slog.String("error", err.Error()))
		return
	}

	log.Info("executing task")

	if err := task.Execute(ctx); err != nil {
		log.Error("task failed", slog.String("error", err.Error()))
		if updateErr := r.store.UpdateTaskStatus(ctx, task.ID(), TaskStatusFailed, err.Error()); updateErr != nil {
			log.Error("marking task failed", slog.String("error", updateErr.Error()))
		}
		return
	}

	log.Info("task finished")
	if err := r.store.UpdateTaskStatus(ctx, task.ID(), TaskStatusCompleted, ""); err != nil {
		log.Error("marking task completed", slog.String("error", err.Error()))
	}
}

// watchStuckTasks periodically resets tasks that have sat in processing
// longer than StuckTaskAge. A worker that dies without updating status
// would otherwise leave its task processing forever.
func (r *TaskRunner) watchStuckTasks() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.StuckTaskCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.resetStuckTasks()
		}
	}
}

func (r *TaskRunner) resetStuckTasks() {
	ctx := context.Background()

	stuck, err := r.store.GetProcessingTasks(ctx, r.config.StuckTaskAge)
	if err != nil {
		r.logger.Error("checking for stuck tasks", slog.String("error", err.Error()))
		return
	}
	if len(stuck) == 0 {
		return
	}

	r.logger.Info("resetting stuck tasks", slog.Int("count", len(stuck)))

	for _, task := range stuck {
		if err := r.store.UpdateTaskStatus(ctx, task.ID(), TaskStatusPending, "reset after exceeding processing age"); err != nil {
			r.logger.Error("resetting stuck task",
				slog.String("task_id", task.ID().String()),
				slog.String("error", err.Error()))
			continue
		}
		r.requeue(task)
	}
}
