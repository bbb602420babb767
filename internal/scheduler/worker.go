package scheduler

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/riverqueue/river"

	"github.com/hammadpk/engine/internal/engine"
	"github.com/hammadpk/engine/internal/models"
)

// CompleteTimedTaskArgs is the job enqueued by StartTimedTask, scheduled to
// run once the task's fixed duration has elapsed.
type CompleteTimedTaskArgs struct {
	Token uuid.UUID `json:"token"`
}

func (CompleteTimedTaskArgs) Kind() string { return "complete_timed_task" }

// TimedTaskCompleter is the engine contract the worker needs.
type TimedTaskCompleter interface {
	CompleteTimedTask(ctx context.Context, token uuid.UUID) (*models.AdView, error)
}

// CompleteTimedTaskWorker signals timed-task completion on behalf of the
// wall clock. Completion is at-most-once inside the engine, so River's
// at-least-once delivery cannot double-credit.
type CompleteTimedTaskWorker struct {
	river.WorkerDefaults[CompleteTimedTaskArgs]
	engine TimedTaskCompleter
}

func NewCompleteTimedTaskWorker(e TimedTaskCompleter) *CompleteTimedTaskWorker {
	return &CompleteTimedTaskWorker{engine: e}
}

func (w *CompleteTimedTaskWorker) Work(ctx context.Context, job *river.Job[CompleteTimedTaskArgs]) error {
	_, err := w.engine.CompleteTimedTask(ctx, job.Args.Token)
	if err != nil {
		// A vanished or already-completed token means there is nothing left
		// to do; retrying would never succeed.
		if errors.Is(err, engine.ErrNotFound) || errors.Is(err, engine.ErrAlreadyDecided) {
			return nil
		}
		return err
	}
	return nil
}
