package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/riverqueue/river"

	"github.com/hammadpk/engine/internal/engine"
	"github.com/hammadpk/engine/internal/models"
)

// fakeCompleter returns a fixed error and records the tokens it saw.
type fakeCompleter struct {
	err    error
	tokens []uuid.UUID
}

func (f *fakeCompleter) CompleteTimedTask(ctx context.Context, token uuid.UUID) (*models.AdView, error) {
	f.tokens = append(f.tokens, token)
	if f.err != nil {
		return nil, f.err
	}
	return &models.AdView{Token: token, Completed: true}, nil
}

func jobFor(token uuid.UUID) *river.Job[CompleteTimedTaskArgs] {
	return &river.Job[CompleteTimedTaskArgs]{Args: CompleteTimedTaskArgs{Token: token}}
}

func TestWork_CompletesToken(t *testing.T) {
	fake := &fakeCompleter{}
	w := NewCompleteTimedTaskWorker(fake)
	token := uuid.New()

	if err := w.Work(context.Background(), jobFor(token)); err != nil {
		t.Fatalf("Work: %v", err)
	}
	if len(fake.tokens) != 1 || fake.tokens[0] != token {
		t.Errorf("completer saw %v, want [%s]", fake.tokens, token)
	}
}

func TestWork_TerminalErrorsAreNotRetried(t *testing.T) {
	for _, sentinel := range []error{engine.ErrNotFound, engine.ErrAlreadyDecided} {
		w := NewCompleteTimedTaskWorker(&fakeCompleter{err: sentinel})
		if err := w.Work(context.Background(), jobFor(uuid.New())); err != nil {
			t.Errorf("%v should be swallowed, got %v", sentinel, err)
		}
	}
}

func TestWork_TransientErrorPropagates(t *testing.T) {
	transient := errors.New("store unavailable")
	w := NewCompleteTimedTaskWorker(&fakeCompleter{err: transient})
	if err := w.Work(context.Background(), jobFor(uuid.New())); !errors.Is(err, transient) {
		t.Errorf("got %v, want the transient error back for retry", err)
	}
}
