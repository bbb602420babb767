package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hammadpk/engine/internal/models"
)

// StartTimedTask hands out a completion token for a timed-video task and
// schedules its completion after the task's fixed duration. The engine does
// not track wall-clock time itself; the scheduler invokes
// CompleteTimedTask when the delay elapses.
func (e *Engine) StartTimedTask(ctx context.Context, accountID, taskID uuid.UUID) (*models.AdView, error) {
	var out models.AdView
	var durationSeconds int
	err := e.store.Update(ctx, func(st *models.State) error {
		acct := st.AccountByID(accountID)
		if acct == nil {
			return ErrNotFound
		}
		task := st.TaskByID(taskID)
		if task == nil || task.Category != models.TaskTimedVideo {
			return ErrNotFound
		}
		durationSeconds = task.DurationSeconds
		v := &models.AdView{
			Token:       uuid.New(),
			AccountID:   accountID,
			TaskID:      taskID,
			RewardCents: task.RewardCents,
			StartedAt:   time.Now().UTC(),
		}
		st.AdViews = append(st.AdViews, v)
		out = *v
		return nil
	})
	e.record("start_timed_task", err)
	if err != nil {
		return nil, err
	}
	if e.enqueueCompletion != nil {
		runAt := out.StartedAt.Add(time.Duration(durationSeconds) * time.Second)
		if err := e.enqueueCompletion(ctx, out.Token, runAt); err != nil {
			// Token stays pending; completion can still be invoked later.
			e.log.Error("enqueue timed-task completion failed", "token", out.Token, "error", err)
		}
	}
	return &out, nil
}

// CompleteTimedTask credits the captured reward for a started timed task,
// at most once. A second completion of the same token fails with
// ErrAlreadyDecided and leaves the balance unchanged.
func (e *Engine) CompleteTimedTask(ctx context.Context, token uuid.UUID) (*models.AdView, error) {
	var out models.AdView
	err := e.store.Update(ctx, func(st *models.State) error {
		v := st.AdViewByToken(token)
		if v == nil {
			return ErrNotFound
		}
		if v.Completed {
			return ErrAlreadyDecided
		}
		acct := st.AccountByID(v.AccountID)
		if acct == nil {
			return ErrNotFound
		}
		credit(acct, v.RewardCents)
		acct.TasksCompleted++
		now := time.Now().UTC()
		v.Completed = true
		v.CompletedAt = &now
		out = *v
		return nil
	})
	e.record("complete_timed_task", err)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitProof creates a pending submission against a link-proof task,
// capturing the task's current reward so later edits to the task do not
// retroactively change it.
func (e *Engine) SubmitProof(ctx context.Context, accountID, taskID uuid.UUID, proofRef string) (*models.TaskSubmission, error) {
	if proofRef == "" {
		e.record("submit_proof", ErrMissingProof)
		return nil, ErrMissingProof
	}
	var out models.TaskSubmission
	err := e.store.Update(ctx, func(st *models.State) error {
		acct := st.AccountByID(accountID)
		if acct == nil {
			return ErrNotFound
		}
		task := st.TaskByID(taskID)
		if task == nil || task.Category != models.TaskLinkProof {
			return ErrNotFound
		}
		s := &models.TaskSubmission{
			ID:          uuid.New(),
			AccountID:   accountID,
			TaskID:      taskID,
			RewardCents: task.RewardCents,
			ProofRef:    proofRef,
			Status:      models.StatusPending,
			CreatedAt:   time.Now().UTC(),
		}
		st.Submissions = append(st.Submissions, s)
		out = *s
		return nil
	})
	e.record("submit_proof", err)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DecideSubmission moves a pending submission to approved or rejected.
// Approval credits the captured reward and increments the completed-task
// counter; rejection has no balance effect.
func (e *Engine) DecideSubmission(ctx context.Context, id uuid.UUID, approve bool) (*models.TaskSubmission, error) {
	var out models.TaskSubmission
	err := e.store.Update(ctx, func(st *models.State) error {
		s := st.SubmissionByID(id)
		if s == nil {
			return ErrNotFound
		}
		if s.Status != models.StatusPending {
			return ErrAlreadyDecided
		}
		if approve {
			acct := st.AccountByID(s.AccountID)
			if acct == nil {
				return ErrNotFound
			}
			credit(acct, s.RewardCents)
			acct.TasksCompleted++
			s.Status = models.StatusApproved
		} else {
			s.Status = models.StatusRejected
		}
		out = *s
		return nil
	})
	e.record("decide_submission", err)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListTasks returns the task catalog.
func (e *Engine) ListTasks() []*models.Task {
	var out []*models.Task
	e.store.View(func(st *models.State) {
		for _, t := range st.Tasks {
			cp := *t
			out = append(out, &cp)
		}
	})
	return out
}
