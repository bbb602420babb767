package engine

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/hammadpk/engine/internal/models"
)

// ErrInvalidCategory rejects task creation with an unknown category.
var ErrInvalidCategory = errors.New("invalid task category")

// CreateTask adds a task definition to the catalog. Administrative.
func (e *Engine) CreateTask(ctx context.Context, title string, rewardCents int64, category string, durationSeconds int, link string) (*models.Task, error) {
	if rewardCents <= 0 {
		e.record("create_task", ErrAmountOutOfRange)
		return nil, ErrAmountOutOfRange
	}
	if category != models.TaskTimedVideo && category != models.TaskLinkProof {
		e.record("create_task", ErrInvalidCategory)
		return nil, ErrInvalidCategory
	}
	var out models.Task
	err := e.store.Update(ctx, func(st *models.State) error {
		t := &models.Task{
			ID:          uuid.New(),
			Title:       title,
			RewardCents: rewardCents,
			Category:    category,
			CreatedAt:   time.Now().UTC(),
		}
		switch category {
		case models.TaskTimedVideo:
			if durationSeconds <= 0 {
				durationSeconds = 10
			}
			t.DurationSeconds = durationSeconds
		case models.TaskLinkProof:
			t.Link = link
		}
		st.Tasks = append(st.Tasks, t)
		out = *t
		return nil
	})
	e.record("create_task", err)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// TaskUpdate carries optional task edits; nil fields are left unchanged.
type TaskUpdate struct {
	Title       *string
	RewardCents *int64
	Link        *string
}

// UpdateTask edits a task definition. Pending submissions keep their
// captured reward and are unaffected.
func (e *Engine) UpdateTask(ctx context.Context, id uuid.UUID, upd TaskUpdate) (*models.Task, error) {
	var out models.Task
	err := e.store.Update(ctx, func(st *models.State) error {
		t := st.TaskByID(id)
		if t == nil {
			return ErrNotFound
		}
		if upd.RewardCents != nil && *upd.RewardCents <= 0 {
			return ErrAmountOutOfRange
		}
		if upd.Title != nil {
			t.Title = *upd.Title
		}
		if upd.RewardCents != nil {
			t.RewardCents = *upd.RewardCents
		}
		if upd.Link != nil {
			t.Link = *upd.Link
		}
		out = *t
		return nil
	})
	e.record("update_task", err)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTask removes a task from the catalog. Existing submissions survive
// with their captured rewards.
func (e *Engine) DeleteTask(ctx context.Context, id uuid.UUID) error {
	err := e.store.Update(ctx, func(st *models.State) error {
		for i, t := range st.Tasks {
			if t.ID == id {
				st.Tasks = append(st.Tasks[:i], st.Tasks[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
	e.record("delete_task", err)
	return err
}

// UpdateSettings replaces the configured bounds and site text.
func (e *Engine) UpdateSettings(ctx context.Context, s models.Settings) error {
	err := e.store.Update(ctx, func(st *models.State) error {
		if s.MinDepositCents < 0 || s.MinDepositCents > s.MaxDepositCents {
			return ErrAmountOutOfRange
		}
		if s.MinWithdrawCents < 0 || s.MinWithdrawCents > s.MaxWithdrawCents {
			return ErrAmountOutOfRange
		}
		st.Settings = s
		return nil
	})
	e.record("update_settings", err)
	return err
}

// SetUserBalance is the direct admin balance override. The non-negative
// balance invariant still holds.
func (e *Engine) SetUserBalance(ctx context.Context, accountID uuid.UUID, balanceCents int64) (*models.Account, error) {
	var out models.Account
	err := e.store.Update(ctx, func(st *models.State) error {
		if balanceCents < 0 {
			return ErrAmountOutOfRange
		}
		acct := st.AccountByID(accountID)
		if acct == nil {
			return ErrNotFound
		}
		acct.BalanceCents = balanceCents
		out = *acct
		return nil
	})
	e.record("set_user_balance", err)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SetUserBanned flips the banned flag. Banned accounts keep their balance,
// referral linkage and history; they just cannot authenticate.
func (e *Engine) SetUserBanned(ctx context.Context, accountID uuid.UUID, banned bool) (*models.Account, error) {
	var out models.Account
	err := e.store.Update(ctx, func(st *models.State) error {
		acct := st.AccountByID(accountID)
		if acct == nil {
			return ErrNotFound
		}
		acct.IsBanned = banned
		out = *acct
		return nil
	})
	e.record("set_user_banned", err)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Overview is the admin dashboard summary.
type Overview struct {
	TotalUsers         int `json:"total_users"`
	PendingDeposits    int `json:"pending_deposits"`
	PendingWithdrawals int `json:"pending_withdrawals"`
	PendingSubmissions int `json:"pending_submissions"`
}

func (e *Engine) AdminOverview() Overview {
	var o Overview
	e.store.View(func(st *models.State) {
		o.TotalUsers = len(st.Accounts)
		for _, d := range st.Deposits {
			if d.Status == models.StatusPending {
				o.PendingDeposits++
			}
		}
		for _, w := range st.Withdrawals {
			if w.Status == models.StatusPending {
				o.PendingWithdrawals++
			}
		}
		for _, s := range st.Submissions {
			if s.Status == models.StatusPending {
				o.PendingSubmissions++
			}
		}
	})
	if e.metrics != nil {
		e.metrics.SetPendingReviews(models.KindDeposit, o.PendingDeposits)
		e.metrics.SetPendingReviews(models.KindWithdrawal, o.PendingWithdrawals)
		e.metrics.SetPendingReviews("submission", o.PendingSubmissions)
	}
	return o
}

// ListUsers returns copies of every account.
func (e *Engine) ListUsers() []*models.Account {
	var out []*models.Account
	e.store.View(func(st *models.State) {
		for _, a := range st.Accounts {
			cp := *a
			out = append(out, &cp)
		}
	})
	return out
}

// ListDeposits returns every deposit request, optionally only pending ones.
func (e *Engine) ListDeposits(pendingOnly bool) []*models.DepositRequest {
	var out []*models.DepositRequest
	e.store.View(func(st *models.State) {
		for _, d := range st.Deposits {
			if pendingOnly && d.Status != models.StatusPending {
				continue
			}
			cp := *d
			out = append(out, &cp)
		}
	})
	return out
}

// ListWithdrawals returns every withdrawal request, optionally only pending.
func (e *Engine) ListWithdrawals(pendingOnly bool) []*models.WithdrawalRequest {
	var out []*models.WithdrawalRequest
	e.store.View(func(st *models.State) {
		for _, w := range st.Withdrawals {
			if pendingOnly && w.Status != models.StatusPending {
				continue
			}
			cp := *w
			out = append(out, &cp)
		}
	})
	return out
}

// ListSubmissions returns every task submission, optionally only pending.
func (e *Engine) ListSubmissions(pendingOnly bool) []*models.TaskSubmission {
	var out []*models.TaskSubmission
	e.store.View(func(st *models.State) {
		for _, s := range st.Submissions {
			if pendingOnly && s.Status != models.StatusPending {
				continue
			}
			cp := *s
			out = append(out, &cp)
		}
	})
	return out
}
