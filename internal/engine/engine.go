package engine

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/hammadpk/engine/internal/metrics"
	"github.com/hammadpk/engine/internal/models"
	"github.com/hammadpk/engine/internal/store"
)

// EnqueueCompletionFunc schedules a CompleteTimedTask invocation for runAt.
// Provided by main as a closure over river.Client.Insert.
type EnqueueCompletionFunc func(ctx context.Context, token uuid.UUID, runAt time.Time) error

// Engine is the approval state machine. It is the only writer of request and
// submission statuses and the only mutator of account balances; each
// operation runs as one store.Update so the status transition and its
// balance effect commit together.
type Engine struct {
	store             *store.Store
	metrics           *metrics.Collector
	enqueueCompletion EnqueueCompletionFunc
	log               *slog.Logger
}

func New(st *store.Store, m *metrics.Collector, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{store: st, metrics: m, log: log}
}

// SetEnqueueCompletion wires the timed-task scheduler. Set after the River
// client exists (breaks the init cycle between engine and worker).
func (e *Engine) SetEnqueueCompletion(fn EnqueueCompletionFunc) {
	e.enqueueCompletion = fn
}

func (e *Engine) record(op string, err error) {
	if e.metrics != nil {
		e.metrics.RecordCommand(op, err)
	}
}

// credit adds amount to the account balance. Call only inside store.Update.
func credit(acct *models.Account, amountCents int64) {
	acct.BalanceCents += amountCents
}

// debit removes amount from the account balance, failing if the result
// would be negative. Call only inside store.Update.
func debit(acct *models.Account, amountCents int64) error {
	if acct.BalanceCents < amountCents {
		return ErrInsufficientFunds
	}
	acct.BalanceCents -= amountCents
	return nil
}

// SubmitDeposit creates a pending deposit request. No balance effect until
// approval: deposits are at risk of rejection and must not inflate the
// balance prematurely.
func (e *Engine) SubmitDeposit(ctx context.Context, accountID uuid.UUID, amountCents int64, txRef string) (*models.DepositRequest, error) {
	var out models.DepositRequest
	err := e.store.Update(ctx, func(st *models.State) error {
		acct := st.AccountByID(accountID)
		if acct == nil {
			return ErrNotFound
		}
		if amountCents < st.Settings.MinDepositCents || amountCents > st.Settings.MaxDepositCents {
			return ErrAmountOutOfRange
		}
		d := &models.DepositRequest{
			ID:          uuid.New(),
			AccountID:   accountID,
			AmountCents: amountCents,
			TxRef:       txRef,
			Status:      models.StatusPending,
			CreatedAt:   time.Now().UTC(),
		}
		st.Deposits = append(st.Deposits, d)
		out = *d
		return nil
	})
	e.record("submit_deposit", err)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitWithdrawal creates a pending withdrawal request and immediately
// escrows the amount, so several pending withdrawals cannot jointly
// overdraw the account. A later rejection refunds the escrow.
func (e *Engine) SubmitWithdrawal(ctx context.Context, accountID uuid.UUID, amountCents int64, destination string) (*models.WithdrawalRequest, error) {
	var out models.WithdrawalRequest
	err := e.store.Update(ctx, func(st *models.State) error {
		acct := st.AccountByID(accountID)
		if acct == nil {
			return ErrNotFound
		}
		if amountCents < st.Settings.MinWithdrawCents || amountCents > st.Settings.MaxWithdrawCents {
			return ErrAmountOutOfRange
		}
		if err := debit(acct, amountCents); err != nil {
			return err
		}
		w := &models.WithdrawalRequest{
			ID:          uuid.New(),
			AccountID:   accountID,
			AmountCents: amountCents,
			Destination: destination,
			Status:      models.StatusPending,
			CreatedAt:   time.Now().UTC(),
		}
		st.Withdrawals = append(st.Withdrawals, w)
		out = *w
		return nil
	})
	e.record("submit_withdrawal", err)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DecideDeposit moves a pending deposit to approved or rejected. Approval
// credits the amount; deciding an already-terminal request fails with
// ErrAlreadyDecided and never re-applies the credit.
func (e *Engine) DecideDeposit(ctx context.Context, id uuid.UUID, approve bool) (*models.DepositRequest, error) {
	var out models.DepositRequest
	err := e.store.Update(ctx, func(st *models.State) error {
		d := st.DepositByID(id)
		if d == nil {
			return ErrNotFound
		}
		if d.Status != models.StatusPending {
			return ErrAlreadyDecided
		}
		if approve {
			acct := st.AccountByID(d.AccountID)
			if acct == nil {
				return ErrNotFound
			}
			credit(acct, d.AmountCents)
			d.Status = models.StatusApproved
		} else {
			d.Status = models.StatusRejected
		}
		out = *d
		return nil
	})
	e.record("decide_deposit", err)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DecideWithdrawal moves a pending withdrawal to approved or rejected.
// Approval is a no-op on the balance (already escrowed); rejection refunds
// the escrowed amount.
func (e *Engine) DecideWithdrawal(ctx context.Context, id uuid.UUID, approve bool) (*models.WithdrawalRequest, error) {
	var out models.WithdrawalRequest
	err := e.store.Update(ctx, func(st *models.State) error {
		w := st.WithdrawalByID(id)
		if w == nil {
			return ErrNotFound
		}
		if w.Status != models.StatusPending {
			return ErrAlreadyDecided
		}
		if approve {
			w.Status = models.StatusApproved
		} else {
			acct := st.AccountByID(w.AccountID)
			if acct == nil {
				return ErrNotFound
			}
			credit(acct, w.AmountCents)
			w.Status = models.StatusRejected
		}
		out = *w
		return nil
	})
	e.record("decide_withdrawal", err)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// WalletHistory returns the account's deposits and withdrawals merged,
// newest first, each tagged with an explicit kind.
func (e *Engine) WalletHistory(accountID uuid.UUID) []models.HistoryEntry {
	var entries []models.HistoryEntry
	e.store.View(func(st *models.State) {
		for _, d := range st.Deposits {
			if d.AccountID != accountID {
				continue
			}
			entries = append(entries, models.HistoryEntry{
				Kind:        models.KindDeposit,
				ID:          d.ID,
				AmountCents: d.AmountCents,
				Reference:   d.TxRef,
				Status:      d.Status,
				CreatedAt:   d.CreatedAt,
			})
		}
		for _, w := range st.Withdrawals {
			if w.AccountID != accountID {
				continue
			}
			entries = append(entries, models.HistoryEntry{
				Kind:        models.KindWithdrawal,
				ID:          w.ID,
				AmountCents: w.AmountCents,
				Reference:   w.Destination,
				Status:      w.Status,
				CreatedAt:   w.CreatedAt,
			})
		}
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].CreatedAt.After(entries[j].CreatedAt) })
	return entries
}

// GetAccount returns a copy of the account, or ErrNotFound.
func (e *Engine) GetAccount(id uuid.UUID) (*models.Account, error) {
	var out *models.Account
	e.store.View(func(st *models.State) {
		if a := st.AccountByID(id); a != nil {
			cp := *a
			out = &cp
		}
	})
	if out == nil {
		return nil, ErrNotFound
	}
	return out, nil
}

// Settings returns the current configured bounds and site text.
func (e *Engine) Settings() models.Settings {
	var s models.Settings
	e.store.View(func(st *models.State) { s = st.Settings })
	return s
}

// Plans returns the plan catalog.
func (e *Engine) Plans() []*models.Plan {
	var out []*models.Plan
	e.store.View(func(st *models.State) {
		for _, p := range st.Plans {
			cp := *p
			out = append(out, &cp)
		}
	})
	return out
}
