package models

import (
	"github.com/google/uuid"
)

// Settings holds the configured bounds enforced on deposit/withdrawal
// submission plus informational site text.
type Settings struct {
	SiteName         string `json:"site_name"`
	Notice           string `json:"notice"`
	MinDepositCents  int64  `json:"min_deposit_cents"`
	MaxDepositCents  int64  `json:"max_deposit_cents"`
	MinWithdrawCents int64  `json:"min_withdraw_cents"`
	MaxWithdrawCents int64  `json:"max_withdraw_cents"`
}

// State is the whole engine state document. It is the unit of snapshotting:
// a State marshals to a single JSON document and restores exactly.
type State struct {
	Accounts    []*Account           `json:"accounts"`
	Deposits    []*DepositRequest    `json:"deposits"`
	Withdrawals []*WithdrawalRequest `json:"withdrawals"`
	Submissions []*TaskSubmission    `json:"submissions"`
	Tasks       []*Task              `json:"tasks"`
	AdViews     []*AdView            `json:"ad_views"`
	Plans       []*Plan              `json:"plans"`
	Settings    Settings             `json:"settings"`
}

// NewState returns a State seeded with the default plan catalog, task
// catalog and settings.
func NewState() *State {
	return &State{
		Plans: []*Plan{
			{ID: 1, Name: "Basic", PriceCents: 0, DailyLimit: 5},
			{ID: 2, Name: "VIP 1", PriceCents: 100_000, DailyLimit: 15},
			{ID: 3, Name: "VIP 2", PriceCents: 500_000, DailyLimit: 30},
		},
		Tasks: []*Task{
			{ID: uuid.New(), Title: "Watch Video Ad", RewardCents: 2_500, Category: TaskTimedVideo, DurationSeconds: 10},
			{ID: uuid.New(), Title: "Subscribe Channel", RewardCents: 5_000, Category: TaskLinkProof, Link: "https://youtube.com"},
		},
		Settings: Settings{
			SiteName:         "Hammad.pk",
			Notice:           "Welcome to Hammad.pk! Official Earning Platform.",
			MinDepositCents:  50_000,
			MaxDepositCents:  5_000_000,
			MinWithdrawCents: 100_000,
			MaxWithdrawCents: 2_500_000,
		},
	}
}

// Clone deep-copies the state so a snapshot cannot be mutated after commit.
func (st *State) Clone() *State {
	cp := &State{
		Accounts:    make([]*Account, len(st.Accounts)),
		Deposits:    make([]*DepositRequest, len(st.Deposits)),
		Withdrawals: make([]*WithdrawalRequest, len(st.Withdrawals)),
		Submissions: make([]*TaskSubmission, len(st.Submissions)),
		Tasks:       make([]*Task, len(st.Tasks)),
		AdViews:     make([]*AdView, len(st.AdViews)),
		Plans:       make([]*Plan, len(st.Plans)),
		Settings:    st.Settings,
	}
	for i, a := range st.Accounts {
		c := *a
		cp.Accounts[i] = &c
	}
	for i, d := range st.Deposits {
		c := *d
		cp.Deposits[i] = &c
	}
	for i, w := range st.Withdrawals {
		c := *w
		cp.Withdrawals[i] = &c
	}
	for i, s := range st.Submissions {
		c := *s
		cp.Submissions[i] = &c
	}
	for i, t := range st.Tasks {
		c := *t
		cp.Tasks[i] = &c
	}
	for i, v := range st.AdViews {
		c := *v
		if v.CompletedAt != nil {
			at := *v.CompletedAt
			c.CompletedAt = &at
		}
		cp.AdViews[i] = &c
	}
	for i, p := range st.Plans {
		c := *p
		cp.Plans[i] = &c
	}
	return cp
}

// AccountByID returns the account or nil.
func (st *State) AccountByID(id uuid.UUID) *Account {
	for _, a := range st.Accounts {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// AccountByEmail does a case-sensitive exact match, consistent with the
// original registration behavior.
func (st *State) AccountByEmail(email string) *Account {
	for _, a := range st.Accounts {
		if a.Email == email {
			return a
		}
	}
	return nil
}

// AccountByReferralCode returns the account owning the code, or nil.
func (st *State) AccountByReferralCode(code string) *Account {
	for _, a := range st.Accounts {
		if a.ReferralCode == code {
			return a
		}
	}
	return nil
}

func (st *State) DepositByID(id uuid.UUID) *DepositRequest {
	for _, d := range st.Deposits {
		if d.ID == id {
			return d
		}
	}
	return nil
}

func (st *State) WithdrawalByID(id uuid.UUID) *WithdrawalRequest {
	for _, w := range st.Withdrawals {
		if w.ID == id {
			return w
		}
	}
	return nil
}

func (st *State) SubmissionByID(id uuid.UUID) *TaskSubmission {
	for _, s := range st.Submissions {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (st *State) TaskByID(id uuid.UUID) *Task {
	for _, t := range st.Tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (st *State) AdViewByToken(token uuid.UUID) *AdView {
	for _, v := range st.AdViews {
		if v.Token == token {
			return v
		}
	}
	return nil
}

func (st *State) PlanByID(id int) *Plan {
	for _, p := range st.Plans {
		if p.ID == id {
			return p
		}
	}
	return nil
}
