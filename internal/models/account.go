package models

import (
	"time"

	"github.com/google/uuid"
)

type Account struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"password_hash"`
	BalanceCents   int64     `json:"balance_cents"`
	PlanID         int       `json:"plan_id"`
	ReferralCode   string    `json:"referral_code"`
	ReferredBy     string    `json:"referred_by,omitempty"`
	TasksCompleted int       `json:"tasks_completed"`
	IsAdmin        bool      `json:"is_admin"`
	IsBanned       bool      `json:"is_banned"`
	CreatedAt      time.Time `json:"created_at"`
}

// Plan is an immutable catalog entry referenced by Account.PlanID.
type Plan struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	DailyLimit int    `json:"daily_limit"`
}
