package models

import (
	"time"

	"github.com/google/uuid"
)

// Task categories.
const (
	TaskTimedVideo = "timed_video"
	TaskLinkProof  = "link_proof"
)

type Task struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	RewardCents int64     `json:"reward_cents"`
	Category    string    `json:"category"`
	// DurationSeconds applies to timed_video tasks only.
	DurationSeconds int `json:"duration_seconds,omitempty"`
	// Link applies to link_proof tasks only.
	Link      string    `json:"link,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskSubmission is a proof-based claim against a link_proof task. RewardCents
// is captured at submission time so later task edits do not change it.
type TaskSubmission struct {
	ID          uuid.UUID `json:"id"`
	AccountID   uuid.UUID `json:"account_id"`
	TaskID      uuid.UUID `json:"task_id"`
	RewardCents int64     `json:"reward_cents"`
	ProofRef    string    `json:"proof_ref"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// AdView is the completion token handed out by StartTimedTask. The reward is
// captured at start; exactly one completion may credit it.
type AdView struct {
	Token       uuid.UUID  `json:"token"`
	AccountID   uuid.UUID  `json:"account_id"`
	TaskID      uuid.UUID  `json:"task_id"`
	RewardCents int64      `json:"reward_cents"`
	StartedAt   time.Time  `json:"started_at"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
