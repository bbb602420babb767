package engine

import "errors"

// Every validation failure is a terminal, caller-visible rejection detected
// before any mutation. There are no retryable errors in this core.
var (
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrInvalidCredential = errors.New("invalid credentials")
	ErrBanned            = errors.New("account banned")
	ErrAmountOutOfRange  = errors.New("amount out of range")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAlreadyDecided    = errors.New("request already decided")
	ErrNotFound          = errors.New("not found")
	ErrMissingProof      = errors.New("missing proof")
)
