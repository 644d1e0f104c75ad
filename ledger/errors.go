package ledger

import "errors"

// Operation errors, mapped to user-facing notices by the handlers.
var (
	// ErrUnauthorized: caller is not the configured admin.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound: no ledger record for the given user id.
	ErrNotFound = errors.New("user not found")
	// ErrAlreadyProcessed: idempotency guard tripped; informational, not a
	// failure, and never accompanied by a state change.
	ErrAlreadyProcessed = errors.New("already processed")
	// ErrInsufficientBalance: the operation would drive a balance negative.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrUnknownCurrency: currency name absent from the address registry.
	ErrUnknownCurrency = errors.New("unknown currency")
	// ErrPendingExists: a request of the same kind is already awaiting the admin.
	ErrPendingExists = errors.New("a request is already pending")
	// ErrValidation: non-positive or otherwise malformed amount.
	ErrValidation = errors.New("invalid amount")
)
