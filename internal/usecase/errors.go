package usecase

import "errors"

// Typed failures surfaced to the handlers. Invariant violations are returned,
// never silently swallowed; the only deliberate no-op is a replayed gateway
// callback, which returns the first recorded outcome.
var (
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation failed")
	ErrForbidden        = errors.New("forbidden")
	ErrClassClosed      = errors.New("class is not open")
	ErrClassFull        = errors.New("class capacity exceeded")
	ErrDuplicateBooking = errors.New("duplicate booking")
	ErrAlreadyProcessed = errors.New("payment already processed")
)
