package whitelist

import (
	"errors"
	"fmt"
)

var (
	// ErrValidationFailed is matched by every *ValidationError.
	ErrValidationFailed = errors.New("validation failed")
	// ErrHandleAlreadyTaken means a record with the same handle exists.
	ErrHandleAlreadyTaken = errors.New("handle taken")
	// ErrPersistenceFailed wraps store and network failures.
	ErrPersistenceFailed = errors.New("submission failed")
	// ErrSubmitInFlight means the session already has a submission running.
	ErrSubmitInFlight = errors.New("submission already in progress")
	// ErrAlreadySubmitted means the session already joined; only a reset starts over.
	ErrAlreadySubmitted = errors.New("already on the waiting list")
	// ErrNotEligible means the wallet does not satisfy the eligibility rule.
	ErrNotEligible = errors.New("wallet is not eligible")
)

// ValidationError is a precondition failure on one form field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}
