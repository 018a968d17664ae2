package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Lookup errors
	ErrPrincipalNotFound = errors.New("principal not found")
	ErrEventNotFound     = errors.New("event not found")
	ErrTableNotFound     = errors.New("table not found")
	ErrGameListNotFound  = errors.New("game list not found")

	// Authorization errors
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("not allowed to perform this action")

	// Validation errors; wrap with detail via fmt.Errorf("%w: ...", ErrValidation)
	ErrValidation      = errors.New("validation failed")
	ErrIndexOutOfRange = errors.New("index out of range")

	// Enrollment conflicts
	ErrAlreadyRegistered = errors.New("already registered at this table")
	ErrTableFull         = errors.New("table is full")

	// Event gate errors
	ErrWrongPassword = errors.New("wrong event password")

	// ErrUsernameTaken is returned by the conditional credential insert when
	// the username is already claimed
	ErrUsernameTaken = errors.New("username already taken")
)

// PartialCascadeError reports a cascade delete that removed some but not all
// dependent entities. The remaining ids let the caller retry the remainder.
type PartialCascadeError struct {
	EventID         EventID
	RemainingTables []TableID
	RemainingLists  []GameListID
	Errs            []error
}

func (e *PartialCascadeError) Error() string {
	return fmt.Sprintf("cascade delete of event %s incomplete: %d tables and %d game lists remain",
		e.EventID, len(e.RemainingTables), len(e.RemainingLists))
}

// Unwrap exposes the underlying store errors for errors.Is/As
func (e *PartialCascadeError) Unwrap() []error {
	return e.Errs
}
