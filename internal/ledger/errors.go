package ledger

import (
	"errors"
	"fmt"
)

// ErrUnauthorized means no authenticated actor was supplied.
var ErrUnauthorized = errors.New("not authenticated")

// AccessDeniedError means the actor is authenticated but lacks rights
// on the fund.
type AccessDeniedError struct {
	ActorID uint
	FundID  uint
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("user %d has no access to fund %d", e.ActorID, e.FundID)
}

// ValidationError reports malformed or business-rule-violating input.
// The message is safe to surface verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a missing or soft-deleted entity.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// InvalidTransitionError reports a status change not present in the
// allowed-transition table. Both display names are included so the
// caller can show the user why the change was rejected.
type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot move %s from %s to %s", e.Entity, e.From, e.To)
}

// PersistenceError wraps an underlying storage failure. Handlers log
// it and return a generic message so storage details never leak.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func persistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}
