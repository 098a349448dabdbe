package plan

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the engine wraps exactly one of
// these, so callers can branch with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrPrecondition      = errors.New("precondition failed")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrValidation        = errors.New("validation error")
)

// NotFoundError reports a missing plan or session, or one that does not
// belong to the caller.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// PreconditionError reports that generation cannot start, e.g. a plan with
// no topics.
type PreconditionError struct {
	PlanID int64
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("plan %d: %s", e.PlanID, e.Reason)
}

func (e *PreconditionError) Unwrap() error { return ErrPrecondition }

// TransitionError reports an operation the session's state does not allow.
type TransitionError struct {
	SessionID string
	Op        string
	Reason    string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s session %s: %s", e.Op, e.SessionID, e.Reason)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// ValidationError reports a malformed caller-supplied field.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
