package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("time range conflicts with an existing booking")
)

// ValidationError reports a missing or malformed required field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InvalidStateError reports an operation attempted from a status that
// forbids it. The current status is part of the message.
type InvalidStateError struct {
	Op     string
	Status string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s with status: %s", e.Op, e.Status)
}

func invalidState(op string, status BookingStatus) error {
	return &InvalidStateError{Op: op, Status: string(status)}
}
