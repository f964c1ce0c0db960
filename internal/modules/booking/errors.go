package booking

import "errors"

var (
	// ErrNotAvailable means the overlap scan found no free space for the
	// requested range.
	ErrNotAvailable = errors.New("no space available for the requested time")

	// ErrForbidden means the booking does not belong to the requesting user.
	ErrForbidden = errors.New("booking does not belong to the user")

	// ErrSlotContended means another request holds the slot lock; the caller
	// should retry.
	ErrSlotContended = errors.New("slot is being booked by another request")
)
