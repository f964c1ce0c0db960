package payment

import "errors"

// ErrForbidden means the booking being paid for belongs to someone else.
var ErrForbidden = errors.New("booking does not belong to the user")
