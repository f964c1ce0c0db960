package vehicle

import "errors"

// ErrForbidden means the vehicle belongs to another user.
var ErrForbidden = errors.New("vehicle does not belong to the user")
