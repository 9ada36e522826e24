package pointsservice

import "errors"

var (
	// ErrInvalidAmount is returned when an add/remove amount is not positive.
	ErrInvalidAmount = errors.New("amount must be a positive integer")
	// ErrInvalidValue is returned when an absolute LP value is negative.
	ErrInvalidValue = errors.New("lp value must not be negative")
	// ErrPermissionDenied is returned when the actor lacks the staff role.
	ErrPermissionDenied = errors.New("staff role required")
)

func isFailure(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidValue) ||
		errors.Is(err, ErrPermissionDenied)
}
