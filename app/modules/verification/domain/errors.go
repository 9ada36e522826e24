package verificationdomain

import "errors"

var (
	// ErrAlreadyDecided is returned when a request has already been approved or rejected.
	ErrAlreadyDecided = errors.New("verification request already decided")
	// ErrRequestNotFound is returned when a request cannot be resolved.
	ErrRequestNotFound = errors.New("verification request not found")
	// ErrInvalidSubmission is returned when submitted form data fails validation.
	ErrInvalidSubmission = errors.New("invalid verification submission")
)
