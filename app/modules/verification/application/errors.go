package verificationservice

import (
	"errors"

	verificationdomain "github.com/Black-And-White-Club/lp-bot/app/modules/verification/domain"
)

var (
	// ErrPermissionDenied is returned when a non-staff member decides a request.
	ErrPermissionDenied = errors.New("staff role required")

	// ErrReviewUnavailable is returned when the review message cannot be posted.
	ErrReviewUnavailable = errors.New("staff review channel unavailable")

	// ErrApplicantUnavailable is returned when the applicant cannot be fetched
	// for an approval. The request stays pending.
	ErrApplicantUnavailable = errors.New("applicant unavailable")
)

func isFailure(err error) bool {
	return errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, verificationdomain.ErrInvalidSubmission) ||
		errors.Is(err, verificationdomain.ErrAlreadyDecided) ||
		errors.Is(err, verificationdomain.ErrRequestNotFound) ||
		errors.Is(err, ErrApplicantUnavailable)
}
