package ticketservice

import "errors"

var (
	// ErrTicketRateLimited is returned when a member opens tickets too quickly.
	ErrTicketRateLimited = errors.New("too many tickets opened")
	// ErrThreadUnavailable is returned when the private thread cannot be created.
	ErrThreadUnavailable = errors.New("ticket thread could not be created")
)

func isFailure(err error) bool {
	return errors.Is(err, ErrTicketRateLimited) || errors.Is(err, ErrThreadUnavailable)
}
