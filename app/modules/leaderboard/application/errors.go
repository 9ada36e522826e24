package leaderboardservice

import "errors"

var (
	// ErrPermissionDenied is returned when a staff-only operation is called by a non-staff member.
	ErrPermissionDenied = errors.New("staff role required")
	// ErrChannelNotConfigured is returned by Publish when no leaderboard channel is set.
	ErrChannelNotConfigured = errors.New("leaderboard channel not configured")
)

func isFailure(err error) bool {
	return errors.Is(err, ErrPermissionDenied) || errors.Is(err, ErrChannelNotConfigured)
}
