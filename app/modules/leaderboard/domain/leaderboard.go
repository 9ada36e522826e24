package leaderboarddomain

import (
	"sort"

	pointsdomain "github.com/Black-And-White-Club/lp-bot/app/modules/points/domain"
)

// DefaultTopN is the number of entries shown on the leaderboard.
const DefaultTopN = 10

// Entry is one ranked leaderboard line.
type Entry struct {
	Rank   int
	UserID string
	LP     int64
}

// Render ranks accounts by LP, highest first, keeping the input order among
// equal balances, and keeps the first limit entries.
func Render(accounts []pointsdomain.Account, limit int) []Entry {
	if limit <= 0 {
		limit = DefaultTopN
	}

	sorted := make([]pointsdomain.Account, len(accounts))
	copy(sorted, accounts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LP > sorted[j].LP
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	entries := make([]Entry, len(sorted))
	for i, a := range sorted {
		entries[i] = Entry{Rank: i + 1, UserID: a.UserID, LP: a.LP}
	}
	return entries
}
