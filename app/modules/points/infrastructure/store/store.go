// Package pointsstore holds the authoritative in-memory point balances and
// schedules their durable snapshot.
package pointsstore

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"

	pointsdomain "github.com/Black-And-White-Club/lp-bot/app/modules/points/domain"
	pointsdb "github.com/Black-And-White-Club/lp-bot/app/modules/points/infrastructure/repositories"
	"github.com/Black-And-White-Club/lp-bot/app/observability/attr"
)

// ErrInvalidValue is returned by SetLP for negative values.
var ErrInvalidValue = errors.New("lp value must not be negative")

// DirtyMarker is notified after every mutation.
type DirtyMarker interface {
	MarkDirty()
}

type balance struct {
	lp int64
	sp int64
}

// Store is the single writer of member balances and the leaderboard pointer.
// Every read-modify-write runs under one mutex.
type Store struct {
	mu       sync.Mutex
	accounts map[string]*balance
	order    []string
	pointer  pointsdomain.LeaderboardPointer
	marker   DirtyMarker
}

// New returns an empty store.
func New() *Store {
	return &Store{accounts: map[string]*balance{}}
}

// SetDirtyMarker registers the component notified after mutations.
func (s *Store) SetDirtyMarker(m DirtyMarker) {
	s.mu.Lock()
	s.marker = m
	s.mu.Unlock()
}

// Get returns the account for userID, creating it with zero balances if needed.
func (s *Store) Get(userID string) pointsdomain.Account {
	return s.mutate(userID, func(*balance) bool { return false })
}

// AdjustLP adds delta to the LP balance. No floor is applied.
func (s *Store) AdjustLP(userID string, delta int64) pointsdomain.Account {
	return s.mutate(userID, func(b *balance) bool {
		b.lp += delta
		return delta != 0
	})
}

// AdjustSP adds delta to the SP balance, clamping the result at zero.
func (s *Store) AdjustSP(userID string, delta int64) pointsdomain.Account {
	return s.mutate(userID, func(b *balance) bool {
		next := b.sp + delta
		if next < 0 {
			next = 0
		}
		changed := next != b.sp
		b.sp = next
		return changed
	})
}

// SetLP replaces the LP balance. Negative values are rejected without touching the account.
func (s *Store) SetLP(userID string, value int64) (pointsdomain.Account, error) {
	if value < 0 {
		return pointsdomain.Account{}, ErrInvalidValue
	}
	return s.mutate(userID, func(b *balance) bool {
		changed := b.lp != value
		b.lp = value
		return changed
	}), nil
}

// Accounts returns every account in insertion order.
func (s *Store) Accounts() []pointsdomain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]pointsdomain.Account, 0, len(s.order))
	for _, id := range s.order {
		b := s.accounts[id]
		out = append(out, pointsdomain.Account{UserID: id, LP: b.lp, SP: b.sp})
	}
	return out
}

// Len reports the number of known accounts.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// Pointer returns the stored leaderboard pointer.
func (s *Store) Pointer() pointsdomain.LeaderboardPointer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pointer
}

// SetPointer replaces the leaderboard pointer.
func (s *Store) SetPointer(p pointsdomain.LeaderboardPointer) {
	s.mu.Lock()
	s.pointer = p
	marker := s.marker
	s.mu.Unlock()

	if marker != nil {
		marker.MarkDirty()
	}
}

// Snapshot copies the store into its durable document form.
func (s *Store) Snapshot() *pointsdb.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := pointsdb.NewSnapshot()
	for id, b := range s.accounts {
		snap.Users[id] = pointsdb.Account{LP: b.lp, SP: b.sp}
	}
	snap.Order = append([]string(nil), s.order...)
	snap.Leaderboard = pointsdb.LeaderboardPointer{
		ChannelID: copyString(s.pointer.ChannelID),
		MessageID: copyString(s.pointer.MessageID),
	}
	return snap
}

// Restore replaces the store contents with snap. Accounts keep the recorded
// creation order; users missing from it follow, ordered by user ID.
func (s *Store) Restore(snap *pointsdb.Snapshot) {
	ids := make([]string, 0, len(snap.Users))
	seen := make(map[string]bool, len(snap.Users))
	for _, id := range snap.Order {
		if _, ok := snap.Users[id]; ok && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	var rest []string
	for id := range snap.Users {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	ids = append(ids, rest...)

	accounts := make(map[string]*balance, len(ids))
	for _, id := range ids {
		a := snap.Users[id]
		accounts[id] = &balance{lp: a.LP, sp: a.SP}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = accounts
	s.order = ids
	s.pointer = pointsdomain.LeaderboardPointer{
		ChannelID: copyString(snap.Leaderboard.ChannelID),
		MessageID: copyString(snap.Leaderboard.MessageID),
	}
}

// Load restores the store from repo. A missing or unreadable snapshot leaves
// the store empty and is logged as a warning.
func (s *Store) Load(ctx context.Context, repo pointsdb.Repository, logger *slog.Logger) {
	snap, err := repo.Load(ctx)
	if err != nil {
		if errors.Is(err, pointsdb.ErrSnapshotNotFound) {
			logger.WarnContext(ctx, "No points snapshot found, starting empty")
		} else {
			logger.WarnContext(ctx, "Points snapshot unreadable, starting empty", attr.Error(err))
		}
		return
	}
	s.Restore(snap)
	logger.InfoContext(ctx, "Points snapshot loaded", attr.Int("accounts", len(snap.Users)))
}

// mutate applies fn to the account for userID under the lock and notifies the
// dirty marker once the lock is released.
func (s *Store) mutate(userID string, fn func(*balance) bool) pointsdomain.Account {
	s.mu.Lock()
	b, ok := s.accounts[userID]
	created := !ok
	if created {
		b = &balance{}
		s.accounts[userID] = b
		s.order = append(s.order, userID)
	}
	changed := fn(b)
	account := pointsdomain.Account{UserID: userID, LP: b.lp, SP: b.sp}
	marker := s.marker
	s.mu.Unlock()

	if (created || changed) && marker != nil {
		marker.MarkDirty()
	}
	return account
}

func copyString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
