package pointsdb

import (
	"time"

	"github.com/uptrace/bun"
)

// Account is the persisted form of a member balance.
type Account struct {
	LP int64 `json:"lp"`
	SP int64 `json:"sp"`
}

// LeaderboardPointer identifies the currently published leaderboard message.
type LeaderboardPointer struct {
	ChannelID *string `json:"channelId"`
	MessageID *string `json:"messageId"`
}

// Snapshot is the whole durable document. It is always written wholesale.
// Order lists user IDs in the order their accounts were first created.
type Snapshot struct {
	Users       map[string]Account `json:"users"`
	Order       []string           `json:"order,omitempty"`
	Leaderboard LeaderboardPointer `json:"leaderboard"`
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{Users: map[string]Account{}}
}

// SnapshotRecord stores a snapshot document under a key in Postgres.
type SnapshotRecord struct {
	bun.BaseModel `bun:"table:bot_snapshots,alias:bs"`

	Key       string    `bun:"key,pk"`
	Document  *Snapshot `bun:"document,type:jsonb,notnull"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}
