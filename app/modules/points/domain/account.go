package pointsdomain

// Account holds a member's balances.
type Account struct {
	UserID string
	LP     int64
	SP     int64
}

// LeaderboardPointer identifies the published leaderboard message.
// A nil MessageID means nothing has been published yet.
type LeaderboardPointer struct {
	ChannelID *string
	MessageID *string
}

// Matches reports whether the pointer refers to a message in channelID.
func (p LeaderboardPointer) Matches(channelID string) bool {
	return p.ChannelID != nil && p.MessageID != nil && *p.ChannelID == channelID && *p.MessageID != ""
}
