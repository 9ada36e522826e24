package pointsdomain

// TierID identifies a rank tier independently of the group it is mapped to.
type TierID string

const (
	TierLegend    TierID = "legend"
	TierSponsor   TierID = "sponsor"
	TierRightHand TierID = "right_hand"
	TierCaptain   TierID = "captain"
	TierMember    TierID = "member"
	TierRookie    TierID = "rookie"
)

// RankTier is one bracket of the rank table.
type RankTier struct {
	ID        TierID
	Threshold int64
	// GroupID is the platform role mapped to this tier. Empty when unconfigured.
	GroupID string
	Emoji   string
	Label   string
}

// GroupIDs maps every tier to its configured platform role.
type GroupIDs struct {
	Legend    string
	Sponsor   string
	RightHand string
	Captain   string
	Member    string
	Rookie    string
}

// RankTable is the fixed tier table, ordered by descending threshold.
// It is built once at startup and never mutated afterwards.
type RankTable struct {
	tiers    []RankTier
	prefixes []string
}

// NewRankTable builds the six-tier table with the given role mapping.
func NewRankTable(groups GroupIDs) *RankTable {
	tiers := []RankTier{
		{ID: TierLegend, Threshold: 20000, GroupID: groups.Legend, Emoji: "💎", Label: "Legend"},
		{ID: TierSponsor, Threshold: 10000, GroupID: groups.Sponsor, Emoji: "👑", Label: "Sponsor"},
		{ID: TierRightHand, Threshold: 5000, GroupID: groups.RightHand, Emoji: "⭐⭐⭐", Label: "Right-Hand"},
		{ID: TierCaptain, Threshold: 1000, GroupID: groups.Captain, Emoji: "⭐⭐", Label: "Captain"},
		{ID: TierMember, Threshold: 100, GroupID: groups.Member, Emoji: "⭐", Label: "Member"},
		{ID: TierRookie, Threshold: 0, GroupID: groups.Rookie, Emoji: "🌱", Label: "Rookie"},
	}
	return &RankTable{
		tiers:    tiers,
		prefixes: emojiPrefixes(tiers),
	}
}

// Tiers returns a copy of the table in evaluation order.
func (t *RankTable) Tiers() []RankTier {
	out := make([]RankTier, len(t.tiers))
	copy(out, t.tiers)
	return out
}

// ResolveTier returns the first tier whose threshold is <= lp.
// The lowest tier has threshold 0, so negative balances also land there.
func (t *RankTable) ResolveTier(lp int64) RankTier {
	for _, tier := range t.tiers {
		if tier.Threshold <= lp {
			return tier
		}
	}
	return t.tiers[len(t.tiers)-1]
}

// Tier looks a tier up by its ID.
func (t *RankTable) Tier(id TierID) (RankTier, bool) {
	for _, tier := range t.tiers {
		if tier.ID == id {
			return tier, true
		}
	}
	return RankTier{}, false
}

// GroupIDs lists the configured rank roles in evaluation order.
func (t *RankTable) GroupIDs() []string {
	ids := make([]string, 0, len(t.tiers))
	for _, tier := range t.tiers {
		if tier.GroupID != "" {
			ids = append(ids, tier.GroupID)
		}
	}
	return ids
}
