package pointsdomain

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// MaxDisplayNameLength is the platform limit on nickname length, in runes.
const MaxDisplayNameLength = 32

// emojiPrefixes returns the distinct tier emojis, longest first, so that "⭐⭐⭐"
// is matched before "⭐".
func emojiPrefixes(tiers []RankTier) []string {
	seen := make(map[string]struct{}, len(tiers))
	out := make([]string, 0, len(tiers))
	for _, tier := range tiers {
		if tier.Emoji == "" {
			continue
		}
		if _, ok := seen[tier.Emoji]; ok {
			continue
		}
		seen[tier.Emoji] = struct{}{}
		out = append(out, tier.Emoji)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i]) > len(out[j])
	})
	return out
}

// StripRankPrefix removes every leading tier emoji (with or without a following
// space) and surrounding whitespace.
func (t *RankTable) StripRankPrefix(name string) string {
	name = strings.TrimSpace(name)
	for {
		stripped := false
		for _, emoji := range t.prefixes {
			if strings.HasPrefix(name, emoji) {
				name = strings.TrimSpace(strings.TrimPrefix(name, emoji))
				stripped = true
				break
			}
		}
		if !stripped {
			return name
		}
	}
}

// DesiredEmoji returns the emoji of the highest tier whose role the member holds.
// This follows held roles, not the LP balance.
func (t *RankTable) DesiredEmoji(owned []string) string {
	held := make(map[string]struct{}, len(owned))
	for _, id := range owned {
		held[id] = struct{}{}
	}
	for _, tier := range t.tiers {
		if tier.GroupID == "" {
			continue
		}
		if _, ok := held[tier.GroupID]; ok {
			return tier.Emoji
		}
	}
	return ""
}

// Decorate computes the display name for a member holding the owned roles.
// current is nil when the member has no nickname. It returns the new name and
// true, or "" and false when nothing should change.
func (t *RankTable) Decorate(current *string, owned []string, fallback string) (string, bool) {
	effective := fallback
	if current != nil {
		effective = *current
	}

	base := t.StripRankPrefix(effective)
	if base == "" {
		base = t.StripRankPrefix(fallback)
	}

	emoji := t.DesiredEmoji(owned)
	var next string
	if emoji != "" {
		next = emoji + " " + truncateRunes(base, MaxDisplayNameLength-utf8.RuneCountInString(emoji)-1)
	} else {
		next = truncateRunes(base, MaxDisplayNameLength)
	}
	next = strings.TrimSpace(next)

	if next == "" || next == effective {
		return "", false
	}
	return next, true
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:max]))
}
