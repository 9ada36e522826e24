package pointsdomain

// RoleChanges is the minimal add/remove set that converges a member onto one rank role.
type RoleChanges struct {
	ToAdd    []string
	ToRemove []string
}

// Empty reports whether the member is already converged.
func (c RoleChanges) Empty() bool {
	return len(c.ToAdd) == 0 && len(c.ToRemove) == 0
}

// Reconcile computes the role changes needed so that, among rank roles, the member
// holds exactly the target tier's role. Roles that are not rank roles are ignored,
// and unconfigured tiers are never add or remove candidates.
func (t *RankTable) Reconcile(current []string, target RankTier) RoleChanges {
	held := make(map[string]struct{}, len(current))
	for _, id := range current {
		held[id] = struct{}{}
	}

	var changes RoleChanges
	for _, tier := range t.tiers {
		if tier.GroupID == "" || tier.GroupID == target.GroupID {
			continue
		}
		if _, ok := held[tier.GroupID]; ok {
			changes.ToRemove = append(changes.ToRemove, tier.GroupID)
		}
	}

	if target.GroupID != "" {
		if _, ok := held[target.GroupID]; !ok {
			changes.ToAdd = append(changes.ToAdd, target.GroupID)
		}
	}
	return changes
}

// Apply returns current with the changes applied, preserving the order of kept roles.
func (c RoleChanges) Apply(current []string) []string {
	removed := make(map[string]struct{}, len(c.ToRemove))
	for _, id := range c.ToRemove {
		removed[id] = struct{}{}
	}
	out := make([]string, 0, len(current)+len(c.ToAdd))
	for _, id := range current {
		if _, ok := removed[id]; !ok {
			out = append(out, id)
		}
	}
	return append(out, c.ToAdd...)
}
