package game

import "sort"

// Family activation thresholds. Two kinds of families exist:
//   - three-threshold families activate a single tier-3 bonus at 3 unique cards;
//   - two-threshold families activate tier 2 at 2 unique cards and are
//     superseded by tier 4 at 4 (the tiers never stack).
//
// Any trait outside both sets is informational and never grants a bonus.
var (
	threeThresholdTraits = map[string]bool{
		"Assassin": true,
		"Guetteur": true,
		"Vengeuse": true,
		"Lanceur":  true,
	}
	twoThresholdTraits = map[string]bool{
		"Noble":     true,
		"Clan":      true,
		"Gobelin":   true,
		"Revenant":  true,
		"Ace":       true,
		"Colosse":   true,
		"Bagarreur": true,
	}
)

// ThreeThresholdTrait reports whether the trait belongs to a family that
// activates only at 3 unique cards.
func ThreeThresholdTrait(trait string) bool { return threeThresholdTraits[trait] }

// TwoThresholdTrait reports whether the trait belongs to a family with
// tiers at 2 and 4 unique cards.
func TwoThresholdTrait(trait string) bool { return twoThresholdTraits[trait] }

// BonusTrait reports whether the trait can grant any family bonus at all.
func BonusTrait(trait string) bool {
	return threeThresholdTraits[trait] || twoThresholdTraits[trait]
}

// FamilyCounts reduces the given cards to one unit per unique name (first
// occurrence wins; duplicate names never multiply the count) and returns the
// number of units carrying each bonus-capable trait.
func FamilyCounts(cards []Card) map[string]int {
	seen := make(map[string]bool, len(cards))
	counts := make(map[string]int)
	for _, c := range cards {
		if seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		for _, trait := range c.Traits {
			if BonusTrait(trait) {
				counts[trait]++
			}
		}
	}
	return counts
}

// TierForCount returns the active tier for a trait at the given unique-card
// count, or 0 when inactive. Tier 4 supersedes tier 2 for two-threshold
// families; they never both apply.
func TierForCount(trait string, count int) int {
	switch {
	case threeThresholdTraits[trait]:
		if count >= 3 {
			return 3
		}
	case twoThresholdTraits[trait]:
		if count >= 4 {
			return 4
		}
		if count >= 2 {
			return 2
		}
	}
	return 0
}

// ActiveBonuses derives the active bonus tier per trait from the board
// composition. It is a pure function of the board: callers must recompute it
// after every board mutation and may call it any number of times without side
// effects. Inactive traits are omitted.
func ActiveBonuses(board []Card) map[string]int {
	active := make(map[string]int)
	for trait, count := range FamilyCounts(board) {
		if tier := TierForCount(trait, count); tier > 0 {
			active[trait] = tier
		}
	}
	return active
}

// SortedTraits returns the keys of a trait-count or trait-tier map in a fixed
// order so snapshots and logs stay deterministic.
func SortedTraits[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
