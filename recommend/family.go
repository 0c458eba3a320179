package recommend

import "merge-tactics-server/game"

// Fixed family payouts per simulated unique-card count. Reaching an
// activation threshold exactly pays the most; being one short of the next
// tier pays a smaller approach bonus; exceeding the top tier trickles.
const (
	twoTierFirstBonus    = 4.0 // count == 2, first tier activates
	twoTierTopBonus      = 6.0 // count == 4, top tier activates
	twoTierApproachBonus = 2.0 // count == 3, one short of the top tier
	twoTierTrickleBonus  = 1.0 // count > 4

	threeTierActivateBonus = 5.0 // count == 3, the single tier activates
	threeTierApproachBonus = 3.0 // count == 2, one short of activation
	threeTierTrickleBonus  = 1.5 // count > 3
)

// familySynergy simulates adding the candidate to the board's unique-name
// family counts and sums the payouts over every family present afterwards.
// A candidate whose name is already fielded changes no count.
func familySynergy(c game.Card, ctx *Context) float64 {
	simulated := make([]game.Card, 0, len(ctx.Board)+1)
	simulated = append(simulated, ctx.Board...)
	simulated = append(simulated, c)

	score := 0.0
	for trait, count := range game.FamilyCounts(simulated) {
		switch {
		case game.ThreeThresholdTrait(trait):
			switch {
			case count == 3:
				score += threeTierActivateBonus
			case count == 2:
				score += threeTierApproachBonus
			case count > 3:
				score += threeTierTrickleBonus
			}
		case game.TwoThresholdTrait(trait):
			switch {
			case count == 2:
				score += twoTierFirstBonus
			case count == 4:
				score += twoTierTopBonus
			case count == 3:
				score += twoTierApproachBonus
			case count > 4:
				score += twoTierTrickleBonus
			}
		}
	}
	return score
}
