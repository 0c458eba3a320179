package recommend

import "merge-tactics-server/game"

func init() {
	Register("traits", traitSynergy)
	Register("merge", mergeProximity)
	Register("fusion_sell", infiniteElixir)
	Register("disruption", disruption)
	Register("cost", budget)
	Register("families", familySynergy)
}

// traitSynergy counts board and bench cards sharing each of the candidate's
// traits.
func traitSynergy(c game.Card, ctx *Context) float64 {
	score := 0.0
	for _, trait := range c.Traits {
		count := 0
		for _, other := range ctx.Board {
			if other.HasTrait(trait) {
				count++
			}
		}
		for _, other := range ctx.Bench {
			if other.HasTrait(trait) {
				count++
			}
		}
		score += ctx.Weights.Traits * float64(count)
	}
	return score
}

// mergeProximity rewards a candidate that shares a name with any board card,
// whatever the levels.
func mergeProximity(c game.Card, ctx *Context) float64 {
	for _, other := range ctx.Board {
		if other.Name == c.Name {
			return ctx.Weights.Merge
		}
	}
	return 0
}

// infiniteElixir rewards a candidate with an exact (name, level) match on
// the board: an immediate merge-then-resell cycle is available.
func infiniteElixir(c game.Card, ctx *Context) float64 {
	for _, other := range ctx.Board {
		if other.SameUnit(c) {
			return ctx.Weights.FusionSell
		}
	}
	return 0
}

// neverSeenAvailability is the assumed pool count for a card name with no
// acquisition history: never-seen cards are treated as already common.
const neverSeenAvailability = 4

func disruption(c game.Card, ctx *Context) float64 {
	seen, ok := ctx.History[c.Name]
	if !ok {
		seen = neverSeenAvailability
	}
	if seen < 1 {
		seen = 1
	}
	return ctx.Weights.Disruption / float64(seen)
}

func budget(c game.Card, ctx *Context) float64 {
	return -ctx.Weights.Cost * float64(c.Cost)
}
