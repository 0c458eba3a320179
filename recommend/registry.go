// Package recommend scores candidate card offers against the current game
// state. Each scoring term is registered independently; the total is the sum
// over all registered terms. The weights and constants are tuned heuristics;
// they must not be re-derived.
package recommend

import (
	"sort"

	"merge-tactics-server/config"
	"merge-tactics-server/game"
)

// Context is the read-only state a scoring pass runs against. Build it from
// a session snapshot; the scorer never mutates it.
type Context struct {
	Board   []game.Card
	Bench   []game.Card
	History map[string]int
	Elixir  int
	Weights config.Weights
}

// TermFunc computes one independent scoring term for a candidate.
type TermFunc func(c game.Card, ctx *Context) float64

type term struct {
	name string
	fn   TermFunc
}

var registry []term

// Register adds a scoring term. Terms contribute in registration order,
// which fixes the key order of the per-term breakdown.
func Register(name string, fn TermFunc) {
	registry = append(registry, term{name: name, fn: fn})
}

// Score is the evaluation of one candidate.
type Score struct {
	Card       game.Card          `json:"card"`
	Total      float64            `json:"total"`
	Terms      map[string]float64 `json:"terms"`
	Affordable bool               `json:"affordable"`
}

// Evaluate runs every registered term against the candidate.
func Evaluate(c game.Card, ctx *Context) Score {
	s := Score{
		Card:       c,
		Terms:      make(map[string]float64, len(registry)),
		Affordable: c.Cost <= ctx.Elixir,
	}
	for _, t := range registry {
		v := t.fn(c, ctx)
		s.Terms[t.name] = v
		s.Total += v
	}
	return s
}

// Rank evaluates all candidates and returns them sorted by descending total.
// The sort is stable so equal scores keep their input order.
func Rank(candidates []game.Card, ctx *Context) []Score {
	scores := make([]Score, 0, len(candidates))
	for _, c := range candidates {
		scores = append(scores, Evaluate(c, ctx))
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Total > scores[j].Total
	})
	return scores
}

// Best picks the affordable candidate with the strictly highest score. Ties
// go to the earliest candidate. ok is false when nothing is affordable.
func Best(candidates []game.Card, ctx *Context) (game.Card, bool) {
	best := game.Card{}
	bestScore := 0.0
	found := false
	for _, c := range candidates {
		if c.Cost > ctx.Elixir {
			continue
		}
		sc := Evaluate(c, ctx).Total
		if !found || sc > bestScore {
			best = c
			bestScore = sc
			found = true
		}
	}
	return best, found
}
