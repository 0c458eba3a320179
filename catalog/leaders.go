package catalog

import "merge-tactics-server/game"

var leaders = []game.Leader{
	{
		Name:        "Impératrice",
		Description: "Gagne +1 élixir à chaque fusion réussie",
		Icon:        "👑",
		BonusMerge:  1,
	},
	{
		Name:        "Roi Royal",
		Description: "Gagne +4 élixir à chaque défaite",
		Icon:        "🤴",
		BonusDefeat: 4,
	},
}

// Leaders returns the full leader roster.
func Leaders() []game.Leader {
	out := make([]game.Leader, len(leaders))
	copy(out, leaders)
	return out
}

// LeaderByName returns the leader with the given name.
func LeaderByName(name string) (game.Leader, bool) {
	for _, l := range leaders {
		if l.Name == name {
			return l, true
		}
	}
	return game.Leader{}, false
}
