package storage

import (
	"math"
	"sort"
)

const recentGameLimit = 10

// StatsSummary is the aggregated profile view built from a player's
// result history.
type StatsSummary struct {
	TotalGames       int          `json:"total_games"`
	Wins             int          `json:"wins"`
	Losses           int          `json:"losses"`
	WinRate          float64      `json:"win_rate"`
	AverageTurn      float64      `json:"average_turn"`
	BestTurn         int          `json:"best_turn"`
	TotalElixir      int          `json:"total_elixir"`
	TotalMerges      int          `json:"total_merges"`
	FavoriteLeader   string       `json:"favorite_leader"`
	FavoriteModifier string       `json:"favorite_modifier"`
	RecentGames      []GameResult `json:"recent_games"`
}

// Aggregate computes the stats summary over a result history. It is a pure
// function; both stores feed it the rows they hold. Favorites are the most
// frequently used leader and modifier, earliest seen winning ties.
func Aggregate(results []GameResult) StatsSummary {
	s := StatsSummary{RecentGames: []GameResult{}}
	if len(results) == 0 {
		return s
	}

	s.TotalGames = len(results)
	turnSum := 0
	leaders := map[string]int{}
	modifiers := map[string]int{}
	var leaderOrder, modifierOrder []string
	for _, r := range results {
		if r.Victory {
			s.Wins++
		}
		turnSum += r.FinalTurn
		if r.FinalTurn > s.BestTurn {
			s.BestTurn = r.FinalTurn
		}
		s.TotalElixir += r.ElixirGained
		s.TotalMerges += r.Merges
		if r.Leader != "" {
			if leaders[r.Leader] == 0 {
				leaderOrder = append(leaderOrder, r.Leader)
			}
			leaders[r.Leader]++
		}
		if r.Modifier != "" {
			if modifiers[r.Modifier] == 0 {
				modifierOrder = append(modifierOrder, r.Modifier)
			}
			modifiers[r.Modifier]++
		}
	}
	s.Losses = s.TotalGames - s.Wins
	s.WinRate = roundTenth(float64(s.Wins) / float64(s.TotalGames) * 100)
	s.AverageTurn = roundTenth(float64(turnSum) / float64(s.TotalGames))
	s.FavoriteLeader = mostFrequent(leaders, leaderOrder)
	s.FavoriteModifier = mostFrequent(modifiers, modifierOrder)

	recent := make([]GameResult, len(results))
	copy(recent, results)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].PlayedAt.After(recent[j].PlayedAt)
	})
	if len(recent) > recentGameLimit {
		recent = recent[:recentGameLimit]
	}
	s.RecentGames = recent
	return s
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

func mostFrequent(counts map[string]int, order []string) string {
	best, bestCount := "", 0
	for _, name := range order {
		if counts[name] > bestCount {
			best, bestCount = name, counts[name]
		}
	}
	return best
}
