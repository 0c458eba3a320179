package game

import (
	"fmt"

	"merge-tactics-server/config"
)

// Snapshot is the full serializable view of a session after a command. It
// carries everything needed to display the state and to reconstruct the
// session later.
type Snapshot struct {
	ID     string `json:"id,omitempty"`
	Turn   int    `json:"turn"`
	Elixir int    `json:"elixir"`
	HP     int    `json:"hp"`

	Board   []Card         `json:"board"`
	Bench   []Card         `json:"bench"`
	History map[string]int `json:"history,omitempty"`

	Leader    *Leader  `json:"leader,omitempty"`
	Modifiers []string `json:"modifiers,omitempty"`

	Pending   PendingBonuses `json:"pending"`
	Decisions []Decision     `json:"decisions,omitempty"`

	// FamilyBonuses maps trait to active tier; FamilyCounts holds the
	// unique-name counts over board and bench for display.
	FamilyBonuses map[string]int `json:"family_bonuses"`
	FamilyCounts  map[string]int `json:"family_counts"`

	MaxBoardSize   int `json:"max_board_size"`
	ChoicesPerTurn int `json:"choices_per_turn"`

	ExtractorActive  bool `json:"extractor_active,omitempty"`
	MannequinActive  bool `json:"mannequin_active,omitempty"`
	MannequinSpecial bool `json:"mannequin_special,omitempty"`
	EnemyCopyTaken   bool `json:"enemy_copy_taken,omitempty"`
	BoughtThisTurn   bool `json:"bought_this_turn,omitempty"`

	GameOver bool `json:"game_over"`
}

// Snapshot returns a deep copy of the session state. Safe to hand out while
// further commands mutate the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:               s.ID,
		Turn:             s.State.Turn,
		Elixir:           s.State.Elixir,
		HP:               s.State.HP,
		Board:            copyCards(s.State.Board),
		Bench:            copyCards(s.State.Bench),
		History:          copyCounts(s.State.History),
		Leader:           s.Leader,
		Modifiers:        append([]string(nil), s.Modifiers...),
		Pending:          s.Pending,
		Decisions:        append([]Decision(nil), s.Decisions...),
		FamilyBonuses:    ActiveBonuses(s.State.Board),
		FamilyCounts:     FamilyCounts(append(copyCards(s.State.Board), s.State.Bench...)),
		MaxBoardSize:     s.MaxBoardSize(),
		ChoicesPerTurn:   s.ChoicesPerTurn,
		ExtractorActive:  s.ExtractorActive,
		MannequinActive:  s.MannequinActive,
		MannequinSpecial: s.MannequinSpecial,
		EnemyCopyTaken:   s.EnemyCopyTaken,
		BoughtThisTurn:   s.boughtThisTurn,
		GameOver:         s.State.GameOver(),
	}
	return snap
}

// Restore rebuilds a session from a snapshot. Configuration hooks do not run
// again; their one-shot effects are already baked into the snapshot.
func Restore(cfg *config.Config, snap Snapshot, cards CardSource, mods ModifierProvider) (*Session, error) {
	if cards == nil {
		return nil, fmt.Errorf("session needs a card source")
	}
	if mods == nil {
		mods = noModifiers{}
	}

	history := copyCounts(snap.History)
	if history == nil {
		history = make(map[string]int)
	}
	choices := snap.ChoicesPerTurn
	if choices <= 0 {
		choices = cfg.ChoicesPerTurn
	}
	turn := snap.Turn
	if turn < 1 {
		turn = 1
	}

	s := &Session{
		ID:             snap.ID,
		Leader:         snap.Leader,
		Modifiers:      append([]string(nil), snap.Modifiers...),
		Weights:        cfg.ScoreWeights,
		ElixirPerTurn:  cfg.ElixirPerTurn,
		ChoicesPerTurn: choices,
		State: GameState{
			Elixir:  snap.Elixir,
			HP:      snap.HP,
			Turn:    turn,
			Board:   copyCards(snap.Board),
			Bench:   copyCards(snap.Bench),
			History: history,
		},
		Pending:          snap.Pending,
		Decisions:        append([]Decision(nil), snap.Decisions...),
		ExtractorActive:  snap.ExtractorActive,
		MannequinActive:  snap.MannequinActive,
		MannequinSpecial: snap.MannequinSpecial,
		EnemyCopyTaken:   snap.EnemyCopyTaken,
		boughtThisTurn:   snap.BoughtThisTurn,
		cards:            cards,
		mods:             mods,
	}
	return s, nil
}

func copyCards(cards []Card) []Card {
	out := make([]Card, len(cards))
	copy(out, cards)
	return out
}

func copyCounts(m map[string]int) map[string]int {
	if m == nil {
		return nil
	}
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
