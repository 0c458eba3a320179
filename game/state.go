package game

// GameState is the mutable record of a single run: resources, the fielded
// board, the bench holding area, and the acquisition history used by the
// disruption score.
type GameState struct {
	Elixir  int
	HP      int
	Turn    int
	Board   []Card
	Bench   []Card
	History map[string]int
}

// GameOver reports whether the run has ended (HP exhausted).
func (st *GameState) GameOver() bool {
	return st.HP <= 0
}

// RecordAcquisition bumps the history counter for a card name.
func (st *GameState) RecordAcquisition(name string) {
	if st.History == nil {
		st.History = make(map[string]int)
	}
	st.History[name]++
}

// zone returns a pointer to the slice backing the given zone.
func (st *GameState) zone(z Zone) *[]Card {
	if z == ZoneBoard {
		return &st.Board
	}
	return &st.Bench
}

// takeCard removes and returns the first card matching (name, level) from the
// zone, preserving the order of the remaining cards. ok is false when no card
// matches; the zone is then untouched.
func (st *GameState) takeCard(z Zone, name string, level int) (Card, bool) {
	cards := st.zone(z)
	for i, c := range *cards {
		if c.Name == name && c.Level == level {
			*cards = append((*cards)[:i], (*cards)[i+1:]...)
			return c, true
		}
	}
	return Card{}, false
}

// countMatching returns how many cards in the zone share (name, level).
func (st *GameState) countMatching(z Zone, name string, level int) int {
	n := 0
	for _, c := range *st.zone(z) {
		if c.Name == name && c.Level == level {
			n++
		}
	}
	return n
}
