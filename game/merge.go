package game

// mergeIterationCap bounds a merge cascade. Cascades terminate on their own
// because every merge shrinks the bench by two cards; the cap guards the
// loop anyway.
const mergeIterationCap = 10

// findBenchTriple returns the (name, level) of the earliest bench card that
// belongs to a mergeable group of at least three. Level-capped cards never
// qualify.
func (s *Session) findBenchTriple() (string, int, bool) {
	for _, c := range s.State.Bench {
		if c.Level >= MaxCardLevel {
			continue
		}
		if s.State.countMatching(ZoneBench, c.Name, c.Level) >= 3 {
			return c.Name, c.Level, true
		}
	}
	return "", 0, false
}

// mergeGroup removes the three earliest (name, level) cards from the zone,
// appends one upgraded card, and credits the merge rewards: the flat +1
// elixir plus the leader merge bonus. Returns the upgraded card and the
// total elixir credited. The caller has verified the group exists.
func (s *Session) mergeGroup(z Zone, name string, level int) (Card, int) {
	cards := s.State.zone(z)
	var src Card
	removed := 0
	kept := make([]Card, 0, len(*cards))
	for _, c := range *cards {
		if removed < 3 && c.Name == name && c.Level == level {
			if removed == 0 {
				src = c
			}
			removed++
			continue
		}
		kept = append(kept, c)
	}
	*cards = kept

	merged := src.Upgraded()
	*cards = append(*cards, merged)

	s.State.Elixir++
	gained := 1 + s.ApplyLeaderBonus(EventMerge)
	return merged, gained
}

// resolveBenchMerges collapses every 3-of-a-kind group on the bench until no
// group remains or the iteration cap is hit. One merge per iteration keeps
// removal order stable while the bench shrinks.
func (s *Session) resolveBenchMerges() (merges, gained int) {
	for i := 0; i < mergeIterationCap; i++ {
		name, level, ok := s.findBenchTriple()
		if !ok {
			break
		}
		_, g := s.mergeGroup(ZoneBench, name, level)
		merges++
		gained += g
	}
	return merges, gained
}

// boardMerge consumes a bench card together with one or two identical board
// cards and places the upgraded result directly on the board. matches is the
// number of identical board cards (1 or 2); at most two are consumed so the
// merge never takes more than it needs.
func (s *Session) boardMerge(name string, level, matches int) (Card, int) {
	bench, _ := s.State.takeCard(ZoneBench, name, level)
	take := matches
	if take > 2 {
		take = 2
	}
	for i := 0; i < take; i++ {
		s.State.takeCard(ZoneBoard, name, level)
	}

	merged := bench.Upgraded()
	s.State.Board = append(s.State.Board, merged)

	s.State.Elixir++
	gained := 1 + s.ApplyLeaderBonus(EventMerge)
	return merged, gained
}
