package game

// Event tags for leader bonuses.
type Event string

const (
	EventMerge  Event = "merge"
	EventDefeat Event = "defeat"
)

// Leader grants event-triggered elixir bonuses for the whole run.
// A zero bonus means the leader is inactive for that event.
type Leader struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	BonusMerge  int    `json:"bonus_merge"`
	BonusDefeat int    `json:"bonus_defeat"`
}

// ApplyLeaderBonus adds the active leader's bonus for the event to the
// session's elixir and returns the amount added. The elixir is credited here
// and only here; callers must not add the returned amount again.
func (s *Session) ApplyLeaderBonus(event Event) int {
	if s.Leader == nil {
		return 0
	}
	var bonus int
	switch event {
	case EventMerge:
		bonus = s.Leader.BonusMerge
	case EventDefeat:
		bonus = s.Leader.BonusDefeat
	}
	if bonus > 0 {
		s.State.Elixir += bonus
	}
	return bonus
}
