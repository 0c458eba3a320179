package game

// MaxCardLevel is the star cap; cards at this level can no longer merge.
const MaxCardLevel = 5

// Card is an immutable value: name, cost, and traits are fixed per name by the
// catalog, only the level varies per instance. Never mutate a card in place;
// replace the board/bench entry with a new value instead.
type Card struct {
	Name   string   `json:"name"`
	Cost   int      `json:"cost"`
	Traits []string `json:"traits"`
	Level  int      `json:"level"`
}

// SameUnit reports whether two cards are identical for merge purposes
// (name and level both match).
func (c Card) SameUnit(o Card) bool {
	return c.Name == o.Name && c.Level == o.Level
}

// HasTrait reports whether the card carries the given trait tag.
func (c Card) HasTrait(trait string) bool {
	for _, t := range c.Traits {
		if t == trait {
			return true
		}
	}
	return false
}

// Upgraded returns a copy of the card one level higher. Traits are copied so
// the new value shares no backing array with the consumed cards.
func (c Card) Upgraded() Card {
	traits := make([]string, len(c.Traits))
	copy(traits, c.Traits)
	return Card{Name: c.Name, Cost: c.Cost, Traits: traits, Level: c.Level + 1}
}

// AtLevel returns a copy of the card at the given level.
func (c Card) AtLevel(level int) Card {
	traits := make([]string, len(c.Traits))
	copy(traits, c.Traits)
	return Card{Name: c.Name, Cost: c.Cost, Traits: traits, Level: level}
}

// Zone identifies one of the two card areas of a session.
type Zone string

const (
	ZoneBoard Zone = "board"
	ZoneBench Zone = "bench"
)

// Valid reports whether z names a real zone.
func (z Zone) Valid() bool {
	return z == ZoneBoard || z == ZoneBench
}

// CardSource abstracts the card catalog so the game package does not import
// the catalog package directly. Lookup returns a level-1 template.
type CardSource interface {
	Lookup(name string) (Card, bool)
	All() []Card
}
