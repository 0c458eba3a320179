// Package catalog holds the static game data: the card library, the leader
// roster, and the family bonus descriptions. Data is read-only after
// initialization and safe for concurrent use.
package catalog

import (
	"sort"

	"merge-tactics-server/game"
)

// Catalog is an immutable card registry. It implements game.CardSource.
type Catalog struct {
	byName map[string]game.Card
	order  []string
}

// Builtin returns the stock Merge Tactics card library.
func Builtin() *Catalog {
	c := &Catalog{byName: make(map[string]game.Card)}
	for _, card := range builtinCards {
		c.add(card)
	}
	return c
}

func (c *Catalog) add(card game.Card) {
	if _, exists := c.byName[card.Name]; !exists {
		c.order = append(c.order, card.Name)
	}
	c.byName[card.Name] = card
}

// Lookup returns the level-1 template for a card name.
func (c *Catalog) Lookup(name string) (game.Card, bool) {
	card, ok := c.byName[name]
	return card, ok
}

// All returns every card sorted by cost, then name. The order is stable so
// listings and shop displays stay deterministic.
func (c *Catalog) All() []game.Card {
	out := make([]game.Card, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.byName[name])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Cost != out[j].Cost {
			return out[i].Cost < out[j].Cost
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Len returns the number of distinct cards.
func (c *Catalog) Len() int { return len(c.byName) }

func card(name string, cost int, traits ...string) game.Card {
	return game.Card{Name: name, Cost: cost, Traits: traits, Level: 1}
}

var builtinCards = []game.Card{
	// Cost 2
	card("Chevalier", 2, "Noble", "Colosse"),
	card("Archères", 2, "Clan", "Guetteur"),
	card("Gobelins", 2, "Gobelin", "Assassin"),
	card("Gobelins à lances", 2, "Gobelin", "Lanceur"),
	card("Bombardier", 2, "Revenant", "Lanceur"),
	card("Barbares", 2, "Clan", "Bagarreur"),

	// Cost 3
	card("Valkyrie", 3, "Clan", "Vengeuse"),
	card("P.E.K.K.A", 3, "Ace", "Colosse"),
	card("Prince", 3, "Noble", "Bagarreur"),
	card("Squelette géant", 3, "Revenant", "Bagarreur"),
	card("Gobelin à sarbacane", 3, "Gobelin", "Guetteur"),
	card("Bourreau", 3, "Ace", "Lanceur"),

	// Cost 4
	card("Princesse", 4, "Noble", "Guetteur"),
	card("Mega chevalier", 4, "Ace", "Bagarreur"),
	card("Fantome royal", 4, "Revenant", "Assassin"),
	card("Voleuse", 4, "Ace", "Vengeuse"),
	card("Machine gobeline", 4, "Gobelin", "Colosse"),

	// Cost 5
	card("Roi squelette", 5, "Revenant", "Colosse"),
	card("Chevalier d'or", 5, "Noble", "Assassin"),
	card("Reine", 5, "Clan", "Vengeuse"),
}
