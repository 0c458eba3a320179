package game

// ModifierDef describes one pre-game modifier as seen by the game package.
// Hooks may be nil: purely combat-side modifiers carry only a description and
// are tracked for display. The modifier package registers concrete defs; the
// provider interface lives here so game does not import it (avoids a cycle,
// same trick as the card source).
type ModifierDef struct {
	Tag         string
	Name        string
	Description string

	// OnConfigure runs once when the session is created with this modifier.
	OnConfigure func(s *Session)

	// OnTurnStart runs at the start of every new turn (after turn income).
	OnTurnStart func(s *Session)

	// OnTurnEnd runs when the turn is being closed, before income for the
	// next turn; typically accrues pending bonuses or raises decisions.
	OnTurnEnd func(s *Session)

	// Resolve answers a decision raised by this modifier.
	Resolve func(s *Session, ans Answer) (string, error)
}

// ModifierProvider abstracts the modifier registry.
type ModifierProvider interface {
	Get(tag string) (ModifierDef, bool)
	All() []ModifierDef
}

// noModifiers is the fallback provider for sessions built without a registry.
type noModifiers struct{}

func (noModifiers) Get(string) (ModifierDef, bool) { return ModifierDef{}, false }
func (noModifiers) All() []ModifierDef             { return nil }

// HasModifier reports whether the session was configured with the given tag.
func (s *Session) HasModifier(tag string) bool {
	for _, t := range s.Modifiers {
		if t == tag {
			return true
		}
	}
	return false
}

// forEachActiveModifier invokes fn with the definition of every active
// modifier that the registry knows, in the session's configuration order.
func (s *Session) forEachActiveModifier(fn func(ModifierDef)) {
	for _, tag := range s.Modifiers {
		if def, ok := s.mods.Get(tag); ok {
			fn(def)
		}
	}
}
