// Package modifier defines the pre-game modifiers: one-time setup effects,
// recurring turn effects, and the purely informational combat modifiers. The
// registry implements game.ModifierProvider.
package modifier

import "merge-tactics-server/game"

// Registry holds all registered modifiers indexed by tag.
type Registry struct {
	mods  map[string]game.ModifierDef
	order []string // registration order for deterministic All()
}

// NewRegistry creates an empty modifier registry.
func NewRegistry() *Registry {
	return &Registry{mods: make(map[string]game.ModifierDef)}
}

// Register adds a modifier definition to the registry.
func (r *Registry) Register(def game.ModifierDef) {
	if _, exists := r.mods[def.Tag]; !exists {
		r.order = append(r.order, def.Tag)
	}
	r.mods[def.Tag] = def
}

// Get returns the modifier definition for a tag.
// It satisfies the game.ModifierProvider interface.
func (r *Registry) Get(tag string) (game.ModifierDef, bool) {
	def, ok := r.mods[tag]
	return def, ok
}

// All returns every registered modifier in registration order.
// It satisfies the game.ModifierProvider interface.
func (r *Registry) All() []game.ModifierDef {
	defs := make([]game.ModifierDef, 0, len(r.order))
	for _, tag := range r.order {
		defs = append(defs, r.mods[tag])
	}
	return defs
}

// NewDefaultRegistry returns a registry with the full modifier set.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	registerStarting(r)
	registerEconomy(r)
	registerRecurring(r)
	registerInformational(r)
	return r
}
