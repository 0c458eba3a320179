package modifier

import "merge-tactics-server/game"

// Combat-side modifiers the assistant only tracks for display; their effects
// play out inside the battles themselves.
func registerInformational(r *Registry) {
	r.Register(game.ModifierDef{
		Tag:         "fievre_du_fight",
		Name:        "Fièvre du fight",
		Description: "Les troupes gagnent +100% de vitesse de frappe pendant 6s après avoir éliminé un ennemi",
	})
	r.Register(game.ModifierDef{
		Tag:         "moins_cest_mieux",
		Name:        "Moins c'est mieux",
		Description: "Si vous avez moins de troupes, votre équipe gagne +25% de PV et de vitesse de frappe",
	})
	r.Register(game.ModifierDef{
		Tag:         "aie",
		Name:        "Aïe",
		Description: "Début : les troupes sur la première ligne d'hexas renvoient 40% des dégâts subis",
	})
}
