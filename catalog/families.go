package catalog

// familyDescriptions maps a trait to its per-tier effect text, as shown in
// the game client. The thresholds themselves live in the game package.
var familyDescriptions = map[string]map[int]string{
	"Noble": {
		2: "Les troupes au front subissent moins de dégâts et les troupes sur la ligne arrière gagnent des dégâts bonus [2]: 20%.",
		4: "40%.",
	},
	"Clan": {
		2: "Soins rapides et bonus de vitesse de frappe à 50 % des PV pour les Clans (une fois par round) : [2] +30% de PV max et vitesse de frappe.",
		4: "+60% de PV max et vitesse de frappe pour les Clans, +30% pour l'équipe.",
	},
	"Gobelin": {
		2: "Gobelin bonus aléatoire gratuit au prochain round. [2]: Gobelin bonus de 2 élixirs",
		4: "+60% de chances de gagner un gobelin à 3 ou 4 élixirs",
	},
	"Revenant": {
		2: "Début : l'ennemi avec le plus de PV est maudit et vos Revenants gagnent 30 % de dégâts bonus quand cet ennemi est vaincu. [2]: Maudit 2 ennemis, PV max réduits de 25%.",
		4: "Maudit 3 ennemis, PV max réduits de 50%.",
	},
	"Ace": {
		2: "Démarrage : l'unité avec le plus haut niveau de fusion devient capitaine. Quand il élimine des troupes, l'équipe gagne +20% de vitesse de frappe (4s) [2]: capitaine; +30% de dégâts bonus",
		4: "Capitaine : +60% de dégâts bonus et +30% de PV des dégâts infligés",
	},
	"Colosse": {
		2: "Début : les Colosses et les troupes placées derrière gagnent un bouclier de 12s. [2]: +30% de bouclier bonus",
		4: "+60% de bouclier bonus pour les Colosses.",
	},
	"Assassin": {
		3: "Démarrage : les assassins sautent sur les troupes de la ligne arrière adverse. [3]: +35% de chances critiques et dégâts critiques",
	},
	"Guetteur": {
		3: "Les guetteurs gagnent de la vitesse de frappe à chaque attaque, jusqu'à 15x. [3]: +15% de vitesse de frappe.",
	},
	"Bagarreur": {
		2: "+40% de PV maximum",
		4: "+80% PV pour les Bagarreurs, +30% pour l'équipe entière",
	},
	"Vengeuse": {
		3: "Les Vengeuses gagnent des dégâts bonus, et la dernière debout gagne le double de dégâts [3]: +30%",
	},
	"Lanceur": {
		3: "Les Lanceurs gagnent +1 de portée d'attaque et infligent plus de dégâts aux cibles éloignées. [3]: +10% de dégâts par hexagone.",
	},
}

// FamilyDescription returns the effect text for a trait at a tier.
func FamilyDescription(trait string, tier int) (string, bool) {
	tiers, ok := familyDescriptions[trait]
	if !ok {
		return "", false
	}
	desc, ok := tiers[tier]
	return desc, ok
}

// FamilyActivation returns the lowest unique-card count that grants the
// trait any bonus, or 0 for traits without bonuses.
func FamilyActivation(trait string) int {
	tiers, ok := familyDescriptions[trait]
	if !ok {
		return 0
	}
	min := 0
	for tier := range tiers {
		if min == 0 || tier < min {
			min = tier
		}
	}
	return min
}
