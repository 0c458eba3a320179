package modifier

import (
	"fmt"

	"merge-tactics-server/game"
	"merge-tactics-server/gameerrors"
)

// lookupAnswerCard resolves a card-name answer against the session's catalog.
func lookupAnswerCard(s *game.Session, name string) (game.Card, error) {
	card, ok := s.LookupCard(name)
	if !ok {
		return game.Card{}, fmt.Errorf("%w: %s", gameerrors.ErrUnknownCard, name)
	}
	return card, nil
}

// starterTroop builds the configure/resolve pair shared by the etoile
// modifiers: the player reports which troop of the given cost they started
// with and it lands on the board at the given level.
func starterTroop(tag, name, description string, cost, level int) game.ModifierDef {
	return game.ModifierDef{
		Tag:         tag,
		Name:        name,
		Description: description,
		OnConfigure: func(s *game.Session) {
			s.RaiseDecision(tag,
				fmt.Sprintf("Which starting troop at %d elixir did you receive?", cost),
				game.AnswerCard)
		},
		Resolve: func(s *game.Session, ans game.Answer) (string, error) {
			if ans.CardName == "" {
				return "no starting troop configured", nil
			}
			card, err := lookupAnswerCard(s, ans.CardName)
			if err != nil {
				return "", err
			}
			if card.Cost != cost {
				return "", gameerrors.Invalid("starting troop must cost %d elixir, %s costs %d",
					cost, card.Name, card.Cost)
			}
			s.State.Board = append(s.State.Board, card.AtLevel(level))
			s.State.RecordAcquisition(card.Name)
			return fmt.Sprintf("%s level %d placed on the board", card.Name, level), nil
		},
	}
}

func registerStarting(r *Registry) {
	r.Register(game.ModifierDef{
		Tag:         "plein_les_poches",
		Name:        "Plein les poches",
		Description: "Tous les leaders commencent avec +5 élixir",
		OnConfigure: func(s *game.Session) { s.State.Elixir += 5 },
	})
	r.Register(game.ModifierDef{
		Tag:         game.ModTeamPlusOne,
		Name:        "Plus on est de fous",
		Description: "Taille de l'équipe augmentée de 1 (jusqu'à 7 cartes)",
	})
	r.Register(game.ModifierDef{
		Tag:         game.ModTeamFixedSix,
		Name:        "La fête",
		Description: "La taille de l'équipe est toujours de 6",
	})
	r.Register(starterTroop("etoile_rare", "Étoile rare",
		"Commencez avec une troupe 2 étoiles à 2 élixirs", 2, 2))
	r.Register(starterTroop("etoile_epique", "Étoile épique",
		"Commencez avec une troupe 2 étoiles à 3 élixirs", 3, 2))
	r.Register(starterTroop("etoile_légendaire", "Étoile légendaire",
		"Commencez avec une troupe 2 étoiles à 4 élixirs", 4, 2))
	r.Register(starterTroop("etoile_de_champion", "Étoile de champion",
		"Commencez avec une troupe aléatoire à 5 élixirs", 5, 2))
	r.Register(game.ModifierDef{
		Tag:         "rester_en_vie",
		Name:        "Rester en vie",
		Description: "Commencez avec un mannequin et gagnez +1 élixir s'il survit au round",
		OnConfigure: func(s *game.Session) { s.MannequinActive = true },
		OnTurnEnd: func(s *game.Session) {
			if s.MannequinActive {
				s.RaiseDecision("rester_en_vie", "Did your mannequin survive the round?", game.AnswerBool)
			}
		},
		Resolve: func(s *game.Session, ans game.Answer) (string, error) {
			if !ans.Yes {
				return "no survival bonus", nil
			}
			s.State.Elixir++
			return "mannequin survived, +1 elixir", nil
		},
	})
	r.Register(game.ModifierDef{
		Tag:         "mannequin_special",
		Name:        "Mannequin spécial",
		Description: "Commencez avec un mannequin qui possède 2 attributs aléatoires",
		OnConfigure: func(s *game.Session) {
			s.MannequinActive = true
			s.MannequinSpecial = true
		},
	})
	r.Register(game.ModifierDef{
		Tag:         "4_etoiles",
		Name:        "4 étoiles",
		Description: "La sélection de troupes est doublée, plus de troupes sont disponibles dans le magasin",
		OnConfigure: func(s *game.Session) { s.ChoicesPerTurn = 6 },
	})
}
