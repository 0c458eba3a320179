package modifier

import (
	"fmt"

	"merge-tactics-server/game"
)

func registerEconomy(r *Registry) {
	r.Register(game.ModifierDef{
		Tag:         "de_plus_en_plus_riche",
		Name:        "De plus en plus riche",
		Description: "Tous les 2 élixirs, vous gagnez +1 élixir d'intérêt au prochain round",
		OnTurnEnd: func(s *game.Session) {
			s.Pending.Interest += s.State.Elixir / 2
		},
	})
	r.Register(game.ModifierDef{
		Tag:         "extracteur_elixir",
		Name:        "Extracteur d'élixir",
		Description: "Recevez un extracteur d'élixir qui génère 2 élixirs par round, stockés jusqu'à vente de l'extracteur",
		OnConfigure: func(s *game.Session) { s.ExtractorActive = true },
	})
	r.Register(game.ModifierDef{
		Tag:         game.ModFirstBuyFree,
		Name:        "Cadeau de la maison",
		Description: "La première troupe achetée à chaque round est gratuite",
	})
	r.Register(game.ModifierDef{
		Tag:         game.ModFirstBuyUpgraded,
		Name:        "Premier choix",
		Description: "La première troupe achetée à chaque tour est une 2 étoiles",
	})
	r.Register(game.ModifierDef{
		Tag:         "bonne_affaire",
		Name:        "Bonne affaire",
		Description: "Pour chaque troupe que vous vendez, gagnez +1 élixir au prochain round",
		OnTurnEnd: func(s *game.Session) {
			s.RaiseDecision("bonne_affaire", "How many troops did you sell this round?", game.AnswerCount)
		},
		Resolve: func(s *game.Session, ans game.Answer) (string, error) {
			if ans.Count <= 0 {
				return "no sale bonus", nil
			}
			s.Pending.SaleBonus += ans.Count
			return fmt.Sprintf("+%d elixir next turn for the sales", ans.Count), nil
		},
	})
	r.Register(game.ModifierDef{
		Tag:         "clairvoyance",
		Name:        "Clairvoyance",
		Description: "Si votre banc est vide, gagnez +2 élixirs au prochain round",
		OnTurnStart: func(s *game.Session) {
			if len(s.State.Bench) == 0 {
				s.State.Elixir += 2
			}
		},
	})
	r.Register(game.ModifierDef{
		Tag:         "heritage",
		Name:        "Héritage",
		Description: "Gagnez +5 élixirs à la mort d'un leader adverse",
		OnTurnEnd: func(s *game.Session) {
			s.RaiseDecision("heritage", "Did an enemy leader die this round?", game.AnswerBool)
		},
		Resolve: func(s *game.Session, ans game.Answer) (string, error) {
			if !ans.Yes {
				return "no inheritance", nil
			}
			s.State.Elixir += 5
			return "+5 elixir from the inheritance", nil
		},
	})
	r.Register(game.ModifierDef{
		Tag:         "offre_a_saisir",
		Name:        "Offre à saisir",
		Description: "Chaque fois que le magasin est réinitialisé, une troupe au hasard coûte 1 élixir de moins",
		OnTurnEnd: func(s *game.Session) {
			s.RaiseDecision("offre_a_saisir", "Did you reset the shop this round?", game.AnswerBool)
		},
		Resolve: func(s *game.Session, ans game.Answer) (string, error) {
			if !ans.Yes {
				return "shop untouched", nil
			}
			return "one troop costs 1 elixir less in this selection", nil
		},
	})
}
