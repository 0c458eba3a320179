package modifier

import (
	"fmt"

	"merge-tactics-server/game"
	"merge-tactics-server/gameerrors"
)

func registerRecurring(r *Registry) {
	r.Register(game.ModifierDef{
		Tag:         "miroir_magique",
		Name:        "Miroir magique",
		Description: "Chaque round, gagnez une copie 1 étoile de la troupe la plus à droite de votre banc",
		OnTurnStart: func(s *game.Session) {
			if len(s.State.Bench) == 0 {
				return
			}
			rightmost := s.State.Bench[len(s.State.Bench)-1]
			s.State.Bench = append(s.State.Bench, rightmost.AtLevel(1))
		},
	})
	r.Register(game.ModifierDef{
		Tag:         "banc_de_pandore",
		Name:        "Banc de Pandore",
		Description: "Chaque round, la troupe la plus à droite de votre banc est remplacée par une nouvelle troupe aléatoire du même coût",
		OnTurnStart: func(s *game.Session) {
			if len(s.State.Bench) == 0 {
				return
			}
			cost := s.State.Bench[len(s.State.Bench)-1].Cost
			s.RaiseDecision("banc_de_pandore",
				fmt.Sprintf("Which replacement troop at %d elixir did you receive?", cost),
				game.AnswerCard)
		},
		Resolve: func(s *game.Session, ans game.Answer) (string, error) {
			if len(s.State.Bench) == 0 {
				return "bench is empty, nothing replaced", nil
			}
			if ans.CardName == "" {
				return "no replacement reported", nil
			}
			card, err := lookupAnswerCard(s, ans.CardName)
			if err != nil {
				return "", err
			}
			last := len(s.State.Bench) - 1
			if card.Cost != s.State.Bench[last].Cost {
				return "", gameerrors.Invalid("replacement must cost %d elixir, %s costs %d",
					s.State.Bench[last].Cost, card.Name, card.Cost)
			}
			s.State.Bench[last] = card.AtLevel(1)
			return fmt.Sprintf("rightmost bench troop replaced by %s", card.Name), nil
		},
	})
	r.Register(game.ModifierDef{
		Tag:         "promotion",
		Name:        "Promotion",
		Description: "Chaque round, la troupe la plus à droite de votre banc se transforme en une troupe aléatoire qui vaut 1 élixir de plus",
		OnTurnStart: func(s *game.Session) {
			if len(s.State.Bench) == 0 {
				return
			}
			cost := s.State.Bench[len(s.State.Bench)-1].Cost + 1
			s.RaiseDecision("promotion",
				fmt.Sprintf("Which promoted troop at %d elixir did you receive?", cost),
				game.AnswerCard)
		},
		Resolve: func(s *game.Session, ans game.Answer) (string, error) {
			if len(s.State.Bench) == 0 {
				return "bench is empty, nothing promoted", nil
			}
			if ans.CardName == "" {
				return "no promotion reported", nil
			}
			card, err := lookupAnswerCard(s, ans.CardName)
			if err != nil {
				return "", err
			}
			last := len(s.State.Bench) - 1
			want := s.State.Bench[last].Cost + 1
			if card.Cost != want {
				return "", gameerrors.Invalid("promoted troop must cost %d elixir, %s costs %d",
					want, card.Name, card.Cost)
			}
			s.State.Bench[last] = card.AtLevel(1)
			return fmt.Sprintf("rightmost bench troop promoted to %s", card.Name), nil
		},
	})
	r.Register(game.ModifierDef{
		Tag:         "cheaté",
		Name:        "Cheaté",
		Description: "Chaque round, gagnez une troupe utile pour votre équipe",
		OnTurnStart: func(s *game.Session) {
			s.RaiseDecision("cheaté", "Which useful troop did you receive?", game.AnswerCard)
		},
		Resolve: func(s *game.Session, ans game.Answer) (string, error) {
			if ans.CardName == "" {
				return "no troop received", nil
			}
			card, err := lookupAnswerCard(s, ans.CardName)
			if err != nil {
				return "", err
			}
			s.State.Bench = append(s.State.Bench, card.AtLevel(1))
			return fmt.Sprintf("%s added to the bench", card.Name), nil
		},
	})
	r.Register(game.ModifierDef{
		Tag:         "ascension",
		Name:        "Ascension",
		Description: "Au round 3, la troupe la plus à droite de votre banc devient une puissante troupe 3 étoiles",
		OnTurnStart: func(s *game.Session) {
			if s.State.Turn != 3 || len(s.State.Bench) == 0 {
				return
			}
			last := len(s.State.Bench) - 1
			s.State.Bench[last] = s.State.Bench[last].AtLevel(3)
		},
	})
	r.Register(game.ModifierDef{
		Tag:         "tu_es_a_moi",
		Name:        "Tu es à moi",
		Description: "Vous gagnez une copie 1 étoile de la première troupe ennemie éliminée",
		OnTurnEnd: func(s *game.Session) {
			if s.EnemyCopyTaken {
				return
			}
			s.RaiseDecision("tu_es_a_moi",
				"Which enemy troop did you copy? (empty if none was eliminated)", game.AnswerCard)
		},
		Resolve: func(s *game.Session, ans game.Answer) (string, error) {
			if ans.CardName == "" {
				return "no enemy copy taken", nil
			}
			card, err := lookupAnswerCard(s, ans.CardName)
			if err != nil {
				return "", err
			}
			s.State.Bench = append(s.State.Bench, card.AtLevel(1))
			s.EnemyCopyTaken = true
			return fmt.Sprintf("level-1 copy of %s added to the bench", card.Name), nil
		},
	})
}
