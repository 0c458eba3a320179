package api

import (
	"log/slog"

	"github.com/mitchellh/mapstructure"

	"merge-tactics-server/game"
	"merge-tactics-server/gameerrors"
)

// commandActions are the mutating session commands exposed both as HTTP
// routes and as WebSocket message actions.
var commandActions = []string{
	"buy_card",
	"manual_merge",
	"delete_card",
	"sell_card",
	"move_card",
	"move_to_board",
	"battle_result",
	"advance_turn",
	"resolve_decision",
}

type cardParams struct {
	Card  string `mapstructure:"card"`
	Level int    `mapstructure:"level"`
}

type zoneParams struct {
	Card  string `mapstructure:"card"`
	Level int    `mapstructure:"level"`
	Zone  string `mapstructure:"zone"`
}

type moveParams struct {
	Card  string `mapstructure:"card"`
	Level int    `mapstructure:"level"`
	From  string `mapstructure:"from"`
	To    string `mapstructure:"to"`
}

type battleParams struct {
	Victory        bool `mapstructure:"victory"`
	EnemyRemaining int  `mapstructure:"enemy_remaining"`
}

type decisionParams struct {
	DecisionID string `mapstructure:"decision_id"`
	Yes        bool   `mapstructure:"yes"`
	Count      int    `mapstructure:"count"`
	Card       string `mapstructure:"card"`
	Level      int    `mapstructure:"level"`
}

// decode fills a params struct from a loose payload map. Numbers arrive as
// float64 from JSON, so decoding is weakly typed.
func decode(payload map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(payload); err != nil {
		return gameerrors.Invalid("bad payload: %v", err)
	}
	return nil
}

func parseZone(raw, fallback string) (game.Zone, error) {
	if raw == "" {
		raw = fallback
	}
	z := game.Zone(raw)
	if !z.Valid() {
		return "", gameerrors.Invalid("unknown zone %q", raw)
	}
	return z, nil
}

// RunCommand executes one named command against a session. It is the single
// entry point for both the HTTP handlers and the WebSocket channel, so the
// two surfaces cannot drift apart.
func (s *Server) RunCommand(sessionID, action string, payload map[string]any) (game.Outcome, error) {
	sess, ok := s.Sessions.Get(sessionID)
	if !ok {
		return game.Outcome{}, gameerrors.ErrSessionNotFound
	}

	out, err := s.dispatch(sess, action, payload)
	if err != nil {
		slog.Debug("command rejected", "tag", "api", "action", action, "session", sessionID, "err", err)
		return game.Outcome{}, err
	}
	slog.Info("command applied", "tag", "api", "action", action, "session", sessionID)
	if s.Notify != nil {
		s.Notify(sessionID)
	}
	return out, nil
}

func (s *Server) dispatch(sess *game.Session, action string, payload map[string]any) (game.Outcome, error) {
	switch action {
	case "buy_card":
		p := cardParams{Level: 1}
		if err := decode(payload, &p); err != nil {
			return game.Outcome{}, err
		}
		return sess.BuyCard(p.Card, p.Level)

	case "manual_merge":
		p := cardParams{Level: 1}
		if err := decode(payload, &p); err != nil {
			return game.Outcome{}, err
		}
		return sess.ManualMerge(p.Card, p.Level)

	case "delete_card":
		p := zoneParams{Level: 1}
		if err := decode(payload, &p); err != nil {
			return game.Outcome{}, err
		}
		z, err := parseZone(p.Zone, string(game.ZoneBench))
		if err != nil {
			return game.Outcome{}, err
		}
		return sess.DeleteCard(p.Card, p.Level, z)

	case "sell_card":
		p := zoneParams{Level: 1}
		if err := decode(payload, &p); err != nil {
			return game.Outcome{}, err
		}
		z, err := parseZone(p.Zone, string(game.ZoneBench))
		if err != nil {
			return game.Outcome{}, err
		}
		return sess.SellCard(p.Card, p.Level, z)

	case "move_card":
		p := moveParams{Level: 1}
		if err := decode(payload, &p); err != nil {
			return game.Outcome{}, err
		}
		from, err := parseZone(p.From, "")
		if err != nil {
			return game.Outcome{}, err
		}
		to, err := parseZone(p.To, "")
		if err != nil {
			return game.Outcome{}, err
		}
		return sess.MoveCard(p.Card, p.Level, from, to)

	case "move_to_board":
		p := cardParams{Level: 1}
		if err := decode(payload, &p); err != nil {
			return game.Outcome{}, err
		}
		return sess.MoveToBoard(p.Card, p.Level)

	case "battle_result":
		var p battleParams
		if err := decode(payload, &p); err != nil {
			return game.Outcome{}, err
		}
		return sess.BattleResult(p.Victory, p.EnemyRemaining), nil

	case "advance_turn":
		return sess.AdvanceTurn()

	case "resolve_decision":
		var p decisionParams
		if err := decode(payload, &p); err != nil {
			return game.Outcome{}, err
		}
		msg, err := sess.ResolveDecision(p.DecisionID, game.Answer{
			Yes:      p.Yes,
			Count:    p.Count,
			CardName: p.Card,
			Level:    p.Level,
		})
		if err != nil {
			return game.Outcome{}, err
		}
		return game.Outcome{Message: msg}, nil

	default:
		return game.Outcome{}, gameerrors.Invalid("unknown action %q", action)
	}
}
