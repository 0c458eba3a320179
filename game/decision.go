package game

import (
	"fmt"

	"github.com/google/uuid"

	"merge-tactics-server/gameerrors"
)

// AnswerKind tells the caller what payload a pending decision expects.
type AnswerKind string

const (
	AnswerBool  AnswerKind = "bool"
	AnswerCount AnswerKind = "count"
	AnswerCard  AnswerKind = "card"
)

// Decision is an out-of-band question the engine needs answered before a
// modifier or family effect can settle (e.g. "did an enemy leader die this
// round?"). The external layer shows the prompt and replies through
// ResolveDecision; the core never blocks waiting for input.
type Decision struct {
	ID     string     `json:"id"`
	Tag    string     `json:"tag"`
	Prompt string     `json:"prompt"`
	Kind   AnswerKind `json:"kind"`
}

// Answer carries the reply to a pending decision. Only the field matching the
// decision's Kind is read.
type Answer struct {
	Yes      bool   `json:"yes"`
	Count    int    `json:"count"`
	CardName string `json:"card"`
	Level    int    `json:"level"`
}

// Internal decision tags for effects owned by the engine rather than a
// modifier definition.
const (
	decisionGobelinTier2 = "bonus_gobelin_2"
	decisionGobelinTier4 = "bonus_gobelin_4"
	decisionExtractor    = "extracteur_vente"
)

// RaiseDecision queues a pending decision unless one with the same tag is
// already waiting. Returns the queued decision (or the existing one).
func (s *Session) RaiseDecision(tag, prompt string, kind AnswerKind) Decision {
	for _, d := range s.Decisions {
		if d.Tag == tag {
			return d
		}
	}
	d := Decision{ID: uuid.NewString(), Tag: tag, Prompt: prompt, Kind: kind}
	s.Decisions = append(s.Decisions, d)
	return d
}

// ResolveDecision answers a pending decision by ID and applies its effect.
// The decision is consumed even when the answer declines the effect; an error
// is returned only when the decision or its payload is invalid, in which case
// the decision stays pending.
func (s *Session) ResolveDecision(id string, ans Answer) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, d := range s.Decisions {
		if d.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return "", gameerrors.ErrDecisionNotFound
	}
	d := s.Decisions[idx]

	msg, err := s.applyDecision(d, ans)
	if err != nil {
		return "", err
	}
	s.Decisions = append(s.Decisions[:idx], s.Decisions[idx+1:]...)
	return msg, nil
}

func (s *Session) applyDecision(d Decision, ans Answer) (string, error) {
	switch d.Tag {
	case decisionGobelinTier2:
		return s.resolveGobelinGift(ans, 0, 0)
	case decisionGobelinTier4:
		return s.resolveGobelinGift(ans, 3, 4)
	case decisionExtractor:
		if !ans.Yes {
			return "extractor kept", nil
		}
		claimed := s.Pending.ExtractorStock
		s.State.Elixir += claimed
		s.Pending.ExtractorStock = 0
		s.ExtractorActive = false
		return fmt.Sprintf("extractor sold for %d elixir", claimed), nil
	}

	def, ok := s.mods.Get(d.Tag)
	if !ok || def.Resolve == nil {
		return "", gameerrors.Invalid("decision %q has no resolver", d.Tag)
	}
	return def.Resolve(s, ans)
}

// resolveGobelinGift handles the free-card questions of the Gobelin family
// bonus. minCost/maxCost of 0 means any cost is accepted (tier 2).
func (s *Session) resolveGobelinGift(ans Answer, minCost, maxCost int) (string, error) {
	if ans.CardName == "" {
		return "no bonus Gobelin received", nil
	}
	card, ok := s.cards.Lookup(ans.CardName)
	if !ok {
		return "", fmt.Errorf("%w: %s", gameerrors.ErrUnknownCard, ans.CardName)
	}
	if !card.HasTrait("Gobelin") {
		return "", gameerrors.Invalid("%s is not a Gobelin", card.Name)
	}
	if minCost > 0 && (card.Cost < minCost || card.Cost > maxCost) {
		return "", gameerrors.Invalid("bonus Gobelin must cost %d-%d elixir", minCost, maxCost)
	}
	s.State.Bench = append(s.State.Bench, card.AtLevel(1))
	return fmt.Sprintf("bonus %s added to the bench", card.Name), nil
}
