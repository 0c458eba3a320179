package game

import (
	"fmt"
	"log/slog"
	"sync"

	"merge-tactics-server/config"
	"merge-tactics-server/gameerrors"
)

// Modifier tags the engine itself reacts to. All other tags are interpreted
// entirely by their registered definition.
const (
	ModTeamPlusOne      = "plus_on_est_de_fous"
	ModTeamFixedSix     = "la_fete"
	ModFirstBuyFree     = "cadeau_de_la_maison"
	ModFirstBuyUpgraded = "premier_choix"
)

// PendingBonuses are elixir amounts earned during a turn that pay out when
// the next turn starts. Always present, zero-valued when nothing is owed.
type PendingBonuses struct {
	Interest       int `json:"interest"`
	SaleBonus      int `json:"sale_bonus"`
	FamilyBonus    int `json:"family_bonus"`
	ExtractorStock int `json:"extractor_stock"`
}

// Session owns one game state plus its configuration: leader, modifiers,
// scoring weights, and per-turn income. It is mutated by every command.
// Exported commands serialize through the session mutex; a session supports
// at most one in-flight mutation.
type Session struct {
	ID string

	mu sync.Mutex

	State     GameState
	Leader    *Leader
	Modifiers []string
	Weights   config.Weights

	ElixirPerTurn  int
	ChoicesPerTurn int

	Pending   PendingBonuses
	Decisions []Decision

	// Stateful modifier effects that outlive configuration.
	ExtractorActive  bool
	MannequinActive  bool
	MannequinSpecial bool
	EnemyCopyTaken   bool

	boughtThisTurn bool

	cards CardSource
	mods  ModifierProvider
}

// Options configure a new session. Cards is required; everything else is
// optional.
type Options struct {
	ID            string
	Leader        *Leader
	Modifiers     []string
	InitialCard   string
	InitialLevel  int
	InitialElixir *int
	Cards         CardSource
	Mods          ModifierProvider
}

// NewSession builds a session from config defaults and the given options,
// then runs the OnConfigure hook of every active modifier. Unknown modifier
// tags and unknown initial cards are rejected.
func NewSession(cfg *config.Config, opts Options) (*Session, error) {
	if opts.Cards == nil {
		return nil, fmt.Errorf("session needs a card source")
	}
	mods := opts.Mods
	if mods == nil {
		mods = noModifiers{}
	}

	s := &Session{
		ID:             opts.ID,
		Leader:         opts.Leader,
		Weights:        cfg.ScoreWeights,
		ElixirPerTurn:  cfg.ElixirPerTurn,
		ChoicesPerTurn: cfg.ChoicesPerTurn,
		State: GameState{
			Elixir:  cfg.StartingElixir,
			HP:      cfg.StartingHP,
			Turn:    1,
			History: make(map[string]int),
		},
		cards: opts.Cards,
		mods:  mods,
	}

	for _, tag := range opts.Modifiers {
		if _, ok := mods.Get(tag); !ok {
			return nil, gameerrors.Invalid("unknown modifier %q", tag)
		}
		s.Modifiers = append(s.Modifiers, tag)
	}
	s.forEachActiveModifier(func(def ModifierDef) {
		if def.OnConfigure != nil {
			def.OnConfigure(s)
		}
	})

	if opts.InitialCard != "" {
		tpl, ok := s.cards.Lookup(opts.InitialCard)
		if !ok {
			return nil, fmt.Errorf("%w: %s", gameerrors.ErrUnknownCard, opts.InitialCard)
		}
		level := opts.InitialLevel
		if level < 1 {
			level = 1
		}
		s.State.Board = append(s.State.Board, tpl.AtLevel(level))
		s.State.RecordAcquisition(tpl.Name)
	}
	if opts.InitialElixir != nil && *opts.InitialElixir >= 0 {
		s.State.Elixir = *opts.InitialElixir
	}

	slog.Info("session created", "tag", "game",
		"session", s.ID, "modifiers", len(s.Modifiers), "elixir", s.State.Elixir)
	return s, nil
}

// LookupCard returns the catalog template for a card name. Used by modifier
// resolutions that receive card names as answers.
func (s *Session) LookupCard(name string) (Card, bool) {
	return s.cards.Lookup(name)
}

// Outcome summarizes the state changes a command produced.
type Outcome struct {
	Message      string `json:"message"`
	ElixirGained int    `json:"elixir_gained,omitempty"`
	ElixirSpent  int    `json:"elixir_spent,omitempty"`
	Merges       int    `json:"merges,omitempty"`
	HPLost       int    `json:"hp_lost,omitempty"`
	Turn         int    `json:"turn,omitempty"`
	GameOver     bool   `json:"game_over,omitempty"`
}

// MaxBoardSize is the board capacity for the current turn: 2 on turn 1, +1
// per turn up to 6. ModTeamPlusOne raises the cap to 7; ModTeamFixedSix
// forces exactly 6 and takes precedence.
func (s *Session) MaxBoardSize() int {
	size := 2 + (s.State.Turn - 1)
	if size > 6 {
		size = 6
	}
	if s.HasModifier(ModTeamPlusOne) && size < 7 {
		size++
	}
	if s.HasModifier(ModTeamFixedSix) {
		size = 6
	}
	return size
}

// BuyCard deducts the card's cost, places it on the bench, and resolves any
// merge cascade the purchase enables. First-buy modifiers make the first
// purchase of a turn free or level-2.
func (s *Session) BuyCard(name string, level int) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State.GameOver() {
		return Outcome{}, gameerrors.ErrGameOver
	}
	tpl, ok := s.cards.Lookup(name)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s", gameerrors.ErrUnknownCard, name)
	}
	if level < 1 {
		level = 1
	}

	cost := tpl.Cost
	firstBuy := !s.boughtThisTurn
	if firstBuy && s.HasModifier(ModFirstBuyFree) {
		cost = 0
	} else if firstBuy && s.HasModifier(ModFirstBuyUpgraded) && level == 1 {
		level = 2
	}
	if cost > s.State.Elixir {
		return Outcome{}, fmt.Errorf("%w: %s costs %d, have %d",
			gameerrors.ErrInsufficientElixir, name, cost, s.State.Elixir)
	}

	s.State.Elixir -= cost
	s.boughtThisTurn = true
	s.State.Bench = append(s.State.Bench, tpl.AtLevel(level))
	s.State.RecordAcquisition(tpl.Name)

	merges, gained := s.resolveBenchMerges()

	out := Outcome{
		Message:      fmt.Sprintf("%s level %d bought", name, level),
		ElixirSpent:  cost,
		ElixirGained: gained,
		Merges:       merges,
	}
	if merges > 0 {
		out.Message += fmt.Sprintf(", %d merge(s), +%d elixir", merges, gained)
	}
	return out, nil
}

// ManualMerge merges exactly three matching bench cards into one card a
// level higher, then resolves any further cascade.
func (s *Session) ManualMerge(name string, level int) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State.GameOver() {
		return Outcome{}, gameerrors.ErrGameOver
	}
	if level >= MaxCardLevel {
		return Outcome{}, gameerrors.Invalid("level %d cards can no longer merge", level)
	}
	if n := s.State.countMatching(ZoneBench, name, level); n < 3 {
		return Outcome{}, gameerrors.Invalid("need 3 identical cards to merge, found %d", n)
	}

	merged, gained := s.mergeGroup(ZoneBench, name, level)
	cascades, more := s.resolveBenchMerges()
	gained += more

	return Outcome{
		Message:      fmt.Sprintf("3x %s level %d merged into level %d", name, level, merged.Level),
		ElixirGained: gained,
		Merges:       1 + cascades,
	}, nil
}

// DeleteCard removes a card from the given zone and refunds its cost minus
// one (minimum 1).
func (s *Session) DeleteCard(name string, level int, zone Zone) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State.GameOver() {
		return Outcome{}, gameerrors.ErrGameOver
	}
	if !zone.Valid() {
		return Outcome{}, gameerrors.Invalid("unknown zone %q", zone)
	}
	card, ok := s.State.takeCard(zone, name, level)
	if !ok {
		return Outcome{}, gameerrors.NotFoundCard(name, level, string(zone))
	}

	refund := card.Cost - 1
	if refund < 1 {
		refund = 1
	}
	s.State.Elixir += refund

	return Outcome{
		Message:      fmt.Sprintf("%s level %d deleted for %d elixir", name, level, refund),
		ElixirGained: refund,
	}, nil
}

// SellCard removes a card from the given zone, refunds half its cost
// (minimum 1), and fires the leader defeat hook.
func (s *Session) SellCard(name string, level int, zone Zone) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State.GameOver() {
		return Outcome{}, gameerrors.ErrGameOver
	}
	if !zone.Valid() {
		return Outcome{}, gameerrors.Invalid("unknown zone %q", zone)
	}
	card, ok := s.State.takeCard(zone, name, level)
	if !ok {
		return Outcome{}, gameerrors.NotFoundCard(name, level, string(zone))
	}

	refund := card.Cost / 2
	if refund < 1 {
		refund = 1
	}
	s.State.Elixir += refund
	bonus := s.ApplyLeaderBonus(EventDefeat)

	out := Outcome{
		Message:      fmt.Sprintf("%s level %d sold for %d elixir", name, level, refund),
		ElixirGained: refund + bonus,
	}
	if bonus > 0 {
		out.Message += fmt.Sprintf(", +%d elixir (leader)", bonus)
	}
	return out, nil
}

// MoveCard relocates a card between zones without merging. Moves onto a full
// board are rejected and leave both zones untouched.
func (s *Session) MoveCard(name string, level int, from, to Zone) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State.GameOver() {
		return Outcome{}, gameerrors.ErrGameOver
	}
	if !from.Valid() || !to.Valid() {
		return Outcome{}, gameerrors.Invalid("unknown zone")
	}
	if from == to {
		return Outcome{}, gameerrors.Invalid("cannot move a card to the same zone")
	}
	if s.State.countMatching(from, name, level) == 0 {
		return Outcome{}, gameerrors.NotFoundCard(name, level, string(from))
	}
	if to == ZoneBoard && len(s.State.Board) >= s.MaxBoardSize() {
		return Outcome{}, gameerrors.Invalid("board is full (max %d cards)", s.MaxBoardSize())
	}

	card, _ := s.State.takeCard(from, name, level)
	dest := s.State.zone(to)
	*dest = append(*dest, card)

	return Outcome{Message: fmt.Sprintf("%s level %d moved to %s", name, level, to)}, nil
}

// MoveToBoard moves a bench card onto the board. When one or two identical
// cards already sit on the board and the level is below the cap, the move
// merges them directly into one upgraded board card; capacity is then judged
// after the merge, since the net board count does not grow.
func (s *Session) MoveToBoard(name string, level int) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State.GameOver() {
		return Outcome{}, gameerrors.ErrGameOver
	}
	if s.State.countMatching(ZoneBench, name, level) == 0 {
		return Outcome{}, gameerrors.NotFoundCard(name, level, string(ZoneBench))
	}

	matches := s.State.countMatching(ZoneBoard, name, level)
	if level >= MaxCardLevel {
		matches = 0
	}
	if matches == 0 {
		if len(s.State.Board) >= s.MaxBoardSize() {
			return Outcome{}, gameerrors.Invalid("board is full (max %d cards, turn %d)",
				s.MaxBoardSize(), s.State.Turn)
		}
		card, _ := s.State.takeCard(ZoneBench, name, level)
		s.State.Board = append(s.State.Board, card)
		return Outcome{Message: fmt.Sprintf("%s level %d moved to the board", name, level)}, nil
	}

	merged, gained := s.boardMerge(name, level, matches)
	return Outcome{
		Message: fmt.Sprintf("%s level %d merged on the board into level %d, +%d elixir",
			name, level, merged.Level, gained),
		ElixirGained: gained,
		Merges:       1,
	}, nil
}

// BattleResult applies the outcome of a round. A loss costs 1 HP plus one
// per remaining enemy troop and fires the leader defeat hook; at 0 HP the
// run ends and the turn does not advance. A win just advances the turn.
func (s *Session) BattleResult(victory bool, enemyRemaining int) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := Outcome{Turn: s.State.Turn}
	if victory {
		out.Message = "victory"
	} else {
		hpLost := 1 + enemyRemaining
		s.State.HP -= hpLost
		if s.State.HP < 0 {
			s.State.HP = 0
		}
		out.HPLost = hpLost
		out.Message = fmt.Sprintf("defeat, -%d HP", hpLost)

		if bonus := s.ApplyLeaderBonus(EventDefeat); bonus > 0 {
			out.ElixirGained += bonus
			out.Message += fmt.Sprintf(", +%d elixir (leader)", bonus)
		}
		if s.State.GameOver() {
			out.GameOver = true
			out.Message += ", game over"
			return out
		}
	}

	out.ElixirGained += s.advanceTurnLocked()
	out.Turn = s.State.Turn
	return out
}

// AdvanceTurn passes a turn without a battle report.
func (s *Session) AdvanceTurn() (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State.GameOver() {
		return Outcome{}, gameerrors.ErrGameOver
	}
	gained := s.advanceTurnLocked()
	return Outcome{
		Message:      fmt.Sprintf("turn %d, +%d elixir", s.State.Turn, gained),
		ElixirGained: gained,
		Turn:         s.State.Turn,
	}, nil
}

// advanceTurnLocked closes the current turn and opens the next one: turn-end
// modifier hooks run first (accruing pending bonuses and raising decisions),
// then the turn counter moves, income plus pending payouts land, and
// turn-start hooks run. Caller holds the mutex.
func (s *Session) advanceTurnLocked() int {
	s.forEachActiveModifier(func(def ModifierDef) {
		if def.OnTurnEnd != nil {
			def.OnTurnEnd(s)
		}
	})
	s.raiseFamilyDecisions()
	if s.ExtractorActive && s.Pending.ExtractorStock > 0 {
		s.RaiseDecision(decisionExtractor,
			fmt.Sprintf("Sell the elixir extractor? (%d elixir stored)", s.Pending.ExtractorStock),
			AnswerBool)
	}

	s.State.Turn++

	gained := s.ElixirPerTurn
	gained += s.Pending.Interest
	gained += s.Pending.SaleBonus
	gained += s.Pending.FamilyBonus
	s.Pending.Interest = 0
	s.Pending.SaleBonus = 0
	s.Pending.FamilyBonus = 0
	if s.ExtractorActive {
		gained += 2
		s.Pending.ExtractorStock += 2
	}
	s.State.Elixir += gained

	s.forEachActiveModifier(func(def ModifierDef) {
		if def.OnTurnStart != nil {
			def.OnTurnStart(s)
		}
	})
	s.boughtThisTurn = false

	return gained
}

// raiseFamilyDecisions queues the out-of-band effects of the active Gobelin
// family bonus: tier 2 owes 2 elixir next turn and may gift a free Gobelin,
// tier 4 may gift a 3-4 elixir Gobelin.
func (s *Session) raiseFamilyDecisions() {
	switch ActiveBonuses(s.State.Board)["Gobelin"] {
	case 2:
		s.Pending.FamilyBonus += 2
		s.RaiseDecision(decisionGobelinTier2,
			"Which free bonus Gobelin did you receive? (empty for none)", AnswerCard)
	case 4:
		s.RaiseDecision(decisionGobelinTier4,
			"Which bonus Gobelin at 3-4 elixir did you receive? (empty for none)", AnswerCard)
	}
}
