package game

import (
	"errors"
	"reflect"
	"testing"

	"merge-tactics-server/config"
	"merge-tactics-server/gameerrors"
)

type stubCatalog map[string]Card

func (c stubCatalog) Lookup(name string) (Card, bool) {
	card, ok := c[name]
	return card, ok
}

func (c stubCatalog) All() []Card {
	out := make([]Card, 0, len(c))
	for _, card := range c {
		out = append(out, card)
	}
	return out
}

func testCatalog() stubCatalog {
	return stubCatalog{
		"Chevalier":        {Name: "Chevalier", Cost: 2, Traits: []string{"Noble", "Colosse"}, Level: 1},
		"Archères":         {Name: "Archères", Cost: 2, Traits: []string{"Clan", "Guetteur"}, Level: 1},
		"Gobelins":         {Name: "Gobelins", Cost: 2, Traits: []string{"Gobelin", "Assassin"}, Level: 1},
		"Valkyrie":         {Name: "Valkyrie", Cost: 3, Traits: []string{"Clan", "Vengeuse"}, Level: 1},
		"Princesse":        {Name: "Princesse", Cost: 4, Traits: []string{"Noble", "Guetteur"}, Level: 1},
		"Machine gobeline": {Name: "Machine gobeline", Cost: 4, Traits: []string{"Gobelin", "Colosse"}, Level: 1},
	}
}

type stubMods map[string]ModifierDef

func (m stubMods) Get(tag string) (ModifierDef, bool) {
	d, ok := m[tag]
	return d, ok
}

func (m stubMods) All() []ModifierDef {
	out := make([]ModifierDef, 0, len(m))
	for _, d := range m {
		out = append(out, d)
	}
	return out
}

// tagOnlyMods builds a provider where every tag resolves to an effect-free
// definition, enough for modifiers the engine interprets itself.
func tagOnlyMods(tags ...string) stubMods {
	m := make(stubMods, len(tags))
	for _, tag := range tags {
		m[tag] = ModifierDef{Tag: tag}
	}
	return m
}

func benchCard(name string, level int) Card {
	c, ok := testCatalog().Lookup(name)
	if !ok {
		panic("unknown test card " + name)
	}
	return c.AtLevel(level)
}

func newTestSession(t *testing.T, opts Options) *Session {
	t.Helper()
	if opts.Cards == nil {
		opts.Cards = testCatalog()
	}
	if opts.Mods == nil && len(opts.Modifiers) > 0 {
		opts.Mods = tagOnlyMods(opts.Modifiers...)
	}
	s, err := NewSession(config.Defaults(), opts)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	return s
}

func TestNewSessionDefaults(t *testing.T) {
	s := newTestSession(t, Options{ID: "s1"})
	if s.State.Elixir != 4 || s.State.HP != 10 || s.State.Turn != 1 {
		t.Errorf("unexpected starting state: elixir=%d hp=%d turn=%d",
			s.State.Elixir, s.State.HP, s.State.Turn)
	}
	if s.MaxBoardSize() != 2 {
		t.Errorf("expected board capacity 2 on turn 1, got %d", s.MaxBoardSize())
	}
}

func TestNewSessionUnknownModifier(t *testing.T) {
	_, err := NewSession(config.Defaults(), Options{
		Cards:     testCatalog(),
		Mods:      tagOnlyMods(ModTeamPlusOne),
		Modifiers: []string{"nonexistent"},
	})
	if !errors.Is(err, gameerrors.ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}
}

func TestNewSessionInitialCard(t *testing.T) {
	elixir := 7
	s := newTestSession(t, Options{
		InitialCard:   "Valkyrie",
		InitialLevel:  2,
		InitialElixir: &elixir,
	})
	if len(s.State.Board) != 1 || s.State.Board[0].Level != 2 {
		t.Fatalf("expected Valkyrie level 2 on the board, got %+v", s.State.Board)
	}
	if s.State.Elixir != 7 {
		t.Errorf("expected elixir override 7, got %d", s.State.Elixir)
	}
	if s.State.History["Valkyrie"] != 1 {
		t.Errorf("expected initial card in history, got %v", s.State.History)
	}
}

func TestMaxBoardSize(t *testing.T) {
	tests := []struct {
		turn      int
		modifiers []string
		want      int
	}{
		{1, nil, 2},
		{3, nil, 4},
		{5, nil, 6},
		{9, nil, 6},
		{1, []string{ModTeamPlusOne}, 3},
		{9, []string{ModTeamPlusOne}, 7},
		{1, []string{ModTeamFixedSix}, 6},
		{9, []string{ModTeamFixedSix, ModTeamPlusOne}, 6},
	}
	for _, tc := range tests {
		s := newTestSession(t, Options{Modifiers: tc.modifiers})
		s.State.Turn = tc.turn
		if got := s.MaxBoardSize(); got != tc.want {
			t.Errorf("turn %d mods %v: capacity %d, want %d", tc.turn, tc.modifiers, got, tc.want)
		}
	}
}

func TestBuyCardInsufficientElixir(t *testing.T) {
	s := newTestSession(t, Options{})
	s.State.Elixir = 1

	_, err := s.BuyCard("Chevalier", 1)
	if !errors.Is(err, gameerrors.ErrInsufficientElixir) {
		t.Fatalf("expected ErrInsufficientElixir, got %v", err)
	}
	if len(s.State.Bench) != 0 || s.State.Elixir != 1 {
		t.Errorf("state changed on rejected buy: bench=%d elixir=%d", len(s.State.Bench), s.State.Elixir)
	}
}

func TestBuyCardUnknownName(t *testing.T) {
	s := newTestSession(t, Options{})
	if _, err := s.BuyCard("Dragon", 1); !errors.Is(err, gameerrors.ErrUnknownCard) {
		t.Fatalf("expected ErrUnknownCard, got %v", err)
	}
}

func TestFirstBuyFree(t *testing.T) {
	s := newTestSession(t, Options{Modifiers: []string{ModFirstBuyFree}})
	s.State.Elixir = 0

	out, err := s.BuyCard("Chevalier", 1)
	if err != nil {
		t.Fatalf("first buy should be free: %v", err)
	}
	if out.ElixirSpent != 0 || s.State.Elixir != 0 {
		t.Errorf("free buy spent elixir: %+v, elixir=%d", out, s.State.Elixir)
	}
	if _, err := s.BuyCard("Chevalier", 1); !errors.Is(err, gameerrors.ErrInsufficientElixir) {
		t.Fatalf("second buy of the turn must cost, got %v", err)
	}
}

func TestFirstBuyUpgraded(t *testing.T) {
	s := newTestSession(t, Options{Modifiers: []string{ModFirstBuyUpgraded}})

	if _, err := s.BuyCard("Chevalier", 1); err != nil {
		t.Fatalf("BuyCard failed: %v", err)
	}
	if len(s.State.Bench) != 1 || s.State.Bench[0].Level != 2 {
		t.Fatalf("expected first buy at level 2, got %+v", s.State.Bench)
	}
	if s.State.Elixir != 2 {
		t.Errorf("upgrade is not a discount: elixir=%d, want 2", s.State.Elixir)
	}
}

func TestDeleteCardRefund(t *testing.T) {
	s := newTestSession(t, Options{})
	s.State.Elixir = 0
	s.State.Bench = []Card{benchCard("Princesse", 1)}

	out, err := s.DeleteCard("Princesse", 1, ZoneBench)
	if err != nil {
		t.Fatalf("DeleteCard failed: %v", err)
	}
	if out.ElixirGained != 3 || s.State.Elixir != 3 {
		t.Errorf("expected refund cost-1=3, got %d (elixir=%d)", out.ElixirGained, s.State.Elixir)
	}
	if len(s.State.Bench) != 0 {
		t.Errorf("card not removed")
	}
}

func TestDeleteCardNotFound(t *testing.T) {
	s := newTestSession(t, Options{})
	if _, err := s.DeleteCard("Chevalier", 1, ZoneBoard); !errors.Is(err, gameerrors.ErrCardNotFound) {
		t.Fatalf("expected ErrCardNotFound, got %v", err)
	}
}

func TestSellCardLeaderHook(t *testing.T) {
	s := newTestSession(t, Options{
		Leader: &Leader{Name: "Roi Royal", BonusDefeat: 4},
	})
	s.State.Elixir = 0
	s.State.Board = []Card{benchCard("Princesse", 1)}

	out, err := s.SellCard("Princesse", 1, ZoneBoard)
	if err != nil {
		t.Fatalf("SellCard failed: %v", err)
	}
	// cost/2 = 2 plus the leader defeat bonus of 4.
	if out.ElixirGained != 6 || s.State.Elixir != 6 {
		t.Errorf("expected +6 elixir, got %d (elixir=%d)", out.ElixirGained, s.State.Elixir)
	}
}

func TestSellCardMinimumRefund(t *testing.T) {
	s := newTestSession(t, Options{})
	s.State.Elixir = 0
	s.State.Bench = []Card{benchCard("Chevalier", 1)}

	out, err := s.SellCard("Chevalier", 1, ZoneBench)
	if err != nil {
		t.Fatalf("SellCard failed: %v", err)
	}
	if out.ElixirGained != 1 {
		t.Errorf("expected minimum refund 1, got %d", out.ElixirGained)
	}
}

func TestMoveCardSameZone(t *testing.T) {
	s := newTestSession(t, Options{})
	s.State.Bench = []Card{benchCard("Chevalier", 1)}
	if _, err := s.MoveCard("Chevalier", 1, ZoneBench, ZoneBench); !errors.Is(err, gameerrors.ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}
}

// A rejected move leaves both zones exactly as they were.
func TestMoveCardFullBoardRestoresState(t *testing.T) {
	s := newTestSession(t, Options{})
	s.State.Board = []Card{benchCard("Chevalier", 1), benchCard("Archères", 1)}
	s.State.Bench = []Card{benchCard("Valkyrie", 1)}
	boardBefore := append([]Card(nil), s.State.Board...)
	benchBefore := append([]Card(nil), s.State.Bench...)

	_, err := s.MoveCard("Valkyrie", 1, ZoneBench, ZoneBoard)
	if !errors.Is(err, gameerrors.ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation on full board, got %v", err)
	}
	if !reflect.DeepEqual(s.State.Board, boardBefore) || !reflect.DeepEqual(s.State.Bench, benchBefore) {
		t.Errorf("state changed on rejected move: board=%v bench=%v", s.State.Board, s.State.Bench)
	}
}

func TestMoveToBoardFullWithoutMatch(t *testing.T) {
	s := newTestSession(t, Options{})
	s.State.Board = []Card{benchCard("Chevalier", 1), benchCard("Archères", 1)}
	s.State.Bench = []Card{benchCard("Valkyrie", 1)}

	_, err := s.MoveToBoard("Valkyrie", 1)
	if !errors.Is(err, gameerrors.ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}
	if len(s.State.Board) != 2 || len(s.State.Bench) != 1 {
		t.Errorf("state changed on rejected move")
	}
}

// Moving onto a full board succeeds when it completes a merge: the net card
// count does not grow.
func TestMoveToBoardMergesThroughFullBoard(t *testing.T) {
	s := newTestSession(t, Options{})
	s.State.Elixir = 0
	s.State.Board = []Card{benchCard("Chevalier", 1), benchCard("Archères", 1)}
	s.State.Bench = []Card{benchCard("Chevalier", 1)}

	out, err := s.MoveToBoard("Chevalier", 1)
	if err != nil {
		t.Fatalf("MoveToBoard failed: %v", err)
	}
	if out.Merges != 1 || out.ElixirGained != 1 {
		t.Errorf("expected a merge with +1 elixir, got %+v", out)
	}
	if len(s.State.Board) != 2 {
		t.Fatalf("expected 2 board cards, got %d", len(s.State.Board))
	}
	last := s.State.Board[len(s.State.Board)-1]
	if last.Name != "Chevalier" || last.Level != 2 {
		t.Errorf("expected upgraded Chevalier on the board, got %+v", last)
	}
	if len(s.State.Bench) != 0 {
		t.Errorf("bench card not consumed")
	}
}

func TestMoveToBoardTripleMerge(t *testing.T) {
	s := newTestSession(t, Options{})
	s.State.Turn = 3 // capacity 4
	s.State.Board = []Card{benchCard("Chevalier", 1), benchCard("Chevalier", 1)}
	s.State.Bench = []Card{benchCard("Chevalier", 1)}

	out, err := s.MoveToBoard("Chevalier", 1)
	if err != nil {
		t.Fatalf("MoveToBoard failed: %v", err)
	}
	if out.Merges != 1 {
		t.Errorf("expected a merge, got %+v", out)
	}
	if len(s.State.Board) != 1 || s.State.Board[0].Level != 2 {
		t.Fatalf("expected a single level-2 card, got %+v", s.State.Board)
	}
}

func TestMoveToBoardLevelCapDoesNotMerge(t *testing.T) {
	s := newTestSession(t, Options{})
	s.State.Turn = 3 // capacity 4
	s.State.Board = []Card{benchCard("Chevalier", 5)}
	s.State.Bench = []Card{benchCard("Chevalier", 5)}

	out, err := s.MoveToBoard("Chevalier", 5)
	if err != nil {
		t.Fatalf("MoveToBoard failed: %v", err)
	}
	if out.Merges != 0 {
		t.Errorf("level-capped cards merged: %+v", out)
	}
	if len(s.State.Board) != 2 {
		t.Errorf("expected a plain move, board=%v", s.State.Board)
	}
}

func TestBattleLossTermination(t *testing.T) {
	s := newTestSession(t, Options{})
	s.State.HP = 2

	out := s.BattleResult(false, 2)
	if out.HPLost != 3 {
		t.Errorf("expected 3 HP lost, got %d", out.HPLost)
	}
	if s.State.HP != 0 {
		t.Errorf("expected HP clamped to 0, got %d", s.State.HP)
	}
	if !out.GameOver {
		t.Errorf("expected game over")
	}
	if s.State.Turn != 1 {
		t.Errorf("turn must not advance at 0 HP, got %d", s.State.Turn)
	}
}

func TestBattleLossLeaderBonusAtZeroHP(t *testing.T) {
	s := newTestSession(t, Options{
		Leader: &Leader{Name: "Roi Royal", BonusDefeat: 4},
	})
	s.State.HP = 1
	s.State.Elixir = 0

	out := s.BattleResult(false, 0)
	if !out.GameOver {
		t.Fatalf("expected game over")
	}
	if s.State.Elixir != 4 {
		t.Errorf("defeat bonus must still pay out, elixir=%d", s.State.Elixir)
	}
}

func TestBattleLossAdvancesTurn(t *testing.T) {
	s := newTestSession(t, Options{})
	s.State.Elixir = 0

	out := s.BattleResult(false, 1)
	if s.State.HP != 8 {
		t.Errorf("expected 8 HP, got %d", s.State.HP)
	}
	if s.State.Turn != 2 || out.Turn != 2 {
		t.Errorf("expected turn 2, got %d", s.State.Turn)
	}
	if s.State.Elixir != 4 {
		t.Errorf("expected turn income 4, got %d", s.State.Elixir)
	}
}

func TestBattleWin(t *testing.T) {
	s := newTestSession(t, Options{})
	out := s.BattleResult(true, 0)
	if out.HPLost != 0 || s.State.HP != 10 {
		t.Errorf("a win must not cost HP")
	}
	if s.State.Turn != 2 {
		t.Errorf("expected turn to advance, got %d", s.State.Turn)
	}
}

func TestAdvanceTurnPendingBonuses(t *testing.T) {
	s := newTestSession(t, Options{})
	s.State.Elixir = 0
	s.Pending = PendingBonuses{Interest: 2, SaleBonus: 1, FamilyBonus: 3}

	out, err := s.AdvanceTurn()
	if err != nil {
		t.Fatalf("AdvanceTurn failed: %v", err)
	}
	if out.ElixirGained != 10 {
		t.Errorf("expected 4+2+1+3=10 elixir, got %d", out.ElixirGained)
	}
	if s.Pending.Interest != 0 || s.Pending.SaleBonus != 0 || s.Pending.FamilyBonus != 0 {
		t.Errorf("pending accumulators not cleared: %+v", s.Pending)
	}
}

func TestAdvanceTurnGameOver(t *testing.T) {
	s := newTestSession(t, Options{})
	s.State.HP = 0
	if _, err := s.AdvanceTurn(); !errors.Is(err, gameerrors.ErrGameOver) {
		t.Fatalf("expected ErrGameOver, got %v", err)
	}
}

func TestExtractorAccrualAndSale(t *testing.T) {
	s := newTestSession(t, Options{})
	s.ExtractorActive = true
	s.State.Elixir = 0

	out, err := s.AdvanceTurn()
	if err != nil {
		t.Fatalf("AdvanceTurn failed: %v", err)
	}
	if out.ElixirGained != 6 || s.Pending.ExtractorStock != 2 {
		t.Errorf("expected +6 elixir and 2 stocked, got %+v stock=%d", out, s.Pending.ExtractorStock)
	}
	if len(s.Decisions) != 0 {
		t.Fatalf("no sale decision before any stock exists at turn end")
	}

	if _, err := s.AdvanceTurn(); err != nil {
		t.Fatalf("AdvanceTurn failed: %v", err)
	}
	if len(s.Decisions) != 1 {
		t.Fatalf("expected the extractor sale decision, got %v", s.Decisions)
	}

	elixirBefore := s.State.Elixir
	stock := s.Pending.ExtractorStock
	if _, err := s.ResolveDecision(s.Decisions[0].ID, Answer{Yes: true}); err != nil {
		t.Fatalf("ResolveDecision failed: %v", err)
	}
	if s.State.Elixir != elixirBefore+stock {
		t.Errorf("expected the stored elixir paid out, got %d", s.State.Elixir)
	}
	if s.ExtractorActive || s.Pending.ExtractorStock != 0 {
		t.Errorf("extractor not cleared after sale")
	}
}

func TestGobelinFamilyDecision(t *testing.T) {
	s := newTestSession(t, Options{})
	s.State.Elixir = 0
	s.State.Board = []Card{benchCard("Gobelins", 1), benchCard("Machine gobeline", 1)}

	out, err := s.AdvanceTurn()
	if err != nil {
		t.Fatalf("AdvanceTurn failed: %v", err)
	}
	// Turn income plus the tier-2 family payout.
	if out.ElixirGained != 6 {
		t.Errorf("expected +6 elixir, got %d", out.ElixirGained)
	}
	if len(s.Decisions) != 1 {
		t.Fatalf("expected the Gobelin gift decision, got %v", s.Decisions)
	}

	// A non-Gobelin answer is rejected and the decision stays pending.
	if _, err := s.ResolveDecision(s.Decisions[0].ID, Answer{CardName: "Chevalier"}); !errors.Is(err, gameerrors.ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}
	if len(s.Decisions) != 1 {
		t.Fatalf("decision consumed despite the rejection")
	}

	if _, err := s.ResolveDecision(s.Decisions[0].ID, Answer{CardName: "Gobelins"}); err != nil {
		t.Fatalf("ResolveDecision failed: %v", err)
	}
	if len(s.State.Bench) != 1 || s.State.Bench[0].Name != "Gobelins" {
		t.Errorf("expected the gift on the bench, got %v", s.State.Bench)
	}
	if len(s.Decisions) != 0 {
		t.Errorf("decision not consumed")
	}
}

func TestResolveDecisionUnknownID(t *testing.T) {
	s := newTestSession(t, Options{})
	if _, err := s.ResolveDecision("nope", Answer{}); !errors.Is(err, gameerrors.ErrDecisionNotFound) {
		t.Fatalf("expected ErrDecisionNotFound, got %v", err)
	}
}

func TestRaiseDecisionDeduplicates(t *testing.T) {
	s := newTestSession(t, Options{})
	first := s.RaiseDecision("heritage", "Did an enemy leader die?", AnswerBool)
	second := s.RaiseDecision("heritage", "Did an enemy leader die?", AnswerBool)
	if first.ID != second.ID || len(s.Decisions) != 1 {
		t.Errorf("duplicate decision queued: %v", s.Decisions)
	}
}

func TestTurnHooksRun(t *testing.T) {
	var order []string
	mods := stubMods{
		"probe": {
			Tag:         "probe",
			OnTurnEnd:   func(s *Session) { order = append(order, "end") },
			OnTurnStart: func(s *Session) { order = append(order, "start") },
		},
	}
	s := newTestSession(t, Options{Mods: mods, Modifiers: []string{"probe"}})

	if _, err := s.AdvanceTurn(); err != nil {
		t.Fatalf("AdvanceTurn failed: %v", err)
	}
	want := []string{"end", "start"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("hook order %v, want %v", order, want)
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	s := newTestSession(t, Options{
		ID:     "round-trip",
		Leader: &Leader{Name: "Impératrice", BonusMerge: 1},
	})
	if _, err := s.BuyCard("Chevalier", 1); err != nil {
		t.Fatalf("BuyCard failed: %v", err)
	}
	if _, err := s.MoveToBoard("Chevalier", 1); err != nil {
		t.Fatalf("MoveToBoard failed: %v", err)
	}
	s.Pending.Interest = 3
	s.ExtractorActive = true

	snap := s.Snapshot()
	restored, err := Restore(config.Defaults(), snap, testCatalog(), nil)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if !reflect.DeepEqual(restored.Snapshot(), snap) {
		t.Errorf("round trip diverged:\n got %+v\nwant %+v", restored.Snapshot(), snap)
	}
}
