package config

import (
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.StartingElixir != 4 {
		t.Errorf("expected StartingElixir=4, got %d", cfg.StartingElixir)
	}
	if cfg.StartingHP != 10 {
		t.Errorf("expected StartingHP=10, got %d", cfg.StartingHP)
	}
	if cfg.ElixirPerTurn != 4 {
		t.Errorf("expected ElixirPerTurn=4, got %d", cfg.ElixirPerTurn)
	}
	if cfg.ChoicesPerTurn != 3 {
		t.Errorf("expected ChoicesPerTurn=3, got %d", cfg.ChoicesPerTurn)
	}

	w := cfg.ScoreWeights
	if w.Traits != 2.0 || w.Merge != 2.0 || w.FusionSell != 3.0 || w.Disruption != 1.0 || w.Cost != 1.0 {
		t.Errorf("unexpected default weights: %+v", w)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ELIXIR_PER_TURN", "6")
	t.Setenv("WEIGHT_TRAITS", "3.5")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg := Load()

	if cfg.ElixirPerTurn != 6 {
		t.Errorf("expected ELIXIR_PER_TURN override to 6, got %d", cfg.ElixirPerTurn)
	}
	if cfg.ScoreWeights.Traits != 3.5 {
		t.Errorf("expected WEIGHT_TRAITS override to 3.5, got %v", cfg.ScoreWeights.Traits)
	}
	if cfg.JWTSecret != "test-secret" {
		t.Errorf("expected JWT_SECRET override, got %q", cfg.JWTSecret)
	}
}

func TestInvalidEnvValueKeepsDefault(t *testing.T) {
	t.Setenv("STARTING_HP", "not-a-number")

	cfg := Load()

	if cfg.StartingHP != 10 {
		t.Errorf("invalid env value should keep default 10, got %d", cfg.StartingHP)
	}
}
