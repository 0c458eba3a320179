package config

import (
	"encoding/json"
	"log"
	"os"
	"strconv"
)

// Weights holds the scoring coefficients for candidate evaluation.
// The values are tuned game heuristics; tests depend on the defaults.
type Weights struct {
	Traits     float64 `json:"traits"`
	Merge      float64 `json:"merge"`
	FusionSell float64 `json:"fusion_sell"`
	Disruption float64 `json:"disruption"`
	Cost       float64 `json:"cost"`
}

// Config holds all configurable game and server parameters.
type Config struct {
	StartingElixir int `json:"starting_elixir"`
	StartingHP     int `json:"starting_hp"`
	ElixirPerTurn  int `json:"elixir_per_turn"`
	ChoicesPerTurn int `json:"choices_per_turn"`

	// ScoreWeights are the coefficients of the recommendation scorer.
	ScoreWeights Weights `json:"score_weights"`

	HTTPPort int `json:"http_port"`

	// CardOverlayFile optionally points to a YAML file with extra card
	// definitions merged into the built-in catalog.
	CardOverlayFile string `json:"card_overlay_file"`

	// DatabaseURL enables the Postgres save store when set.
	DatabaseURL string `json:"-"`
	// RedisAddr enables the Redis save store when DatabaseURL is unset.
	RedisAddr string `json:"-"`

	// JWTSecret signs locally issued account tokens.
	JWTSecret string `json:"-"`
	// AuthJWKSURL, when set, switches token validation to an external
	// issuer's JWKS endpoint instead of the local secret.
	AuthJWKSURL string `json:"-"`
}

// Defaults returns a Config with the stock Merge Tactics parameters.
func Defaults() *Config {
	return &Config{
		StartingElixir: 4,
		StartingHP:     10,
		ElixirPerTurn:  4,
		ChoicesPerTurn: 3,
		ScoreWeights: Weights{
			Traits:     2.0,
			Merge:      2.0,
			FusionSell: 3.0,
			Disruption: 1.0,
			Cost:       1.0,
		},
		HTTPPort: 8080,
	}
}

// Load reads configuration from an optional config.json file,
// then applies environment variable overrides. Fields not set
// in either source retain their default values.
func Load() *Config {
	cfg := Defaults()

	if f, err := os.Open("config.json"); err == nil {
		defer f.Close()
		if err := json.NewDecoder(f).Decode(cfg); err != nil {
			log.Printf("Warning: failed to parse config.json: %v", err)
		}
	}

	overrideInt(&cfg.StartingElixir, "STARTING_ELIXIR")
	overrideInt(&cfg.StartingHP, "STARTING_HP")
	overrideInt(&cfg.ElixirPerTurn, "ELIXIR_PER_TURN")
	overrideInt(&cfg.ChoicesPerTurn, "CHOICES_PER_TURN")
	overrideInt(&cfg.HTTPPort, "HTTP_PORT")
	overrideFloat(&cfg.ScoreWeights.Traits, "WEIGHT_TRAITS")
	overrideFloat(&cfg.ScoreWeights.Merge, "WEIGHT_MERGE")
	overrideFloat(&cfg.ScoreWeights.FusionSell, "WEIGHT_FUSION_SELL")
	overrideFloat(&cfg.ScoreWeights.Disruption, "WEIGHT_DISRUPTION")
	overrideFloat(&cfg.ScoreWeights.Cost, "WEIGHT_COST")
	overrideString(&cfg.CardOverlayFile, "CARD_OVERLAY_FILE")
	overrideString(&cfg.DatabaseURL, "DATABASE_URL")
	overrideString(&cfg.RedisAddr, "REDIS_ADDR")
	overrideString(&cfg.JWTSecret, "JWT_SECRET")
	overrideString(&cfg.AuthJWKSURL, "AUTH_JWKS_URL")

	return cfg
}

func overrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*field = n
		} else {
			log.Printf("Warning: invalid value for %s: %q", envKey, val)
		}
	}
}

func overrideFloat(field *float64, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			*field = f
		} else {
			log.Printf("Warning: invalid value for %s: %q", envKey, val)
		}
	}
}

func overrideString(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}
