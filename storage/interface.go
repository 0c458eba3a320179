package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Account is a registered player with lifetime aggregates. The aggregates
// are updated by InsertGameResult, not by the caller.
type Account struct {
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	TotalGames       int       `json:"total_games"`
	TotalWins        int       `json:"total_wins"`
	TotalLosses      int       `json:"total_losses"`
	BestTurn         int       `json:"best_turn"`
	FavoriteLeader   string    `json:"favorite_leader"`
	FavoriteModifier string    `json:"favorite_modifier"`
}

// SavedGame is one stored session. State holds the serialized session
// snapshot; the store treats it as opaque JSON.
type SavedGame struct {
	SaveID       string          `json:"save_id"`
	Username     string          `json:"username"`
	GameName     string          `json:"game_name"`
	State        json.RawMessage `json:"state"`
	CreatedAt    time.Time       `json:"created_at"`
	LastModified time.Time       `json:"last_modified"`
	Turn         int             `json:"turn"`
	Elixir       int             `json:"elixir"`
	HP           int             `json:"hp"`
	Completed    bool            `json:"completed"`
}

// GameResult records one finished (or abandoned) game for the stats history.
type GameResult struct {
	Username        string    `json:"-"`
	PlayedAt        time.Time `json:"played_at"`
	FinalTurn       int       `json:"final_turn"`
	ElixirGained    int       `json:"elixir_gained"`
	CardsBought     int       `json:"cards_bought"`
	Merges          int       `json:"merges"`
	CardsSold       int       `json:"cards_sold"`
	FamilyBonuses   []string  `json:"family_bonuses"`
	Leader          string    `json:"leader"`
	Modifier        string    `json:"modifier"`
	Victory         bool      `json:"victory"`
	EnemyRemaining  int       `json:"enemy_remaining"`
	DurationMinutes float64   `json:"duration_minutes"`
}

// Store lookup failures. Backend-specific errors (connection loss, bad
// rows) pass through unwrapped.
var (
	ErrUsernameTaken   = errors.New("username already taken")
	ErrEmailTaken      = errors.New("email already registered")
	ErrAccountNotFound = errors.New("account not found")
	ErrSaveNotFound    = errors.New("save not found")
	ErrNotOwner        = errors.New("save belongs to another account")
)

// SaveStore abstracts persistence for accounts, saved games, and per-game
// results. Implementations exist for Postgres and Redis; the API layer
// works against this interface so the backend is a deployment choice.
type SaveStore interface {
	// Accounts
	CreateAccount(ctx context.Context, username, email, passwordHash string) error
	GetAccount(ctx context.Context, username string) (*Account, error)

	// Saved games
	PutSave(ctx context.Context, save SavedGame) error
	GetSave(ctx context.Context, saveID string) (*SavedGame, error)
	ListSaves(ctx context.Context, username string) ([]SavedGame, error)
	UpdateSave(ctx context.Context, save SavedGame) error
	DeleteSave(ctx context.Context, saveID, username string) error

	// Stats
	InsertGameResult(ctx context.Context, result GameResult) error
	ListGameResults(ctx context.Context, username string) ([]GameResult, error)

	// Lifecycle
	Close()
}

var (
	_ SaveStore = (*Postgres)(nil)
	_ SaveStore = (*Redis)(nil)
)

// HashPassword returns the bcrypt hash to store for a new account.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
