package storage

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createTablesSQL = `
CREATE TABLE IF NOT EXISTS accounts (
	username          TEXT PRIMARY KEY,
	email             TEXT NOT NULL UNIQUE,
	password_hash     TEXT NOT NULL,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	total_games       INT  NOT NULL DEFAULT 0,
	total_wins        INT  NOT NULL DEFAULT 0,
	total_losses      INT  NOT NULL DEFAULT 0,
	best_turn         INT  NOT NULL DEFAULT 0,
	favorite_leader   TEXT NOT NULL DEFAULT '',
	favorite_modifier TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS saved_games (
	save_id       UUID PRIMARY KEY,
	username      TEXT NOT NULL,
	game_name     TEXT NOT NULL,
	state         JSONB NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	last_modified TIMESTAMPTZ NOT NULL DEFAULT now(),
	turn          INT NOT NULL,
	elixir        INT NOT NULL,
	hp            INT NOT NULL,
	completed     BOOLEAN NOT NULL DEFAULT false
);
CREATE INDEX IF NOT EXISTS idx_saved_games_username ON saved_games(username, last_modified DESC);
CREATE TABLE IF NOT EXISTS game_results (
	id               UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	username         TEXT NOT NULL,
	played_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	final_turn       INT NOT NULL,
	elixir_gained    INT NOT NULL,
	cards_bought     INT NOT NULL,
	merges           INT NOT NULL,
	cards_sold       INT NOT NULL,
	family_bonuses   TEXT[] NOT NULL DEFAULT '{}',
	leader           TEXT NOT NULL DEFAULT '',
	modifier         TEXT NOT NULL DEFAULT '',
	victory          BOOLEAN NOT NULL,
	enemy_remaining  INT NOT NULL DEFAULT 0,
	duration_minutes DOUBLE PRECISION NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_game_results_username ON game_results(username, played_at DESC);
`

const pgUniqueViolation = "23505"

// Postgres is the pgx-backed SaveStore.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to Postgres and ensures the schema exists.
// If databaseURL is empty, NewPostgres returns (nil, nil) and no
// persistence occurs.
func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	if databaseURL == "" {
		return nil, nil
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, createTablesSQL); err != nil {
		pool.Close()
		return nil, err
	}
	slog.Info("connected to Postgres", "tag", "storage")
	return &Postgres{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Postgres) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

func (s *Postgres) CreateAccount(ctx context.Context, username, email, passwordHash string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO accounts (username, email, password_hash)
		VALUES ($1, $2, $3)`,
		username, email, passwordHash)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		if pgErr.ConstraintName == "accounts_email_key" {
			return ErrEmailTaken
		}
		return ErrUsernameTaken
	}
	return err
}

func (s *Postgres) GetAccount(ctx context.Context, username string) (*Account, error) {
	var a Account
	err := s.pool.QueryRow(ctx, `
		SELECT username, email, password_hash, created_at,
			total_games, total_wins, total_losses, best_turn,
			favorite_leader, favorite_modifier
		FROM accounts WHERE username = $1`,
		username).Scan(&a.Username, &a.Email, &a.PasswordHash, &a.CreatedAt,
		&a.TotalGames, &a.TotalWins, &a.TotalLosses, &a.BestTurn,
		&a.FavoriteLeader, &a.FavoriteModifier)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Postgres) PutSave(ctx context.Context, save SavedGame) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO saved_games (save_id, username, game_name, state, created_at, last_modified, turn, elixir, hp, completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		save.SaveID, save.Username, save.GameName, save.State,
		save.CreatedAt, save.LastModified, save.Turn, save.Elixir, save.HP, save.Completed)
	return err
}

func (s *Postgres) GetSave(ctx context.Context, saveID string) (*SavedGame, error) {
	var g SavedGame
	err := s.pool.QueryRow(ctx, `
		SELECT save_id, username, game_name, state, created_at, last_modified, turn, elixir, hp, completed
		FROM saved_games WHERE save_id = $1`,
		saveID).Scan(&g.SaveID, &g.Username, &g.GameName, &g.State,
		&g.CreatedAt, &g.LastModified, &g.Turn, &g.Elixir, &g.HP, &g.Completed)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSaveNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// ListSaves returns all of a player's saves, most recently modified first.
func (s *Postgres) ListSaves(ctx context.Context, username string) ([]SavedGame, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT save_id, username, game_name, state, created_at, last_modified, turn, elixir, hp, completed
		FROM saved_games
		WHERE username = $1
		ORDER BY last_modified DESC`,
		username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SavedGame
	for rows.Next() {
		var g SavedGame
		if err := rows.Scan(&g.SaveID, &g.Username, &g.GameName, &g.State,
			&g.CreatedAt, &g.LastModified, &g.Turn, &g.Elixir, &g.HP, &g.Completed); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// UpdateSave overwrites the state of an existing save owned by save.Username.
func (s *Postgres) UpdateSave(ctx context.Context, save SavedGame) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE saved_games
		SET game_name = $1, state = $2, last_modified = $3, turn = $4, elixir = $5, hp = $6, completed = $7
		WHERE save_id = $8 AND username = $9`,
		save.GameName, save.State, save.LastModified, save.Turn, save.Elixir, save.HP, save.Completed,
		save.SaveID, save.Username)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return s.ownershipError(ctx, save.SaveID)
	}
	return nil
}

func (s *Postgres) DeleteSave(ctx context.Context, saveID, username string) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM saved_games WHERE save_id = $1 AND username = $2`,
		saveID, username)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return s.ownershipError(ctx, saveID)
	}
	return nil
}

// ownershipError distinguishes a missing save from one owned by someone else.
func (s *Postgres) ownershipError(ctx context.Context, saveID string) error {
	var owner string
	err := s.pool.QueryRow(ctx, `SELECT username FROM saved_games WHERE save_id = $1`, saveID).Scan(&owner)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrSaveNotFound
	}
	if err != nil {
		return err
	}
	return ErrNotOwner
}

// InsertGameResult stores one finished game and folds it into the account
// aggregates in the same transaction.
func (s *Postgres) InsertGameResult(ctx context.Context, result GameResult) error {
	playedAt := result.PlayedAt
	if playedAt.IsZero() {
		playedAt = time.Now().UTC()
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO game_results (username, played_at, final_turn, elixir_gained, cards_bought, merges, cards_sold, family_bonuses, leader, modifier, victory, enemy_remaining, duration_minutes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		result.Username, playedAt, result.FinalTurn, result.ElixirGained,
		result.CardsBought, result.Merges, result.CardsSold, result.FamilyBonuses,
		result.Leader, result.Modifier, result.Victory, result.EnemyRemaining, result.DurationMinutes)
	if err != nil {
		return err
	}

	wins, losses := 0, 1
	if result.Victory {
		wins, losses = 1, 0
	}
	tag, err := tx.Exec(ctx, `
		UPDATE accounts
		SET total_games = total_games + 1,
			total_wins = total_wins + $1,
			total_losses = total_losses + $2,
			best_turn = GREATEST(best_turn, $3),
			favorite_leader = $4,
			favorite_modifier = $5
		WHERE username = $6`,
		wins, losses, result.FinalTurn, result.Leader, result.Modifier, result.Username)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return tx.Commit(ctx)
}

func (s *Postgres) ListGameResults(ctx context.Context, username string) ([]GameResult, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT username, played_at, final_turn, elixir_gained, cards_bought, merges, cards_sold, family_bonuses, leader, modifier, victory, enemy_remaining, duration_minutes
		FROM game_results
		WHERE username = $1
		ORDER BY played_at DESC`,
		username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []GameResult
	for rows.Next() {
		var r GameResult
		if err := rows.Scan(&r.Username, &r.PlayedAt, &r.FinalTurn, &r.ElixirGained,
			&r.CardsBought, &r.Merges, &r.CardsSold, &r.FamilyBonuses,
			&r.Leader, &r.Modifier, &r.Victory, &r.EnemyRemaining, &r.DurationMinutes); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
