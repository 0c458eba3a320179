package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is the go-redis backed SaveStore, used when no Postgres URL is
// configured. Accounts and saves are JSON values; save listings are kept
// in a per-user sorted set scored by last-modified time, and results in a
// per-user list with the most recent first.
type Redis struct {
	client *redis.Client
}

func accountKey(username string) string { return "mt:account:" + username }
func emailKey(email string) string      { return "mt:email:" + email }
func saveKey(saveID string) string      { return "mt:save:" + saveID }
func savesKey(username string) string   { return "mt:saves:" + username }
func resultsKey(username string) string { return "mt:results:" + username }

// redisAccount adds the password hash to the stored form; Account itself
// never serializes it.
type redisAccount struct {
	Account
	PasswordHash string `json:"password_hash"`
}

// NewRedis connects to Redis at addr. If addr is empty, NewRedis returns
// (nil, nil) and no persistence occurs.
func NewRedis(ctx context.Context, addr string) (*Redis, error) {
	if addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	slog.Info("connected to Redis", "tag", "storage", "addr", addr)
	return &Redis{client: client}, nil
}

func (s *Redis) Close() {
	if s != nil && s.client != nil {
		s.client.Close()
	}
}

func (s *Redis) CreateAccount(ctx context.Context, username, email, passwordHash string) error {
	acc := redisAccount{
		Account: Account{
			Username:  username,
			Email:     email,
			CreatedAt: time.Now().UTC(),
		},
		PasswordHash: passwordHash,
	}
	data, err := json.Marshal(acc)
	if err != nil {
		return err
	}
	ok, err := s.client.SetNX(ctx, accountKey(username), data, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrUsernameTaken
	}
	ok, err = s.client.SetNX(ctx, emailKey(email), username, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		s.client.Del(ctx, accountKey(username))
		return ErrEmailTaken
	}
	return nil
}

func (s *Redis) GetAccount(ctx context.Context, username string) (*Account, error) {
	data, err := s.client.Get(ctx, accountKey(username)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	var acc redisAccount
	if err := json.Unmarshal(data, &acc); err != nil {
		return nil, fmt.Errorf("decode account %s: %w", username, err)
	}
	out := acc.Account
	out.PasswordHash = acc.PasswordHash
	return &out, nil
}

func (s *Redis) putAccount(ctx context.Context, a *Account) error {
	data, err := json.Marshal(redisAccount{Account: *a, PasswordHash: a.PasswordHash})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, accountKey(a.Username), data, 0).Err()
}

func (s *Redis) PutSave(ctx context.Context, save SavedGame) error {
	data, err := json.Marshal(save)
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, saveKey(save.SaveID), data, 0)
	pipe.ZAdd(ctx, savesKey(save.Username), redis.Z{
		Score:  float64(save.LastModified.UnixNano()),
		Member: save.SaveID,
	})
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Redis) GetSave(ctx context.Context, saveID string) (*SavedGame, error) {
	data, err := s.client.Get(ctx, saveKey(saveID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSaveNotFound
	}
	if err != nil {
		return nil, err
	}
	var g SavedGame
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("decode save %s: %w", saveID, err)
	}
	return &g, nil
}

// ListSaves returns all of a player's saves, most recently modified first.
func (s *Redis) ListSaves(ctx context.Context, username string) ([]SavedGame, error) {
	ids, err := s.client.ZRevRange(ctx, savesKey(username), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]SavedGame, 0, len(ids))
	for _, id := range ids {
		g, err := s.GetSave(ctx, id)
		if errors.Is(err, ErrSaveNotFound) {
			// Index entry outlived its value; drop it.
			s.client.ZRem(ctx, savesKey(username), id)
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	return out, nil
}

func (s *Redis) UpdateSave(ctx context.Context, save SavedGame) error {
	existing, err := s.GetSave(ctx, save.SaveID)
	if err != nil {
		return err
	}
	if existing.Username != save.Username {
		return ErrNotOwner
	}
	save.CreatedAt = existing.CreatedAt
	return s.PutSave(ctx, save)
}

func (s *Redis) DeleteSave(ctx context.Context, saveID, username string) error {
	existing, err := s.GetSave(ctx, saveID)
	if err != nil {
		return err
	}
	if existing.Username != username {
		return ErrNotOwner
	}
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, saveKey(saveID))
	pipe.ZRem(ctx, savesKey(username), saveID)
	_, err = pipe.Exec(ctx)
	return err
}

// InsertGameResult stores one finished game and folds it into the account
// aggregates. The two writes are not atomic here; the aggregate drifts at
// most one game behind on a crash, which the stats endpoint recomputes
// from the result list anyway.
func (s *Redis) InsertGameResult(ctx context.Context, result GameResult) error {
	acc, err := s.GetAccount(ctx, result.Username)
	if err != nil {
		return err
	}
	if result.PlayedAt.IsZero() {
		result.PlayedAt = time.Now().UTC()
	}
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	if err := s.client.LPush(ctx, resultsKey(result.Username), data).Err(); err != nil {
		return err
	}

	acc.TotalGames++
	if result.Victory {
		acc.TotalWins++
	} else {
		acc.TotalLosses++
	}
	if result.FinalTurn > acc.BestTurn {
		acc.BestTurn = result.FinalTurn
	}
	acc.FavoriteLeader = result.Leader
	acc.FavoriteModifier = result.Modifier
	return s.putAccount(ctx, acc)
}

// ListGameResults returns a player's results, most recent first.
func (s *Redis) ListGameResults(ctx context.Context, username string) ([]GameResult, error) {
	rows, err := s.client.LRange(ctx, resultsKey(username), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]GameResult, 0, len(rows))
	for _, row := range rows {
		var r GameResult
		if err := json.Unmarshal([]byte(row), &r); err != nil {
			return nil, fmt.Errorf("decode result for %s: %w", username, err)
		}
		r.Username = username
		out = append(out, r)
	}
	return out, nil
}
