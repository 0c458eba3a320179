package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"merge-tactics-server/game"
	"merge-tactics-server/gameerrors"
	"merge-tactics-server/storage"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, gameerrors.Invalid("bad request body: %v", err))
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		fail(c, gameerrors.Invalid("username, email, and password are required"))
		return
	}
	hash, err := storage.HashPassword(req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	if err := s.Store.CreateAccount(c.Request.Context(), req.Username, req.Email, hash); err != nil {
		fail(c, err)
		return
	}
	token, err := s.Verifier.IssueToken(req.Username)
	if err != nil {
		fail(c, err)
		return
	}
	slog.Info("account created", "tag", "api", "username", req.Username)
	c.JSON(http.StatusCreated, gin.H{"token": token, "username": req.Username})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, gameerrors.Invalid("bad request body: %v", err))
		return
	}
	acc, err := s.Store.GetAccount(c.Request.Context(), req.Username)
	if err != nil || !storage.CheckPassword(acc.PasswordHash, req.Password) {
		// One answer for both a missing account and a wrong password.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	token, err := s.Verifier.IssueToken(acc.Username)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "username": acc.Username})
}

func (s *Server) handleProfile(c *gin.Context) {
	acc, err := s.Store.GetAccount(c.Request.Context(), currentUser(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, acc)
}

type saveRequest struct {
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
}

// snapshotSave builds the stored record for a live session.
func snapshotSave(sess *game.Session, username, saveID, name string, now time.Time) (storage.SavedGame, error) {
	snap := sess.Snapshot()
	state, err := json.Marshal(snap)
	if err != nil {
		return storage.SavedGame{}, err
	}
	if name == "" {
		name = fmt.Sprintf("Game of %s", now.Format("02/01/2006 15:04"))
	}
	return storage.SavedGame{
		SaveID:       saveID,
		Username:     username,
		GameName:     name,
		State:        state,
		CreatedAt:    now,
		LastModified: now,
		Turn:         snap.Turn,
		Elixir:       snap.Elixir,
		HP:           snap.HP,
		Completed:    snap.GameOver,
	}, nil
}

func (s *Server) handleCreateSave(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, gameerrors.Invalid("bad request body: %v", err))
		return
	}
	sess, ok := s.Sessions.Get(req.SessionID)
	if !ok {
		fail(c, gameerrors.ErrSessionNotFound)
		return
	}
	save, err := snapshotSave(sess, currentUser(c), uuid.NewString(), req.Name, time.Now().UTC())
	if err != nil {
		fail(c, err)
		return
	}
	if err := s.Store.PutSave(c.Request.Context(), save); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"save_id": save.SaveID})
}

// saveSummary is the listing row: everything but the state blob.
type saveSummary struct {
	SaveID       string    `json:"save_id"`
	GameName     string    `json:"game_name"`
	CreatedAt    time.Time `json:"created_at"`
	LastModified time.Time `json:"last_modified"`
	Turn         int       `json:"turn"`
	Elixir       int       `json:"elixir"`
	HP           int       `json:"hp"`
	Completed    bool      `json:"completed"`
}

func (s *Server) handleListSaves(c *gin.Context) {
	saves, err := s.Store.ListSaves(c.Request.Context(), currentUser(c))
	if err != nil {
		fail(c, err)
		return
	}
	summaries := make([]saveSummary, 0, len(saves))
	for _, g := range saves {
		summaries = append(summaries, saveSummary{
			SaveID:       g.SaveID,
			GameName:     g.GameName,
			CreatedAt:    g.CreatedAt,
			LastModified: g.LastModified,
			Turn:         g.Turn,
			Elixir:       g.Elixir,
			HP:           g.HP,
			Completed:    g.Completed,
		})
	}
	c.JSON(http.StatusOK, gin.H{"saves": summaries})
}

// ownedSave loads a save and checks it belongs to the requesting user.
func (s *Server) ownedSave(c *gin.Context) (*storage.SavedGame, error) {
	save, err := s.Store.GetSave(c.Request.Context(), c.Param("id"))
	if err != nil {
		return nil, err
	}
	if save.Username != currentUser(c) {
		return nil, storage.ErrNotOwner
	}
	return save, nil
}

func (s *Server) handleGetSave(c *gin.Context) {
	save, err := s.ownedSave(c)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, save)
}

func (s *Server) handleUpdateSave(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, gameerrors.Invalid("bad request body: %v", err))
		return
	}
	sess, ok := s.Sessions.Get(req.SessionID)
	if !ok {
		fail(c, gameerrors.ErrSessionNotFound)
		return
	}
	save, err := snapshotSave(sess, currentUser(c), c.Param("id"), req.Name, time.Now().UTC())
	if err != nil {
		fail(c, err)
		return
	}
	if err := s.Store.UpdateSave(c.Request.Context(), save); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"save_id": save.SaveID})
}

func (s *Server) handleDeleteSave(c *gin.Context) {
	if err := s.Store.DeleteSave(c.Request.Context(), c.Param("id"), currentUser(c)); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleLoadSave(c *gin.Context) {
	save, err := s.ownedSave(c)
	if err != nil {
		fail(c, err)
		return
	}
	var snap game.Snapshot
	if err := json.Unmarshal(save.State, &snap); err != nil {
		fail(c, fmt.Errorf("corrupt save state: %w", err))
		return
	}
	sess, err := s.Sessions.Restore(snap)
	if err != nil {
		fail(c, err)
		return
	}
	slog.Info("save loaded", "tag", "api", "save", save.SaveID, "session", sess.ID)
	c.JSON(http.StatusOK, gin.H{
		"session_id": sess.ID,
		"state":      sess.Snapshot(),
	})
}

type resultRequest struct {
	FinalTurn       int      `json:"final_turn"`
	ElixirGained    int      `json:"elixir_gained"`
	CardsBought     int      `json:"cards_bought"`
	Merges          int      `json:"merges"`
	CardsSold       int      `json:"cards_sold"`
	FamilyBonuses   []string `json:"family_bonuses"`
	Leader          string   `json:"leader"`
	Modifier        string   `json:"modifier"`
	Victory         bool     `json:"victory"`
	EnemyRemaining  int      `json:"enemy_remaining"`
	DurationMinutes float64  `json:"duration_minutes"`
}

func (s *Server) handleInsertResult(c *gin.Context) {
	var req resultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, gameerrors.Invalid("bad request body: %v", err))
		return
	}
	result := storage.GameResult{
		Username:        currentUser(c),
		PlayedAt:        time.Now().UTC(),
		FinalTurn:       req.FinalTurn,
		ElixirGained:    req.ElixirGained,
		CardsBought:     req.CardsBought,
		Merges:          req.Merges,
		CardsSold:       req.CardsSold,
		FamilyBonuses:   req.FamilyBonuses,
		Leader:          req.Leader,
		Modifier:        req.Modifier,
		Victory:         req.Victory,
		EnemyRemaining:  req.EnemyRemaining,
		DurationMinutes: req.DurationMinutes,
	}
	if result.FamilyBonuses == nil {
		result.FamilyBonuses = []string{}
	}
	if err := s.Store.InsertGameResult(c.Request.Context(), result); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

func (s *Server) handleStats(c *gin.Context) {
	results, err := s.Store.ListGameResults(c.Request.Context(), currentUser(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, storage.Aggregate(results))
}
