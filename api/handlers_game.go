package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"merge-tactics-server/catalog"
	"merge-tactics-server/game"
	"merge-tactics-server/gameerrors"
	"merge-tactics-server/recommend"
)

type newGameRequest struct {
	Leader        string   `json:"leader"`
	Modifiers     []string `json:"modifiers"`
	InitialCard   string   `json:"initial_card"`
	InitialLevel  int      `json:"initial_level"`
	InitialElixir *int     `json:"initial_elixir"`
}

func (s *Server) handleNewGame(c *gin.Context) {
	var req newGameRequest
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		fail(c, gameerrors.Invalid("bad request body: %v", err))
		return
	}

	opts := game.Options{
		Modifiers:     req.Modifiers,
		InitialCard:   req.InitialCard,
		InitialLevel:  req.InitialLevel,
		InitialElixir: req.InitialElixir,
	}
	if req.Leader != "" {
		leader, ok := catalog.LeaderByName(req.Leader)
		if !ok {
			fail(c, gameerrors.Invalid("unknown leader %q", req.Leader))
			return
		}
		opts.Leader = &leader
	}

	sess, err := s.Sessions.Create(opts)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"session_id": sess.ID,
		"state":      sess.Snapshot(),
	})
}

// familyView is the per-trait display row for the state endpoint: current
// unique-unit count, the active bonus tier, the tier needed to activate,
// and the active tier's description.
type familyView struct {
	Trait       string `json:"trait"`
	Count       int    `json:"count"`
	Tier        int    `json:"tier"`
	Activation  int    `json:"activation"`
	Description string `json:"description,omitempty"`
}

func familyViews(snap game.Snapshot) []familyView {
	views := make([]familyView, 0, len(snap.FamilyCounts))
	for _, trait := range game.SortedTraits(snap.FamilyCounts) {
		v := familyView{
			Trait:      trait,
			Count:      snap.FamilyCounts[trait],
			Tier:       snap.FamilyBonuses[trait],
			Activation: catalog.FamilyActivation(trait),
		}
		if v.Tier > 0 {
			if desc, ok := catalog.FamilyDescription(trait, v.Tier); ok {
				v.Description = desc
			}
		}
		views = append(views, v)
	}
	return views
}

func (s *Server) handleGameState(c *gin.Context) {
	sess, ok := s.Sessions.Get(c.Param("id"))
	if !ok {
		fail(c, gameerrors.ErrSessionNotFound)
		return
	}
	snap := sess.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"state":    snap,
		"families": familyViews(snap),
	})
}

// recommendationChoice is one shop offer: a card name and the level it is
// offered at. Level defaults to 1.
type recommendationChoice struct {
	Card  string `json:"card"`
	Level int    `json:"level"`
}

type recommendationsRequest struct {
	SessionID string                 `json:"session_id"`
	Choices   []recommendationChoice `json:"choices"`
}

func (s *Server) handleRecommendations(c *gin.Context) {
	var req recommendationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, gameerrors.Invalid("bad request body: %v", err))
		return
	}
	sess, ok := s.Sessions.Get(req.SessionID)
	if !ok {
		fail(c, gameerrors.ErrSessionNotFound)
		return
	}

	candidates := make([]game.Card, 0, len(req.Choices))
	for _, choice := range req.Choices {
		card, ok := s.Catalog.Lookup(choice.Card)
		if !ok {
			fail(c, gameerrors.Invalid("unknown card %q in choices", choice.Card))
			return
		}
		level := choice.Level
		if level <= 0 {
			level = 1
		}
		candidates = append(candidates, card.AtLevel(level))
	}
	if len(candidates) == 0 {
		fail(c, gameerrors.Invalid("no candidates given"))
		return
	}

	snap := sess.Snapshot()
	ctx := &recommend.Context{
		Board:   snap.Board,
		Bench:   snap.Bench,
		History: snap.History,
		Elixir:  snap.Elixir,
		Weights: sess.Weights,
	}
	scores := recommend.Rank(candidates, ctx)
	resp := gin.H{"scores": scores}
	if best, ok := recommend.Best(candidates, ctx); ok {
		resp["best"] = best
	}
	c.JSON(http.StatusOK, resp)
}

// commandHandler wraps one RunCommand action as an HTTP route. The body is
// a loose map so HTTP and WebSocket payloads share one decoding path.
func (s *Server) commandHandler(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload := map[string]any{}
		if err := c.ShouldBindJSON(&payload); err != nil && err != io.EOF {
			fail(c, gameerrors.Invalid("bad request body: %v", err))
			return
		}
		sessionID, _ := payload["session_id"].(string)
		out, err := s.RunCommand(sessionID, action, payload)
		if err != nil {
			fail(c, err)
			return
		}
		sess, ok := s.Sessions.Get(sessionID)
		if !ok {
			// Session removed between the command and the snapshot.
			fail(c, gameerrors.ErrSessionNotFound)
			return
		}
		snap := sess.Snapshot()
		c.JSON(http.StatusOK, gin.H{
			"result":   out,
			"state":    snap,
			"families": familyViews(snap),
		})
	}
}
