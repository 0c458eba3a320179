package api

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"merge-tactics-server/auth"
	"merge-tactics-server/catalog"
	"merge-tactics-server/config"
	"merge-tactics-server/game"
	"merge-tactics-server/session"
	"merge-tactics-server/storage"
)

const bearerPrefix = "Bearer "

// Server holds the dependencies of every HTTP handler. Store and Verifier
// may be nil; the account and save routes then answer 503 / 401.
type Server struct {
	Config   *config.Config
	Sessions *session.Manager
	Catalog  *catalog.Catalog
	Mods     game.ModifierProvider
	Store    storage.SaveStore
	Verifier *auth.Verifier

	// Notify, when set, is called with the session ID after every
	// successful mutating command so live feeds can push the new state.
	Notify func(sessionID string)
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Authorization", "Content-Type"},
	}))

	api := r.Group("/api")

	// Static game data
	api.GET("/cards", s.handleCards)
	api.GET("/modifiers", s.handleModifiers)
	api.GET("/leaders", s.handleLeaders)

	// Session lifecycle and commands
	api.POST("/new_game", s.handleNewGame)
	api.GET("/game_state/:id", s.handleGameState)
	api.POST("/recommendations", s.handleRecommendations)
	for _, action := range commandActions {
		api.POST("/"+action, s.commandHandler(action))
	}

	// Accounts, saves, stats
	api.POST("/register", s.requireStore, s.handleRegister)
	api.POST("/login", s.requireStore, s.handleLogin)

	authed := api.Group("", s.requireStore, s.requireAuth)
	authed.GET("/profile", s.handleProfile)
	authed.POST("/saves", s.handleCreateSave)
	authed.GET("/saves", s.handleListSaves)
	authed.GET("/saves/:id", s.handleGetSave)
	authed.PUT("/saves/:id", s.handleUpdateSave)
	authed.DELETE("/saves/:id", s.handleDeleteSave)
	authed.POST("/saves/:id/load", s.handleLoadSave)
	authed.POST("/results", s.handleInsertResult)
	authed.GET("/stats", s.handleStats)

	return r
}

// requireStore rejects persistence routes when no backend is configured.
func (s *Server) requireStore(c *gin.Context) {
	if s.Store == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "no persistence backend configured"})
		return
	}
	c.Next()
}

// requireAuth validates the bearer token and stores the username in the
// request context.
func (s *Server) requireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if s.Verifier == nil || !strings.HasPrefix(header, bearerPrefix) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	claims, err := s.Verifier.ValidateToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	username := auth.UsernameFromClaims(claims)
	if username == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token carries no subject"})
		return
	}
	c.Set("username", username)
	c.Next()
}

func currentUser(c *gin.Context) string {
	return c.GetString("username")
}
