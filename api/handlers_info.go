package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"merge-tactics-server/catalog"
)

func (s *Server) handleCards(c *gin.Context) {
	cards := s.Catalog.All()
	c.JSON(http.StatusOK, gin.H{
		"cards": cards,
		"count": len(cards),
	})
}

// modifierInfo is the display form of a modifier definition; the hooks stay
// server-side.
type modifierInfo struct {
	Tag         string `json:"tag"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) handleModifiers(c *gin.Context) {
	defs := s.Mods.All()
	infos := make([]modifierInfo, 0, len(defs))
	for _, d := range defs {
		infos = append(infos, modifierInfo{Tag: d.Tag, Name: d.Name, Description: d.Description})
	}
	c.JSON(http.StatusOK, gin.H{
		"modifiers": infos,
		"count":     len(infos),
	})
}

func (s *Server) handleLeaders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"leaders": catalog.Leaders()})
}
