package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mvps-vip/showcase/internal/models"
)

func (s *Server) catalog(c *gin.Context) (models.Catalog, bool) {
	cat, err := s.store.Ensure(c.Request.Context())
	if err != nil {
		abortError(c, err)
		return models.Catalog{}, false
	}
	if src := s.store.Source(); src != "" {
		c.Header(sourceHeader, src)
	}
	return cat, true
}

type healthResponse struct {
	Status string `json:"status"`
	Loaded bool   `json:"catalog_loaded"`
	Source string `json:"source,omitempty"`
	Movies int    `json:"movies"`
}

func (s *Server) health(c *gin.Context) {
	cat, loaded := s.store.Current()
	c.JSON(http.StatusOK, healthResponse{
		Status: "ok",
		Loaded: loaded,
		Source: s.store.Source(),
		Movies: len(cat.Movies),
	})
}

func (s *Server) getCatalog(c *gin.Context) {
	if cat, ok := s.catalog(c); ok {
		c.JSON(http.StatusOK, cat)
	}
}

func (s *Server) listMovies(c *gin.Context) {
	if cat, ok := s.catalog(c); ok {
		c.JSON(http.StatusOK, cat.Movies)
	}
}

func (s *Server) getMovie(c *gin.Context) {
	cat, ok := s.catalog(c)
	if !ok {
		return
	}
	m, found := cat.Movie(c.Param("id"))
	if !found {
		abortError(c, models.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, m)
}

type settingsResponse struct {
	models.Settings
	Featured *models.Movie `json:"featured,omitempty"`
}

func (s *Server) getSettings(c *gin.Context) {
	cat, ok := s.catalog(c)
	if !ok {
		return
	}
	resp := settingsResponse{Settings: cat.Settings}
	if m, found := cat.Featured(); found {
		resp.Featured = &m
	}
	c.JSON(http.StatusOK, resp)
}

// getLanding reports what the front page should show. ?intro_seen=true skips
// the intro video.
func (s *Server) getLanding(c *gin.Context) {
	cat, ok := s.catalog(c)
	if !ok {
		return
	}
	seen, _ := strconv.ParseBool(c.Query("intro_seen"))
	c.JSON(http.StatusOK, models.ResolveLanding(cat.Settings, seen))
}
