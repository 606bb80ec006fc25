package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mvps-vip/showcase/internal/logging"
	"github.com/mvps-vip/showcase/internal/models"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func bindJSON(c *gin.Context, out any) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		abortError(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return false
	}
	return true
}

func (s *Server) login(c *gin.Context) {
	if s.auth == nil {
		abortError(c, errAdminDisabled)
		return
	}
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	token, claims, err := s.auth.Login(req.Email, req.Password)
	if err != nil {
		logging.FromContext(c.Request.Context()).Warn("admin login failed", "ip", c.ClientIP())
		abortError(c, err)
		return
	}
	logging.FromContext(c.Request.Context()).Info("admin login", "email", claims.Email)
	c.JSON(http.StatusOK, loginResponse{Token: token, ExpiresAt: claims.ExpiresAt})
}

func (s *Server) addMovie(c *gin.Context) {
	var m models.Movie
	if !bindJSON(c, &m) {
		return
	}
	created, err := s.store.AddMovie(c.Request.Context(), m)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) updateMovie(c *gin.Context) {
	var m models.Movie
	if !bindJSON(c, &m) {
		return
	}
	m.ID = c.Param("id")
	updated, err := s.store.UpdateMovie(c.Request.Context(), m)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) removeMovie(c *gin.Context) {
	if err := s.store.RemoveMovie(c.Request.Context(), c.Param("id")); err != nil {
		abortError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) updateSettings(c *gin.Context) {
	var patch models.SettingsPatch
	if !bindJSON(c, &patch) {
		return
	}
	if patch.IsEmpty() {
		abortError(c, fmt.Errorf("%w: no settings to change", errBadRequest))
		return
	}
	settings, err := s.store.UpdateSettings(c.Request.Context(), patch)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

type featuredRequest struct {
	MovieID string `json:"movie_id"`
}

func (s *Server) setFeatured(c *gin.Context) {
	var req featuredRequest
	if !bindJSON(c, &req) {
		return
	}
	settings, err := s.store.SetFeatured(c.Request.Context(), req.MovieID)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// refresh resolves the catalog now and reports which tier answered.
func (s *Server) refresh(c *gin.Context) {
	out := s.store.Refresh(c.Request.Context())
	rep := out.Report()
	rep.Value = nil
	status := http.StatusOK
	if !out.Found {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, rep)
}
