// Package server is the public and admin HTTP API over the catalog store.
package server

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mvps-vip/showcase/internal/adminauth"
	"github.com/mvps-vip/showcase/internal/catalog"
	"github.com/mvps-vip/showcase/internal/config"
	"github.com/mvps-vip/showcase/internal/media"
)

const shutdownTimeout = 10 * time.Second

// Server serves the catalog API. Auth may be nil, which disables the admin
// routes with 503.
type Server struct {
	cfg    config.ServerConfig
	store  *catalog.Store
	auth   *adminauth.Authenticator
	log    *log.Logger
	engine *gin.Engine

	media     media.Store
	mediaBase string
	maxUpload int64
}

type Option func(*Server)

// WithMedia enables uploads and the /media routes. publicURL may be empty,
// in which case upload URLs use the request's host. maxBytes of zero means
// no size limit.
func WithMedia(store media.Store, publicURL string, maxBytes int64) Option {
	return func(s *Server) {
		s.media = store
		s.mediaBase = publicURL
		s.maxUpload = maxBytes
	}
}

func New(cfg config.ServerConfig, store *catalog.Store, auth *adminauth.Authenticator, logger *log.Logger, opts ...Option) *Server {
	s := &Server{cfg: cfg, store: store, auth: auth, log: logger}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = s.routes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(s.cfg.AllowOrigins)))
	r.Use(s.requestID, s.requestLogger, prometheusMetrics)

	r.GET("/healthz", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/media/*path", s.serveMedia)

	api := r.Group("/api")
	api.GET("/catalog", s.getCatalog)
	api.GET("/movies", s.listMovies)
	api.GET("/movies/:id", s.getMovie)
	api.GET("/settings", s.getSettings)
	api.GET("/landing", s.getLanding)

	admin := api.Group("/admin")
	admin.POST("/login", s.login)
	authed := admin.Group("", s.requireAdmin)
	authed.POST("/movies", s.addMovie)
	authed.PUT("/movies/:id", s.updateMovie)
	authed.DELETE("/movies/:id", s.removeMovie)
	authed.PATCH("/settings", s.updateSettings)
	authed.PUT("/featured", s.setFeatured)
	authed.POST("/refresh", s.refresh)
	authed.POST("/uploads", s.upload)
	return r
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// corsConfig allows the configured origins. An empty list or "*" allows any
// origin.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader, sourceHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
