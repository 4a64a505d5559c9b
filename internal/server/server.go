package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mealbook/backend/config"
	"github.com/mealbook/backend/internal/api"
	"github.com/mealbook/backend/internal/middleware"
	"github.com/mealbook/backend/internal/router"
	"github.com/mealbook/backend/internal/service"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *gorm.DB
	cfg    *config.Config
}

// New creates a new server instance
func New(cfg *config.Config, db *gorm.DB, limiter middleware.Limiter) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	mealHandler := api.NewMealHandler(service.NewMealService(db))
	healthHandler := api.NewHealthHandler(db)
	r := router.SetupRouter(mealHandler, healthHandler, limiter)

	return &Server{
		router: r,
		db:     db,
		cfg:    cfg,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler exposes the configured router
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the server and blocks until it stops
func (s *Server) Start() error {
	log.Printf("Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return s.http.Shutdown(ctx)
}
