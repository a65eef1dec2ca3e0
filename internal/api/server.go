// Package api wires the HTTP surface of the card tracker: CRUD for
// cards, benefit usage operations, catalog and match previews, import
// and extraction, and eligibility.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/churnpilot-backend/internal/adapters/extraction"
	"github.com/eshaffer321/churnpilot-backend/internal/api/handlers"
	"github.com/eshaffer321/churnpilot-backend/internal/api/middleware"
	"github.com/eshaffer321/churnpilot-backend/internal/application/importer"
	"github.com/eshaffer321/churnpilot-backend/internal/domain/bonus"
	"github.com/eshaffer321/churnpilot-backend/internal/domain/catalog"
	"github.com/eshaffer321/churnpilot-backend/internal/domain/enrich"
	"github.com/eshaffer321/churnpilot-backend/internal/domain/matcher"
	"github.com/eshaffer321/churnpilot-backend/internal/infrastructure/storage"
)

// Config holds API server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string
}

// DefaultConfig returns sensible defaults for the API server.
func DefaultConfig() Config {
	return Config{
		Port:           8080,
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
	}
}

// Deps are the collaborators the server routes requests to. Importer and
// Extractor may be nil; their endpoints then answer 503.
type Deps struct {
	Repo      storage.Repository
	Catalog   *catalog.Catalog
	Matcher   *matcher.Matcher
	Merger    *enrich.Merger
	Rule      bonus.Rule
	Importer  *importer.Importer
	Extractor *extraction.Extractor
}

// Server is the HTTP API server.
type Server struct {
	config     Config
	engine     *gin.Engine
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates a new API server.
func NewServer(cfg Config, deps Deps, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.Logging(logger))

	engine.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	s := &Server{
		config: cfg,
		engine: engine,
		logger: logger,
	}
	s.setupRoutes(deps)

	return s
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes(deps Deps) {
	// Health check (no /api prefix - for load balancers)
	s.engine.GET("/health", handlers.Health)

	cardsHandler := handlers.NewCardsHandler(deps.Repo, deps.Merger, s.logger)
	templatesHandler := handlers.NewTemplatesHandler(deps.Catalog, deps.Matcher)
	importHandler := handlers.NewImportHandler(deps.Importer, deps.Extractor, deps.Repo, deps.Merger, s.logger)
	eligibilityHandler := handlers.NewEligibilityHandler(deps.Repo, deps.Rule, s.logger)

	api := s.engine.Group("/api")
	{
		// Cards
		api.GET("/cards", cardsHandler.List)
		api.POST("/cards", cardsHandler.Create)
		api.GET("/cards/:id", cardsHandler.Get)
		api.PUT("/cards/:id", cardsHandler.Update)
		api.DELETE("/cards/:id", cardsHandler.Delete)
		api.POST("/cards/:id/enrich", cardsHandler.Enrich)
		api.POST("/cards/:id/spend", cardsHandler.RecordSpend)

		// Benefit usage
		api.POST("/cards/:id/benefits/:benefit/use", cardsHandler.MarkUsed)
		api.POST("/cards/:id/benefits/:benefit/unuse", cardsHandler.MarkUnused)
		api.POST("/cards/:id/benefits/:benefit/snooze", cardsHandler.Snooze)
		api.POST("/cards/:id/benefits/:benefit/unsnooze", cardsHandler.Unsnooze)

		// Catalog
		api.GET("/templates", templatesHandler.List)
		api.GET("/templates/:id", templatesHandler.Get)
		api.GET("/match", templatesHandler.Match)

		// Import and extraction
		api.POST("/import", importHandler.Import)
		api.POST("/extract", importHandler.Extract)
		api.POST("/enrich", importHandler.EnrichAll)

		// Eligibility
		api.GET("/eligibility", eligibilityHandler.Get)
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // import calls wait on the chat model
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting API server", "addr", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")

	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// Handler returns the underlying handler for testing.
func (s *Server) Handler() http.Handler {
	return s.engine
}
