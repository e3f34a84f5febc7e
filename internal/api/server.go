// Package api provides the HTTP API server implementation.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/token-portfolio/internal/logging"
	"github.com/token-portfolio/internal/models"
	"github.com/token-portfolio/internal/pricing"
	"github.com/token-portfolio/internal/service"
)

// Service interfaces for dependency injection and testing

// AuthServiceInterface defines the interface for auth operations
type AuthServiceInterface interface {
	Login(ctx context.Context, identityToken string) (*service.LoginResult, error)
	VerifyToken(tokenString string) (string, error)
}

// AssetServiceInterface defines the interface for asset operations
type AssetServiceInterface interface {
	CreateAsset(ctx context.Context, userID string, input service.CreateAssetInput) (*models.Asset, error)
	ListAssets(ctx context.Context, userID string) ([]*models.Asset, error)
	GetAsset(ctx context.Context, userID, assetID string) (*models.Asset, error)
	DeleteAsset(ctx context.Context, userID, assetID string) error
	GetHistory(ctx context.Context, userID, assetID string) (*models.Asset, []*models.PricePoint, error)
}

// ValuationServiceInterface defines the interface for valuation operations
type ValuationServiceInterface interface {
	ValueAt(ctx context.Context, userID string, date time.Time) (*models.PortfolioSnapshot, error)
}

// AnalyticsServiceInterface defines the interface for analytics operations
type AnalyticsServiceInterface interface {
	GetAnalytics(ctx context.Context, userID string, now time.Time) (*models.PortfolioAnalytics, error)
}

// IngestionServiceInterface defines the interface for triggering price ingestion
type IngestionServiceInterface interface {
	RunDailyIngestion(ctx context.Context, now time.Time) (*pricing.IngestionResult, error)
}

// Server represents the HTTP API server.
type Server struct {
	router           *mux.Router
	httpServer       *http.Server
	authService      AuthServiceInterface
	assetService     AssetServiceInterface
	valuationService ValuationServiceInterface
	analyticsService AnalyticsServiceInterface
	ingestionService IngestionServiceInterface
	config           *ServerConfig
	now              func() time.Time
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	RateLimitRPS    float64
	RateLimitBurst  int
}

// NewServer creates a new API server instance.
func NewServer(
	config *ServerConfig,
	authService AuthServiceInterface,
	assetService AssetServiceInterface,
	valuationService ValuationServiceInterface,
	analyticsService AnalyticsServiceInterface,
	ingestionService IngestionServiceInterface,
) *Server {
	s := &Server{
		router:           mux.NewRouter(),
		authService:      authService,
		assetService:     assetService,
		valuationService: valuationService,
		analyticsService: analyticsService,
		ingestionService: ingestionService,
		config:           config,
		now:              time.Now,
	}

	s.setupRouter()

	return s
}

// setupRouter configures the router with middleware and routes
func (s *Server) setupRouter() {
	rateLimiter := NewRateLimiter(s.config.RateLimitRPS, s.config.RateLimitBurst)

	// Middleware order matters
	s.router.Use(LoggingMiddleware)
	s.router.Use(RecoveryMiddleware)
	s.router.Use(CORSMiddleware)

	s.setupRoutes(rateLimiter)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.config.Host, s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes(rateLimiter *RateLimiter) {
	// Health check endpoint
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Public auth endpoints, rate limited by client address
	auth := s.router.PathPrefix("/api/auth").Subrouter()
	auth.Use(RateLimitMiddleware(rateLimiter))
	auth.HandleFunc("/login", s.handleLogin).Methods("POST")

	// Everything else under /api requires a valid session token. Rate
	// limiting runs after auth so each user gets their own bucket.
	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(AuthMiddleware(s.authService))
	api.Use(RateLimitMiddleware(rateLimiter))

	// Asset endpoints
	api.HandleFunc("/assets", s.handleCreateAsset).Methods("POST")
	api.HandleFunc("/assets", s.handleListAssets).Methods("GET")
	api.HandleFunc("/assets/{id}", s.handleGetAsset).Methods("GET")
	api.HandleFunc("/assets/{id}", s.handleDeleteAsset).Methods("DELETE")
	api.HandleFunc("/assets/{id}/history", s.handleGetHistory).Methods("GET")

	// Portfolio endpoints
	api.HandleFunc("/portfolio", s.handleGetPortfolio).Methods("GET")
	api.HandleFunc("/portfolio/analytics", s.handleGetAnalytics).Methods("GET")

	// Admin endpoints
	api.HandleFunc("/admin/prices/update", s.handleUpdatePrices).Methods("POST")
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "token-portfolio",
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	logging.GetGlobalLogger().WithField("addr", s.httpServer.Addr).Info("Starting API server")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.GetGlobalLogger().Info("Shutting down API server")
	return s.httpServer.Shutdown(ctx)
}

// Router exposes the underlying router. Used in tests.
func (s *Server) Router() http.Handler {
	return s.router
}
