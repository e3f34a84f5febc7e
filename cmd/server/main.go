// Package main provides the API server entry point for the token portfolio service.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"github.com/token-portfolio/internal/api"
	"github.com/token-portfolio/internal/config"
	"github.com/token-portfolio/internal/logging"
	"github.com/token-portfolio/internal/pricing"
	"github.com/token-portfolio/internal/service"
	"github.com/token-portfolio/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logging
	logLevel := logging.ParseLogLevel(cfg.Logging.Level)
	logFormat := logging.ParseLogFormat(cfg.Logging.Format)
	logging.InitGlobalLogger(logLevel, logFormat)

	logger := logging.GetGlobalLogger()
	logger.WithFields(map[string]interface{}{
		"level":  cfg.Logging.Level,
		"format": cfg.Logging.Format,
	}).Info("Structured logging initialized")

	// Connect to Postgres
	postgres, err := storage.NewPostgresDB(&cfg.Database.Postgres)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Postgres")
	}
	defer postgres.Close()

	// Connect to Redis
	redis, err := storage.NewRedisCache(&cfg.Database.Redis)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redis.Close()

	logger.Info("Database connections established")

	// Initialize repositories
	userRepo := storage.NewUserRepository(postgres)
	assetRepo := storage.NewAssetRepository(postgres)
	priceRepo := storage.NewPriceRepository(postgres)

	// Initialize cache service
	cacheService := storage.NewCacheService(redis, cfg.Cache.TTL)

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, logger)
	assetService := service.NewAssetService(assetRepo, priceRepo, cacheService, logger)
	valuationService := service.NewValuationService(assetRepo, priceRepo, cacheService, logger)
	analyticsService := service.NewAnalyticsService(valuationService, priceRepo, cacheService, cfg.Prices.QueryTimeout, logger)

	// Initialize the price ingestion pipeline
	seed := cfg.Prices.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	priceSource := pricing.NewStaticPriceSource(decimal.NewFromFloat(cfg.Prices.DefaultBasePrice))
	perturbator := pricing.NewRandomPerturbator(seed, cfg.Prices.PerturbationSpread)
	ingestionService := pricing.NewIngestionService(assetRepo, priceRepo, priceSource, perturbator, cacheService, logger)

	scheduler := pricing.NewScheduler(ingestionService, logger)
	if err := scheduler.Start(context.Background()); err != nil {
		logger.WithError(err).Fatal("Failed to start ingestion scheduler")
	}
	defer scheduler.Stop()

	logger.Info("Services initialized")

	// Create server configuration
	serverConfig := &api.ServerConfig{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		RateLimitRPS:    float64(cfg.RateLimit.RequestsPerSecond),
		RateLimitBurst:  cfg.RateLimit.Burst,
	}

	server := api.NewServer(serverConfig, authService, assetService, valuationService, analyticsService, ingestionService)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	logger.WithFields(map[string]interface{}{
		"host": cfg.Server.Host,
		"port": cfg.Server.Port,
	}).Info("Server started successfully")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), serverConfig.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Info("Server exited")
}
