// cmd/api/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marcello-store/storefront-backend/internal/config"
	"github.com/marcello-store/storefront-backend/internal/infrastructure/database/postgres"
	"github.com/marcello-store/storefront-backend/internal/infrastructure/database/redis"
	"github.com/marcello-store/storefront-backend/internal/interfaces/http"
	"github.com/marcello-store/storefront-backend/internal/interfaces/http/middleware"
	"github.com/marcello-store/storefront-backend/internal/persistence"
	"github.com/marcello-store/storefront-backend/internal/pkg/auth"
	"github.com/marcello-store/storefront-backend/internal/session"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := middleware.NewLogrus(cfg)
	logger.Infof("Starting %s v%s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	// Connect to database
	db, err := postgres.NewConnection(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Connect to Redis
	redisClient, err := redis.NewConnection(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Health check
	if err := db.Health(); err != nil {
		log.Fatalf("Database health check failed: %v", err)
	}

	if err := redisClient.Health(); err != nil {
		log.Fatalf("Redis health check failed: %v", err)
	}

	// Run database migrations
	migration := postgres.NewMigration(db.GetDB())
	if err := migration.RunAutoMigrations(); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}

	// Persistence adapters: Redis holds the per-session (guest) snapshots,
	// Postgres holds the per-user records.
	cartLocal := persistence.NewLocalCartStore(redisClient.GetClient(), cfg.Session.GuestTTL, logger)
	favoritesLocal := persistence.NewLocalFavoritesStore(redisClient.GetClient(), cfg.Session.GuestTTL, logger)
	recentStore := persistence.NewRecentStore(redisClient.GetClient(), cfg.Session.GuestTTL, logger)
	cartRemote := persistence.NewRemoteCartStore(db.GetDB(), logger)
	favoritesRemote := persistence.NewRemoteFavoritesStore(db.GetDB(), logger)

	// Per-session credential slots back the auth bridge.
	rings := auth.NewRegistry(auth.NewJWTManager(cfg))

	manager := session.NewManager(session.ManagerDeps{
		CartLocal:       cartLocal,
		CartRemote:      cartRemote,
		FavoritesLocal:  favoritesLocal,
		FavoritesRemote: favoritesRemote,
		Recent:          recentStore,
		BridgeFor:       func(sessionID string) session.AuthBridge { return rings.For(sessionID) },
		Window:          cfg.Session.DebounceWindow,
		IdleTTL:         cfg.Session.IdleTTL,
		Logger:          logger,
	})
	defer manager.Close()

	// Create and start HTTP server
	server := http.NewServer(cfg, http.Deps{
		DB:              db.GetDB(),
		RedisClient:     redisClient.GetClient(),
		Logger:          logger,
		Manager:         manager,
		Rings:           rings,
		CartRemote:      cartRemote,
		FavoritesRemote: favoritesRemote,
	})

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down gracefully")

	// Give server 30 seconds to shutdown gracefully
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		logger.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}

	logger.Info("Server shutdown completed")
}
