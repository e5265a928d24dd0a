// Command lyceum-api serves the AI Coding Lyceum gamification API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ailyceum/lyceum-backend/internal/api/dashboard"
	"github.com/ailyceum/lyceum-backend/internal/cache"
	"github.com/ailyceum/lyceum-backend/internal/config"
	"github.com/ailyceum/lyceum-backend/internal/repository"
	"github.com/ailyceum/lyceum-backend/internal/service/gamification"
	"github.com/ailyceum/lyceum-backend/internal/service/leaderboard"
	"github.com/ailyceum/lyceum-backend/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)

	db, err := repository.NewDB(&cfg.Database.Postgres, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}()

	if err := db.AutoMigrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisCache, err := cache.NewRedisCache(ctx, &cfg.Database.Redis, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := redisCache.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close redis connection")
		}
	}()

	pointRepo := repository.NewPointRepository(db)
	badgeRepo := repository.NewBadgeRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	gamificationService := gamification.NewService(db, pointRepo, badgeRepo, statsRepo, log)
	if cfg.Gamification.CatalogPath != "" {
		catalog, err := gamification.LoadCatalog(cfg.Gamification.CatalogPath)
		if err != nil {
			return err
		}
		gamificationService.WithCatalog(catalog)
		log.Info().
			Str("path", cfg.Gamification.CatalogPath).
			Int("badges", len(catalog)).
			Msg("Loaded badge catalog override")
	}
	if err := gamificationService.SeedBadges(ctx); err != nil {
		return fmt.Errorf("failed to seed badge catalog: %w", err)
	}

	leaderboardService := leaderboard.NewService(pointRepo, redisCache, cfg.Gamification.LeaderboardTTL(), log)
	gamificationService.OnAward(func(ctx context.Context, _ uint) {
		leaderboardService.Invalidate(ctx)
	})

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	handler := dashboard.NewHandler(gamificationService, leaderboardService, log)
	handler.RegisterRoutes(router)

	router.GET("/healthz", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down cleanly: %w", err)
	}
	return nil
}
