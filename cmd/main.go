package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/tournament-brackets/brackets"
	"github.com/Dosada05/tournament-brackets/config"
	"github.com/Dosada05/tournament-brackets/db"
	_ "github.com/Dosada05/tournament-brackets/docs"
	"github.com/Dosada05/tournament-brackets/handlers"
	"github.com/Dosada05/tournament-brackets/metrics"
	"github.com/Dosada05/tournament-brackets/middleware"
	"github.com/Dosada05/tournament-brackets/repositories"
	api "github.com/Dosada05/tournament-brackets/routes"
	"github.com/Dosada05/tournament-brackets/services"
	"github.com/Dosada05/tournament-brackets/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/time/rate"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.String("store", string(cfg.StoreDriver)),
		slog.Bool("auto_advance_byes", cfg.AutoAdvanceByes))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		tournamentRepo  repositories.TournamentRepository
		participantRepo repositories.ParticipantRepository
	)
	switch cfg.StoreDriver {
	case config.StoreMemory:
		store := repositories.NewMemoryStore()
		tournamentRepo, participantRepo = store.Tournaments(), store.Participants()
		logger.Warn("using in-memory store, brackets are lost on restart")
	default:
		dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second, logger)
		if err != nil {
			logger.Error("failed to connect to database", slog.Any("error", err))
			os.Exit(1)
		}
		defer closeDB(dbConn, logger)

		if err := db.Migrate(ctx, dbConn); err != nil {
			logger.Error("failed to migrate database schema", slog.Any("error", err))
			os.Exit(1)
		}
		tournamentRepo = repositories.NewPostgresTournamentRepository(dbConn)
		participantRepo = repositories.NewPostgresParticipantRepository(dbConn)
	}
	logger.Info("repositories initialized")

	var archive storage.BracketArchive = storage.NopArchive{}
	r2Cfg := storage.CloudflareR2Config{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	}
	if r2Cfg.Configured() {
		archive, err = storage.NewCloudflareR2Archive(ctx, r2Cfg)
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 archive", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 archive initialized", slog.String("bucket", cfg.R2BucketName))
	} else {
		logger.Info("Cloudflare R2 not configured, completed brackets will not be archived")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	wsHub := brackets.NewHub(logger)
	go wsHub.Run(ctx)
	logger.Info("WebSocket hub started")

	bracketService := services.NewBracketService(
		tournamentRepo,
		participantRepo,
		wsHub,
		archive,
		appMetrics,
		logger,
		services.Config{
			AutoAdvanceByes: cfg.AutoAdvanceByes,
			MaxWriteRetries: cfg.MaxWriteRetries,
		},
	)
	logger.Info("services initialized")

	var resultLimiter *middleware.IPRateLimiter
	if cfg.ResultRateLimit > 0 {
		resultLimiter = middleware.NewIPRateLimiter(rate.Limit(cfg.ResultRateLimit), cfg.ResultRateBurst)
	}

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		api.Options{
			JWTSecret:          []byte(cfg.JWTSecretKey),
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
			ResultLimiter:      resultLimiter,
			MetricsHandler:     metrics.Handler(registry),
		},
		handlers.NewTournamentHandler(bracketService),
		handlers.NewParticipantHandler(bracketService),
		handlers.NewMatchHandler(bracketService),
		handlers.NewWebSocketHandler(wsHub, bracketService, cfg.CORSAllowedOrigins, logger),
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
		} else {
			logger.Info("server shutdown complete")
		}
	}
	logger.Info("application exited")
}

func closeDB(dbConn *sql.DB, logger *slog.Logger) {
	if err := dbConn.Close(); err != nil {
		logger.Error("failed to close database connection", slog.Any("error", err))
		return
	}
	logger.Info("database connection closed")
}
