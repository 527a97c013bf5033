package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"trek/internal/app"
	"trek/internal/config"
	"trek/internal/handler"
	"trek/internal/identity"
	internalRedis "trek/internal/redis"
	"trek/internal/repository/postgres"
	"trek/internal/service"
)

func main() {
	// .env is optional outside development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Log.Level}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			logger.Warn("failed to initialize New Relic", slog.Any("error", err))
		} else {
			logger.Info("New Relic enabled", slog.String("app", cfg.NewRelic.AppName))
		}
	}

	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("connected to PostgreSQL")

	if cfg.Database.AutoMigrate {
		if err := app.Migrate(ctx, db, logger); err != nil {
			logger.Error("failed to migrate database", slog.Any("error", err))
			os.Exit(1)
		}
	}

	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		logger.Error("failed to connect to redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer redisClient.Close()
	logger.Info("connected to Redis")

	runCtx, stop := context.WithCancel(context.Background())
	defer stop()

	server, sweeper := wireServer(db, redisClient, nrApp, logger, cfg)

	if cfg.Sweeper.Enabled {
		go sweeper.Run(runCtx)
		logger.Info("completion sweeper started", slog.Duration("interval", cfg.Sweeper.Interval))
	}

	go func() {
		logger.Info("starting server", slog.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")
	stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", slog.Any("error", err))
	}
	nrApp.Shutdown(5 * time.Second)

	logger.Info("server exited")
}

// wireServer wires all dependencies and returns the HTTP server and the
// completion sweeper.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, logger *slog.Logger, cfg *config.Config) (*http.Server, *service.CompletionSweeper) {
	lockStore := internalRedis.NewLockStore(redisClient)
	events := service.NewFallbackPublisher(
		internalRedis.NewEventStream(redisClient, cfg.Events.Stream, cfg.Events.MaxLength),
		service.NewLogEventPublisher(logger),
	)

	store := postgres.NewStore(db)
	opts := []service.Option{service.WithLogger(logger), service.WithEvents(events)}

	tripService := service.NewTripService(store, opts...)
	registrationService := service.NewRegistrationService(store, opts...)
	porterService := service.NewPorterService(store, opts...)
	reviewService := service.NewReviewService(store, opts...)
	projectionService := service.NewProjectionService(store, opts...)

	sweeper := service.NewCompletionSweeper(tripService, lockStore, nrApp, cfg.Sweeper.Interval)

	router := app.NewRouter(app.RouterDeps{
		TripHandler:         handler.NewTripHandler(tripService, projectionService),
		RegistrationHandler: handler.NewRegistrationHandler(registrationService),
		ReviewHandler:       handler.NewReviewHandler(reviewService),
		PorterHandler:       handler.NewPorterHandler(porterService),
		ViewHandler:         handler.NewViewHandler(projectionService),
		Verifier:            identity.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer),
		Porters:             porterService,
		RedisClient:         redisClient,
		NewRelicApp:         nrApp,
		Logger:              logger,
		AllowedOrigins:      cfg.Server.AllowedOrigins,
	})

	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, sweeper
}
