package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/workforce-portal/grievance-service/internal/api/http"
	"github.com/workforce-portal/grievance-service/internal/api/http/handlers"
	"github.com/workforce-portal/grievance-service/internal/auth"
	"github.com/workforce-portal/grievance-service/internal/config"
	"github.com/workforce-portal/grievance-service/internal/events"
	"github.com/workforce-portal/grievance-service/internal/observability"
	"github.com/workforce-portal/grievance-service/internal/persistence"
	"github.com/workforce-portal/grievance-service/internal/repository"
	"github.com/workforce-portal/grievance-service/internal/service"
	"github.com/workforce-portal/grievance-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	mongo, err := persistence.NewMongo(ctx, cfg.Mongo, logger)
	if err != nil {
		logger.Fatal("failed to connect mongo", zap.Error(err))
	}
	defer mongo.Close()

	grievanceColl := mongo.Collection(cfg.Mongo.GrievanceCollection)
	if cfg.Mongo.EnsureIndexes {
		if err := repository.EnsureGrievanceIndexes(ctx, grievanceColl); err != nil {
			logger.Fatal("failed to ensure grievance indexes", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	validate := validator.New()
	dispatcher := events.NewInMemoryDispatcher()

	notifier := worker.NewNotificationWorker(redis, logger, cfg.Notification.QueueSize, cfg.Notification.PublishTimeout())
	workerCtx, stopWorker := context.WithCancel(ctx)
	defer stopWorker()
	notifier.Start(workerCtx)

	notifications := service.NewNotificationService(dispatcher, notifier, logger, cfg.Notification)
	notifications.RegisterHandlers()

	userRepo := repository.NewUserRepository(pg.PoolHandle())
	grievanceRepo := repository.NewGrievanceRepository(grievanceColl)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:  userRepo,
		Validator: validate,
		Logger:    logger,
	})
	grievanceService := service.NewGrievanceService(service.GrievanceDependencies{
		GrievanceRepo: grievanceRepo,
		Dispatcher:    dispatcher,
		Metrics:       metrics,
		Validator:     validate,
		Logger:        logger,
	})
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
		"postgres": pg,
		"mongo":    mongo,
		"redis":    redis,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         healthHandler,
		Users:          handlers.NewUsersHandler(authService),
		Grievances:     handlers.NewGrievancesHandler(grievanceService),
		Metrics:        metrics,
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
	stopWorker()
	notifier.Wait()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
