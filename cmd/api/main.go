package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/scholarlift/escalation-service/internal/api/http"
	"github.com/scholarlift/escalation-service/internal/api/http/handlers"
	"github.com/scholarlift/escalation-service/internal/auth"
	"github.com/scholarlift/escalation-service/internal/config"
	"github.com/scholarlift/escalation-service/internal/events"
	"github.com/scholarlift/escalation-service/internal/observability"
	"github.com/scholarlift/escalation-service/internal/persistence"
	"github.com/scholarlift/escalation-service/internal/repository"
	"github.com/scholarlift/escalation-service/internal/service"
	"github.com/scholarlift/escalation-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
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
		if err := persistence.RunMigrations(ctx, pg.Pool, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.Pool
	escalationRepo := repository.NewEscalationRepository(pool, cfg.Postgres.CallTimeout())
	userRepo := repository.NewUserRepository(pool)
	schoolRepo := repository.NewSchoolRepository(pool)
	teamRepo := repository.NewTeamRepository(pool)
	metricsCache := repository.NewRedisMetricsCache(redis.Client, cfg.Dashboard.MetricsCacheTTL())

	dispatcher := events.NewInMemoryDispatcher()

	escalationService := service.NewEscalationService(service.EscalationDependencies{
		EscalationRepo: escalationRepo,
		UserRepo:       userRepo,
		SchoolRepo:     schoolRepo,
		TeamRepo:       teamRepo,
		Dispatcher:     dispatcher,
	})
	queryService := service.NewQueryService(escalationRepo)
	metricsService := service.NewMetricsService(queryService, metricsCache)
	feedService := service.NewFeedService(queryService)
	authService := service.NewAuthService(cfg.Auth, userRepo)
	notificationService := service.NewNotificationService(dispatcher, logger)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	appMetrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, appMetrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Escalations:    handlers.NewEscalationsHandler(escalationService, queryService),
		Dashboard:      handlers.NewDashboardHandler(metricsService, feedService, cfg.Dashboard),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
