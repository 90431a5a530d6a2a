package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/fieldready/locate-service/internal/api/http"
	"github.com/fieldready/locate-service/internal/api/http/handlers"
	"github.com/fieldready/locate-service/internal/auth"
	"github.com/fieldready/locate-service/internal/config"
	"github.com/fieldready/locate-service/internal/events"
	"github.com/fieldready/locate-service/internal/observability"
	"github.com/fieldready/locate-service/internal/persistence"
	"github.com/fieldready/locate-service/internal/repository"
	"github.com/fieldready/locate-service/internal/service"
	"github.com/fieldready/locate-service/internal/worker"
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	responseRepo := repository.NewUtilityResponseRepository(pool)
	crewRepo := repository.NewCrewRepository(pool)
	subRepo := repository.NewSubcontractorRepository(pool)
	accountRepo := repository.NewAccountRepository(pool)
	auditRepo := repository.NewCheckAuditRepository(redis.Client)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	clock := service.SystemClock()

	authService := service.NewAuthService(cfg.Auth, accountRepo)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   ticketRepo,
		ResponseRepo: responseRepo,
		Dispatcher:   dispatcher,
		Clock:        clock,
	})
	ingestService := service.NewIngestService(ticketService, logger)
	rosterService := service.NewRosterService(crewRepo, subRepo)
	readinessService := service.NewReadinessService(service.ReadinessDependencies{
		TicketRepo:   ticketRepo,
		ResponseRepo: responseRepo,
		CrewRepo:     crewRepo,
		SubRepo:      subRepo,
		AuditRepo:    auditRepo,
		Dispatcher:   dispatcher,
		Metrics:      metrics,
		Logger:       logger,
		Clock:        clock,
		AuditTTL:     cfg.Readiness.CheckAuditTTL(),
	})

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	notificationService.RegisterHandlers()

	expirationWorker := worker.NewExpirationWorker(ticketRepo, dispatcher, logger, cfg.Expiration)
	if err := expirationWorker.Start(); err != nil {
		logger.Fatal("failed to start expiration worker", zap.Error(err))
	}
	defer expirationWorker.Stop()

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), accountRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService, ingestService),
		Roster:         handlers.NewRosterHandler(rosterService),
		Readiness:      handlers.NewReadinessHandler(readinessService),
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
