package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/armonia-platform/pqr-service/internal/api/http"
	"github.com/armonia-platform/pqr-service/internal/api/http/handlers"
	"github.com/armonia-platform/pqr-service/internal/auth"
	"github.com/armonia-platform/pqr-service/internal/config"
	"github.com/armonia-platform/pqr-service/internal/events"
	"github.com/armonia-platform/pqr-service/internal/notifier"
	"github.com/armonia-platform/pqr-service/internal/observability"
	"github.com/armonia-platform/pqr-service/internal/persistence"
	"github.com/armonia-platform/pqr-service/internal/repository"
	"github.com/armonia-platform/pqr-service/internal/schedule"
	"github.com/armonia-platform/pqr-service/internal/service"
	"github.com/armonia-platform/pqr-service/internal/worker"
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
	pqrRepo := repository.NewPQRRepository(pool)
	historyRepo := repository.NewPQRHistoryRepository(pool)
	ruleRepo := repository.NewAssignmentRuleRepository(pool)
	slaRepo := repository.NewSLARepository(pool)
	logRepo := repository.NewNotificationLogRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	teamRepo := repository.NewTeamRepository(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	markers := persistence.NewMarkerStore(redis, 0)

	slaService := service.NewSLAService(slaRepo, schedule.DefaultCalendar(), cfg.SLA.DefaultResolutionMinutes)
	assignmentService := service.NewAssignmentService(service.AssignmentDependencies{
		RuleRepo:      ruleRepo,
		SLA:           slaService,
		DefaultTeamID: cfg.Assignment.DefaultTeamID,
	})
	pqrService := service.NewPQRService(service.PQRDependencies{
		PQRRepo:     pqrRepo,
		HistoryRepo: historyRepo,
		Assignment:  assignmentService,
		SLA:         slaService,
		Dispatcher:  dispatcher,
		Metrics:     metrics,
	})
	notificationService := service.NewNotificationService(service.NotificationDependencies{
		PQRRepo:    pqrRepo,
		UserRepo:   userRepo,
		LogRepo:    logRepo,
		Dispatcher: dispatcher,
		Sender:     notifier.NewLogNotifier(logger, cfg.Notification),
		Markers:    markers,
		Metrics:    metrics,
		Logger:     logger,
	})
	notificationService.RegisterHandlers()
	adminService := service.NewAdminService(ruleRepo, slaRepo, teamRepo)
	authService := service.NewAuthService(*cfg, userRepo)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	if cfg.Worker.Enabled {
		reminderWorker := worker.NewReminderWorker(cfg.Worker, pqrRepo, slaService, markers, dispatcher, logger)
		go reminderWorker.Run(ctx)
	}

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		PQR:            handlers.NewPQRHandler(pqrService),
		AdminPQR:       handlers.NewAdminPQRHandler(pqrService, notificationService),
		Rules:          handlers.NewRulesHandler(adminService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)
	cancel()

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
