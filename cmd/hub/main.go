package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/saihakukei971/Discord-X-Support-Hub/internal/api/http"
	"github.com/saihakukei971/Discord-X-Support-Hub/internal/api/http/handlers"
	"github.com/saihakukei971/Discord-X-Support-Hub/internal/auth"
	"github.com/saihakukei971/Discord-X-Support-Hub/internal/chat"
	"github.com/saihakukei971/Discord-X-Support-Hub/internal/config"
	"github.com/saihakukei971/Discord-X-Support-Hub/internal/events"
	"github.com/saihakukei971/Discord-X-Support-Hub/internal/observability"
	"github.com/saihakukei971/Discord-X-Support-Hub/internal/persistence"
	"github.com/saihakukei971/Discord-X-Support-Hub/internal/repository"
	"github.com/saihakukei971/Discord-X-Support-Hub/internal/service"
	"github.com/saihakukei971/Discord-X-Support-Hub/internal/triage"
	"github.com/saihakukei971/Discord-X-Support-Hub/internal/worker"
	"github.com/saihakukei971/Discord-X-Support-Hub/internal/xclient"
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

	metrics := observability.NewMetrics()

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	templateRepo := repository.NewTemplateRepository(pool)
	statsRepo := repository.NewStatsRepository(pool)
	staffRepo := repository.NewStaffRepository(pool)

	xClient := xclient.NewClient(cfg.X, logger)
	chatNotifier := chat.NewNotifier(cfg.Chat, logger)
	dispatcher := events.NewInMemoryDispatcher(logger)

	classifier := triage.NewClassifier(triage.ClassifierConfig{
		KeywordsPath: cfg.Classifier.KeywordsPath,
	}, logger)
	pipeline := triage.NewPipeline(classifier, xClient, logger, nil)

	templateCache := service.NewRedisTemplateCache(redis.Handle(), logger)
	templateService := service.NewTemplateService(
		templateRepo, templateCache, cfg.Support, cfg.Poller.TemplateCacheTTL(), logger)
	statsService := service.NewStatsService(ticketRepo, statsRepo, logger, nil)
	lifecycleService := service.NewLifecycleService(service.LifecycleDependencies{
		TicketRepo: ticketRepo,
		Dispatcher: dispatcher,
		Replier:    xClient,
		Logger:     logger,
	})
	authService := service.NewAuthService(*cfg, staffRepo)

	notificationService := service.NewNotificationService(dispatcher, chatNotifier, logger)
	notificationService.RegisterHandlers()

	poller := worker.NewPoller(worker.PollerDependencies{
		Source:     xClient,
		Pipeline:   pipeline,
		Store:      ticketRepo,
		Stats:      statsService,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
		Interval:   cfg.Poller.Interval(),
	})
	go poller.Run(ctx)

	scheduler := worker.NewScheduler(statsService, classifier, logger)
	scheduler.Start()
	defer scheduler.Stop()

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), staffRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Staff:          handlers.NewStaffHandler(authService),
		Tickets:        handlers.NewTicketsHandler(lifecycleService, templateService, statsService),
		Templates:      handlers.NewTemplatesHandler(templateService, lifecycleService),
		Stats:          handlers.NewStatsHandler(statsService),
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
