package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/complaint-service/internal/api/http"
	"github.com/spec-kit/complaint-service/internal/api/http/handlers"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/conversation"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/observability"
	"github.com/spec-kit/complaint-service/internal/persistence"
	"github.com/spec-kit/complaint-service/internal/repository"
	"github.com/spec-kit/complaint-service/internal/routing"
	"github.com/spec-kit/complaint-service/internal/service"
	"github.com/spec-kit/complaint-service/internal/whatsapp"
	"github.com/spec-kit/complaint-service/internal/worker"
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

	catalog := conversation.NewCatalog()
	if err := catalog.Validate(); err != nil {
		logger.Fatal("template catalog incomplete", zap.Error(err))
	}

	rules, err := routing.LoadRules(cfg.Conversation.RulesPath)
	if err != nil {
		logger.Fatal("failed to load routing rules", zap.Error(err))
	}

	pool := pg.PoolHandle()
	sessionRepo := repository.NewSessionRepository(redis.Client, cfg.Conversation.SessionTTL())
	customerRepo := repository.NewCustomerRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	technicianRepo := repository.NewTechnicianRepository(pool)
	historyRepo := repository.NewStatusHistoryRepository(pool)
	staffRepo := repository.NewStaffRepository(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	waClient := whatsapp.NewClient(cfg.WhatsApp)

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:     ticketRepo,
		TechnicianRepo: technicianRepo,
		HistoryRepo:    historyRepo,
		Router:         routing.NewRouter(rules),
		Dispatcher:     dispatcher,
	})
	workflowService := service.NewWorkflowService(service.WorkflowDependencies{
		SessionRepo:  sessionRepo,
		CustomerRepo: customerRepo,
		MessageRepo:  messageRepo,
		Tickets:      ticketService,
		Classifier:   conversation.NewClassifier(cfg.Conversation.PhotoOverText),
		Machine:      conversation.NewMachine(),
		Catalog:      catalog,
		Metrics:      metrics,
		Logger:       logger,
	})
	authService := service.NewAuthService(cfg.Auth, staffRepo)
	notificationService := service.NewNotificationService(dispatcher, waClient, customerRepo, catalog, logger)

	worker.StartNotificationWorker(notificationService)
	if cfg.Reminder.Enabled {
		reminder := worker.NewReminderWorker(cfg.Reminder, ticketRepo, dispatcher, logger)
		go reminder.Run(ctx)
	}

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), staffRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Webhook:        handlers.NewWebhookHandler(workflowService, waClient, cfg.WhatsApp, logger),
		Chat:           handlers.NewChatHandler(workflowService),
		Tickets:        handlers.NewTicketsHandler(ticketService, waClient, metrics, cfg.Reminder.Overdue()),
		Staff:          handlers.NewStaffHandler(authService),
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
