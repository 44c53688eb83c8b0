package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/ticket-tally/helpdesk-service/internal/api/http"
	"github.com/ticket-tally/helpdesk-service/internal/api/http/handlers"
	"github.com/ticket-tally/helpdesk-service/internal/auth"
	"github.com/ticket-tally/helpdesk-service/internal/config"
	"github.com/ticket-tally/helpdesk-service/internal/events"
	"github.com/ticket-tally/helpdesk-service/internal/identifier"
	"github.com/ticket-tally/helpdesk-service/internal/observability"
	"github.com/ticket-tally/helpdesk-service/internal/repository"
	"github.com/ticket-tally/helpdesk-service/internal/service"
	"github.com/ticket-tally/helpdesk-service/internal/store"
	"github.com/ticket-tally/helpdesk-service/internal/worker"
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

	docs, cleanup, err := buildStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to init document store", zap.Error(err))
	}
	defer cleanup()

	ticketRepo := repository.NewTicketRepository(docs)
	projectRepo := repository.NewProjectRepository(docs)
	staffRepo := repository.NewStaffRepository(docs)
	sessionRepo := repository.NewSessionRepository(docs)
	settingsRepo := repository.NewSettingsRepository(docs)

	ids := identifier.NewGenerator()
	dispatcher := events.NewInMemoryDispatcher(logger)

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		IDs:        ids,
		Dispatcher: dispatcher,
	})
	projectService := service.NewProjectService(service.ProjectDependencies{
		ProjectRepo: projectRepo,
		TicketRepo:  ticketRepo,
		SessionRepo: sessionRepo,
		IDs:         ids,
		Dispatcher:  dispatcher,
	})
	staffService := service.NewStaffService(service.StaffDependencies{
		StaffRepo: staffRepo,
	})
	settingsService := service.NewSettingsService(settingsRepo)
	notificationService := service.NewNotificationService(dispatcher, settingsService, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authMiddleware := auth.NewMiddleware(tokens, sessionRepo)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, docs),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Projects:       handlers.NewProjectsHandler(projectService),
		Staff:          handlers.NewStaffHandler(staffService),
		Settings:       handlers.NewSettingsHandler(settingsService),
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

// buildStore selects the document store backend from configuration.
func buildStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (store.DocumentStore, func(), error) {
	switch cfg.Store.Driver {
	case "postgres":
		pg, err := store.NewPostgresStore(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Postgres.RunMigrations {
			if err := store.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
				return nil, nil, err
			}
		}
		return pg, pg.Close, nil
	case "redis":
		rs := store.NewRedisStore(cfg.Redis, logger)
		return rs, rs.Close, nil
	default:
		logger.Info("using in-memory document store", zap.String("driver", cfg.Store.Driver))
		return store.NewMemoryStore(), func() {}, nil
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
