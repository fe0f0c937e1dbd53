package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/fanfund/internal/api/http"
	"github.com/spec-kit/fanfund/internal/api/http/handlers"
	"github.com/spec-kit/fanfund/internal/api/validate"
	"github.com/spec-kit/fanfund/internal/auth"
	"github.com/spec-kit/fanfund/internal/config"
	"github.com/spec-kit/fanfund/internal/domain"
	"github.com/spec-kit/fanfund/internal/events"
	"github.com/spec-kit/fanfund/internal/observability"
	"github.com/spec-kit/fanfund/internal/persistence"
	"github.com/spec-kit/fanfund/internal/repository"
	"github.com/spec-kit/fanfund/internal/service"
	"github.com/spec-kit/fanfund/internal/worker"
)

const shutdownTimeout = 10 * time.Second

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
		if err := persistence.RunMigrations(ctx, pg.Pool, cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	pool := pg.Pool
	userRepo := repository.NewUserRepository(pool)
	artistRepo := repository.NewArtistRepository(pool)
	projectRepo := repository.NewProjectRepository(pool)
	investmentRepo := repository.NewInvestmentRepository(pool)
	subscriptionRepo := repository.NewSubscriptionRepository(pool)
	unlockRepo := repository.NewUnlockRequestRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	notifications := worker.StartNotificationWorker(ctx, dispatcher,
		service.NewNotificationService(logger, cfg.Notification), logger)
	defer notifications.Stop()

	revoked := auth.NewRedisRevocationList(redis.Client)
	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:    userRepo,
		AccountRepo: repository.NewAccountRepository(pool),
		Revoked:     revoked,
		Metrics:     metrics,
		Logger:      logger,
	})
	if err := authService.EnsureAdmin(ctx, cfg.Auth.BootstrapAdminEmail, cfg.Auth.BootstrapAdminPassword); err != nil {
		logger.Fatal("failed to bootstrap administrator", zap.Error(err))
	}

	fundingService := service.NewFundingService(service.FundingDependencies{
		ArtistRepo:     artistRepo,
		ProjectRepo:    projectRepo,
		InvestmentRepo: investmentRepo,
		UnlockRepo:     unlockRepo,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
	catalogService := service.NewCatalogService(artistRepo, projectRepo, cfg.Payment.Currency)
	checkoutService := service.NewCheckoutService(artistRepo, subscriptionRepo,
		service.NewStubProcessor(cfg.Payment), dispatcher, logger)
	reviewService := service.NewReviewService(projectRepo, unlockRepo, dispatcher, logger)

	v := validate.New()
	app := fiber.New(fiber.Config{AppName: cfg.App.Name, DisableStartupMessage: true})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		UserAuth:        handlers.NewAuthHandler(authService, v, domain.AudienceUser),
		AdminAuth:       handlers.NewAuthHandler(authService, v, domain.AudienceAdmin),
		Catalog:         handlers.NewCatalogHandler(catalogService, v),
		Funding:         handlers.NewFundingHandler(fundingService, v),
		Subscriptions:   handlers.NewSubscriptionHandler(checkoutService, v),
		Admin:           handlers.NewAdminHandler(reviewService, v),
		UserMiddleware:  auth.NewAuthMiddleware(authService.TokenManager(), userRepo, revoked, domain.AudienceUser, logger),
		AdminMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), userRepo, revoked, domain.AudienceAdmin, logger),
		LoginLimiter:    httptransport.NewRateLimiter(ctx, cfg.RateLimit.LoginPerSecond, cfg.RateLimit.LoginBurst),
		Gatherer:        registry,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
