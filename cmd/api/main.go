package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/specialist-marketplace/internal/api/http"
	"github.com/spec-kit/specialist-marketplace/internal/api/http/handlers"
	"github.com/spec-kit/specialist-marketplace/internal/auth"
	"github.com/spec-kit/specialist-marketplace/internal/cache"
	"github.com/spec-kit/specialist-marketplace/internal/config"
	"github.com/spec-kit/specialist-marketplace/internal/events"
	"github.com/spec-kit/specialist-marketplace/internal/observability"
	"github.com/spec-kit/specialist-marketplace/internal/persistence"
	"github.com/spec-kit/specialist-marketplace/internal/repository"
	"github.com/spec-kit/specialist-marketplace/internal/service"
	"github.com/spec-kit/specialist-marketplace/internal/storage"
	"github.com/spec-kit/specialist-marketplace/internal/worker"
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

	store, err := storage.NewS3Store(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Fatal("failed to init object storage", zap.Error(err))
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	feeRepo := repository.NewPlatformFeeRepository(pool)
	specialistRepo := repository.NewSpecialistRepository(pool)
	catalogRepo := repository.NewOfferingMasterRepository(pool)
	offeringRepo := repository.NewServiceOfferingRepository(pool)
	mediaRepo := repository.NewMediaRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartCleanupWorker(dispatcher, store, logger)

	tierCache := cache.NewTierCache(redis.Client, cfg.Redis.TierCacheTTL(), logger)
	tokens := auth.NewTokenManager(cfg.Auth)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		Tokens:     tokens,
		Dispatcher: dispatcher,
	})
	feeService := service.NewPlatformFeeService(feeRepo, tierCache)
	offeringService := service.NewOfferingService(catalogRepo, store, logger)
	specialistService := service.NewSpecialistService(service.SpecialistDependencies{
		SpecialistRepo: specialistRepo,
		OfferingRepo:   offeringRepo,
		CatalogRepo:    catalogRepo,
		MediaRepo:      mediaRepo,
		Fees:           feeService,
		Store:          store,
		Dispatcher:     dispatcher,
	})
	userService := service.NewUserService(userRepo, cfg.Auth.BcryptCost)

	authMiddleware := auth.NewAuthMiddleware(tokens, userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		PlatformFees:   handlers.NewPlatformFeeHandler(feeService),
		Specialists:    handlers.NewSpecialistHandler(specialistService),
		Offerings:      handlers.NewOfferingHandler(offeringService),
		Users:          handlers.NewUserHandler(userService),
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
