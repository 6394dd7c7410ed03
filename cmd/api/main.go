package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/platefeed/backend/config"
	"github.com/platefeed/backend/internal/api"
	"github.com/platefeed/backend/internal/database"
	"github.com/platefeed/backend/internal/middleware"
	"github.com/platefeed/backend/internal/router"
	"github.com/platefeed/backend/internal/server"
	"github.com/platefeed/backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Connect(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	// Rate limiting runs only when Redis is configured.
	var limiter *middleware.RateLimiter
	if cfg.RedisAddr() != "" {
		redisClient, err := database.NewRedisClient(cfg, logger)
		if err != nil {
			logger.Fatal("failed to connect to Redis", zap.Error(err))
		}
		limiter = middleware.NewRecipeCreationRateLimiter(redisClient)
	}

	imageStore, err := newImageStore(cfg)
	if err != nil {
		logger.Fatal("failed to configure image storage", zap.Error(err))
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	catalogService := service.NewCatalogService(db)
	recipeService := service.NewRecipeService(db)
	relationService := service.NewRelationService(db)
	subscriptionService := service.NewSubscriptionService(db)
	shoppingListService := service.NewShoppingListService(db)
	renderer := service.NewPDFRenderer(cfg.PDFFontPath)
	imageService := service.NewImageService(imageStore)

	engine := router.Setup(cfg, logger,
		api.NewUserHandler(authService, subscriptionService, recipeService, cfg.PageSize),
		api.NewTagHandler(catalogService),
		api.NewIngredientHandler(catalogService, authService),
		api.NewRecipeHandler(recipeService, relationService, subscriptionService,
			shoppingListService, renderer, imageService, authService, limiter, cfg.PageSize),
	)

	srv := server.New(cfg.Addr(), engine, logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	case sig := <-quit:
		logger.Info("received signal", zap.String("signal", sig.String()))
	}

	logger.Info("shutting down server")
	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Fatal("server shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newImageStore(cfg *config.Config) (service.ImageStore, error) {
	if cfg.S3Bucket == "" {
		return service.NewLocalImageStore(cfg.MediaDir, cfg.MediaBaseURL), nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, err
	}
	return service.NewS3ImageStore(s3.NewFromConfig(awsCfg), cfg.S3Bucket), nil
}
