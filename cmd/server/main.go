package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ovenlab/bakehouse-backend/config"
	"github.com/ovenlab/bakehouse-backend/internal/app/controller"
	"github.com/ovenlab/bakehouse-backend/internal/app/repository"
	"github.com/ovenlab/bakehouse-backend/internal/app/service"
	"github.com/ovenlab/bakehouse-backend/internal/db"
	"github.com/ovenlab/bakehouse-backend/internal/middleware"
	"github.com/ovenlab/bakehouse-backend/internal/router"
	"github.com/ovenlab/bakehouse-backend/internal/scheduler"
	"github.com/ovenlab/bakehouse-backend/internal/storage"
	"github.com/ovenlab/bakehouse-backend/internal/websocket"
	"github.com/ovenlab/bakehouse-backend/pkg/logger"
	"github.com/ovenlab/bakehouse-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting BAKEHOUSE Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Seed baseline content (topics, menus)
	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Redis backs the token blacklist. The server runs without it, logout
	// then degrades to client-side token disposal.
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, token revocation disabled", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()

	// Websocket hub for cart-changed pushes
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	favoriteRepo := repository.NewFavoriteRepository(db.GetDB())
	postRepo := repository.NewPostRepository(db.GetDB())
	topicRepo := repository.NewTopicRepository(db.GetDB())
	bannerRepo := repository.NewBannerRepository(db.GetDB())
	menuRepo := repository.NewMenuRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	productService := service.NewProductService(productRepo)
	cartService := service.NewCartService(cartRepo, productRepo, hub.NotifyCartChanged)
	favoriteService := service.NewFavoriteService(favoriteRepo, productRepo)
	contentService := service.NewContentService(postRepo, topicRepo, bannerRepo, menuRepo)
	orderService := service.NewOrderService(orderRepo, cartRepo, productRepo, db.GetDB(), hub.NotifyCartChanged)
	exportService := service.NewExportService(orderRepo, productRepo)

	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	productController := controller.NewProductController(productService)
	cartController := controller.NewCartController(cartService)
	favoriteController := controller.NewFavoriteController(favoriteService)
	contentController := controller.NewContentController(contentService)
	orderController := controller.NewOrderController(orderService)
	uploadController := controller.NewUploadController(s3Storage)
	exportController := controller.NewExportController(exportService)
	wsController := controller.NewWSController(hub)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Banner display windows
	bannerScheduler := scheduler.NewBannerScheduler(bannerRepo)
	if err := bannerScheduler.Start(); err != nil {
		logger.Error("Failed to start banner scheduler", err)
	}
	defer bannerScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		productController,
		cartController,
		favoriteController,
		contentController,
		orderController,
		uploadController,
		exportController,
		wsController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
