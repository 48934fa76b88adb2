package main

import (
	"context"
	"easyShop/app/echo-server/metrics"
	"easyShop/app/echo-server/router"
	"easyShop/business/cart"
	"easyShop/business/category"
	"easyShop/business/orders"
	"easyShop/business/product"
	"easyShop/business/profile"
	"easyShop/internal/middleware"
	"easyShop/internal/repository/kafka"
	"easyShop/internal/repository/notification"
	"easyShop/internal/rest"
	"easyShop/pkg/config"
	"easyShop/pkg/database"
	"easyShop/pkg/logger"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	userService "easyShop/business/user"
	psqlRepo "easyShop/internal/repository/postgres"
	redisRepo "easyShop/internal/repository/redis"
	redisDB "easyShop/pkg/database/redis"
	shopMetrics "easyShop/pkg/metrics"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting EasyShop", "version", cfg.App.Version)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer database.ClosePostgres(db)

	logger.Info("Database connected successfully")

	if cfg.Database.RunMigrations {
		if err := database.Migrate(db); err != nil {
			logger.Fatal("Failed to run migrations", "error", err)
		}
	}

	redisClient, err := redisDB.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to redis", "error", err)
	}
	defer redisDB.CloseRedisClient(redisClient)

	metrics.Init()
	shopMetrics.Init()

	// Init validate
	validate := validator.New()

	// Init repo
	transactor := psqlRepo.NewTransactor(db)
	userRepo := psqlRepo.NewUserRepository(db)
	profileRepo := psqlRepo.NewProfileRepository(db)
	productsRepo := psqlRepo.NewProductRepository(db)
	categoryRepo := psqlRepo.NewCategoryRepository(db)
	cartRepo := psqlRepo.NewShoppingCartRepository(db)
	ordersRepo := psqlRepo.NewOrdersRepository(db)
	tokenRepo := redisRepo.NewTokenRepository(redisClient)
	checkoutLock := redisRepo.NewCheckoutLock(redisClient, cfg.Redis.CheckoutLockTTL)

	// Init service
	userService := userService.NewUserService(userRepo, profileRepo, tokenRepo, transactor, validate, cfg.JWT.SecretKey, cfg.JWT.TTL)
	ordersService := orders.NewOrdersService(userService, cartRepo, ordersRepo, profileRepo, transactor).
		WithLocker(checkoutLock)
	cartService := cart.NewCartService(userService, cartRepo, productsRepo)
	profileService := profile.NewProfileService(userService, profileRepo)
	productService := product.NewProductService(productsRepo)
	categoryService := category.NewCategoryService(categoryRepo)

	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafka.NewSyncProducer(cfg.Kafka.Brokers)
		if err != nil {
			logger.Fatal("Failed to connect to kafka", "error", err)
		}
		publisher := kafka.NewOrderEventPublisher(producer, cfg.Kafka.OrderTopic)
		defer publisher.Close()

		ordersService.WithPublisher(publisher)
		logger.Info("Kafka producer connected", "topic", cfg.Kafka.OrderTopic)
	}

	// Init notification from mailjet
	if cfg.MailjetEnabled() {
		mailjetEmail := notification.NewMailjetRepository(
			notification.MailjetConfig{
				MailjetBaseURL:           cfg.Mailjet.MailjetBaseUrl,
				MailjetBasicAuthUsername: cfg.Mailjet.MailjetBasicAuthUsername,
				MailjetBasicAuthPassword: cfg.Mailjet.MailjetBasicAuthPassword,
				MailjetSenderEmail:       cfg.Mailjet.MailjetSenderEmail,
				MailjetSenderName:        cfg.Mailjet.MailjetSenderName,
			},
		)
		ordersService.WithNotifier(mailjetEmail)
	}

	// Init handler
	userHandler := rest.NewUserHandler(userService, cfg.Server.RequestTimeout)
	ordersHandler := rest.NewOrdersHandler(ordersService, cfg.Server.RequestTimeout)
	cartHandler := rest.NewCartHandler(cartService, cfg.Server.RequestTimeout)
	profileHandler := rest.NewProfileHandler(profileService, cfg.Server.RequestTimeout)
	productHandler := rest.NewProductHandler(productService, cfg.Server.RequestTimeout)
	categoryHandler := rest.NewCategoryHandler(categoryService, cfg.Server.RequestTimeout)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(metrics.Middleware())

	// Auth middleware
	authRequired := middleware.AuthMiddlewareWithRedis(cfg.JWT.SecretKey, userService)

	// Setup routes
	api := e.Group("")
	router.SetupUserRoutes(api, userHandler, authRequired)
	router.SetupProductRoutes(api, productHandler)
	router.SetupCategoryRoutes(api, categoryHandler)
	router.SetupCartRoutes(api, cartHandler, authRequired)
	router.SetOrdersRoutes(api, ordersHandler, authRequired)
	router.SetProfileRoutes(api, profileHandler, authRequired)
	router.SetOpsRoutes(e)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
