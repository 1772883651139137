package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/Bhavikk35/SERVICES-MARKETPLACES/api/swagger"
	"github.com/Bhavikk35/SERVICES-MARKETPLACES/internal/handler"
	"github.com/Bhavikk35/SERVICES-MARKETPLACES/internal/middleware"
	"github.com/Bhavikk35/SERVICES-MARKETPLACES/internal/repository"
	"github.com/Bhavikk35/SERVICES-MARKETPLACES/internal/service"
	"github.com/Bhavikk35/SERVICES-MARKETPLACES/pkg/cache"
	"github.com/Bhavikk35/SERVICES-MARKETPLACES/pkg/config"
	"github.com/Bhavikk35/SERVICES-MARKETPLACES/pkg/database"
	"github.com/Bhavikk35/SERVICES-MARKETPLACES/pkg/logger"
	corsmiddleware "github.com/Bhavikk35/SERVICES-MARKETPLACES/pkg/middleware/cors"
	reqidmiddleware "github.com/Bhavikk35/SERVICES-MARKETPLACES/pkg/middleware/requestid"
)

// @title Services Marketplace API
// @version 1.0.0
// @description Booking and marketplace backend for service providers
// @BasePath /api
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	bootstrapCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := repository.EnsureSchema(bootstrapCtx, db); err != nil {
		logr.Sugar().Fatalw("failed to bootstrap schema", "error", err)
	}

	var redisClient *redis.Client
	if cfg.Directory.CacheEnabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, directory cache disabled", "error", err)
			redisClient = nil
		}
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	providerRepo := repository.NewProviderRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	calendarRepo := repository.NewCalendarRepository(db)

	var cacheRepo *repository.CacheRepository
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
	}

	authCfg := service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	}

	var authSvc *service.AuthService
	var providerSvc *service.ProviderService
	if cacheRepo != nil {
		authSvc = service.NewAuthService(userRepo, cacheRepo, validate, logr, authCfg)
		providerSvc = service.NewProviderService(providerRepo, cacheRepo, metricsSvc, validate, logr,
			cfg.Directory.CacheTTL, cfg.Directory.CacheEnabled)
	} else {
		authSvc = service.NewAuthService(userRepo, nil, validate, logr, authCfg)
		providerSvc = service.NewProviderService(providerRepo, nil, metricsSvc, validate, logr,
			cfg.Directory.CacheTTL, false)
	}
	messageSvc := service.NewMessageService(messageRepo, validate, logr)
	availabilitySvc := service.NewAvailabilityService(availabilityRepo, validate, logr)
	bookingSvc := service.NewBookingService(calendarRepo, metricsSvc, validate, logr)
	exportSvc := service.NewExportService(calendarRepo, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	providerHandler := handler.NewProviderHandler(providerSvc)
	messageHandler := handler.NewMessageHandler(messageSvc)
	availabilityHandler := handler.NewAvailabilityHandler(availabilitySvc)
	calendarHandler := handler.NewCalendarHandler(bookingSvc, exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)
		api.POST("/auth/refresh", authHandler.Refresh)

		api.GET("/providers/:serviceType", providerHandler.ListByServiceType)
		api.GET("/portfolio/:providerId", providerHandler.ListPortfolio)
		api.GET("/availability/:providerId", availabilityHandler.List)

		authed := api.Group("")
		authed.Use(middleware.JWT(authSvc))
		{
			authed.POST("/auth/logout", authHandler.Logout)
			authed.GET("/auth/me", authHandler.Me)

			authed.POST("/portfolio", providerHandler.AddPortfolioImage)

			authed.POST("/messages", messageHandler.Send)
			authed.GET("/messages/:otherUserId", messageHandler.Conversation)

			authed.POST("/availability", availabilityHandler.Replace)

			authed.GET("/calendar/:providerId", calendarHandler.ListEvents)
			authed.GET("/calendar/:providerId/export", calendarHandler.Export)
			authed.POST("/calendar", calendarHandler.CreateSlot)
			authed.POST("/calendar/book/:eventId", calendarHandler.Book)
			authed.POST("/calendar/cancel/:eventId", calendarHandler.Cancel)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
