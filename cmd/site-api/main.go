package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	_ "github.com/avenues-school/site-api/api/swagger"
	"github.com/avenues-school/site-api/internal/handler"
	"github.com/avenues-school/site-api/internal/middleware"
	"github.com/avenues-school/site-api/internal/repository"
	"github.com/avenues-school/site-api/internal/service"
	"github.com/avenues-school/site-api/pkg/cache"
	"github.com/avenues-school/site-api/pkg/config"
	"github.com/avenues-school/site-api/pkg/database"
	"github.com/avenues-school/site-api/pkg/logger"
	"github.com/avenues-school/site-api/pkg/media"
	corsmiddleware "github.com/avenues-school/site-api/pkg/middleware/cors"
	reqidmiddleware "github.com/avenues-school/site-api/pkg/middleware/requestid"
)

// @title Avenues Site API
// @version 1.0.0
// @description Public website and back-office API for Avenues The Global School
// @BasePath /api/v1
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

	db, closeDB, err := database.NewMongo(cfg.Mongo)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to mongodb", "error", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = closeDB(ctx)
	}()

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	var cacheRepo *repository.CacheRepository
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, serving feeds uncached", "error", err)
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}
	var cacheSvc *service.CacheService
	if cacheRepo != nil {
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, true)
	}

	uploader := media.NewUploader(cfg.Media)

	admissionRepo := repository.NewAdmissionRepository(db)
	noticeRepo := repository.NewNoticeRepository(db)
	eventRepo := repository.NewEventRepository(db)
	alertRepo := repository.NewAlertRepository(db)

	admissionSvc := service.NewAdmissionService(admissionRepo, logr)
	exportSvc := service.NewExportService(admissionSvc, nil, nil, logr)
	noticeSvc := service.NewNoticeService(noticeRepo, uploader, cacheSvc, metricsSvc, logr)
	eventSvc := service.NewEventService(eventRepo, cacheSvc, logr)
	alertSvc := service.NewAlertService(alertRepo, cacheSvc, logr)
	authSvc := service.NewAuthService(validate, logr, service.AuthConfig{
		AdminEmail:        cfg.Admin.Email,
		AdminPasswordHash: cfg.Admin.PasswordHash,
		TokenSecret:       cfg.JWT.Secret,
		TokenExpiry:       cfg.JWT.Expiration,
	})

	admissionHandler := handler.NewAdmissionHandler(admissionSvc, exportSvc)
	noticeHandler := handler.NewNoticeHandler(noticeSvc)
	eventHandler := handler.NewEventHandler(eventSvc)
	alertHandler := handler.NewAlertHandler(alertSvc)
	authHandler := handler.NewAuthHandler(authSvc)
	streamHandler := handler.NewStreamHandler(eventSvc, metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.Client().Ping(ctx, readpref.Primary()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/auth/login", authHandler.Login)

		api.POST("/admissions", admissionHandler.Submit)
		api.POST("/admissions/validate", admissionHandler.CheckForm)

		api.GET("/notices", noticeHandler.List)

		api.GET("/events", eventHandler.Feed)
		api.GET("/events/upcoming", eventHandler.Upcoming)
		api.GET("/events/stream", streamHandler.Stream)
		api.GET("/events/:id", eventHandler.Get)

		api.GET("/alerts", alertHandler.Feed)

		admin := api.Group("/admin", middleware.JWT(authSvc))
		{
			admin.GET("/admissions", admissionHandler.List)
			admin.GET("/admissions/export", admissionHandler.Export)
			admin.GET("/admissions/:id", admissionHandler.Get)
			admin.PATCH("/admissions/:id/status", admissionHandler.UpdateStatus)
			admin.DELETE("/admissions/:id", admissionHandler.Delete)

			admin.GET("/notices", noticeHandler.List)
			admin.POST("/notices", noticeHandler.Create)
			admin.PUT("/notices/:id", noticeHandler.Update)
			admin.DELETE("/notices/:id", noticeHandler.Delete)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
