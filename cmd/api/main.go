package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/darsapp/dars-api/api/swagger"
	"github.com/darsapp/dars-api/internal/audio"
	"github.com/darsapp/dars-api/internal/crypto"
	"github.com/darsapp/dars-api/internal/handler"
	"github.com/darsapp/dars-api/internal/middleware"
	"github.com/darsapp/dars-api/internal/repository"
	"github.com/darsapp/dars-api/internal/service"
	"github.com/darsapp/dars-api/pkg/cache"
	"github.com/darsapp/dars-api/pkg/config"
	"github.com/darsapp/dars-api/pkg/database"
	"github.com/darsapp/dars-api/pkg/logger"
	"github.com/darsapp/dars-api/pkg/mailer"
	corsmiddleware "github.com/darsapp/dars-api/pkg/middleware/cors"
	reqidmiddleware "github.com/darsapp/dars-api/pkg/middleware/requestid"
	"github.com/darsapp/dars-api/pkg/storage"
)

// @title Dars API
// @version 1.0.0
// @description Islamic audio lessons content service
// @BasePath /api/v1
// @schemes http https

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, statistics cache disabled", zap.Error(err))
		redisClient = nil
	}

	store, err := storage.NewLocalStorage(cfg.Audio.StorageDir)
	if err != nil {
		logr.Fatal("failed to init audio storage", zap.Error(err))
	}

	box, err := crypto.NewBox(cfg.Secrets.EncryptionKey)
	if err != nil {
		logr.Fatal("failed to init secret box", zap.Error(err))
	}

	validate := validator.New()

	// Repositories.
	themeRepo := repository.NewThemeRepository(db)
	authorRepo := repository.NewAuthorRepository(db)
	bookRepo := repository.NewBookRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	seriesRepo := repository.NewSeriesRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	testRepo := repository.NewTestRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	userRepo := repository.NewUserRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	bookmarkRepo := repository.NewBookmarkRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	statisticsRepo := repository.NewStatisticsRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Services.
	processor := audio.NewProcessor(cfg.Audio, store, logr)
	sender := mailer.NewSMTPSender(logr)
	metricsSvc := service.NewMetricsService()

	settingsSvc := service.NewSettingsService(settingsRepo, box, sender, validate, logr)
	mailSvc := service.NewMailService(settingsSvc, sender, cfg.Mail, logr)
	authSvc := service.NewAuthService(userRepo, mailSvc, cfg.JWT, validate, logr)
	userSvc := service.NewUserService(userRepo, validate, logr)
	themeSvc := service.NewThemeService(themeRepo, validate, logr)
	authorSvc := service.NewAuthorService(authorRepo, validate, logr)
	bookSvc := service.NewBookService(bookRepo, authorRepo, themeRepo, validate, logr)
	teacherSvc := service.NewTeacherService(teacherRepo, validate, logr)
	seriesSvc := service.NewSeriesService(seriesRepo, teacherRepo, bookRepo, themeRepo, validate, logr)
	lessonSvc := service.NewLessonService(lessonRepo, seriesRepo, teacherRepo, bookRepo, themeRepo, store, processor, validate, logr)
	testSvc := service.NewTestService(testRepo, questionRepo, seriesRepo, lessonRepo, validate, logr)
	feedbackSvc := service.NewFeedbackService(feedbackRepo, userRepo, mailSvc, validate, logr)
	bookmarkSvc := service.NewBookmarkService(bookmarkRepo, lessonRepo, validate, logr)
	statisticsSvc := service.NewStatisticsService(statisticsRepo, cacheRepo, cfg.Statistics, logr)

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
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	handler.RegisterRoutes(api, handler.Handlers{
		Auth:       handler.NewAuthHandler(authSvc, userSvc),
		Themes:     handler.NewThemeHandler(themeSvc),
		Authors:    handler.NewAuthorHandler(authorSvc),
		Books:      handler.NewBookHandler(bookSvc),
		Teachers:   handler.NewTeacherHandler(teacherSvc),
		Series:     handler.NewSeriesHandler(seriesSvc, lessonSvc),
		Lessons:    handler.NewLessonHandler(lessonSvc, metricsSvc, cfg.Audio.MaxUploadBytes),
		Tests:      handler.NewTestHandler(testSvc),
		Users:      handler.NewUserHandler(userSvc),
		Feedback:   handler.NewFeedbackHandler(feedbackSvc),
		Bookmarks:  handler.NewBookmarkHandler(bookmarkSvc),
		Settings:   handler.NewSettingsHandler(settingsSvc),
		Statistics: handler.NewStatisticsHandler(statisticsSvc),
	}, authSvc)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
