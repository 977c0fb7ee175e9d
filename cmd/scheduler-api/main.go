package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/csmentors/scheduler-api/api/swagger"
	"github.com/csmentors/scheduler-api/internal/handler"
	"github.com/csmentors/scheduler-api/internal/middleware"
	"github.com/csmentors/scheduler-api/internal/models"
	"github.com/csmentors/scheduler-api/internal/repository"
	"github.com/csmentors/scheduler-api/internal/service"
	"github.com/csmentors/scheduler-api/pkg/cache"
	"github.com/csmentors/scheduler-api/pkg/config"
	"github.com/csmentors/scheduler-api/pkg/database"
	"github.com/csmentors/scheduler-api/pkg/jobs"
	"github.com/csmentors/scheduler-api/pkg/logger"
	corsmiddleware "github.com/csmentors/scheduler-api/pkg/middleware/cors"
	reqidmiddleware "github.com/csmentors/scheduler-api/pkg/middleware/requestid"
	"github.com/csmentors/scheduler-api/pkg/storage"
)

// @title Section Scheduler API
// @version 1.0.0
// @description Course section enrollment and attendance tracking
// @BasePath /
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	// Repositories.
	users := repository.NewUserRepository(db)
	courses := repository.NewCourseRepository(db)
	sections := repository.NewSectionRepository(db)
	students := repository.NewStudentRepository(db)
	attendances := repository.NewAttendanceRepository(db)
	presenceCodes := repository.NewPresenceCodeRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Services.
	metrics := service.NewMetricsService()
	cacheRepo.Observe(metrics)
	authService := service.NewAuthService(users, cfg.JWT, validate, logr)
	courseService := service.NewCourseService(courses, sections, logr)
	enrollmentService := service.NewEnrollmentService(students, sections, courses, attendances, cacheRepo, cfg.Cache.OccupancyTTL, logr)
	presenceService := service.NewPresenceService(presenceCodes, cacheRepo, cfg.Cache.PresenceTTL, logr)
	attendanceService := service.NewAttendanceService(attendances, students, presenceService, validate, logr)

	if err := presenceService.Seed(ctx, service.ParseDefaults(cfg.Presence.Defaults)); err != nil {
		logr.Sugar().Fatalw("failed to seed presence codes", "error", err)
	}

	var reportService *service.ReportService
	if cfg.Reports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init report storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
		reportService = service.NewReportService(attendances, sections, store, signer, jobs.QueueConfig{
			Workers:    cfg.Reports.WorkerConcurrency,
			MaxRetries: cfg.Reports.WorkerRetries,
			Logger:     logr,
		}, logr)
		reportService.Start(ctx)
		defer reportService.Stop()
	}

	// Handlers.
	authHandler := handler.NewAuthHandler(authService, logr)
	courseHandler := handler.NewCourseHandler(courseService, enrollmentService, logr)
	sectionHandler := handler.NewSectionHandler(courseService, enrollmentService, attendanceService, metrics, logr)
	studentHandler := handler.NewStudentHandler(attendanceService, enrollmentService, metrics, logr)
	presenceHandler := handler.NewPresenceHandler(presenceService, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.POST("/auth/login", authHandler.Login)
	r.POST("/auth/refresh", authHandler.Refresh)

	authed := r.Group(cfg.APIPrefix)
	authed.Use(middleware.Auth(authService, users, logr))
	{
		scheduler := authed.Group("/scheduler")
		scheduler.GET("/profiles/", courseHandler.ListProfiles)
		scheduler.GET("/courses/", courseHandler.ListCourses)
		scheduler.GET("/courses/:name/sections/", courseHandler.ListSections)
		scheduler.GET("/sections/:id", sectionHandler.Get)
		scheduler.POST("/sections/:id/enroll", sectionHandler.Enroll)

		// Roster, section attendance and exports are mentor surfaces.
		sectionsGroup := authed.Group("/sections")
		sectionsGroup.Use(middleware.RequireRoles(models.RoleMentor, models.RoleCoordinator))
		sectionsGroup.GET("/:id/students/", sectionHandler.Roster)
		sectionsGroup.GET("/:id/attendances/", sectionHandler.Attendances)

		studentsGroup := authed.Group("/students")
		studentsGroup.GET("/:id/attendances", studentHandler.Attendances)
		// Registered under both verbs: browser clients PATCH, older native
		// clients POST.
		studentsGroup.PATCH("/:id/attendances/:attendanceID", studentHandler.UpdatePresence)
		studentsGroup.POST("/:id/attendances/:attendanceID", studentHandler.UpdatePresence)
		studentsGroup.PATCH("/:id/drop", studentHandler.Drop)

		authed.GET("/config/presence-codes", presenceHandler.List)

		if reportService != nil {
			reportHandler := handler.NewReportHandler(reportService, logr)
			sectionsGroup.POST("/:id/reports", reportHandler.Request)
			authed.GET("/reports/:id", reportHandler.Get)
			// Signed links authenticate themselves; no bearer token needed.
			r.GET("/downloads", reportHandler.Download)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)

	srv := &http.Server{Addr: addr, Handler: r}
	go func() {
		<-ctx.Done()
		logr.Sugar().Infow("shutting down")
		_ = srv.Shutdown(context.Background())
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
