package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/mlvisio/track-api/api/swagger"
	"github.com/mlvisio/track-api/internal/handler"
	"github.com/mlvisio/track-api/internal/middleware"
	"github.com/mlvisio/track-api/internal/models"
	"github.com/mlvisio/track-api/internal/repository"
	"github.com/mlvisio/track-api/internal/service"
	"github.com/mlvisio/track-api/pkg/cache"
	"github.com/mlvisio/track-api/pkg/config"
	"github.com/mlvisio/track-api/pkg/database"
	"github.com/mlvisio/track-api/pkg/logger"
	corsmiddleware "github.com/mlvisio/track-api/pkg/middleware/cors"
	reqidmiddleware "github.com/mlvisio/track-api/pkg/middleware/requestid"
)

// @title MlvisioTrack API
// @version 1.0.0
// @description Student attendance management API
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	userRepo := repository.NewUserRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	authService := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})
	userService := service.NewUserService(userRepo, nil, logr)
	subjectService := service.NewSubjectService(subjectRepo, nil, logr)
	attendanceService := service.NewAttendanceService(attendanceRepo, userRepo, subjectRepo, cacheRepo, nil, logr)
	scheduleService := service.NewScheduleService(scheduleRepo, nil, logr)
	settingsService := service.NewSettingsService(settingsRepo, cfg.Attendance, nil, logr)
	dashboardService := service.NewDashboardService(userRepo, subjectRepo, attendanceRepo, cacheRepo, cfg.Dashboard.CacheTTL, logr)
	metricsService := service.NewMetricsService()

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	subjectHandler := handler.NewSubjectHandler(subjectService)
	attendanceHandler := handler.NewAttendanceHandler(attendanceService, metricsService)
	scheduleHandler := handler.NewScheduleHandler(scheduleService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, metricsService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	staffOnly := middleware.RequireRoles(models.RoleAdmin, models.RoleLecturer)

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("", middleware.JWT(authService))
	authed.PUT("/auth/password", authHandler.ChangePassword)

	users := authed.Group("/users")
	users.GET("/list", staffOnly, userHandler.List)
	users.GET("/profile/:identifier", userHandler.Profile)
	users.POST("/create", adminOnly, userHandler.Create)
	users.PUT("/update/:id", adminOnly, userHandler.Update)
	users.DELETE("/delete/:id", adminOnly, userHandler.Delete)

	authed.GET("/subjects", subjectHandler.List)
	authed.POST("/subjects", adminOnly, subjectHandler.Create)

	attendance := authed.Group("/attendance")
	attendance.POST("/mark", staffOnly, attendanceHandler.Mark)
	attendance.GET("/student/:registrationNumber", attendanceHandler.StudentHistory)
	attendance.GET("/report", staffOnly, attendanceHandler.Report)
	attendance.GET("/report/export", staffOnly, attendanceHandler.Export)

	schedule := authed.Group("/schedule")
	schedule.GET("/today", scheduleHandler.Today)
	schedule.GET("/weekly", scheduleHandler.Weekly)
	schedule.POST("/create", adminOnly, scheduleHandler.Create)
	schedule.PUT("/update/:id", adminOnly, scheduleHandler.Update)
	schedule.DELETE("/delete/:id", adminOnly, scheduleHandler.Delete)

	authed.GET("/stats/dashboard", staffOnly, dashboardHandler.Stats)
	authed.GET("/settings/attendance", settingsHandler.Attendance)
	authed.PUT("/settings/attendance", adminOnly, settingsHandler.UpdateAttendance)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
