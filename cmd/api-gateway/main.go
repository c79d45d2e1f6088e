package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/confsched-api/api/swagger"
	"github.com/noah-isme/confsched-api/internal/handler"
	"github.com/noah-isme/confsched-api/internal/middleware"
	"github.com/noah-isme/confsched-api/internal/repository"
	"github.com/noah-isme/confsched-api/internal/scheduling"
	"github.com/noah-isme/confsched-api/internal/service"
	"github.com/noah-isme/confsched-api/pkg/cache"
	"github.com/noah-isme/confsched-api/pkg/config"
	"github.com/noah-isme/confsched-api/pkg/database"
	"github.com/noah-isme/confsched-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/confsched-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/confsched-api/pkg/middleware/requestid"
)

// @title Conference Scheduling API
// @version 1.0.0
// @description Meeting session placement, badness scoring and agenda publishing
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

	settings := schedulingSettings(cfg.Scheduler)
	if err := settings.Validate(); err != nil {
		logr.Fatal("invalid scheduler policy", zap.Error(err))
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, badness cache disabled", zap.Error(err))
		redisClient = nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	validate := validator.New()

	meetingRepo := repository.NewMeetingRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	slotRepo := repository.NewTimeSlotRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	constraintRepo := repository.NewConstraintRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)

	metrics := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if redisClient != nil {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Scheduler.BadnessCacheTTL, logr, true)
	} else {
		cacheSvc = service.NewCacheService(nil, metrics, 0, logr, false)
	}

	meetingSvc := service.NewMeetingService(meetingRepo, roomRepo, slotRepo, scheduleRepo, db, validate, logr)
	sessionSvc := service.NewSessionService(sessionRepo, constraintRepo, meetingRepo, validate, logr)
	scheduleSvc := service.NewScheduleService(scheduleRepo, meetingRepo, slotRepo, sessionRepo, db, cacheSvc, validate, logr)
	scoringSvc := service.NewScoringService(scheduleRepo, roomRepo, slotRepo, sessionRepo, constraintRepo, settings, cacheSvc, cfg.Scheduler.BadnessCacheTTL, metrics, validate, logr)
	placementSvc := service.NewPlacementService(scoringSvc, scheduleRepo, db, cacheSvc, cfg.Scheduler.OptimizerMaxIterations, metrics, validate, logr)
	agendaSvc := service.NewAgendaService(scheduleRepo, meetingRepo, slotRepo, sessionRepo, roomRepo, logr)

	scoringSvc.StartRescoreQueue(ctx, cfg.Scheduler.RescoreWorkers)
	defer scoringSvc.StopRescoreQueue()

	meetingHandler := handler.NewMeetingHandler(meetingSvc)
	sessionHandler := handler.NewSessionHandler(sessionSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	scoringHandler := handler.NewScoringHandler(scoringSvc, placementSvc)
	agendaHandler := handler.NewAgendaHandler(agendaSvc)
	metricsHandler := handler.NewMetricsHandler(metrics, db, redisClient)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	registerRoutes(api, meetingHandler, sessionHandler, scheduleHandler, scoringHandler, agendaHandler)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

func registerRoutes(
	api *gin.RouterGroup,
	meetings *handler.MeetingHandler,
	sessions *handler.SessionHandler,
	schedules *handler.ScheduleHandler,
	scoring *handler.ScoringHandler,
	agenda *handler.AgendaHandler,
) {
	api.POST("/meetings", meetings.Create)
	api.GET("/meetings", meetings.List)
	api.GET("/meetings/:id", meetings.Get)
	api.POST("/meetings/:id/rooms", meetings.CreateRoom)
	api.GET("/meetings/:id/rooms", meetings.ListRooms)
	api.POST("/meetings/:id/timeslots", meetings.CreateTimeSlot)
	api.GET("/meetings/:id/timeslots", meetings.ListTimeSlots)
	api.POST("/meetings/:id/timeslots/generate", meetings.GenerateTimeSlots)

	api.POST("/meetings/:id/sessions", sessions.Create)
	api.GET("/meetings/:id/sessions", sessions.List)
	api.GET("/sessions/:id", sessions.Get)
	api.PUT("/sessions/:id/status", sessions.UpdateStatus)
	api.POST("/meetings/:id/constraints", sessions.CreateConstraint)
	api.GET("/meetings/:id/constraints", sessions.ListConstraints)
	api.DELETE("/constraints/:id", sessions.DeleteConstraint)

	api.POST("/meetings/:id/schedules", schedules.Create)
	api.GET("/meetings/:id/schedules", schedules.List)
	api.GET("/schedules/:id", schedules.Get)
	api.DELETE("/schedules/:id", schedules.Delete)
	api.POST("/schedules/:id/copy", schedules.Copy)
	api.GET("/schedules/:id/assignments", schedules.ListAssignments)
	api.PUT("/schedules/:id/place", schedules.Place)
	api.PUT("/schedules/:id/clear", schedules.Clear)
	api.POST("/schedules/:id/backfill", schedules.Backfill)
	api.PUT("/meetings/:id/agenda", schedules.SetAgenda)

	api.GET("/schedules/:id/badness", scoring.Badness)
	api.POST("/schedules/:id/whatif", scoring.WhatIf)
	api.POST("/schedules/:id/rescore", scoring.Rescore)
	api.POST("/schedules/:id/optimize", scoring.Optimize)

	api.GET("/schedules/:id/agenda", agenda.Agenda)
	api.GET("/schedules/:id/agenda/export", agenda.Export)
	api.GET("/meetings/:id/agenda", agenda.Official)
}

func schedulingSettings(cfg config.SchedulerConfig) scheduling.Settings {
	s := scheduling.DefaultSettings()
	if cfg.UnplacedPenalty > 0 {
		s.UnplacedPenalty = cfg.UnplacedPenalty
	}
	c := cfg.Capacity
	if c.FarTooSmallThreshold != 0 || c.TooSmallThreshold != 0 || c.FarTooBigThreshold != 0 || c.TooBigThreshold != 0 {
		s.Capacity.FarTooSmallThreshold = c.FarTooSmallThreshold
		s.Capacity.TooSmallThreshold = c.TooSmallThreshold
		s.Capacity.FarTooBigThreshold = c.FarTooBigThreshold
		s.Capacity.TooBigThreshold = c.TooBigThreshold
		s.Capacity.FarTooSmallCost = c.FarTooSmallCost
		s.Capacity.TooSmallCost = c.TooSmallCost
		s.Capacity.FarTooBigCost = c.FarTooBigCost
		s.Capacity.TooBigCost = c.TooBigCost
	}
	return s
}
