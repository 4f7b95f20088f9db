package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/medaudit/audit-trail-api/internal/config"
	"github.com/medaudit/audit-trail-api/internal/generator"
	analyticsHandler "github.com/medaudit/audit-trail-api/internal/handler/analytics"
	auditHandler "github.com/medaudit/audit-trail-api/internal/handler/audit"
	authHandler "github.com/medaudit/audit-trail-api/internal/handler/auth"
	directoryHandler "github.com/medaudit/audit-trail-api/internal/handler/directory"
	generateHandler "github.com/medaudit/audit-trail-api/internal/handler/generate"
	healthHandler "github.com/medaudit/audit-trail-api/internal/handler/health"
	searchHandler "github.com/medaudit/audit-trail-api/internal/handler/search"
	"github.com/medaudit/audit-trail-api/internal/middleware"
	"github.com/medaudit/audit-trail-api/internal/realtime"
	"github.com/medaudit/audit-trail-api/internal/repository/postgres"
	"github.com/medaudit/audit-trail-api/internal/router"
	analyticsService "github.com/medaudit/audit-trail-api/internal/service/analytics"
	auditService "github.com/medaudit/audit-trail-api/internal/service/audit"
	authService "github.com/medaudit/audit-trail-api/internal/service/auth"
	generateService "github.com/medaudit/audit-trail-api/internal/service/generate"
	"github.com/medaudit/audit-trail-api/internal/worker"
	"github.com/medaudit/audit-trail-api/pkg/messaging/redis"
	"github.com/medaudit/audit-trail-api/pkg/metrics"
	"github.com/medaudit/audit-trail-api/pkg/security"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	base := postgres.NewBaseRepository(db)
	logRepo := postgres.NewAuditLogRepository(base)
	hospitalRepo := postgres.NewHospitalRepository(base)
	userRepo := postgres.NewUserRepository(base)
	deviceRepo := postgres.NewDeviceRepository(base)
	patientRepo := postgres.NewPatientRepository(base)

	// Shared infrastructure
	m := metrics.New("audit_trail")
	responseCache := cache.New(cfg.Cache.TTL, cfg.Cache.CleanupInterval)

	brokerLogger := log.With().Str("component", "broker").Logger()
	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &brokerLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	// Generator engine
	seed := cfg.Generator.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	engine := generator.NewEngine(seed)

	// Services
	auditSvc := auditService.NewService(
		logRepo, userRepo, deviceRepo, patientRepo,
		broker, m, responseCache,
		log.With().Str("component", "audit").Logger(),
	)
	analyticsSvc := analyticsService.NewService(logRepo, responseCache)
	authSvc := authService.NewService(
		userRepo,
		security.NewBcryptHasher(0),
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.ExpiryHours)*time.Hour,
	)
	generateSvc := generateService.NewService(
		engine, auditSvc,
		hospitalRepo, userRepo, deviceRepo, patientRepo,
		m, responseCache,
		log.With().Str("component", "generate").Logger(),
	)

	// Realtime hub
	hub := realtime.NewHub(broker, m, log.With().Str("component", "realtime").Logger())
	hubCtx, hubCancel := context.WithCancel(context.Background())
	defer hubCancel()
	go func() {
		if err := hub.Run(hubCtx); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("realtime hub stopped")
		}
	}()

	// Router
	r := router.NewRouter(
		middleware.NewAuthMiddleware(authSvc),
		hub,
		healthHandler.NewHandler(db),
		authHandler.NewHandler(authSvc),
		auditHandler.NewHandler(auditSvc),
		analyticsHandler.NewHandler(analyticsSvc),
		searchHandler.NewHandler(userRepo, deviceRepo, patientRepo),
		directoryHandler.NewHandler(hospitalRepo, userRepo, deviceRepo, patientRepo),
		generateHandler.NewHandler(generateSvc),
		router.Config{
			RateLimit:      cfg.RateLimit.Enabled,
			RateLimitRPS:   cfg.RateLimit.RequestsPerSecond,
			RateLimitBurst: cfg.RateLimit.Burst,
			CORSConfig:     corsConfig(cfg),
			MetricsPrefix:  "audit_trail_http",
			MetricsPath:    cfg.Monitoring.MetricsPath,
		},
	)
	r.Setup()

	// Live generator
	var live *worker.LiveGenerator
	if cfg.Generator.Enabled {
		live = worker.NewLiveGenerator(
			generateSvc, engine,
			cfg.Generator.Interval, cfg.Generator.WorkflowRatio,
			log.With().Str("component", "live-generator").Logger(),
		)
		if err := live.Start(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("failed to start live generator")
		}
	}

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	if live != nil {
		live.Stop()
	}
	hubCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server stopped")
}

func corsConfig(cfg *config.Config) middleware.CORSConfig {
	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.Security.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.Security.AllowedOrigins
	}
	if len(cfg.Security.AllowedMethods) > 0 {
		corsCfg.AllowMethods = cfg.Security.AllowedMethods
	}
	if len(cfg.Security.AllowedHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.Security.AllowedHeaders
	}
	return corsCfg
}
