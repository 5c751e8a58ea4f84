package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hms-api/internal/config"
	"github.com/jwalitptl/hms-api/internal/email"
	"github.com/jwalitptl/hms-api/internal/extractor"
	adminHandler "github.com/jwalitptl/hms-api/internal/handler/admin"
	assignmentHandler "github.com/jwalitptl/hms-api/internal/handler/assignment"
	authHandler "github.com/jwalitptl/hms-api/internal/handler/auth"
	doctorHandler "github.com/jwalitptl/hms-api/internal/handler/doctor"
	healthHandler "github.com/jwalitptl/hms-api/internal/handler/health"
	noteHandler "github.com/jwalitptl/hms-api/internal/handler/note"
	patientHandler "github.com/jwalitptl/hms-api/internal/handler/patient"
	reminderHandler "github.com/jwalitptl/hms-api/internal/handler/reminder"
	"github.com/jwalitptl/hms-api/internal/middleware"
	"github.com/jwalitptl/hms-api/internal/model"
	"github.com/jwalitptl/hms-api/internal/repository/postgres"
	"github.com/jwalitptl/hms-api/internal/router"
	adminService "github.com/jwalitptl/hms-api/internal/service/admin"
	assignmentService "github.com/jwalitptl/hms-api/internal/service/assignment"
	authService "github.com/jwalitptl/hms-api/internal/service/auth"
	doctorService "github.com/jwalitptl/hms-api/internal/service/doctor"
	noteService "github.com/jwalitptl/hms-api/internal/service/note"
	notificationService "github.com/jwalitptl/hms-api/internal/service/notification"
	patientService "github.com/jwalitptl/hms-api/internal/service/patient"
	reminderService "github.com/jwalitptl/hms-api/internal/service/reminder"
	"github.com/jwalitptl/hms-api/internal/worker"
	"github.com/jwalitptl/hms-api/pkg/auth"
	"github.com/jwalitptl/hms-api/pkg/clock"
	"github.com/jwalitptl/hms-api/pkg/logger"
	"github.com/jwalitptl/hms-api/pkg/metrics"
	redisbroker "github.com/jwalitptl/hms-api/pkg/messaging/redis"
	"github.com/jwalitptl/hms-api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(&logger.Config{Level: logger.InfoLevel})
	log.Logger = appLogger.ZL

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, err := redisbroker.NewRedisBroker(redisbroker.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &appLogger.ZL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer broker.Close()

	encryptor, err := security.NewAESEncryptor(security.DeriveKey(cfg.Security.NoteSecret))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize note encryptor")
	}

	// Repositories
	patientRepo := postgres.NewPatientRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	adminRepo := postgres.NewAdminRepository(db)
	principalRepo := postgres.NewPrincipalRepository(db)
	assignmentRepo := postgres.NewAssignmentRepository(db)
	noteRepo := postgres.NewNoteRepository(db)
	reminderRepo := postgres.NewReminderRepository(db)

	// Shared infrastructure
	m := metrics.New("hms")
	clk := clock.New()
	jwtSvc := auth.NewJWTService(auth.Config{
		Secret:             cfg.JWT.Secret,
		RefreshSecret:      cfg.JWT.RefreshSecret,
		ExpiryHours:        cfg.JWT.ExpiryHours,
		RefreshExpiryHours: cfg.JWT.RefreshExpiryHours,
	})
	hasher := security.NewBcryptHasher(cfg.Security.BcryptCost)
	emailSvc := email.NewGomailService(cfg.SMTP)
	planExtractor := extractor.NewOpenAIExtractor(extractor.Config{
		URL:     cfg.Extractor.URL,
		APIKey:  cfg.Extractor.APIKey,
		Model:   cfg.Extractor.Model,
		Timeout: cfg.Extractor.Timeout,
	})

	// Services
	authSvc := authService.NewService(patientRepo, doctorRepo, principalRepo, jwtSvc, hasher, emailSvc, cfg.Server.BaseURL)
	adminSvc := adminService.NewService(adminRepo, principalRepo, hasher, emailSvc)
	patientSvc := patientService.NewService(patientRepo)
	doctorSvc := doctorService.NewService(doctorRepo)
	assignmentSvc := assignmentService.NewService(assignmentRepo, doctorRepo, patientRepo)
	reminderSvc := reminderService.NewService(reminderRepo, m)
	noteSvc := noteService.NewService(noteRepo, patientRepo, reminderSvc, planExtractor, encryptor, clk, m)
	notifier := notificationService.NewService(broker, cfg.Reminder.NotificationChannel)
	scanner := reminderService.NewScanner(reminderRepo, notifier, m)

	// HTTP layer
	authMW := middleware.NewAuthMiddleware(authSvc, principalRepo)
	r := router.New(
		authMW,
		healthHandler.NewHandler(db, broker.Client()),
		authHandler.NewHandler(authSvc),
		adminHandler.NewHandler(adminSvc),
		patientHandler.NewHandler(patientSvc),
		doctorHandler.NewHandler(doctorSvc),
		assignmentHandler.NewHandler(assignmentSvc, authMW.RequireRole(model.RoleAdmin)),
		noteHandler.NewHandler(noteSvc),
		reminderHandler.NewHandler(reminderSvc),
		router.Config{
			RateLimitPerSecond: rateLimit(cfg),
			RateLimitBurst:     cfg.RateLimit.Burst,
			RequestTimeout:     cfg.Server.RequestTimeout,
			CORS:               middleware.DefaultCORSConfig(),
		},
	)
	r.Setup()

	// In-process reminder scan: once at boot, then on the interval.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	scanWorker := worker.NewReminderScanWorker(scanner, clk, cfg.Reminder.ScanInterval, appLogger)
	go scanWorker.Start(ctx)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}

func rateLimit(cfg *config.Config) float64 {
	if !cfg.RateLimit.Enabled {
		return 0
	}
	return cfg.RateLimit.RequestsPerSecond
}
