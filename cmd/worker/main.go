package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hms-api/internal/config"
	notificationService "github.com/jwalitptl/hms-api/internal/service/notification"
	reminderService "github.com/jwalitptl/hms-api/internal/service/reminder"
	"github.com/jwalitptl/hms-api/internal/repository/postgres"
	"github.com/jwalitptl/hms-api/internal/worker"
	"github.com/jwalitptl/hms-api/pkg/clock"
	"github.com/jwalitptl/hms-api/pkg/logger"
	"github.com/jwalitptl/hms-api/pkg/metrics"
	redisbroker "github.com/jwalitptl/hms-api/pkg/messaging/redis"
)

// Env overrides for deployments that tune the worker without touching the
// shared config file.
type Env struct {
	ScanInterval time.Duration `envconfig:"SCAN_INTERVAL"`
	HealthAddr   string        `envconfig:"HEALTH_ADDR" default:":8081"`
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	var env Env
	if err := envconfig.Process("HMS_WORKER", &env); err != nil {
		log.Fatal().Err(err).Msg("failed to process environment")
	}
	if env.ScanInterval > 0 {
		cfg.Reminder.ScanInterval = env.ScanInterval
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

	reminderRepo := postgres.NewReminderRepository(db)
	notifier := notificationService.NewService(broker, cfg.Reminder.NotificationChannel)
	scanner := reminderService.NewScanner(reminderRepo, notifier, metrics.New("hms_worker"))
	scanWorker := worker.NewReminderScanWorker(scanner, clock.New(), cfg.Reminder.ScanInterval, appLogger)

	startHealthServer(env.HealthAddr, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info().Msg("shutting down...")
		cancel()
	}()

	scanWorker.Start(ctx)
}

func startHealthServer(addr string, appLogger *logger.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			appLogger.ZL.Error().Err(err).Msg("health check server failed")
			os.Exit(1)
		}
	}()
}
