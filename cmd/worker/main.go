package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nziladragao/agenda-api/internal/config"
	"github.com/nziladragao/agenda-api/internal/email"
	"github.com/nziladragao/agenda-api/internal/repository/postgres"
	internalworker "github.com/nziladragao/agenda-api/internal/worker"
	"github.com/nziladragao/agenda-api/pkg/logger"
	redisbroker "github.com/nziladragao/agenda-api/pkg/messaging/redis"
	"github.com/nziladragao/agenda-api/pkg/metrics"
	"github.com/nziladragao/agenda-api/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	lg := logger.NewLogger(nil)
	brokerLogger := log.Logger

	broker, err := redisbroker.NewRedisBroker(redisbroker.Config{
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

	mailer := email.NewSMTPSender(cfg.SMTP)

	notificationRepo := postgres.NewNotificationRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	clientRepo := postgres.NewClientRepository(db)

	m := metrics.NewMetrics("agenda", "worker")

	dispatcher := worker.NewDispatcher(
		notificationRepo,
		broker,
		mailer,
		worker.DispatcherConfig{
			BatchSize:      cfg.Worker.BatchSize,
			PollInterval:   cfg.Worker.PollInterval,
			RetryAttempts:  cfg.Worker.MaxRetries,
			RetryDelay:     time.Second,
			GatewayChannel: cfg.Notification.GatewayChannel,
		},
		lg.Named("dispatcher"),
		m,
	)

	reminders := internalworker.NewReminderWorker(
		appointmentRepo,
		notificationRepo,
		clientRepo,
		cfg.Worker.ReminderHour,
		lg.Named("reminder"),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go dispatcher.Start(ctx)
	go reminders.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker...")
	cancel()
	time.Sleep(time.Second)
	log.Info().Msg("worker exited properly")
}
