package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/brightsmile/clinic-api/internal/config"
	"github.com/brightsmile/clinic-api/internal/email"
	"github.com/brightsmile/clinic-api/internal/repository/postgres"
	"github.com/brightsmile/clinic-api/pkg/logger"
	redisbroker "github.com/brightsmile/clinic-api/pkg/messaging/redis"
	"github.com/brightsmile/clinic-api/pkg/metrics"
	"github.com/brightsmile/clinic-api/pkg/worker"
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

	brokerLogger := log.With().Str("component", "broker").Logger()
	broker, err := redisbroker.NewBroker(redisbroker.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &brokerLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	workerLogger := logger.NewLogger(nil)
	workerMetrics := metrics.NewMetrics("clinic", "worker")

	outboxRepo := postgres.NewOutboxRepository(db)
	processor := worker.NewOutboxProcessor(
		outboxRepo,
		broker,
		worker.OutboxProcessorConfig{
			BatchSize:     cfg.Worker.BatchSize,
			PollInterval:  time.Duration(cfg.Worker.PollIntervalSeconds) * time.Second,
			RetryAttempts: cfg.Worker.RetryAttempts,
			RetryDelay:    time.Duration(cfg.Worker.RetryDelaySeconds) * time.Second,
		},
		workerLogger,
		workerMetrics,
	)

	emailSvc := email.NewService(email.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		Enabled:  cfg.SMTP.Enabled,
	})
	notifier := worker.NewNotifier(broker, emailSvc, workerLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go processor.Start(ctx)
	go func() {
		if err := notifier.Start(ctx); err != nil {
			log.Error().Err(err).Msg("notifier stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down worker...")
	cancel()
}
