package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go-thread/internal/config"
	"go-thread/internal/messaging/kafka"
	"go-thread/internal/messaging/kafka/producer"
	"go-thread/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker relays staged outbox events to Kafka until SIGINT or SIGTERM.
func RunWorker(cfg config.Config) error {
	logger := zap.L().Named("app.worker")

	if cfg.KafkaBroker == "" {
		return errors.New("KAFKA_BROKER is required")
	}
	if cfg.Storage == config.StorageMemory {
		return errors.New("the outbox worker needs a shared THREAD_STORAGE backend")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	kv, err := OpenKV(ctx, cfg)
	if err != nil {
		return err
	}
	defer kv.Close()

	kafkaWriter, err := connection.ConnectKafkaWithRetry(ctx, cfg.KafkaBroker, cfg.ConnectRetries)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(kv)

	go producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		logger,
		cfg.OutboxPollInterval,
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	return nil
}
