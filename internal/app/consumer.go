package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go-thread/internal/bootstrap"
	"go-thread/internal/config"
	"go-thread/internal/events"
	"go-thread/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const auditTrailGroup = "thread-audit-trail"

// RunConsumer writes employee and leave events to the audit log until
// SIGINT or SIGTERM.
func RunConsumer(cfg config.Config) error {
	logger := zap.L().Named("app.consumer")

	if cfg.KafkaBroker == "" {
		return errors.New("KAFKA_BROKER is required")
	}

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.KafkaBroker},
		GroupID:        auditTrailGroup,
		GroupTopics:    []string{events.EmployeeLifecycleTopic, events.LeaveDecisionTopic},
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeAuditTrail(ctx, reader, bootstrap.NewStdoutAuditLogger(logger), logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
