// Command order-consumer logs every order event published by the storefront.
package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"tokostore/internal/config"
	"tokostore/internal/logger"
	"tokostore/pkg/rabbitmq"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, flush, err := logger.Init(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer flush()

	if err := run(cfg, zlog); err != nil {
		zlog.Error("order consumer stopped", zap.Error(err))
		flush()
		os.Exit(1)
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	if cfg.RabbitMQ.URL == "" {
		return errors.New("RABBITMQ_URL is required")
	}

	client, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL}, zlog.Named("rabbitmq"))
	if err != nil {
		return err
	}
	defer client.Close()

	done, err := client.ConsumeOrderEvents(logEvent(zlog))
	if err != nil {
		return err
	}
	zlog.Info("consuming order events", zap.String("queue", rabbitmq.QueueName))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		zlog.Info("shutting down order consumer")
		return nil
	case <-done:
		return errors.New("delivery channel closed by broker")
	}
}

func logEvent(zlog *zap.Logger) func(rabbitmq.OrderEvent) error {
	return func(event rabbitmq.OrderEvent) error {
		zlog.Info("order event",
			zap.String("event_id", event.ID),
			zap.String("type", event.Type),
			zap.String("order_id", event.OrderID),
			zap.String("user_id", event.UserID),
			zap.String("status", event.Status),
			zap.String("total", event.TotalAmount.StringFixed(2)),
			zap.Int("items", len(event.Items)),
			zap.Time("occurred_at", event.OccurredAt))
		return nil
	}
}
