package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"tokostore/internal/config"
	"tokostore/internal/database"
	"tokostore/internal/logger"
	"tokostore/internal/server"
	"tokostore/internal/services"
	"tokostore/pkg/rabbitmq"

	"go.uber.org/zap"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, flush, err := logger.Init(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer flush()

	// --- Database ---
	db, err := database.Open(cfg.Database)
	if err != nil {
		zlog.Fatal("failed to open database", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	// --- RabbitMQ (optional) ---
	var publisher services.OrderEventPublisher
	if cfg.RabbitMQ.URL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL}, zlog.Named("rabbitmq"))
		if err != nil {
			zlog.Warn("order events disabled, RabbitMQ is unreachable", zap.Error(err))
		} else {
			defer mqClient.Close()
			publisher = mqClient
		}
	} else {
		zlog.Info("order events disabled, RABBITMQ_URL is not set")
	}

	// --- HTTP ---
	app, err := server.New(cfg, db, publisher, zlog)
	if err != nil {
		zlog.Fatal("failed to build server", zap.Error(err))
	}

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		zlog.Info("starting server", zap.String("addr", cfg.AppPort), zap.String("env", cfg.Env))
		if err := app.Listen(cfg.AppPort); err != nil {
			zlog.Fatal("server failed to start", zap.Error(err))
		}
	}()

	<-quit
	zlog.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		zlog.Error("error during shutdown", zap.Error(err))
	}
	zlog.Info("server gracefully stopped")
}
