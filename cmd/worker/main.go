package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/devlinks/adapters/event"
	"github.com/khoahotran/devlinks/adapters/persistence"
	analyticsUC "github.com/khoahotran/devlinks/internal/application/usecase/analytics"
	"github.com/khoahotran/devlinks/internal/config"
	"github.com/khoahotran/devlinks/pkg/logger"
)

func main() {
	fmt.Println("Starting devlinks worker...")

	// Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}
	appLogger := logger.NewZapLogger(cfg.App.Env)

	// Redis
	redisClient, err := persistence.NewRedisClient(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect Redis", err)
	}
	defer redisClient.Close()

	// Worker Use Case
	recordViewUC := analyticsUC.NewRecordViewUseCase(persistence.NewRedisViewCounter(redisClient), appLogger)

	// Kafka Consumer
	viewConsumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    event.TopicViewEvents,
		GroupID:  "profile-view-counter-group",
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	defer viewConsumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appLogger.Info("Worker listening", zap.String("topic", event.TopicViewEvents))

	for {
		msg, err := viewConsumer.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				appLogger.Info("Worker stopped")
				return
			}
			appLogger.Error("Failed to read message from Kafka", err)
			continue
		}

		e, err := event.DecodeProfileViewed(msg.Value)
		if err != nil {
			appLogger.Warn("Skipping undecodable view event", zap.String("key", string(msg.Key)), zap.Error(err))
			commitMessage(appLogger, viewConsumer, msg)
			continue
		}

		n, err := recordViewUC.Execute(ctx, e)
		if err != nil {
			appLogger.Error("Failed to record view", err, zap.String("owner_id", e.OwnerID.String()))
			continue
		}
		appLogger.Info("View recorded", zap.String("owner_id", e.OwnerID.String()), zap.String("source", e.Source), zap.Int64("views", n))

		commitMessage(appLogger, viewConsumer, msg)
	}
}

func commitMessage(log logger.Logger, consumer *kafka.Reader, msg kafka.Message) {
	if err := consumer.CommitMessages(context.Background(), msg); err != nil {
		log.Error("Failed to commit message", err)
	}
}
