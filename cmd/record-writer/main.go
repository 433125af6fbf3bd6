package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/thalesbertaglia/toxmon/config"
	"github.com/thalesbertaglia/toxmon/internal/clients/kafka_client"
	"github.com/thalesbertaglia/toxmon/internal/consumers"
	"github.com/thalesbertaglia/toxmon/internal/db"
	"github.com/thalesbertaglia/toxmon/internal/logging"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	db.InitDynamoDB()

	cfg := kafka_client.GetKafkaConfig()
	if err := kafka_client.StartConsumer(ctx, cfg, consumers.StartRecordConsumer); err != nil {
		slog.Error("[Main] Failed to start consumer",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
}
