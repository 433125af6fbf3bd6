package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thalesbertaglia/toxmon/config"
	"github.com/thalesbertaglia/toxmon/internal/clients"
	"github.com/thalesbertaglia/toxmon/internal/clients/kafka_client"
	"github.com/thalesbertaglia/toxmon/internal/collector"
	"github.com/thalesbertaglia/toxmon/internal/logging"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	subreddit := flag.String("subreddit", "", "subreddit to collect (required)")
	sort := flag.String("sort", "top", "listing sort: top, hot, new, rising, controversial")
	timeFilter := flag.String("time-filter", "all", "time filter for top/controversial: day, week, month, year, all")
	limit := flag.Int("limit", 1000, "maximum number of threads to collect")
	dataDir := flag.String("data-dir", "data", "directory for the raw JSON archive")
	flag.Parse()

	if *subreddit == "" {
		slog.Error("Missing required -subreddit flag")
		flag.Usage()
		os.Exit(1)
	}

	cfg := kafka_client.GetKafkaConfig()
	for {
		err := kafka_client.InitProducer(cfg)
		if err == nil {
			break
		}

		slog.Warn("Kafka init failed, retrying...", slog.String("error", err.Error()))
		time.Sleep(5 * time.Second)
	}
	defer kafka_client.CloseProducer()

	clients.InitValkey()
	defer clients.CloseValkey()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c, err := collector.NewRedditCollector(*dataDir)
	if err != nil {
		slog.Error("Failed to set up collector", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := c.RetrieveThreads(ctx, *subreddit, *sort, *timeFilter, *limit); err != nil {
		slog.Error("Collection run failed",
			slog.String("subreddit", *subreddit),
			slog.String("error", err.Error()))
		os.Exit(1)
	}
}
