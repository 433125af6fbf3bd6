package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/thalesbertaglia/toxmon/config"
	"github.com/thalesbertaglia/toxmon/internal/clients"
	"github.com/thalesbertaglia/toxmon/internal/collector"
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

	channels := flag.String("channels", "", "comma-separated channel IDs")
	authors := flag.String("authors", "", "comma-separated media author name|url pairs to resolve into channel IDs")
	maxVideos := flag.Int64("max-videos", 10, "maximum videos per channel")
	maxComments := flag.Int64("max-comments", 10000, "maximum comments per video, 0 disables comment collection")
	dateRange := flag.String("date-range", "", "optional publish window, DD/MM/YYYY-DD/MM/YYYY")
	flag.Parse()

	if *channels == "" && *authors == "" {
		slog.Error("Nothing to collect: pass -channels, -authors or both")
		flag.Usage()
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	clients.InitYouTube(ctx)
	db.InitDynamoDB()

	var channelIDs []string
	if *channels != "" {
		channelIDs = strings.Split(*channels, ",")
	}
	channelIDs = append(channelIDs, resolveAuthors(ctx, *authors)...)
	if len(channelIDs) == 0 {
		slog.Error("No channel could be resolved")
		os.Exit(1)
	}

	c, err := collector.NewYouTubeCollector(*maxVideos, *maxComments, *dateRange)
	if err != nil {
		slog.Error("Failed to set up collector", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dataset, err := c.RetrieveChannelData(ctx, channelIDs)
	if err != nil {
		slog.Error("Collection run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := db.StoreChannelRecords(ctx, dataset.Channels); err != nil {
		slog.Error("Failed to store channel records", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := db.StoreVideoRecords(ctx, dataset.Videos); err != nil {
		slog.Error("Failed to store video records", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := db.StoreVideoCommentRecords(ctx, dataset.Comments); err != nil {
		slog.Error("Failed to store video comment records", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("YouTube collection finished",
		slog.Int("channels", len(dataset.Channels)),
		slog.Int("videos", len(dataset.Videos)),
		slog.Int("comments", len(dataset.Comments)))
}

// resolveAuthors turns "name|url" pairs, as extracted from embedded media,
// into channel IDs. Unresolvable or unmatched authors are logged and skipped.
func resolveAuthors(ctx context.Context, authors string) []string {
	if authors == "" {
		return nil
	}

	var channelIDs []string
	for _, pair := range strings.Split(authors, ",") {
		name, url, _ := strings.Cut(pair, "|")

		channelID, err := collector.ResolveChannelID(ctx, name, url)
		if err != nil {
			slog.Error("Failed to resolve media author",
				slog.String("author", name),
				slog.String("error", err.Error()))
			continue
		}
		if channelID == "None" || strings.HasPrefix(channelID, "<UNMATCHED>") {
			slog.Warn("Skipping unresolved media author",
				slog.String("author", name),
				slog.String("result", channelID))
			continue
		}
		channelIDs = append(channelIDs, channelID)
	}
	return channelIDs
}
