package kafka_client

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

// StartConsumer creates the consumer for cfg's topics and hands it to
// consumerFunc, which runs until the context is done.
func StartConsumer(ctx context.Context, cfg KafkaConfig, consumerFunc func(context.Context, *kafka.Consumer)) error {
	consumer, err := NewConsumer(cfg)
	if err != nil {
		return fmt.Errorf("[ConsumerFactory] Failed to initialize Kafka consumer: %w", err)
	}
	defer consumer.Close()

	slog.Info("[ConsumerFactory] Starting consumer...",
		slog.String("topics", strings.Join(cfg.Topics, ", ")))
	consumerFunc(ctx, consumer)

	return nil
}
