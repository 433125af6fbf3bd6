package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/thalesbertaglia/toxmon/internal/clients/kafka_client"
	"github.com/thalesbertaglia/toxmon/internal/db"
	"github.com/thalesbertaglia/toxmon/internal/models"
	"github.com/thalesbertaglia/toxmon/internal/parser"
	"github.com/thalesbertaglia/toxmon/internal/utils"
)

var (
	threadBuffer  = utils.NewBatchBuffer[models.ThreadRecord]()
	commentBuffer = utils.NewBatchBuffer[models.CommentRecord]()
)

// StartRecordConsumer reads raw-document envelopes, runs the parser core and
// batch-writes the resulting records to DynamoDB. Writes are idempotent puts
// keyed by record ID, so redelivered messages only cost work, not
// correctness.
func StartRecordConsumer(ctx context.Context, consumer *kafka.Consumer) {
	iterator := kafka_client.NewKafkaMessageIterator(ctx, consumer)
	committer := kafka_client.NewCommitHandler(ctx, consumer)

	threadParser := parser.NewThreadParser(parser.DefaultOptions())
	flattener := parser.NewCommentTreeFlattener(0)

	slog.Info("[RecordConsumer] Listening for raw documents...")

	ticker := time.NewTicker(utils.BATCH_TIMEOUT)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Warn("[RecordConsumer] Stopping consumer, draining buffers...")
			flushBatches(context.Background())
			return

		case <-ticker.C:
			flushBatches(ctx)

		default:
			msg, err := iterator.Next()
			if err != nil {
				if errors.Is(err, context.Canceled) {
					continue
				}
				slog.Warn("[RecordConsumer] Failed to read message",
					slog.String("error", err.Error()))
				continue
			}

			if processMessage(msg, threadParser, flattener) {
				if err := committer.Commit(msg); err != nil {
					slog.Warn("[RecordConsumer] Failed to commit offset",
						slog.String("error", err.Error()))
				}
			}

			if threadBuffer.Size() >= utils.BATCH_SIZE || commentBuffer.Size() >= utils.BATCH_SIZE {
				flushBatches(ctx)
			}
		}
	}
}

// processMessage buffers the records of one envelope. It returns true when
// the message should be committed, which includes undecodable messages:
// retrying a poison message never helps.
func processMessage(msg *kafka.Message, threadParser *parser.ThreadParser, flattener *parser.CommentTreeFlattener) bool {
	var envelope models.RawDocumentEnvelope
	if err := json.Unmarshal(msg.Value, &envelope); err != nil {
		slog.Warn("[RecordConsumer] Skipping undecodable envelope",
			slog.String("error", err.Error()))
		return true
	}

	switch envelope.Kind {
	case models.RawKindThread:
		doc, err := parser.DecodeDocument(envelope.Payload)
		if err != nil {
			slog.Warn("[RecordConsumer] Thread payload is not an object",
				slog.String("thread_id", envelope.ThreadID),
				slog.String("error", err.Error()))
			return true
		}
		rec, err := threadParser.Parse(doc)
		if err != nil {
			slog.Warn("[RecordConsumer] Failed to parse thread",
				slog.String("thread_id", envelope.ThreadID),
				slog.String("error", err.Error()))
			return true
		}
		threadBuffer.Add(rec)

	case models.RawKindComments:
		forest, err := parser.DecodeForest(envelope.Payload)
		if err != nil {
			slog.Warn("[RecordConsumer] Comments payload is not a forest",
				slog.String("thread_id", envelope.ThreadID),
				slog.String("error", err.Error()))
			return true
		}
		commentBuffer.Add(flattener.FlattenForest(forest)...)

	default:
		slog.Warn("[RecordConsumer] Unknown envelope kind",
			slog.String("kind", string(envelope.Kind)))
	}

	return true
}

func flushBatches(ctx context.Context) {
	if batch := threadBuffer.GetAndClear(); len(batch) > 0 {
		if err := db.StoreThreadRecords(ctx, batch); err != nil {
			slog.Error("[RecordConsumer] Failed to store thread records",
				slog.Int("count", len(batch)),
				slog.String("error", err.Error()))
			threadBuffer.Add(batch...)
		}
	}

	if batch := commentBuffer.GetAndClear(); len(batch) > 0 {
		if err := db.StoreCommentRecords(ctx, batch); err != nil {
			slog.Error("[RecordConsumer] Failed to store comment records",
				slog.Int("count", len(batch)),
				slog.String("error", err.Error()))
			commentBuffer.Add(batch...)
		}
	}
}
