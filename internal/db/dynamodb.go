package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/thalesbertaglia/toxmon/internal/clients"
	"github.com/thalesbertaglia/toxmon/internal/models"
)

const (
	THREADS_TABLE_NAME        = "RedditThreads"
	COMMENTS_TABLE_NAME       = "RedditComments"
	CHANNELS_TABLE_NAME       = "YouTubeChannels"
	VIDEOS_TABLE_NAME         = "YouTubeVideos"
	VIDEO_COMMENTS_TABLE_NAME = "YouTubeComments"
)

var dbClient *dynamodb.Client

func InitDynamoDB() {
	dbClient = clients.GetDynamoDBClient()
}

func StoreThreadRecords(ctx context.Context, records []models.ThreadRecord) error {
	return batchWrite(ctx, THREADS_TABLE_NAME, records)
}

func StoreCommentRecords(ctx context.Context, records []models.CommentRecord) error {
	return batchWrite(ctx, COMMENTS_TABLE_NAME, records)
}

func StoreChannelRecords(ctx context.Context, records []models.ChannelRecord) error {
	return batchWrite(ctx, CHANNELS_TABLE_NAME, records)
}

func StoreVideoRecords(ctx context.Context, records []models.VideoRecord) error {
	return batchWrite(ctx, VIDEOS_TABLE_NAME, records)
}

func StoreVideoCommentRecords(ctx context.Context, records []models.VideoCommentRecord) error {
	return batchWrite(ctx, VIDEO_COMMENTS_TABLE_NAME, records)
}

// batchWrite stores records in chunks of the DynamoDB batch limit, retrying
// unprocessed items with backoff before giving up on them.
func batchWrite[T any](ctx context.Context, table string, records []T) error {
	if dbClient == nil {
		dbClient = clients.GetDynamoDBClient()
	}

	const maxBatchSize = 25
	for i := 0; i < len(records); i += maxBatchSize {
		select {
		case <-ctx.Done():
			slog.Warn("[DynamoDB] context canceled")
			return ctx.Err()
		default:
		}

		end := i + maxBatchSize
		if end > len(records) {
			end = len(records)
		}

		writeRequests := make([]types.WriteRequest, 0, maxBatchSize)
		for _, record := range records[i:end] {
			item, err := attributevalue.MarshalMap(record)
			if err != nil {
				return fmt.Errorf("[DynamoDB] Failed to marshal record for %s: %w", table, err)
			}
			writeRequests = append(writeRequests, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: item},
			})
		}

		out, err := dbClient.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				table: writeRequests,
			},
		})
		if err != nil {
			return fmt.Errorf("[DynamoDB] Failed to batch write to %s: %w", table, err)
		}

		retryCount := 0
		backoffDuration := time.Millisecond * 500
		for len(out.UnprocessedItems) > 0 && retryCount < 3 {
			time.Sleep(backoffDuration)
			backoffDuration *= 2
			slog.Warn("[DynamoDB] Retrying unprocessed items...",
				slog.String("table", table),
				slog.Int("retry_attempt", retryCount+1),
				slog.Int("remaining_items", len(out.UnprocessedItems[table])))

			out, err = dbClient.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: out.UnprocessedItems,
			})
			if err != nil {
				return fmt.Errorf("[DynamoDB] Failed to retry batch write to %s: %w", table, err)
			}
			retryCount++
		}

		if len(out.UnprocessedItems) > 0 {
			slog.Error("[DynamoDB] Some items were not written even after retries",
				slog.String("table", table),
				slog.Int("remaining_items", len(out.UnprocessedItems[table])))
		}
	}

	slog.Info("[DynamoDB] Stored records",
		slog.String("table", table),
		slog.Int("count", len(records)))
	return nil
}
