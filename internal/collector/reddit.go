package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/thalesbertaglia/toxmon/internal/clients"
	"github.com/thalesbertaglia/toxmon/internal/clients/kafka_client"
	"github.com/thalesbertaglia/toxmon/internal/models"
)

// RedditCollector fetches subreddit listings and full comment trees, archives
// the raw JSON on disk and publishes each document to Kafka for the record
// writer. Collection state lives in the checkpoint file and the Valkey
// dedupe set; the collector itself is restartable at any point.
type RedditCollector struct {
	dataDir     string
	threadsDir  string
	commentsDir string
	checkpoints *CheckpointStore
	client      *clients.RedditClient
}

func NewRedditCollector(dataDir string) (*RedditCollector, error) {
	threadsDir := filepath.Join(dataDir, "threads")
	commentsDir := filepath.Join(dataDir, "comments")
	for _, dir := range []string{threadsDir, commentsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("[RedditCollector] Failed to create %s: %w", dir, err)
		}
	}

	return &RedditCollector{
		dataDir:     dataDir,
		threadsDir:  threadsDir,
		commentsDir: commentsDir,
		checkpoints: NewCheckpointStore(dataDir),
		client:      clients.GetRedditClient(),
	}, nil
}

// RetrieveThreads collects up to limit submissions from a subreddit listing,
// resuming from the stored checkpoint. A failure on one submission is logged
// and skipped; it never aborts the run.
func (c *RedditCollector) RetrieveThreads(ctx context.Context, subreddit, sort, timeFilter string, limit int) error {
	lastProcessed, err := c.checkpoints.Load(subreddit, sort, timeFilter)
	if err != nil {
		return err
	}

	submissions, err := c.client.FetchSubredditListing(ctx, subreddit, sort, timeFilter, limit)
	if err != nil {
		return fmt.Errorf("[RedditCollector] Failed to fetch listing for r/%s: %w", subreddit, err)
	}

	slog.Info("[RedditCollector] Fetched subreddit listing",
		slog.String("subreddit", subreddit),
		slog.String("sort", sort),
		slog.Int("count", len(submissions)),
		slog.Int("resume_index", lastProcessed))

	for i := lastProcessed; i < len(submissions); i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := c.processSubmission(ctx, subreddit, submissions[i]); err != nil {
			slog.Error("[RedditCollector] Failed processing submission",
				slog.String("subreddit", subreddit),
				slog.Int("index", i),
				slog.String("error", err.Error()))
		}

		if err := c.checkpoints.Save(subreddit, sort, timeFilter, i); err != nil {
			slog.Warn("[RedditCollector] Failed to save checkpoint",
				slog.String("error", err.Error()))
		}
	}

	slog.Info("[RedditCollector] Finished listing",
		slog.String("subreddit", subreddit),
		slog.String("sort", sort))
	return nil
}

func (c *RedditCollector) processSubmission(ctx context.Context, subreddit string, raw json.RawMessage) error {
	var meta struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &meta); err != nil || meta.ID == "" {
		return fmt.Errorf("[RedditCollector] Submission without usable id")
	}

	dedupeKey := fmt.Sprintf("%s:%s", subreddit, meta.ID)
	if clients.GetValkeyClient().IsCollected(ctx, "reddit", dedupeKey) {
		return nil
	}

	threadFile := fmt.Sprintf("%s_%s.json", subreddit, meta.ID)
	if err := c.archive(c.threadsDir, threadFile, raw); err != nil {
		return err
	}

	if err := c.publish(kafka_client.KAFKA_TOPIC_RAW_THREADS, models.RawDocumentEnvelope{
		Kind:        models.RawKindThread,
		Subreddit:   subreddit,
		ThreadID:    meta.ID,
		RetrievedAt: time.Now().UTC(),
		Payload:     raw,
	}); err != nil {
		return err
	}

	body, err := c.client.FetchCommentTree(ctx, subreddit, meta.ID)
	if err != nil {
		return err
	}

	forest, err := NormalizeCommentListing(body)
	if err != nil {
		return err
	}

	forestJSON, err := json.Marshal(forest)
	if err != nil {
		return fmt.Errorf("[RedditCollector] Failed to encode comment forest: %w", err)
	}

	commentsFile := fmt.Sprintf("%s_%s_comments.json", subreddit, meta.ID)
	if err := c.archive(c.commentsDir, commentsFile, forestJSON); err != nil {
		return err
	}

	if err := c.publish(kafka_client.KAFKA_TOPIC_RAW_COMMENTS, models.RawDocumentEnvelope{
		Kind:        models.RawKindComments,
		Subreddit:   subreddit,
		ThreadID:    meta.ID,
		RetrievedAt: time.Now().UTC(),
		Payload:     forestJSON,
	}); err != nil {
		return err
	}

	if err := clients.GetValkeyClient().MarkCollected(ctx, "reddit", dedupeKey); err != nil {
		slog.Warn("[RedditCollector] Error marking thread as collected",
			slog.String("thread_id", meta.ID),
			slog.String("error", err.Error()))
	}

	return nil
}

// archive writes a raw document to the data directory, indented for eyeball
// debugging of individual threads.
func (c *RedditCollector) archive(dir, filename string, raw []byte) error {
	var indented bytes.Buffer
	if err := json.Indent(&indented, raw, "", "    "); err != nil {
		return fmt.Errorf("[RedditCollector] Refusing to archive invalid JSON: %w", err)
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, indented.Bytes(), 0o644); err != nil {
		return fmt.Errorf("[RedditCollector] Failed to write %s: %w", path, err)
	}
	return nil
}

func (c *RedditCollector) publish(topic string, envelope models.RawDocumentEnvelope) error {
	for i := 0; i < 3; i++ {
		err := kafka_client.PublishToKafka(topic, envelope.ThreadID, envelope)
		if err == nil {
			return nil
		}
		slog.Warn("[RedditCollector] Publish failed, retrying...",
			slog.String("topic", topic),
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))
		time.Sleep(2 * time.Second)
	}
	return fmt.Errorf("[RedditCollector] Failed to publish %s document for %s", topic, envelope.ThreadID)
}

// NormalizeCommentListing converts the Reddit comments endpoint response (a
// pair of listings: submission, then comment forest) into the nested shape
// the flattener consumes: plain comment objects whose "replies" key is always
// a list. "more" stubs are dropped; the collector does not chase them.
func NormalizeCommentListing(payload []byte) ([]map[string]any, error) {
	var listings []struct {
		Data struct {
			Children []struct {
				Kind string         `json:"kind"`
				Data map[string]any `json:"data"`
			} `json:"children"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &listings); err != nil {
		return nil, fmt.Errorf("[RedditCollector] Failed to decode comments response: %w", err)
	}
	if len(listings) < 2 {
		return nil, fmt.Errorf("[RedditCollector] Comments response has no comment listing")
	}

	forest := make([]map[string]any, 0, len(listings[1].Data.Children))
	for _, child := range listings[1].Data.Children {
		if child.Kind != "t1" || child.Data == nil {
			continue
		}
		forest = append(forest, normalizeCommentNode(child.Data))
	}
	return forest, nil
}

func normalizeCommentNode(node map[string]any) map[string]any {
	normalized := make([]any, 0)

	// replies is either an empty string or a nested listing
	if nested, ok := node["replies"].(map[string]any); ok {
		data, _ := nested["data"].(map[string]any)
		children, _ := data["children"].([]any)
		for _, c := range children {
			cm, ok := c.(map[string]any)
			if !ok {
				continue
			}
			if kind, _ := cm["kind"].(string); kind != "t1" {
				continue
			}
			cd, ok := cm["data"].(map[string]any)
			if !ok {
				continue
			}
			normalized = append(normalized, normalizeCommentNode(cd))
		}
	}

	node["replies"] = normalized
	return node
}
