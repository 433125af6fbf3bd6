package collector

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/api/youtube/v3"

	"github.com/thalesbertaglia/toxmon/internal/clients"
	"github.com/thalesbertaglia/toxmon/internal/models"
)

// ChannelDataset is the flattened output of one collection run: one record
// per channel, per surviving video, and per top-level video comment.
type ChannelDataset struct {
	Channels []models.ChannelRecord
	Videos   []models.VideoRecord
	Comments []models.VideoCommentRecord
}

// YouTubeCollector walks channels -> uploads playlist -> videos -> comment
// threads via the Data API and flattens everything into records.
type YouTubeCollector struct {
	maxVideos   int64
	maxComments int64

	// dateStart/dateEnd bound video publish dates when hasDateRange is set.
	hasDateRange bool
	dateStart    time.Time
	dateEnd      time.Time
}

// NewYouTubeCollector builds a collector. dateRange is either empty or of the
// form "DD/MM/YYYY-DD/MM/YYYY" (inclusive bounds).
func NewYouTubeCollector(maxVideos, maxComments int64, dateRange string) (*YouTubeCollector, error) {
	c := &YouTubeCollector{
		maxVideos:   maxVideos,
		maxComments: maxComments,
	}

	if dateRange != "" {
		start, end, err := parseDateRange(dateRange)
		if err != nil {
			return nil, err
		}
		c.hasDateRange = true
		c.dateStart = start
		c.dateEnd = end
	}

	return c, nil
}

// RetrieveChannelData collects the full dataset for the given channel IDs.
func (c *YouTubeCollector) RetrieveChannelData(ctx context.Context, channelIDs []string) (*ChannelDataset, error) {
	yt := clients.GetYouTubeClient()

	channels, err := yt.ChannelInfo(ctx, channelIDs)
	if err != nil {
		return nil, err
	}

	dataset := &ChannelDataset{}

	for _, channel := range channels {
		slog.Info("[YouTubeCollector] Processing channel", slog.String("channel_id", channel.Id))
		dataset.Channels = append(dataset.Channels, FlattenChannel(channel))

		if channel.ContentDetails == nil || channel.ContentDetails.RelatedPlaylists == nil {
			slog.Warn("[YouTubeCollector] Channel has no uploads playlist",
				slog.String("channel_id", channel.Id))
			continue
		}

		items, err := yt.PlaylistVideos(ctx, channel.ContentDetails.RelatedPlaylists.Uploads, c.maxVideos)
		if err != nil {
			return nil, err
		}

		for _, item := range items {
			if item.ContentDetails == nil || item.Snippet == nil {
				continue
			}
			if c.hasDateRange && !c.withinDateRange(item.Snippet.PublishedAt) {
				continue
			}

			if err := c.collectVideo(ctx, item.ContentDetails.VideoId, channel.Id, dataset); err != nil {
				slog.Error("[YouTubeCollector] Failed collecting video",
					slog.String("video_id", item.ContentDetails.VideoId),
					slog.String("error", err.Error()))
			}
		}
	}

	return dataset, nil
}

func (c *YouTubeCollector) collectVideo(ctx context.Context, videoID, channelID string, dataset *ChannelDataset) error {
	yt := clients.GetYouTubeClient()

	video, err := yt.VideoData(ctx, videoID)
	if err != nil {
		return err
	}
	dataset.Videos = append(dataset.Videos, FlattenVideo(video))

	if c.maxComments <= 0 || video.Statistics == nil || video.Statistics.CommentCount == 0 {
		dataset.Comments = append(dataset.Comments, models.VideoCommentRecord{
			Text:      "comments disabled",
			VideoID:   videoID,
			ChannelID: channelID,
		})
		return nil
	}

	threads, err := yt.VideoComments(ctx, videoID, c.maxComments)
	if err != nil {
		return err
	}
	for _, thread := range threads {
		dataset.Comments = append(dataset.Comments, FlattenCommentThread(thread, videoID, channelID))
	}
	return nil
}

// ResolveChannelID looks up the channel behind an embedded-media author, as
// extracted from a Reddit thread: first by legacy username, then by searching
// for the author URL. When the search result's channel title disagrees with
// the author name, the ID is returned with an "<UNMATCHED>" prefix so
// downstream joins can quarantine it.
func ResolveChannelID(ctx context.Context, mediaAuthorName, mediaAuthorURL string) (string, error) {
	yt := clients.GetYouTubeClient()

	channelID, err := yt.ChannelIDForUsername(ctx, mediaAuthorName)
	if err != nil {
		return "", err
	}
	if channelID != "" {
		return channelID, nil
	}

	result, err := yt.SearchOneVideo(ctx, mediaAuthorURL)
	if err != nil {
		return "", err
	}
	if result == nil || result.Snippet == nil {
		return "None", nil
	}

	channelID = result.Snippet.ChannelId
	if result.Snippet.ChannelTitle != mediaAuthorName {
		slog.Warn("[YouTubeCollector] Channel title does not match media author name",
			slog.String("channel_title", result.Snippet.ChannelTitle),
			slog.String("media_author_name", mediaAuthorName))
		channelID = "<UNMATCHED>" + channelID
	}
	return channelID, nil
}

// FlattenChannel extracts the relevant channel fields, tolerating any missing
// response part.
func FlattenChannel(channel *youtube.Channel) models.ChannelRecord {
	rec := models.ChannelRecord{ID: channel.Id}

	if channel.Snippet != nil {
		rec.Title = channel.Snippet.Title
		rec.Description = channel.Snippet.Description
		rec.Country = channel.Snippet.Country
		rec.PublishedAt = channel.Snippet.PublishedAt
	}
	if channel.Statistics != nil {
		rec.ViewCount = channel.Statistics.ViewCount
		rec.SubscriberCount = channel.Statistics.SubscriberCount
		rec.VideoCount = channel.Statistics.VideoCount
	}
	if channel.TopicDetails != nil {
		rec.TopicCategories = strings.Join(channel.TopicDetails.TopicCategories, ",")
	}
	if channel.Status != nil {
		rec.MadeForKids = channel.Status.MadeForKids
	}
	if channel.BrandingSettings != nil && channel.BrandingSettings.Channel != nil {
		rec.Keywords = channel.BrandingSettings.Channel.Keywords
	}

	return rec
}

// FlattenVideo extracts the relevant video fields, tolerating any missing
// response part.
func FlattenVideo(video *youtube.Video) models.VideoRecord {
	rec := models.VideoRecord{VideoID: video.Id}

	if video.Snippet != nil {
		rec.Title = video.Snippet.Title
		rec.Description = video.Snippet.Description
		rec.Tags = strings.Join(video.Snippet.Tags, ",")
		rec.CategoryID = video.Snippet.CategoryId
		rec.PublishedAt = video.Snippet.PublishedAt
		rec.Channel = video.Snippet.ChannelTitle
	}
	if video.ContentDetails != nil {
		rec.Duration = video.ContentDetails.Duration
	}
	if video.Status != nil {
		rec.MadeForKids = video.Status.MadeForKids
	}
	if video.Statistics != nil {
		rec.ViewCount = video.Statistics.ViewCount
		rec.LikeCount = video.Statistics.LikeCount
		rec.DislikeCount = video.Statistics.DislikeCount
		rec.FavoriteCount = video.Statistics.FavoriteCount
		rec.CommentCount = video.Statistics.CommentCount
	}
	if video.TopicDetails != nil {
		rec.TopicCategories = strings.Join(video.TopicDetails.TopicCategories, ",")
	}

	return rec
}

// FlattenCommentThread extracts one record from a top-level comment thread.
func FlattenCommentThread(thread *youtube.CommentThread, videoID, channelID string) models.VideoCommentRecord {
	rec := models.VideoCommentRecord{
		ID:        thread.Id,
		VideoID:   videoID,
		ChannelID: channelID,
	}

	if thread.Snippet == nil {
		return rec
	}
	rec.ReplyCount = thread.Snippet.TotalReplyCount

	top := thread.Snippet.TopLevelComment
	if top == nil || top.Snippet == nil {
		return rec
	}

	rec.Text = top.Snippet.TextOriginal
	rec.AuthorName = top.Snippet.AuthorDisplayName
	if top.Snippet.AuthorChannelId != nil {
		rec.AuthorID = top.Snippet.AuthorChannelId.Value
	}
	rec.LikeCount = top.Snippet.LikeCount
	rec.PublishedAt = top.Snippet.PublishedAt
	rec.UpdatedAt = top.Snippet.UpdatedAt

	return rec
}

// parseDateRange parses "DD/MM/YYYY-DD/MM/YYYY" into inclusive day bounds.
func parseDateRange(dateRange string) (time.Time, time.Time, error) {
	parts := strings.Split(dateRange, "-")
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, fmt.Errorf("[YouTubeCollector] Invalid date range %q", dateRange)
	}

	const layout = "02/01/2006"
	start, err := time.Parse(layout, parts[0])
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("[YouTubeCollector] Invalid start date: %w", err)
	}
	end, err := time.Parse(layout, parts[1])
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("[YouTubeCollector] Invalid end date: %w", err)
	}
	return start, end, nil
}

// withinDateRange reports whether an RFC 3339 publish timestamp falls inside
// the collector's day window. Unparseable timestamps are excluded.
func (c *YouTubeCollector) withinDateRange(publishedAt string) bool {
	ts, err := time.Parse(time.RFC3339, publishedAt)
	if err != nil {
		return false
	}
	day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(c.dateStart) && !day.After(c.dateEnd)
}
