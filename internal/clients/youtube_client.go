package clients

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

var (
	youtubeInstance *YouTubeClient
	youtubeOnce     sync.Once
)

const (
	youtubeVideoPageSize   = 50
	youtubeCommentPageSize = 100
)

var channelParts = []string{"brandingSettings", "contentDetails", "snippet", "statistics", "status", "topicDetails"}

var videoParts = []string{"contentDetails", "snippet", "statistics", "status", "topicDetails"}

type YouTubeClient struct {
	Service *youtube.Service
}

func InitYouTube(ctx context.Context) *YouTubeClient {
	youtubeOnce.Do(func() {
		svc, err := youtube.NewService(ctx, option.WithAPIKey(os.Getenv("YOUTUBE_API_KEY")))
		if err != nil {
			panic(fmt.Errorf("[YouTubeClient] failed to create service: %w", err))
		}

		slog.Info("[YouTubeClient] YouTube Data API service initialized")
		youtubeInstance = &YouTubeClient{Service: svc}
	})
	return youtubeInstance
}

func GetYouTubeClient() *YouTubeClient {
	if youtubeInstance == nil {
		panic("[YouTubeClient] Error: YouTube client is not initialized")
	}
	return youtubeInstance
}

// ChannelInfo fetches full channel metadata for one or more channel IDs.
func (yc *YouTubeClient) ChannelInfo(ctx context.Context, channelIDs []string) ([]*youtube.Channel, error) {
	resp, err := yc.Service.Channels.List(channelParts).
		Id(channelIDs...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("[YouTubeClient] Failed to list channels: %w", err)
	}
	return resp.Items, nil
}

// PlaylistVideos pages through a channel's uploads playlist, up to maxVideos
// entries.
func (yc *YouTubeClient) PlaylistVideos(ctx context.Context, playlistID string, maxVideos int64) ([]*youtube.PlaylistItem, error) {
	var items []*youtube.PlaylistItem
	pageToken := ""

	for {
		call := yc.Service.PlaylistItems.List([]string{"contentDetails", "snippet"}).
			PlaylistId(playlistID).
			MaxResults(youtubeVideoPageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("[YouTubeClient] Failed to list playlist items: %w", err)
		}

		items = append(items, resp.Items...)
		pageToken = resp.NextPageToken
		if pageToken == "" || int64(len(items)) >= maxVideos {
			break
		}
	}

	return items, nil
}

// VideoData fetches a single video's metadata and statistics.
func (yc *YouTubeClient) VideoData(ctx context.Context, videoID string) (*youtube.Video, error) {
	resp, err := yc.Service.Videos.List(videoParts).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("[YouTubeClient] Failed to fetch video %s: %w", videoID, err)
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("[YouTubeClient] Video %s not found", videoID)
	}
	return resp.Items[0], nil
}

// VideoComments pages through a video's top-level comment threads, up to
// maxComments entries.
func (yc *YouTubeClient) VideoComments(ctx context.Context, videoID string, maxComments int64) ([]*youtube.CommentThread, error) {
	var threads []*youtube.CommentThread
	pageToken := ""

	for {
		call := yc.Service.CommentThreads.List([]string{"snippet"}).
			VideoId(videoID).
			MaxResults(youtubeCommentPageSize).
			TextFormat("plainText").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("[YouTubeClient] Failed to list comment threads for %s: %w", videoID, err)
		}

		threads = append(threads, resp.Items...)
		pageToken = resp.NextPageToken
		if pageToken == "" || int64(len(threads)) >= maxComments {
			break
		}
	}

	return threads, nil
}

// ChannelIDForUsername resolves a legacy username to a channel ID. An empty
// result means the username is unknown.
func (yc *YouTubeClient) ChannelIDForUsername(ctx context.Context, username string) (string, error) {
	resp, err := yc.Service.Channels.List([]string{"id"}).
		ForUsername(username).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("[YouTubeClient] Username lookup failed: %w", err)
	}
	if len(resp.Items) == 0 {
		return "", nil
	}
	return resp.Items[0].Id, nil
}

// SearchOneVideo returns the top video search result for a query, or nil when
// nothing matches.
func (yc *YouTubeClient) SearchOneVideo(ctx context.Context, query string) (*youtube.SearchResult, error) {
	resp, err := yc.Service.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("[YouTubeClient] Search failed: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, nil
	}
	return resp.Items[0], nil
}
