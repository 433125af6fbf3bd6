package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	REDDIT_AUTH_URL = "https://www.reddit.com/api/v1/access_token"
	REDDIT_API_URL  = "https://oauth.reddit.com"

	// Reddit caps listing pages at 100 items.
	redditPageSize = 100
)

var (
	redditClientInstance *RedditClient
	redditClientOnce     sync.Once
	redditRateLimitMutex sync.Mutex
)

type RedditClient struct {
	Config *clientcredentials.Config
	Client *http.Client
	mu     *sync.Mutex
}

func GetRedditClient() *RedditClient {
	redditClientOnce.Do(func() {
		oauthConf := &clientcredentials.Config{
			ClientID:     os.Getenv("REDDIT_CLIENT_ID"),
			ClientSecret: os.Getenv("REDDIT_CLIENT_SECRET"),
			TokenURL:     REDDIT_AUTH_URL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		}

		redditClientInstance = &RedditClient{
			Config: oauthConf,
			Client: oauthConf.Client(context.Background()),
			mu:     &sync.Mutex{},
		}
	})

	return redditClientInstance
}

func (rc *RedditClient) RefreshClient() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.Client = rc.Config.Client(context.Background())
}

type listingEnvelope struct {
	Data struct {
		After    string `json:"after"`
		Children []struct {
			Data json.RawMessage `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// FetchSubredditListing retrieves up to limit submission documents from a
// subreddit listing, following the listing cursor across pages. sort is one
// of top, hot, new, rising or controversial; timeFilter applies only to top
// and controversial.
func (rc *RedditClient) FetchSubredditListing(ctx context.Context, subreddit, sort, timeFilter string, limit int) ([]json.RawMessage, error) {
	var submissions []json.RawMessage
	after := ""

	for len(submissions) < limit {
		parsedUrl, err := url.Parse(fmt.Sprintf("%s/r/%s/%s", REDDIT_API_URL, subreddit, sort))
		if err != nil {
			return nil, fmt.Errorf("[RedditClient] Failed to parse URL: %w", err)
		}

		queryParams := parsedUrl.Query()
		queryParams.Add("limit", strconv.Itoa(redditPageSize))
		queryParams.Add("raw_json", "1")
		if sort == "top" || sort == "controversial" {
			queryParams.Add("t", timeFilter)
		}
		if after != "" {
			queryParams.Add("after", after)
		}
		parsedUrl.RawQuery = queryParams.Encode()

		body, err := rc.doGet(ctx, parsedUrl.String())
		if err != nil {
			return nil, err
		}

		var listing listingEnvelope
		if err := json.Unmarshal(body, &listing); err != nil {
			return nil, fmt.Errorf("[RedditClient] Failed to decode listing: %w", err)
		}

		for _, child := range listing.Data.Children {
			submissions = append(submissions, child.Data)
			if len(submissions) >= limit {
				break
			}
		}

		if listing.Data.After == "" || len(listing.Data.Children) == 0 {
			break
		}
		after = listing.Data.After
	}

	return submissions, nil
}

// FetchCommentTree retrieves the raw comments payload for a single thread:
// the API's two-listing response (submission first, comment forest second),
// returned undecoded for the collector to normalize.
func (rc *RedditClient) FetchCommentTree(ctx context.Context, subreddit, threadID string) (json.RawMessage, error) {
	parsedUrl, err := url.Parse(fmt.Sprintf("%s/r/%s/comments/%s", REDDIT_API_URL, subreddit, threadID))
	if err != nil {
		return nil, fmt.Errorf("[RedditClient] Failed to parse URL: %w", err)
	}

	queryParams := parsedUrl.Query()
	queryParams.Add("limit", "500")
	queryParams.Add("raw_json", "1")
	parsedUrl.RawQuery = queryParams.Encode()

	return rc.doGet(ctx, parsedUrl.String())
}

func (rc *RedditClient) doGet(ctx context.Context, requestURL string) ([]byte, error) {
	backoff := INITIAL_BACKOFF

	for attempt := 1; attempt <= MAX_RETRIES; attempt++ {
		redditRateLimitMutex.Lock()
		time.Sleep(INITIAL_BACKOFF)
		redditRateLimitMutex.Unlock()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", USER_AGENT)

		resp, err := rc.Client.Do(req)
		if err != nil {
			return nil, err
		}

		switch resp.StatusCode {
		case http.StatusOK:
			bytes, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return nil, err
			}
			return bytes, nil

		case http.StatusUnauthorized:
			resp.Body.Close()
			slog.Warn("[RedditClient] Token expired - Refreshing and Retrying...")
			rc.RefreshClient()

		case http.StatusTooManyRequests:
			resp.Body.Close()
			slog.Warn("[RedditClient] 429 Too Many Requests - Retrying with backoff",
				slog.Int("attempt", attempt),
				slog.Duration("backoff", backoff))

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}

			backoff *= 2
			if backoff > MAX_BACKOFF {
				backoff = MAX_BACKOFF
			}

		default:
			resp.Body.Close()
			return nil, fmt.Errorf("[RedditClient] Unexpected status %d for %s", resp.StatusCode, requestURL)
		}
	}

	return nil, fmt.Errorf("[RedditClient] Max retries reached request failed")
}
