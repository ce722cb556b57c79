package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/anatolykoptev/go_study/internal/engine"
)

// YouTube search via the Data API v3.

const (
	ytDataAPIBase = "https://www.googleapis.com/youtube/v3"
	ytEmbedBase   = "https://www.youtube.com/embed/"
	ytWatchBase   = "https://www.youtube.com/watch?v="
)

// --- YouTube Data API v3 types ---

type ytDataSearchResp struct {
	Items []ytDataItem `json:"items"`
}

type ytDataItem struct {
	ID      ytDataItemID      `json:"id"`
	Snippet ytDataItemSnippet `json:"snippet"`
}

type ytDataItemID struct {
	VideoID string `json:"videoId"`
}

type ytDataItemSnippet struct {
	Title        string `json:"title"`
	ChannelTitle string `json:"channelTitle"`
}

// YouTubeConfig configures YouTubeClient.
type YouTubeConfig struct {
	APIKey      string
	FallbackKey string // tried when the primary key fails (quota, revoked)
	BaseURL     string // default: Data API v3
	HTTPClient  *http.Client
	QPS         float64
	Retry       *engine.RetryConfig // nil = engine.DefaultRetryConfig
}

// YouTubeClient is the video-search capability.
type YouTubeClient struct {
	baseURL string
	keys    []string
	http    *http.Client
	retry   engine.RetryConfig
	guard   *engine.Guard[[]engine.Video]
}

// NewYouTube builds a client. Returns an error when no API key is set.
func NewYouTube(c YouTubeConfig) (*YouTubeClient, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("youtube: API key is required")
	}
	keys := []string{c.APIKey}
	if c.FallbackKey != "" {
		keys = append(keys, c.FallbackKey)
	}
	base := c.BaseURL
	if base == "" {
		base = ytDataAPIBase
	}
	hc := c.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	rc := engine.DefaultRetryConfig
	if c.Retry != nil {
		rc = *c.Retry
	}
	return &YouTubeClient{
		baseURL: base,
		keys:    keys,
		http:    hc,
		retry:   rc,
		guard:   engine.NewGuard[[]engine.Video](engine.GuardConfig{Name: "youtube", QPS: c.QPS, Burst: 1}),
	}, nil
}

// SearchVideos runs one search.list call. Falls back to the secondary key
// when the primary one is rejected (401, 403 or 429: invalid, revoked or
// out of quota). Other errors are returned as is.
func (c *YouTubeClient) SearchVideos(ctx context.Context, q engine.VideoQuery) ([]engine.Video, error) {
	engine.IncrYouTubeRequests()
	return c.guard.Do(ctx, func() ([]engine.Video, error) {
		var lastErr error
		for i, key := range c.keys {
			videos, err := c.search(ctx, q, key)
			if err == nil {
				return videos, nil
			}
			lastErr = err
			if ctx.Err() != nil || !keyRejected(err) {
				break
			}
			if i < len(c.keys)-1 {
				slog.Debug("youtube data API key failed, trying fallback", slog.Any("error", err))
			}
		}
		return nil, lastErr
	})
}

// keyRejected reports whether err means the API key itself was refused.
func keyRejected(err error) bool {
	var se *engine.StatusError
	if !errors.As(err, &se) {
		return false
	}
	switch se.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests:
		return true
	}
	return false
}

func (c *YouTubeClient) search(ctx context.Context, q engine.VideoQuery, apiKey string) ([]engine.Video, error) {
	limit := q.MaxResults
	if limit <= 0 || limit > 50 {
		limit = 1
	}
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", q.Query)
	params.Set("type", "video")
	params.Set("maxResults", strconv.Itoa(limit))
	params.Set("key", apiKey)
	if q.Order != "" {
		params.Set("order", q.Order)
	}
	if q.Language != "" && q.Language != "all" {
		params.Set("relevanceLanguage", q.Language)
	}
	if q.Embeddable {
		params.Set("videoEmbeddable", "true")
	}

	apiURL := c.baseURL + "/search?" + params.Encode()
	resp, err := engine.RetryHTTP(ctx, c.retry, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentBot)
		return c.http.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("youtube data API: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("youtube data API: %w", engine.NewStatusError(resp))
	}
	defer resp.Body.Close()

	var result ytDataSearchResp
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode youtube data API: %w", err)
	}

	videos := make([]engine.Video, 0, len(result.Items))
	for _, item := range result.Items {
		if item.ID.VideoID == "" {
			continue
		}
		videos = append(videos, engine.Video{
			ID:       item.ID.VideoID,
			Title:    item.Snippet.Title,
			Channel:  item.Snippet.ChannelTitle,
			URL:      ytWatchBase + item.ID.VideoID,
			EmbedURL: ytEmbedBase + item.ID.VideoID,
		})
	}
	return videos, nil
}
