package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/anatolykoptev/go_study/internal/engine"
)

type searxngResult struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	URL     string  `json:"url"`
	Score   float64 `json:"score"`
}

type searxngResponse struct {
	Results []searxngResult `json:"results"`
}

// SearxngConfig configures SearxngClient.
type SearxngConfig struct {
	BaseURL    string
	Language   string // empty = all
	Engines    string // comma-separated; empty = instance default
	HTTPClient *http.Client
	QPS        float64
	Retry      *engine.RetryConfig
}

// SearxngClient is the web-search capability backed by a SearXNG instance.
// Used when no Custom Search credentials are configured.
type SearxngClient struct {
	baseURL  string
	language string
	engines  string
	http     *http.Client
	retry    engine.RetryConfig
	guard    *engine.Guard[[]engine.WebResult]
}

// NewSearxng builds a client for the instance at c.BaseURL.
func NewSearxng(c SearxngConfig) (*SearxngClient, error) {
	if c.BaseURL == "" {
		return nil, fmt.Errorf("searxng: base URL is required")
	}
	hc := c.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	rc := engine.DefaultRetryConfig
	if c.Retry != nil {
		rc = *c.Retry
	}
	return &SearxngClient{
		baseURL:  strings.TrimRight(c.BaseURL, "/"),
		language: c.Language,
		engines:  c.Engines,
		http:     hc,
		retry:    rc,
		guard:    engine.NewGuard[[]engine.WebResult](engine.GuardConfig{Name: "searxng", QPS: c.QPS, Burst: 2}),
	}, nil
}

// SearchWeb queries the instance and returns the first n results with their
// URL host as display link.
func (c *SearxngClient) SearchWeb(ctx context.Context, query string, n int) ([]engine.WebResult, error) {
	engine.IncrWebSearchRequests()
	u, err := url.Parse(c.baseURL + "/search")
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("format", "json")
	if c.language != "" && c.language != "all" {
		q.Set("language", c.language)
	}
	if c.engines != "" {
		q.Set("engines", c.engines)
	}
	u.RawQuery = q.Encode()
	searchURL := u.String()

	return c.guard.Do(ctx, func() ([]engine.WebResult, error) {
		resp, err := engine.RetryHTTP(ctx, c.retry, func() (*http.Response, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
			if err != nil {
				return nil, err
			}
			req.Header.Set("User-Agent", engine.UserAgentBot)
			return c.http.Do(req)
		})
		if err != nil {
			return nil, fmt.Errorf("searxng: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("searxng: %w", engine.NewStatusError(resp))
		}
		defer resp.Body.Close()

		var data searxngResponse
		if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
			return nil, fmt.Errorf("decode searxng: %w", err)
		}

		out := make([]engine.WebResult, 0, len(data.Results))
		seen := make(map[string]bool)
		for _, r := range data.Results {
			if r.URL == "" || seen[r.URL] {
				continue
			}
			seen[r.URL] = true
			out = append(out, engine.WebResult{
				Title:       r.Title,
				Link:        r.URL,
				Snippet:     engine.TruncateRunes(r.Content, 300, "..."),
				DisplayLink: engine.HostOf(r.URL),
			})
			if n > 0 && len(out) == n {
				break
			}
		}
		return out, nil
	})
}
