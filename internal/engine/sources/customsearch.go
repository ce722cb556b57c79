package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/anatolykoptev/go_study/internal/engine"
)

const customSearchBase = "https://www.googleapis.com/customsearch/v1"

type cseResponse struct {
	Items []cseItem `json:"items"`
}

type cseItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Snippet     string `json:"snippet"`
	DisplayLink string `json:"displayLink"`
}

// CustomSearchConfig configures CustomSearchClient.
type CustomSearchConfig struct {
	APIKey     string
	CX         string
	BaseURL    string
	HTTPClient *http.Client
	QPS        float64
	Retry      *engine.RetryConfig
}

// CustomSearchClient is the web-search capability backed by the Google
// Custom Search JSON API.
type CustomSearchClient struct {
	baseURL string
	apiKey  string
	cx      string
	http    *http.Client
	retry   engine.RetryConfig
	guard   *engine.Guard[[]engine.WebResult]
}

// NewCustomSearch builds a client. Both the API key and the engine ID are required.
func NewCustomSearch(c CustomSearchConfig) (*CustomSearchClient, error) {
	if c.APIKey == "" || c.CX == "" {
		return nil, fmt.Errorf("customsearch: API key and cx are required")
	}
	base := c.BaseURL
	if base == "" {
		base = customSearchBase
	}
	hc := c.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	rc := engine.DefaultRetryConfig
	if c.Retry != nil {
		rc = *c.Retry
	}
	return &CustomSearchClient{
		baseURL: base,
		apiKey:  c.APIKey,
		cx:      c.CX,
		http:    hc,
		retry:   rc,
		guard:   engine.NewGuard[[]engine.WebResult](engine.GuardConfig{Name: "customsearch", QPS: c.QPS, Burst: 1}),
	}, nil
}

// SearchWeb returns up to n results (the API caps num at 10).
// An empty "items" field means no results, not an error.
func (c *CustomSearchClient) SearchWeb(ctx context.Context, query string, n int) ([]engine.WebResult, error) {
	engine.IncrWebSearchRequests()
	if n <= 0 || n > 10 {
		n = 10
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("key", c.apiKey)
	params.Set("cx", c.cx)
	params.Set("num", strconv.Itoa(n))
	apiURL := c.baseURL + "?" + params.Encode()

	return c.guard.Do(ctx, func() ([]engine.WebResult, error) {
		resp, err := engine.RetryHTTP(ctx, c.retry, func() (*http.Response, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
			if err != nil {
				return nil, err
			}
			req.Header.Set("User-Agent", engine.UserAgentBot)
			return c.http.Do(req)
		})
		if err != nil {
			return nil, fmt.Errorf("custom search: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("custom search: %w", engine.NewStatusError(resp))
		}
		defer resp.Body.Close()

		var data cseResponse
		if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
			return nil, fmt.Errorf("decode custom search: %w", err)
		}

		out := make([]engine.WebResult, 0, len(data.Items))
		for _, it := range data.Items {
			display := it.DisplayLink
			if display == "" {
				display = engine.HostOf(it.Link)
			}
			out = append(out, engine.WebResult{
				Title:       it.Title,
				Link:        it.Link,
				Snippet:     it.Snippet,
				DisplayLink: display,
			})
		}
		if len(out) > n {
			out = out[:n]
		}
		return out, nil
	})
}
