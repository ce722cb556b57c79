package engine

import (
	"net/http"
	"time"
)

// Config holds all service configuration, read once in main and injected
// into the clients and the study pipeline. Nothing in the engine keeps a
// package-level copy of it.
type Config struct {
	MCPPort string
	APIPort string

	LLMAPIKey          string
	LLMAPIKeyFallbacks []string
	LLMAPIBase         string
	LLMModel           string
	LLMTemperature     float64
	LLMMaxTokens       int

	YouTubeAPIKey         string
	YouTubeAPIKeyFallback string
	YouTubeLanguages      []string // relevanceLanguage, tried in order on empty results
	YouTubeQPS            float64

	GoogleAPIKey string // Custom Search JSON API; empty = SearXNG backend
	GoogleCX     string
	SearxngURL   string
	SearchQPS    float64
	WebResults   int

	TrustedDomains []string // empty = built-in allow-list

	TopicDelay  time.Duration
	CallTimeout time.Duration

	CORSOrigins       []string
	RateLimitRequests int
	RateLimitWindow   time.Duration

	CacheTTL             time.Duration // 0 = bundle cache disabled
	CacheMaxEntries      int
	CacheCleanupInterval time.Duration
	RedisURL             string

	HTTPClient *http.Client
}

// UseCustomSearch reports whether the Google Custom Search backend is configured.
func (c Config) UseCustomSearch() bool {
	return c.GoogleAPIKey != "" && c.GoogleCX != ""
}
