// go_study: syllabus to study-bundle service.
//
// Extracts topics from a syllabus with one LLM call, then enriches each topic
// with a YouTube tutorial, allow-listed articles and a short generated note.
// Exposes the study_bundle MCP tool and a REST API on a separate port.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_study/internal/engine"
	"github.com/anatolykoptev/go_study/internal/engine/sources"
	"github.com/anatolykoptev/go_study/internal/engine/study"
	"github.com/anatolykoptev/go_study/internal/studyserver"
)

var version = "dev"

func main() {
	cfg := loadConfig()

	pipeline, err := newPipeline(cfg)
	if err != nil {
		slog.Error("pipeline init failed", slog.Any("error", err))
		os.Exit(1)
	}

	cache := engine.NewCache(cfg.RedisURL, cfg.CacheTTL, cfg.CacheMaxEntries, cfg.CacheCleanupInterval)
	defer cache.Close()

	svc := studyserver.NewService(pipeline, cache)

	slog.Info("starting go_study",
		slog.String("mcp_port", cfg.MCPPort),
		slog.String("api_port", cfg.APIPort),
	)

	api := &http.Server{
		Addr: ":" + cfg.APIPort,
		Handler: studyserver.NewRouter(svc, studyserver.MiddlewareConfig{
			CORSAllowedOrigins: cfg.CORSOrigins,
			CORSMaxAge:         86400,
			RateLimitRequests:  cfg.RateLimitRequests,
			RateLimitWindow:    cfg.RateLimitWindow,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      600 * time.Second,
	}
	go func() {
		if err := api.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("rest server failed", slog.Any("error", err))
		}
	}()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = api.Shutdown(ctx)
	}()

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_study",
		Version: version,
	}, nil)

	studyserver.RegisterTools(server, svc)
	slog.Info("tools registered", slog.Int("count", 1))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_study",
		Version:      version,
		Port:         cfg.MCPPort,
		WriteTimeout: 600 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func loadConfig() engine.Config {
	return engine.Config{
		MCPPort: env.Str("MCP_PORT", "8895"),
		APIPort: env.Str("API_PORT", "8000"),

		LLMAPIKey:          env.Str("LLM_API_KEY", ""),
		LLMAPIKeyFallbacks: env.List("LLM_API_KEY_FALLBACKS", ""),
		LLMAPIBase:         env.Str("LLM_API_BASE", "https://generativelanguage.googleapis.com/v1beta/openai"),
		LLMModel:           env.Str("LLM_MODEL", "gemini-2.5-flash"),
		LLMTemperature:     env.Float("LLM_TEMPERATURE", 0.2),
		LLMMaxTokens:       env.Int("LLM_MAX_TOKENS", 4096),

		YouTubeAPIKey:         env.Str("YT_API_KEY", ""),
		YouTubeAPIKeyFallback: env.Str("YT_API_KEY_FALLBACK", ""),
		YouTubeLanguages:      env.List("YT_LANGUAGES", "en,hi"),
		YouTubeQPS:            env.Float("YT_QPS", 5),

		GoogleAPIKey: env.Str("GOOGLE_API_KEY", ""),
		GoogleCX:     env.Str("GOOGLE_CX", ""),
		SearxngURL:   env.Str("SEARXNG_URL", "http://127.0.0.1:8888"),
		SearchQPS:    env.Float("SEARCH_QPS", 5),
		WebResults:   env.Int("WEB_RESULTS", 3),

		TrustedDomains: env.List("TRUSTED_DOMAINS", ""),

		TopicDelay:  env.Duration("TOPIC_DELAY", 100*time.Millisecond),
		CallTimeout: env.Duration("CALL_TIMEOUT", 30*time.Second),

		CORSOrigins:       env.List("CORS_ORIGINS", ""),
		RateLimitRequests: env.Int("RATE_LIMIT_REQUESTS", 30),
		RateLimitWindow:   env.Duration("RATE_LIMIT_WINDOW", time.Minute),

		CacheTTL:             env.Duration("CACHE_TTL", 0),
		CacheMaxEntries:      env.Int("CACHE_MAX_ENTRIES", 500),
		CacheCleanupInterval: env.Duration("CACHE_CLEANUP_INTERVAL", 300*time.Second),
		RedisURL:             env.Str("REDIS_URL", ""),

		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}
}

func newPipeline(c engine.Config) (*study.Pipeline, error) {
	yt, err := sources.NewYouTube(sources.YouTubeConfig{
		APIKey:      c.YouTubeAPIKey,
		FallbackKey: c.YouTubeAPIKeyFallback,
		HTTPClient:  c.HTTPClient,
		QPS:         c.YouTubeQPS,
	})
	if err != nil {
		return nil, err
	}

	web, err := newWebSearcher(c)
	if err != nil {
		return nil, err
	}

	return study.New(study.Deps{
		LLM:    engine.NewLLM(c),
		Videos: yt,
		Web:    web,
	}, study.Options{
		TopicDelay:     c.TopicDelay,
		CallTimeout:    c.CallTimeout,
		WebResults:     c.WebResults,
		Languages:      c.YouTubeLanguages,
		TrustedDomains: c.TrustedDomains,
	})
}

func newWebSearcher(c engine.Config) (study.WebSearcher, error) {
	if c.UseCustomSearch() {
		slog.Info("web search: google custom search")
		return sources.NewCustomSearch(sources.CustomSearchConfig{
			APIKey:     c.GoogleAPIKey,
			CX:         c.GoogleCX,
			HTTPClient: c.HTTPClient,
			QPS:        c.SearchQPS,
		})
	}
	slog.Info("web search: searxng", slog.String("url", c.SearxngURL))
	return sources.NewSearxng(sources.SearxngConfig{
		BaseURL:    c.SearxngURL,
		HTTPClient: c.HTTPClient,
		QPS:        c.SearchQPS,
	})
}
