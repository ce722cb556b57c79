package sources

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/anatolykoptev/go_study/internal/engine"
)

var noRetry = &engine.RetryConfig{MaxRetries: 0, InitialWait: time.Millisecond, MaxWait: time.Millisecond, Multiplier: 1}

func TestYouTubeSearchParams(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("path = %q, want /search", r.URL.Path)
		}
		got = r.URL.Query()
		_, _ = w.Write([]byte(`{"items":[{"id":{"videoId":"abc123def45"},"snippet":{"title":"OSI model explained","channelTitle":"NetChan"}}]}`))
	}))
	defer srv.Close()

	yt, err := NewYouTube(YouTubeConfig{APIKey: "k1", BaseURL: srv.URL, Retry: noRetry})
	if err != nil {
		t.Fatal(err)
	}
	videos, err := yt.SearchVideos(context.Background(), engine.VideoQuery{
		Query:      "OSI model tutorial explanation",
		MaxResults: 1,
		Order:      "viewCount",
		Language:   "en",
		Embeddable: true,
	})
	if err != nil {
		t.Fatalf("SearchVideos: %v", err)
	}

	want := map[string]string{
		"part":              "snippet",
		"q":                 "OSI model tutorial explanation",
		"type":              "video",
		"maxResults":        "1",
		"key":               "k1",
		"order":             "viewCount",
		"relevanceLanguage": "en",
		"videoEmbeddable":   "true",
	}
	for k, v := range want {
		if got.Get(k) != v {
			t.Errorf("param %s = %q, want %q", k, got.Get(k), v)
		}
	}

	if len(videos) != 1 {
		t.Fatalf("expected 1 video, got %d", len(videos))
	}
	if videos[0].EmbedURL != "https://www.youtube.com/embed/abc123def45" {
		t.Errorf("EmbedURL = %q", videos[0].EmbedURL)
	}
	if videos[0].Channel != "NetChan" {
		t.Errorf("Channel = %q", videos[0].Channel)
	}
}

func TestYouTubeNoItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	yt, _ := NewYouTube(YouTubeConfig{APIKey: "k1", BaseURL: srv.URL, Retry: noRetry})
	videos, err := yt.SearchVideos(context.Background(), engine.VideoQuery{Query: "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(videos) != 0 {
		t.Errorf("expected no videos, got %d", len(videos))
	}
}

func TestYouTubeFallbackKeyOnQuota(t *testing.T) {
	var mu sync.Mutex
	var keys []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Query().Get("key")
		mu.Lock()
		keys = append(keys, key)
		mu.Unlock()
		if key == "primary" {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":{"errors":[{"reason":"quotaExceeded"}]}}`))
			return
		}
		_, _ = w.Write([]byte(`{"items":[{"id":{"videoId":"zzzzzzzzzzz"}}]}`))
	}))
	defer srv.Close()

	yt, _ := NewYouTube(YouTubeConfig{APIKey: "primary", FallbackKey: "backup", BaseURL: srv.URL, Retry: noRetry})
	videos, err := yt.SearchVideos(context.Background(), engine.VideoQuery{Query: "x"})
	if err != nil {
		t.Fatalf("expected fallback to succeed, got %v", err)
	}
	if len(videos) != 1 {
		t.Fatalf("expected 1 video, got %d", len(videos))
	}
	if len(keys) != 2 || keys[0] != "primary" || keys[1] != "backup" {
		t.Errorf("key order = %v, want [primary backup]", keys)
	}
}

func TestYouTubeNoFallbackOnBadRequest(t *testing.T) {
	var mu sync.Mutex
	var keys []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		keys = append(keys, r.URL.Query().Get("key"))
		mu.Unlock()
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"errors":[{"reason":"invalidParameter"}]}}`))
	}))
	defer srv.Close()

	yt, _ := NewYouTube(YouTubeConfig{APIKey: "primary", FallbackKey: "backup", BaseURL: srv.URL, Retry: noRetry})
	_, err := yt.SearchVideos(context.Background(), engine.VideoQuery{Query: "x"})
	var se *engine.StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 StatusError, got %v", err)
	}
	if len(keys) != 1 || keys[0] != "primary" {
		t.Errorf("keys tried = %v, want [primary]", keys)
	}
}

func TestYouTubeQuotaErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"errors":[{"reason":"quotaExceeded"}]}}`))
	}))
	defer srv.Close()

	yt, _ := NewYouTube(YouTubeConfig{APIKey: "only", BaseURL: srv.URL, Retry: noRetry})
	_, err := yt.SearchVideos(context.Background(), engine.VideoQuery{Query: "x"})
	var se *engine.StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *engine.StatusError, got %v", err)
	}
	if se.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403", se.StatusCode)
	}
}

func TestNewYouTubeRequiresKey(t *testing.T) {
	if _, err := NewYouTube(YouTubeConfig{}); err == nil {
		t.Error("expected error without API key")
	}
}
