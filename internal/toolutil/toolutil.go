// Package toolutil provides shared helpers for the go_study MCP tools and
// REST handlers.
package toolutil

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/anatolykoptev/go_study/internal/engine"
)

// CacheLoadJSON tries to load a cached value of type T from c.
// Returns the decoded value and true on hit; zero value and false on miss,
// decode error or nil cache.
func CacheLoadJSON[T any](ctx context.Context, c *engine.Cache, key string) (T, bool) {
	var zero T
	data, ok := c.Get(ctx, key)
	if !ok {
		return zero, false
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		slog.Debug("cache: decode failed", slog.String("key", key), slog.Any("error", err))
		return zero, false
	}
	return out, true
}

// CacheStoreJSON marshals v and stores it in c. No-op on a nil cache.
func CacheStoreJSON[T any](ctx context.Context, c *engine.Cache, key string, v T) {
	if c == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.Set(ctx, key, data)
}
