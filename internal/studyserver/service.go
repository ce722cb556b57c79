// Package studyserver exposes the study pipeline over MCP and REST.
package studyserver

import (
	"context"

	"github.com/anatolykoptev/go_study/internal/engine"
	"github.com/anatolykoptev/go_study/internal/engine/study"
	"github.com/anatolykoptev/go_study/internal/toolutil"
)

// Runner is the study pipeline as seen by the transports.
type Runner interface {
	Run(ctx context.Context, req study.Request) (study.ResultBundle, error)
}

// Service fronts a Runner with the optional bundle cache.
type Service struct {
	runner Runner
	cache  *engine.Cache
}

// NewService wraps runner. cache may be nil.
func NewService(runner Runner, cache *engine.Cache) *Service {
	return &Service{runner: runner, cache: cache}
}

// Bundle returns the bundle for req, from cache when possible.
// Only successful bundles are cached.
func (s *Service) Bundle(ctx context.Context, req study.Request) (study.ResultBundle, error) {
	req = req.Normalize()
	key := engine.CacheKey("study", req.Subject, req.Syllabus)
	if out, ok := toolutil.CacheLoadJSON[study.ResultBundle](ctx, s.cache, key); ok {
		return out, nil
	}

	out, err := s.runner.Run(ctx, req)
	if err != nil {
		return study.ResultBundle{}, err
	}
	toolutil.CacheStoreJSON(ctx, s.cache, key, out)
	return out, nil
}
