package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

// GuardConfig tunes one upstream guard.
type GuardConfig struct {
	Name             string
	QPS              float64 // <= 0 = unlimited
	Burst            int
	FailureThreshold uint32        // consecutive failures before the breaker opens
	OpenTimeout      time.Duration // how long the breaker stays open
}

// Guard throttles outbound calls to one upstream and stops calling it for a
// while after repeated failures.
type Guard[T any] struct {
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[T]
}

// NewGuard builds a guard. Zero values fall back to 5 failures / 30s.
func NewGuard[T any](gc GuardConfig) *Guard[T] {
	limit := rate.Inf
	if gc.QPS > 0 {
		limit = rate.Limit(gc.QPS)
	}
	burst := gc.Burst
	if burst <= 0 {
		burst = 1
	}
	threshold := gc.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	timeout := gc.OpenTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        gc.Name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("upstream breaker state changed",
				slog.String("upstream", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
		// Cancellation does not count against the upstream.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
	return &Guard[T]{limiter: rate.NewLimiter(limit, burst), cb: cb}
}

// Do waits for a rate-limit token, then runs fn through the breaker.
// Returns gobreaker.ErrOpenState while the breaker is open.
func (g *Guard[T]) Do(ctx context.Context, fn func() (T, error)) (T, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		var zero T
		return zero, err
	}
	return g.cb.Execute(fn)
}

// State reports the breaker state ("closed", "half-open", "open").
func (g *Guard[T]) State() string {
	return g.cb.State().String()
}
