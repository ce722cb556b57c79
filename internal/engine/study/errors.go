package study

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/anatolykoptev/go_study/internal/engine"
)

// Caller-visible failures. Per-topic failures never leave the pipeline;
// they are reported through StepResult instead.
var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrMalformedModelOutput = errors.New("malformed model output")
	ErrUpstreamAuth         = errors.New("upstream authentication failed")
	ErrUpstreamQuota        = errors.New("upstream quota exceeded")
	ErrUpstream             = errors.New("upstream failure")
)

func invalidInput(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, strings.ToLower(fe.Field()))
		}
		return fmt.Errorf("%w: missing %s", ErrInvalidInput, strings.Join(fields, ", "))
	}
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}

var (
	authMarkers = []string{
		"api_key_invalid", "api key not valid", "invalid api key", "invalid_api_key",
		"unauthorized", "unauthenticated", "permission_denied", "status 401",
	}
	quotaMarkers = []string{
		"quotaexceeded", "quota exceeded", "resource_exhausted", "ratelimitexceeded",
		"rate limit", "too many requests", "status 429",
	}
)

// classifyUpstream maps a raw capability error onto the caller-visible
// taxonomy: auth, quota, or generic upstream failure. Context errors pass
// through unchanged.
func classifyUpstream(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var se *engine.StatusError
	if errors.As(err, &se) {
		body := strings.ToLower(se.Body)
		switch {
		case se.StatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("%w: %w", ErrUpstreamQuota, err)
		case se.StatusCode == http.StatusForbidden && containsAny(body, quotaMarkers):
			return fmt.Errorf("%w: %w", ErrUpstreamQuota, err)
		case se.StatusCode == http.StatusUnauthorized, se.StatusCode == http.StatusForbidden:
			return fmt.Errorf("%w: %w", ErrUpstreamAuth, err)
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, authMarkers):
		return fmt.Errorf("%w: %w", ErrUpstreamAuth, err)
	case containsAny(msg, quotaMarkers):
		return fmt.Errorf("%w: %w", ErrUpstreamQuota, err)
	}
	return fmt.Errorf("%w: %w", ErrUpstream, err)
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
