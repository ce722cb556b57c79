package study

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/anatolykoptev/go_study/internal/engine"
)

func TestClassifyUpstream(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"status 429", &engine.StatusError{StatusCode: 429}, ErrUpstreamQuota},
		{"403 quota body", &engine.StatusError{StatusCode: 403, Body: `{"error":{"errors":[{"reason":"quotaExceeded"}]}}`}, ErrUpstreamQuota},
		{"403 plain", &engine.StatusError{StatusCode: 403, Body: "forbidden"}, ErrUpstreamAuth},
		{"401", &engine.StatusError{StatusCode: 401}, ErrUpstreamAuth},
		{"wrapped status", fmt.Errorf("youtube: %w", &engine.StatusError{StatusCode: 401}), ErrUpstreamAuth},
		{"500", &engine.StatusError{StatusCode: 500, Body: "oops"}, ErrUpstream},
		{"auth text", errors.New("API_KEY_INVALID"), ErrUpstreamAuth},
		{"quota text", errors.New("RESOURCE_EXHAUSTED: quota exceeded for model"), ErrUpstreamQuota},
		{"other", errors.New("connection reset by peer"), ErrUpstream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyUpstream(tt.err)
			assert.ErrorIs(t, got, tt.want)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestClassifyUpstreamPassesContextErrors(t *testing.T) {
	assert.Nil(t, classifyUpstream(nil))
	assert.Equal(t, context.Canceled, classifyUpstream(context.Canceled))

	err := fmt.Errorf("call: %w", context.DeadlineExceeded)
	got := classifyUpstream(err)
	assert.ErrorIs(t, got, context.DeadlineExceeded)
	assert.NotErrorIs(t, got, ErrUpstream)
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr string
	}{
		{"ok", Request{Syllabus: "Unit 1", Subject: "Networks"}, ""},
		{"missing subject", Request{Syllabus: "Unit 1"}, "missing subject"},
		{"blank syllabus", Request{Syllabus: "  \n", Subject: "Networks"}, "missing syllabus"},
		{"both missing", Request{}, "missing syllabus, subject"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
