package engine

import (
	"context"
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/llm"
)

// LLM is the generative-text capability: one prompt in, one text out.
// It wraps the OpenAI-compatible go-kit client (Gemini by default) and
// counts calls and errors.
type LLM struct {
	client *llm.Client
}

// NewLLM builds the completion client from the LLM_* settings.
func NewLLM(c Config) *LLM {
	hc := &http.Client{Timeout: 60 * time.Second}
	client := llm.NewClient(c.LLMAPIBase, c.LLMAPIKey, c.LLMModel,
		llm.WithFallbackKeys(c.LLMAPIKeyFallbacks),
		llm.WithMaxTokens(c.LLMMaxTokens),
		llm.WithTemperature(c.LLMTemperature),
		llm.WithHTTPClient(hc),
	)
	return &LLM{client: client}
}

// Complete sends prompt as a single user message and returns the raw
// response text. The response is not cleaned up; callers decide how strict
// to be about its shape.
func (l *LLM) Complete(ctx context.Context, prompt string) (string, error) {
	metrics.LLMCalls.Add(1)
	resp, err := l.client.Complete(ctx, "", prompt)
	if err != nil {
		metrics.LLMErrors.Add(1)
		return "", err
	}
	return resp, nil
}
