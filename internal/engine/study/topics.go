package study

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anatolykoptev/go_study/internal/engine"
)

// Extractor turns a syllabus into a topic list with one model call.
type Extractor struct {
	llm     Completer
	timeout time.Duration
}

// NewExtractor returns an extractor bounded by timeout per call (0 = none).
func NewExtractor(llm Completer, timeout time.Duration) *Extractor {
	return &Extractor{llm: llm, timeout: timeout}
}

// Extract calls the model once and parses its answer with ParseTopics.
// Model errors are classified (auth/quota/upstream); an unparsable answer
// is ErrMalformedModelOutput.
func (e *Extractor) Extract(ctx context.Context, syllabus, subject string) ([]string, error) {
	callCtx, cancel := withTimeout(ctx, e.timeout)
	defer cancel()

	raw, err := e.llm.Complete(callCtx, engine.TopicPrompt(syllabus, subject))
	if err != nil {
		return nil, classifyUpstream(err)
	}

	topics, err := ParseTopics(raw)
	if err != nil {
		slog.Warn("study: topic extraction unparsable",
			slog.String("subject", subject),
			slog.String("raw", engine.TruncateRunes(raw, 200, "...")),
			slog.Any("error", err),
		)
		return nil, err
	}
	return topics, nil
}

// ParseTopics parses a model answer that must be a JSON array of strings.
// Only surrounding whitespace is tolerated: code fences, prose, escaped
// quotes or non-string elements fail. Entries are trimmed, blanks dropped
// and duplicates removed (first occurrence wins). An answer with no usable
// entry fails too, so a nil error always comes with at least one topic.
func ParseTopics(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)

	var items []any
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%w: not a JSON array: %v", ErrMalformedModelOutput, err)
	}
	if items == nil {
		return nil, fmt.Errorf("%w: not a JSON array", ErrMalformedModelOutput)
	}

	topics := make([]string, 0, len(items))
	for i, it := range items {
		s, ok := it.(string)
		if !ok {
			return nil, fmt.Errorf("%w: element %d is %T, not a string", ErrMalformedModelOutput, i, it)
		}
		topics = append(topics, s)
	}

	topics = uniqueTopics(topics)
	if len(topics) == 0 {
		return nil, fmt.Errorf("%w: model returned no topics", ErrMalformedModelOutput)
	}
	return topics, nil
}

// uniqueTopics trims entries and drops blanks and exact duplicates,
// keeping the original order.
func uniqueTopics(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, t := range in {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
