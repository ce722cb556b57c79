package study

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/anatolykoptev/go_study/internal/engine"
)

// fakeLLM answers the topic prompt with topics and every other prompt
// through note. Calls are recorded.
type fakeLLM struct {
	mu      sync.Mutex
	prompts []string

	topics    string
	topicsErr error
	note      func(prompt string) (string, error)
}

func (f *fakeLLM) Complete(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	if strings.HasPrefix(prompt, "This is my syllabus") {
		return f.topics, f.topicsErr
	}
	if f.note == nil {
		return "A short note.", nil
	}
	return f.note(prompt)
}

func (f *fakeLLM) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type fakeVideos struct {
	mu      sync.Mutex
	queries []engine.VideoQuery
	search  func(q engine.VideoQuery) ([]engine.Video, error)
}

func (f *fakeVideos) SearchVideos(_ context.Context, q engine.VideoQuery) ([]engine.Video, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()
	if f.search == nil {
		id := strings.ReplaceAll(strings.ToLower(q.Query), " ", "-")
		return []engine.Video{{ID: id, EmbedURL: "https://www.youtube.com/embed/" + id}}, nil
	}
	return f.search(q)
}

func (f *fakeVideos) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

type fakeWeb struct {
	mu      sync.Mutex
	queries []string
	search  func(query string, n int) ([]engine.WebResult, error)
}

func (f *fakeWeb) SearchWeb(_ context.Context, query string, n int) ([]engine.WebResult, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	if f.search == nil {
		return []engine.WebResult{
			{Title: query + " - GfG", Link: "https://www.geeksforgeeks.org/" + query, Snippet: "s", DisplayLink: "www.geeksforgeeks.org"},
			{Title: query + " - blog", Link: "https://random-blog.example/" + query, Snippet: "s", DisplayLink: "random-blog.example"},
		}, nil
	}
	return f.search(query, n)
}

func (f *fakeWeb) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

func noSleep(context.Context, time.Duration) error { return nil }
