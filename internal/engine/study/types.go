// Package study turns a syllabus into a bundle of learning resources:
// one model call extracts topics, then each topic is enriched, one at a
// time, with a video, allow-listed articles and a short generated note.
package study

import (
	"context"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/anatolykoptev/go_study/internal/engine"
)

// Request is the pipeline input.
type Request struct {
	Syllabus string `json:"syllabus" validate:"required" jsonschema:"Syllabus or module text to analyze"`
	Subject  string `json:"subject" validate:"required" jsonschema:"Subject name, e.g. Computer Networks"`
}

// VideoResult is the video chosen for a topic.
type VideoResult struct {
	Topic string `json:"topic"`
	Link  string `json:"link"`
}

// Resource is one allow-listed article.
type Resource struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// ResourceGroup holds the allow-listed articles found for a topic.
type ResourceGroup struct {
	Topic     string     `json:"topic"`
	Resources []Resource `json:"resources"`
}

// NoteResult is the generated note for a topic.
type NoteResult struct {
	Topic string `json:"topic"`
	Notes string `json:"notes"`
}

// ResultBundle is what a request returns. Videos, Resources and Notes only
// reference topics from Topics; a topic missing from one of them means that
// step found nothing or failed.
type ResultBundle struct {
	Topics    []string        `json:"topics"`
	Videos    []VideoResult   `json:"videos"`
	Resources []ResourceGroup `json:"resources"`
	Notes     []NoteResult    `json:"notes"`
}

func newBundle(topics []string) ResultBundle {
	return ResultBundle{
		Topics:    topics,
		Videos:    []VideoResult{},
		Resources: []ResourceGroup{},
		Notes:     []NoteResult{},
	}
}

func (b *ResultBundle) add(o TopicOutcome) {
	if o.Video != nil {
		b.Videos = append(b.Videos, *o.Video)
	}
	if o.Resources != nil {
		b.Resources = append(b.Resources, *o.Resources)
	}
	if o.Note != nil {
		b.Notes = append(b.Notes, *o.Note)
	}
}

// --- capabilities ---

// Completer is the generative-text capability.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// VideoSearcher is the video-search capability.
type VideoSearcher interface {
	SearchVideos(ctx context.Context, q engine.VideoQuery) ([]engine.Video, error)
}

// WebSearcher is the web-search capability.
type WebSearcher interface {
	SearchWeb(ctx context.Context, query string, n int) ([]engine.WebResult, error)
}

// --- validation ---

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Normalize trims surrounding whitespace from both fields.
func (r Request) Normalize() Request {
	return Request{
		Syllabus: strings.TrimSpace(r.Syllabus),
		Subject:  strings.TrimSpace(r.Subject),
	}
}

// Validate checks that both fields are present after trimming.
// Returns an error wrapping ErrInvalidInput.
func (r Request) Validate() error {
	if err := getValidator().Struct(r.Normalize()); err != nil {
		return invalidInput(err)
	}
	return nil
}
