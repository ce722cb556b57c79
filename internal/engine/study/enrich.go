package study

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/anatolykoptev/go_study/internal/engine"
)

// StepStatus is the outcome of one enrichment sub-step.
type StepStatus int

const (
	StepOK     StepStatus = iota // produced an entry
	StepEmpty                    // ran fine, nothing to add
	StepFailed                   // call failed; Err is set
)

func (s StepStatus) String() string {
	switch s {
	case StepOK:
		return "ok"
	case StepEmpty:
		return "empty"
	case StepFailed:
		return "failed"
	}
	return fmt.Sprintf("StepStatus(%d)", int(s))
}

// StepResult reports how a sub-step ended.
type StepResult struct {
	Status StepStatus
	Err    error
}

// TopicOutcome collects the three sub-step results for one topic.
// Each sub-step is isolated: a failed note keeps the video and resources
// already found for the same topic.
type TopicOutcome struct {
	Topic string

	Video     *VideoResult
	VideoStep StepResult

	Resources    *ResourceGroup
	ResourceStep StepResult

	Note     *NoteResult
	NoteStep StepResult
}

// Failed reports whether any sub-step failed.
func (o TopicOutcome) Failed() bool {
	return o.VideoStep.Status == StepFailed ||
		o.ResourceStep.Status == StepFailed ||
		o.NoteStep.Status == StepFailed
}

// EnricherOptions tunes the per-topic calls.
type EnricherOptions struct {
	CallTimeout time.Duration // per external call, 0 = none
	WebResults  int           // results requested from web search
	Languages   []string      // video relevance languages, tried in order while empty
}

// Enricher attaches a video, articles and a note to one topic.
type Enricher struct {
	llm    Completer
	videos VideoSearcher
	web    WebSearcher
	allow  *AllowList
	opts   EnricherOptions
}

// NewEnricher wires the three capabilities. allow may be nil for the default list.
func NewEnricher(llm Completer, videos VideoSearcher, web WebSearcher, allow *AllowList, opts EnricherOptions) *Enricher {
	if allow == nil {
		allow = NewAllowList(nil)
	}
	if opts.WebResults <= 0 {
		opts.WebResults = 3
	}
	return &Enricher{llm: llm, videos: videos, web: web, allow: allow, opts: opts}
}

// Enrich runs the video, resource and note sub-steps for topic, in that order.
func (e *Enricher) Enrich(ctx context.Context, topic string) TopicOutcome {
	out := TopicOutcome{Topic: topic}
	out.Video, out.VideoStep = runStep(ctx, e.opts.CallTimeout, func(ctx context.Context) (*VideoResult, error) {
		return e.findVideo(ctx, topic)
	})
	out.Resources, out.ResourceStep = runStep(ctx, e.opts.CallTimeout, func(ctx context.Context) (*ResourceGroup, error) {
		return e.findResources(ctx, topic)
	})
	out.Note, out.NoteStep = runStep(ctx, e.opts.CallTimeout, func(ctx context.Context) (*NoteResult, error) {
		return e.writeNote(ctx, topic)
	})
	return out
}

func (e *Enricher) findVideo(ctx context.Context, topic string) (*VideoResult, error) {
	langs := e.opts.Languages
	if len(langs) == 0 {
		langs = []string{""}
	}
	for _, lang := range langs {
		videos, err := e.videos.SearchVideos(ctx, engine.VideoQuery{
			Query:      engine.VideoQueryFor(topic),
			MaxResults: 1,
			Order:      "viewCount",
			Language:   lang,
			Embeddable: true,
		})
		if err != nil {
			return nil, err
		}
		if len(videos) > 0 {
			link := videos[0].EmbedURL
			if link == "" {
				link = videos[0].URL
			}
			return &VideoResult{Topic: topic, Link: link}, nil
		}
	}
	return nil, nil
}

func (e *Enricher) findResources(ctx context.Context, topic string) (*ResourceGroup, error) {
	results, err := e.web.SearchWeb(ctx, topic, e.opts.WebResults)
	if err != nil {
		return nil, err
	}
	trusted := e.allow.Filter(results)
	if len(trusted) == 0 {
		return nil, nil
	}
	return &ResourceGroup{Topic: topic, Resources: trusted}, nil
}

func (e *Enricher) writeNote(ctx context.Context, topic string) (*NoteResult, error) {
	raw, err := e.llm.Complete(ctx, engine.NotePrompt(topic))
	if err != nil {
		return nil, err
	}
	return &NoteResult{Topic: topic, Notes: CleanNote(raw)}, nil
}

var (
	noteMarkers = strings.NewReplacer("#", "", "*", "", "`", "", "~~", "")

	// underscore emphasis only at word edges; snake_case stays intact
	underscoreOpen  = regexp.MustCompile(`(^|[\s(\[])_{1,2}(\S)`)
	underscoreClose = regexp.MustCompile(`(\S)_{1,2}([\s)\].,;:!?]|$)`)
)

// CleanNote strips markdown heading, emphasis, strikethrough and code
// markers, turns newlines and other control characters into spaces and
// collapses runs of whitespace.
func CleanNote(s string) string {
	s = noteMarkers.Replace(s)
	s = underscoreOpen.ReplaceAllString(s, "$1$2")
	s = underscoreClose.ReplaceAllString(s, "$1$2")
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// runStep runs one sub-step under its own timeout and turns errors and
// panics into a StepResult. A nil result with a nil error is StepEmpty.
func runStep[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (*T, error)) (res *T, step StepResult) {
	stepCtx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			res = nil
			step = StepResult{Status: StepFailed, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	out, err := fn(stepCtx)
	switch {
	case err != nil:
		return nil, StepResult{Status: StepFailed, Err: err}
	case out == nil:
		return nil, StepResult{Status: StepEmpty}
	}
	return out, StepResult{Status: StepOK}
}
