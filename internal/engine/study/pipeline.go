package study

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anatolykoptev/go_study/internal/engine"
)

// Deps are the external capabilities the pipeline calls.
type Deps struct {
	LLM    Completer
	Videos VideoSearcher
	Web    WebSearcher
}

// Options tunes a Pipeline. Zero values fall back to DefaultOptions,
// except TopicDelay: zero disables pacing.
type Options struct {
	TopicDelay     time.Duration // pause between topics
	CallTimeout    time.Duration // bound for every external call
	WebResults     int
	Languages      []string
	TrustedDomains []string
}

// DefaultOptions mirrors the service defaults.
func DefaultOptions() Options {
	return Options{
		TopicDelay:  100 * time.Millisecond,
		CallTimeout: 30 * time.Second,
		WebResults:  3,
		Languages:   []string{"en", "hi"},
	}
}

// Pipeline extracts topics and enriches them one by one.
type Pipeline struct {
	extractor *Extractor
	enricher  *Enricher
	delay     time.Duration

	// sleep is replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// New builds a pipeline. All three capabilities are required.
func New(d Deps, o Options) (*Pipeline, error) {
	switch {
	case d.LLM == nil:
		return nil, errors.New("study: LLM capability is required")
	case d.Videos == nil:
		return nil, errors.New("study: video search capability is required")
	case d.Web == nil:
		return nil, errors.New("study: web search capability is required")
	}

	def := DefaultOptions()
	if o.TopicDelay < 0 {
		o.TopicDelay = 0
	}
	if o.CallTimeout <= 0 {
		o.CallTimeout = def.CallTimeout
	}
	if o.WebResults <= 0 {
		o.WebResults = def.WebResults
	}
	if len(o.Languages) == 0 {
		o.Languages = def.Languages
	}

	return &Pipeline{
		extractor: NewExtractor(d.LLM, o.CallTimeout),
		enricher: NewEnricher(d.LLM, d.Videos, d.Web, NewAllowList(o.TrustedDomains), EnricherOptions{
			CallTimeout: o.CallTimeout,
			WebResults:  o.WebResults,
			Languages:   o.Languages,
		}),
		delay: o.TopicDelay,
		sleep: sleepCtx,
	}, nil
}

// Run validates req, extracts topics and enriches each one in order.
//
// Invalid input fails before any external call. Extraction failures are
// returned as ErrMalformedModelOutput or a classified upstream error.
// After extraction, per-topic failures are logged and skipped: the
// returned bundle always lists every extracted topic. Cancelling ctx
// stops the loop and returns ctx.Err().
func (p *Pipeline) Run(ctx context.Context, req Request) (ResultBundle, error) {
	engine.IncrStudyRequests()

	var bundle ResultBundle
	err := engine.TrackOperation(ctx, "study", 2*time.Minute, func(ctx context.Context) error {
		var err error
		bundle, err = p.run(ctx, req)
		return err
	})
	if err != nil {
		engine.IncrStudyErrors()
		return ResultBundle{}, err
	}
	return bundle, nil
}

func (p *Pipeline) run(ctx context.Context, req Request) (ResultBundle, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return ResultBundle{}, err
	}

	topics, err := p.extractor.Extract(ctx, req.Syllabus, req.Subject)
	if err != nil {
		return ResultBundle{}, err
	}
	engine.AddTopicsExtracted(len(topics))
	slog.Info("study: topics extracted",
		slog.String("subject", req.Subject),
		slog.Int("count", len(topics)),
	)

	bundle := newBundle(topics)
	for i, topic := range topics {
		if err := ctx.Err(); err != nil {
			return ResultBundle{}, err
		}

		out := p.enricher.Enrich(ctx, topic)
		logOutcome(out)
		bundle.add(out)
		engine.IncrTopicsEnriched()

		if i < len(topics)-1 && p.delay > 0 {
			if err := p.sleep(ctx, p.delay); err != nil {
				return ResultBundle{}, err
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return ResultBundle{}, err
	}
	return bundle, nil
}

func logOutcome(o TopicOutcome) {
	steps := []struct {
		name  string
		res   StepResult
		count func()
	}{
		{"video", o.VideoStep, engine.IncrVideoStepFailures},
		{"resources", o.ResourceStep, engine.IncrResourceStepFailures},
		{"note", o.NoteStep, engine.IncrNoteStepFailures},
	}
	for _, s := range steps {
		if s.res.Status != StepFailed {
			continue
		}
		s.count()
		slog.Warn("study: topic step failed",
			slog.String("topic", o.Topic),
			slog.String("step", s.name),
			slog.Any("error", classifyUpstream(s.res.Err)),
		)
	}
	slog.Debug("study: topic enriched",
		slog.String("topic", o.Topic),
		slog.String("video", o.VideoStep.Status.String()),
		slog.String("resources", o.ResourceStep.Status.String()),
		slog.String("note", o.NoteStep.Status.String()),
	)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("study: interrupted between topics: %w", ctx.Err())
	case <-t.C:
		return nil
	}
}
