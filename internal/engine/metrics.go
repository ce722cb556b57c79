package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the service.
var metrics struct {
	StudyRequests        atomic.Int64
	StudyErrors          atomic.Int64
	TopicsExtracted      atomic.Int64
	TopicsEnriched       atomic.Int64
	VideoStepFailures    atomic.Int64
	ResourceStepFailures atomic.Int64
	NoteStepFailures     atomic.Int64
	LLMCalls             atomic.Int64
	LLMErrors            atomic.Int64
	YouTubeRequests      atomic.Int64
	WebSearchRequests    atomic.Int64
	CacheHits            atomic.Int64
	CacheMisses          atomic.Int64
}

// metricKeys fixes the output order of FormatMetrics.
var metricKeys = []string{
	"study_requests", "study_errors",
	"topics_extracted", "topics_enriched",
	"video_step_failures", "resource_step_failures", "note_step_failures",
	"llm_calls", "llm_errors",
	"youtube_requests", "web_search_requests",
	"cache_hits", "cache_misses",
}

// GetMetrics returns a snapshot of all metrics.
func GetMetrics() map[string]int64 {
	return map[string]int64{
		"study_requests":         metrics.StudyRequests.Load(),
		"study_errors":           metrics.StudyErrors.Load(),
		"topics_extracted":       metrics.TopicsExtracted.Load(),
		"topics_enriched":        metrics.TopicsEnriched.Load(),
		"video_step_failures":    metrics.VideoStepFailures.Load(),
		"resource_step_failures": metrics.ResourceStepFailures.Load(),
		"note_step_failures":     metrics.NoteStepFailures.Load(),
		"llm_calls":              metrics.LLMCalls.Load(),
		"llm_errors":             metrics.LLMErrors.Load(),
		"youtube_requests":       metrics.YouTubeRequests.Load(),
		"web_search_requests":    metrics.WebSearchRequests.Load(),
		"cache_hits":             metrics.CacheHits.Load(),
		"cache_misses":           metrics.CacheMisses.Load(),
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	for _, k := range metricKeys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for the study and sources sub-packages.
func IncrStudyRequests()        { metrics.StudyRequests.Add(1) }
func IncrStudyErrors()          { metrics.StudyErrors.Add(1) }
func AddTopicsExtracted(n int)  { metrics.TopicsExtracted.Add(int64(n)) }
func IncrTopicsEnriched()       { metrics.TopicsEnriched.Add(1) }
func IncrVideoStepFailures()    { metrics.VideoStepFailures.Add(1) }
func IncrResourceStepFailures() { metrics.ResourceStepFailures.Add(1) }
func IncrNoteStepFailures()     { metrics.NoteStepFailures.Add(1) }
func IncrYouTubeRequests()      { metrics.YouTubeRequests.Add(1) }
func IncrWebSearchRequests()    { metrics.WebSearchRequests.Add(1) }

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, threshold time.Duration, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > threshold {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
