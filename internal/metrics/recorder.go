package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultWarning  ResultLabel = "warning"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// BuildOutcomeLabel is the final status of a build.
type BuildOutcomeLabel string

const (
	BuildOutcomeSuccess  BuildOutcomeLabel = "success"
	BuildOutcomeFailed   BuildOutcomeLabel = "failed"
	BuildOutcomeCanceled BuildOutcomeLabel = "canceled"
)

// PostResultLabel is what the loader did with one corpus document.
type PostResultLabel string

const (
	PostAccepted PostResultLabel = "accepted"
	PostSkipped  PostResultLabel = "skipped"
	PostDraft    PostResultLabel = "draft"
)

// Recorder defines observability hooks for the build. Implementations may forward to
// Prometheus; NoopRecorder is the default.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncBuildOutcome(outcome BuildOutcomeLabel)
	IncPostResult(result PostResultLabel)
	IncArtifactResult(artifact string, success bool)
	SetPublishedPosts(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncBuildOutcome(BuildOutcomeLabel)          {}
func (NoopRecorder) IncPostResult(PostResultLabel)              {}
func (NoopRecorder) IncArtifactResult(string, bool)             {}
func (NoopRecorder) SetPublishedPosts(int)                      {}
