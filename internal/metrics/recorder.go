package metrics

import "time"

// PageKind labels the kind of output file a counter refers to.
type PageKind string

const (
	PagePost       PageKind = "post"
	PageIndex      PageKind = "index"
	PageStandalone PageKind = "standalone"
)

// OutcomeLabel enumerates build outcomes.
type OutcomeLabel string

const (
	OutcomeSuccess  OutcomeLabel = "success"
	OutcomeWarning  OutcomeLabel = "warning"
	OutcomeFailed   OutcomeLabel = "failed"
	OutcomeCanceled OutcomeLabel = "canceled"
)

// Recorder defines observability hooks for a site build.
type Recorder interface {
	IncDocumentsParsed(section string, n int)
	IncPagesWritten(kind PageKind)
	IncPagesSkipped(kind PageKind)
	IncFailures(kind PageKind)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome OutcomeLabel)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncDocumentsParsed(string, int)     {}
func (NoopRecorder) IncPagesWritten(PageKind)           {}
func (NoopRecorder) IncPagesSkipped(PageKind)           {}
func (NoopRecorder) IncFailures(PageKind)               {}
func (NoopRecorder) ObserveBuildDuration(time.Duration) {}
func (NoopRecorder) IncBuildOutcome(OutcomeLabel)       {}
