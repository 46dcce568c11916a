package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "blogbuilder"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once          sync.Once
	documents     *prom.CounterVec
	pagesWritten  *prom.CounterVec
	pagesSkipped  *prom.CounterVec
	failures      *prom.CounterVec
	buildDuration prom.Histogram
	buildOutcome  *prom.CounterVec
	lastBuild     prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.documents = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "documents_parsed_total",
			Help:      "Markdown documents parsed, by section",
		}, []string{"section"})
		pr.pagesWritten = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "pages_written_total",
			Help:      "HTML files written, by page kind",
		}, []string{"kind"})
		pr.pagesSkipped = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "pages_skipped_total",
			Help:      "HTML files left untouched because their content did not change",
		}, []string{"kind"})
		pr.failures = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "page_failures_total",
			Help:      "Documents or pages that failed with an I/O error",
		}, []string{"kind"})
		pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		})
		pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"})
		pr.lastBuild = prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "last_build_timestamp_seconds",
			Help:      "Unix time the last build finished",
		})
		reg.MustRegister(pr.documents, pr.pagesWritten, pr.pagesSkipped, pr.failures, pr.buildDuration, pr.buildOutcome, pr.lastBuild)
	})
	return pr
}

func (p *PrometheusRecorder) IncDocumentsParsed(section string, n int) {
	if p == nil || p.documents == nil {
		return
	}
	p.documents.WithLabelValues(section).Add(float64(n))
}

func (p *PrometheusRecorder) IncPagesWritten(kind PageKind) {
	if p == nil || p.pagesWritten == nil {
		return
	}
	p.pagesWritten.WithLabelValues(string(kind)).Inc()
}

func (p *PrometheusRecorder) IncPagesSkipped(kind PageKind) {
	if p == nil || p.pagesSkipped == nil {
		return
	}
	p.pagesSkipped.WithLabelValues(string(kind)).Inc()
}

func (p *PrometheusRecorder) IncFailures(kind PageKind) {
	if p == nil || p.failures == nil {
		return
	}
	p.failures.WithLabelValues(string(kind)).Inc()
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
	p.lastBuild.SetToCurrentTime()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome OutcomeLabel) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}
