package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.IncDocumentsParsed("daily", 3)
	pr.IncPagesWritten(PagePost)
	pr.IncPagesWritten(PagePost)
	pr.IncPagesSkipped(PageIndex)
	pr.IncFailures(PagePost)
	pr.ObserveBuildDuration(250 * time.Millisecond)
	pr.IncBuildOutcome(OutcomeSuccess)

	assert.InDelta(t, 3, gathered(t, reg, "blogbuilder_documents_parsed_total", "daily"), 0.001)
	assert.InDelta(t, 2, gathered(t, reg, "blogbuilder_pages_written_total", "post"), 0.001)
	assert.InDelta(t, 1, gathered(t, reg, "blogbuilder_pages_skipped_total", "index"), 0.001)
	assert.InDelta(t, 1, gathered(t, reg, "blogbuilder_page_failures_total", "post"), 0.001)
	assert.InDelta(t, 1, gathered(t, reg, "blogbuilder_build_outcomes_total", "success"), 0.001)
	assert.Positive(t, gathered(t, reg, "blogbuilder_last_build_timestamp_seconds", ""))
}

// gathered returns the value of the named counter or gauge whose single
// label equals label (or that has no labels when label is empty).
func gathered(t *testing.T, reg *prom.Registry, name, label string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if label != "" && (len(m.GetLabel()) != 1 || m.GetLabel()[0].GetValue() != label) {
				continue
			}
			if c := m.GetCounter(); c != nil {
				return c.GetValue()
			}
			return m.GetGauge().GetValue()
		}
	}
	t.Fatalf("metric %s{%s} not found", name, label)
	return 0
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.IncPagesWritten(PagePost)
		pr.ObserveBuildDuration(time.Second)
		pr.IncBuildOutcome(OutcomeFailed)
	})

	var r Recorder = NoopRecorder{}
	assert.NotPanics(t, func() { r.IncDocumentsParsed("x", 1) })
}

func TestWriteTextfile(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncPagesWritten(PageIndex)

	path := filepath.Join(t.TempDir(), "metrics", "blogbuilder.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `blogbuilder_pages_written_total{kind="index"} 1`)
}
