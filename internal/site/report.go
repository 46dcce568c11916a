package site

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
	"git.home.luguber.info/inful/blogbuilder/internal/state"
)

const (
	ReportJSONFile = "build-report.json"
	ReportTextFile = "build-report.txt"
)

// Failure is a single document or page that could not be produced.
type Failure struct {
	Path  string           `json:"path"`
	Kind  metrics.PageKind `json:"kind"`
	Error string           `json:"error"`
}

// Report captures what one build did.
type Report struct {
	SchemaVersion int                 `json:"schema_version"`
	ID            string              `json:"id"`
	Engine        string              `json:"engine"`
	Start         time.Time           `json:"start"`
	End           time.Time           `json:"end"`
	Sections      map[string]int      `json:"sections"` // documents listed per section
	Written       []string            `json:"written"`
	Skipped       []string            `json:"skipped"`
	Failures      []Failure           `json:"failures"`
	Warnings      []string            `json:"warnings"`
	Templates     map[string]Template `json:"templates"`
	Canceled      bool                `json:"canceled"`
}

func newReport(id, engine string, start time.Time) *Report {
	return &Report{
		SchemaVersion: 1,
		ID:            id,
		Engine:        engine,
		Start:         start,
		Sections:      make(map[string]int),
		Written:       []string{},
		Skipped:       []string{},
		Failures:      []Failure{},
		Warnings:      []string{},
		Templates:     make(map[string]Template),
	}
}

func (r *Report) addFailure(path string, kind metrics.PageKind, err error) {
	r.Failures = append(r.Failures, Failure{Path: path, Kind: kind, Error: err.Error()})
}

// Duration is the wall time of the build.
func (r *Report) Duration() time.Duration {
	if r.End.IsZero() {
		return 0
	}
	return r.End.Sub(r.Start)
}

// Documents is the number of documents listed across sections. Documents
// merged into the home section are counted again there.
func (r *Report) Documents() int {
	n := 0
	for _, c := range r.Sections {
		n += c
	}
	return n
}

// Outcome derives the overall result from failures and warnings.
func (r *Report) Outcome() metrics.OutcomeLabel {
	switch {
	case r.Canceled:
		return metrics.OutcomeCanceled
	case len(r.Failures) > 0 && len(r.Written) == 0 && len(r.Skipped) == 0:
		return metrics.OutcomeFailed
	case len(r.Failures) > 0 || len(r.Warnings) > 0:
		return metrics.OutcomeWarning
	default:
		return metrics.OutcomeSuccess
	}
}

// Summary returns a human-readable single-line summary.
func (r *Report) Summary() string {
	return fmt.Sprintf("id=%s engine=%s sections=%d documents=%d written=%d skipped=%d failures=%d warnings=%d duration=%s outcome=%s",
		r.ID, r.Engine, len(r.Sections), r.Documents(), len(r.Written), len(r.Skipped),
		len(r.Failures), len(r.Warnings), r.Duration().Truncate(time.Millisecond), r.Outcome())
}

// SectionNames returns the reported sections in name order.
func (r *Report) SectionNames() []string {
	names := make([]string, 0, len(r.Sections))
	for name := range r.Sections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Record converts the report into the row kept by the state store.
func (r *Report) Record() state.BuildRecord {
	return state.BuildRecord{
		ID:         r.ID,
		StartedAt:  r.Start,
		FinishedAt: r.End,
		Written:    len(r.Written),
		Skipped:    len(r.Skipped),
		Failures:   len(r.Failures),
		Outcome:    string(r.Outcome()),
	}
}

type serializableReport struct {
	*Report
	Outcome    metrics.OutcomeLabel `json:"outcome"`
	DurationMS int64                `json:"duration_ms"`
}

// Persist writes build-report.json and build-report.txt into dir. Each file
// is written to a temporary name first and renamed into place.
func (r *Report) Persist(dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create report directory").
			WithContext("path", dir).Build()
	}
	jb, err := json.MarshalIndent(serializableReport{
		Report:     r,
		Outcome:    r.Outcome(),
		DurationMS: r.Duration().Milliseconds(),
	}, "", "  ")
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal build report").Build()
	}
	if err := writeAtomic(filepath.Join(dir, ReportJSONFile), jb); err != nil {
		return err
	}
	return writeAtomic(filepath.Join(dir, ReportTextFile), []byte(r.Summary()+"\n"))
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	// #nosec G306 -- reports are not secret.
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write report").
			WithContext("path", tmp).Build()
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to rename report").
			WithContext("path", path).Build()
	}
	return nil
}
