// Package site assembles the blog: it lists each section's Markdown
// documents, renders one HTML page per document and one or more paginated
// index pages per section, then fills the navigation of standalone pages.
package site

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/docmodel"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/markdown"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
)

// StateStore remembers the fingerprint last written to each destination.
type StateStore interface {
	Unchanged(ctx context.Context, dest, fingerprint string) (bool, error)
	Record(ctx context.Context, buildID, dest, fingerprint string) error
}

// Engine builds a site from a finalized configuration. An Engine holds no
// state between builds apart from its collaborators.
type Engine struct {
	cfg       *config.Config
	fs        Filesystem
	renderer  markdown.Renderer
	recorder  metrics.Recorder
	state     StateStore
	templates TemplateStore
	nav       NavProvider
	now       func() time.Time

	root    string
	outRoot string
}

// Option configures an Engine.
type Option func(*Engine)

// WithFilesystem replaces the host filesystem.
func WithFilesystem(fsys Filesystem) Option {
	return func(e *Engine) { e.fs = fsys }
}

// WithRenderer selects the Markdown renderer instead of the configured engine.
func WithRenderer(r markdown.Renderer) Option {
	return func(e *Engine) { e.renderer = r }
}

// WithRecorder reports build metrics to r.
func WithRecorder(r metrics.Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithStateStore enables incremental writes.
func WithStateStore(s StateStore) Option {
	return func(e *Engine) { e.state = s }
}

// WithTemplateStore replaces the directory backed template store.
func WithTemplateStore(s TemplateStore) Option {
	return func(e *Engine) { e.templates = s }
}

// WithNav replaces the navigation provider.
func WithNav(n NavProvider) Option {
	return func(e *Engine) { e.nav = n }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New returns an Engine for cfg, which must already be finalized.
func New(cfg *config.Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		return nil, errors.ConfigError("site configuration is required").Build()
	}
	root, err := filepath.Abs(cfg.Site.Root)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to resolve site root").
			WithContext("root", cfg.Site.Root).Build()
	}
	outRoot, err := filepath.Abs(cfg.OutputRoot())
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to resolve output directory").
			WithContext("output", cfg.Output.Directory).Build()
	}

	e := &Engine{
		cfg:      cfg,
		fs:       OSFS{},
		recorder: metrics.NoopRecorder{},
		now:      time.Now,
		root:     root,
		outRoot:  outRoot,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.renderer == nil {
		r, err := markdown.New(string(cfg.Markdown.Engine))
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryConfig, "unsupported markdown engine").
				WithContext("engine", cfg.Markdown.Engine).Build()
		}
		e.renderer = r
	}
	if e.templates == nil {
		e.templates = NewDirTemplateStore(e.fs, e.abs(cfg.Templates.Directory))
	}
	if e.nav == nil {
		e.nav = NewTemplateNav(e.fs, cfg)
	}
	return e, nil
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() *config.Config { return e.cfg }

// OutputRoot is the absolute directory index pages are written to.
func (e *Engine) OutputRoot() string { return e.outRoot }

func (e *Engine) abs(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(e.root, p)
}

// Build renders every section and standalone page. Per-document and
// per-page failures are collected in the report and never abort the run;
// the returned error is non-nil only when ctx is canceled.
func (e *Engine) Build(ctx context.Context) (*Report, error) {
	r := newReport(uuid.NewString(), e.renderer.Name(), e.now())
	slog.Info("Build started", logfields.BuildID(r.ID), logfields.Engine(r.Engine), logfields.Path(e.outRoot))

	b := e.newRun(ctx, r)
	b.loadNav()
	for _, section := range e.cfg.Sections {
		if ctx.Err() != nil {
			r.Canceled = true
			break
		}
		b.buildSection(section)
	}
	if !r.Canceled {
		for _, page := range e.cfg.Pages {
			if ctx.Err() != nil {
				r.Canceled = true
				break
			}
			b.buildStandalone(page)
		}
	}

	r.End = e.now()
	e.recorder.ObserveBuildDuration(r.Duration())
	e.recorder.IncBuildOutcome(r.Outcome())
	slog.Info("Build finished",
		logfields.BuildID(r.ID),
		slog.Int("written", len(r.Written)),
		slog.Int("skipped", len(r.Skipped)),
		slog.Int("failures", len(r.Failures)),
		logfields.DurationMS(float64(r.Duration().Milliseconds())),
		slog.String("outcome", string(r.Outcome())))

	if r.Canceled {
		return r, errors.WrapError(ctx.Err(), errors.CategoryBuild, "build canceled").
			WithContext("build_id", r.ID).Build()
	}
	return r, nil
}

// ListSectionDocuments returns the documents shown by the named section,
// newest first. Unreadable files are logged and left out.
func (e *Engine) ListSectionDocuments(ctx context.Context, name string) ([]*docmodel.Document, error) {
	section, ok := e.cfg.Section(name)
	if !ok {
		return nil, errors.NewError(errors.CategoryNotFound, "unknown section").
			WithContext("section", name).Build()
	}
	b := e.newRun(ctx, newReport("", e.renderer.Name(), e.now()))
	return b.listSectionDocuments(section), nil
}
