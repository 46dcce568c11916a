package site

import (
	"context"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/docmodel"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
	"git.home.luguber.info/inful/blogbuilder/internal/pagination"
	"git.home.luguber.info/inful/blogbuilder/internal/state"
)

// run is the mutable state of a single build.
type run struct {
	e      *Engine
	ctx    context.Context
	report *Report
	nav    string

	docs  map[string]*docmodel.Document // nil entries mark unreadable files
	posts map[string]bool
}

func (e *Engine) newRun(ctx context.Context, r *Report) *run {
	return &run{
		e:      e,
		ctx:    ctx,
		report: r,
		docs:   make(map[string]*docmodel.Document),
		posts:  make(map[string]bool),
	}
}

func (b *run) loadNav() {
	nav, err := b.e.nav.Nav()
	if err != nil {
		slog.Warn("Navigation template unavailable, using generated navigation", logfields.Error(err))
		b.report.Warnings = append(b.report.Warnings, err.Error())
		nav = GenerateNav(b.e.cfg)
	}
	b.nav = nav
}

// sourceSections are the sections whose directories feed s. The home
// section merges every non-archive directory; each directory is read once.
func (b *run) sourceSections(s config.SectionConfig) []config.SectionConfig {
	if s.Kind != config.KindHome {
		return []config.SectionConfig{s}
	}
	seen := make(map[string]bool)
	var out []config.SectionConfig
	for _, other := range b.e.cfg.Sections {
		if other.Kind == config.KindArchive {
			continue
		}
		dir := b.e.abs(other.Directory)
		if seen[dir] {
			continue
		}
		seen[dir] = true
		out = append(out, other)
	}
	return out
}

func (b *run) listSectionDocuments(s config.SectionConfig) []*docmodel.Document {
	docs := []*docmodel.Document{}
	for _, src := range b.sourceSections(s) {
		dir := b.e.abs(src.Directory)
		names, err := b.e.fs.ReadDir(dir)
		if err != nil {
			if isNotExist(err) {
				slog.Debug("Section directory missing", logfields.Section(src.Name), logfields.Path(dir))
				continue
			}
			b.fail(dir, metrics.PageIndex, errors.WrapError(err, errors.CategoryFileSystem, "failed to list section directory").
				WithContext("section", src.Name).WithContext("path", dir).Build())
			continue
		}
		for _, name := range names {
			if !strings.HasSuffix(name, ".md") {
				continue
			}
			if d, ok := b.document(filepath.Join(dir, name), src.Name); ok {
				docs = append(docs, d)
			}
		}
	}
	pagination.SortByDate(docs)
	b.report.Sections[s.Name] = len(docs)
	return docs
}

// document parses path at most once per build.
func (b *run) document(p, section string) (*docmodel.Document, bool) {
	if d, ok := b.docs[p]; ok {
		return d, d != nil
	}
	content, err := b.e.fs.ReadFile(p)
	if err != nil {
		b.docs[p] = nil
		b.fail(p, metrics.PagePost, errors.WrapError(err, errors.CategoryFileSystem, "failed to read document").
			WithContext("path", p).Build())
		return nil, false
	}
	d := docmodel.Parse(p, content, docmodel.Options{Section: section})
	b.docs[p] = d
	b.e.recorder.IncDocumentsParsed(section, 1)
	return d, true
}

// postRel is the output path of d's page, relative to the output root.
func (e *Engine) postRel(d *docmodel.Document) string {
	dir, err := filepath.Rel(e.root, filepath.Dir(d.Path))
	if err != nil {
		dir = "."
	}
	return path.Join(filepath.ToSlash(dir), d.Stem()+".html")
}

func (e *Engine) outPath(rel string) string {
	return filepath.Join(e.outRoot, filepath.FromSlash(rel))
}

func (e *Engine) relOut(p string) string {
	rel, err := filepath.Rel(e.outRoot, p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(rel)
}

func (b *run) fail(p string, kind metrics.PageKind, err error) {
	slog.Warn("Skipping after error", logfields.Path(p), slog.String("kind", string(kind)), logfields.Error(err))
	b.report.addFailure(p, kind, err)
	b.e.recorder.IncFailures(kind)
}

// warn logs msg and records detail in the report.
func (b *run) warn(detail, msg string, attrs ...any) {
	slog.Warn(msg, attrs...)
	b.report.Warnings = append(b.report.Warnings, detail)
}

// template resolves name, falling back to the default template.
func (b *run) template(name string) (Template, error) {
	tpl, err := b.e.templates.Lookup(name)
	if err != nil && name != DefaultTemplate {
		tpl, err = b.e.templates.Lookup(DefaultTemplate)
	}
	if err != nil {
		return Template{}, errors.WrapError(err, errors.CategoryTemplate, "no template available").
			WithContext("template", name).Build()
	}
	b.report.Templates[name] = tpl
	return tpl, nil
}

// navFor returns the navigation rewritten for a page in dir, a slash path
// relative to the output root.
func (b *run) navFor(dir string) string {
	nav, err := RelativizeNav(b.nav, dir)
	if err != nil {
		slog.Warn("Failed to rewrite navigation", logfields.Path(dir), logfields.Error(err))
		return b.nav
	}
	return nav
}

// write stores html at dest unless the state store has already seen the
// same content there.
func (b *run) write(dest string, kind metrics.PageKind, html string) {
	rel := b.e.relOut(dest)
	fp := state.Fingerprint(rel, html)
	if b.e.state != nil && b.e.fs.Exists(dest) {
		unchanged, err := b.e.state.Unchanged(b.ctx, rel, fp)
		switch {
		case err != nil:
			slog.Warn("State lookup failed, rewriting page", logfields.Path(rel), logfields.Error(err))
		case unchanged:
			b.report.Skipped = append(b.report.Skipped, rel)
			b.e.recorder.IncPagesSkipped(kind)
			slog.Debug("Page unchanged", logfields.Path(rel))
			return
		}
	}

	if err := b.e.fs.MkdirAll(filepath.Dir(dest)); err != nil {
		b.fail(rel, kind, errors.WrapError(err, errors.CategoryFileSystem, "failed to create output directory").
			WithContext("path", filepath.Dir(dest)).Build())
		return
	}
	if err := b.e.fs.WriteFile(dest, []byte(html)); err != nil {
		b.fail(rel, kind, errors.WrapError(err, errors.CategoryFileSystem, "failed to write page").
			WithContext("path", dest).Build())
		return
	}
	b.report.Written = append(b.report.Written, rel)
	b.e.recorder.IncPagesWritten(kind)
	slog.Debug("Generated page", logfields.Path(rel), slog.String("kind", string(kind)))

	if b.e.state != nil {
		if err := b.e.state.Record(b.ctx, b.report.ID, rel, fp); err != nil {
			slog.Warn("Failed to record page state", logfields.Path(rel), logfields.Error(err))
		}
	}
}

// assetsBase is the prefix for css and js references from a page whose
// base path is basePath.
func (e *Engine) assetsBase(basePath string) string {
	if e.cfg.Site.AssetsPrefix != "" {
		return strings.TrimSuffix(e.cfg.Site.AssetsPrefix, "/")
	}
	return basePath
}

// header returns the title and subtitle shown on post and standalone pages.
func (e *Engine) header() (string, string) {
	for _, s := range e.cfg.Sections {
		if s.Kind == config.KindHome {
			return s.HeaderTitle, s.HeaderSubtitle
		}
	}
	return e.cfg.Site.Title, ""
}
