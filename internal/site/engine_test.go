package site

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
	"git.home.luguber.info/inful/blogbuilder/internal/state"
)

func TestBuildPaginatesListSection(t *testing.T) {
	cfg := newTestConfig(t)
	root := cfg.Site.Root
	for i := 1; i <= 7; i++ {
		date := fmt.Sprintf("2024-01-%02d", i)
		writeFile(t, root, "_posts/project/"+date+"-p.md", post(fmt.Sprintf("Post %d", i), date, fmt.Sprintf("Body %d", i)))
	}

	e, err := New(cfg)
	require.NoError(t, err)
	report, err := e.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 7, report.Sections["project"])
	assert.Empty(t, report.Failures)
	assert.Equal(t, metrics.OutcomeSuccess, report.Outcome())

	first := readFile(t, root, "project.html")
	assert.Contains(t, first, "<title>Project | Blog</title>")
	assert.Contains(t, first, "Post 7")
	assert.NotContains(t, first, "Post 1<")
	assert.Contains(t, first, `<a href="project.html" class="page-link active">1</a>`)
	assert.Contains(t, first, `<a href="project-2.html" class="page-link">2</a>`)

	second := readFile(t, root, "project-2.html")
	assert.Contains(t, second, `<a href="_posts/project/2024-01-01-p.html">Post 1</a>`)
	assert.Contains(t, second, `<a href="project-2.html" class="page-link active">2</a>`)
	assert.NoFileExists(t, filepath.Join(root, "project-3.html"))

	page := readFile(t, root, "_posts/project/2024-01-03-p.html")
	assert.Contains(t, page, "<title>Post 3 | Blog</title>")
	assert.Contains(t, page, `<div class="post-meta">Published: 2024-01-03</div>`)
	assert.Contains(t, page, "<p>Body 3</p>")
	assert.Contains(t, page, `href="../../index.html"`)
	assert.Contains(t, page, `href="../../css/common.css"`)
}

func TestBuildHomeMergesSectionsAndCapsCards(t *testing.T) {
	cfg := newTestConfig(t)
	root := cfg.Site.Root
	for i := 1; i <= 4; i++ {
		writeFile(t, root, fmt.Sprintf("_posts/project/2024-02-0%d-p.md", i), post(fmt.Sprintf("Project %d", i), fmt.Sprintf("2024-02-0%d", i), "x"))
		writeFile(t, root, fmt.Sprintf("_posts/daily/2024-03-0%d-d.md", i), post(fmt.Sprintf("Daily %d", i), fmt.Sprintf("2024-03-0%d", i), "x"))
	}
	writeFile(t, root, "_posts/archives/2025-01-01-a.md", post("Archived", "2025-01-01", "x"))

	e, err := New(cfg)
	require.NoError(t, err)
	report, err := e.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 8, report.Sections["index"])
	home := readFile(t, root, "index.html")
	assert.Equal(t, 6, strings.Count(home, `class="post-title"`))
	assert.Contains(t, home, `<a href="_posts/daily/2024-03-04-d.html">Daily 4</a>`)
	assert.Contains(t, home, `<a href="archives.html" class="post-link">See all posts →</a>`)
	assert.NotContains(t, home, "Archived")
	assert.NotContains(t, home, `class="pagination"`)
	assert.Less(t, strings.Index(home, "Daily 4"), strings.Index(home, "Project 4"))

	// Each post is written once even though two sections list it.
	count := 0
	for _, w := range report.Written {
		if w == "_posts/daily/2024-03-04-d.html" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestBuildEmptySections(t *testing.T) {
	cfg := newTestConfig(t)
	root := cfg.Site.Root

	e, err := New(cfg)
	require.NoError(t, err)
	report, err := e.Build(context.Background())
	require.NoError(t, err)

	for _, s := range cfg.Sections {
		assert.Equal(t, 0, report.Sections[s.Name])
		page := readFile(t, root, s.Name+".html")
		assert.Contains(t, page, `class="empty-container"`, s.Name)
		assert.NoFileExists(t, filepath.Join(root, s.Name+"-2.html"))
	}
	assert.Contains(t, readFile(t, root, "index.html"), `<a href="archives.html" class="empty-action">Browse the archive</a>`)
}

func TestBuildArchiveGroupsByYearAndMonth(t *testing.T) {
	cfg := newTestConfig(t)
	root := cfg.Site.Root
	writeFile(t, root, "_posts/archives/a.md", post("Early January", "2024-01-05", "x"))
	writeFile(t, root, "_posts/archives/b.md", post("Late January", "2024-01-20", "x"))
	writeFile(t, root, "_posts/archives/c.md", post("December", "2023-12-01", "x"))
	writeFile(t, root, "_posts/archives/notes.md", "# Loose notes\n\nno date")

	e, err := New(cfg)
	require.NoError(t, err)
	_, err = e.Build(context.Background())
	require.NoError(t, err)

	page := readFile(t, root, "archives.html")
	i2024 := strings.Index(page, `<div class="archive-year">2024</div>`)
	i2023 := strings.Index(page, `<div class="archive-year">2023</div>`)
	iUndated := strings.Index(page, `<div class="archive-year">Undated</div>`)
	require.NotEqual(t, -1, i2024)
	require.NotEqual(t, -1, i2023)
	require.NotEqual(t, -1, iUndated)
	assert.Less(t, i2024, i2023)
	assert.Less(t, i2023, iUndated)
	assert.Contains(t, page, `January <span class="count">(2)</span>`)
	assert.Contains(t, page, `December <span class="count">(1)</span>`)
	assert.Less(t, strings.Index(page, "Late January"), strings.Index(page, "Early January"))
	assert.Contains(t, page, "Loose notes")
}

func TestBuildSkipsUnchangedPages(t *testing.T) {
	cfg := newTestConfig(t)
	root := cfg.Site.Root
	writeFile(t, root, "_posts/daily/2024-01-01-a.md", post("A", "2024-01-01", "hello"))

	store, err := state.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	e, err := New(cfg, WithStateStore(store))
	require.NoError(t, err)

	first, err := e.Build(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, first.Written)
	assert.Empty(t, first.Skipped)

	second, err := e.Build(context.Background())
	require.NoError(t, err)
	assert.Empty(t, second.Written)
	assert.ElementsMatch(t, first.Written, second.Skipped)

	writeFile(t, root, "_posts/daily/2024-01-01-a.md", post("A", "2024-01-01", "changed"))
	third, err := e.Build(context.Background())
	require.NoError(t, err)
	assert.Contains(t, third.Written, "_posts/daily/2024-01-01-a.html")
	assert.Contains(t, readFile(t, root, "_posts/daily/2024-01-01-a.html"), "<p>changed</p>")

	// A deleted output is rewritten even though its fingerprint is known.
	require.NoError(t, os.Remove(filepath.Join(root, "daily.html")))
	fourth, err := e.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"daily.html"}, fourth.Written)
}

func TestBuildContinuesAfterReadFailure(t *testing.T) {
	cfg := newTestConfig(t)
	root := cfg.Site.Root
	writeFile(t, root, "_posts/project/2024-01-01-bad.md", post("Bad", "2024-01-01", "x"))
	writeFile(t, root, "_posts/project/2024-01-02-good.md", post("Good", "2024-01-02", "x"))

	e, err := New(cfg, WithFilesystem(failingFS{name: "2024-01-01-bad.md"}))
	require.NoError(t, err)
	report, err := e.Build(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Failures, 1)
	assert.Equal(t, metrics.PagePost, report.Failures[0].Kind)
	assert.Contains(t, report.Failures[0].Path, "2024-01-01-bad.md")
	assert.Equal(t, metrics.OutcomeWarning, report.Outcome())
	assert.FileExists(t, filepath.Join(root, "_posts/project/2024-01-02-good.html"))
	assert.NotContains(t, readFile(t, root, "project.html"), "Bad")
}

func TestBuildCanceled(t *testing.T) {
	cfg := newTestConfig(t)
	e, err := New(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := e.Build(ctx)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryBuild))
	assert.True(t, report.Canceled)
	assert.Equal(t, metrics.OutcomeCanceled, report.Outcome())
	assert.Empty(t, report.Written)
}

func TestBuildWithGoldmarkEngine(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Markdown.Engine = config.EngineGoldmark
	root := cfg.Site.Root
	writeFile(t, root, "_posts/skill/2024-01-01-g.md", post("G", "2024-01-01", "| a | b |\n|---|---|\n| 1 | 2 |"))

	e, err := New(cfg)
	require.NoError(t, err)
	report, err := e.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "goldmark", report.Engine)
	assert.Contains(t, readFile(t, root, "_posts/skill/2024-01-01-g.html"), "<table>")
}

func TestBuildResolvesAndChecksImages(t *testing.T) {
	cfg := newTestConfig(t)
	root := cfg.Site.Root
	writeFile(t, root, "_posts/skill/a.md", post("A", "2024-01-01", "![x](assets/pic.png)\n\n![y](assets/missing.png)"))
	writeFile(t, root, "_posts/skill/assets/pic.png", "png")

	e, err := New(cfg)
	require.NoError(t, err)
	report, err := e.Build(context.Background())
	require.NoError(t, err)

	page := readFile(t, root, "_posts/skill/a.html")
	assert.Contains(t, page, `<img src="assets/pic.png" alt="x" class="markdown-image">`)
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "assets/missing.png")
}

func TestBuildPostTagsAndOriginalLink(t *testing.T) {
	cfg := newTestConfig(t)
	root := cfg.Site.Root
	writeFile(t, root, "_posts/daily/t.md", "---\ntitle: Tagged\ncategories: [go, web]\nlanguages: [en]\noriginalLink: https://example.com/t\n---\nbody")

	e, err := New(cfg)
	require.NoError(t, err)
	_, err = e.Build(context.Background())
	require.NoError(t, err)

	page := readFile(t, root, "_posts/daily/t.html")
	assert.Contains(t, page, `<div class="post-tags"><span class="post-tag category">go</span><span class="post-tag category">web</span><span class="post-tag language">en</span></div>`)
	assert.Contains(t, page, `<a href="https://example.com/t" target="_blank" rel="noopener">https://example.com/t</a>`)
	assert.NotContains(t, page, "post-meta")
}

func TestBuildUsesSectionTemplateAndFillsStandalonePages(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Pages = []config.PageConfig{{Source: "templates/about-template.html", Output: "about.html"}}
	root := cfg.Site.Root
	writeFile(t, root, "templates/project-template.html", "P:{{content}}{{pagination}}")
	writeFile(t, root, "templates/about-template.html", "<header>{{nav}}</header>")

	e, err := New(cfg)
	require.NoError(t, err)
	report, err := e.Build(context.Background())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(readFile(t, root, "project.html"), "P:"))
	assert.Equal(t, SourceFile, report.Templates["project"].Source)
	assert.Equal(t, SourceEmbedded, report.Templates["daily"].Source)

	about := readFile(t, root, "about.html")
	assert.Contains(t, about, "<nav>")
	assert.Contains(t, about, `<a href="project.html">Project</a>`)
	assert.Contains(t, report.Written, "about.html")
}

func TestBuildWarnsOnMissingStandaloneSource(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Pages = []config.PageConfig{{Source: "templates/about-template.html", Output: "about.html"}}

	e, err := New(cfg)
	require.NoError(t, err)
	report, err := e.Build(context.Background())
	require.NoError(t, err)

	assert.NoFileExists(t, filepath.Join(cfg.Site.Root, "about.html"))
	assert.Equal(t, metrics.OutcomeWarning, report.Outcome())
}

func TestListSectionDocuments(t *testing.T) {
	cfg := newTestConfig(t)
	root := cfg.Site.Root
	writeFile(t, root, "_posts/project/2024-05-01-a.md", "no front matter")
	writeFile(t, root, "_posts/project/2024-05-01-b.md", "no front matter")
	writeFile(t, root, "_posts/project/2023-01-01-c.md", "older")
	writeFile(t, root, "_posts/project/readme.txt", "ignored")
	writeFile(t, root, "_posts/archives/2030-01-01-z.md", "archived")

	e, err := New(cfg)
	require.NoError(t, err)

	docs, err := e.ListSectionDocuments(context.Background(), "project")
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "2024-05-01-a.md", docs[0].FileName)
	assert.Equal(t, "2024-05-01-b.md", docs[1].FileName)
	assert.Equal(t, "project/2023-01-01-c.md", docs[2].ID)

	home, err := e.ListSectionDocuments(context.Background(), "index")
	require.NoError(t, err)
	assert.Len(t, home, 3)

	missing, err := e.ListSectionDocuments(context.Background(), "daily")
	require.NoError(t, err)
	assert.Empty(t, missing)

	_, err = e.ListSectionDocuments(context.Background(), "nope")
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}
