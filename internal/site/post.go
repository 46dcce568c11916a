package site

import (
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/docmodel"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/markdown"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
)

// PostTemplate is the template used for document pages.
const PostTemplate = "post"

// renderPost writes the page for d. A document listed by several sections
// is rendered once.
func (b *run) renderPost(d *docmodel.Document) {
	rel := b.e.postRel(d)
	if b.posts[rel] {
		return
	}
	b.posts[rel] = true

	dest := b.e.outPath(rel)
	paths := markdown.Paths{
		BasePath:   markdown.BasePath(b.e.outRoot, dest),
		SourcePath: d.Path,
		DestPath:   dest,
	}
	body, err := b.e.renderer.Render(d.Body, paths)
	if err != nil {
		b.fail(d.Path, metrics.PagePost, errors.WrapError(err, errors.CategoryBuild, "failed to render markdown").
			WithContext("path", d.Path).Build())
		return
	}
	b.checkImages(d, paths)

	tpl, err := b.template(PostTemplate)
	if err != nil {
		b.fail(d.Path, metrics.PagePost, err)
		return
	}
	headerTitle, headerSubtitle := b.e.header()
	site := b.e.cfg.Site
	data := map[string]string{
		"title":          markdown.EscapeHTML(d.Title) + " | " + site.Title,
		"siteTitle":      site.Title,
		"headerTitle":    headerTitle,
		"headerSubtitle": headerSubtitle,
		"postTitle":      markdown.EscapeHTML(d.Title),
		"meta":           postMeta(d, site.Labels.PublishedOn),
		"tags":           postTags(d),
		"originalLink":   originalLink(d, site.Labels.OriginalLink),
		"content":        body,
		"nav":            b.navFor(path.Dir(rel)),
		"basePath":       paths.BasePath,
		"assetsBase":     b.e.assetsBase(paths.BasePath),
	}
	b.write(dest, metrics.PagePost, Substitute(tpl.Text, data))
}

// checkImages warns about local images that do not exist next to the page.
func (b *run) checkImages(d *docmodel.Document, p markdown.Paths) {
	for _, ref := range markdown.LocalImages([]byte(d.Body)) {
		resolved := markdown.ResolveImage(ref, p)
		target := filepath.Join(filepath.Dir(p.DestPath), filepath.FromSlash(resolved))
		if !b.e.fs.Exists(target) {
			b.warn(d.ID+": image not found: "+ref, "Image not found", logfields.Path(d.Path), slog.String("image", ref))
		}
	}
}

func postMeta(d *docmodel.Document, label string) string {
	if d.Date == "" {
		return ""
	}
	return `<div class="post-meta">` + markdown.EscapeHTML(label) + d.Date + `</div>`
}

func postTags(d *docmodel.Document) string {
	if len(d.Categories) == 0 && len(d.Languages) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<div class="post-tags">`)
	for _, c := range d.Categories {
		b.WriteString(`<span class="post-tag category">` + markdown.EscapeHTML(c) + `</span>`)
	}
	for _, l := range d.Languages {
		b.WriteString(`<span class="post-tag language">` + markdown.EscapeHTML(l) + `</span>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func originalLink(d *docmodel.Document, label string) string {
	if d.OriginalLink == "" {
		return ""
	}
	href := markdown.EscapeHTML(d.OriginalLink)
	return `<div class="post-original-link">` + markdown.EscapeHTML(label) +
		`<a href="` + href + `" target="_blank" rel="noopener">` + href + `</a></div>`
}
