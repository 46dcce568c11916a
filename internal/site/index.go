package site

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/docmodel"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/markdown"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
	"git.home.luguber.info/inful/blogbuilder/internal/pagination"
)

// buildSection renders the posts of s followed by its index pages.
func (b *run) buildSection(s config.SectionConfig) {
	docs := b.listSectionDocuments(s)
	for _, d := range docs {
		if b.ctx.Err() != nil {
			return
		}
		b.renderPost(d)
	}

	mode := pagination.Paged
	if s.Kind == config.KindHome {
		mode = pagination.Single
	}
	pages := pagination.Paginate(docs, s.PerPage, mode)
	if pages.Count() == 0 {
		b.renderIndex(s, pagination.FileName(s.Name, 1), b.emptyContent(), "")
		slog.Info("Section is empty", logfields.Section(s.Name))
		return
	}
	for n := 1; n <= pages.Count(); n++ {
		var content string
		switch s.Kind {
		case config.KindHome:
			content = b.homeContent(pages.Page(n))
		case config.KindArchive:
			content = b.archiveContent(pages.Page(n))
		default:
			content = b.listContent(s, pages.Page(n))
		}
		bar := ""
		if s.Kind != config.KindHome && pages.Count() > 1 {
			bar = paginationBar(s.Name, pages.Count(), n)
		}
		b.renderIndex(s, pagination.FileName(s.Name, n), content, bar)
	}
	slog.Info("Section generated", logfields.Section(s.Name), logfields.Count(len(docs)), slog.Int("pages", pages.Count()))
}

func (b *run) renderIndex(s config.SectionConfig, file, content, bar string) {
	tpl, err := b.template(s.Name)
	if err != nil {
		b.fail(file, metrics.PageIndex, err)
		return
	}
	data := map[string]string{
		"title":          s.Title,
		"siteTitle":      b.e.cfg.Site.Title,
		"headerTitle":    s.HeaderTitle,
		"headerSubtitle": s.HeaderSubtitle,
		"content":        content,
		"pagination":     bar,
		"nav":            b.nav,
		"basePath":       ".",
		"assetsBase":     b.e.assetsBase("."),
	}
	b.write(filepath.Join(b.e.outRoot, file), metrics.PageIndex, Substitute(tpl.Text, data))
}

func (b *run) emptyContent() string {
	labels := b.e.cfg.Site.Labels
	var sb strings.Builder
	sb.WriteString("\n    <div class=\"empty-container\">\n")
	fmt.Fprintf(&sb, "      <h2>%s</h2>\n", markdown.EscapeHTML(labels.EmptyTitle))
	fmt.Fprintf(&sb, "      <p>%s</p>\n", markdown.EscapeHTML(labels.EmptyMessage))
	if link := b.e.cfg.Home.MoreLink; link != "" {
		fmt.Fprintf(&sb, "      <a href=\"%s\" class=\"empty-action\">%s</a>\n", link, markdown.EscapeHTML(labels.EmptyAction))
	}
	sb.WriteString("    </div>")
	return sb.String()
}

func (b *run) homeContent(docs []*docmodel.Document) string {
	labels := b.e.cfg.Site.Labels
	shown, more := docs, false
	if limit := b.e.cfg.Home.MaxCards; limit > 0 && len(docs) > limit {
		shown, more = docs[:limit], true
	}

	var sb strings.Builder
	sb.WriteString("\n    <div class=\"posts-grid\">")
	for _, d := range shown {
		href := b.e.postRel(d)
		sb.WriteString("\n      <div class=\"post-card\">\n")
		fmt.Fprintf(&sb, "        <h3 class=\"post-title\"><a href=\"%s\">%s</a></h3>\n", href, markdown.EscapeHTML(d.Title))
		fmt.Fprintf(&sb, "        <div class=\"post-date\">%s</div>\n", markdown.EscapeHTML(d.DisplayDate()))
		fmt.Fprintf(&sb, "        <p class=\"post-excerpt\">%s</p>\n", b.excerpt(d))
		fmt.Fprintf(&sb, "        <a href=\"%s\" class=\"post-link\">%s</a>\n", href, markdown.EscapeHTML(labels.ReadMore))
		sb.WriteString("      </div>")
	}
	if more && b.e.cfg.Home.MoreLink != "" {
		sb.WriteString("\n      <div class=\"post-card more-card\">\n")
		fmt.Fprintf(&sb, "        <a href=\"%s\" class=\"post-link\">%s</a>\n", b.e.cfg.Home.MoreLink, markdown.EscapeHTML(labels.SeeMore))
		sb.WriteString("      </div>")
	}
	sb.WriteString("\n    </div>")
	return sb.String()
}

func (b *run) archiveContent(docs []*docmodel.Document) string {
	labels := b.e.cfg.Site.Labels
	var sb strings.Builder
	for _, year := range pagination.GroupArchive(docs).Years {
		yearLabel := year.Year + labels.YearSuffix
		if year.Year == pagination.UndatedKey {
			yearLabel = labels.Undated
		}
		fmt.Fprintf(&sb, "\n    <div class=\"archive-year\">%s</div>", markdown.EscapeHTML(yearLabel))
		for _, month := range year.Months {
			if month.Month != pagination.UndatedKey {
				fmt.Fprintf(&sb, "\n    <div class=\"archive-month\">\n      %s <span class=\"count\">(%d)</span>\n    </div>",
					markdown.EscapeHTML(monthLabel(month.Month, labels.Months)), len(month.Docs))
			}
			sb.WriteString("\n    <ul class=\"archive-list\">")
			for _, d := range month.Docs {
				sb.WriteString("\n      <li class=\"archive-item\">\n")
				fmt.Fprintf(&sb, "        <div class=\"archive-title\"><a href=\"%s\">%s</a></div>\n", b.e.postRel(d), markdown.EscapeHTML(d.Title))
				fmt.Fprintf(&sb, "        <div class=\"archive-date\">%s</div>\n", markdown.EscapeHTML(d.DisplayDate()))
				sb.WriteString("      </li>")
			}
			sb.WriteString("\n    </ul>")
		}
	}
	return sb.String()
}

func (b *run) listContent(s config.SectionConfig, docs []*docmodel.Document) string {
	c := s.Classes
	var sb strings.Builder
	fmt.Fprintf(&sb, "\n    <div class=\"%s\">", c.Content)
	for _, d := range docs {
		href := b.e.postRel(d)
		fmt.Fprintf(&sb, "\n      <article class=\"%s\">\n", c.Item)
		fmt.Fprintf(&sb, "        <h2 class=\"%s\"><a href=\"%s\">%s</a></h2>\n", c.ItemTitle, href, markdown.EscapeHTML(d.Title))
		if c.ItemDate != "" {
			fmt.Fprintf(&sb, "        <div class=\"%s\">%s</div>\n", c.ItemDate, markdown.EscapeHTML(d.DisplayDate()))
		}
		fmt.Fprintf(&sb, "        <div class=\"%s\">%s</div>\n", c.ItemExcerpt, b.excerpt(d))
		sb.WriteString("      </article>")
	}
	sb.WriteString("\n    </div>")
	return sb.String()
}

func (b *run) excerpt(d *docmodel.Document) string {
	if d.Excerpt == "" {
		return markdown.EscapeHTML(b.e.cfg.Site.Labels.ExcerptPlaceholder)
	}
	return markdown.EscapeHTML(d.Excerpt)
}

// monthLabel maps "01".."12" onto names; anything else is shown as a number.
func monthLabel(month string, names []string) string {
	n, err := strconv.Atoi(month)
	if err != nil {
		return month
	}
	if n >= 1 && n <= len(names) {
		return names[n-1]
	}
	return strconv.Itoa(n)
}

func paginationBar(name string, count, current int) string {
	var sb strings.Builder
	sb.WriteString("\n  <div class=\"pagination\">\n    ")
	for _, l := range pagination.Links(name, count, current) {
		class := "page-link"
		if l.Active {
			class += " active"
		}
		fmt.Fprintf(&sb, "<a href=\"%s\" class=\"%s\">%d</a>", l.Href, class, l.Number)
	}
	sb.WriteString("\n  </div>\n")
	return sb.String()
}
