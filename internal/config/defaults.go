package config

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	DefaultConfigFile   = "blogbuilder.yaml"
	defaultSiteTitle    = "Blog"
	defaultTemplatesDir = "templates"
	defaultStatePath    = ".blogbuilder/state.db"
	defaultPerPage      = 10
	defaultHomeMaxCards = 6
	defaultCommitMsg    = "Regenerate site"
	defaultAuthorName   = "blogbuilder"
	defaultAuthorEmail  = "blogbuilder@localhost"
	defaultDebounce     = 300 * time.Millisecond
)

// DefaultSections mirrors the layout of the original blog: a merged home
// page, three list sections and a chronological archive.
func DefaultSections() []SectionConfig {
	return []SectionConfig{
		{
			Name:           "index",
			Kind:           KindHome,
			Directory:      "_posts/index",
			PerPage:        5,
			HeaderSubtitle: "Notes, projects and everyday writing",
			Classes:        SectionClasses{Content: "post-list", Item: "post-item", ItemTitle: "post-title", ItemDate: "post-date", ItemExcerpt: "post-excerpt"},
		},
		{
			Name:           "project",
			Kind:           KindList,
			Directory:      "_posts/project",
			PerPage:        6,
			HeaderSubtitle: "Things I have built",
			Classes:        SectionClasses{Content: "project-container", Item: "project-card", ItemTitle: "project-title", ItemExcerpt: "project-desc"},
		},
		{
			Name:           "skill",
			Kind:           KindList,
			Directory:      "_posts/skill",
			PerPage:        6,
			HeaderSubtitle: "Technical notes and write-ups",
			Classes:        SectionClasses{Content: "skill-container", Item: "skill-item", ItemTitle: "skill-title", ItemDate: "skill-date", ItemExcerpt: "skill-excerpt"},
		},
		{
			Name:           "daily",
			Kind:           KindList,
			Directory:      "_posts/daily",
			PerPage:        4,
			HeaderSubtitle: "Everyday notes",
			Classes:        SectionClasses{Content: "daily-container", Item: "daily-item", ItemTitle: "daily-title", ItemDate: "daily-date", ItemExcerpt: "daily-content"},
		},
		{
			Name:           "archives",
			Kind:           KindArchive,
			Directory:      "_posts/archives",
			PerPage:        10,
			HeaderSubtitle: "Every post, by month",
			Classes:        SectionClasses{Content: "archives-container", Item: "archives-item", ItemTitle: "archives-title", ItemDate: "archives-date", ItemExcerpt: "archives-excerpt"},
		},
	}
}

// DefaultLabels returns the English label set.
func DefaultLabels() Labels {
	months := make([]string, 12)
	for i := range months {
		months[i] = time.Month(i + 1).String()
	}
	return Labels{
		PublishedOn:        "Published: ",
		OriginalLink:       "Original link: ",
		ReadMore:           "Read more →",
		SeeMore:            "See all posts →",
		ExcerptPlaceholder: "No excerpt yet...",
		EmptyTitle:         "No posts yet",
		EmptyMessage:       "This section is still empty. Check back soon!",
		EmptyAction:        "Browse the archive",
		Months:             months,
		Undated:            "Undated",
	}
}

// DefaultConfig returns a fully defaulted configuration rooted at root.
func DefaultConfig(root string) *Config {
	cfg := &Config{
		Site:  SiteConfig{Root: root},
		Pages: []PageConfig{{Source: "templates/about-template.html", Output: "about.html"}},
	}
	cfg.Sections = DefaultSections()
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills every zero-valued field. It never overrides explicit values.
func applyDefaults(cfg *Config) {
	if cfg.Site.Root == "" {
		cfg.Site.Root = "."
	}
	if cfg.Site.Title == "" {
		cfg.Site.Title = defaultSiteTitle
	}
	applyLabelDefaults(&cfg.Site.Labels)

	if cfg.Output.Directory == "" {
		cfg.Output.Directory = "."
	}
	if cfg.Markdown.Engine == "" {
		cfg.Markdown.Engine = EngineBuiltin
	} else {
		cfg.Markdown.Engine = MarkdownEngine(strings.ToLower(strings.TrimSpace(string(cfg.Markdown.Engine))))
	}
	if cfg.Templates.Directory == "" {
		cfg.Templates.Directory = defaultTemplatesDir
	}

	if cfg.Sections == nil {
		cfg.Sections = DefaultSections()
	}
	for i := range cfg.Sections {
		applySectionDefaults(&cfg.Sections[i], cfg.Site.Title)
	}

	if cfg.Home.MaxCards <= 0 {
		cfg.Home.MaxCards = defaultHomeMaxCards
	}
	if cfg.Home.MoreLink == "" {
		cfg.Home.MoreLink = defaultMoreLink(cfg.Sections)
	}

	if cfg.State.Path == "" {
		cfg.State.Path = defaultStatePath
	}
	if cfg.Publish.Message == "" {
		cfg.Publish.Message = defaultCommitMsg
	}
	if cfg.Publish.AuthorName == "" {
		cfg.Publish.AuthorName = defaultAuthorName
	}
	if cfg.Publish.AuthorEmail == "" {
		cfg.Publish.AuthorEmail = defaultAuthorEmail
	}
	if cfg.Watch.Debounce == "" {
		cfg.Watch.Debounce = defaultDebounce.String()
	}
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
}

func applyLabelDefaults(l *Labels) {
	d := DefaultLabels()
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&l.PublishedOn, d.PublishedOn)
	fill(&l.OriginalLink, d.OriginalLink)
	fill(&l.ReadMore, d.ReadMore)
	fill(&l.SeeMore, d.SeeMore)
	fill(&l.ExcerptPlaceholder, d.ExcerptPlaceholder)
	fill(&l.EmptyTitle, d.EmptyTitle)
	fill(&l.EmptyMessage, d.EmptyMessage)
	fill(&l.EmptyAction, d.EmptyAction)
	fill(&l.Undated, d.Undated)
	if len(l.Months) != 12 {
		l.Months = d.Months
	}
}

var titleCaser = cases.Title(language.English)

func applySectionDefaults(s *SectionConfig, siteTitle string) {
	if s.Kind == "" {
		s.Kind = kindForName(s.Name)
	} else {
		s.Kind = SectionKind(strings.ToLower(strings.TrimSpace(string(s.Kind))))
	}
	if s.Directory == "" && s.Name != "" {
		s.Directory = "_posts/" + s.Name
	}
	if s.PerPage == 0 {
		s.PerPage = defaultPerPage
	}
	if s.HeaderTitle == "" {
		if s.Kind == KindHome {
			s.HeaderTitle = siteTitle
		} else {
			s.HeaderTitle = titleCaser.String(strings.NewReplacer("-", " ", "_", " ").Replace(s.Name))
		}
	}
	if s.Title == "" {
		if s.Kind == KindHome {
			s.Title = siteTitle
		} else {
			s.Title = s.HeaderTitle + " | " + siteTitle
		}
	}
	if s.Classes == (SectionClasses{}) {
		s.Classes = SectionClasses{
			Content:     s.Name + "-container",
			Item:        s.Name + "-item",
			ItemTitle:   s.Name + "-title",
			ItemDate:    s.Name + "-date",
			ItemExcerpt: s.Name + "-excerpt",
		}
	}
}

func kindForName(name string) SectionKind {
	switch strings.ToLower(name) {
	case "index", "home":
		return KindHome
	case "archives", "archive":
		return KindArchive
	default:
		return KindList
	}
}

func defaultMoreLink(sections []SectionConfig) string {
	for _, s := range sections {
		if s.Kind == KindArchive {
			return s.Name + ".html"
		}
	}
	for _, s := range sections {
		if s.Kind != KindHome {
			return s.Name + ".html"
		}
	}
	return "index.html"
}
