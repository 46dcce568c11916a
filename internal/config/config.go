// Package config defines the blogbuilder configuration model and its loader.
package config

import (
	"path/filepath"
	"time"
)

// Config is the root of blogbuilder.yaml.
type Config struct {
	Site      SiteConfig      `yaml:"site"`
	Output    OutputConfig    `yaml:"output"`
	Markdown  MarkdownConfig  `yaml:"markdown"`
	Templates TemplatesConfig `yaml:"templates"`
	Home      HomeConfig      `yaml:"home"`
	Sections  []SectionConfig `yaml:"sections"`
	Pages     []PageConfig    `yaml:"pages,omitempty"`
	State     StateConfig     `yaml:"state"`
	Metrics   MetricsConfig   `yaml:"metrics,omitempty"`
	Publish   PublishConfig   `yaml:"publish"`
	Watch     WatchConfig     `yaml:"watch"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SiteConfig holds site-wide presentation settings.
type SiteConfig struct {
	Title        string `yaml:"title"`            // appended to every page <title>
	Root         string `yaml:"root"`             // source root; relative paths resolve against it
	AssetsPrefix string `yaml:"assets_prefix"`    // optional prefix for css/js references
	GitHub       string `yaml:"github,omitempty"` // external link appended to the generated nav
	Labels       Labels `yaml:"labels"`
}

// Labels are the user-visible strings emitted by the page assemblers.
type Labels struct {
	PublishedOn        string   `yaml:"published_on"`
	OriginalLink       string   `yaml:"original_link"`
	ReadMore           string   `yaml:"read_more"`
	SeeMore            string   `yaml:"see_more"`
	ExcerptPlaceholder string   `yaml:"excerpt_placeholder"`
	EmptyTitle         string   `yaml:"empty_title"`
	EmptyMessage       string   `yaml:"empty_message"`
	EmptyAction        string   `yaml:"empty_action"`
	YearSuffix         string   `yaml:"year_suffix"`
	Months             []string `yaml:"months"`
	Undated            string   `yaml:"undated"`
}

// OutputConfig controls where generated HTML is written.
type OutputConfig struct {
	Directory string `yaml:"directory"`
}

// MarkdownEngine selects the Markdown renderer.
type MarkdownEngine string

const (
	EngineBuiltin  MarkdownEngine = "builtin"
	EngineGoldmark MarkdownEngine = "goldmark"
)

// MarkdownConfig selects and tunes the Markdown renderer.
type MarkdownConfig struct {
	Engine MarkdownEngine `yaml:"engine"`
}

// TemplatesConfig points at the directory holding {name}-template.html files.
type TemplatesConfig struct {
	Directory string `yaml:"directory"`
}

// HomeConfig tunes the card grid on the home section.
type HomeConfig struct {
	MaxCards int    `yaml:"max_cards"`
	MoreLink string `yaml:"more_link"`
}

// SectionKind decides how a section gathers and lays out its documents.
type SectionKind string

const (
	KindHome    SectionKind = "home"
	KindArchive SectionKind = "archive"
	KindList    SectionKind = "list"
)

// SectionConfig declares one named section of the blog.
type SectionConfig struct {
	Name           string         `yaml:"name"`
	Kind           SectionKind    `yaml:"kind,omitempty"`
	Directory      string         `yaml:"directory"`
	PerPage        int            `yaml:"per_page"`
	Title          string         `yaml:"title,omitempty"`
	HeaderTitle    string         `yaml:"header_title,omitempty"`
	HeaderSubtitle string         `yaml:"header_subtitle,omitempty"`
	Classes        SectionClasses `yaml:"classes"`
	// InNav controls whether the generated navigation links the section.
	InNav *bool `yaml:"in_nav,omitempty"`
}

// SectionClasses are the CSS class names used for list items.
type SectionClasses struct {
	Content     string `yaml:"content"`
	Item        string `yaml:"item"`
	ItemTitle   string `yaml:"item_title"`
	ItemDate    string `yaml:"item_date"` // empty hides the date line
	ItemExcerpt string `yaml:"item_excerpt"`
}

// ShowInNav reports whether the section appears in the generated navigation.
func (s SectionConfig) ShowInNav() bool {
	return s.InNav == nil || *s.InNav
}

// PageConfig is a standalone page whose {{nav}} token gets filled.
type PageConfig struct {
	Source string `yaml:"source"`
	Output string `yaml:"output"`
}

// StateConfig controls the incremental build state store.
type StateConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Path    string `yaml:"path"`
}

// IsEnabled defaults to true when the field is omitted.
func (s StateConfig) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// MetricsConfig controls the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// PublishConfig controls committing generated files with git.
type PublishConfig struct {
	Commit      bool   `yaml:"commit"`
	Message     string `yaml:"message"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// WatchConfig tunes the watch command.
type WatchConfig struct {
	Debounce string `yaml:"debounce"`
	Interval string `yaml:"interval,omitempty"`
}

// DebounceDuration parses Debounce, falling back to the default.
func (w WatchConfig) DebounceDuration() time.Duration {
	if d, err := time.ParseDuration(w.Debounce); err == nil && d > 0 {
		return d
	}
	return defaultDebounce
}

// IntervalDuration parses Interval; zero disables scheduled rebuilds.
func (w WatchConfig) IntervalDuration() time.Duration {
	if w.Interval == "" {
		return 0
	}
	d, err := time.ParseDuration(w.Interval)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// LoggingConfig selects log level and format.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// ResolvePath joins p onto the site root unless p is absolute.
func (c *Config) ResolvePath(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(c.Site.Root, p)
}

// OutputRoot is the absolute or root-relative directory receiving index pages.
func (c *Config) OutputRoot() string {
	return c.ResolvePath(c.Output.Directory)
}

// Section returns the named section.
func (c *Config) Section(name string) (SectionConfig, bool) {
	for _, s := range c.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return SectionConfig{}, false
}
