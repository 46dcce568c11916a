package site

import (
	"bytes"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/markdown"
)

// NavTemplateName is the template file holding a hand-written nav fragment.
const NavTemplateName = "nav"

// NavProvider returns the navigation fragment spliced into every page. Its
// hrefs are relative to the output root.
type NavProvider interface {
	Nav() (string, error)
}

// TemplateNav reads nav-template.html and falls back to a nav generated
// from the configured sections.
type TemplateNav struct {
	fs       Filesystem
	path     string
	fallback string
}

// NewTemplateNav builds the provider for cfg.
func NewTemplateNav(fsys Filesystem, cfg *config.Config) *TemplateNav {
	return &TemplateNav{
		fs:       fsys,
		path:     filepath.Join(cfg.ResolvePath(cfg.Templates.Directory), TemplateFileName(NavTemplateName)),
		fallback: GenerateNav(cfg),
	}
}

func (n *TemplateNav) Nav() (string, error) {
	b, err := n.fs.ReadFile(n.path)
	if err != nil {
		if isNotExist(err) {
			return n.fallback, nil
		}
		return "", errors.WrapError(err, errors.CategoryFileSystem, "failed to read nav template").
			WithContext("path", n.path).Build()
	}
	return string(b), nil
}

// StaticNav is a fixed navigation fragment.
type StaticNav string

func (s StaticNav) Nav() (string, error) { return string(s), nil }

var labelCaser = cases.Title(language.English)

// GenerateNav renders a <nav> linking every section shown in the nav, the
// standalone pages and the optional GitHub link.
func GenerateNav(cfg *config.Config) string {
	var b strings.Builder
	b.WriteString("<nav>\n")
	for _, s := range cfg.Sections {
		if !s.ShowInNav() {
			continue
		}
		label := s.HeaderTitle
		if s.Kind == config.KindHome {
			label = "Home"
		}
		writeNavLink(&b, s.Name+".html", label, false)
	}
	for _, p := range cfg.Pages {
		stem := strings.TrimSuffix(path.Base(filepath.ToSlash(p.Output)), ".html")
		writeNavLink(&b, filepath.ToSlash(p.Output), labelCaser.String(strings.ReplaceAll(stem, "-", " ")), false)
	}
	if cfg.Site.GitHub != "" {
		writeNavLink(&b, cfg.Site.GitHub, "GitHub", true)
	}
	b.WriteString("</nav>")
	return b.String()
}

func writeNavLink(b *strings.Builder, href, label string, external bool) {
	b.WriteString(`  <a href="`)
	b.WriteString(markdown.EscapeHTML(href))
	b.WriteString(`"`)
	if external {
		b.WriteString(` target="_blank" rel="noopener"`)
	}
	b.WriteString(">")
	b.WriteString(markdown.EscapeHTML(label))
	b.WriteString("</a>\n")
}

// RelativizeNav rewrites the relative hrefs of nav, which are relative to
// the output root, so they resolve from a page in destDir (a slash path
// relative to the output root).
func RelativizeNav(nav, destDir string) (string, error) {
	if destDir == "" || destDir == "." {
		return nav, nil
	}
	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(nav), context)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryTemplate, "failed to parse nav fragment").Build()
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.A {
			if href := getAttr(n, "href"); href != "" {
				setAttr(n, "href", relativeHref(href, destDir))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	var buf bytes.Buffer
	for _, n := range nodes {
		walk(n)
		if err := html.Render(&buf, n); err != nil {
			return "", errors.WrapError(err, errors.CategoryTemplate, "failed to render nav fragment").Build()
		}
	}
	return buf.String(), nil
}

func relativeHref(href, destDir string) string {
	if href == "" || markdown.IsExternal(href) {
		return href
	}
	if u, err := url.Parse(href); err != nil || u.Scheme != "" {
		return href
	}
	rel, err := filepath.Rel(filepath.FromSlash(destDir), filepath.FromSlash(path.Dir(href)))
	if err != nil {
		return href
	}
	return path.Join(filepath.ToSlash(rel), path.Base(href))
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
