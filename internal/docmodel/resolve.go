package docmodel

import (
	"path/filepath"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/frontmatter"
	"git.home.luguber.info/inful/blogbuilder/internal/markdown"
)

var filenameDate = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})`)

func scalarField(fields frontmatter.Map, key string) string {
	v, err := fields.Scalar(key)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(v)
}

func resolveTitle(fields frontmatter.Map, raw, name string) string {
	if t := scalarField(fields, "title"); t != "" {
		return t
	}
	if t := strings.TrimSpace(frontmatter.FirstHeading(raw)); t != "" {
		return t
	}
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if t := strings.TrimSpace(strings.ReplaceAll(stem, "-", " ")); t != "" {
		return t
	}
	return UntitledPlaceholder
}

func resolveDate(fields frontmatter.Map, raw, name string) string {
	if d := scalarField(fields, "date"); d != "" {
		return d
	}
	if d := frontmatter.InlineDate(raw); d != "" {
		return d
	}
	if m := filenameDate.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	return ""
}

// resolveList prefers a non-empty front matter list. A scalar value counts
// as a single item.
func resolveList(fields frontmatter.Map, raw, key string) []string {
	if items, err := fields.List(key); err == nil && len(items) > 0 {
		return items
	}
	if s := scalarField(fields, key); s != "" {
		return []string{s}
	}
	if items, ok := frontmatter.InlineList(raw, key); ok {
		return items
	}
	return []string{}
}

func resolveScalar(fields frontmatter.Map, raw, key string) string {
	if s := scalarField(fields, key); s != "" {
		return s
	}
	return frontmatter.InlineScalar(raw, key)
}

func resolveExcerpt(fields frontmatter.Map, raw string, block frontmatter.Block, body string) string {
	if e := scalarField(fields, "excerpt"); e != "" {
		return e
	}
	if block.Found {
		if e := markdown.Strip(preamble(raw[block.End:])); e != "" {
			return e
		}
	}
	return truncate(markdown.Strip(body), excerptRunes)
}

// preamble returns the trimmed text before the first `##` line, or "" when
// the text has no such line.
func preamble(text string) string {
	offset := 0
	for _, line := range strings.SplitAfter(text, "\n") {
		if strings.HasPrefix(line, "##") {
			return strings.TrimSpace(text[:offset])
		}
		offset += len(line)
	}
	return ""
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
