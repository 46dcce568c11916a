// Package docmodel turns a Markdown source file into a Document: the parsed
// front matter plus title, date, taxonomy and excerpt resolved through their
// fallback chains.
package docmodel

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/frontmatter"
)

// UntitledPlaceholder is the title of a document with no other title source.
const UntitledPlaceholder = "untitled"

const excerptRunes = 100

// Options carries context the file itself cannot provide.
type Options struct {
	// Section is the name of the section the document was listed under.
	Section string
}

// Document is one parsed Markdown source. It is never mutated after Parse.
type Document struct {
	ID           string
	Section      string
	Path         string
	FileName     string
	RawText      string
	FrontMatter  frontmatter.Map
	Title        string
	Date         string
	Categories   []string
	Languages    []string
	OriginalLink string
	Excerpt      string
	Body         string

	blockRaw string
}

// Parse builds a Document from raw file contents. It never fails: every
// field has a deterministic fallback.
func Parse(path string, content []byte, opts Options) *Document {
	raw := strings.ReplaceAll(string(content), "\r\n", "\n")
	fields, body, block := frontmatter.Split(raw)
	name := filepath.Base(path)

	d := &Document{
		ID:          documentID(opts.Section, name),
		Section:     opts.Section,
		Path:        path,
		FileName:    name,
		RawText:     raw,
		FrontMatter: fields,
		Body:        body,
		blockRaw:    block.Raw,
	}
	d.Title = resolveTitle(fields, raw, name)
	d.Date = resolveDate(fields, raw, name)
	d.Categories = resolveList(fields, raw, "categories")
	d.Languages = resolveList(fields, raw, "languages")
	d.OriginalLink = resolveScalar(fields, raw, "originalLink")
	d.Excerpt = resolveExcerpt(fields, raw, block, body)
	return d
}

// ParseFile reads path from disk and parses it.
func ParseFile(path string, opts Options) (*Document, error) {
	// #nosec G304 -- path comes from section listings or the CLI.
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read document").
			WithContext("path", path).
			Build()
	}
	return Parse(path, content, opts), nil
}

func documentID(section, name string) string {
	if section == "" {
		return name
	}
	return section + "/" + name
}

// Stem is the file name without its .md extension.
func (d *Document) Stem() string {
	return strings.TrimSuffix(d.FileName, filepath.Ext(d.FileName))
}

// SortKey is the resolved date, or the first ten characters of the file
// name when no date could be resolved.
func (d *Document) SortKey() string {
	if d.Date != "" {
		return d.Date
	}
	return filenamePrefix(d.FileName)
}

// DisplayDate is the date shown in listings; it uses the same fallback as SortKey.
func (d *Document) DisplayDate() string {
	return d.SortKey()
}

// HasFrontMatter reports whether the source opened with a metadata block.
func (d *Document) HasFrontMatter() bool {
	return len(d.FrontMatter) > 0 || d.blockRaw != ""
}

// Fingerprint hashes the metadata block and body.
func (d *Document) Fingerprint() string {
	return mdfp.CalculateFingerprintFromParts(d.blockRaw, d.Body)
}

func filenamePrefix(name string) string {
	if len(name) <= 10 {
		return name
	}
	return name[:10]
}
