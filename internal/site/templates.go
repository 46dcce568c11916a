package site

import (
	"embed"
	stderrors "errors"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrTemplateNotFound is returned when neither the template directory nor
// the embedded defaults provide a template.
var ErrTemplateNotFound = stderrors.New("template not found")

const (
	SourceFile     = "file"
	SourceEmbedded = "embedded"
)

// DefaultTemplate is the key used when a section has no template of its own.
const DefaultTemplate = "default"

//go:embed templates_defaults/*.html
var embeddedTemplates embed.FS

// Template is a resolved template body and where it came from.
type Template struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Path   string `json:"path,omitempty"`
	Text   string `json:"-"`
}

// TemplateStore returns the template registered under a name.
type TemplateStore interface {
	Lookup(name string) (Template, error)
}

// DirTemplateStore reads {name}-template.html from a directory and falls
// back to the templates embedded in the binary.
type DirTemplateStore struct {
	fs  Filesystem
	dir string
}

// NewDirTemplateStore returns a store over dir.
func NewDirTemplateStore(fsys Filesystem, dir string) *DirTemplateStore {
	return &DirTemplateStore{fs: fsys, dir: dir}
}

// TemplateFileName is the file a template named name is read from.
func TemplateFileName(name string) string {
	return name + "-template.html"
}

func (s *DirTemplateStore) Lookup(name string) (Template, error) {
	file := TemplateFileName(name)
	if s.dir != "" {
		p := filepath.Join(s.dir, file)
		if b, err := s.fs.ReadFile(p); err == nil && strings.TrimSpace(string(b)) != "" {
			return Template{Name: name, Source: SourceFile, Path: p, Text: string(b)}, nil
		}
	}
	if b, err := embeddedTemplates.ReadFile("templates_defaults/" + file); err == nil {
		return Template{Name: name, Source: SourceEmbedded, Text: string(b)}, nil
	}
	return Template{}, ErrTemplateNotFound
}

// EmbeddedTemplateNames lists the built-in templates.
func EmbeddedTemplateNames() []string {
	entries, _ := embeddedTemplates.ReadDir("templates_defaults")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), "-template.html"))
	}
	return names
}

// EmbeddedTemplate returns the built-in template body for name.
func EmbeddedTemplate(name string) ([]byte, error) {
	return embeddedTemplates.ReadFile("templates_defaults/" + TemplateFileName(name))
}

var token = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Substitute replaces every {{key}} token with data[key]. Tokens without a
// value are left as they are.
func Substitute(tpl string, data map[string]string) string {
	return token.ReplaceAllStringFunc(tpl, func(m string) string {
		if v, ok := data[m[2:len(m)-2]]; ok {
			return v
		}
		return m
	})
}
