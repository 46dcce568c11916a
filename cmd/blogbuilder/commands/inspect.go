package commands

import (
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/blogbuilder/internal/docmodel"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/frontmatter"
	"git.home.luguber.info/inful/blogbuilder/internal/markdown"
)

// InspectCmd implements the 'inspect' command.
type InspectCmd struct {
	File    string `arg:"" help:"Markdown file to inspect" type:"existingfile"`
	Section string `help:"Section name used for the document id"`
	Render  bool   `help:"Include the rendered HTML body"`
	Engine  string `help:"Markdown engine used with --render (builtin|goldmark)" default:"builtin"`
}

// inspection is the YAML shape printed by inspect.
type inspection struct {
	ID           string          `yaml:"id"`
	Title        string          `yaml:"title"`
	Date         string          `yaml:"date"`
	SortKey      string          `yaml:"sort_key"`
	Categories   []string        `yaml:"categories"`
	Languages    []string        `yaml:"languages"`
	OriginalLink string          `yaml:"original_link,omitempty"`
	Excerpt      string          `yaml:"excerpt"`
	FrontMatter  frontmatter.Map `yaml:"front_matter"`
	Links        []markdown.Link `yaml:"links,omitempty"`
	Fingerprint  string          `yaml:"fingerprint"`
	HTML         string          `yaml:"html,omitempty"`
}

func (i *InspectCmd) Run(_ *Global, _ *CLI) error {
	return i.inspect(os.Stdout)
}

func (i *InspectCmd) inspect(w io.Writer) error {
	doc, err := docmodel.ParseFile(i.File, docmodel.Options{Section: i.Section})
	if err != nil {
		return err
	}
	out := inspection{
		ID:           doc.ID,
		Title:        doc.Title,
		Date:         doc.Date,
		SortKey:      doc.SortKey(),
		Categories:   doc.Categories,
		Languages:    doc.Languages,
		OriginalLink: doc.OriginalLink,
		Excerpt:      doc.Excerpt,
		FrontMatter:  doc.FrontMatter,
		Links:        markdown.ExtractLinks([]byte(doc.Body)),
		Fingerprint:  doc.Fingerprint(),
	}
	if out.FrontMatter == nil {
		out.FrontMatter = frontmatter.Map{}
	}
	if i.Render {
		renderer, err := markdown.New(i.Engine)
		if err != nil {
			return errors.WrapError(err, errors.CategoryValidation, "unsupported markdown engine").
				WithContext("engine", i.Engine).Build()
		}
		html, err := renderer.Render(doc.Body, markdown.Paths{
			BasePath:   ".",
			SourcePath: i.File,
			DestPath:   strings.TrimSuffix(i.File, ".md") + ".html",
		})
		if err != nil {
			return errors.WrapError(err, errors.CategoryBuild, "failed to render markdown").
				WithContext("path", i.File).Build()
		}
		out.HTML = html
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to encode document").Build()
	}
	return enc.Close()
}
