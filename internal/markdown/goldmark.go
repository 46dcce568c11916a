package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var pathsKey = parser.NewContextKey()

// Goldmark renders GitHub Flavored Markdown. It is safe for concurrent use.
type Goldmark struct {
	md goldmark.Markdown
}

// NewGoldmark builds the goldmark engine with GFM and raw HTML passthrough.
func NewGoldmark() *Goldmark {
	return &Goldmark{md: goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(util.Prioritized(pathTransformer{}, 100)),
		),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)}
}

func (*Goldmark) Name() string { return "goldmark" }

func (g *Goldmark) Render(markdown string, p Paths) (string, error) {
	ctx := parser.NewContext()
	ctx.Set(pathsKey, p)

	var buf bytes.Buffer
	if err := g.md.Convert([]byte(markdown), &buf, parser.WithContext(ctx)); err != nil {
		return "", fmt.Errorf("markdown render: %w", err)
	}
	return buf.String(), nil
}

// pathTransformer resolves image destinations and opens links in a new
// browsing context, matching the builtin engine.
type pathTransformer struct{}

func (pathTransformer) Transform(doc *gmast.Document, _ text.Reader, pc parser.Context) {
	p, _ := pc.Get(pathsKey).(Paths)
	_ = gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Image:
			node.Destination = []byte(ResolveImage(string(node.Destination), p))
			node.SetAttributeString("class", []byte("markdown-image"))
		case *gmast.Link:
			node.SetAttributeString("target", []byte("_blank"))
			node.SetAttributeString("rel", []byte("noopener"))
		}
		return gmast.WalkContinue, nil
	})
}
