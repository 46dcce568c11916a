// Package markdown renders post bodies to HTML fragments.
//
// Two engines are available. The builtin engine is a small line-oriented
// converter that covers headings, fenced code, lists, images, links and
// emphasis. The goldmark engine renders GitHub Flavored Markdown and applies
// the same image path resolution and link targets.
package markdown

import (
	"fmt"
	"strings"
)

// Renderer converts a Markdown body into an HTML fragment.
type Renderer interface {
	Render(markdown string, p Paths) (string, error)
	Name() string
}

// Builtin is the line-oriented renderer.
type Builtin struct{}

func (Builtin) Name() string { return "builtin" }

func (Builtin) Render(markdown string, p Paths) (string, error) {
	return ToHTML(markdown, p), nil
}

// New returns the renderer registered under engine.
func New(engine string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", "builtin":
		return Builtin{}, nil
	case "goldmark":
		return NewGoldmark(), nil
	default:
		return nil, fmt.Errorf("unknown markdown engine %q", engine)
	}
}
