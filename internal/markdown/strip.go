package markdown

import (
	"regexp"
	"strings"
)

var (
	stripFence      = regexp.MustCompile("(?s)```.*?```")
	stripInlineCode = regexp.MustCompile("`([^`]+)`")
	stripImage      = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	stripLink       = regexp.MustCompile(`\[([^\]]*)\]\([^)]+\)`)
	stripHeading    = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	stripEmphasis   = regexp.MustCompile(`\*\*|\*`)
	stripListMarker = regexp.MustCompile(`(?m)^(?:-\s+|\d+\.\s+)`)
	stripBlankLines = regexp.MustCompile(`\n{2,}`)
)

// Strip reduces Markdown to plain text for excerpts. Code fences and images
// are dropped; inline code and link text are kept without their markup.
func Strip(markdown string) string {
	text := strings.ReplaceAll(markdown, "\r\n", "\n")
	text = stripFence.ReplaceAllString(text, "")
	text = stripInlineCode.ReplaceAllString(text, "$1")
	text = stripImage.ReplaceAllString(text, "")
	text = stripLink.ReplaceAllString(text, "$1")
	text = stripHeading.ReplaceAllString(text, "")
	text = stripEmphasis.ReplaceAllString(text, "")
	text = stripListMarker.ReplaceAllString(text, "")
	text = stripBlankLines.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}
