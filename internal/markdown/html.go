package markdown

import (
	"regexp"
	"strconv"
	"strings"
)

var blankRun = regexp.MustCompile(`\n{3,}`)

// ToHTML converts a Markdown body to an HTML fragment. Image references are
// resolved against p. Malformed input degrades to plainer output; ToHTML
// never fails.
func ToHTML(markdown string, p Paths) string {
	blocks := scanBlocks(markdown)
	out := make([]string, 0, len(blocks))

	var openList blockKind = blockBlank
	closeList := func() {
		switch openList {
		case blockBullet:
			out = append(out, "</ul>")
		case blockOrdered:
			out = append(out, "</ol>")
		}
		openList = blockBlank
	}

	for _, b := range blocks {
		if b.kind != openList {
			closeList()
		}

		switch b.kind {
		case blockBlank:
			out = append(out, "")
		case blockHeading:
			tag := "h" + strconv.Itoa(b.level)
			out = append(out, "<"+tag+">"+renderInline(b.text, p)+"</"+tag+">")
		case blockFence:
			lang := b.lang
			if lang == "" {
				lang = "plaintext"
			}
			out = append(out, `<pre><code class="language-`+lang+`">`+EscapeHTML(b.text)+"</code></pre>")
		case blockBullet, blockOrdered:
			if openList == blockBlank {
				if b.kind == blockBullet {
					out = append(out, "<ul>")
				} else {
					out = append(out, "<ol>")
				}
				openList = b.kind
			}
			out = append(out, "<li>"+renderInline(b.text, p)+"</li>")
		case blockRaw:
			out = append(out, b.text)
		case blockParagraph:
			out = append(out, "<p>"+renderInline(b.text, p)+"</p>")
		}
	}
	closeList()

	html := strings.Join(out, "\n")
	html = blankRun.ReplaceAllString(html, "\n\n")
	return strings.Trim(html, "\n")
}
