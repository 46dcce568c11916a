package markdown

import (
	"regexp"
	"strings"
)

type blockKind int

const (
	blockBlank blockKind = iota
	blockHeading
	blockFence
	blockBullet
	blockOrdered
	blockRaw
	blockParagraph
)

// block is one token produced by the line scanner.
type block struct {
	kind  blockKind
	level int    // heading level
	lang  string // fence language
	text  string // heading/list/paragraph text, raw line, or fence body
}

var (
	headingLine = regexp.MustCompile(`^(#{1,5})\s+(.*)$`)
	fenceOpen   = regexp.MustCompile("^```(\\w+)?\\s*$")
	bulletLine  = regexp.MustCompile(`^-\s+(.*)$`)
	orderedLine = regexp.MustCompile(`^\d+\.\s+(.*)$`)
)

// structuralPrefixes are tags that pass through without a <p> wrapper.
var structuralPrefixes = []string{
	"<h1>", "<h2>", "<h3>", "<h4>", "<h5>", "<h6>",
	"<ul>", "<ol>", "<li>", "<pre>", "<code>",
}

// scanBlocks splits markdown into block tokens, one per line except for
// fenced code which spans until its closing fence. An unterminated fence
// runs to the end of the document.
func scanBlocks(markdown string) []block {
	lines := strings.Split(strings.ReplaceAll(markdown, "\r\n", "\n"), "\n")
	blocks := make([]block, 0, len(lines))

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if m := fenceOpen.FindStringSubmatch(line); m != nil {
			var body strings.Builder
			j := i + 1
			for ; j < len(lines); j++ {
				if strings.HasPrefix(strings.TrimSpace(lines[j]), "```") {
					break
				}
				body.WriteString(lines[j])
				body.WriteByte('\n')
			}
			blocks = append(blocks, block{kind: blockFence, lang: m[1], text: body.String()})
			i = j
			continue
		}

		blocks = append(blocks, classifyLine(line))
	}
	return blocks
}

func classifyLine(line string) block {
	if strings.TrimSpace(line) == "" {
		return block{kind: blockBlank}
	}
	if m := headingLine.FindStringSubmatch(line); m != nil {
		return block{kind: blockHeading, level: len(m[1]), text: strings.TrimRight(m[2], " \t")}
	}
	if m := bulletLine.FindStringSubmatch(line); m != nil {
		return block{kind: blockBullet, text: m[1]}
	}
	if m := orderedLine.FindStringSubmatch(line); m != nil {
		return block{kind: blockOrdered, text: m[1]}
	}
	for _, prefix := range structuralPrefixes {
		if strings.HasPrefix(line, prefix) {
			return block{kind: blockRaw, text: line}
		}
	}
	return block{kind: blockParagraph, text: line}
}
