// Package frontmatter extracts the `---` delimited metadata block that may
// open a post and parses its `key: value` lines.
//
// The grammar is deliberately small: one field per line, `[a, b]` values
// become lists, quotes are stripped, and anything else is skipped.
package frontmatter

import (
	"regexp"
	"strings"
)

const delimiter = "---"

var fieldLine = regexp.MustCompile(`^\s*(\w+):\s*(.*)$`)

// Block locates the metadata block inside the raw text. Start and End are
// byte offsets covering both delimiter lines; End is exclusive.
type Block struct {
	Found bool
	Start int
	End   int
	Raw   string // lines between the delimiters
}

// Extract parses the leading metadata block of raw. It never fails: text
// without a block yields an empty Map.
func Extract(raw string) Map {
	fields, _, _ := Split(raw)
	return fields
}

// Split separates the metadata block from the body. The body is the text
// with the block removed, trimmed of surrounding whitespace.
func Split(raw string) (Map, string, Block) {
	block := Locate(raw)
	if !block.Found {
		return Map{}, strings.TrimSpace(raw), block
	}
	body := raw[:block.Start] + raw[block.End:]
	return parseFields(block.Raw), strings.TrimSpace(body), block
}

// Locate finds the first metadata block. The opening delimiter must be the
// first non-blank line; the closing delimiter is the next line that is
// exactly `---`.
func Locate(raw string) Block {
	pos := 0
	if strings.HasPrefix(raw, "\ufeff") {
		pos = len("\ufeff")
	}

	openStart := -1
	for pos < len(raw) {
		line, next := lineAt(raw, pos)
		trimmed := strings.TrimRight(line, " \t\r")
		if trimmed == "" {
			pos = next
			continue
		}
		if trimmed == delimiter {
			openStart = pos
			pos = next
		}
		break
	}
	if openStart < 0 {
		return Block{}
	}

	contentStart := pos
	for pos < len(raw) {
		line, next := lineAt(raw, pos)
		if strings.TrimRight(line, " \t\r") == delimiter {
			return Block{
				Found: true,
				Start: openStart,
				End:   pos + len(line),
				Raw:   raw[contentStart:pos],
			}
		}
		pos = next
	}
	return Block{}
}

// lineAt returns the line starting at pos (without its newline) and the
// offset of the following line.
func lineAt(s string, pos int) (string, int) {
	idx := strings.IndexByte(s[pos:], '\n')
	if idx < 0 {
		return s[pos:], len(s)
	}
	return s[pos : pos+idx], pos + idx + 1
}

func parseFields(block string) Map {
	fields := Map{}
	for _, line := range strings.Split(block, "\n") {
		m := fieldLine.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if m == nil {
			continue
		}
		key, value := m[1], strings.TrimSpace(m[2])
		if strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]") {
			fields[key] = List(SplitList(value[1 : len(value)-1])...)
			continue
		}
		fields[key] = Scalar(stripQuotes(value))
	}
	return fields
}

// SplitList splits the inside of a `[a, b]` value on commas, trimming
// whitespace and quote characters from each item. Empty items are dropped.
func SplitList(inner string) []string {
	items := make([]string, 0)
	for _, part := range strings.Split(inner, ",") {
		item := stripQuotes(strings.TrimSpace(part))
		if item == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}

var quoteStripper = strings.NewReplacer(`"`, "", `'`, "")

func stripQuotes(s string) string {
	return strings.TrimSpace(quoteStripper.Replace(s))
}
