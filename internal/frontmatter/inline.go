package frontmatter

import (
	"regexp"
	"strings"
)

// Inline fields are `key: value` lines anywhere in the document text. They
// are consulted only when the metadata block does not carry the field.

var (
	inlineDate    = regexp.MustCompile(`(?m)^date:\s+(\d{4}-\d{2}-\d{2})[ \t\r]*$`)
	inlineHeading = regexp.MustCompile(`(?m)^#[ \t]+(.*?)[ \t\r]*$`)
)

// InlineDate returns the first `date: YYYY-MM-DD` line value.
func InlineDate(raw string) string {
	if m := inlineDate.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return ""
}

// InlineList returns the items of the first `key: [a, b]` line. ok is false
// when no such line exists.
func InlineList(raw, key string) ([]string, bool) {
	re := regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(key) + `:\s+\[(.*?)\][ \t\r]*$`)
	m := re.FindStringSubmatch(raw)
	if m == nil {
		return nil, false
	}
	return SplitList(m[1]), true
}

// InlineScalar returns the trimmed rest of the first `key: value` line.
func InlineScalar(raw, key string) string {
	re := regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(key) + `:[ \t]+([^\n]+)$`)
	if m := re.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// FirstHeading returns the text of the first level-1 `# ` heading line.
func FirstHeading(raw string) string {
	if m := inlineHeading.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return ""
}
