package markdown

import "strings"

// renderInline converts code spans, images, links, bold and italic markers
// in a single line. Unmatched markers are emitted literally.
func renderInline(text string, p Paths) string {
	var b strings.Builder
	b.Grow(len(text) + 16)

	for i := 0; i < len(text); {
		switch text[i] {
		case '`':
			if end := strings.IndexByte(text[i+1:], '`'); end > 0 {
				b.WriteString("<code>")
				b.WriteString(EscapeHTML(text[i+1 : i+1+end]))
				b.WriteString("</code>")
				i += end + 2
				continue
			}
		case '!':
			if alt, ref, n, ok := scanBracketed(text[i+1:], true); ok {
				b.WriteString(`<img src="`)
				b.WriteString(ResolveImage(ref, p))
				b.WriteString(`" alt="`)
				b.WriteString(EscapeHTML(alt))
				b.WriteString(`" class="markdown-image">`)
				i += 1 + n
				continue
			}
		case '[':
			if label, href, n, ok := scanBracketed(text[i:], false); ok {
				b.WriteString(`<a href="`)
				b.WriteString(href)
				b.WriteString(`" target="_blank" rel="noopener">`)
				b.WriteString(renderInline(label, p))
				b.WriteString("</a>")
				i += n
				continue
			}
		case '*':
			if strings.HasPrefix(text[i:], "**") {
				if inner, n, ok := scanEmphasis(text[i+2:], "**"); ok {
					b.WriteString("<strong>")
					b.WriteString(renderInline(inner, p))
					b.WriteString("</strong>")
					i += 2 + n
					continue
				}
				b.WriteString("**")
				i += 2
				continue
			}
			if inner, n, ok := scanEmphasis(text[i+1:], "*"); ok {
				b.WriteString("<em>")
				b.WriteString(renderInline(inner, p))
				b.WriteString("</em>")
				i += 1 + n
				continue
			}
		}
		b.WriteByte(text[i])
		i++
	}
	return b.String()
}

// scanBracketed matches `[label](dest)` at the start of s. The label may be
// empty only for images. n is the number of bytes consumed.
func scanBracketed(s string, image bool) (label, dest string, n int, ok bool) {
	if !strings.HasPrefix(s, "[") {
		return "", "", 0, false
	}
	closeLabel := strings.IndexByte(s, ']')
	if closeLabel < 0 || closeLabel+1 >= len(s) || s[closeLabel+1] != '(' {
		return "", "", 0, false
	}
	label = s[1:closeLabel]
	if strings.ContainsRune(label, '[') || (!image && label == "") {
		return "", "", 0, false
	}
	rest := s[closeLabel+2:]
	closeDest := strings.IndexByte(rest, ')')
	if closeDest <= 0 {
		return "", "", 0, false
	}
	dest = strings.TrimSpace(rest[:closeDest])
	if dest == "" {
		return "", "", 0, false
	}
	return label, dest, closeLabel + 2 + closeDest + 1, true
}

// scanEmphasis finds the closing marker for a span whose content contains
// no '*'. n counts the content plus the closing marker.
func scanEmphasis(s, marker string) (inner string, n int, ok bool) {
	end := strings.Index(s, marker)
	if end <= 0 {
		return "", 0, false
	}
	inner = s[:end]
	if strings.ContainsRune(inner, '*') {
		return "", 0, false
	}
	return inner, end + len(marker), true
}
