package lint

import "strings"

// StripQuoted removes every single- or double-quoted span from text, quotes
// included, so pattern scans ignore anything the author explicitly quoted.
//
// Each span is replaced by one space, which keeps the text on either side from
// fusing into a token ("1'x'6px" must not read as "16px"). A backslash escapes
// the next character inside a span. An unterminated quote strips everything
// after it.
func StripQuoted(text string) string {
	if !strings.ContainsAny(text, `"'`) {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))

	var quote byte
	for i := 0; i < len(text); i++ {
		c := text[i]
		if quote == 0 {
			if c == '"' || c == '\'' {
				quote = c
				continue
			}
			b.WriteByte(c)
			continue
		}
		switch c {
		case '\\':
			i++
		case quote:
			quote = 0
			b.WriteByte(' ')
		}
	}
	if quote != 0 {
		b.WriteByte(' ')
	}
	return b.String()
}
