package lexer

import (
	"strconv"
	"strings"
)

// StringPart is one piece of a string literal body: literal text, or the
// unparsed source of a ${...} interpolation.
type StringPart struct {
	Raw           string // text with escapes still encoded, or interpolation source
	Interpolation bool
	Offset        int // byte offset of Raw in the source
}

// Body returns the literal text between the delimiters of a string token
func Body(tok Token) (string, int) {
	lit := tok.Literal
	switch tok.Type {
	case TEXT_BLOCK:
		if len(lit) >= 6 {
			return lit[3 : len(lit)-3], tok.Span.Start.Offset + 3
		}
	case STRING, GSTRING:
		if len(lit) >= 2 {
			return lit[1 : len(lit)-1], tok.Span.Start.Offset + 1
		}
	}
	return "", tok.Span.Start.Offset
}

// SplitString breaks a string token into text and interpolation parts.
// Only double-quoted strings carry interpolations.
func SplitString(tok Token) []StringPart {
	body, base := Body(tok)
	if tok.Type != GSTRING {
		return []StringPart{{Raw: body, Offset: base}}
	}

	var parts []StringPart
	textStart := 0
	for i := 0; i < len(body); i++ {
		switch {
		case body[i] == '\\':
			i++
		case body[i] == '$' && i+1 < len(body) && body[i+1] == '{':
			exprStart := i + 2
			end, ok := interpolationEnd(body, exprStart)
			if !ok {
				continue
			}
			if i > textStart {
				parts = append(parts, StringPart{Raw: body[textStart:i], Offset: base + textStart})
			}
			parts = append(parts, StringPart{
				Raw:           body[exprStart:end],
				Interpolation: true,
				Offset:        base + exprStart,
			})
			i = end
			textStart = end + 1
		}
	}
	if textStart < len(body) || len(parts) == 0 {
		parts = append(parts, StringPart{Raw: body[textStart:], Offset: base + textStart})
	}
	return parts
}

// interpolationEnd returns the index of the brace closing the ${ span
// whose expression starts at s[i]. Quoted strings and balanced braces
// inside the expression are skipped. When a newline or the end of s comes
// first it returns that index and false.
func interpolationEnd(s string, i int) (int, bool) {
	depth := 0
	var quote byte
	for ; i < len(s); i++ {
		ch := s[i]
		if ch == '\n' {
			return i, false
		}
		if quote != 0 {
			switch ch {
			case '\\':
				if i+1 < len(s) && s[i+1] != '\n' {
					i++
				}
			case quote:
				quote = 0
			}
			continue
		}
		switch ch {
		case '\'', '"':
			quote = ch
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return i, true
			}
			depth--
		}
	}
	return i, false
}

// Unescape decodes backslash escapes. Unknown escapes yield the escaped
// character itself; a backslash before a newline joins the lines.
func Unescape(raw string) string {
	if strings.IndexByte(raw, '\\') < 0 {
		return raw
	}

	var sb strings.Builder
	sb.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		if ch != '\\' || i+1 >= len(raw) {
			sb.WriteByte(ch)
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case '\n':
			// line continuation
		case 'u':
			if i+4 < len(raw) {
				if v, err := strconv.ParseUint(raw[i+1:i+5], 16, 32); err == nil {
					sb.WriteRune(rune(v))
					i += 4
					continue
				}
			}
			sb.WriteByte('u')
		default:
			sb.WriteByte(raw[i])
		}
	}
	return sb.String()
}
