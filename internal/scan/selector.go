package scan

import (
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// SelectorValue extracts the identifier from an attribute-equality selector:
//
//	[data-test=greeting]            -> greeting
//	[data-test="personal greeting"] -> personal greeting
//
// The brackets are stripped, then a recognised attribute name followed by
// "=", then one optional pair of double quotes. Anything else (a missing or
// unknown prefix, another operator such as ~=, nested brackets) is not a
// test-attribute selector and yields ok=false.
func SelectorValue(selector string, attributes map[string]bool) (string, bool) {
	if len(selector) < 2 || selector[0] != '[' || selector[len(selector)-1] != ']' {
		return "", false
	}
	inner := selector[1 : len(selector)-1]
	if strings.ContainsAny(inner, "[]") {
		return "", false
	}

	name, value, found := strings.Cut(inner, "=")
	if !found || !attributes[name] {
		return "", false
	}
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		value = value[1 : len(value)-1]
	}
	return nonEmpty(value)
}

func stripQuotes(raw string) string {
	if len(raw) < 2 {
		return raw
	}
	q := raw[0]
	if (q == '"' || q == '\'') && raw[len(raw)-1] == q {
		return raw[1 : len(raw)-1]
	}
	return raw
}

// decodeJSString turns a quoted JavaScript string literal into its value.
// Unknown escapes keep the escaped character, as JavaScript does.
func decodeJSString(raw string) string {
	body := stripQuotes(raw)
	if !strings.Contains(body, `\`) {
		return body
	}

	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 == len(body) {
			b.WriteByte(c)
			continue
		}

		i++
		switch esc := body[i]; esc {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			b.WriteByte(0)
		case '\r':
			// line continuation, optionally CRLF
			if i+1 < len(body) && body[i+1] == '\n' {
				i++
			}
		case '\n':
			// line continuation
		case 'x':
			if r, ok := parseHex(body, i+1, 2); ok {
				b.WriteRune(r)
				i += 2
			} else {
				b.WriteByte(esc)
			}
		case 'u':
			r, width := decodeUnicodeEscape(body, i+1)
			if width == 0 {
				b.WriteByte(esc)
				continue
			}
			i += width
			if utf16.IsSurrogate(r) && strings.HasPrefix(body[i+1:], `\u`) {
				if low, lowWidth := decodeUnicodeEscape(body, i+3); lowWidth > 0 {
					if pair := utf16.DecodeRune(r, low); pair != utf8.RuneError {
						b.WriteRune(pair)
						i += 2 + lowWidth
						continue
					}
				}
			}
			b.WriteRune(r)
		default:
			b.WriteByte(esc)
		}
	}
	return b.String()
}

// decodeUnicodeEscape reads the payload of a \u escape starting at start,
// either XXXX or {X...}. width is the number of bytes consumed, 0 if invalid.
func decodeUnicodeEscape(s string, start int) (rune, int) {
	if start < len(s) && s[start] == '{' {
		end := strings.IndexByte(s[start:], '}')
		if end < 2 {
			return 0, 0
		}
		r, ok := parseHex(s, start+1, end-1)
		if !ok || r > utf8.MaxRune {
			return 0, 0
		}
		return r, end + 1
	}
	r, ok := parseHex(s, start, 4)
	if !ok {
		return 0, 0
	}
	return r, 4
}

func parseHex(s string, start, n int) (rune, bool) {
	if n <= 0 || start+n > len(s) {
		return 0, false
	}
	v, err := strconv.ParseUint(s[start:start+n], 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}
