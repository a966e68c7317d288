package markup

import (
	"strings"

	"golang.org/x/net/html"
)

// unescape resolves backslash escapes and entity references in raw
// Markup text. goldmark leaves both in its text segments and decodes them
// only while rendering HTML.
func unescape(s string) string {
	if !strings.ContainsAny(s, `\&`) {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s) && IsASCIIPunct(s[i+1]):
			sb.WriteByte(s[i+1])
			i += 2
		case c == '&':
			if n := EntityLength(s[i:]); n > 0 {
				sb.WriteString(html.UnescapeString(s[i : i+n]))
				i += n
				continue
			}
			sb.WriteByte(c)
			i++
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return sb.String()
}

// IsASCIIPunct reports whether c is ASCII punctuation, the set of
// characters a backslash may escape.
func IsASCIIPunct(c byte) bool {
	return strings.IndexByte("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", c) >= 0
}

// EntityLength returns the length of the entity or numeric character
// reference at the start of s, or 0 when s does not start with one.
func EntityLength(s string) int {
	if len(s) < 3 || s[0] != '&' {
		return 0
	}

	i := 1
	switch {
	case s[i] == '#':
		i++
		hex := i < len(s) && (s[i] == 'x' || s[i] == 'X')
		if hex {
			i++
		}
		start := i
		for i < len(s) && i-start < 7 && isDigit(s[i], hex) {
			i++
		}
		digits := i - start
		if digits == 0 || (hex && digits > 6) {
			return 0
		}
	case isAlpha(s[i]):
		start := i
		for i < len(s) && i-start < 32 && (isAlpha(s[i]) || isDigit(s[i], false)) {
			i++
		}
		if i-start < 2 {
			return 0
		}
	default:
		return 0
	}

	if i >= len(s) || s[i] != ';' {
		return 0
	}
	return i + 1
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte, hex bool) bool {
	if c >= '0' && c <= '9' {
		return true
	}
	return hex && ((c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F'))
}
