package serialize

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/yaklabco/markbridge/pkg/markup"
)

// escapeText escapes the characters of s that Markup would otherwise read
// as syntax. Newlines become spaces; line breaks are nodes of their own.
func escapeText(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := range len(s) {
		ch := s[i]
		switch ch {
		case '\\', '*', '`', '[', ']', '<', '|', '~':
			sb.WriteByte('\\')
			sb.WriteByte(ch)
		case '_':
			// An underscore inside a word never delimits emphasis.
			if i > 0 && i < len(s)-1 && isAlnum(s[i-1]) && isAlnum(s[i+1]) {
				sb.WriteByte(ch)
			} else {
				sb.WriteString(`\_`)
			}
		case '&':
			if markup.EntityLength(s[i:]) > 0 {
				sb.WriteString(`\&`)
			} else {
				sb.WriteByte(ch)
			}
		case '\n', '\r':
			sb.WriteByte(' ')
		default:
			sb.WriteByte(ch)
		}
	}
	return sb.String()
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

//nolint:gochecknoglobals // Compiled patterns are read-only.
var (
	lineStartPattern    = regexp.MustCompile(`^(?:#{1,6}(?:[ \t]|$)|>|[-+](?:[ \t]|$)|=+[ \t]*$|-+[ \t]*$|(?:-[ \t]*){3,}$)`)
	orderedStartPattern = regexp.MustCompile(`^(\d{1,9})([.)])([ \t]|$)`)
)

// escapeLineStarts strips the indentation of every line of an inline
// rendering and escapes the characters that would open a block there.
func escapeLineStarts(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		line = strings.TrimLeft(line, " \t")
		switch {
		case lineStartPattern.MatchString(line):
			line = `\` + line
		case orderedStartPattern.MatchString(line):
			line = orderedStartPattern.ReplaceAllString(line, `$1\$2$3`)
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// escapeDestination strips whitespace from a link destination and escapes
// the characters that would end or alter it.
func escapeDestination(dest string) string {
	var sb strings.Builder
	for i, r := range dest {
		switch {
		case unicode.IsSpace(r):
		case r == '\\' || r == '(' || r == ')' || r == '<' || r == '>':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case r == '&' && markup.EntityLength(dest[i:]) > 0:
			sb.WriteString(`\&`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// escapeTitle escapes quotes and backslashes in a link title.
func escapeTitle(title string) string {
	var sb strings.Builder
	for i, r := range title {
		switch {
		case r == '\\' || r == '"':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case r == '&' && markup.EntityLength(title[i:]) > 0:
			sb.WriteString(`\&`)
		case r == '\n' || r == '\r':
			sb.WriteByte(' ')
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// escapeInfo escapes the backslashes and entities in a fence info string,
// which the parser would otherwise unescape.
func escapeInfo(info string) string {
	var sb strings.Builder
	for i := range len(info) {
		ch := info[i]
		switch {
		case ch == '\\' && i+1 < len(info) && markup.IsASCIIPunct(info[i+1]):
			sb.WriteString(`\\`)
		case ch == '&' && markup.EntityLength(info[i:]) > 0:
			sb.WriteString(`\&`)
		default:
			sb.WriteByte(ch)
		}
	}
	return sb.String()
}
