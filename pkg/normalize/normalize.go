// Package normalize applies textual clean-up passes to serialized Markup.
//
// Both passes are idempotent and never look inside fenced code blocks or
// inline code spans. ListSpacing also leaves raw HTML blocks alone.
package normalize

import (
	"regexp"
	"strings"
)

// Pass is a single normalization step over Markup text.
type Pass struct {
	Name  string
	Apply func(string) string
}

// Passes returns the normalization passes in the order Normalize runs them.
func Passes() []Pass {
	return []Pass{
		{Name: "list-spacing", Apply: ListSpacing},
		{Name: "collapse-wrappers", Apply: CollapseWrappers},
	}
}

// Normalize runs every pass over markup.
func Normalize(markup string) string {
	for _, pass := range Passes() {
		markup = pass.Apply(markup)
	}
	return markup
}

//nolint:gochecknoglobals // Compiled patterns are read-only.
var (
	listItemPattern = regexp.MustCompile(`^(?:[-*+]|\d{1,9}[.)])(?:[ \t]|$)`)
	fencePattern    = regexp.MustCompile("^[ \t]*(`{3,}|~{3,})")

	// HTML block starts. Raw tags end at their closing tag, block-level
	// and lone tags at the next blank line.
	htmlRawStartPattern   = regexp.MustCompile(`(?i)^ {0,3}<(script|pre|style|textarea)(?:[ \t>]|$)`)
	htmlBlockStartPattern = regexp.MustCompile(`(?i)^ {0,3}</?(address|article|aside|base|basefont|blockquote|body|caption|center|col|colgroup|dd|details|dialog|dir|div|dl|dt|fieldset|figcaption|figure|footer|form|frame|frameset|h[1-6]|head|header|hr|html|iframe|legend|li|link|main|menu|menuitem|nav|noframes|ol|optgroup|option|p|param|search|section|summary|table|tbody|td|tfoot|th|thead|title|tr|track|ul)(?:[ \t>]|/>|$)`)
	htmlTagLinePattern    = regexp.MustCompile(`^ {0,3}(?:<[A-Za-z][A-Za-z0-9-]*(?:\s+[A-Za-z_:][\w.:-]*(?:\s*=\s*(?:[^\s"'=<>` + "`" + `]+|'[^']*'|"[^"]*"))?)*\s*/?>|</[A-Za-z][A-Za-z0-9-]*\s*>)[ \t]*$`)
)

// htmlEndMarkers lists the HTML blocks that end on the line containing
// end rather than at a blank line.
//
//nolint:gochecknoglobals // Read-only lookup table.
var htmlEndMarkers = []struct {
	prefix string
	end    string
}{
	{"<!--", "-->"},
	{"<?", "?>"},
	{"<![CDATA[", "]]>"},
	{"<!", ">"},
}

// ListSpacing inserts one blank line between a non-blank line and a list
// item line directly below it. Only the preceding line is inspected.
// Lines after another list item, indented lines and lines after a
// blockquote are left alone, as is everything inside a raw HTML block.
func ListSpacing(markup string) string {
	lines := strings.Split(markup, "\n")
	out := make([]string, 0, len(lines))

	var fence string
	var html htmlBlock
	for i, line := range lines {
		if fence != "" {
			if isFenceClose(line, fence) {
				fence = ""
			}
			out = append(out, line)
			continue
		}
		if html.open {
			html.advance(line)
			out = append(out, line)
			continue
		}
		if match := fencePattern.FindStringSubmatch(line); match != nil {
			fence = match[1]
		}
		if html.start(line, i == 0 || strings.TrimSpace(lines[i-1]) == "") {
			out = append(out, line)
			continue
		}

		if i > 0 && listItemPattern.MatchString(line) && needsSpacing(lines[i-1]) {
			out = append(out, "")
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func needsSpacing(prev string) bool {
	switch {
	case strings.TrimSpace(prev) == "":
		return false
	case strings.HasPrefix(prev, " "), strings.HasPrefix(prev, "\t"):
		return false
	case strings.HasPrefix(prev, ">"):
		return false
	case fencePattern.MatchString(prev):
		return false
	default:
		return !listItemPattern.MatchString(prev)
	}
}

func isFenceClose(line, fence string) bool {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < len(fence) {
		return false
	}
	return strings.Trim(trimmed, fence[:1]) == ""
}

// htmlBlock tracks a raw HTML block. An empty end marker means the block
// runs until the next blank line.
type htmlBlock struct {
	open bool
	end  string
}

// start reports whether line opens an HTML block and records how it ends.
// Blocks made of a lone arbitrary tag cannot interrupt a paragraph, so
// they only start after a blank line.
func (h *htmlBlock) start(line string, afterBlank bool) bool {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 || !strings.HasPrefix(trimmed, "<") {
		return false
	}

	switch {
	case htmlRawStartPattern.MatchString(line):
		tag := strings.ToLower(htmlRawStartPattern.FindStringSubmatch(line)[1])
		h.end = "</" + tag + ">"
	case htmlBlockStartPattern.MatchString(line):
		h.end = ""
	case afterBlank && htmlTagLinePattern.MatchString(line):
		h.end = ""
	default:
		h.end = ""
		matched := false
		for _, marker := range htmlEndMarkers {
			if strings.HasPrefix(trimmed, marker.prefix) {
				if marker.prefix == "<!" && !startsWithLetter(trimmed[2:]) {
					continue
				}
				h.end = marker.end
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	h.open = true
	if h.end != "" {
		h.checkEnd(trimmed[1:])
	}
	return true
}

func (h *htmlBlock) advance(line string) {
	if h.end == "" {
		if strings.TrimSpace(line) == "" {
			h.open = false
		}
		return
	}
	h.checkEnd(line)
}

func (h *htmlBlock) checkEnd(line string) {
	if strings.Contains(strings.ToLower(line), h.end) {
		h.open = false
		h.end = ""
	}
}

func startsWithLetter(s string) bool {
	return s != "" && (s[0] >= 'a' && s[0] <= 'z' || s[0] >= 'A' && s[0] <= 'Z')
}
