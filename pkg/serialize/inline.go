package serialize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yaklabco/markbridge/pkg/rtree"
)

// mark renders an emphasis-like node. Whitespace at the edges of the
// content moves outside the delimiters. When the delimiters would not be
// recognized around the content, the HTML tag form is written instead.
func (c *Context) mark(n *rtree.Node, tag, delim string) string {
	prev := c.prev
	inner := c.Inline(n)

	lead, core, trail := splitBlanks(inner)
	if core == "" {
		return inner
	}
	if lead != "" {
		prev = ' '
	}
	next := c.nextRune(n)
	if trail != "" {
		next = ' '
	}

	candidates := []string{delim}
	if strings.HasPrefix(delim, "_") {
		candidates = append(candidates, strings.ReplaceAll(delim, "_", "*"))
	}
	for _, candidate := range candidates {
		if canDelimit(candidate, core, prev, next) {
			return lead + candidate + core + candidate + trail
		}
	}
	return lead + "<" + tag + ">" + core + "</" + tag + ">" + trail
}

func splitBlanks(s string) (lead, core, trail string) {
	core = strings.TrimLeft(s, " \t\n")
	lead = s[:len(s)-len(core)]
	trimmed := strings.TrimRight(core, " \t\n")
	trail = core[len(trimmed):]
	return lead, trimmed, trail
}

// canDelimit reports whether delim placed around core, between the runes
// prev and next, opens and closes emphasis.
func canDelimit(delim, core string, prev, next rune) bool {
	d, _ := utf8.DecodeRuneInString(delim)
	first, _ := utf8.DecodeRuneInString(core)
	last, _ := utf8.DecodeLastRuneInString(core)

	switch {
	case prev == d || next == d || first == d || last == d:
		return false
	case isPunct(first) && !spaceOrPunct(prev):
		return false
	case isPunct(last) && !spaceOrPunct(next):
		return false
	case d == '_' && (!spaceOrPunct(prev) || !spaceOrPunct(next)):
		return false
	default:
		return true
	}
}

func isPunct(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

func spaceOrPunct(r rune) bool {
	return unicode.IsSpace(r) || isPunct(r)
}

// openingRune approximates the rune written just before the first child
// of parent.
func openingRune(parent *rtree.Node, opts Options) rune {
	switch parent.Kind {
	case rtree.NodeEmphasis, rtree.NodeStrong:
		return rune(opts.EmphasisMarker)
	case rtree.NodeStrikethrough:
		return '~'
	case rtree.NodeUnderline:
		return '>'
	case rtree.NodeLink:
		return '['
	default:
		return ' '
	}
}

// nextRune approximates the rune written just after n.
func (c *Context) nextRune(n *rtree.Node) rune {
	for s := n.Next; s != nil; s = s.Next {
		if r, ok := c.leadingRune(s); ok {
			return r
		}
	}
	if n.Parent == nil {
		return ' '
	}
	switch n.Parent.Kind {
	case rtree.NodeEmphasis, rtree.NodeStrong:
		return rune(c.opts.EmphasisMarker)
	case rtree.NodeStrikethrough:
		return '~'
	case rtree.NodeUnderline:
		return '<'
	case rtree.NodeLink:
		return ']'
	default:
		return ' '
	}
}

// leadingRune approximates the first rune n renders. It reports false for
// nodes that render nothing.
func (c *Context) leadingRune(n *rtree.Node) (rune, bool) {
	switch n.Kind {
	case rtree.NodeText:
		s := escapeText(n.Text)
		if s == "" {
			return 0, false
		}
		r, _ := utf8.DecodeRuneInString(s)
		if unicode.IsSpace(r) {
			return ' ', true
		}
		return r, true
	case rtree.NodeSoftBreak, rtree.NodeHardBreak:
		return ' ', true
	case rtree.NodeEmphasis, rtree.NodeStrong:
		if invisible(n) {
			return 0, false
		}
		return rune(c.opts.EmphasisMarker), true
	case rtree.NodeStrikethrough:
		if invisible(n) {
			return 0, false
		}
		return '~', true
	case rtree.NodeUnderline:
		if invisible(n) {
			return 0, false
		}
		return '<', true
	case rtree.NodeLink:
		return '[', true
	case rtree.NodeImage:
		return '!', true
	case rtree.NodeCodeSpan:
		if n.Text == "" {
			return 0, false
		}
		return '`', true
	case rtree.NodeHTMLInline:
		r, size := utf8.DecodeRuneInString(n.Text)
		return r, size > 0
	default:
		return '<', true
	}
}

// codeSpan writes text inside a backtick fence longer than any backtick
// run it contains. Empty code spans cannot be written and emit nothing.
func codeSpan(text string, inTable bool) string {
	text = strings.ReplaceAll(text, "\n", " ")
	if text == "" {
		return ""
	}
	if inTable {
		text = strings.ReplaceAll(text, "|", `\|`)
	}

	fence := strings.Repeat("`", longestRun(text, '`')+1)
	pad := ""
	switch {
	case strings.HasPrefix(text, "`") || strings.HasSuffix(text, "`"):
		pad = " "
	case strings.HasPrefix(text, " ") && strings.HasSuffix(text, " ") && strings.Trim(text, " ") != "":
		pad = " "
	}
	return fence + pad + text + pad + fence
}

// longestRun returns the length of the longest run of ch in s.
func longestRun(s string, ch byte) int {
	longest, run := 0, 0
	for i := range len(s) {
		if s[i] == ch {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	return longest
}
