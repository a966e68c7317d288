package serialize

import (
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/markbridge/pkg/htmltree"
	"github.com/yaklabco/markbridge/pkg/rtree"
)

// Context carries the state of one serialization pass. Rules receive it to
// render child nodes.
type Context struct {
	opts  Options
	rules []Rule

	// unwrapping is the aligned block whose wrapper is being written.
	unwrapping *rtree.Node

	// prev is the last rune written before the node being rendered.
	prev rune

	singleLine bool
	inTable    bool
	inLink     bool
}

// Options returns the dialect in effect.
func (c *Context) Options() Options {
	return c.opts
}

// Node renders n with the first matching rule, or the generic mapping.
func (c *Context) Node(n *rtree.Node) string {
	for _, rule := range c.rules {
		if rule.Match(c, n) {
			return rule.Render(c, n)
		}
	}
	return c.generic(n)
}

// Blocks renders the block children of parent separated by blank lines.
func (c *Context) Blocks(parent *rtree.Node) string {
	return strings.Join(c.blockParts(parent), "\n\n")
}

// blockParts renders each block child of parent. Runs of inline nodes
// found among blocks are rendered as one paragraph.
func (c *Context) blockParts(parent *rtree.Node) []string {
	var parts []string
	for child := parent.FirstChild; child != nil; {
		if child.IsInline() {
			para := rtree.NewNode(rtree.NodeParagraph)
			for ; child != nil && child.IsInline(); child = child.Next {
				rtree.AppendChild(para, rtree.Clone(child))
			}
			if !rtree.IsBlank(para) {
				parts = append(parts, c.paragraph(para))
			}
			continue
		}
		if out := c.Node(child); out != "" {
			parts = append(parts, out)
		}
		child = child.Next
	}
	return parts
}

// Inline renders the inline children of parent.
func (c *Context) Inline(parent *rtree.Node) string {
	saved := c.prev
	defer func() { c.prev = saved }()

	var buf []byte
	c.prev = openingRune(parent, c.opts)
	for child := parent.FirstChild; child != nil; child = child.Next {
		out := c.Node(child)
		if isBreak(child) && out != "" && out != "<br>" {
			buf = trimTrailingBlanks(buf)
		}
		buf = append(buf, out...)
		if r, size := utf8.DecodeLastRune(buf); size > 0 {
			c.prev = r
		}
	}
	return string(buf)
}

func (c *Context) generic(n *rtree.Node) string {
	switch n.Kind {
	case rtree.NodeDocument, rtree.NodeListItem:
		return c.Blocks(n)
	case rtree.NodeParagraph:
		return c.paragraph(n)
	case rtree.NodeHeading:
		return c.heading(n)
	case rtree.NodeList:
		return c.list(n)
	case rtree.NodeBlockquote:
		return c.blockquote(n)
	case rtree.NodeCodeBlock:
		return c.codeBlock(n)
	case rtree.NodeThematicBreak:
		return "---"
	case rtree.NodeHTMLBlock:
		return strings.TrimRight(n.Text, " \t\n")
	case rtree.NodeTable:
		return c.table(n)
	case rtree.NodeTableRow:
		return c.tableRow(n, n.ChildCount())
	case rtree.NodeTableCell:
		return c.tableCell(n)
	case rtree.NodeText:
		return escapeText(n.Text)
	case rtree.NodeEmphasis:
		marker := string(c.opts.EmphasisMarker)
		return c.mark(n, "em", marker)
	case rtree.NodeStrong:
		marker := string(c.opts.EmphasisMarker)
		return c.mark(n, "strong", marker+marker)
	case rtree.NodeStrikethrough:
		return c.mark(n, "del", "~~")
	case rtree.NodeUnderline:
		return renderUnderline(c, n)
	case rtree.NodeLink:
		return renderLink(c, n)
	case rtree.NodeCodeSpan:
		return codeSpan(n.Text, c.inTable)
	case rtree.NodeImage:
		return "![" + escapeText(n.Text) + "](" + linkTarget(n) + ")"
	case rtree.NodeSoftBreak:
		return c.lineBreak(n, "\n")
	case rtree.NodeHardBreak:
		return renderHardBreak(c, n)
	case rtree.NodeHTMLInline:
		return n.Text
	case rtree.NodeElement:
		return htmltree.RenderNode(n)
	default:
		return ""
	}
}

func trimTrailingBlanks(buf []byte) []byte {
	for len(buf) > 0 && (buf[len(buf)-1] == ' ' || buf[len(buf)-1] == '\t') {
		buf = buf[:len(buf)-1]
	}
	return buf
}

func isBreak(n *rtree.Node) bool {
	return n.Kind == rtree.NodeSoftBreak || n.Kind == rtree.NodeHardBreak
}

// invisible reports whether n renders nothing a reader would see.
func invisible(n *rtree.Node) bool {
	switch n.Kind {
	case rtree.NodeText:
		return strings.Trim(n.Text, " \t\r\n") == ""
	case rtree.NodeCodeSpan:
		return n.Text == ""
	default:
		return rtree.IsMark(n) && rtree.IsBlank(n)
	}
}

// trailingBreak reports whether nothing visible follows the break n in
// its container.
func trailingBreak(n *rtree.Node) bool {
	for s := n.Next; s != nil; s = s.Next {
		if !isBreak(s) && !invisible(s) {
			return false
		}
	}
	return true
}

// previousVisible returns the nearest preceding sibling of n that is a
// break or renders something visible.
func previousVisible(n *rtree.Node) *rtree.Node {
	for s := n.Prev; s != nil; s = s.Prev {
		if isBreak(s) || !invisible(s) {
			return s
		}
	}
	return nil
}
