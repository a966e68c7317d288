package serialize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yaklabco/markbridge/pkg/htmltree"
	"github.com/yaklabco/markbridge/pkg/markup"
	"github.com/yaklabco/markbridge/pkg/rtree"
)

// Rule is one entry of the conversion table.
type Rule struct {
	// Name identifies the rule (e.g., "alignment").
	Name string

	// Match reports whether the rule renders n.
	Match func(c *Context, n *rtree.Node) bool

	// Render returns the Markup for n.
	Render func(c *Context, n *rtree.Node) string
}

// Rule names, in evaluation order.
const (
	RuleUnderline  = "underline"
	RuleLink       = "link"
	RuleHardBreak  = "hard-break"
	RuleEmptyBlock = "empty-block"
	RuleAlignment  = "alignment"
)

// defaultRules returns the rule table. Order is precedence: the first
// matching rule wins.
func defaultRules() []Rule {
	return []Rule{
		{
			Name:   RuleUnderline,
			Match:  kindIs(rtree.NodeUnderline),
			Render: renderUnderline,
		},
		{
			Name:   RuleLink,
			Match:  kindIs(rtree.NodeLink),
			Render: renderLink,
		},
		{
			Name:   RuleHardBreak,
			Match:  kindIs(rtree.NodeHardBreak),
			Render: renderHardBreak,
		},
		{
			Name:   RuleEmptyBlock,
			Match:  matchEmptyBlock,
			Render: renderEmptyBlock,
		},
		{
			Name:   RuleAlignment,
			Match:  matchAligned,
			Render: renderAligned,
		},
	}
}

func kindIs(kind rtree.NodeKind) func(*Context, *rtree.Node) bool {
	return func(_ *Context, n *rtree.Node) bool {
		return n.Kind == kind
	}
}

func renderUnderline(c *Context, n *rtree.Node) string {
	inner := c.Inline(n)
	if strings.Trim(inner, " \t\n") == "" {
		return inner
	}
	return "<u>" + inner + "</u>"
}

func renderLink(c *Context, n *rtree.Node) string {
	if c.inLink {
		return c.Inline(n)
	}
	c.inLink = true
	label := c.Inline(n)
	c.inLink = false

	return "[" + label + "](" + linkTarget(n) + ")"
}

// linkTarget writes the destination and optional title of a link or image.
func linkTarget(n *rtree.Node) string {
	target := escapeDestination(n.Href())
	if n.Link != nil && n.Link.Title != "" {
		target += ` "` + escapeTitle(n.Link.Title) + `"`
	}
	return target
}

func renderHardBreak(c *Context, n *rtree.Node) string {
	return c.lineBreak(n, "  \n")
}

// lineBreak renders a hard or soft break. A break with nothing visible
// after it in its container emits nothing, since re-parsing could not
// keep it. A break that starts its container or follows another break
// emits <br>, so no line of the output is ever blank.
func (c *Context) lineBreak(n *rtree.Node, normal string) string {
	if trailingBreak(n) {
		return ""
	}
	if c.singleLine {
		return "<br>"
	}
	prev := previousVisible(n)
	if prev == nil || isBreak(prev) {
		return "<br>"
	}
	return normal
}

func matchEmptyBlock(_ *Context, n *rtree.Node) bool {
	return (n.Kind == rtree.NodeParagraph || n.Kind == rtree.NodeHeading) && rtree.IsBlank(n)
}

func renderEmptyBlock(_ *Context, n *rtree.Node) string {
	if n.Kind == rtree.NodeHeading {
		return headingPrefix(n) + markup.BlankMarker
	}
	return markup.BlankMarker
}

func matchAligned(c *Context, n *rtree.Node) bool {
	if !n.Align.Explicit() || n == c.unwrapping {
		return false
	}
	switch n.Kind {
	case rtree.NodeDocument, rtree.NodeListItem, rtree.NodeTableRow, rtree.NodeTableCell, rtree.NodeElement:
		return false
	default:
		return n.IsBlock()
	}
}

//nolint:gochecknoglobals // Compiled patterns are read-only.
var (
	blockSyntaxPattern = regexp.MustCompile("(?m)^[ \t]*(?:#{1,6}(?:[ \t]|$)|>|[-+*](?:[ \t]|$)|\\d{1,9}[.)](?:[ \t]|$)|```|~~~|(?:[-*_][ \t]*){3,}$|\\|)")
	blankLinePattern   = regexp.MustCompile(`\n[ \t]*\n`)
)

// renderAligned wraps a block carrying explicit alignment. Blocks with
// inline content use the <p align> or <hN align> form when their content
// fits on HTML lines; everything else is wrapped in a <div align> block
// with blank lines around the Markup content.
func renderAligned(c *Context, n *rtree.Node) string {
	saved := c.unwrapping
	c.unwrapping = n
	defer func() { c.unwrapping = saved }()

	attr := ` align="` + n.Align.String() + `"`

	if n.HasInlineContent() && !blockSyntaxPattern.MatchString(strings.TrimSpace(c.Inline(n))) {
		inner := strings.TrimSpace(htmltree.RenderInline(n))
		if !blankLinePattern.MatchString(inner) {
			tag := "p"
			if n.Kind == rtree.NodeHeading {
				tag = "h" + strconv.Itoa(headingLevel(n))
			}
			return "<" + tag + attr + ">" + inner + "</" + tag + ">"
		}
	}

	content := c.Node(n)
	if content == "" {
		return ""
	}
	return "<div" + attr + ">\n\n" + content + "\n\n</div>"
}
