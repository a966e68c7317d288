package pretty

import (
	"strconv"
	"strings"

	"github.com/yaklabco/markbridge/pkg/rtree"
)

// TreeOptions controls FormatTree.
type TreeOptions struct {
	// Annotate returns an extra note for a node, or "". It is used to show
	// detected languages next to unlabeled code blocks.
	Annotate func(n *rtree.Node) string
}

// FormatTree renders a render tree as an indented outline with guides.
func (s *Styles) FormatTree(root *rtree.Node, opts TreeOptions) string {
	var builder strings.Builder

	//nolint:errcheck // the callback never fails
	rtree.WalkWithDepth(root, func(n *rtree.Node, depth int) error {
		if depth > 0 {
			builder.WriteString(s.TreeGuide.Render(strings.Repeat("│ ", depth-1) + "├ "))
		}
		builder.WriteString(s.NodeKind.Render(n.Kind.String()))
		for _, attr := range nodeAttrs(n) {
			builder.WriteString(" " + s.NodeAttr.Render(attr))
		}
		if n.Text != "" {
			builder.WriteString(" " + s.NodeText.Render(strconv.Quote(n.Text)))
		}
		if opts.Annotate != nil {
			if note := opts.Annotate(n); note != "" {
				builder.WriteString(" " + s.Dim.Render("# "+note))
			}
		}
		builder.WriteString("\n")
		return nil
	})

	return builder.String()
}

func nodeAttrs(n *rtree.Node) []string {
	var attrs []string
	switch n.Kind {
	case rtree.NodeHeading:
		attrs = append(attrs, "level="+strconv.Itoa(n.Level))
	case rtree.NodeList:
		if n.List != nil && n.List.Ordered {
			attrs = append(attrs, "start="+strconv.Itoa(n.List.Start))
		}
	case rtree.NodeCodeBlock:
		if n.Code != nil && n.Code.Info != "" {
			attrs = append(attrs, "info="+strconv.Quote(n.Code.Info))
		}
	case rtree.NodeLink, rtree.NodeImage:
		attrs = append(attrs, "href="+strconv.Quote(n.Href()))
	case rtree.NodeElement:
		if n.Element != nil {
			attrs = append(attrs, "<"+n.Element.Tag+">")
		}
	}
	if n.Align != rtree.AlignNone {
		attrs = append(attrs, "align="+n.Align.String())
	}
	return attrs
}
