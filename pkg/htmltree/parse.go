package htmltree

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/yaklabco/markbridge/pkg/rtree"
)

// ParseFragment parses HTML in a <body> context and maps the result onto
// render tree nodes. Known formatting elements map to their node kinds;
// anything else becomes a generic NodeElement. Comments are dropped.
// Input the HTML parser rejects is returned as a single text node.
func ParseFragment(src string) []*rtree.Node {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(src), context)
	if err != nil {
		return []*rtree.Node{rtree.NewText(src)}
	}

	var out []*rtree.Node
	for _, h := range nodes {
		if n := fromHTML(h); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// Attr returns the value of attribute key on h.
func Attr(h *html.Node, key string) (string, bool) {
	for _, a := range h.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

func attrValue(h *html.Node, key string) string {
	val, _ := Attr(h, key)
	return val
}

func fromHTML(h *html.Node) *rtree.Node {
	switch h.Type {
	case html.TextNode:
		return rtree.NewText(h.Data)
	case html.ElementNode:
		return fromElement(h)
	default:
		return nil
	}
}

func fromElement(h *html.Node) *rtree.Node {
	var n *rtree.Node

	switch h.DataAtom {
	case atom.P:
		n = rtree.NewNode(rtree.NodeParagraph)
		n.Align = rtree.ParseAlignment(attrValue(h, "align"))
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		n = rtree.NewHeading(int(h.Data[1] - '0'))
		n.Align = rtree.ParseAlignment(attrValue(h, "align"))
	case atom.Em, atom.I:
		n = rtree.NewNode(rtree.NodeEmphasis)
	case atom.Strong, atom.B:
		n = rtree.NewNode(rtree.NodeStrong)
	case atom.U, atom.Ins:
		n = rtree.NewNode(rtree.NodeUnderline)
	case atom.S, atom.Del, atom.Strike:
		n = rtree.NewNode(rtree.NodeStrikethrough)
	case atom.Br:
		return rtree.NewNode(rtree.NodeHardBreak)
	case atom.Code:
		code := rtree.NewNode(rtree.NodeCodeSpan)
		code.Text = textContent(h)
		return code
	case atom.A:
		n = rtree.NewLink(attrValue(h, "href"), attrValue(h, "title"))
	case atom.Img:
		img := rtree.NewImage(attrValue(h, "src"), attrValue(h, "alt"), attrValue(h, "title"))
		img.Link.Width = attrValue(h, "width")
		img.Link.Height = attrValue(h, "height")
		return img
	default:
		attrs := make([]rtree.Attr, 0, len(h.Attr))
		for _, a := range h.Attr {
			if a.Namespace == "" {
				attrs = append(attrs, rtree.Attr{Key: a.Key, Val: a.Val})
			}
		}
		n = rtree.NewElement(h.Data, attrs)
	}

	for child := h.FirstChild; child != nil; child = child.NextSibling {
		if c := fromHTML(child); c != nil {
			rtree.AppendChild(n, c)
		}
	}
	return n
}

func textContent(h *html.Node) string {
	var sb strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			visit(child)
		}
	}
	visit(h)
	return sb.String()
}
