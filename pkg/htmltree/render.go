// Package htmltree bridges render trees and HTML.
//
// Render turns a tree into HTML for display and for comparing editor
// content. ParseFragment maps an HTML fragment back onto tree nodes so that
// alignment wrappers written by the serializer can be read again.
package htmltree

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/yaklabco/markbridge/pkg/rtree"
)

// Render renders the tree rooted at root as an HTML fragment.
func Render(root *rtree.Node) string {
	if root == nil {
		return ""
	}
	container := element("div")
	convertBlock(root, container, false)
	return renderChildren(container)
}

// RenderInline renders the inline children of block as HTML, without the
// block's own element.
func RenderInline(block *rtree.Node) string {
	if block == nil {
		return ""
	}
	container := element("div")
	for child := block.FirstChild; child != nil; child = child.Next {
		convertInline(child, container)
	}
	return renderChildren(container)
}

// RenderNode renders n alone, block or inline, without a trailing newline.
func RenderNode(n *rtree.Node) string {
	if n == nil {
		return ""
	}
	container := element("div")
	if n.IsBlock() {
		convertBlock(n, container, false)
	} else {
		convertInline(n, container)
	}
	return strings.TrimSuffix(renderChildren(container), "\n")
}

func renderChildren(container *html.Node) string {
	var sb strings.Builder
	for child := container.FirstChild; child != nil; child = child.NextSibling {
		//nolint:errcheck // strings.Builder never fails and void elements are built childless
		html.Render(&sb, child)
	}
	return sb.String()
}

func element(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func rawNode(s string) *html.Node {
	return &html.Node{Type: html.RawNode, Data: s}
}

func alignAttr(a rtree.Alignment) []html.Attribute {
	if !a.Explicit() {
		return nil
	}
	return []html.Attribute{{Key: "align", Val: a.String()}}
}

// convertBlock appends the HTML for n to parent. tight is set for the
// content of tight list items, whose paragraphs render without <p>.
func convertBlock(n *rtree.Node, parent *html.Node, tight bool) {
	if n.IsInline() {
		convertInline(n, parent)
		return
	}

	// Blocks without a native align attribute get a wrapping div.
	target := parent
	if n.Align.Explicit() && n.Kind != rtree.NodeParagraph && n.Kind != rtree.NodeHeading &&
		n.Kind != rtree.NodeDocument && n.Kind != rtree.NodeTableCell {
		wrapper := element("div", alignAttr(n.Align)...)
		parent.AppendChild(wrapper)
		target = wrapper
	}

	var el *html.Node
	switch n.Kind {
	case rtree.NodeDocument:
		convertBlockChildren(n, target, tight)
		return

	case rtree.NodeParagraph:
		if tight && !n.Align.Explicit() {
			for child := n.FirstChild; child != nil; child = child.Next {
				convertInline(child, target)
			}
			return
		}
		el = element("p", alignAttr(n.Align)...)
		convertInlineChildren(n, el)

	case rtree.NodeHeading:
		el = element("h"+strconv.Itoa(min(max(n.Level, 1), 6)), alignAttr(n.Align)...)
		convertInlineChildren(n, el)

	case rtree.NodeList:
		tag, attrs := "ul", []html.Attribute(nil)
		if n.List != nil && n.List.Ordered {
			tag = "ol"
			if n.List.Start != 1 {
				attrs = append(attrs, html.Attribute{Key: "start", Val: strconv.Itoa(n.List.Start)})
			}
		}
		el = element(tag, attrs...)
		el.AppendChild(textNode("\n"))
		itemsTight := n.List != nil && n.List.Tight
		for item := n.FirstChild; item != nil; item = item.Next {
			convertBlock(item, el, itemsTight)
		}

	case rtree.NodeListItem:
		el = element("li")
		convertBlockChildren(n, el, tight)

	case rtree.NodeBlockquote:
		el = element("blockquote")
		el.AppendChild(textNode("\n"))
		convertBlockChildren(n, el, false)

	case rtree.NodeCodeBlock:
		code := element("code")
		if n.Code != nil {
			if lang, _, _ := strings.Cut(strings.TrimSpace(n.Code.Info), " "); lang != "" {
				code.Attr = append(code.Attr, html.Attribute{Key: "class", Val: "language-" + lang})
			}
		}
		code.AppendChild(textNode(n.Text))
		el = element("pre")
		el.AppendChild(code)

	case rtree.NodeThematicBreak:
		el = element("hr")

	case rtree.NodeHTMLBlock:
		target.AppendChild(rawNode(n.Text))
		return

	case rtree.NodeTable:
		el = element("table")
		var head, body *html.Node
		for row := n.FirstChild; row != nil; row = row.Next {
			section := &body
			tag := "tbody"
			if row.Header {
				section, tag = &head, "thead"
			}
			if *section == nil {
				*section = element(tag)
				el.AppendChild(*section)
			}
			convertBlock(row, *section, false)
		}

	case rtree.NodeTableRow:
		el = element("tr")
		for cell := n.FirstChild; cell != nil; cell = cell.Next {
			tag := "td"
			if n.Header {
				tag = "th"
			}
			td := element(tag, alignAttr(cell.ColumnAlign)...)
			convertInlineChildren(cell, td)
			el.AppendChild(td)
		}

	case rtree.NodeTableCell:
		el = element("td", alignAttr(n.ColumnAlign)...)
		convertInlineChildren(n, el)

	case rtree.NodeElement:
		el = convertElement(n, tight)

	default:
		return
	}

	target.AppendChild(el)
	target.AppendChild(textNode("\n"))
}

func convertBlockChildren(n *rtree.Node, parent *html.Node, tight bool) {
	for child := n.FirstChild; child != nil; child = child.Next {
		convertBlock(child, parent, tight)
	}
}

func convertInlineChildren(n *rtree.Node, parent *html.Node) {
	for child := n.FirstChild; child != nil; child = child.Next {
		convertInline(child, parent)
	}
}

func convertInline(n *rtree.Node, parent *html.Node) {
	var el *html.Node
	switch n.Kind {
	case rtree.NodeText:
		parent.AppendChild(textNode(n.Text))
		return
	case rtree.NodeSoftBreak:
		parent.AppendChild(textNode("\n"))
		return
	case rtree.NodeHardBreak:
		parent.AppendChild(element("br"))
		return
	case rtree.NodeHTMLInline:
		parent.AppendChild(rawNode(n.Text))
		return
	case rtree.NodeEmphasis:
		el = element("em")
	case rtree.NodeStrong:
		el = element("strong")
	case rtree.NodeUnderline:
		el = element("u")
	case rtree.NodeStrikethrough:
		el = element("del")
	case rtree.NodeCodeSpan:
		el = element("code")
		el.AppendChild(textNode(n.Text))
		parent.AppendChild(el)
		return
	case rtree.NodeLink:
		el = element("a", html.Attribute{Key: "href", Val: n.Href()})
		if n.Link != nil && n.Link.Title != "" {
			el.Attr = append(el.Attr, html.Attribute{Key: "title", Val: n.Link.Title})
		}
	case rtree.NodeImage:
		parent.AppendChild(imageElement(n))
		return
	case rtree.NodeElement:
		parent.AppendChild(convertElement(n, false))
		return
	default:
		if n.IsBlock() {
			convertBlock(n, parent, false)
		}
		return
	}

	convertInlineChildren(n, el)
	parent.AppendChild(el)
}

func imageElement(n *rtree.Node) *html.Node {
	el := element("img",
		html.Attribute{Key: "src", Val: n.Href()},
		html.Attribute{Key: "alt", Val: n.Text},
	)
	if n.Link != nil {
		for _, attr := range []html.Attribute{
			{Key: "title", Val: n.Link.Title},
			{Key: "width", Val: n.Link.Width},
			{Key: "height", Val: n.Link.Height},
		} {
			if attr.Val != "" {
				el.Attr = append(el.Attr, attr)
			}
		}
	}
	return el
}

//nolint:gochecknoglobals // Read-only lookup table.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

func convertElement(n *rtree.Node, tight bool) *html.Node {
	tag := strings.ToLower(n.Element.Tag)
	el := element(tag)
	for _, attr := range n.Element.Attrs {
		el.Attr = append(el.Attr, html.Attribute{Key: attr.Key, Val: attr.Val})
	}
	if voidElements[tag] {
		return el
	}
	for child := n.FirstChild; child != nil; child = child.Next {
		if child.IsBlock() {
			convertBlock(child, el, tight)
		} else {
			convertInline(child, el)
		}
	}
	return el
}
