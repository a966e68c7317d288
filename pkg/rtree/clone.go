package rtree

import (
	"slices"
	"strconv"
	"strings"
)

// Clone returns a deep copy of the subtree rooted at n.
// The copy is detached: its Parent and siblings are nil.
func Clone(n *Node) *Node {
	if n == nil {
		return nil
	}

	dup := &Node{
		Kind:        n.Kind,
		Align:       n.Align,
		Text:        n.Text,
		Level:       n.Level,
		Header:      n.Header,
		ColumnAlign: n.ColumnAlign,
	}
	if n.Link != nil {
		link := *n.Link
		dup.Link = &link
	}
	if n.List != nil {
		list := *n.List
		dup.List = &list
	}
	if n.Code != nil {
		code := *n.Code
		dup.Code = &code
	}
	if n.Element != nil {
		dup.Element = &ElementAttrs{
			Tag:   n.Element.Tag,
			Attrs: slices.Clone(n.Element.Attrs),
		}
	}

	for child := n.FirstChild; child != nil; child = child.Next {
		AppendChild(dup, Clone(child))
	}
	return dup
}

// PlainText returns the concatenated text content of the subtree.
// Breaks contribute a newline and images their alt text.
func PlainText(n *Node) string {
	var sb strings.Builder
	//nolint:errcheck // callback never fails
	Walk(n, func(node *Node) error {
		switch node.Kind {
		case NodeText, NodeCodeSpan, NodeImage:
			sb.WriteString(node.Text)
		case NodeSoftBreak, NodeHardBreak:
			sb.WriteByte('\n')
		}
		return nil
	})
	return sb.String()
}

// IsBlank reports whether a block holds no visible content:
// nothing but breaks and whitespace-only text.
func IsBlank(n *Node) bool {
	for child := n.FirstChild; child != nil; child = child.Next {
		switch child.Kind {
		case NodeSoftBreak, NodeHardBreak:
			continue
		case NodeText:
			if strings.TrimSpace(strings.ReplaceAll(child.Text, "\u00a0", " ")) != "" {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// IsMark reports whether n is an inline formatting mark that wraps other
// inline content.
func IsMark(n *Node) bool {
	switch n.Kind {
	case NodeEmphasis, NodeStrong, NodeUnderline, NodeStrikethrough:
		return true
	default:
		return false
	}
}

// Equivalent reports whether two trees describe the same document.
//
// The comparison ignores differences a Markup round trip cannot preserve:
// whitespace runs, the split of text across adjacent text nodes, soft versus
// hard breaks, breaks trailing a block, left versus unset alignment and list
// tightness.
func Equivalent(a, b *Node) bool {
	return Signature(a) == Signature(b)
}

// Signature returns the canonical form used by Equivalent.
func Signature(n *Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	writeSignature(&sb, n)
	return sb.String()
}

func writeSignature(sb *strings.Builder, n *Node) {
	sb.WriteString(n.Kind.String())

	align := n.Align
	if n.Kind == NodeTableCell {
		align = n.ColumnAlign
	}
	if align.Explicit() {
		sb.WriteString("@" + align.String())
	}

	switch n.Kind {
	case NodeHeading:
		sb.WriteString(strconv.Itoa(n.Level))
	case NodeList:
		if n.List != nil && n.List.Ordered {
			sb.WriteString("#" + strconv.Itoa(n.List.Start))
		}
	case NodeCodeBlock:
		info := ""
		if n.Code != nil {
			info = n.Code.Info
		}
		sb.WriteString(strconv.Quote(info) + strconv.Quote(strings.TrimRight(n.Text, "\n")))
	case NodeHTMLBlock, NodeHTMLInline:
		sb.WriteString(strconv.Quote(strings.TrimSpace(n.Text)))
	case NodeCodeSpan:
		sb.WriteString(strconv.Quote(n.Text))
	case NodeLink:
		sb.WriteString(strconv.Quote(n.Href()))
		if n.Link != nil && n.Link.Title != "" {
			sb.WriteString(strconv.Quote(n.Link.Title))
		}
	case NodeImage:
		sb.WriteString(strconv.Quote(n.Href()) + strconv.Quote(collapseSpace(n.Text)))
	case NodeTableRow:
		if n.Header {
			sb.WriteString("!")
		}
	case NodeElement:
		sb.WriteString("<" + strings.ToLower(n.Element.Tag))
		attrs := slices.Clone(n.Element.Attrs)
		slices.SortFunc(attrs, func(x, y Attr) int { return strings.Compare(x.Key, y.Key) })
		for _, attr := range attrs {
			sb.WriteString(" " + strings.ToLower(attr.Key) + "=" + strconv.Quote(attr.Val))
		}
		sb.WriteString(">")
	}

	if !n.HasChildren() {
		return
	}

	sb.WriteByte('(')
	if n.IsBlock() && !n.HasInlineContent() && n.Kind != NodeElement {
		for child := n.FirstChild; child != nil; child = child.Next {
			if child.Kind == NodeText {
				if s := collapseSpace(child.Text); s != "" {
					sb.WriteString("Text" + strconv.Quote(s) + " ")
				}
				continue
			}
			writeSignature(sb, child)
			sb.WriteByte(' ')
		}
	} else {
		writeInlineSignature(sb, n)
	}
	sb.WriteByte(')')
}

// writeInlineSignature writes the children of an inline container with
// adjacent text merged and whitespace collapsed.
func writeInlineSignature(sb *strings.Builder, n *Node) {
	var (
		items  []string
		text   strings.Builder
		breaks int
	)
	flushText := func() {
		if s := collapseSpace(text.String()); s != "" {
			for ; breaks > 0; breaks-- {
				items = append(items, "Break")
			}
			items = append(items, strconv.Quote(s))
		}
		text.Reset()
	}

	for child := n.FirstChild; child != nil; child = child.Next {
		switch child.Kind {
		case NodeText:
			text.WriteString(child.Text)
		case NodeSoftBreak, NodeHardBreak:
			flushText()
			breaks++
		default:
			if IsMark(child) && IsBlank(child) {
				continue
			}
			flushText()
			for ; breaks > 0; breaks-- {
				items = append(items, "Break")
			}
			var inner strings.Builder
			writeSignature(&inner, child)
			items = append(items, inner.String())
		}
	}
	flushText()
	// Pending breaks trail the block and are dropped.

	sb.WriteString(strings.Join(items, " "))
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "\u00a0", " ")), " ")
}
