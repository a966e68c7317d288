package markup

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/markbridge/pkg/rtree"
)

// mapper converts a goldmark AST into a render tree.
type mapper struct {
	parser *Parser
	source []byte
}

// newMapper creates a new mapper for the given source.
func newMapper(p *Parser, source []byte) *mapper {
	return &mapper{parser: p, source: source}
}

// mapBlocks maps the block children of gmParent onto parent, then resolves
// raw HTML blocks that carry alignment.
func (m *mapper) mapBlocks(gmParent ast.Node, parent *rtree.Node) {
	for child := gmParent.FirstChild(); child != nil; child = child.NextSibling() {
		if node := m.mapBlock(child); node != nil {
			rtree.AppendChild(parent, node)
		}
	}
	m.resolveHTMLBlocks(parent)
}

// mapBlock converts a single goldmark block node.
func (m *mapper) mapBlock(gmNode ast.Node) *rtree.Node {
	switch gmn := gmNode.(type) {
	case *ast.Heading:
		node := rtree.NewHeading(gmn.Level)
		m.mapInlines(gmn, node)
		return clearBlank(node)

	case *ast.Paragraph, *ast.TextBlock:
		node := rtree.NewNode(rtree.NodeParagraph)
		m.mapInlines(gmNode, node)
		return clearBlank(node)

	case *ast.List:
		node := rtree.NewNode(rtree.NodeList)
		node.List = &rtree.ListAttrs{
			Ordered: gmn.IsOrdered(),
			Start:   gmn.Start,
			Tight:   gmn.IsTight,
		}
		m.mapBlocks(gmn, node)
		return node

	case *ast.ListItem:
		node := rtree.NewNode(rtree.NodeListItem)
		m.mapBlocks(gmn, node)
		return node

	case *ast.Blockquote:
		node := rtree.NewNode(rtree.NodeBlockquote)
		m.mapBlocks(gmn, node)
		return node

	case *ast.FencedCodeBlock:
		node := rtree.NewNode(rtree.NodeCodeBlock)
		info := ""
		if gmn.Info != nil {
			info = unescape(string(gmn.Info.Segment.Value(m.source)))
		}
		node.Code = &rtree.CodeAttrs{Info: strings.TrimSpace(info)}
		node.Text = m.linesText(gmn.Lines())
		return node

	case *ast.CodeBlock:
		node := rtree.NewNode(rtree.NodeCodeBlock)
		node.Code = &rtree.CodeAttrs{Indented: true}
		node.Text = m.linesText(gmn.Lines())
		return node

	case *ast.ThematicBreak:
		return rtree.NewNode(rtree.NodeThematicBreak)

	case *ast.HTMLBlock:
		node := rtree.NewNode(rtree.NodeHTMLBlock)
		raw := m.linesText(gmn.Lines())
		if gmn.HasClosure() {
			raw += string(gmn.ClosureLine.Value(m.source))
		}
		node.Text = strings.TrimRight(raw, "\n")
		return node

	case *east.Table:
		return m.mapTable(gmn)

	default:
		// Unknown blocks degrade to a paragraph of their source text.
		if gmNode.Type() != ast.TypeBlock {
			return nil
		}
		raw := strings.TrimSpace(m.linesText(gmNode.Lines()))
		if raw == "" {
			return nil
		}
		return rtree.NewBlock(rtree.NodeParagraph, rtree.NewText(raw))
	}
}

// mapTable converts a GFM table. Header and body rows become TableRow
// nodes; cells keep their column alignment.
func (m *mapper) mapTable(table *east.Table) *rtree.Node {
	node := rtree.NewNode(rtree.NodeTable)
	for gmRow := table.FirstChild(); gmRow != nil; gmRow = gmRow.NextSibling() {
		row := rtree.NewNode(rtree.NodeTableRow)
		_, row.Header = gmRow.(*east.TableHeader)
		for gmCell := gmRow.FirstChild(); gmCell != nil; gmCell = gmCell.NextSibling() {
			cell := rtree.NewNode(rtree.NodeTableCell)
			if tc, ok := gmCell.(*east.TableCell); ok {
				cell.ColumnAlign = columnAlignment(tc.Alignment)
			}
			m.mapInlines(gmCell, cell)
			rtree.AppendChild(row, cell)
		}
		rtree.AppendChild(node, row)
	}
	return node
}

func columnAlignment(a east.Alignment) rtree.Alignment {
	switch a {
	case east.AlignLeft:
		return rtree.AlignLeft
	case east.AlignCenter:
		return rtree.AlignCenter
	case east.AlignRight:
		return rtree.AlignRight
	default:
		return rtree.AlignNone
	}
}

// mapInlines maps the inline children of gmParent onto parent.
// Adjacent text segments are joined before escapes are resolved, so an
// escape split across goldmark text nodes still decodes.
func (m *mapper) mapInlines(gmParent ast.Node, parent *rtree.Node) {
	var pending []byte
	flush := func() {
		if len(pending) > 0 {
			rtree.AppendChild(parent, rtree.NewText(unescape(string(pending))))
			pending = pending[:0]
		}
	}

	for child := gmParent.FirstChild(); child != nil; child = child.NextSibling() {
		switch gmn := child.(type) {
		case *ast.Text:
			pending = append(pending, gmn.Segment.Value(m.source)...)
			switch {
			case gmn.HardLineBreak():
				flush()
				rtree.AppendChild(parent, rtree.NewNode(rtree.NodeHardBreak))
			case gmn.SoftLineBreak():
				flush()
				if m.parser.looseBreaks {
					rtree.AppendChild(parent, rtree.NewNode(rtree.NodeHardBreak))
				} else {
					rtree.AppendChild(parent, rtree.NewNode(rtree.NodeSoftBreak))
				}
			}
		case *ast.String:
			flush()
			rtree.AppendChild(parent, rtree.NewText(string(gmn.Value)))
		default:
			flush()
			m.mapInline(child, parent)
		}
	}
	flush()

	resolveInlineHTML(parent)
}

// mapInline converts a non-text inline node and appends it to parent.
func (m *mapper) mapInline(gmNode ast.Node, parent *rtree.Node) {
	var node *rtree.Node

	switch gmn := gmNode.(type) {
	case *ast.Emphasis:
		if gmn.Level >= 2 {
			node = rtree.NewNode(rtree.NodeStrong)
		} else {
			node = rtree.NewNode(rtree.NodeEmphasis)
		}
		m.mapInlines(gmn, node)

	case *east.Strikethrough:
		node = rtree.NewNode(rtree.NodeStrikethrough)
		m.mapInlines(gmn, node)

	case *ast.CodeSpan:
		node = rtree.NewNode(rtree.NodeCodeSpan)
		node.Text = m.codeSpanText(gmn)

	case *ast.Link:
		node = rtree.NewLink(unescape(string(gmn.Destination)), unescape(string(gmn.Title)))
		m.mapInlines(gmn, node)

	case *ast.Image:
		alt := rtree.NewNode(rtree.NodeParagraph)
		m.mapInlines(gmn, alt)
		node = rtree.NewImage(
			unescape(string(gmn.Destination)),
			rtree.PlainText(alt),
			unescape(string(gmn.Title)),
		)

	case *ast.AutoLink:
		node = rtree.NewLink(string(gmn.URL(m.source)), "", rtree.NewText(string(gmn.Label(m.source))))

	case *ast.RawHTML:
		var raw bytes.Buffer
		for i := range gmn.Segments.Len() {
			seg := gmn.Segments.At(i)
			raw.Write(seg.Value(m.source))
		}
		node = rtree.NewNode(rtree.NodeHTMLInline)
		node.Text = raw.String()

	default:
		// Unknown inline containers contribute their children.
		m.mapInlines(gmNode, parent)
		return
	}

	rtree.AppendChild(parent, node)
}

func (m *mapper) codeSpanText(codeSpan *ast.CodeSpan) string {
	var sb strings.Builder
	for child := codeSpan.FirstChild(); child != nil; child = child.NextSibling() {
		switch c := child.(type) {
		case *ast.Text:
			sb.Write(c.Segment.Value(m.source))
		case *ast.String:
			sb.Write(c.Value)
		}
	}
	return strings.ReplaceAll(sb.String(), "\n", " ")
}

// linesText concatenates the source lines of a block.
func (m *mapper) linesText(lines *text.Segments) string {
	var sb strings.Builder
	for i := range lines.Len() {
		line := lines.At(i)
		sb.WriteString(strings.Repeat(" ", line.Padding))
		sb.Write(line.Value(m.source))
	}
	return sb.String()
}

// clearBlank empties a paragraph or heading that holds only the blank
// marker, whitespace or breaks.
func clearBlank(node *rtree.Node) *rtree.Node {
	if rtree.IsBlank(node) {
		for child := node.FirstChild; child != nil; {
			next := child.Next
			rtree.RemoveChild(node, child)
			child = next
		}
	}
	return node
}
