// Package rtree provides the render tree: the structured document
// representation exchanged with an interactive editing surface.
//
// A tree is rooted at a NodeDocument node. Block nodes carry an optional
// alignment; inline nodes carry text and link attributes. Trees are plain
// values: collaborators receive Clone snapshots, never live references.
package rtree

// NodeKind classifies the type of a render tree node.
type NodeKind uint16

// Node kinds for block-level and inline-level elements.
const (
	NodeDocument NodeKind = iota

	// Block-level nodes.
	NodeParagraph
	NodeHeading
	NodeList
	NodeListItem
	NodeBlockquote
	NodeCodeBlock
	NodeThematicBreak
	NodeHTMLBlock
	NodeTable
	NodeTableRow
	NodeTableCell

	// Inline-level nodes.
	NodeText
	NodeEmphasis
	NodeStrong
	NodeUnderline
	NodeStrikethrough
	NodeCodeSpan
	NodeLink
	NodeImage
	NodeSoftBreak
	NodeHardBreak
	NodeHTMLInline

	// NodeElement is a generic HTML element recovered from an HTML fragment.
	NodeElement
)

//nolint:gochecknoglobals // Read-only lookup table.
var kindNames = [...]string{
	NodeDocument:      "Document",
	NodeParagraph:     "Paragraph",
	NodeHeading:       "Heading",
	NodeList:          "List",
	NodeListItem:      "ListItem",
	NodeBlockquote:    "Blockquote",
	NodeCodeBlock:     "CodeBlock",
	NodeThematicBreak: "ThematicBreak",
	NodeHTMLBlock:     "HTMLBlock",
	NodeTable:         "Table",
	NodeTableRow:      "TableRow",
	NodeTableCell:     "TableCell",
	NodeText:          "Text",
	NodeEmphasis:      "Emphasis",
	NodeStrong:        "Strong",
	NodeUnderline:     "Underline",
	NodeStrikethrough: "Strikethrough",
	NodeCodeSpan:      "CodeSpan",
	NodeLink:          "Link",
	NodeImage:         "Image",
	NodeSoftBreak:     "SoftBreak",
	NodeHardBreak:     "HardBreak",
	NodeHTMLInline:    "HTMLInline",
	NodeElement:       "Element",
}

// String returns the kind name.
func (k NodeKind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Unknown"
}

// Node is a single node of the render tree.
// Nodes form a tree structure with parent/child/sibling relationships.
type Node struct {
	// Kind identifies what type of node this is.
	Kind NodeKind

	// Tree structure pointers.
	Parent     *Node
	FirstChild *Node
	LastChild  *Node
	Prev       *Node
	Next       *Node

	// Align is the block alignment. Only meaningful for block nodes.
	Align Alignment

	// Text holds the literal content of Text, CodeSpan, CodeBlock,
	// HTMLBlock and HTMLInline nodes, and the alt text of Image nodes.
	Text string

	// Level is the heading level (1-6) for NodeHeading.
	Level int

	// Link holds the target of NodeLink and NodeImage.
	Link *LinkAttrs

	// List holds list attributes for NodeList.
	List *ListAttrs

	// Code holds code block attributes for NodeCodeBlock.
	Code *CodeAttrs

	// Element holds the tag and attributes of NodeElement.
	Element *ElementAttrs

	// Header marks a NodeTableRow as the table header row.
	Header bool

	// ColumnAlign is the column alignment of a NodeTableCell.
	ColumnAlign Alignment
}

// IsBlock returns true if this is a block-level node.
func (n *Node) IsBlock() bool {
	switch n.Kind {
	case NodeDocument, NodeParagraph, NodeHeading, NodeList, NodeListItem,
		NodeBlockquote, NodeCodeBlock, NodeThematicBreak, NodeHTMLBlock,
		NodeTable, NodeTableRow, NodeTableCell:
		return true
	case NodeElement:
		return n.Element != nil && IsBlockTag(n.Element.Tag)
	default:
		return false
	}
}

// IsInline returns true if this is an inline-level node.
func (n *Node) IsInline() bool {
	return !n.IsBlock()
}

// HasInlineContent reports whether the node's children are inline nodes.
func (n *Node) HasInlineContent() bool {
	switch n.Kind {
	case NodeParagraph, NodeHeading, NodeTableCell:
		return true
	default:
		return false
	}
}

// HasChildren returns true if this node has any children.
func (n *Node) HasChildren() bool {
	return n.FirstChild != nil
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	count := 0
	for child := n.FirstChild; child != nil; child = child.Next {
		count++
	}
	return count
}

// Children returns a slice of all direct children.
func (n *Node) Children() []*Node {
	var children []*Node
	for child := n.FirstChild; child != nil; child = child.Next {
		children = append(children, child)
	}
	return children
}

// Href returns the link destination, or "" when the node has none.
func (n *Node) Href() string {
	if n.Link == nil {
		return ""
	}
	return n.Link.Destination
}
