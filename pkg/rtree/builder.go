package rtree

// NewNode creates a detached node of the specified kind.
func NewNode(kind NodeKind) *Node {
	return &Node{Kind: kind}
}

// NewDocument creates a new, empty document root.
func NewDocument() *Node {
	return NewNode(NodeDocument)
}

// NewText creates a text leaf.
func NewText(text string) *Node {
	return &Node{Kind: NodeText, Text: text}
}

// NewBlock creates a block node of kind with the given children appended.
func NewBlock(kind NodeKind, children ...*Node) *Node {
	n := NewNode(kind)
	for _, child := range children {
		AppendChild(n, child)
	}
	return n
}

// NewHeading creates a heading of the given level (clamped to 1-6).
func NewHeading(level int, children ...*Node) *Node {
	n := NewBlock(NodeHeading, children...)
	n.Level = min(max(level, 1), 6)
	return n
}

// NewLink creates a link to href whose label is children.
func NewLink(href, title string, children ...*Node) *Node {
	n := NewBlock(NodeLink, children...)
	n.Link = &LinkAttrs{Destination: href, Title: title}
	return n
}

// NewImage creates an image leaf.
func NewImage(src, alt, title string) *Node {
	return &Node{
		Kind: NodeImage,
		Text: alt,
		Link: &LinkAttrs{Destination: src, Title: title},
	}
}

// NewElement creates a generic HTML element node.
func NewElement(tag string, attrs []Attr, children ...*Node) *Node {
	n := NewBlock(NodeElement, children...)
	n.Element = &ElementAttrs{Tag: tag, Attrs: attrs}
	return n
}

// detach unlinks child from its current parent, if any.
func detach(child *Node) {
	if child.Parent != nil {
		RemoveChild(child.Parent, child)
	}
}

// AppendChild appends a child node to a parent.
// A child that already has a parent is moved.
func AppendChild(parent, child *Node) {
	if parent == nil || child == nil {
		return
	}
	detach(child)

	child.Parent = parent
	child.Prev = parent.LastChild
	child.Next = nil
	if parent.LastChild != nil {
		parent.LastChild.Next = child
	} else {
		parent.FirstChild = child
	}
	parent.LastChild = child
}

// PrependChild prepends a child node to a parent.
func PrependChild(parent, child *Node) {
	if parent == nil || child == nil {
		return
	}
	if parent.FirstChild == nil {
		AppendChild(parent, child)
		return
	}
	InsertBefore(parent.FirstChild, child)
}

// InsertBefore inserts newNode before sibling, which must have a parent.
func InsertBefore(sibling, newNode *Node) {
	if sibling == nil || newNode == nil || sibling.Parent == nil || sibling == newNode {
		return
	}
	detach(newNode)

	parent := sibling.Parent
	newNode.Parent = parent
	newNode.Prev = sibling.Prev
	newNode.Next = sibling
	if sibling.Prev != nil {
		sibling.Prev.Next = newNode
	} else {
		parent.FirstChild = newNode
	}
	sibling.Prev = newNode
}

// InsertAfter inserts newNode after sibling, which must have a parent.
func InsertAfter(sibling, newNode *Node) {
	if sibling == nil || newNode == nil || sibling.Parent == nil || sibling == newNode {
		return
	}
	if sibling.Next != nil {
		InsertBefore(sibling.Next, newNode)
		return
	}
	AppendChild(sibling.Parent, newNode)
}

// RemoveChild removes a child from its parent.
func RemoveChild(parent, child *Node) {
	if parent == nil || child == nil || child.Parent != parent {
		return
	}

	if child.Prev != nil {
		child.Prev.Next = child.Next
	} else {
		parent.FirstChild = child.Next
	}
	if child.Next != nil {
		child.Next.Prev = child.Prev
	} else {
		parent.LastChild = child.Prev
	}

	child.Parent = nil
	child.Prev = nil
	child.Next = nil
}

// ReplaceChild replaces oldChild with newChild in the tree.
func ReplaceChild(parent, oldChild, newChild *Node) {
	if parent == nil || oldChild == nil || newChild == nil || oldChild.Parent != parent {
		return
	}
	InsertBefore(oldChild, newChild)
	RemoveChild(parent, oldChild)
}

// Unwrap replaces n by its children, keeping their order.
// It returns the first promoted child, or the node that followed n.
func Unwrap(n *Node) *Node {
	if n == nil || n.Parent == nil {
		return nil
	}
	parent := n.Parent
	next := n.Next
	first := n.FirstChild
	for child := n.FirstChild; child != nil; {
		following := child.Next
		InsertBefore(n, child)
		child = following
	}
	RemoveChild(parent, n)
	if first != nil {
		return first
	}
	return next
}
