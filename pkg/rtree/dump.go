package rtree

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// JSONNode is the serializable form of a node used by tree dumps.
type JSONNode struct {
	Kind     string      `json:"kind"`
	Align    string      `json:"align,omitempty"`
	Text     string      `json:"text,omitempty"`
	Level    int         `json:"level,omitempty"`
	Href     string      `json:"href,omitempty"`
	Title    string      `json:"title,omitempty"`
	Info     string      `json:"info,omitempty"`
	Ordered  bool        `json:"ordered,omitempty"`
	Start    int         `json:"start,omitempty"`
	Tight    bool        `json:"tight,omitempty"`
	Tag      string      `json:"tag,omitempty"`
	Attrs    []Attr      `json:"attrs,omitempty"`
	Header   bool        `json:"header,omitempty"`
	Children []*JSONNode `json:"children,omitempty"`
}

// Export converts a subtree to its serializable form.
func Export(n *Node) *JSONNode {
	if n == nil {
		return nil
	}

	out := &JSONNode{
		Kind:   n.Kind.String(),
		Align:  n.Align.String(),
		Text:   n.Text,
		Level:  n.Level,
		Header: n.Header,
	}
	if n.Kind == NodeTableCell {
		out.Align = n.ColumnAlign.String()
	}
	if n.Link != nil {
		out.Href = n.Link.Destination
		out.Title = n.Link.Title
	}
	if n.List != nil {
		out.Ordered = n.List.Ordered
		out.Start = n.List.Start
		out.Tight = n.List.Tight
	}
	if n.Code != nil {
		out.Info = n.Code.Info
	}
	if n.Element != nil {
		out.Tag = n.Element.Tag
		out.Attrs = n.Element.Attrs
	}
	for child := n.FirstChild; child != nil; child = child.Next {
		out.Children = append(out.Children, Export(child))
	}
	return out
}

// Dump writes an indented, human-readable outline of the subtree to w.
func Dump(w io.Writer, n *Node) error {
	return WalkWithDepth(n, func(node *Node, depth int) error {
		_, err := fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), describe(node))
		return err
	})
}

// WalkWithDepth is Walk with the node depth relative to root.
func WalkWithDepth(root *Node, fn func(n *Node, depth int) error) error {
	var visit func(n *Node, depth int) error
	visit = func(n *Node, depth int) error {
		if err := fn(n, depth); err != nil {
			return err
		}
		for child := n.FirstChild; child != nil; child = child.Next {
			if err := visit(child, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	if root == nil {
		return nil
	}
	return visit(root, 0)
}

func describe(n *Node) string {
	var sb strings.Builder
	sb.WriteString(n.Kind.String())

	switch n.Kind {
	case NodeHeading:
		sb.WriteString(" level=" + strconv.Itoa(n.Level))
	case NodeList:
		if n.List != nil {
			if n.List.Ordered {
				sb.WriteString(" ordered start=" + strconv.Itoa(n.List.Start))
			}
			if n.List.Tight {
				sb.WriteString(" tight")
			}
		}
	case NodeCodeBlock:
		if n.Code != nil && n.Code.Info != "" {
			sb.WriteString(" info=" + strconv.Quote(n.Code.Info))
		}
	case NodeLink, NodeImage:
		sb.WriteString(" href=" + strconv.Quote(n.Href()))
	case NodeTableRow:
		if n.Header {
			sb.WriteString(" header")
		}
	case NodeTableCell:
		if n.ColumnAlign != AlignNone {
			sb.WriteString(" column=" + n.ColumnAlign.String())
		}
	case NodeElement:
		sb.WriteString(" <" + n.Element.Tag + ">")
	}

	if n.Align != AlignNone {
		sb.WriteString(" align=" + n.Align.String())
	}
	if n.Text != "" {
		sb.WriteString(" " + strconv.Quote(n.Text))
	}
	return sb.String()
}
