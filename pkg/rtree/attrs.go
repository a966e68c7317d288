package rtree

import "strings"

// Alignment is the horizontal alignment of a block.
type Alignment uint8

const (
	// AlignNone is the implicit default and behaves as left alignment.
	AlignNone Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
	AlignJustify
)

// String returns the attribute value for the alignment ("" for none).
func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignJustify:
		return "justify"
	default:
		return ""
	}
}

// Explicit reports whether the alignment must be materialized in Markup.
// Left alignment is the default and never is.
func (a Alignment) Explicit() bool {
	return a == AlignCenter || a == AlignRight || a == AlignJustify
}

// ParseAlignment parses an align attribute value. Unknown values yield AlignNone.
func ParseAlignment(value string) Alignment {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "left":
		return AlignLeft
	case "center", "centre", "middle":
		return AlignCenter
	case "right":
		return AlignRight
	case "justify":
		return AlignJustify
	default:
		return AlignNone
	}
}

// ExplicitAlignments lists the alignments that produce wrapper tags.
func ExplicitAlignments() []Alignment {
	return []Alignment{AlignCenter, AlignRight, AlignJustify}
}

// LinkAttrs holds attributes for link and image nodes.
type LinkAttrs struct {
	// Destination is the link URL (or image source).
	Destination string

	// Title is the optional link title.
	Title string

	// Width and Height are optional image dimensions recovered from HTML.
	Width  string
	Height string
}

// ListAttrs holds attributes for list nodes.
type ListAttrs struct {
	// Ordered is true for ordered lists (1., 2., etc.).
	Ordered bool

	// Start is the starting number for ordered lists.
	Start int

	// Tight is true if this is a tight list (no blank lines between items).
	Tight bool
}

// CodeAttrs holds attributes for code block nodes.
type CodeAttrs struct {
	// Info is the info string (language identifier, etc.).
	Info string

	// Indented is true for indented code blocks (vs fenced).
	Indented bool
}

// Attr is a single HTML attribute.
type Attr struct {
	Key string `json:"key"`
	Val string `json:"val"`
}

// ElementAttrs holds the tag name and attributes of a generic element.
type ElementAttrs struct {
	Tag   string
	Attrs []Attr
}

// Get returns the value of the named attribute.
func (e *ElementAttrs) Get(key string) (string, bool) {
	if e == nil {
		return "", false
	}
	for _, attr := range e.Attrs {
		if strings.EqualFold(attr.Key, key) {
			return attr.Val, true
		}
	}
	return "", false
}

//nolint:gochecknoglobals // Read-only lookup table.
var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"center": true, "dd": true, "details": true, "div": true, "dl": true,
	"dt": true, "figcaption": true, "figure": true, "footer": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true,
	"ol": true, "p": true, "pre": true, "section": true, "summary": true,
	"table": true, "tbody": true, "td": true, "tfoot": true, "th": true,
	"thead": true, "tr": true, "ul": true,
}

// IsBlockTag reports whether an HTML tag name denotes a block element.
func IsBlockTag(tag string) bool {
	return blockTags[strings.ToLower(tag)]
}
