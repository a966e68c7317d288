// Package convert exposes the pure conversions between Markup and render
// trees. None of them fail: malformed Markup degrades to text and a nil
// tree serializes to the empty string.
package convert

import (
	"github.com/yaklabco/markbridge/pkg/htmltree"
	"github.com/yaklabco/markbridge/pkg/markup"
	"github.com/yaklabco/markbridge/pkg/normalize"
	"github.com/yaklabco/markbridge/pkg/rtree"
	"github.com/yaklabco/markbridge/pkg/sanitize"
	"github.com/yaklabco/markbridge/pkg/serialize"
)

// ToRenderable parses Markup into a render tree. Empty input yields a
// Document with no children.
func ToRenderable(src string, opts ...markup.Option) *rtree.Node {
	return markup.Parse(src, opts...)
}

// ToMarkup serializes a render tree and normalizes the result.
func ToMarkup(tree *rtree.Node, opts ...serialize.Option) string {
	if tree == nil {
		return ""
	}
	return normalize.Normalize(serialize.Serialize(tree, opts...))
}

// RenderHTML renders untrusted Markup as sanitized HTML for display.
func RenderHTML(src string, opts ...markup.Option) string {
	return htmltree.Render(sanitize.Sanitize(markup.Parse(src, opts...)))
}

// Canonicalize rewrites Markup into the form this package writes.
func Canonicalize(src string) string {
	return ToMarkup(ToRenderable(src))
}

// Converter bundles parser and serializer settings for repeated use.
type Converter struct {
	parser     *markup.Parser
	serializer *serialize.Serializer
	sanitizer  *sanitize.Sanitizer
}

// NewConverter creates a converter from parser and serializer options.
func NewConverter(parseOpts []markup.Option, serializeOpts []serialize.Option) *Converter {
	return &Converter{
		parser:     markup.New(parseOpts...),
		serializer: serialize.New(serializeOpts...),
		sanitizer:  sanitize.New(),
	}
}

// ToRenderable parses src.
func (c *Converter) ToRenderable(src string) *rtree.Node {
	return c.parser.Parse(src)
}

// ToMarkup serializes and normalizes tree.
func (c *Converter) ToMarkup(tree *rtree.Node) string {
	if tree == nil {
		return ""
	}
	return normalize.Normalize(c.serializer.Serialize(tree))
}

// RenderHTML parses, sanitizes and renders src.
func (c *Converter) RenderHTML(src string) string {
	return htmltree.Render(c.sanitizer.Sanitize(c.parser.Parse(src)))
}

// Canonicalize parses and re-serializes src.
func (c *Converter) Canonicalize(src string) string {
	return c.ToMarkup(c.ToRenderable(src))
}
