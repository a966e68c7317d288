// Package markup parses Markup text into render trees using goldmark.
//
// Parsing never fails: anything goldmark does not recognize degrades to
// literal text. On top of CommonMark with GFM tables and strikethrough the
// parser reads back the constructs the serializer writes for concepts
// Markup has no syntax for: alignment wrappers, raw underline tags, <br>
// breaks and the &nbsp; blank-paragraph marker.
package markup

import (
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/markbridge/pkg/rtree"
)

// BlankMarker is the Markup written for a deliberately empty block.
const BlankMarker = "&nbsp;"

// Option configures a Parser.
type Option func(*Parser)

// WithLooseBreaks controls whether soft line breaks become hard breaks.
// Loose mode is on by default, matching how an editing surface treats a
// single newline.
func WithLooseBreaks(loose bool) Option {
	return func(p *Parser) {
		p.looseBreaks = loose
	}
}

// Parser converts Markup into render trees. A Parser is safe for
// concurrent use.
type Parser struct {
	looseBreaks bool
	md          goldmark.Markdown
}

// New creates a parser with the given options.
func New(opts ...Option) *Parser {
	p := &Parser{
		looseBreaks: true,
		md:          sharedMarkdown(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// LooseBreaks reports whether the parser runs in loose mode.
func (p *Parser) LooseBreaks() bool {
	return p.looseBreaks
}

// Parse converts src into a render tree rooted at a Document node.
// Empty input yields a document with no children.
func (p *Parser) Parse(src string) *rtree.Node {
	doc := rtree.NewDocument()
	if src == "" {
		return doc
	}
	p.parseInto(doc, src)
	return doc
}

// parseInto parses src and appends the resulting blocks to parent.
func (p *Parser) parseInto(parent *rtree.Node, src string) {
	source := []byte(src)
	gmDoc := p.md.Parser().Parse(text.NewReader(source), parser.WithContext(parser.NewContext()))

	m := newMapper(p, source)
	m.mapBlocks(gmDoc, parent)
}

// Parse converts src into a render tree using a parser built from opts.
func Parse(src string, opts ...Option) *rtree.Node {
	return New(opts...).Parse(src)
}

//nolint:gochecknoglobals // goldmark instances are immutable and safe to share.
var sharedMarkdown = sync.OnceValue(newGoldmarkInstance)

// newGoldmarkInstance creates the goldmark.Markdown used by every parser.
//
//nolint:ireturn // goldmark.Markdown is an external interface type
func newGoldmarkInstance() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			extension.Strikethrough,
		),
	)
}
