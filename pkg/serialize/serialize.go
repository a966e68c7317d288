// Package serialize converts render trees back into Markup.
//
// Serialization walks the tree depth-first. At every node the rule table is
// consulted top to bottom and the first matching rule renders the node;
// nodes no rule claims fall back to the generic kind-to-Markup mapping.
// The output re-parses into an equivalent tree, and serializing that tree
// again yields the same text.
package serialize

import (
	"strings"

	"github.com/yaklabco/markbridge/pkg/rtree"
)

// Options control the Markup dialect the serializer writes.
type Options struct {
	// BulletMarker is the bullet list marker: '-', '*' or '+'.
	BulletMarker byte

	// EmphasisMarker is the emphasis delimiter: '*' or '_'.
	EmphasisMarker byte

	// FenceChar is the code fence character: '`' or '~'.
	FenceChar byte
}

// DefaultOptions returns the default dialect.
func DefaultOptions() Options {
	return Options{
		BulletMarker:   '-',
		EmphasisMarker: '*',
		FenceChar:      '`',
	}
}

// Option configures a Serializer.
type Option func(*Options)

// WithBulletMarker sets the bullet list marker. Unsupported markers are ignored.
func WithBulletMarker(marker byte) Option {
	return func(o *Options) {
		if marker == '-' || marker == '*' || marker == '+' {
			o.BulletMarker = marker
		}
	}
}

// WithEmphasisMarker sets the emphasis delimiter. Unsupported markers are ignored.
func WithEmphasisMarker(marker byte) Option {
	return func(o *Options) {
		if marker == '*' || marker == '_' {
			o.EmphasisMarker = marker
		}
	}
}

// WithFenceChar sets the code fence character. Unsupported characters are ignored.
func WithFenceChar(char byte) Option {
	return func(o *Options) {
		if char == '`' || char == '~' {
			o.FenceChar = char
		}
	}
}

// WithOptions applies every field of opts, skipping unsupported values.
func WithOptions(opts Options) Option {
	return func(o *Options) {
		WithBulletMarker(opts.BulletMarker)(o)
		WithEmphasisMarker(opts.EmphasisMarker)(o)
		WithFenceChar(opts.FenceChar)(o)
	}
}

// Serializer renders trees as Markup. A Serializer is safe for concurrent use.
type Serializer struct {
	opts  Options
	rules []Rule
}

// New creates a serializer with the given options.
func New(opts ...Option) *Serializer {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return &Serializer{
		opts:  options,
		rules: defaultRules(),
	}
}

// Options returns the serializer's dialect.
func (s *Serializer) Options() Options {
	return s.opts
}

// Rules returns a copy of the rule table in evaluation order.
func (s *Serializer) Rules() []Rule {
	out := make([]Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Serialize renders the tree rooted at root. A nil or empty tree yields "".
// Non-empty output ends with a single newline.
func (s *Serializer) Serialize(root *rtree.Node) string {
	if root == nil {
		return ""
	}
	ctx := &Context{opts: s.opts, rules: s.rules, prev: ' '}
	out := strings.TrimRight(ctx.Node(root), " \t\n")
	if strings.TrimSpace(out) == "" {
		return ""
	}
	return out + "\n"
}

// Serialize renders root with a serializer built from opts.
func Serialize(root *rtree.Node, opts ...Option) string {
	return New(opts...).Serialize(root)
}
