// Package sanitize restricts render trees built from untrusted Markup to a
// fixed allow-list of elements, attributes and URL schemes before display.
//
// Disallowed markup is never an error: a disallowed element is dropped
// while its text is kept, a link with an unsafe target becomes its text
// and an image with an unsafe source becomes its alt text.
package sanitize

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/markbridge/internal/logging"
	"github.com/yaklabco/markbridge/pkg/rtree"
)

// Policy is an allow-list of HTML elements, attributes and URL schemes.
type Policy struct {
	// Tags lists the allowed element names.
	Tags map[string]bool

	// Attrs maps an element name to its allowed attributes.
	Attrs map[string]map[string]bool

	// Schemes lists the allowed URL schemes for href and src.
	Schemes []string
}

// DefaultPolicy returns the display allow-list: block and heading tags,
// table elements, inline formatting, links and images.
func DefaultPolicy() *Policy {
	p := &Policy{
		Tags:    make(map[string]bool),
		Attrs:   make(map[string]map[string]bool),
		Schemes: DefaultSchemes(),
	}

	blocks := []string{
		"p", "div", "blockquote", "pre", "ul", "ol", "li", "hr",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"table", "thead", "tbody", "tfoot", "tr", "th", "td",
	}
	for _, tag := range blocks {
		p.allow(tag, "align")
	}
	for _, tag := range []string{"em", "i", "strong", "b", "u", "ins", "s", "del", "strike", "code", "br", "sub", "sup"} {
		p.allow(tag)
	}
	p.allow("ol", "start")
	p.allow("a", "href", "title")
	p.allow("img", "src", "alt", "title", "width", "height")
	return p
}

func (p *Policy) allow(tag string, attrs ...string) {
	p.Tags[tag] = true
	if len(attrs) == 0 {
		return
	}
	if p.Attrs[tag] == nil {
		p.Attrs[tag] = make(map[string]bool)
	}
	for _, attr := range attrs {
		p.Attrs[tag][attr] = true
	}
}

// AllowsTag reports whether the element tag is allowed.
func (p *Policy) AllowsTag(tag string) bool {
	return p.Tags[strings.ToLower(tag)]
}

// AllowsAttr reports whether attr is allowed on tag.
func (p *Policy) AllowsAttr(tag, attr string) bool {
	return p.Attrs[strings.ToLower(tag)][strings.ToLower(attr)]
}

// CheckTarget validates a URL against the policy's schemes.
func (p *Policy) CheckTarget(target string) error {
	return checkTarget(target, p.Schemes)
}

// Option configures a Sanitizer.
type Option func(*Sanitizer)

// WithPolicy replaces the default allow-list.
func WithPolicy(policy *Policy) Option {
	return func(s *Sanitizer) {
		if policy != nil {
			s.policy = policy
		}
	}
}

// WithLogger sets the logger that records dropped markup at debug level.
func WithLogger(logger *log.Logger) Option {
	return func(s *Sanitizer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Sanitizer applies a Policy to render trees.
type Sanitizer struct {
	policy *Policy
	logger *log.Logger
}

// New creates a sanitizer using the default policy.
func New(opts ...Option) *Sanitizer {
	s := &Sanitizer{
		policy: DefaultPolicy(),
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sanitize returns a sanitized copy of the tree rooted at root. The input
// tree is left untouched.
func (s *Sanitizer) Sanitize(root *rtree.Node) *rtree.Node {
	if root == nil {
		return nil
	}
	out := rtree.Clone(root)
	s.sanitizeChildren(out)
	return out
}

// Sanitize sanitizes root with the default policy.
func Sanitize(root *rtree.Node) *rtree.Node {
	return New().Sanitize(root)
}

func (s *Sanitizer) sanitizeChildren(parent *rtree.Node) {
	for child := parent.FirstChild; child != nil; {
		child = s.sanitizeNode(parent, child)
	}
}

// sanitizeNode sanitizes n in place and returns the next node to visit.
func (s *Sanitizer) sanitizeNode(parent, n *rtree.Node) *rtree.Node {
	next := n.Next

	switch n.Kind {
	case rtree.NodeLink:
		if err := s.policy.CheckTarget(n.Href()); err != nil && n.Href() != "" {
			s.logger.Debug("unwrapping link", "target", n.Href(), logging.FieldError, err)
			return rtree.Unwrap(n)
		}

	case rtree.NodeImage:
		if err := s.policy.CheckTarget(n.Href()); err != nil {
			s.logger.Debug("replacing image with alt text", "target", n.Href(), logging.FieldError, err)
			rtree.ReplaceChild(parent, n, rtree.NewText(n.Text))
			return next
		}

	case rtree.NodeElement:
		if n.Element == nil || !s.policy.AllowsTag(n.Element.Tag) {
			s.logger.Debug("dropping element", "tag", elementTag(n))
			return rtree.Unwrap(n)
		}
		n.Element.Attrs = s.filterAttrs(n.Element.Tag, n.Element.Attrs)

	case rtree.NodeHTMLBlock, rtree.NodeHTMLInline:
		cleaned := s.sanitizeHTML(n.Text)
		if strings.TrimSpace(cleaned) == "" {
			rtree.RemoveChild(parent, n)
			return next
		}
		n.Text = cleaned
		return next
	}

	s.sanitizeChildren(n)
	return next
}

func elementTag(n *rtree.Node) string {
	if n.Element == nil {
		return ""
	}
	return n.Element.Tag
}

func (s *Sanitizer) filterAttrs(tag string, attrs []rtree.Attr) []rtree.Attr {
	var kept []rtree.Attr
	for _, attr := range attrs {
		if !s.policy.AllowsAttr(tag, attr.Key) {
			continue
		}
		if key := strings.ToLower(attr.Key); (key == "href" || key == "src") && s.policy.CheckTarget(attr.Val) != nil {
			continue
		}
		kept = append(kept, attr)
	}
	return kept
}
