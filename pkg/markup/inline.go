package markup

import (
	"regexp"
	"strings"

	"github.com/yaklabco/markbridge/pkg/rtree"
)

//nolint:gochecknoglobals // Compiled pattern is read-only.
var inlineTagPattern = regexp.MustCompile(`^<(/?)([A-Za-z][A-Za-z0-9]*)\s*(/?)>$`)

// pairedTags maps raw inline tags to the node kind their content becomes
// when an opening tag is closed within the same inline container.
//
//nolint:gochecknoglobals // Read-only lookup table.
var pairedTags = map[string]rtree.NodeKind{
	"u":      rtree.NodeUnderline,
	"ins":    rtree.NodeUnderline,
	"em":     rtree.NodeEmphasis,
	"i":      rtree.NodeEmphasis,
	"strong": rtree.NodeStrong,
	"b":      rtree.NodeStrong,
	"s":      rtree.NodeStrikethrough,
	"del":    rtree.NodeStrikethrough,
	"strike": rtree.NodeStrikethrough,
}

// rawTag is a bare raw HTML tag without attributes.
type rawTag struct {
	name        string
	closing     bool
	selfClosing bool
}

// inlineTag parses the raw tag held by an HTMLInline node.
func inlineTag(n *rtree.Node) (rawTag, bool) {
	if n.Kind != rtree.NodeHTMLInline {
		return rawTag{}, false
	}
	match := inlineTagPattern.FindStringSubmatch(n.Text)
	if match == nil {
		return rawTag{}, false
	}
	return rawTag{
		name:        strings.ToLower(match[2]),
		closing:     match[1] == "/",
		selfClosing: match[3] == "/",
	}, true
}

// resolveInlineHTML turns raw <br> tags into hard breaks and wraps the
// content between matching formatting tag pairs, such as <u>...</u>, in
// the corresponding node. Unmatched tags stay raw.
func resolveInlineHTML(parent *rtree.Node) {
	for child := parent.FirstChild; child != nil; child = child.Next {
		if tag, ok := inlineTag(child); ok && tag.name == "br" && !tag.closing {
			child.Kind = rtree.NodeHardBreak
			child.Text = ""
		}
	}

	for child := parent.FirstChild; child != nil; child = child.Next {
		tag, ok := inlineTag(child)
		if !ok || tag.closing || tag.selfClosing {
			continue
		}
		kind, paired := pairedTags[tag.name]
		if !paired {
			continue
		}
		closer := findCloser(child, tag.name)
		if closer == nil {
			continue
		}

		wrapper := rtree.NewNode(kind)
		for n := child.Next; n != closer; {
			next := n.Next
			rtree.AppendChild(wrapper, n)
			n = next
		}
		rtree.ReplaceChild(parent, child, wrapper)
		rtree.RemoveChild(parent, closer)
		resolveInlineHTML(wrapper)
		child = wrapper
	}
}

// findCloser returns the sibling closing the tag opened by opener.
func findCloser(opener *rtree.Node, tag string) *rtree.Node {
	depth := 0
	for n := opener.Next; n != nil; n = n.Next {
		t, ok := inlineTag(n)
		if !ok || t.name != tag || t.selfClosing {
			continue
		}
		if !t.closing {
			depth++
			continue
		}
		if depth == 0 {
			return n
		}
		depth--
	}
	return nil
}
