package markup

import (
	"regexp"
	"strings"

	"github.com/yaklabco/markbridge/pkg/htmltree"
	"github.com/yaklabco/markbridge/pkg/rtree"
)

//nolint:gochecknoglobals // Compiled patterns are read-only.
var (
	divOpenPattern  = regexp.MustCompile(`(?i)^<div\s+align\s*=\s*["']?([a-z]+)["']?\s*>$`)
	divClosePattern = regexp.MustCompile(`(?i)^</div\s*>$`)
	divBlockPattern = regexp.MustCompile(`(?is)^<div\s+align\s*=\s*["']?([a-z]+)["']?\s*>(.*)</div\s*>$`)
	alignedPattern  = regexp.MustCompile(`(?is)^<(p|h[1-6])\s[^>]*\balign\s*=`)
	divTagPattern   = regexp.MustCompile(`(?i)<(/?)div\b`)
)

// resolveHTMLBlocks rewrites the alignment wrappers among the children of
// parent. A lone <div align> block opens a region whose blocks take its
// alignment until the matching </div> block; an aligned <p> or <hN> block
// becomes a real paragraph or heading. A block keeps its own alignment over
// that of any wrapper, and the innermost wrapper wins.
func (m *mapper) resolveHTMLBlocks(parent *rtree.Node) {
	var stack []rtree.Alignment

	for child := parent.FirstChild; child != nil; {
		next := child.Next

		if child.Kind == rtree.NodeHTMLBlock {
			src := strings.TrimSpace(child.Text)

			if match := divOpenPattern.FindStringSubmatch(src); match != nil {
				stack = append(stack, rtree.ParseAlignment(match[1]))
				rtree.RemoveChild(parent, child)
				child = next
				continue
			}

			if divClosePattern.MatchString(src) && len(stack) > 0 {
				stack = stack[:len(stack)-1]
				rtree.RemoveChild(parent, child)
				child = next
				continue
			}

			if replacement := m.expandHTMLBlock(src); replacement != nil {
				for _, node := range replacement {
					rtree.InsertBefore(child, node)
					applyWrapperAlignment(node, stack)
				}
				rtree.RemoveChild(parent, child)
				child = next
				continue
			}
		}

		applyWrapperAlignment(child, stack)
		child = next
	}
}

func applyWrapperAlignment(node *rtree.Node, stack []rtree.Alignment) {
	if len(stack) == 0 || !node.IsBlock() || node.Align != rtree.AlignNone {
		return
	}
	node.Align = stack[len(stack)-1]
}

// expandHTMLBlock converts an HTML block that encodes aligned content into
// tree nodes. It returns nil when src is ordinary raw HTML.
func (m *mapper) expandHTMLBlock(src string) []*rtree.Node {
	if match := divBlockPattern.FindStringSubmatch(src); match != nil && balancedDivs(match[2]) {
		align := rtree.ParseAlignment(match[1])
		inner := rtree.NewDocument()
		m.parser.parseInto(inner, match[2])

		nodes := inner.Children()
		for _, node := range nodes {
			rtree.RemoveChild(inner, node)
			if node.Align == rtree.AlignNone {
				node.Align = align
			}
		}
		if len(nodes) == 0 {
			return []*rtree.Node{}
		}
		return nodes
	}

	if alignedPattern.MatchString(src) {
		var blocks []*rtree.Node
		for _, node := range htmltree.ParseFragment(src) {
			if node.Kind == rtree.NodeText && strings.TrimSpace(node.Text) == "" {
				continue
			}
			blocks = append(blocks, node)
		}
		if len(blocks) == 1 && (blocks[0].Kind == rtree.NodeParagraph || blocks[0].Kind == rtree.NodeHeading) {
			return []*rtree.Node{clearBlank(blocks[0])}
		}
	}

	return nil
}

// balancedDivs reports whether every div opened in s is also closed in s,
// so that the outer wrapper's closing tag really is the final one.
func balancedDivs(s string) bool {
	depth := 0
	for _, match := range divTagPattern.FindAllStringSubmatch(s, -1) {
		if match[1] == "/" {
			depth--
			if depth < 0 {
				return false
			}
		} else {
			depth++
		}
	}
	return depth == 0
}
