package rtree_test

import (
	"errors"
	"testing"

	"github.com/yaklabco/markbridge/pkg/rtree"
)

func buildTestTree() *rtree.Node {
	// Document
	//   Heading
	//     Text
	//   Paragraph
	//     Text
	//     Emphasis
	//       Text
	return rtree.NewBlock(rtree.NodeDocument,
		rtree.NewHeading(1, rtree.NewText("Title")),
		rtree.NewBlock(rtree.NodeParagraph,
			rtree.NewText("plain "),
			rtree.NewBlock(rtree.NodeEmphasis, rtree.NewText("em")),
		),
	)
}

func TestWalk(t *testing.T) {
	t.Parallel()

	var visited []rtree.NodeKind
	err := rtree.Walk(buildTestTree(), func(n *rtree.Node) error {
		visited = append(visited, n.Kind)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk returned error: %v", err)
	}

	expected := []rtree.NodeKind{
		rtree.NodeDocument,
		rtree.NodeHeading,
		rtree.NodeText,
		rtree.NodeParagraph,
		rtree.NodeText,
		rtree.NodeEmphasis,
		rtree.NodeText,
	}
	if len(visited) != len(expected) {
		t.Fatalf("expected %d nodes, got %d", len(expected), len(visited))
	}
	for i, kind := range expected {
		if visited[i] != kind {
			t.Errorf("node %d: expected %s, got %s", i, kind, visited[i])
		}
	}
}

func TestWalk_NilRoot(t *testing.T) {
	t.Parallel()

	err := rtree.Walk(nil, func(_ *rtree.Node) error {
		t.Error("callback should not be called")
		return nil
	})
	if err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

func TestWalk_SkipChildren(t *testing.T) {
	t.Parallel()

	count := 0
	err := rtree.Walk(buildTestTree(), func(n *rtree.Node) error {
		count++
		if n.Kind == rtree.NodeParagraph {
			return rtree.SkipChildren
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 4 {
		t.Errorf("expected 4 visited nodes, got %d", count)
	}
}

func TestWalk_StopsOnError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	count := 0
	err := rtree.Walk(buildTestTree(), func(n *rtree.Node) error {
		count++
		if n.Kind == rtree.NodeHeading {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
	if count != 2 {
		t.Errorf("expected walk to stop after 2 nodes, got %d", count)
	}
}

func TestFindHelpers(t *testing.T) {
	t.Parallel()

	doc := buildTestTree()

	if got := len(rtree.FindByKind(doc, rtree.NodeText)); got != 3 {
		t.Errorf("expected 3 text nodes, got %d", got)
	}

	em := rtree.FindFirst(doc, func(n *rtree.Node) bool { return n.Kind == rtree.NodeEmphasis })
	if em == nil || rtree.PlainText(em) != "em" {
		t.Errorf("FindFirst returned %+v", em)
	}

	if rtree.FindFirst(doc, func(n *rtree.Node) bool { return n.Kind == rtree.NodeTable }) != nil {
		t.Error("expected no table")
	}
}
