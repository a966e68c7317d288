package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/markbridge/internal/ui/pretty"
	"github.com/yaklabco/markbridge/pkg/rtree"
)

func TestFormatTree(t *testing.T) {
	t.Parallel()

	code := rtree.NewNode(rtree.NodeCodeBlock)
	code.Code = &rtree.CodeAttrs{}
	code.Text = "package main\n"

	para := rtree.NewBlock(rtree.NodeParagraph, rtree.NewText("hi"))
	para.Align = rtree.AlignCenter

	doc := rtree.NewBlock(rtree.NodeDocument,
		rtree.NewHeading(2, rtree.NewText("Title")),
		para,
		code,
	)

	got := pretty.NewStyles(false).FormatTree(doc, pretty.TreeOptions{
		Annotate: func(n *rtree.Node) string {
			if n.Kind == rtree.NodeCodeBlock {
				return "go"
			}
			return ""
		},
	})

	want := "Document\n" +
		"├ Heading level=2\n" +
		"│ ├ Text \"Title\"\n" +
		"├ Paragraph align=center\n" +
		"│ ├ Text \"hi\"\n" +
		"├ CodeBlock \"package main\\n\" # go\n"
	assert.Equal(t, want, got)
}
