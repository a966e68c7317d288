package htmltree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/markbridge/pkg/htmltree"
	"github.com/yaklabco/markbridge/pkg/rtree"
)

func TestRender(t *testing.T) {
	t.Parallel()

	centered := rtree.NewBlock(rtree.NodeParagraph,
		rtree.NewText("a "),
		rtree.NewBlock(rtree.NodeEmphasis, rtree.NewText("b")),
		rtree.NewNode(rtree.NodeHardBreak),
		rtree.NewLink("https://example.com", "t", rtree.NewText("c")),
	)
	centered.Align = rtree.AlignCenter

	list := rtree.NewBlock(rtree.NodeList,
		rtree.NewBlock(rtree.NodeListItem, rtree.NewBlock(rtree.NodeParagraph, rtree.NewText("one"))),
	)
	list.List = &rtree.ListAttrs{Tight: true}

	code := rtree.NewNode(rtree.NodeCodeBlock)
	code.Text = "x < y\n"
	code.Code = &rtree.CodeAttrs{Info: "go"}

	tests := []struct {
		name string
		tree *rtree.Node
		want string
	}{
		{
			name: "aligned paragraph with inline content",
			tree: rtree.NewBlock(rtree.NodeDocument, centered),
			want: `<p align="center">a <em>b</em><br/><a href="https://example.com" title="t">c</a></p>` + "\n",
		},
		{
			name: "tight list drops paragraph tags",
			tree: rtree.NewBlock(rtree.NodeDocument, list),
			want: "<ul>\n<li>one</li>\n</ul>\n",
		},
		{
			name: "code block escapes content",
			tree: rtree.NewBlock(rtree.NodeDocument, code),
			want: "<pre><code class=\"language-go\">x &lt; y\n</code></pre>\n",
		},
		{
			name: "heading",
			tree: rtree.NewBlock(rtree.NodeDocument, rtree.NewHeading(2, rtree.NewText("T"))),
			want: "<h2>T</h2>\n",
		},
		{
			name: "empty document",
			tree: rtree.NewDocument(),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, htmltree.Render(tt.tree))
		})
	}
}

func TestRender_AlignedBlockGetsDivWrapper(t *testing.T) {
	t.Parallel()

	quote := rtree.NewBlock(rtree.NodeBlockquote, rtree.NewBlock(rtree.NodeParagraph, rtree.NewText("q")))
	quote.Align = rtree.AlignRight

	got := htmltree.Render(rtree.NewBlock(rtree.NodeDocument, quote))

	assert.Equal(t, "<div align=\"right\"><blockquote>\n<p>q</p>\n</blockquote>\n</div>", got)
}

func TestRenderInline(t *testing.T) {
	t.Parallel()

	para := rtree.NewBlock(rtree.NodeParagraph,
		rtree.NewBlock(rtree.NodeUnderline, rtree.NewText("u")),
		rtree.NewText(" & "),
		rtree.NewImage("a.png", "alt", ""),
	)

	assert.Equal(t, `<u>u</u> &amp; <img src="a.png" alt="alt"/>`, htmltree.RenderInline(para))
}

func TestParseFragment(t *testing.T) {
	t.Parallel()

	nodes := htmltree.ParseFragment(`<p align="center">a <em>b</em><br>c <u>d</u> <code>x</code></p>`)
	require.Len(t, nodes, 1)

	para := nodes[0]
	assert.Equal(t, rtree.NodeParagraph, para.Kind)
	assert.Equal(t, rtree.AlignCenter, para.Align)

	var kinds []rtree.NodeKind
	for _, child := range para.Children() {
		kinds = append(kinds, child.Kind)
	}
	assert.Equal(t, []rtree.NodeKind{
		rtree.NodeText, rtree.NodeEmphasis, rtree.NodeHardBreak, rtree.NodeText,
		rtree.NodeUnderline, rtree.NodeText, rtree.NodeCodeSpan,
	}, kinds)
	assert.Equal(t, "x", para.LastChild.Text)
}

func TestParseFragment_UnknownElements(t *testing.T) {
	t.Parallel()

	nodes := htmltree.ParseFragment(`<span class="k">keep</span><!-- gone -->`)
	require.Len(t, nodes, 1)

	span := nodes[0]
	assert.Equal(t, rtree.NodeElement, span.Kind)
	assert.Equal(t, "span", span.Element.Tag)
	val, ok := span.Element.Get("class")
	assert.True(t, ok)
	assert.Equal(t, "k", val)
	assert.Equal(t, "keep", rtree.PlainText(span))
}

func TestRenderParseRoundTrip(t *testing.T) {
	t.Parallel()

	para := rtree.NewBlock(rtree.NodeParagraph,
		rtree.NewText("it's "),
		rtree.NewBlock(rtree.NodeStrong, rtree.NewText("bold")),
		rtree.NewBlock(rtree.NodeStrikethrough, rtree.NewText("gone")),
		rtree.NewLink("/docs?a=1&b=2", "", rtree.NewText("docs")),
	)
	para.Align = rtree.AlignJustify
	doc := rtree.NewBlock(rtree.NodeDocument, para)

	parsed := rtree.NewBlock(rtree.NodeDocument, htmltree.ParseFragment(htmltree.Render(doc))...)
	require.Equal(t, 2, parsed.ChildCount(), "paragraph plus trailing newline text")

	assert.True(t, rtree.Equivalent(doc, parsed),
		"%s\n%s", rtree.Signature(doc), rtree.Signature(parsed))
}
