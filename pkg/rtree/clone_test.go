package rtree_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/markbridge/pkg/rtree"
)

func TestClone_IsDeepAndDetached(t *testing.T) {
	t.Parallel()

	link := rtree.NewLink("https://example.com", "t", rtree.NewText("go"))
	para := rtree.NewBlock(rtree.NodeParagraph, link)
	para.Align = rtree.AlignCenter
	doc := rtree.NewBlock(rtree.NodeDocument, para)

	dup := rtree.Clone(para)

	require.NotNil(t, dup)
	assert.Nil(t, dup.Parent)
	assert.Equal(t, rtree.AlignCenter, dup.Align)
	assert.True(t, rtree.Equivalent(para, dup))

	dup.FirstChild.Link.Destination = "https://other.example"
	dup.FirstChild.FirstChild.Text = "changed"

	assert.Equal(t, "https://example.com", link.Href())
	assert.Equal(t, "go", rtree.PlainText(doc))
}

func TestClone_Nil(t *testing.T) {
	t.Parallel()

	assert.Nil(t, rtree.Clone(nil))
}

func TestEquivalent(t *testing.T) {
	t.Parallel()

	para := func(align rtree.Alignment, children ...*rtree.Node) *rtree.Node {
		p := rtree.NewBlock(rtree.NodeParagraph, children...)
		p.Align = align
		return rtree.NewBlock(rtree.NodeDocument, p)
	}
	list := func(tight bool) *rtree.Node {
		l := rtree.NewBlock(rtree.NodeList,
			rtree.NewBlock(rtree.NodeListItem, rtree.NewBlock(rtree.NodeParagraph, rtree.NewText("x"))))
		l.List = &rtree.ListAttrs{Tight: tight}
		return rtree.NewBlock(rtree.NodeDocument, l)
	}

	tests := []struct {
		name string
		a, b *rtree.Node
		want bool
	}{
		{
			name: "split text equals merged text",
			a:    para(rtree.AlignNone, rtree.NewText("hello "), rtree.NewText("world")),
			b:    para(rtree.AlignNone, rtree.NewText("hello world")),
			want: true,
		},
		{
			name: "whitespace runs collapse",
			a:    para(rtree.AlignNone, rtree.NewText("  hello   world ")),
			b:    para(rtree.AlignNone, rtree.NewText("hello world")),
			want: true,
		},
		{
			name: "left alignment is implicit",
			a:    para(rtree.AlignLeft, rtree.NewText("a")),
			b:    para(rtree.AlignNone, rtree.NewText("a")),
			want: true,
		},
		{
			name: "center differs from none",
			a:    para(rtree.AlignCenter, rtree.NewText("a")),
			b:    para(rtree.AlignNone, rtree.NewText("a")),
			want: false,
		},
		{
			name: "soft and hard breaks compare equal",
			a:    para(rtree.AlignNone, rtree.NewText("a"), rtree.NewNode(rtree.NodeSoftBreak), rtree.NewText("b")),
			b:    para(rtree.AlignNone, rtree.NewText("a"), rtree.NewNode(rtree.NodeHardBreak), rtree.NewText("b")),
			want: true,
		},
		{
			name: "trailing breaks are ignored",
			a:    para(rtree.AlignNone, rtree.NewText("a"), rtree.NewNode(rtree.NodeHardBreak)),
			b:    para(rtree.AlignNone, rtree.NewText("a")),
			want: true,
		},
		{
			name: "emphasis is significant",
			a:    para(rtree.AlignNone, rtree.NewBlock(rtree.NodeEmphasis, rtree.NewText("a"))),
			b:    para(rtree.AlignNone, rtree.NewText("a")),
			want: false,
		},
		{
			name: "list tightness is ignored",
			a:    list(true),
			b:    list(false),
			want: true,
		},
		{
			name: "link targets are significant",
			a:    para(rtree.AlignNone, rtree.NewLink("a", "", rtree.NewText("x"))),
			b:    para(rtree.AlignNone, rtree.NewLink("b", "", rtree.NewText("x"))),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, rtree.Equivalent(tt.a, tt.b),
				"signatures:\n%s\n%s", rtree.Signature(tt.a), rtree.Signature(tt.b))
		})
	}
}

func TestIsBlank(t *testing.T) {
	t.Parallel()

	assert.True(t, rtree.IsBlank(rtree.NewBlock(rtree.NodeParagraph)))
	assert.True(t, rtree.IsBlank(rtree.NewBlock(rtree.NodeParagraph,
		rtree.NewNode(rtree.NodeHardBreak), rtree.NewText("  "))))
	assert.False(t, rtree.IsBlank(rtree.NewBlock(rtree.NodeParagraph, rtree.NewText("x"))))
	assert.False(t, rtree.IsBlank(rtree.NewBlock(rtree.NodeParagraph, rtree.NewImage("a.png", "", ""))))
}

func TestDump(t *testing.T) {
	t.Parallel()

	heading := rtree.NewHeading(2, rtree.NewText("Hi"))
	heading.Align = rtree.AlignRight
	doc := rtree.NewBlock(rtree.NodeDocument, heading)

	var buf bytes.Buffer
	require.NoError(t, rtree.Dump(&buf, doc))

	assert.Equal(t, "Document\n  Heading level=2 align=right\n    Text \"Hi\"\n", buf.String())

	exported := rtree.Export(doc)
	require.Len(t, exported.Children, 1)
	assert.Equal(t, "right", exported.Children[0].Align)
	assert.Equal(t, 2, exported.Children[0].Level)
}

func TestParseAlignment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want rtree.Alignment
	}{
		{"center", rtree.AlignCenter},
		{" Centre ", rtree.AlignCenter},
		{"RIGHT", rtree.AlignRight},
		{"justify", rtree.AlignJustify},
		{"left", rtree.AlignLeft},
		{"diagonal", rtree.AlignNone},
		{"", rtree.AlignNone},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, rtree.ParseAlignment(tt.in), tt.in)
	}
	assert.False(t, rtree.AlignLeft.Explicit())
	assert.True(t, rtree.AlignJustify.Explicit())
}
