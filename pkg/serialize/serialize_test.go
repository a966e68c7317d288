package serialize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/markbridge/pkg/rtree"
	"github.com/yaklabco/markbridge/pkg/serialize"
)

func doc(blocks ...*rtree.Node) *rtree.Node {
	return rtree.NewBlock(rtree.NodeDocument, blocks...)
}

func para(children ...*rtree.Node) *rtree.Node {
	return rtree.NewBlock(rtree.NodeParagraph, children...)
}

func text(s string) *rtree.Node {
	return rtree.NewText(s)
}

func inline(kind rtree.NodeKind, children ...*rtree.Node) *rtree.Node {
	return rtree.NewBlock(kind, children...)
}

func hardBreak() *rtree.Node {
	return rtree.NewNode(rtree.NodeHardBreak)
}

func aligned(n *rtree.Node, align rtree.Alignment) *rtree.Node {
	n.Align = align
	return n
}

func list(ordered, tight bool, start int, items ...*rtree.Node) *rtree.Node {
	n := rtree.NewBlock(rtree.NodeList, items...)
	n.List = &rtree.ListAttrs{Ordered: ordered, Tight: tight, Start: start}
	return n
}

func item(blocks ...*rtree.Node) *rtree.Node {
	return rtree.NewBlock(rtree.NodeListItem, blocks...)
}

func codeBlock(info, body string) *rtree.Node {
	n := rtree.NewNode(rtree.NodeCodeBlock)
	n.Code = &rtree.CodeAttrs{Info: info}
	n.Text = body
	return n
}

func cell(align rtree.Alignment, children ...*rtree.Node) *rtree.Node {
	n := rtree.NewBlock(rtree.NodeTableCell, children...)
	n.ColumnAlign = align
	return n
}

func row(header bool, cells ...*rtree.Node) *rtree.Node {
	n := rtree.NewBlock(rtree.NodeTableRow, cells...)
	n.Header = header
	return n
}

func codeSpan(s string) *rtree.Node {
	n := rtree.NewNode(rtree.NodeCodeSpan)
	n.Text = s
	return n
}

func TestSerialize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		tree *rtree.Node
		want string
	}{
		{
			name: "nil tree",
			tree: nil,
			want: "",
		},
		{
			name: "empty document",
			tree: doc(),
			want: "",
		},
		{
			name: "heading and paragraph",
			tree: doc(
				rtree.NewHeading(2, text("Title")),
				para(text("Hello "), inline(rtree.NodeEmphasis, text("world"))),
			),
			want: "## Title\n\nHello *world*\n",
		},
		{
			name: "strong and strikethrough",
			tree: doc(para(
				inline(rtree.NodeStrong, text("bold")),
				text(" "),
				inline(rtree.NodeStrikethrough, text("gone")),
			)),
			want: "**bold** ~~gone~~\n",
		},
		{
			name: "underline",
			tree: doc(para(text("a "), inline(rtree.NodeUnderline, text("u")))),
			want: "a <u>u</u>\n",
		},
		{
			name: "flanking whitespace moves outside delimiters",
			tree: doc(para(text("a"), inline(rtree.NodeEmphasis, text(" b ")), text("c"))),
			want: "a *b* c\n",
		},
		{
			name: "unflankable emphasis falls back to tags",
			tree: doc(para(text("a"), inline(rtree.NodeEmphasis, text("(b)")))),
			want: "a<em>(b)</em>\n",
		},
		{
			name: "empty emphasis emits nothing",
			tree: doc(para(text("a"), inline(rtree.NodeEmphasis))),
			want: "a\n",
		},
		{
			name: "link strips whitespace and escapes title quotes",
			tree: doc(para(rtree.NewLink("https://ex ample.com/a b", `say "hi"`, text("x")))),
			want: `[x](https://example.com/ab "say \"hi\"")` + "\n",
		},
		{
			name: "link destination escapes parentheses",
			tree: doc(para(rtree.NewLink("https://example.com/a_(b)", "", text("x")))),
			want: `[x](https://example.com/a_\(b\))` + "\n",
		},
		{
			name: "image",
			tree: doc(para(rtree.NewImage("cat.png", "a [cat]", "T"))),
			want: `![a \[cat\]](cat.png "T")` + "\n",
		},
		{
			name: "hard break",
			tree: doc(para(text("a"), hardBreak(), text("b"))),
			want: "a  \nb\n",
		},
		{
			name: "trailing spaces before a hard break are folded",
			tree: doc(para(text("a   "), hardBreak(), text("b"))),
			want: "a  \nb\n",
		},
		{
			name: "trailing hard break emits nothing",
			tree: doc(para(text("a"), hardBreak())),
			want: "a\n",
		},
		{
			name: "consecutive hard breaks",
			tree: doc(para(text("a"), hardBreak(), hardBreak(), text("b"))),
			want: "a  \n<br>b\n",
		},
		{
			name: "leading hard break",
			tree: doc(para(hardBreak(), text("b"))),
			want: "<br>b\n",
		},
		{
			name: "soft break",
			tree: doc(para(text("a "), rtree.NewNode(rtree.NodeSoftBreak), text("b"))),
			want: "a\nb\n",
		},
		{
			name: "empty paragraph",
			tree: doc(para(text("a")), para(), para(text("b"))),
			want: "a\n\n&nbsp;\n\nb\n",
		},
		{
			name: "paragraph holding only breaks",
			tree: doc(para(hardBreak(), hardBreak())),
			want: "&nbsp;\n",
		},
		{
			name: "empty heading",
			tree: doc(rtree.NewHeading(3)),
			want: "### &nbsp;\n",
		},
		{
			name: "centered paragraph",
			tree: doc(aligned(para(text("Hi "), inline(rtree.NodeEmphasis, text("there"))), rtree.AlignCenter)),
			want: `<p align="center">Hi <em>there</em></p>` + "\n",
		},
		{
			name: "right aligned heading",
			tree: doc(aligned(rtree.NewHeading(2, text("Title")), rtree.AlignRight)),
			want: `<h2 align="right">Title</h2>` + "\n",
		},
		{
			name: "aligned list uses a div wrapper",
			tree: doc(aligned(list(false, true, 0, item(para(text("a")))), rtree.AlignJustify)),
			want: "<div align=\"justify\">\n\n- a\n\n</div>\n",
		},
		{
			name: "left alignment is implicit",
			tree: doc(aligned(para(text("x")), rtree.AlignLeft), aligned(rtree.NewHeading(1, text("y")), rtree.AlignLeft)),
			want: "x\n\n# y\n",
		},
		{
			name: "text escaping",
			tree: doc(para(text("*a* [b] <c> snake_case _x |p| ~s~ \\ &amp; AT&T"))),
			want: `\*a\* \[b\] \<c> snake_case \_x \|p\| \~s\~ \\ \&amp; AT&T` + "\n",
		},
		{
			name: "line start markers",
			tree: doc(
				para(text("# not a heading")),
				para(text("1. not a list")),
				para(text("a"), hardBreak(), text("- b"), hardBreak(), text("> c")),
			),
			want: "\\# not a heading\n\n1\\. not a list\n\na  \n\\- b  \n\\> c\n",
		},
		{
			name: "heading with trailing hash",
			tree: doc(rtree.NewHeading(1, text("C#"))),
			want: "# C\\#\n",
		},
		{
			name: "tight bullet list with nesting",
			tree: doc(list(false, true, 0,
				item(para(text("a")), list(false, true, 0, item(para(text("b"))))),
				item(para(text("c"))),
			)),
			want: "- a\n  - b\n- c\n",
		},
		{
			name: "loose ordered list",
			tree: doc(list(true, false, 3,
				item(para(text("one"))),
				item(para(text("two")), para(text("more"))),
			)),
			want: "3. one\n\n4. two\n\n   more\n",
		},
		{
			name: "tight list item with two paragraphs is written loose",
			tree: doc(list(false, true, 0,
				item(para(text("a")), para(text("b"))),
				item(para(text("c"))),
			)),
			want: "- a\n\n  b\n\n- c\n",
		},
		{
			name: "empty list item",
			tree: doc(list(false, true, 0, item(), item(para(text("x"))))),
			want: "-\n- x\n",
		},
		{
			name: "adjacent lists alternate markers",
			tree: doc(
				list(false, true, 0, item(para(text("a")))),
				list(false, true, 0, item(para(text("b")))),
				list(true, true, 1, item(para(text("c")))),
				list(true, true, 1, item(para(text("d")))),
			),
			want: "- a\n\n* b\n\n1. c\n\n1) d\n",
		},
		{
			name: "blockquote",
			tree: doc(rtree.NewBlock(rtree.NodeBlockquote, para(text("a")), para(text("b")))),
			want: "> a\n>\n> b\n",
		},
		{
			name: "fenced code",
			tree: doc(codeBlock("go", "x := 1\n")),
			want: "```go\nx := 1\n```\n",
		},
		{
			name: "fence outgrows inner backticks",
			tree: doc(codeBlock("", "````\nx")),
			want: "`````\n````\nx\n`````\n",
		},
		{
			name: "thematic break",
			tree: doc(para(text("a")), rtree.NewNode(rtree.NodeThematicBreak), para(text("b"))),
			want: "a\n\n---\n\nb\n",
		},
		{
			name: "code spans",
			tree: doc(para(codeSpan("a`b"), text(" "), codeSpan("`x"), text(" "), codeSpan(" y "))),
			want: "``a`b`` `` `x `` `  y  `\n",
		},
		{
			name: "raw html passes through",
			tree: doc(
				para(text("a "), &rtree.Node{Kind: rtree.NodeHTMLInline, Text: "<span>"}),
				&rtree.Node{Kind: rtree.NodeHTMLBlock, Text: "<section>\nx\n</section>\n"},
			),
			want: "a <span>\n\n<section>\nx\n</section>\n",
		},
		{
			name: "table",
			tree: doc(rtree.NewBlock(rtree.NodeTable,
				row(true, cell(rtree.AlignLeft, text("a")), cell(rtree.AlignCenter, text("b|c"))),
				row(false, cell(rtree.AlignLeft, text("1")), cell(rtree.AlignCenter, codeSpan("x|y"))),
				row(false, cell(rtree.AlignLeft)),
			)),
			want: "| a | b\\|c |\n| :--- | :---: |\n| 1 | `x\\|y` |\n|  |  |\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, serialize.Serialize(tt.tree))
		})
	}
}

func TestSerialize_Options(t *testing.T) {
	t.Parallel()

	tree := doc(
		list(false, true, 0, item(para(text("a ")), para(inline(rtree.NodeEmphasis, text("e"))))),
		para(text("x "), inline(rtree.NodeStrong, text("s"))),
		codeBlock("", "c\n"),
	)

	got := serialize.Serialize(tree,
		serialize.WithBulletMarker('*'),
		serialize.WithEmphasisMarker('_'),
		serialize.WithFenceChar('~'),
	)
	assert.Equal(t, "* a\n\n  _e_\n\nx __s__\n\n~~~\nc\n~~~\n", got)
}

func TestSerialize_UnsupportedOptionsAreIgnored(t *testing.T) {
	t.Parallel()

	s := serialize.New(
		serialize.WithBulletMarker('x'),
		serialize.WithEmphasisMarker('#'),
		serialize.WithFenceChar('"'),
	)
	assert.Equal(t, serialize.DefaultOptions(), s.Options())
}

func TestSerialize_UnderscoreEmphasisFallsBackInsideWords(t *testing.T) {
	t.Parallel()

	tree := doc(para(text("a"), inline(rtree.NodeEmphasis, text("b")), text("c")))
	assert.Equal(t, "a*b*c\n", serialize.Serialize(tree, serialize.WithEmphasisMarker('_')))
}

func TestSerializer_Rules(t *testing.T) {
	t.Parallel()

	var names []string
	for _, rule := range serialize.New().Rules() {
		names = append(names, rule.Name)
	}
	assert.Equal(t, []string{
		serialize.RuleUnderline,
		serialize.RuleLink,
		serialize.RuleHardBreak,
		serialize.RuleEmptyBlock,
		serialize.RuleAlignment,
	}, names)
}

func TestSerialize_DoesNotMutateTree(t *testing.T) {
	t.Parallel()

	tree := doc(
		aligned(para(text("a"), hardBreak()), rtree.AlignCenter),
		text("stray"),
		list(false, true, 0, item(para(text("b")))),
	)
	before := rtree.Signature(tree)

	serialize.Serialize(tree)

	assert.Equal(t, before, rtree.Signature(tree))
}
