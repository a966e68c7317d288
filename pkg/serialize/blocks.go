package serialize

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/markbridge/pkg/markup"
	"github.com/yaklabco/markbridge/pkg/rtree"
)

const maxOrderedStart = 999999999

//nolint:gochecknoglobals // Compiled pattern is read-only.
var thematicBreakPattern = regexp.MustCompile(`^ {0,3}(?:(?:\*[ \t]*){3,}|(?:-[ \t]*){3,}|(?:_[ \t]*){3,})$`)

func (c *Context) paragraph(n *rtree.Node) string {
	content := strings.TrimRight(escapeLineStarts(c.Inline(n)), " \t\n")
	if strings.Trim(content, " \t\n") == "" {
		return markup.BlankMarker
	}
	return content
}

func headingLevel(n *rtree.Node) int {
	return min(max(n.Level, 1), 6)
}

func headingPrefix(n *rtree.Node) string {
	return strings.Repeat("#", headingLevel(n)) + " "
}

func (c *Context) heading(n *rtree.Node) string {
	content := strings.TrimSpace(strings.ReplaceAll(c.singleLineInline(n), "\n", " "))
	if content == "" {
		return headingPrefix(n) + markup.BlankMarker
	}
	// A trailing # would read as a closing sequence.
	if strings.HasSuffix(content, "#") {
		content = content[:len(content)-1] + `\#`
	}
	return headingPrefix(n) + content
}

func (c *Context) singleLineInline(n *rtree.Node) string {
	saved := c.singleLine
	c.singleLine = true
	defer func() { c.singleLine = saved }()
	return c.Inline(n)
}

func (c *Context) blockquote(n *rtree.Node) string {
	body := c.Blocks(n)
	if body == "" {
		return ">"
	}
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = ">"
		} else {
			lines[i] = "> " + line
		}
	}
	return strings.Join(lines, "\n")
}

func (c *Context) codeBlock(n *rtree.Node) string {
	fenceChar := c.opts.FenceChar
	info := ""
	if n.Code != nil {
		info = escapeInfo(strings.TrimSpace(strings.ReplaceAll(n.Code.Info, "\n", " ")))
	}
	if fenceChar == '`' && strings.Contains(info, "`") {
		fenceChar = '~'
	}

	body := n.Text
	if body != "" && !strings.HasSuffix(body, "\n") {
		body += "\n"
	}

	fence := strings.Repeat(string(fenceChar), max(3, longestRun(body, fenceChar)+1))
	return fence + info + "\n" + body + fence
}

// list renders a list. Adjacent lists of the same type alternate their
// markers so that re-parsing keeps them apart.
func (c *Context) list(n *rtree.Node) string {
	ordered := n.List != nil && n.List.Ordered
	tight := n.List != nil && n.List.Tight
	for item := n.FirstChild; item != nil && tight; item = item.Next {
		tight = tightItem(item)
	}

	alternate := adjacentListsBefore(n)%2 == 1
	bullet := string(c.opts.BulletMarker)
	if alternate {
		bullet = alternateBullet(c.opts.BulletMarker)
	}
	delim := "."
	if alternate {
		delim = ")"
	}
	number := 1
	if ordered {
		number = min(max(n.List.Start, 0), maxOrderedStart)
	}

	items := c.listItems(n, bullet, delim, number, tight)
	// Nested bullets around an empty item can spell a thematic break.
	if !ordered && slices.ContainsFunc(items, isThematicBreak) {
		items = c.listItems(n, thirdBullet(c.opts.BulletMarker), delim, number, tight)
	}

	if tight {
		return strings.Join(items, "\n")
	}
	return strings.Join(items, "\n\n")
}

func (c *Context) listItems(n *rtree.Node, bullet, delim string, number int, tight bool) []string {
	ordered := n.List != nil && n.List.Ordered
	var items []string
	for item := n.FirstChild; item != nil; item = item.Next {
		marker := bullet
		if ordered {
			marker = strconv.Itoa(min(number, maxOrderedStart)) + delim
			number++
		}
		items = append(items, c.listItem(item, marker, tight))
	}
	return items
}

func isThematicBreak(item string) bool {
	first, _, _ := strings.Cut(item, "\n")
	return thematicBreakPattern.MatchString(first)
}

func (c *Context) listItem(item *rtree.Node, marker string, tight bool) string {
	var body string
	switch {
	case item.Kind != rtree.NodeListItem:
		body = c.Node(item)
	case tight:
		body = strings.Join(c.blockParts(item), "\n")
	default:
		body = c.Blocks(item)
	}
	if body == "" {
		return marker
	}

	indent := strings.Repeat(" ", len(marker)+1)
	lines := strings.Split(body, "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = indent + lines[i]
		}
	}
	return marker + " " + strings.Join(lines, "\n")
}

// tightItem reports whether the blocks of item can be written on
// consecutive lines and still re-parse as separate blocks. Only a plain
// paragraph followed by blocks that interrupt a paragraph qualifies.
func tightItem(item *rtree.Node) bool {
	if item.Kind != rtree.NodeListItem || item.FirstChild == nil || item.FirstChild == item.LastChild {
		return true
	}
	for block := item.FirstChild; block != nil; block = block.Next {
		if block.Align.Explicit() {
			return false
		}
		if block == item.FirstChild {
			if block.Kind != rtree.NodeParagraph {
				return false
			}
			continue
		}
		switch block.Kind {
		case rtree.NodeCodeBlock, rtree.NodeBlockquote, rtree.NodeHeading:
		case rtree.NodeList:
			// Only bullets and lists starting at 1 may interrupt a paragraph.
			if block.FirstChild == nil || !block.FirstChild.HasChildren() {
				return false
			}
			if block.List != nil && block.List.Ordered && block.List.Start != 1 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func adjacentListsBefore(n *rtree.Node) int {
	ordered := n.List != nil && n.List.Ordered
	count := 0
	for prev := n.Prev; prev != nil && prev.Kind == rtree.NodeList; prev = prev.Prev {
		if (prev.List != nil && prev.List.Ordered) != ordered {
			break
		}
		count++
	}
	return count
}

func alternateBullet(marker byte) string {
	if marker == '-' {
		return "*"
	}
	return "-"
}

// thirdBullet returns the bullet used by neither marker nor its alternate,
// so a list written with it stays apart from its neighbours.
func thirdBullet(marker byte) string {
	if marker == '+' {
		return "*"
	}
	return "+"
}

func (c *Context) table(n *rtree.Node) string {
	var header *rtree.Node
	for row := n.FirstChild; row != nil; row = row.Next {
		if row.Kind == rtree.NodeTableRow && row.Header {
			header = row
			break
		}
	}
	if header == nil {
		header = n.FirstChild
	}
	if header == nil || header.ChildCount() == 0 {
		return ""
	}

	cols := header.ChildCount()
	delims := make([]string, 0, cols)
	for cell := header.FirstChild; cell != nil; cell = cell.Next {
		delims = append(delims, delimiterCell(cell.ColumnAlign))
	}

	lines := []string{
		c.tableRow(header, cols),
		"| " + strings.Join(delims, " | ") + " |",
	}
	for row := n.FirstChild; row != nil; row = row.Next {
		if row != header {
			lines = append(lines, c.tableRow(row, cols))
		}
	}
	return strings.Join(lines, "\n")
}

func delimiterCell(align rtree.Alignment) string {
	switch align {
	case rtree.AlignLeft:
		return ":---"
	case rtree.AlignCenter:
		return ":---:"
	case rtree.AlignRight:
		return "---:"
	default:
		return "---"
	}
}

// tableRow renders a row padded or truncated to cols cells.
func (c *Context) tableRow(row *rtree.Node, cols int) string {
	cells := make([]string, 0, cols)
	for cell := row.FirstChild; cell != nil && len(cells) < cols; cell = cell.Next {
		cells = append(cells, c.tableCell(cell))
	}
	for len(cells) < cols {
		cells = append(cells, "")
	}
	return "| " + strings.Join(cells, " | ") + " |"
}

func (c *Context) tableCell(cell *rtree.Node) string {
	saved := c.inTable
	c.inTable = true
	defer func() { c.inTable = saved }()

	if !cell.HasInlineContent() && cell.Kind != rtree.NodeTableCell {
		return strings.TrimSpace(strings.ReplaceAll(c.Node(cell), "\n", " "))
	}
	return strings.TrimSpace(strings.ReplaceAll(c.singleLineInline(cell), "\n", " "))
}
