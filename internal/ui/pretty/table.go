package pretty

import (
	"fmt"
	"strconv"
	"strings"
)

// Table formatting constants.
const (
	tablePadding    = 2
	minFileWidth    = 20
	statusWidth     = 26
	countWidth      = 6
	heavySeparator  = "="
	ellipsis        = "..."
	ellipsisReserve = len(ellipsis) + 1
)

// FileStatus classifies a row in the file table.
type FileStatus int

const (
	StatusUnchanged FileStatus = iota
	StatusChanged
	StatusWritten
	StatusSkipped
	StatusError
)

// TableRow is one file in the status table.
type TableRow struct {
	File      string
	Status    FileStatus
	Detail    string
	Additions int
	Deletions int
}

// TableFormatter formats per-file formatting results as a styled table.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter. A non-positive width
// means DefaultTermWidth.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = DefaultTermWidth
	}
	return &TableFormatter{styles: styles, termWidth: termWidth}
}

// FormatTable renders rows with FILE, STATUS, + and - columns. It returns
// the empty string for no rows.
func (t *TableFormatter) FormatTable(rows []TableRow) string {
	if len(rows) == 0 {
		return ""
	}

	fileWidth := minFileWidth
	for _, row := range rows {
		fileWidth = max(fileWidth, len(row.File))
	}
	fixed := statusWidth + 2*countWidth + 4*tablePadding
	if fileWidth+fixed > t.termWidth {
		fileWidth = max(minFileWidth, t.termWidth-fixed)
	}
	total := fileWidth + fixed

	var builder strings.Builder
	header := fmt.Sprintf(" %-*s  %-*s  %*s  %*s ", fileWidth, "FILE", statusWidth, "STATUS", countWidth, "+", countWidth, "-")
	builder.WriteString(t.styles.TableHeader.Render(header) + "\n")
	builder.WriteString(t.styles.TableSeparator.Render(strings.Repeat(heavySeparator, total)) + "\n")

	for _, row := range rows {
		status := truncateString(t.statusText(row), statusWidth)
		line := fmt.Sprintf(" %-*s  %-*s  %*s  %*s ",
			fileWidth, truncatePath(row.File, fileWidth),
			statusWidth, status,
			countWidth, count(row.Additions),
			countWidth, count(row.Deletions),
		)
		builder.WriteString(t.rowStyle(row.Status)(line) + "\n")
	}

	builder.WriteString(t.styles.TableSeparator.Render(strings.Repeat(heavySeparator, total)) + "\n")
	return builder.String()
}

func (t *TableFormatter) statusText(row TableRow) string {
	var text string
	switch row.Status {
	case StatusChanged:
		text = "needs formatting"
	case StatusWritten:
		text = "formatted"
	case StatusSkipped:
		text = "skipped"
	case StatusError:
		text = "error"
	default:
		text = "ok"
	}
	if row.Detail != "" {
		text += ": " + row.Detail
	}
	return text
}

func (t *TableFormatter) rowStyle(status FileStatus) func(...string) string {
	switch status {
	case StatusChanged:
		return t.styles.Changed.Render
	case StatusWritten:
		return t.styles.Success.Render
	case StatusSkipped:
		return t.styles.Skipped.Render
	case StatusError:
		return t.styles.Error.Render
	default:
		return t.styles.Unchanged.Render
	}
}

func count(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// truncateString cuts s to width, marking the cut with an ellipsis.
func truncateString(s string, width int) string {
	if len(s) <= width {
		return s
	}
	if width < ellipsisReserve {
		return s[:width]
	}
	return s[:width-len(ellipsis)] + ellipsis
}

// truncatePath keeps the end of a path, which is usually the informative part.
func truncatePath(p string, width int) string {
	if len(p) <= width {
		return p
	}
	if width < ellipsisReserve {
		return p[len(p)-width:]
	}
	return ellipsis + p[len(p)-width+len(ellipsis):]
}
