package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/markbridge/pkg/runner"
)

const summaryDividerWidth = 40

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "2 of 12 files need formatting, 1 error".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats, write bool) string {
	var parts []string

	switch {
	case stats.FilesWritten > 0:
		parts = append(parts, s.Success.Render(fmt.Sprintf("formatted %d %s",
			stats.FilesWritten, plural(stats.FilesWritten, "file", "files")))+
			s.Dim.Render(fmt.Sprintf(" (%d checked)", stats.FilesProcessed)))
	case stats.FilesChanged > 0 && !write:
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d of %d %s need formatting",
			stats.FilesChanged, stats.FilesProcessed, plural(stats.FilesProcessed, "file", "files"))))
	default:
		parts = append(parts, s.Success.Render("All files formatted")+
			s.Dim.Render(fmt.Sprintf(" (%d checked)", stats.FilesProcessed)))
	}

	if stats.FilesSkipped > 0 {
		parts = append(parts, s.Skipped.Render(fmt.Sprintf("%d skipped", stats.FilesSkipped)))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d %s",
			stats.FilesErrored, plural(stats.FilesErrored, "error", "errors"))))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	row := func(label string, value int, style func(...string) string) {
		builder.WriteString("  " + label + strings.Repeat(" ", max(1, 20-len(label))) +
			style(strconv.Itoa(value)) + "\n")
	}

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	row("Files checked:", stats.FilesProcessed, s.SummaryValue.Render)
	if stats.FilesChanged > 0 {
		row("Not canonical:", stats.FilesChanged, s.Changed.Render)
	}
	if stats.FilesWritten > 0 {
		row("Files written:", stats.FilesWritten, s.Success.Render)
	}
	if stats.BackupsCreated > 0 {
		row("Backups created:", stats.BackupsCreated, s.SummaryValue.Render)
	}
	if stats.FilesSkipped > 0 {
		row("Skipped:", stats.FilesSkipped, s.Skipped.Render)
	}
	if stats.FilesErrored > 0 {
		row("Errors:", stats.FilesErrored, s.Error.Render)
	}

	builder.WriteString("\n")
	switch {
	case stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Formatting failed"))
	case stats.FilesChanged > stats.FilesWritten:
		builder.WriteString(s.Warning.Render("Some files need formatting"))
	default:
		builder.WriteString(s.Success.Render("All files formatted"))
	}
	builder.WriteString("\n")

	return builder.String()
}
