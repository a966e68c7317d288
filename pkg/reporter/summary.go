package reporter

import (
	"context"
	"fmt"
	"io"

	"github.com/yaklabco/markbridge/internal/ui/pretty"
	"github.com/yaklabco/markbridge/pkg/runner"
)

// SummaryReporter writes a per-file status table followed by totals.
type SummaryReporter struct {
	opts   Options
	styles *pretty.Styles
	table  *pretty.TableFormatter
	out    io.Writer
}

// NewSummaryReporter creates a new summary reporter sized to the terminal.
func NewSummaryReporter(opts Options) *SummaryReporter {
	styles := pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer))
	return &SummaryReporter{
		opts:   opts,
		styles: styles,
		table:  pretty.NewTableFormatter(styles, pretty.TerminalWidth(opts.Writer)),
		out:    opts.Writer,
	}
}

// Report implements Reporter.
func (r *SummaryReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	if result == nil || len(result.Files) == 0 {
		fmt.Fprintln(r.out, r.styles.Success.Render("No files to format"))
		return 0, nil
	}

	rows := make([]pretty.TableRow, 0, len(result.Files))
	for _, outcome := range result.Files {
		if row, ok := r.row(outcome); ok {
			rows = append(rows, row)
		}
	}

	fmt.Fprint(r.out, r.table.FormatTable(rows))
	fmt.Fprint(r.out, r.styles.FormatSummary(result.Stats))
	return pending(result), nil
}

func (r *SummaryReporter) row(outcome runner.FileOutcome) (pretty.TableRow, bool) {
	row := pretty.TableRow{File: r.opts.displayPath(outcome.Path)}

	res := outcome.Result
	switch {
	case outcome.Error != nil:
		row.Status = pretty.StatusError
		row.Detail = outcome.Error.Error()
		return row, true
	case res == nil:
		return row, false
	case res.Skipped:
		row.Status = pretty.StatusSkipped
		row.Detail = res.SkipReason
	case res.Written:
		row.Status = pretty.StatusWritten
	case res.Changed:
		row.Status = pretty.StatusChanged
	default:
		if !r.opts.Verbose {
			return row, false
		}
		row.Status = pretty.StatusUnchanged
	}

	if diff := fileDiff(r.opts, outcome); diff.HasChanges() {
		row.Additions = diff.Additions
		row.Deletions = diff.Deletions
	}
	return row, true
}
