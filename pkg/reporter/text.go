package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/markbridge/internal/ui/pretty"
	"github.com/yaklabco/markbridge/pkg/runner"
)

// TextReporter writes one line per changed, skipped or failed file.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to format."))
		}
		return 0, nil
	}

	for _, outcome := range result.Files {
		path := r.styles.FilePath.Render(r.opts.displayPath(outcome.Path))

		switch {
		case outcome.Error != nil:
			fmt.Fprintf(r.bw, "%s: %s\n", path, r.styles.Error.Render(fmt.Sprintf("error: %v", outcome.Error)))
		case outcome.Result == nil:
			continue
		case outcome.Result.Skipped:
			fmt.Fprintf(r.bw, "%s: %s\n", path, r.styles.Skipped.Render(outcome.Result.Summary()))
		case outcome.Result.Written:
			fmt.Fprintf(r.bw, "%s: %s\n", path, r.styles.Success.Render(outcome.Result.Summary()))
		case outcome.Result.Changed:
			fmt.Fprintf(r.bw, "%s: %s\n", path, r.styles.Changed.Render(outcome.Result.Summary()))
		case r.opts.Verbose:
			fmt.Fprintf(r.bw, "%s: %s\n", path, r.styles.Unchanged.Render(outcome.Result.Summary()))
		}
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats, r.opts.Write))
	}

	return pending(result), nil
}
