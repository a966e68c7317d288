// Package reporter writes the results of a formatting run.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/markbridge/pkg/runner"
	"github.com/yaklabco/markbridge/pkg/textdiff"
)

// Reporter formats and writes run results.
type Reporter interface {
	// Report writes formatted output for result and returns the number of
	// files that are not in canonical form.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// New creates a Reporter for the specified options.
//
//nolint:ireturn // the concrete reporter depends on the format
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}

	switch format {
	case FormatText:
		return NewTextReporter(opts), nil
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatDiff:
		return NewDiffReporter(opts), nil
	case FormatSummary:
		return NewSummaryReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// fileDiff returns the diff between a file and its canonical form, or nil.
func fileDiff(opts Options, outcome runner.FileOutcome) *textdiff.Diff {
	if outcome.Result == nil || !outcome.Result.Changed {
		return nil
	}
	return textdiff.Compute(opts.displayPath(outcome.Path), outcome.Result.Original, outcome.Result.Canonical)
}

// pending counts files that are still not canonical on disk.
func pending(result *runner.Result) int {
	if result == nil {
		return 0
	}
	n := 0
	for _, outcome := range result.Files {
		if outcome.Result != nil && outcome.Result.Changed && !outcome.Result.Written {
			n++
		}
	}
	return n
}
