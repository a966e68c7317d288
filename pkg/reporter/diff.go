package reporter

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/yaklabco/markbridge/internal/ui/pretty"
	"github.com/yaklabco/markbridge/pkg/runner"
	"github.com/yaklabco/markbridge/pkg/textdiff"
)

// DiffReporter writes git-style unified diffs from each file to its
// canonical form.
type DiffReporter struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewDiffReporter creates a new diff reporter.
func NewDiffReporter(opts Options) *DiffReporter {
	return &DiffReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		out:    opts.Writer,
	}
}

// Report implements Reporter.
func (r *DiffReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	if result == nil {
		return 0, nil
	}

	var files, additions, deletions int
	for _, outcome := range result.Files {
		if outcome.Error != nil {
			fmt.Fprintf(r.out, "%s: %s\n",
				r.styles.FilePath.Render(r.opts.displayPath(outcome.Path)),
				r.styles.Error.Render(fmt.Sprintf("error: %v", outcome.Error)),
			)
			continue
		}

		diff := fileDiff(r.opts, outcome)
		if !diff.HasChanges() {
			continue
		}
		files++
		additions += diff.Additions
		deletions += diff.Deletions
		r.writeDiff(diff)
	}

	if files > 0 && r.opts.ShowSummary {
		r.writeSummary(files, additions, deletions)
	}
	return pending(result), nil
}

func (r *DiffReporter) writeDiff(diff *textdiff.Diff) {
	fmt.Fprintln(r.out, r.styles.DiffHeader.Render(diff.GitHeader()))
	for line := range strings.SplitSeq(strings.TrimSuffix(diff.String(), "\n"), "\n") {
		fmt.Fprintln(r.out, r.styleLine(line))
	}
	fmt.Fprintln(r.out)
}

func (r *DiffReporter) styleLine(line string) string {
	switch {
	case strings.HasPrefix(line, "@@"):
		return r.styles.DiffHunk.Render(line)
	case strings.HasPrefix(line, "+"):
		return r.styles.DiffAdd.Render(line)
	case strings.HasPrefix(line, "-"):
		return r.styles.DiffRemove.Render(line)
	default:
		return r.styles.DiffContext.Render(line)
	}
}

// writeSummary writes a git-style "N files changed" line.
func (r *DiffReporter) writeSummary(files, additions, deletions int) {
	parts := []string{fmt.Sprintf("%d %s changed", files, plural(files, "file", "files"))}
	if additions > 0 {
		parts = append(parts, r.styles.DiffAdd.Render(
			fmt.Sprintf("%d %s(+)", additions, plural(additions, "insertion", "insertions"))))
	}
	if deletions > 0 {
		parts = append(parts, r.styles.DiffRemove.Render(
			fmt.Sprintf("%d %s(-)", deletions, plural(deletions, "deletion", "deletions"))))
	}
	fmt.Fprintln(r.out, strings.Join(parts, ", "))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
