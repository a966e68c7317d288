package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/markbridge/internal/ui/pretty"
	"github.com/yaklabco/markbridge/pkg/runner"
)

func TestFormatSummaryOneLine(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	tests := []struct {
		name  string
		stats runner.Stats
		write bool
		want  string
	}{
		{
			name:  "clean",
			stats: runner.Stats{FilesProcessed: 3},
			want:  "All files formatted (3 checked)\n",
		},
		{
			name:  "check finds changes",
			stats: runner.Stats{FilesProcessed: 12, FilesChanged: 2},
			want:  "2 of 12 files need formatting\n",
		},
		{
			name:  "write",
			stats: runner.Stats{FilesProcessed: 4, FilesChanged: 1, FilesWritten: 1},
			write: true,
			want:  "formatted 1 file (4 checked)\n",
		},
		{
			name:  "skips and errors",
			stats: runner.Stats{FilesProcessed: 1, FilesSkipped: 1, FilesErrored: 2},
			want:  "All files formatted (1 checked), 1 skipped, 2 errors\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, styles.FormatSummaryOneLine(tt.stats, tt.write))
		})
	}
}

func TestFormatSummary(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	got := styles.FormatSummary(runner.Stats{FilesProcessed: 10, FilesChanged: 3})
	assert.Contains(t, got, "Summary")
	assert.Contains(t, got, "Files checked:      10")
	assert.Contains(t, got, "Not canonical:      3")
	assert.Contains(t, got, "Some files need formatting")
	assert.NotContains(t, got, "Errors:")

	got = styles.FormatSummary(runner.Stats{FilesProcessed: 2, FilesChanged: 2, FilesWritten: 2, BackupsCreated: 2})
	assert.Contains(t, got, "Backups created:")
	assert.Contains(t, got, "All files formatted")

	got = styles.FormatSummary(runner.Stats{FilesProcessed: 1, FilesErrored: 1})
	assert.Contains(t, got, "Formatting failed")
}
