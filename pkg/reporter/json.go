package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/markbridge/pkg/runner"
)

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's result.
type JSONFileResult struct {
	Path          string `json:"path"`
	Status        string `json:"status"`
	Changed       bool   `json:"changed"`
	Written       bool   `json:"written,omitempty"`
	BackupCreated bool   `json:"backupCreated,omitempty"`
	Additions     int    `json:"additions,omitempty"`
	Deletions     int    `json:"deletions,omitempty"`
	Diff          string `json:"diff,omitempty"`
	Error         string `json:"error,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesChecked int `json:"filesChecked"`
	FilesChanged int `json:"filesChanged"`
	FilesWritten int `json:"filesWritten"`
	FilesSkipped int `json:"filesSkipped"`
	FilesErrored int `json:"filesErrored"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(r.buildOutput(result)); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}
	return pending(result), nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{Version: "1.0.0", Files: []JSONFileResult{}}
	if result == nil {
		return output
	}

	for _, outcome := range result.Files {
		file := JSONFileResult{Path: r.opts.displayPath(outcome.Path), Status: "error"}
		if outcome.Error != nil {
			file.Error = outcome.Error.Error()
		}
		if res := outcome.Result; res != nil {
			file.Status = res.Summary()
			file.Changed = res.Changed
			file.Written = res.Written
			file.BackupCreated = res.BackupCreated
		}
		if diff := fileDiff(r.opts, outcome); diff.HasChanges() {
			file.Additions = diff.Additions
			file.Deletions = diff.Deletions
			file.Diff = diff.String()
		}
		output.Files = append(output.Files, file)
	}

	output.Summary = JSONSummary{
		FilesChecked: result.Stats.FilesProcessed,
		FilesChanged: result.Stats.FilesChanged,
		FilesWritten: result.Stats.FilesWritten,
		FilesSkipped: result.Stats.FilesSkipped,
		FilesErrored: result.Stats.FilesErrored,
	}
	return output
}
