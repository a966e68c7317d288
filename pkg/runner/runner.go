package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/markbridge/internal/logging"
	"github.com/yaklabco/markbridge/pkg/convert"
)

// Runner canonicalizes discovered files with a bounded worker pool.
type Runner struct {
	logger *log.Logger
}

// New creates a runner. A nil logger means the default logger.
func New(logger *log.Logger) *Runner {
	if logger == nil {
		logger = logging.Default()
	}
	return &Runner{logger: logger}
}

// Run discovers files under opts.Paths and processes them concurrently.
// Outcomes are returned in path order regardless of completion order. A
// per-file failure is recorded in its outcome; Run itself fails only on
// discovery errors and cancellation.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)
	r.logger.Debug("discovered files", logging.FieldFilesDiscovered, len(files))
	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	conv := convert.NewConverter(opts.Config.ParseOptions(), opts.Config.SerializeOptions())

	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, conv, opts, workCh, outCh)
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}
	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	r.logger.Debug("run finished",
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesChanged, result.Stats.FilesChanged,
		logging.FieldFilesWritten, result.Stats.FilesWritten,
		logging.FieldFilesFailed, result.Stats.FilesErrored,
	)

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}
	return result, nil
}

func (r *Runner) worker(
	ctx context.Context,
	conv *convert.Converter,
	opts Options,
	workCh <-chan string,
	outCh chan<- FileOutcome,
) {
	for path := range workCh {
		if ctx.Err() != nil {
			return
		}

		fileCtx := logging.WithFields(logging.WithLogger(ctx, r.logger), logging.FieldPath, path)
		outcome := FileOutcome{Path: path}
		outcome.Result, outcome.Error = ProcessFile(fileCtx, conv, path, opts)
		if outcome.Error != nil {
			logging.FromContext(fileCtx).Debug("file failed", logging.FieldError, outcome.Error)
		}

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}
