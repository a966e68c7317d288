package runner

// FileOutcome pairs a discovered path with its result or error.
type FileOutcome struct {
	Path string

	// Result is nil when Error is set.
	Result *FileResult
	Error  error
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int
	FilesChanged    int
	FilesWritten    int
	FilesSkipped    int
	FilesErrored    int
	BackupsCreated  int
}

// Result is the overall runner result.
type Result struct {
	// Files holds one outcome per discovered file, in path order.
	Files []FileOutcome
	Stats Stats
}

// HasChanges reports whether any file is not in canonical form.
func (r *Result) HasChanges() bool {
	return r != nil && r.Stats.FilesChanged > 0
}

// HasErrors reports whether any file failed to process.
func (r *Result) HasErrors() bool {
	return r != nil && r.Stats.FilesErrored > 0
}

// Errors returns the per-file errors in path order.
func (r *Result) Errors() []error {
	if r == nil {
		return nil
	}
	var errs []error
	for _, outcome := range r.Files {
		if outcome.Error != nil {
			errs = append(errs, outcome.Error)
		}
	}
	return errs
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}
	if outcome.Result == nil {
		return
	}

	r.Stats.FilesProcessed++
	if outcome.Result.Changed {
		r.Stats.FilesChanged++
	}
	if outcome.Result.Written {
		r.Stats.FilesWritten++
	}
	if outcome.Result.Skipped {
		r.Stats.FilesSkipped++
	}
	if outcome.Result.BackupCreated {
		r.Stats.BackupsCreated++
	}
}
