package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaklabco/markbridge/internal/logging"
	"github.com/yaklabco/markbridge/pkg/convert"
	"github.com/yaklabco/markbridge/pkg/fsutil"
)

// FileResult describes what happened to one file.
type FileResult struct {
	// Original is the content read from disk.
	Original string

	// Canonical is the content after conversion.
	Canonical string

	// Changed is true when Canonical differs from Original.
	Changed bool

	// Written is true when the file was rewritten.
	Written bool

	// BackupCreated is true when a backup was taken before writing.
	BackupCreated bool

	// Skipped is true when the file changed on disk before it could be
	// written.
	Skipped    bool
	SkipReason string
}

// Summary returns a short human-readable description of the outcome.
func (r *FileResult) Summary() string {
	switch {
	case r == nil:
		return "error"
	case r.Skipped:
		return "skipped: " + r.SkipReason
	case r.Written && r.BackupCreated:
		return "formatted (backup created)"
	case r.Written:
		return "formatted"
	case r.Changed:
		return "needs formatting"
	default:
		return "unchanged"
	}
}

// ProcessFile canonicalizes one file with conv and, when opts.Write is
// set, writes the result back:
//  1. Read the file and snapshot its metadata.
//  2. Parse and re-serialize the content.
//  3. Stop if nothing changed or writing is off.
//  4. Skip the file if it changed on disk since step 1.
//  5. Back it up if configured and write atomically.
func ProcessFile(ctx context.Context, conv *convert.Converter, path string, opts Options) (*FileResult, error) {
	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	original := string(content)
	canonical := conv.Canonicalize(original)
	result := &FileResult{
		Original:  original,
		Canonical: canonical,
		Changed:   canonical != original,
	}
	if !result.Changed || !opts.Write {
		return result, nil
	}

	written, err := fsutil.SafeWrite(ctx, info, []byte(canonical), fsutil.SafeWriteOptions{
		Backup:         opts.Backup,
		StrictModCheck: opts.StrictModCheck,
	})
	if errors.Is(err, fsutil.ErrModified) {
		result.Skipped = true
		result.SkipReason = "file modified during processing"
		logging.FromContext(ctx).Warn("skipped write", "reason", result.SkipReason)
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}
	logging.FromContext(ctx).Debug("file written", logging.FieldBytes, len(canonical))

	result.Written = written.Written
	result.BackupCreated = written.BackupCreated
	return result, nil
}
