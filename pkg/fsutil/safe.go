package fsutil

import (
	"context"
	"fmt"
)

// SafeWriteOptions controls SafeWrite.
type SafeWriteOptions struct {
	Backup BackupConfig

	// StrictModCheck re-hashes the file before writing instead of only
	// comparing modification time and size.
	StrictModCheck bool
}

// SafeWriteResult describes what SafeWrite did.
type SafeWriteResult struct {
	Written       bool
	BackupCreated bool
}

// SafeWrite replaces the file described by info with content. It refuses
// with ErrModified when the file changed since info was taken, then backs
// the file up if configured and writes atomically with the original mode.
func SafeWrite(ctx context.Context, info *FileInfo, content []byte, opts SafeWriteOptions) (SafeWriteResult, error) {
	var result SafeWriteResult

	modified, err := CheckModified(ctx, info, opts.StrictModCheck)
	if err != nil {
		return result, err
	}
	if modified {
		return result, fmt.Errorf("%w: %s", ErrModified, info.Path)
	}

	result.BackupCreated, err = CreateBackup(ctx, info.Path, opts.Backup)
	if err != nil {
		return result, err
	}

	if err := WriteAtomic(ctx, info.Path, content, info.Mode.Perm()); err != nil {
		return result, err
	}
	result.Written = true
	return result, nil
}
