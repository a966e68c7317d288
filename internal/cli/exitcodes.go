package cli

import (
	"errors"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/yaklabco/markbridge/pkg/fsutil"
	"github.com/yaklabco/markbridge/pkg/runner"
)

// Exit codes for markbridge.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitNeedsFormatting indicates a check found files that are not canonical.
	ExitNeedsFormatting = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

var (
	// ErrNeedsFormatting is returned by fmt --check when files are not canonical.
	ErrNeedsFormatting = errors.New("files need formatting")

	// ErrFilesFailed is returned when one or more files could not be processed.
	ErrFilesFailed = errors.New("some files could not be processed")
)

// exitError attaches an exit code to an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func usageError(err error) error {
	return &exitError{code: ExitInvalidUsage, err: err}
}

func configError(err error) error {
	return &exitError{code: ExitConfigError, err: err}
}

// ExitCodeFromResult determines the exit code of a fmt run.
func ExitCodeFromResult(result *runner.Result, check bool) int {
	switch {
	case result == nil:
		return ExitSuccess
	case result.HasErrors():
		return ExitIOError
	case check && result.HasChanges():
		return ExitNeedsFormatting
	default:
		return ExitSuccess
	}
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var coded *exitError
	switch {
	case errors.As(err, &coded):
		return coded.code
	case errors.Is(err, ErrNeedsFormatting):
		return ExitNeedsFormatting
	case errors.Is(err, ErrFilesFailed),
		errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fs.ErrPermission):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

// usageArgs reports argument validation failures as usage errors.
func usageArgs(validate func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}
