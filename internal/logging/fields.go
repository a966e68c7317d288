// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldFormat     = "format"

	// Run fields.
	FieldCheck       = "check"
	FieldWrite       = "write"
	FieldJobs        = "jobs"
	FieldLooseBreaks = "loose_breaks"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesProcessed  = "files_processed"
	FieldFilesChanged    = "files_changed"
	FieldFilesWritten    = "files_written"
	FieldFilesFailed     = "files_failed"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"

	// Editor fields.
	FieldBinding  = "binding"
	FieldMode     = "mode"
	FieldDebounce = "debounce"
	FieldBytes    = "bytes"
	FieldTarget   = "target"
)
