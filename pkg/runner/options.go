// Package runner canonicalizes Markup files concurrently.
package runner

import (
	"github.com/charmbracelet/log"

	"github.com/yaklabco/markbridge/pkg/config"
	"github.com/yaklabco/markbridge/pkg/fsutil"
)

// Options controls a multi-file run.
type Options struct {
	// Paths are the files or directories to process. Defaults to ".".
	Paths []string

	// WorkingDir resolves relative Paths and glob patterns. Defaults to
	// the process working directory.
	WorkingDir string

	// Extensions lists the lowercase extensions, with leading dot, that
	// are treated as Markup. Defaults to DefaultExtensions().
	Extensions []string

	// IncludeGlobs restricts discovery to matching paths when non-empty.
	IncludeGlobs []string

	// ExcludeGlobs skips matching files and directories.
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs is the number of workers. 0 or negative means runtime.NumCPU().
	Jobs int

	// Write rewrites files whose canonical form differs.
	Write bool

	// Backup configures backups taken before a file is rewritten.
	Backup fsutil.BackupConfig

	// StrictModCheck re-hashes files before writing them.
	StrictModCheck bool

	// Config supplies parser and serializer settings. Nil means defaults.
	Config *config.Config

	Logger *log.Logger
}

// OptionsFromConfig builds run options from a resolved configuration.
func OptionsFromConfig(cfg *config.Config, paths []string) Options {
	opts := Options{Paths: paths, Config: cfg, Backup: fsutil.DefaultBackupConfig()}
	if cfg == nil {
		return opts
	}

	opts.Extensions = cfg.Extensions
	opts.ExcludeGlobs = cfg.Ignore
	opts.Jobs = cfg.Jobs
	opts.Write = cfg.Write && !cfg.Check
	opts.Backup = fsutil.BackupConfig{
		Enabled: cfg.Backups.Enabled && !cfg.NoBackups,
		Mode:    fsutil.BackupMode(cfg.Backups.Mode),
	}
	return opts
}

// DefaultExtensions returns the default set of Markup file extensions.
func DefaultExtensions() []string {
	return []string{".md", ".markdown"}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
