package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/markbridge/internal/logging"
	"github.com/yaklabco/markbridge/pkg/config"
	"github.com/yaklabco/markbridge/pkg/reporter"
	"github.com/yaklabco/markbridge/pkg/runner"
)

type fmtFlags struct {
	diff        bool
	backup      bool
	format      string
	looseBreaks bool
	bullet      string
	emphasis    string
	fence       string
	ignore      []string
	extensions  []string
	verbose     bool
	compact     bool
}

func newFmtCommand() *cobra.Command {
	var cfg config.Config
	flags := &fmtFlags{}

	cmd := &cobra.Command{
		Use:   "fmt [paths...]",
		Short: "Rewrite Markup files in canonical form",
		Long:  fmtLongDescription,
		Args:  usageArgs(cobra.ArbitraryArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(cmd, args, &cfg, flags)
		},
	}

	addFmtFlags(cmd, &cfg, flags)

	return cmd
}

const fmtLongDescription = `Convert Markup files to render trees and back, reporting or rewriting
every file whose canonical form differs from its contents.

By default, checks all .md and .markdown files in the current directory
and subdirectories. Hidden directories are skipped.

Examples:
  markbridge fmt                      # Report files that are not canonical
  markbridge fmt --check              # Same, but exit 1 when any are found
  markbridge fmt --write docs/        # Rewrite files under docs/
  markbridge fmt --diff README.md     # Show what would change
  markbridge fmt --format json        # Machine-readable results`

func runFmt(cmd *cobra.Command, args []string, cfg *config.Config, flags *fmtFlags) error {
	logger := logging.Default()

	if err := applyFmtFlags(cmd, cfg, flags); err != nil {
		return usageError(err)
	}

	finalCfg, workDir, err := loadConfig(cmd, cfg)
	if err != nil {
		return err
	}

	logger.Debug("configuration loaded",
		logging.FieldCheck, finalCfg.Check,
		logging.FieldWrite, finalCfg.Write,
		logging.FieldJobs, finalCfg.Jobs,
		logging.FieldLooseBreaks, finalCfg.LooseBreaksEnabled(),
	)

	runOpts := runner.OptionsFromConfig(finalCfg, args)
	runOpts.WorkingDir = workDir
	runOpts.Logger = logger

	ctx := cmd.Context()
	result, err := runner.New(logger).Run(ctx, runOpts)
	if err != nil {
		return fmt.Errorf("format run failed: %w", err)
	}

	format, err := reporter.ParseFormat(string(finalCfg.Format))
	if err != nil {
		return configError(err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      format,
		Color:       colorMode(cmd),
		ShowSummary: true,
		Verbose:     flags.verbose,
		Compact:     flags.compact,
		Write:       runOpts.Write,
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	pending, err := rep.Report(ctx, result)
	if err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	if result.HasErrors() {
		return errors.Join(ErrFilesFailed, errors.Join(result.Errors()...))
	}
	if finalCfg.Check && pending > 0 {
		return ErrNeedsFormatting
	}

	return nil
}

// applyFmtFlags copies explicitly set flags into cfg so that unset flags
// leave lower configuration layers alone.
func applyFmtFlags(cmd *cobra.Command, cfg *config.Config, flags *fmtFlags) error {
	changed := cmd.Flags().Changed

	if flags.diff {
		if changed("format") && flags.format != string(config.FormatDiff) {
			return fmt.Errorf("--diff conflicts with --format %s", flags.format)
		}
		flags.format = string(config.FormatDiff)
	}
	if flags.diff || changed("format") {
		if _, err := reporter.ParseFormat(flags.format); err != nil {
			return err
		}
		cfg.Format = config.OutputFormat(flags.format)
	}

	if changed("loose-breaks") {
		loose := flags.looseBreaks
		cfg.LooseBreaks = &loose
	}
	if changed("bullet") {
		cfg.Serialize.BulletMarker = flags.bullet
	}
	if changed("emphasis") {
		cfg.Serialize.EmphasisMarker = flags.emphasis
	}
	if changed("fence") {
		cfg.Serialize.FenceChar = flags.fence
	}
	if changed("ignore") {
		cfg.Ignore = flags.ignore
	}
	if changed("ext") {
		cfg.Extensions = flags.extensions
	}
	if changed("backup") {
		cfg.Backups.Enabled = flags.backup
		cfg.NoBackups = cfg.NoBackups || !flags.backup
	}

	if cfg.Check && cfg.Write {
		return errors.New("--check and --write are mutually exclusive")
	}
	return nil
}

func addFmtFlags(cmd *cobra.Command, cfg *config.Config, flags *fmtFlags) {
	cmd.Flags().BoolVar(&cfg.Check, "check", false, "exit with status 1 if any file is not canonical")
	cmd.Flags().BoolVarP(&cfg.Write, "write", "w", false, "rewrite files in place")
	cmd.Flags().BoolVar(&flags.diff, "diff", false, "show changes as unified diffs (same as --format diff)")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, diff, summary")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.extensions, "ext", nil, "file extensions to process (default .md,.markdown)")
	cmd.Flags().BoolVar(&flags.backup, "backup", true, "back up files before rewriting them")
	cmd.Flags().BoolVar(&cfg.NoBackups, "no-backups", false, "disable backup creation when writing")
	cmd.Flags().BoolVar(&flags.looseBreaks, "loose-breaks", true, "treat single newlines as hard breaks")
	cmd.Flags().StringVar(&flags.bullet, "bullet", "-", "bullet list marker: -, * or +")
	cmd.Flags().StringVar(&flags.emphasis, "emphasis", "*", "emphasis marker: * or _")
	cmd.Flags().StringVar(&flags.fence, "fence", "`", "code fence character: ` or ~")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "list unchanged files too")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "minify JSON output")
}
