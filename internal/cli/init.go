package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/markbridge/internal/configloader"
	"github.com/yaklabco/markbridge/internal/logging"
	"github.com/yaklabco/markbridge/pkg/config"
)

type initFlags struct {
	force  bool
	full   bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a markbridge configuration file",
		Long: `Create a new .markbridge.yml configuration file in the current directory.
The minimal template lists the common settings as comments; --full writes
every setting with its default value.

Examples:
  markbridge init                       Create minimal .markbridge.yml
  markbridge init --full                Write every setting with its default
  markbridge init --format json         Create .markbridge.json instead
  markbridge init --output custom.yml   Write to a custom file path`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "write every setting with its default value")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "output format: yaml or json")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"output file path (default: .markbridge.yml or .markbridge.json)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewInteractive()

	if flags.format != "yaml" && flags.format != "json" {
		return usageError(fmt.Errorf("invalid format %q: must be yaml or json", flags.format))
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = ".markbridge.yml"
		if flags.format == "json" {
			outputPath = ".markbridge.json"
		}
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Full:   flags.full,
		Format: flags.format,
	})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	written, err := configloader.WriteConfig(cmd.Context(), absPath, content, flags.force)
	if errors.Is(err, fs.ErrExist) {
		return usageError(fmt.Errorf("file %q already exists; use --force to overwrite", outputPath))
	}
	if err != nil {
		return err
	}

	if !written {
		logger.Info("configuration file already up to date", logging.FieldPath, outputPath)
		return nil
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	logger.Info("run 'markbridge fmt --check' to see which files are not canonical")

	return nil
}
