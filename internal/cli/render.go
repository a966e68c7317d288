package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/markbridge/pkg/convert"
)

func newRenderCommand() *cobra.Command {
	var looseBreaks bool

	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Render Markup as sanitized HTML",
		Long: `Parse Markup, strip anything unsafe for display, and print the result
as HTML. Reads standard input when no file is given or the file is "-".

Script-like elements are removed with their content kept as text, and links
or images with unsafe targets lose the target.

Examples:
  markbridge render README.md
  echo '*hi*' | markbridge render`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd, parseFlagConfig(cmd, looseBreaks))
			if err != nil {
				return err
			}

			src, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			conv := convert.NewConverter(cfg.ParseOptions(), cfg.SerializeOptions())
			html := conv.RenderHTML(src)
			if html != "" && !strings.HasSuffix(html, "\n") {
				html += "\n"
			}

			if _, err := fmt.Fprint(cmd.OutOrStdout(), html); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&looseBreaks, "loose-breaks", true, "treat single newlines as hard breaks")

	return cmd
}
