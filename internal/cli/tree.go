package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/markbridge/internal/ui/pretty"
	"github.com/yaklabco/markbridge/pkg/convert"
	"github.com/yaklabco/markbridge/pkg/langdetect"
	"github.com/yaklabco/markbridge/pkg/rtree"
)

type treeFlags struct {
	looseBreaks bool
	json        bool
	langs       bool
}

func newTreeCommand() *cobra.Command {
	flags := &treeFlags{}

	cmd := &cobra.Command{
		Use:   "tree [file|-]",
		Short: "Print the render tree of a Markup document",
		Long: `Parse Markup and print the resulting render tree, one node per line.
Reads standard input when no file is given or the file is "-".

Examples:
  markbridge tree README.md
  markbridge tree --langs notes.md    # Guess languages of unlabeled code
  markbridge tree --json - < doc.md`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(cmd, args, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.looseBreaks, "loose-breaks", true, "treat single newlines as hard breaks")
	cmd.Flags().BoolVar(&flags.json, "json", false, "print the tree as JSON")
	cmd.Flags().BoolVar(&flags.langs, "langs", false, "annotate unlabeled code blocks with a guessed language")

	return cmd
}

func runTree(cmd *cobra.Command, args []string, flags *treeFlags) error {
	cfg, _, err := loadConfig(cmd, parseFlagConfig(cmd, flags.looseBreaks))
	if err != nil {
		return err
	}

	src, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	root := convert.NewConverter(cfg.ParseOptions(), cfg.SerializeOptions()).ToRenderable(src)
	out := cmd.OutOrStdout()

	if flags.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rtree.Export(root)); err != nil {
			return fmt.Errorf("encode tree: %w", err)
		}
		return nil
	}

	var opts pretty.TreeOptions
	if flags.langs {
		guesses := make(map[*rtree.Node]string)
		for _, guess := range langdetect.Unlabeled(root) {
			guesses[guess.Node] = guess.Language
		}
		opts.Annotate = func(n *rtree.Node) string {
			if lang, ok := guesses[n]; ok {
				return "looks like " + lang
			}
			return ""
		}
	}

	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode(cmd), out))
	if _, err := fmt.Fprint(out, styles.FormatTree(root, opts)); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
