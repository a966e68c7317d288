package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/markbridge/pkg/config"
	"github.com/yaklabco/markbridge/pkg/fsutil"
)

// stdinName is the argument that selects standard input.
const stdinName = "-"

// readInput returns the Markup named by args: a single file path, or
// standard input when args is empty or "-".
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == stdinName {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(content), nil
	}

	content, _, err := fsutil.ReadFile(cmd.Context(), args[0])
	if err != nil {
		return "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return string(content), nil
}

// parseFlagConfig captures the parser flags shared by render and tree.
func parseFlagConfig(cmd *cobra.Command, looseBreaks bool) *config.Config {
	cfg := &config.Config{}
	if cmd.Flags().Changed("loose-breaks") {
		cfg.LooseBreaks = &looseBreaks
	}
	return cfg
}
