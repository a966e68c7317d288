// Package cli provides the Cobra command structure for markbridge.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/markbridge/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root markbridge command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "markbridge",
		Short: "Convert Markup to render trees and back",
		Long: `markbridge converts lightweight Markup into render trees and writes
trees back as canonical Markup.

Converting a file to a tree and back rewrites it in the one form markbridge
writes: ATX headings, a single bullet marker, blank lines around lists, and
alignment carried by HTML wrappers. Use fmt to check or rewrite files in that
form, render to produce sanitized HTML, and tree to inspect what the parser
sees.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	rootCmd.AddCommand(newFmtCommand())
	rootCmd.AddCommand(newRenderCommand())
	rootCmd.AddCommand(newTreeCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	NewHelpFormatter(color, os.Stdout).ApplyToCommand(rootCmd)

	return rootCmd
}
