// Package cli provides the Cobra command structure for rustgen.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/rustgen/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root rustgen command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "rustgen",
		Short: "A fragment-based Rust source code generator",
		Long: `rustgen composes Rust source files from reusable code fragments.

Fragments contribute use statements, top-level attributes, and item bodies;
rustgen merges the use statements, interpolates configured vars, assembles
the pieces with blank-line and comment markers, and runs the result through
rustfmt. Marker replacement understands Rust strings and comments, so
generated text is never rewritten inside a literal.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	// Add subcommands.
	rootCmd.AddCommand(newGenCommand())
	rootCmd.AddCommand(newFmtCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
