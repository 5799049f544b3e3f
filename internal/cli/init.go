package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/rustgen/internal/logging"
	"github.com/yaklabco/rustgen/pkg/config"
	"github.com/yaklabco/rustgen/pkg/fsutil"
)

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new rustgen configuration file",
		Long: `Create a new rustgen.toml configuration file in the current directory
with a commented starter layout. Edit it to declare your generated files,
fragment lists, and vars.

Examples:
  rustgen init                        Create rustgen.toml
  rustgen init --output tools/gen.toml  Write to a custom file path`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runInit(flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path (default: rustgen.toml)")

	return cmd
}

func runInit(flags *initFlags) error {
	logger := logging.NewInteractive()

	outputPath := flags.output
	if outputPath == "" {
		outputPath = config.DefaultFileName
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return fmt.Errorf("file %q already exists; use --force to overwrite", outputPath)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	}

	if err := os.WriteFile(absPath, []byte(config.Template()), fsutil.DefaultFileMode); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	logger.Info("register fragments in your generator binary, then run 'rustgen gen'")

	return nil
}
