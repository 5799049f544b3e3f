package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/rustgen/internal/configloader"
	"github.com/yaklabco/rustgen/internal/logging"
	"github.com/yaklabco/rustgen/internal/ui/pretty"
	"github.com/yaklabco/rustgen/pkg/fragment"
)

// ErrGenerateFailed is returned when one or more files fail to generate.
var ErrGenerateFailed = errors.New("generation failed")

type genFlags struct {
	jobs        int
	rustfmtPath string
	skipFormat  bool
	dryRun      bool
	summary     bool
}

func newGenCommand() *cobra.Command {
	flags := &genFlags{}

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate the configured Rust source files",
		Long:  genLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGen(cmd, flags)
		},
	}

	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringVar(&flags.rustfmtPath, "rustfmt", "", "path to the rustfmt executable")
	cmd.Flags().BoolVar(&flags.skipFormat, "skip-format", false, "skip the final rustfmt pass")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "generate without writing files")
	cmd.Flags().BoolVar(&flags.summary, "summary", false, "print a summary block instead of one line")

	return cmd
}

const genLongDescription = `Generate every file declared in rustgen.toml.

Each file is assembled from its fragment list, formatted with rustfmt, and
written atomically. Files whose generated content already matches what is
on disk are left untouched. A failing file does not stop the others.

Examples:
  rustgen gen                    # Generate all configured files
  rustgen gen --dry-run          # Assemble and format, but write nothing
  rustgen gen --skip-format      # Replace markers without running rustfmt
  rustgen gen --jobs 2           # Limit generation concurrency`

func runGen(cmd *cobra.Command, flags *genFlags) error {
	logger := logging.Default()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("get config flag: %w", err)
	}

	loaded, err := configloader.Load(ctx, configloader.Options{Explicit: configPath})
	if err != nil {
		return errors.Join(errors.New("failed to load configuration"), err)
	}

	logger.Debug("configuration loaded",
		logging.FieldConfig, loaded.Path,
		logging.FieldFiles, len(loaded.Config.Files),
	)

	cfg := loaded.Config
	if flags.skipFormat {
		cfg.General.RustFmt.SkipFinalFormat = true
	}

	jobs := loaded.Jobs
	if cmd.Flags().Changed("jobs") {
		jobs = flags.jobs
	}

	rustfmtPath := flags.rustfmtPath
	if rustfmtPath == "" {
		// RUSTFMT mirrors cargo's convention for overriding the binary.
		rustfmtPath = os.Getenv("RUSTFMT")
	}

	generator, err := fragment.NewGenerator(cfg, fragment.Default(), fragment.Options{
		Jobs:        jobs,
		RustFmtPath: rustfmtPath,
	})
	if err != nil {
		return errors.Join(errors.New("invalid configuration"), err)
	}

	logger.Debug("starting generation",
		logging.FieldJobs, jobs,
		logging.FieldEdition, cfg.General.RustFmt.Edition,
	)

	var result *fragment.Result
	if flags.dryRun {
		result, err = generator.GenerateStrings(ctx)
	} else {
		result, err = generator.GenerateFiles(ctx)
	}
	if err != nil {
		return errors.Join(errors.New("generation run failed"), err)
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	out := cmd.OutOrStdout()
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, out))

	for _, fileResult := range result.Files {
		fmt.Fprint(out, styles.FormatFileResult(fileResult))
	}

	if flags.summary {
		fmt.Fprint(out, styles.FormatSummary(result.Stats))
	} else {
		fmt.Fprint(out, styles.FormatSummaryOneLine(result.Stats))
	}

	if ExitCodeFromResult(result) != ExitSuccess {
		return ErrGenerateFailed
	}

	return nil
}
