// Package main is the entry point for the rustgen CLI.
//
// Projects with their own fragments build a sibling binary: register
// fragments via fragment.MustRegister in an init function (or blank-import a
// package that does), then call cli.NewRootCommand the same way main does
// here.
package main

import (
	"errors"
	"os"

	"github.com/yaklabco/rustgen/internal/cli"
	"github.com/yaklabco/rustgen/internal/logging"
)

// Build-time variables set by GoReleaser via ldflags.
//
//nolint:gochecknoglobals // Version variables must be package-level for ldflags injection
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	info := cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	rootCmd := cli.NewRootCommand(info)

	if err := rootCmd.Execute(); err != nil {
		// Don't log ErrGenerateFailed - per-file failures were already
		// reported.
		if !errors.Is(err, cli.ErrGenerateFailed) {
			logger := logging.Default()
			logger.Error("command failed", logging.FieldError, err)
		}
		return 1
	}

	return 0
}
