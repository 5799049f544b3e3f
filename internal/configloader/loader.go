// Package configloader discovers and loads rustgen configuration files.
//
// Resolution order: an explicit --config path wins; otherwise the loader
// searches upward from the working directory for rustgen.toml, stopping at
// VCS roots, the home directory, or the filesystem root. Environment
// variables prefixed with RUSTGEN_ override individual settings afterwards.
package configloader

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/yaklabco/rustgen/pkg/config"
)

// ErrConfigNotFound is returned when no configuration file can be located.
var ErrConfigNotFound = errors.New("no rustgen.toml found")

// Options controls configuration loading.
type Options struct {
	// Explicit is a config path provided via --config. When set, discovery
	// is skipped and the file must exist.
	Explicit string

	// WorkDir is the directory to start discovery from. Empty means the
	// current working directory.
	WorkDir string
}

// Loaded is the result of loading a configuration file.
type Loaded struct {
	// Config is the parsed configuration.
	Config *config.Config

	// Path is the file the configuration was loaded from.
	Path string

	// Jobs is the worker count override from RUSTGEN_JOBS (0 = auto).
	Jobs int
}

// Load locates, parses, and applies environment overrides to a configuration.
func Load(ctx context.Context, opts Options) (*Loaded, error) {
	path, err := resolvePath(ctx, opts)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", path, err)
	}

	loaded := &Loaded{
		Config: cfg,
		Path:   path,
	}

	if err := applyEnv(loaded); err != nil {
		return nil, err
	}

	return loaded, nil
}

// resolvePath determines which config file to load.
func resolvePath(ctx context.Context, opts Options) (string, error) {
	if opts.Explicit != "" {
		if _, err := os.Stat(opts.Explicit); err != nil {
			return "", fmt.Errorf("config file %q: %w", opts.Explicit, err)
		}
		return opts.Explicit, nil
	}

	path, err := FindProjectConfig(ctx, opts.WorkDir)
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", fmt.Errorf("%w: searched upward from %q", ErrConfigNotFound, startDirLabel(opts.WorkDir))
	}
	return path, nil
}

func startDirLabel(workDir string) string {
	if workDir != "" {
		return workDir
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}
