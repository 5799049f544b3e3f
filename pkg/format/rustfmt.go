package format

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strings"
)

// DefaultRustFmtPath is the executable name used when the caller supplies no
// explicit path. Resolution against PATH is left to the OS.
const DefaultRustFmtPath = "rustfmt"

// RustFmtOptions configures a RustFmt formatter. The zero value is usable:
// default executable, default edition, no config options, no
// post-processing.
type RustFmtOptions struct {
	// Path is the rustfmt executable to run. Empty means
	// DefaultRustFmtPath. Environment-based overrides are resolved by the
	// caller, not here.
	Path string

	// Edition is passed as --edition. Empty means DefaultEdition.
	Edition Edition

	// Config holds key=value pairs passed via a single --config flag.
	Config map[string]string

	// PostProcess selects marker replacement applied to rustfmt output.
	PostProcess PostProcess
}

// RustFmt formats source by piping it through the rustfmt executable.
type RustFmt struct {
	path string
	args []string
	post PostProcess
}

// NewRustFmt builds a RustFmt from options. The argument list is assembled
// once, with config keys sorted so repeated runs spawn identical commands.
func NewRustFmt(opts RustFmtOptions) (*RustFmt, error) {
	path := opts.Path
	if path == "" {
		path = DefaultRustFmtPath
	}

	edition := opts.Edition
	if edition == "" {
		edition = DefaultEdition
	}
	if !edition.Valid() {
		return nil, fmt.Errorf("unsupported edition %q", string(edition))
	}

	args := []string{"--edition", string(edition)}
	if cfg := buildConfigArg(opts.Config); cfg != "" {
		args = append(args, "--config", cfg)
	}

	return &RustFmt{path: path, args: args, post: opts.PostProcess}, nil
}

// buildConfigArg renders the map as the comma-separated k=v list rustfmt
// expects on --config.
func buildConfigArg(config map[string]string) string {
	if len(config) == 0 {
		return ""
	}

	keys := make([]string, 0, len(config))
	for k := range config {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+config[k])
	}
	return strings.Join(pairs, ",")
}

// Format implements Formatter. Source is fed over stdin and the formatted
// result read from stdout; a non-zero exit surfaces rustfmt's stderr, which
// is where it reports syntax errors in the generated code.
func (r *RustFmt) Format(ctx context.Context, source string) (string, error) {
	cmd := exec.CommandContext(ctx, r.path, r.args...)
	cmd.Stdin = strings.NewReader(source)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("rustfmt: %w: %s", err, msg)
		}
		return "", fmt.Errorf("rustfmt: %w", err)
	}

	return r.post.apply(stdout.String())
}

// FormatFile implements Formatter.
func (r *RustFmt) FormatFile(ctx context.Context, path string) error {
	return formatFile(ctx, r, path)
}
