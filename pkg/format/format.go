// Package format runs generated Rust source through a formatter and then
// through the marker post-processor. Formatting itself is delegated to the
// external rustfmt binary; this package only assembles its invocation and
// applies marker replacement to the output.
package format

import (
	"context"
	"fmt"

	"github.com/yaklabco/rustgen/pkg/fsutil"
	"github.com/yaklabco/rustgen/pkg/postproc"
)

// Edition selects the Rust edition passed to rustfmt.
type Edition string

// Supported editions.
const (
	Edition2015 Edition = "2015"
	Edition2018 Edition = "2018"
	Edition2021 Edition = "2021"

	// DefaultEdition is used when no edition is configured.
	DefaultEdition = Edition2021
)

// Valid reports whether the edition is one rustfmt accepts.
func (e Edition) Valid() bool {
	switch e {
	case Edition2015, Edition2018, Edition2021:
		return true
	default:
		return false
	}
}

// PostProcess selects which marker replacement runs on formatter output.
type PostProcess int

const (
	// PostProcessNone leaves markers in place.
	PostProcessNone PostProcess = iota

	// PostProcessMarkers replaces blank and comment markers.
	PostProcessMarkers

	// PostProcessMarkersAndDocBlocks additionally replaces doc blocks.
	PostProcessMarkersAndDocBlocks
)

// apply runs the selected marker replacement over formatted source.
func (p PostProcess) apply(source string) (string, error) {
	switch p {
	case PostProcessNone:
		return source, nil
	case PostProcessMarkers, PostProcessMarkersAndDocBlocks:
		res, err := postproc.Replace(source, p == PostProcessMarkersAndDocBlocks)
		if err != nil {
			return "", err
		}
		return res.Text, nil
	default:
		return "", fmt.Errorf("unknown post-process mode %d", int(p))
	}
}

// Formatter formats Rust source. Implementations apply their configured
// marker post-processing to everything they return.
type Formatter interface {
	// Format formats source and returns the result.
	Format(ctx context.Context, source string) (string, error)

	// FormatFile formats the file at path in place.
	FormatFile(ctx context.Context, path string) error
}

// formatFile is the shared read/format/write-back loop. The write is atomic
// and skipped when formatting changed nothing.
func formatFile(ctx context.Context, f Formatter, path string) error {
	source, err := fsutil.ReadFileString(path)
	if err != nil {
		return err
	}

	formatted, err := f.Format(ctx, source)
	if err != nil {
		return fmt.Errorf("format %s: %w", path, err)
	}

	if _, err := fsutil.WriteAtomicIfChanged(ctx, path, []byte(formatted), 0); err != nil {
		return err
	}
	return nil
}

// MarkerOnly is a Formatter that skips formatting entirely and applies only
// marker post-processing. It serves configurations that disable the final
// rustfmt pass, and tests that must not depend on an installed rustfmt.
type MarkerOnly struct {
	post PostProcess
}

// NewMarkerOnly returns a MarkerOnly formatter with the given post-process
// mode.
func NewMarkerOnly(post PostProcess) *MarkerOnly {
	return &MarkerOnly{post: post}
}

// Format implements Formatter.
func (m *MarkerOnly) Format(_ context.Context, source string) (string, error) {
	return m.post.apply(source)
}

// FormatFile implements Formatter.
func (m *MarkerOnly) FormatFile(ctx context.Context, path string) error {
	return formatFile(ctx, m, path)
}
