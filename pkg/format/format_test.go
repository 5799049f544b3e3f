package format_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rustgen/pkg/format"
)

// writeStub creates a fake rustfmt executable that records its arguments
// and responds with the given script body.
func writeStub(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "rustfmt-stub")
	script := "#!/bin/sh\n" + body
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	return path
}

func TestMarkerOnly(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("replaces markers", func(t *testing.T) {
		t.Parallel()

		f := format.NewMarkerOnly(format.PostProcessMarkers)
		got, err := f.Format(ctx, "_blank_!(2);\nfn main() {}\n")
		require.NoError(t, err)
		assert.Equal(t, "\n\nfn main() {}\n", got)
	})

	t.Run("doc blocks stay without opt-in", func(t *testing.T) {
		t.Parallel()

		f := format.NewMarkerOnly(format.PostProcessMarkers)
		source := "#[doc = \"kept\"]\nfn main() {}\n"
		got, err := f.Format(ctx, source)
		require.NoError(t, err)
		assert.Equal(t, source, got)
	})

	t.Run("doc blocks replaced when opted in", func(t *testing.T) {
		t.Parallel()

		f := format.NewMarkerOnly(format.PostProcessMarkersAndDocBlocks)
		got, err := f.Format(ctx, "#[doc = \"docs\"]\nfn main() {}\n")
		require.NoError(t, err)
		assert.Equal(t, "///docs\nfn main() {}\n", got)
	})

	t.Run("none passes through", func(t *testing.T) {
		t.Parallel()

		f := format.NewMarkerOnly(format.PostProcessNone)
		source := "_blank_!(2);\n"
		got, err := f.Format(ctx, source)
		require.NoError(t, err)
		assert.Equal(t, source, got)
	})

	t.Run("format file writes back", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "gen.rs")
		require.NoError(t, os.WriteFile(path, []byte("_blank_!();\nfn f() {}\n"), 0644))

		f := format.NewMarkerOnly(format.PostProcessMarkers)
		require.NoError(t, f.FormatFile(ctx, path))

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "\nfn f() {}\n", string(got))
	})
}

func TestRustFmt(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("pipes source through the executable", func(t *testing.T) {
		t.Parallel()

		stub := writeStub(t, "cat\n")
		f, err := format.NewRustFmt(format.RustFmtOptions{Path: stub})
		require.NoError(t, err)

		got, err := f.Format(ctx, "fn main() {}\n")
		require.NoError(t, err)
		assert.Equal(t, "fn main() {}\n", got)
	})

	t.Run("passes edition and sorted config", func(t *testing.T) {
		t.Parallel()

		argsFile := filepath.Join(t.TempDir(), "args")
		stub := writeStub(t, fmt.Sprintf("echo \"$@\" > %s\ncat\n", argsFile))

		f, err := format.NewRustFmt(format.RustFmtOptions{
			Path:    stub,
			Edition: format.Edition2018,
			Config:  map[string]string{"normalize_comments": "true", "hard_tabs": "false"},
		})
		require.NoError(t, err)

		_, err = f.Format(ctx, "fn main() {}\n")
		require.NoError(t, err)

		args, err := os.ReadFile(argsFile)
		require.NoError(t, err)
		assert.Equal(t, "--edition 2018 --config hard_tabs=false,normalize_comments=true\n", string(args))
	})

	t.Run("post-processes formatter output", func(t *testing.T) {
		t.Parallel()

		stub := writeStub(t, "cat\n")
		f, err := format.NewRustFmt(format.RustFmtOptions{
			Path:        stub,
			PostProcess: format.PostProcessMarkers,
		})
		require.NoError(t, err)

		got, err := f.Format(ctx, "_comment_!(\"generated\");\nfn main() {}\n")
		require.NoError(t, err)
		assert.Equal(t, "// generated\nfn main() {}\n", got)
	})

	t.Run("surfaces stderr on failure", func(t *testing.T) {
		t.Parallel()

		stub := writeStub(t, "echo 'expected item, found junk' >&2\nexit 1\n")
		f, err := format.NewRustFmt(format.RustFmtOptions{Path: stub})
		require.NoError(t, err)

		_, err = f.Format(ctx, "junk\n")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected item, found junk")
	})

	t.Run("rejects unknown edition", func(t *testing.T) {
		t.Parallel()

		_, err := format.NewRustFmt(format.RustFmtOptions{Edition: format.Edition("2024")})
		require.Error(t, err)
	})

	t.Run("format file round-trips", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "gen.rs")
		require.NoError(t, os.WriteFile(path, []byte("_blank_!(2);\nfn f() {}\n"), 0644))

		stub := writeStub(t, "cat\n")
		f, err := format.NewRustFmt(format.RustFmtOptions{
			Path:        stub,
			PostProcess: format.PostProcessMarkers,
		})
		require.NoError(t, err)

		require.NoError(t, f.FormatFile(ctx, path))

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "\n\nfn f() {}\n", string(got))
	})
}
