package fragment_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rustgen/pkg/config"
	"github.com/yaklabco/rustgen/pkg/format"
	"github.com/yaklabco/rustgen/pkg/fragment"
)

// staticFrag contributes fixed text to each section.
type staticFrag struct {
	fragment.Base
	useSrc, topSrc, bodySrc string
}

func (f staticFrag) Uses(config.Vars) (string, error) { return f.useSrc, nil }
func (f staticFrag) Top(config.Vars) (string, error)  { return f.topSrc, nil }
func (f staticFrag) Body(config.Vars) (string, error) { return f.bodySrc, nil }

// varFrag renders a struct impl from the str_type var.
type varFrag struct {
	fragment.Base
}

func (varFrag) Body(vars config.Vars) (string, error) {
	strType, err := vars.Get("str_type")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("impl %s {}\n", strType.Display()), nil
}

// failFrag always errors.
type failFrag struct {
	fragment.Base
}

var errBoom = errors.New("boom")

func (failFrag) Body(config.Vars) (string, error) { return "", errBoom }

func markerOnlyOpts() fragment.Options {
	return fragment.Options{Formatter: format.NewMarkerOnly(format.PostProcessMarkers)}
}

func loadConfig(t *testing.T, toml string) *config.Config {
	t.Helper()
	cfg, err := config.Load(toml)
	require.NoError(t, err)
	return cfg
}

func TestGenerateStrings(t *testing.T) {
	t.Parallel()

	reg := fragment.NewRegistry()
	reg.MustRegister("hello", staticFrag{
		useSrc:  "use std::fmt::Debug;\nuse serde::Serialize;",
		topSrc:  "#![allow(dead_code)]",
		bodySrc: "fn hello() {}\n",
	})
	reg.MustRegister("world", staticFrag{
		useSrc:  "use crate::World;",
		bodySrc: "fn world() {}\n",
	})

	cfg := loadConfig(t, `
[fragment_lists]
all = ["hello", "world"]
[files.out]
path = "out.rs"
fragment_list = "all"
`)

	gen, err := fragment.NewGenerator(cfg, reg, markerOnlyOpts())
	require.NoError(t, err)

	result, err := gen.GenerateStrings(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	require.NoError(t, result.Files[0].Err)

	source := result.Files[0].Source

	// Warning header first, rendered as comments.
	assert.True(t, strings.HasPrefix(source, "// +"), "source starts with %q", source[:40])
	assert.Contains(t, source, "// | WARNING: This file has been auto-generated using rustgen.")

	// Top attributes, then use sections std/external/crate, then bodies
	// separated by a blank line.
	assert.Contains(t, source, "#![allow(dead_code)]")
	wantTail := "use std::fmt::Debug;\n\nuse serde::Serialize;\n\nuse crate::World;\n\nfn hello() {}\n\nfn world() {}\n"
	assert.True(t, strings.HasSuffix(source, wantTail), "source tail = %q", source)

	// No markers survive post-processing.
	assert.NotContains(t, source, "_blank_!")
	assert.NotContains(t, source, "_comment_!")

	assert.Equal(t, fragment.Stats{Files: 1}, result.Stats)
}

func TestGenerateListRefsAndExceptions(t *testing.T) {
	t.Parallel()

	reg := fragment.NewRegistry()
	for _, name := range []string{"empty", "from_ref", "impl_core_ref"} {
		reg.MustRegister(name, staticFrag{bodySrc: "fn " + name + "() {}\n"})
	}

	cfg := loadConfig(t, `
[fragment_lists]
impl = ["impl_struct", "impl_core_ref"]
impl_struct = ["empty", "from_ref"]
[files.out]
path = "out.rs"
fragment_list = "impl"
fragment_list_exceptions = ["impl_core_ref"]
`)

	gen, err := fragment.NewGenerator(cfg, reg, markerOnlyOpts())
	require.NoError(t, err)

	result, err := gen.GenerateStrings(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	require.NoError(t, result.Files[0].Err)

	source := result.Files[0].Source
	assert.Contains(t, source, "fn empty()")
	assert.Contains(t, source, "fn from_ref()")
	assert.NotContains(t, source, "fn impl_core_ref()")

	// Entries after a list reference still generate.
	cfg2 := loadConfig(t, `
[fragment_lists]
impl = ["impl_struct", "impl_core_ref"]
impl_struct = ["empty", "from_ref"]
[files.out]
path = "out.rs"
fragment_list = "impl"
`)
	gen2, err := fragment.NewGenerator(cfg2, reg, markerOnlyOpts())
	require.NoError(t, err)

	result2, err := gen2.GenerateStrings(context.Background())
	require.NoError(t, err)
	assert.Contains(t, result2.Files[0].Source, "fn impl_core_ref()")
}

func TestGenerateVars(t *testing.T) {
	t.Parallel()

	reg := fragment.NewRegistry()
	reg.MustRegister("impl_str", varFrag{})

	cfg := loadConfig(t, `
[general.vars]
str_type = "GeneralStr"
[fragment_lists]
impl = ["impl_str"]
[files.a]
path = "a.rs"
fragment_list = "impl"
[files.b]
path = "b.rs"
fragment_list = "impl"
[files.b.vars]
str_type = "FileStr"
`)

	gen, err := fragment.NewGenerator(cfg, reg, markerOnlyOpts())
	require.NoError(t, err)

	result, err := gen.GenerateStrings(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Files, 2)

	// Config order: a then b.
	assert.Equal(t, "a", result.Files[0].Name)
	assert.Contains(t, result.Files[0].Source, "impl GeneralStr {}")
	assert.Equal(t, "b", result.Files[1].Name)
	assert.Contains(t, result.Files[1].Source, "impl FileStr {}")
}

func TestGenerateFiles(t *testing.T) {
	t.Parallel()

	reg := fragment.NewRegistry()
	reg.MustRegister("hello", staticFrag{bodySrc: "fn hello() {}\n"})

	dir := t.TempDir()
	cfg := loadConfig(t, fmt.Sprintf(`
[general]
base_path = %q
[fragment_lists]
all = ["hello"]
[files.out]
path = "gen/out.rs"
fragment_list = "all"
`, dir))

	gen, err := fragment.NewGenerator(cfg, reg, markerOnlyOpts())
	require.NoError(t, err)

	ctx := context.Background()

	result, err := gen.GenerateFiles(ctx)
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	require.NoError(t, result.Files[0].Err)
	assert.True(t, result.Files[0].Written)
	assert.Equal(t, fragment.Stats{Files: 1, Written: 1}, result.Stats)

	content, err := os.ReadFile(filepath.Join(dir, "gen", "out.rs"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "fn hello() {}")

	// A second run finds identical content and skips the write.
	result, err = gen.GenerateFiles(ctx)
	require.NoError(t, err)
	assert.True(t, result.Files[0].Unchanged)
	assert.Equal(t, fragment.Stats{Files: 1, Unchanged: 1}, result.Stats)
}

func TestGeneratePartialFailure(t *testing.T) {
	t.Parallel()

	reg := fragment.NewRegistry()
	reg.MustRegister("good", staticFrag{bodySrc: "fn good() {}\n"})
	reg.MustRegister("bad", failFrag{})

	cfg := loadConfig(t, `
[fragment_lists]
good_list = ["good"]
bad_list = ["bad"]
[files.good]
path = "good.rs"
fragment_list = "good_list"
[files.bad]
path = "bad.rs"
fragment_list = "bad_list"
`)

	gen, err := fragment.NewGenerator(cfg, reg, markerOnlyOpts())
	require.NoError(t, err)

	result, err := gen.GenerateStrings(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Files, 2)

	assert.ErrorIs(t, result.Files[0].Err, errBoom)
	assert.NoError(t, result.Files[1].Err)
	assert.True(t, result.Failed())
	assert.Equal(t, 1, result.Stats.Failed)
}

func TestNewGeneratorValidates(t *testing.T) {
	t.Parallel()

	reg := fragment.NewRegistry()
	reg.MustRegister("known", staticFrag{})

	cfg := loadConfig(t, `
[fragment_lists]
all = ["known", "unknown"]
[files.out]
path = "out.rs"
fragment_list = "all"
`)

	_, err := fragment.NewGenerator(cfg, reg, markerOnlyOpts())
	assert.ErrorIs(t, err, config.ErrMissingFragments)
}

func TestGenerateListCycle(t *testing.T) {
	t.Parallel()

	reg := fragment.NewRegistry()
	reg.MustRegister("frag", staticFrag{bodySrc: "fn f() {}\n"})

	cfg := loadConfig(t, `
[fragment_lists]
a = ["b", "frag"]
b = ["a"]
[files.out]
path = "out.rs"
fragment_list = "a"
`)

	gen, err := fragment.NewGenerator(cfg, reg, markerOnlyOpts())
	require.NoError(t, err)

	result, err := gen.GenerateStrings(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	require.Error(t, result.Files[0].Err)
	assert.Contains(t, result.Files[0].Err.Error(), "references itself")
}
