package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rustgen/pkg/config"
)

const sampleConfig = `
[general]
base_path = "src/"
replace_doc_blocks = true

[general.rustfmt]
path = "rustfmt"
edition = "2021"

[general.vars]
product = "FlexStr"
generate = true
count = 5
suffix = "$ident$Str"
list = ["FlexStr", true, 5, "$ident$Str"]

[fragment_lists]
impl = ["impl_struct", "impl_core_ref"]
impl_struct = ["empty", "from_ref"]

[files.str]
path = "strings/generated/std_str.rs"
fragment_list = "impl"
fragment_list_exceptions = ["impl_core_ref"]

[files.str.vars]
str_type = "str"
`

func TestLoad(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(sampleConfig)
	require.NoError(t, err)

	assert.Equal(t, "src/", cfg.General.BasePath)
	assert.True(t, cfg.General.ReplaceDocBlocks)
	assert.Equal(t, "rustfmt", cfg.General.RustFmt.Path)
	assert.Equal(t, "2021", cfg.General.RustFmt.Edition)
	assert.False(t, cfg.General.RustFmt.SkipFinalFormat)

	assert.Equal(t, map[string][]string{
		"impl":        {"impl_struct", "impl_core_ref"},
		"impl_struct": {"empty", "from_ref"},
	}, cfg.FragmentLists)

	file, err := cfg.File("str")
	require.NoError(t, err)
	assert.Equal(t, "strings/generated/std_str.rs", file.Path)
	assert.Equal(t, "impl", file.FragmentList)
	assert.Equal(t, []string{"impl_core_ref"}, file.FragmentListExceptions)
}

func TestLoadVars(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(sampleConfig)
	require.NoError(t, err)

	vars := cfg.General.Vars

	product, err := vars.Get("product")
	require.NoError(t, err)
	assert.Equal(t, config.KindString, product.Kind())
	assert.Equal(t, `"FlexStr"`, product.Tokens())
	assert.Equal(t, "FlexStr", product.Display())

	generate, err := vars.Get("generate")
	require.NoError(t, err)
	assert.Equal(t, "true", generate.Tokens())

	count, err := vars.Get("count")
	require.NoError(t, err)
	assert.Equal(t, "5", count.Tokens())

	suffix, err := vars.Get("suffix")
	require.NoError(t, err)
	assert.Equal(t, config.KindIdent, suffix.Kind())
	assert.Equal(t, "Str", suffix.Tokens())

	list, err := vars.GetList("list")
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, `"FlexStr"`, list[0].Tokens())
	assert.Equal(t, "true", list[1].Tokens())
	assert.Equal(t, "5", list[2].Tokens())
	assert.Equal(t, "Str", list[3].Tokens())

	_, err = vars.Get("list")
	assert.ErrorIs(t, err, config.ErrWrongKind)

	_, err = vars.Get("missing")
	assert.ErrorIs(t, err, config.ErrMissingVar)
}

func TestLoadRejectsBadCodeValues(t *testing.T) {
	t.Parallel()

	_, err := config.Load("[general.vars]\nbad = \"$ident$not an ident\"\n")
	require.Error(t, err)

	_, err = config.Load("[general.vars]\nbad = \"$int_lit$abc\"\n")
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), config.DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0644))

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "src/", cfg.General.BasePath)

	_, err = config.LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	known := map[string]bool{"empty": true, "from_ref": true, "impl_core_ref": true}

	t.Run("accepts complete config", func(t *testing.T) {
		t.Parallel()

		cfg, err := config.Load(sampleConfig)
		require.NoError(t, err)
		assert.NoError(t, cfg.Validate(known))
	})

	t.Run("rejects unknown fragment", func(t *testing.T) {
		t.Parallel()

		cfg, err := config.Load(sampleConfig)
		require.NoError(t, err)

		err = cfg.Validate(map[string]bool{"empty": true, "from_ref": true})
		assert.ErrorIs(t, err, config.ErrMissingFragments)
		assert.Contains(t, err.Error(), "impl_core_ref")
	})

	t.Run("rejects unknown fragment list", func(t *testing.T) {
		t.Parallel()

		cfg, err := config.Load(`
[fragment_lists]
impl = ["frag"]
[files.f]
path = "f.rs"
fragment_list = "nope"
`)
		require.NoError(t, err)

		err = cfg.Validate(map[string]bool{"frag": true})
		assert.ErrorIs(t, err, config.ErrMissingList)
	})

	t.Run("rejects unknown exception", func(t *testing.T) {
		t.Parallel()

		cfg, err := config.Load(`
[fragment_lists]
impl = ["frag"]
[files.f]
path = "f.rs"
fragment_list = "impl"
fragment_list_exceptions = ["ghost"]
`)
		require.NoError(t, err)

		err = cfg.Validate(map[string]bool{"frag": true})
		assert.ErrorIs(t, err, config.ErrMissingExceptions)
	})
}

func TestFilePath(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(sampleConfig)
	require.NoError(t, err)

	path, err := cfg.FilePath("str")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("src", "strings/generated/std_str.rs"), path)

	_, err = cfg.FilePath("nope")
	assert.ErrorIs(t, err, config.ErrFileNotFound)
}

func TestVarsFor(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(`
[general.vars]
shared = "general"
overridden = "general"
[fragment_lists]
impl = ["frag"]
[files.f]
path = "f.rs"
fragment_list = "impl"
[files.f.vars]
overridden = "file"
own = "file"
`)
	require.NoError(t, err)

	vars, err := cfg.VarsFor("f")
	require.NoError(t, err)

	shared, err := vars.Get("shared")
	require.NoError(t, err)
	assert.Equal(t, "general", shared.Display())

	overridden, err := vars.Get("overridden")
	require.NoError(t, err)
	assert.Equal(t, "file", overridden.Display())

	own, err := vars.Get("own")
	require.NoError(t, err)
	assert.Equal(t, "file", own.Display())
}

func TestTemplateLoads(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(config.Template())
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate(nil))
}
