package fragment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rustgen/pkg/config"
	"github.com/yaklabco/rustgen/pkg/fragment"
)

type noopFrag struct {
	fragment.Base
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	t.Run("register and get", func(t *testing.T) {
		t.Parallel()

		reg := fragment.NewRegistry()
		require.NoError(t, reg.Register("impl_struct", noopFrag{}))

		got, ok := reg.Get("impl_struct")
		assert.True(t, ok)
		assert.NotNil(t, got)

		_, ok = reg.Get("missing")
		assert.False(t, ok)
	})

	t.Run("duplicate name rejected", func(t *testing.T) {
		t.Parallel()

		reg := fragment.NewRegistry()
		require.NoError(t, reg.Register("impl_struct", noopFrag{}))
		err := reg.Register("impl_struct", noopFrag{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already registered")
	})

	t.Run("name format enforced", func(t *testing.T) {
		t.Parallel()

		reg := fragment.NewRegistry()
		for _, name := range []string{"", "ImplStruct", "impl-struct", "_impl", "9impl"} {
			assert.Error(t, reg.Register(name, noopFrag{}), "name %q", name)
		}
		assert.NoError(t, reg.Register("impl_struct2", noopFrag{}))
	})

	t.Run("names set", func(t *testing.T) {
		t.Parallel()

		reg := fragment.NewRegistry()
		reg.MustRegister("a_frag", noopFrag{})
		reg.MustRegister("b_frag", noopFrag{})

		assert.Equal(t, map[string]bool{"a_frag": true, "b_frag": true}, reg.Names())
		assert.Equal(t, []string{"a_frag", "b_frag"}, reg.SortedNames())
	})

	t.Run("must register panics", func(t *testing.T) {
		t.Parallel()

		reg := fragment.NewRegistry()
		reg.MustRegister("a_frag", noopFrag{})
		assert.Panics(t, func() { reg.MustRegister("a_frag", noopFrag{}) })
	})
}

func TestBaseDefaults(t *testing.T) {
	t.Parallel()

	var f fragment.Base
	vars := config.Vars{}

	uses, err := f.Uses(vars)
	require.NoError(t, err)
	assert.Empty(t, uses)

	top, err := f.Top(vars)
	require.NoError(t, err)
	assert.Empty(t, top)

	body, err := f.Body(vars)
	require.NoError(t, err)
	assert.Empty(t, body)
}
