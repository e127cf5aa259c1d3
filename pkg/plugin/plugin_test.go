package plugin

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/twgen/pkg/config"
	"github.com/gnana997/twgen/pkg/emit"
	"github.com/gnana997/twgen/pkg/purge"
	"github.com/gnana997/twgen/pkg/theme"
	"github.com/gnana997/twgen/pkg/utility"
	"github.com/gnana997/twgen/pkg/variant"
)

func refs(names ...string) []config.PluginRef {
	out := make([]config.PluginRef, len(names))
	for i, n := range names {
		out[i] = config.PluginRef{Name: n}
	}
	return out
}

func TestResolve(t *testing.T) {
	set, err := Resolve(refs("aria", "container", "line-clamp"))
	require.NoError(t, err)
	assert.Equal(t, []string{"aria", "container", "line-clamp"}, set.Names())
	assert.Len(t, set.Utilities, 2)
	assert.Len(t, set.Variants, 1)
}

func TestResolve_Unknown(t *testing.T) {
	_, err := Resolve(refs("container", "forms"))
	var unk *UnknownPluginError
	require.True(t, errors.As(err, &unk))
	assert.Equal(t, "forms", unk.Name)
	assert.Contains(t, err.Error(), "line-clamp")
}

func TestResolve_Duplicate(t *testing.T) {
	_, err := Resolve(refs("aria", "aria"))
	assert.ErrorContains(t, err, "listed twice")
}

func TestResolve_Empty(t *testing.T) {
	set, err := Resolve(nil)
	require.NoError(t, err)
	assert.Empty(t, set.Plugins)
}

func TestContainer(t *testing.T) {
	set, err := Resolve([]config.PluginRef{{Name: "container", Options: map[string]any{"center": true, "padding": "1rem"}}})
	require.NoError(t, err)

	u, err := utility.Generate(theme.Default(), set.Utilities...)
	require.NoError(t, err)

	d, ok := u.Get("container")
	require.True(t, ok)
	assert.Equal(t, utility.LayerComponents, d.Layer)
	require.Len(t, d.Blocks, 5)
	assert.Equal(t, "@media (min-width:640px)", d.Blocks[0].AtRule)
	assert.Equal(t, "@media (min-width:1536px)", d.Blocks[4].AtRule)

	css := emit.Emit([]utility.Definition{d}, emit.Options{})
	assert.Equal(t,
		".container{width:100%;margin-right:auto;margin-left:auto;padding-right:1rem;padding-left:1rem}"+
			"@media (min-width:640px){.container{max-width:640px}}"+
			"@media (min-width:768px){.container{max-width:768px}}"+
			"@media (min-width:1024px){.container{max-width:1024px}}"+
			"@media (min-width:1280px){.container{max-width:1280px}}"+
			"@media (min-width:1536px){.container{max-width:1536px}}",
		css)
}

func TestContainer_BadOptions(t *testing.T) {
	_, err := Resolve([]config.PluginRef{{Name: "container", Options: map[string]any{"center": "yes"}}})
	assert.ErrorContains(t, err, "center")

	_, err = Resolve([]config.PluginRef{{Name: "container", Options: map[string]any{"padding": "wide"}}})
	assert.ErrorContains(t, err, "padding")
}

func TestLineClamp(t *testing.T) {
	set, err := Resolve(refs("line-clamp"))
	require.NoError(t, err)

	u, err := utility.Generate(theme.Default(), set.Utilities...)
	require.NoError(t, err)
	assert.Empty(t, u.Conflicts())

	d, ok := u.Get("line-clamp-3")
	require.True(t, ok)
	assert.Equal(t, "line-clamp", d.Rule)
	assert.Contains(t, d.Properties, utility.Property{Name: "-webkit-line-clamp", Value: "3"})

	_, ok = u.Get("line-clamp-none")
	assert.True(t, ok)

	// Contributed utilities sort after every core utility.
	core, _ := u.Get("p-4")
	assert.Greater(t, d.Order, core.Order)
}

func TestAria(t *testing.T) {
	th := theme.Default()
	set, err := Resolve(refs("aria"))
	require.NoError(t, err)

	reg, err := variant.NewRegistry(th, set.Variants...)
	require.NoError(t, err)
	u, err := utility.Generate(th)
	require.NoError(t, err)

	res := purge.Purge(u, []string{"aria-expanded:bg-white"}, purge.Safelist{}, reg)
	require.Len(t, res.Retained, 1)

	css := emit.Emit(res.Retained, emit.Options{})
	assert.Equal(t, `.aria-expanded\:bg-white[aria-expanded="true"]{background-color:#ffffff}`, css)
}
