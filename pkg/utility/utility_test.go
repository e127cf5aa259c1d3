package utility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/twgen/pkg/theme"
)

func defaultUniverse(t *testing.T) *Universe {
	t.Helper()
	u, err := Generate(theme.Default())
	require.NoError(t, err)
	return u
}

func TestGenerate_Spacing(t *testing.T) {
	u := defaultUniverse(t)

	d, ok := u.Get("p-4")
	require.True(t, ok)
	assert.Equal(t, "padding:1rem", d.Declarations())
	assert.Equal(t, theme.CategorySpacing, d.Category)
	assert.Equal(t, LayerUtilities, d.Layer)

	d, ok = u.Get("px-2")
	require.True(t, ok)
	assert.Equal(t, "padding-left:0.5rem;padding-right:0.5rem", d.Declarations())

	d, ok = u.Get("-mt-4")
	require.True(t, ok)
	assert.Equal(t, "margin-top:-1rem", d.Declarations())

	_, ok = u.Get("-m-0")
	assert.False(t, ok, "negating zero is a no-op")

	_, ok = u.Get("m-99")
	assert.False(t, ok)
}

func TestGenerate_Categories(t *testing.T) {
	u := defaultUniverse(t)

	cases := map[string]string{
		"bg-green-500":    "background-color:#22c55e",
		"text-white":      "color:#ffffff",
		"text-sm":         "font-size:0.875rem;line-height:1.25rem",
		"text-center":     "text-align:center",
		"font-bold":       "font-weight:700",
		"rounded":         "border-radius:0.25rem",
		"border":          "border-width:1px",
		"shadow-lg":       "box-shadow:0 10px 15px -3px rgb(0 0 0 / 0.1), 0 4px 6px -4px rgb(0 0 0 / 0.1)",
		"min-h-screen":    "min-height:100vh",
		"max-h-48":        "max-height:12rem",
		"overflow-y-auto": "overflow-y:auto",
		"inline-block":    "display:inline-block",
		"hidden":          "display:none",
		"w-1/2":           "width:50%",
		"w-1/3":           "width:33.333333%",
		"opacity-50":      "opacity:0.5",
		"z-10":            "z-index:10",
		"cursor-pointer":  "cursor:pointer",
	}
	for class, want := range cases {
		d, ok := u.Get(class)
		if assert.True(t, ok, class) {
			assert.Equal(t, want, d.Declarations(), class)
		}
	}
}

func TestGenerate_SpaceBetweenSelector(t *testing.T) {
	u := defaultUniverse(t)

	d, ok := u.Get("space-y-2")
	require.True(t, ok)
	assert.Equal(t, `.space-y-2 > :not([hidden]) ~ :not([hidden])`, d.ClassSelector())
	assert.Equal(t, "margin-top:0.5rem", d.Declarations())
}

func TestGenerate_Animation(t *testing.T) {
	th, err := theme.Resolve(theme.Default(), theme.PartialTheme{Categories: map[string]any{
		"animation": map[string]any{"spin-slow": "spin 3s linear infinite"},
	}})
	require.NoError(t, err)

	u, err := Generate(th)
	require.NoError(t, err)

	d, ok := u.Get("animate-spin-slow")
	require.True(t, ok)
	assert.Equal(t, "animation:spin 3s linear infinite", d.Declarations())
	require.NotNil(t, d.Keyframes)
	assert.Equal(t, "spin", d.Keyframes.Name)
	assert.Equal(t, "to{transform:rotate(360deg)}", d.Keyframes.Body)

	d, ok = u.Get("animate-none")
	require.True(t, ok)
	assert.Nil(t, d.Keyframes)
}

func TestGenerate_Injective(t *testing.T) {
	u := defaultUniverse(t)

	seen := make(map[string]bool)
	for d := range u.All() {
		assert.False(t, seen[d.ClassName], "duplicate %s", d.ClassName)
		seen[d.ClassName] = true
	}
	assert.Empty(t, u.Conflicts())
	assert.Equal(t, len(seen), u.Len())
}

func TestGenerate_Deterministic(t *testing.T) {
	a := defaultUniverse(t).Definitions()
	b := defaultUniverse(t).Definitions()
	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].ClassName, b[i].ClassName)
	}

	// Padding precedes its axis variants.
	u := defaultUniverse(t)
	p, _ := u.Get("p-4")
	px, _ := u.Get("px-4")
	pt, _ := u.Get("pt-4")
	assert.Less(t, p.Order, px.Order)
	assert.Less(t, px.Order, pt.Order)
}

func TestGenerate_ExtendedTheme(t *testing.T) {
	th, err := theme.Resolve(theme.Default(), theme.PartialTheme{Categories: map[string]any{
		"colors":  map[string]any{"brand": map[string]any{"500": "#0ea5e9"}},
		"spacing": map[string]any{"128": "32rem"},
	}})
	require.NoError(t, err)

	u, err := Generate(th)
	require.NoError(t, err)

	d, ok := u.Get("bg-brand-500")
	require.True(t, ok)
	assert.Equal(t, "background-color:#0ea5e9", d.Declarations())

	d, ok = u.Get("w-128")
	require.True(t, ok)
	assert.Equal(t, "width:32rem", d.Declarations())
}

type stubContributor struct {
	defs []Definition
}

func (s stubContributor) Name() string { return "stub" }

func (s stubContributor) ContributeUtilities(*theme.Theme) ([]Definition, error) {
	return s.defs, nil
}

func TestGenerate_ContributorConflictLastWins(t *testing.T) {
	u, err := Generate(theme.Default(), stubContributor{defs: []Definition{
		{ClassName: "p-4", Properties: []Property{{Name: "padding", Value: "17px"}}, Layer: LayerUtilities},
		{ClassName: "btn", Properties: []Property{{Name: "padding", Value: "1rem"}}, Layer: LayerComponents},
	}})
	require.NoError(t, err)

	d, ok := u.Get("p-4")
	require.True(t, ok)
	assert.Equal(t, "padding:17px", d.Declarations())
	assert.Equal(t, "stub", d.Rule)

	require.Len(t, u.Conflicts(), 1)
	assert.Equal(t, Conflict{ClassName: "p-4", Loser: "padding", Winner: "stub"}, u.Conflicts()[0])

	btn, ok := u.Get("btn")
	require.True(t, ok)
	assert.Equal(t, LayerComponents, btn.Layer)
	assert.Greater(t, btn.Order, d.Order)
}

func TestLookup_Arbitrary(t *testing.T) {
	u := defaultUniverse(t)

	cases := map[string]string{
		"w-[33%]":               "width:33%",
		"p-[3px]":               "padding:3px",
		"bg-[#1da1f2]":          "background-color:#1da1f2",
		"text-[22px]":           "font-size:22px",
		"text-[#fff]":           "color:#fff",
		"grid-cols-[1fr_2fr]":   "grid-template-columns:1fr 2fr",
		"h-[calc(100%_-_1rem)]": "height:calc(100% - 1rem)",
		"z-[100]":               "z-index:100",
	}
	for class, want := range cases {
		d, ok := u.Lookup(class)
		if assert.True(t, ok, class) {
			assert.Equal(t, want, d.Declarations(), class)
			assert.Equal(t, class, d.ClassName)
		}
	}

	for _, class := range []string{"w-[red]", "bg-[3px]", "foo-[1px]", "w-[]", "w-[1px;color:red]", "cursor-[pointer]"} {
		_, ok := u.Lookup(class)
		assert.False(t, ok, class)
	}

	// Memoized results are stable.
	a, _ := u.Lookup("w-[33%]")
	b, _ := u.Lookup("w-[33%]")
	assert.Equal(t, a, b)
}

func TestNewUniverse_KeepsOrder(t *testing.T) {
	u := NewUniverse(
		Definition{ClassName: "b", Order: 2},
		Definition{ClassName: "a", Order: 1},
	)
	defs := u.Definitions()
	require.Len(t, defs, 2)
	assert.Equal(t, "a", defs[0].ClassName)
	assert.Equal(t, "b", defs[1].ClassName)

	_, ok := u.Lookup("w-[1px]")
	assert.False(t, ok)
}

func TestEscapeClass(t *testing.T) {
	cases := map[string]string{
		"p-4":                  "p-4",
		"p-0.5":                `p-0\.5`,
		"w-1/2":                `w-1\/2`,
		"md:hover:bg-brand-500": `md\:hover\:bg-brand-500`,
		"w-[33%]":              `w-\[33\%\]`,
		"2xl:p-4":              `\32 xl\:p-4`,
		"-mt-4":                `-mt-4`,
		"-":                    `\-`,
	}
	for in, want := range cases {
		assert.Equal(t, want, EscapeClass(in), in)
	}
}
