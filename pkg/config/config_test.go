package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/twgen/pkg/theme"
)

func TestLoad_YAML(t *testing.T) {
	cfg, err := Load("testdata/twgen.yaml")
	require.NoError(t, err)

	assert.Equal(t, "class", cfg.DarkMode)
	assert.Equal(t, []string{"src/**/*.rs", "index.html", "src/**/*.html"}, cfg.Content)
	assert.Equal(t, []string{"bg-brand-500", "text-brand-*"}, cfg.Safelist)
	assert.Equal(t, "dist/app.css", cfg.Output)
	assert.True(t, cfg.PreflightEnabled())
	assert.True(t, cfg.PreciseScan())
	assert.Equal(t, DefaultDebounceMs, cfg.Watch.DebounceMs)

	require.Len(t, cfg.Plugins, 2)
	assert.Equal(t, "container", cfg.Plugins[0].Name)
	assert.Equal(t, "line-clamp", cfg.Plugins[1].Name)
}

func TestLoad_YAMLThemeExtension(t *testing.T) {
	cfg, err := Load("testdata/twgen.yaml")
	require.NoError(t, err)

	assert.Empty(t, cfg.ThemeOverrides().Categories)

	ext := cfg.ThemeExtension()
	assert.Equal(t, theme.DarkModeClass, ext.DarkMode)

	th, err := theme.Resolve(nil, ext)
	require.NoError(t, err)

	v, ok := th.Value(theme.CategoryColors, "brand-500")
	require.True(t, ok)
	assert.Equal(t, "#0ea5e9", v.CSS())

	v, ok = th.Value(theme.CategorySpacing, "128")
	require.True(t, ok)
	assert.Equal(t, "32rem", v.CSS())

	_, ok = th.Value(theme.CategoryAnimation, "spin-slow")
	assert.True(t, ok)

	// Defaults survive extension.
	_, ok = th.Value(theme.CategoryColors, "red-500")
	assert.True(t, ok)
	assert.Equal(t, theme.DarkModeClass, th.DarkMode())
}

func TestLoad_TOML(t *testing.T) {
	cfg, err := Load("testdata/twgen.toml")
	require.NoError(t, err)

	assert.Equal(t, "media", cfg.DarkMode)
	assert.False(t, cfg.PreflightEnabled())
	assert.False(t, cfg.PreciseScan())
	assert.Equal(t, 4, cfg.Scanner.Workers)
	assert.Equal(t, 50, cfg.Watch.DebounceMs)
	require.Len(t, cfg.Plugins, 1)
	assert.Equal(t, "aria", cfg.Plugins[0].Name)

	th, err := theme.Replace(nil, cfg.ThemeOverrides())
	require.NoError(t, err)
	screens := th.Screens()
	require.Len(t, screens, 2)
	assert.Equal(t, "tablet", screens[0].Name)
	assert.Equal(t, "desktop", screens[1].Name)

	th, err = theme.Resolve(th, cfg.ThemeExtension())
	require.NoError(t, err)
	_, ok := th.Value(theme.CategoryColors, "accent")
	assert.True(t, ok)
}

func TestLoad_JSON(t *testing.T) {
	cfg, err := Load("testdata/twgen.json")
	require.NoError(t, err)

	require.Len(t, cfg.Plugins, 2)
	assert.Equal(t, "container", cfg.Plugins[0].Name)
	assert.Equal(t, "aria", cfg.Plugins[1].Name)

	th, err := theme.Resolve(nil, cfg.ThemeExtension())
	require.NoError(t, err)
	v, ok := th.Value(theme.CategoryFontWeight, "heavy")
	require.True(t, ok)
	assert.Equal(t, "950", v.CSS())
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load("testdata/invalid.yaml")
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "darkMode")
	assert.Contains(t, msg, "content[0]")
	assert.Contains(t, msg, "theme.gradients")
	assert.Contains(t, msg, "plugins[0]")
	assert.Contains(t, msg, "scanner.workers")
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load("testdata/nope.yaml")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParse_UnsupportedFormat(t *testing.T) {
	_, err := Parse([]byte("content = []"), ".ini")
	assert.ErrorContains(t, err, "unsupported")
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "media", cfg.DarkMode)
	assert.True(t, cfg.PreflightEnabled())
	assert.True(t, cfg.PreciseScan())
	assert.Equal(t, DefaultCacheSize, cfg.Scanner.CacheSize)
	assert.NoError(t, cfg.Validate())
}

func TestResolve_FallbackChain(t *testing.T) {
	dir := t.TempDir()

	cfg, path, err := Resolve("", dir)
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, Default(), cfg)

	tomlPath := filepath.Join(dir, "twgen.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte(`content = ["a/**/*.html"]`), 0644))
	cfg, path, err = Resolve("", dir)
	require.NoError(t, err)
	assert.Equal(t, tomlPath, path)
	assert.Equal(t, []string{"a/**/*.html"}, cfg.Content)

	// yaml is preferred over toml.
	yamlPath := filepath.Join(dir, "twgen.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("content: [b/*.rs]\n"), 0644))
	cfg, path, err = Resolve("", dir)
	require.NoError(t, err)
	assert.Equal(t, yamlPath, path)
	assert.Equal(t, []string{"b/*.rs"}, cfg.Content)

	// An explicit flag wins.
	cfg, path, err = Resolve("testdata/twgen.json", dir)
	require.NoError(t, err)
	assert.Equal(t, "testdata/twgen.json", path)
	assert.Equal(t, []string{"app/**/*.html"}, cfg.Content)
}

func TestNormalizePattern(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"./src/**/*.rs", "src/**/*.rs"},
		{"././index.html", "index.html"},
		{" src/*.html ", "src/*.html"},
		{"src/*.html", "src/*.html"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePattern(tt.in))
		})
	}
}
