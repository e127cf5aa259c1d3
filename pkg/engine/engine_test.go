package engine

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/twgen/pkg/config"
	"github.com/gnana997/twgen/pkg/plugin"
	"github.com/gnana997/twgen/pkg/scanner"
	"github.com/gnana997/twgen/pkg/theme"
	"github.com/gnana997/twgen/pkg/variant"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func testConfig(content ...string) *config.Config {
	cfg := config.Default()
	cfg.Content = content
	off := false
	cfg.Preflight = &off
	return cfg
}

func newTestBuilder(t *testing.T, cfg *config.Config, root string) *Builder {
	t.Helper()
	b, err := NewBuilder(cfg, root, Options{}, testLogger())
	require.NoError(t, err)
	t.Cleanup(b.Close)
	return b
}

func TestBuild_ColdRoundTrip(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "index.html"), `<div class="p-4 m-99 hover:bg-red-500 foo:p-4"></div>`)

	b := newTestBuilder(t, testConfig("**/*.html"), root)
	r, err := b.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, uint64(1), r.Seq)
	assert.Contains(t, r.CSS, ".p-4{padding:1rem}")
	assert.Contains(t, r.CSS, `.hover\:bg-red-500:hover{background-color:`)
	assert.NotContains(t, r.CSS, "m-99")
	assert.Equal(t, 2, r.Stats.Retained)
	assert.Equal(t, 1, r.Stats.Files)
	assert.Equal(t, len(r.CSS), r.Stats.Bytes)

	require.Len(t, r.WarningList(), 1)
	var uv *variant.UnknownVariantError
	require.ErrorAs(t, r.Warnings, &uv)
	assert.Equal(t, "foo", uv.Variant)
	assert.Equal(t, "foo:p-4", uv.Token)
}

func TestBuild_OutputIndependentOfFileOrder(t *testing.T) {
	a := t.TempDir()
	writeFile(t, filepath.Join(a, "a.html"), `<p class="md:p-2 text-center">`)
	writeFile(t, filepath.Join(a, "b.html"), `<p class="p-4 bg-white">`)

	b := t.TempDir()
	writeFile(t, filepath.Join(b, "a.html"), `<p class="p-4 bg-white">`)
	writeFile(t, filepath.Join(b, "b.html"), `<p class="text-center md:p-2">`)

	r1, err := newTestBuilder(t, testConfig("*.html"), a).Build(context.Background())
	require.NoError(t, err)
	r2, err := newTestBuilder(t, testConfig("*.html"), b).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, r1.CSS, r2.CSS)
}

func TestBuild_NoFilesIsFatal(t *testing.T) {
	root := t.TempDir()
	b := newTestBuilder(t, testConfig("src/**/*.vue"), root)

	_, err := b.Build(context.Background())
	var globErr *scanner.GlobResolutionError
	require.ErrorAs(t, err, &globErr)
	assert.Equal(t, []string{"src/**/*.vue"}, globErr.Patterns)
}

func TestBuild_NoFilesWithSafelistWarns(t *testing.T) {
	root := t.TempDir()
	cfg := testConfig("src/**/*.vue")
	cfg.Safelist = []string{"p-4"}
	b := newTestBuilder(t, cfg, root)

	r, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ".p-4{padding:1rem}", r.CSS)

	var globErr *scanner.GlobResolutionError
	assert.ErrorAs(t, r.Warnings, &globErr)
}

func TestBuild_UnmatchedPatternWarns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "index.html"), `<p class="p-4">`)
	b := newTestBuilder(t, testConfig("**/*.html", "**/*.vue"), root)

	r, err := b.Build(context.Background())
	require.NoError(t, err)

	var globErr *scanner.GlobResolutionError
	require.ErrorAs(t, r.Warnings, &globErr)
	assert.Equal(t, []string{"**/*.vue"}, globErr.Patterns)
}

func TestBuild_InvalidThemeIsFatal(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "index.html"), `<p class="p-4">`)
	cfg := testConfig("*.html")
	cfg.Theme = map[string]any{"extend": map[string]any{
		"colors": map[string]any{"brand": "notacolor"},
	}}
	b := newTestBuilder(t, cfg, root)

	_, err := b.Build(context.Background())
	var tokErr *theme.InvalidTokenError
	require.ErrorAs(t, err, &tokErr)
	assert.Equal(t, "colors", tokErr.Category)
}

func TestNewBuilder_UnknownPlugin(t *testing.T) {
	cfg := testConfig("*.html")
	cfg.Plugins = []config.PluginRef{{Name: "forms"}}

	_, err := NewBuilder(cfg, t.TempDir(), Options{}, testLogger())
	var pe *plugin.UnknownPluginError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "forms", pe.Name)
}

func TestBuild_PluginsAndPreflight(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "index.html"), `<main class="container line-clamp-2">`)
	cfg := testConfig("*.html")
	on := true
	cfg.Preflight = &on
	cfg.Plugins = []config.PluginRef{{Name: "container"}, {Name: "line-clamp"}}

	b, err := NewBuilder(cfg, root, Options{Banner: "twgen test"}, testLogger())
	require.NoError(t, err)
	defer b.Close()

	r, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.True(t, len(r.CSS) > 0 && r.CSS[:3] == "/*!", "banner comes first")
	assert.Contains(t, r.CSS, ".container{width:100%")
	assert.Contains(t, r.CSS, ".line-clamp-2{")
	assert.Contains(t, r.CSS, "box-sizing:border-box", "preflight emitted")
}

func TestBuild_BreakpointOnComponent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "index.html"), `<div class="md:container p-4">`)
	cfg := testConfig("*.html")
	cfg.Plugins = []config.PluginRef{{Name: "container"}}

	b := newTestBuilder(t, cfg, root)
	r, err := b.Build(context.Background())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(r.CSS, `@media (min-width:768px){.md\:container{width:100%}`), r.CSS)
	assert.NotContains(t, r.CSS, `}.md\:container{width:100%}`)
	assert.Contains(t, r.CSS, ".p-4{padding:1rem}")
}

func TestRebuild_Incremental(t *testing.T) {
	root := t.TempDir()
	page := filepath.Join(root, "index.html")
	writeFile(t, page, `<p class="p-4">`)

	b := newTestBuilder(t, testConfig("*.html"), root)
	ctx := context.Background()
	_, err := b.Build(ctx)
	require.NoError(t, err)

	writeFile(t, page, `<p class="m-4">`)
	r, err := b.Rebuild(ctx, []string{page})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), r.Seq)
	assert.Equal(t, ".m-4{margin:1rem}", r.CSS)

	require.NoError(t, os.Remove(page))
	r, err = b.Rebuild(ctx, []string{page})
	require.NoError(t, err)
	assert.Empty(t, r.CSS)
	assert.Equal(t, uint64(3), b.Latest())
}

func TestBuild_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "index.html"), `<p class="p-4">`)
	b := newTestBuilder(t, testConfig("*.html"), root)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := b.Build(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCSSFor(t *testing.T) {
	b := newTestBuilder(t, testConfig("*.html"), t.TempDir())

	css, pr, err := b.CSSFor([]string{"p-4", "nope", "wat:p-4"}, false)
	require.NoError(t, err)
	assert.Equal(t, ".p-4{padding:1rem}", css)
	assert.Len(t, pr.Dropped, 1)
}

func TestResolve(t *testing.T) {
	b := newTestBuilder(t, testConfig("*.html"), t.TempDir())

	d, ok, err := b.Resolve("md:p-4")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "md:p-4", d.ClassName)
	assert.Equal(t, float64(768), d.MinWidth)

	_, ok, err = b.Resolve("m-99")
	assert.NoError(t, err)
	assert.False(t, ok)

	_, _, err = b.Resolve("wat:p-4")
	var uv *variant.UnknownVariantError
	assert.True(t, errors.As(err, &uv))
}

func TestPublisher_LastWriteWins(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dist", "app.css")
	p := NewPublisher(out, nil, testLogger())

	ok, err := p.Publish(&Result{Seq: 2, CSS: ".b{}"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Publish(&Result{Seq: 1, CSS: ".a{}"})
	require.NoError(t, err)
	assert.False(t, ok, "older build must not overwrite a newer one")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, ".b{}", string(data))
	assert.Equal(t, 1, p.Stats().Discarded)
	assert.Equal(t, uint64(2), p.Stats().Published)
}

func TestPublisher_DiscardsWhenNewerBuildStarted(t *testing.T) {
	p := NewPublisher(filepath.Join(t.TempDir(), "app.css"), func() uint64 { return 5 }, testLogger())

	ok, err := p.Publish(&Result{Seq: 4, CSS: ".a{}"})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = p.Publish(&Result{Seq: 5, CSS: ".a{}"})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPublisher_SkipsUnchanged(t *testing.T) {
	out := filepath.Join(t.TempDir(), "app.css")
	p := NewPublisher(out, nil, testLogger())

	_, err := p.Publish(&Result{Seq: 1, CSS: ".a{}"})
	require.NoError(t, err)
	info1, err := os.Stat(out)
	require.NoError(t, err)

	ok, err := p.Publish(&Result{Seq: 2, CSS: ".a{}"})
	require.NoError(t, err)
	assert.True(t, ok)

	info2, err := os.Stat(out)
	require.NoError(t, err)
	assert.Equal(t, info1.ModTime(), info2.ModTime())
	assert.Equal(t, 1, p.Stats().Writes)
	assert.Equal(t, 1, p.Stats().Unchanged)

	entries, err := os.ReadDir(filepath.Dir(out))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestPublisher_Writer(t *testing.T) {
	var buf bytes.Buffer
	p := NewWriterPublisher(&buf, nil, testLogger())

	_, err := p.Publish(&Result{Seq: 1, CSS: ".a{}"})
	require.NoError(t, err)
	assert.Equal(t, ".a{}", buf.String())
	assert.Equal(t, "stdout", p.Destination())
}

type published struct {
	r        *Result
	accepted bool
}

func newTestWatcher(t *testing.T, b *Builder, pub *Publisher, debounce int) (*Watcher, chan published) {
	t.Helper()
	results := make(chan published, 8)
	w, err := NewWatcher(b, pub, WatchOptions{
		DebounceMs: debounce,
		OnResult:   func(r *Result, ok bool) { results <- published{r, ok} },
	}, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { w.Stop() })
	return w, results
}

func TestWatcher_CoalescesRapidChanges(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.html")
	c := filepath.Join(root, "c.html")
	writeFile(t, a, `<p class="p-4">`)
	writeFile(t, c, `<p class="text-center">`)

	b := newTestBuilder(t, testConfig("*.html"), root)
	out := filepath.Join(root, "out", "app.css")
	pub := NewPublisher(out, b.Latest, testLogger())

	r, err := b.Build(context.Background())
	require.NoError(t, err)
	_, err = pub.Publish(r)
	require.NoError(t, err)

	w, results := newTestWatcher(t, b, pub, 50)

	writeFile(t, a, `<p class="m-4">`)
	w.Notify(a)
	writeFile(t, c, `<p class="p-8">`)
	w.Notify(c)

	var got published
	select {
	case got = <-results:
	case <-time.After(5 * time.Second):
		t.Fatal("no rebuild")
	}
	assert.True(t, got.accepted)
	assert.Equal(t, uint64(2), got.r.Seq)
	assert.Equal(t, b.Latest(), got.r.Seq)

	select {
	case extra := <-results:
		t.Fatalf("unexpected second rebuild seq=%d", extra.r.Seq)
	case <-time.After(300 * time.Millisecond):
	}

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, ".m-4{margin:1rem}.p-8{padding:2rem}", string(data))
	assert.Equal(t, 2, pub.Stats().Writes)

	st := w.Stats()
	assert.Equal(t, 1, st.Rebuilds)
	assert.Equal(t, 1, st.Published)
	assert.Equal(t, 0, st.Pending)
}

func TestWatcher_CancelledRebuildNotPublished(t *testing.T) {
	root := t.TempDir()
	page := filepath.Join(root, "index.html")
	writeFile(t, page, `<p class="p-4">`)

	b := newTestBuilder(t, testConfig("*.html"), root)
	pub := NewPublisher(filepath.Join(root, "app.css"), b.Latest, testLogger())
	w, results := newTestWatcher(t, b, pub, 60_000)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.ctx = ctx

	w.Notify(page)
	w.flush()

	assert.Empty(t, results)
	assert.Equal(t, 0, pub.Stats().Writes)
	st := w.Stats()
	assert.Equal(t, 1, st.Cancelled)
	assert.Equal(t, 0, st.Published)
	_, err := os.Stat(filepath.Join(root, "app.css"))
	assert.True(t, os.IsNotExist(err))
}

func TestWatcher_DetectsFileWrites(t *testing.T) {
	root := t.TempDir()
	page := filepath.Join(root, "src", "index.html")
	writeFile(t, page, `<p class="p-4">`)

	b := newTestBuilder(t, testConfig("src/**/*.html"), root)
	var buf bytes.Buffer
	pub := NewWriterPublisher(&buf, b.Latest, testLogger())
	_, err := b.Build(context.Background())
	require.NoError(t, err)

	w, results := newTestWatcher(t, b, pub, 20)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	assert.True(t, w.Stats().IsRunning)

	writeFile(t, filepath.Join(root, "src", "card.html"), `<p class="m-4">`)

	deadline := time.After(5 * time.Second)
	for {
		select {
		case got := <-results:
			if bytes.Contains([]byte(got.r.CSS), []byte(".m-4{margin:1rem}")) {
				assert.Contains(t, got.r.CSS, ".p-4{padding:1rem}")
				return
			}
		case <-deadline:
			t.Fatal("new file was not picked up")
		}
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	b := newTestBuilder(t, testConfig("*.html"), t.TempDir())
	w, _ := newTestWatcher(t, b, NewWriterPublisher(&bytes.Buffer{}, nil, nil), 10)

	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
	assert.False(t, w.Stats().IsRunning)
	assert.Error(t, w.Start(context.Background()))
}
