package scanner

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestScanner(t *testing.T, cfg ScanConfig) *Scanner {
	t.Helper()
	s := New(cfg, nil, testLogger())
	t.Cleanup(s.Close)
	return s
}

func TestScanAll_Fixture(t *testing.T) {
	s := newTestScanner(t, DefaultScanConfig())

	res, err := s.ScanAll(context.Background(), "testdata/project")
	require.NoError(t, err)
	assert.Equal(t, 4, res.Stats.FilesDiscovered)
	assert.Equal(t, 4, res.Stats.FilesScanned)
	assert.Equal(t, 0, res.Stats.FilesFailed)
	assert.Equal(t, 1, res.Stats.PreciseFiles, "card.tsx parses; broken.ts falls back")

	snap := s.Store().Snapshot()
	for _, want := range []string{
		// index.html
		"min-h-screen", "dark:bg-gray-900", "md:text-lg", "p-4",
		// app.rs
		"text-center", "font-bold", "inline-block", "bg-green-500", "w-[33%]", "md:hover:bg-brand-500",
		// card.tsx string literals
		"rounded-lg", "ring-2", "opacity-50", "grid-cols-[repeat(3,minmax(0,1fr))]",
		// broken.ts lexical fallback
		"flex", "items-center",
	} {
		assert.Contains(t, snap, want)
	}
	assert.NotContains(t, snap, "hover:never-extracted", "comments are skipped in precise mode")
	assert.NotContains(t, snap, "should-not-appear", "node_modules is excluded")
	assert.NotContains(t, snap, "fill-current", "svg is not a content file")
}

func TestScanAll_LexicalOnly(t *testing.T) {
	cfg := DefaultScanConfig()
	cfg.Precise = false
	s := newTestScanner(t, cfg)

	res, err := s.ScanAll(context.Background(), "testdata/project")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Stats.PreciseFiles)
	assert.Contains(t, s.Store().Snapshot(), "hover:never-extracted")
}

func TestScanAll_WarmPassSkipsUnchanged(t *testing.T) {
	s := newTestScanner(t, DefaultScanConfig())

	_, err := s.ScanAll(context.Background(), "testdata/project")
	require.NoError(t, err)

	res, err := s.ScanAll(context.Background(), "testdata/project")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Stats.FilesScanned)
	assert.Equal(t, 4, res.Stats.FilesUnchanged)
}

func TestScanAll_ForgetsVanishedFiles(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, tmp, "a.html", `<p class="p-4">`)
	writeFile(t, tmp, "b.html", `<p class="m-8">`)

	s := newTestScanner(t, DefaultScanConfig())
	_, err := s.ScanAll(context.Background(), tmp)
	require.NoError(t, err)
	require.Contains(t, s.Store().Snapshot(), "m-8")

	require.NoError(t, os.Remove(filepath.Join(tmp, "b.html")))
	res, err := s.ScanAll(context.Background(), tmp)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Stats.FilesRemoved)
	assert.NotContains(t, s.Store().Snapshot(), "m-8")
	assert.Contains(t, s.Store().Snapshot(), "p-4")
}

func TestScanAll_ContentHashCache(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, tmp, "a.html", `<p class="p-4 flex">`)
	writeFile(t, tmp, "b.html", `<p class="p-4 flex">`)

	cfg := DefaultScanConfig()
	cfg.Workers = 1
	s := newTestScanner(t, cfg)

	res, err := s.ScanAll(context.Background(), tmp)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Stats.FilesScanned)
	assert.Equal(t, 1, res.Stats.CacheHits)
}

func TestScanAll_UnreadableFileIsNonFatal(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("root can read mode 0000 files")
	}
	tmp := t.TempDir()
	writeFile(t, tmp, "ok.html", `<p class="p-4">`)
	writeFile(t, tmp, "locked.html", `<p class="m-4">`)
	require.NoError(t, os.Chmod(filepath.Join(tmp, "locked.html"), 0))

	s := newTestScanner(t, DefaultScanConfig())
	res, err := s.ScanAll(context.Background(), tmp)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Stats.FilesFailed)
	require.Len(t, res.IOErrors, 1)
	var ioErr *ScanIOError
	assert.True(t, errors.As(res.IOErrors[0], &ioErr))
	assert.Contains(t, s.Store().Snapshot(), "p-4")
}

func TestScanAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := newTestScanner(t, DefaultScanConfig())
	_, err := s.ScanAll(ctx, "testdata/project")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRescan(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, tmp, "a.html", `<p class="p-4">`)
	writeFile(t, tmp, "b.html", `<p class="m-2">`)

	s := newTestScanner(t, DefaultScanConfig())
	_, err := s.ScanAll(context.Background(), tmp)
	require.NoError(t, err)

	writeFile(t, tmp, "a.html", `<p class="p-8">`)
	writeFile(t, tmp, "c.html", `<p class="gap-4">`)
	require.NoError(t, os.Remove(filepath.Join(tmp, "b.html")))
	writeFile(t, tmp, "notes.txt", `<p class="ignored-txt">`)

	res, err := s.Rescan(context.Background(), tmp, []string{
		filepath.Join(tmp, "a.html"),
		"b.html",
		"c.html",
		"notes.txt",
		"a.html",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Stats.FilesScanned)
	assert.Equal(t, 1, res.Stats.FilesRemoved)

	snap := s.Store().Snapshot()
	assert.Contains(t, snap, "p-8")
	assert.Contains(t, snap, "gap-4")
	assert.NotContains(t, snap, "p-4")
	assert.NotContains(t, snap, "m-2")
	assert.NotContains(t, snap, "ignored-txt")
}

func TestRescan_CancelledThenRetried(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, tmp, "a.html", `<p class="p-4">`)

	s := newTestScanner(t, DefaultScanConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Rescan(ctx, tmp, []string{"a.html"})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = s.Rescan(context.Background(), tmp, []string{"a.html"})
	require.NoError(t, err)
	assert.Equal(t, []string{"class", "p", "p-4"}, s.Store().Snapshot())
}

func TestScan_Iterator(t *testing.T) {
	s := newTestScanner(t, DefaultScanConfig())

	seen := make(map[string]string)
	for tok := range s.Scan(context.Background(), "testdata/project", []string{"./src/**/*.rs"}) {
		seen[tok.Text] = filepath.Base(tok.Path)
	}
	assert.Equal(t, "app.rs", seen["md:hover:bg-brand-500"])
	assert.NotContains(t, seen, "min-h-screen", "index.html is outside the pattern")
	assert.Equal(t, 0, s.Store().Len(), "Scan does not write the store")

	// Restartable, and stops early when the consumer does.
	n := 0
	for range s.Scan(context.Background(), "testdata/project", nil) {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}

func TestScan_StopsOnCancel(t *testing.T) {
	s := newTestScanner(t, DefaultScanConfig())
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	n := 0
	for range s.Scan(ctx, "testdata/project", nil) {
		n++
	}
	assert.Zero(t, n)
}
