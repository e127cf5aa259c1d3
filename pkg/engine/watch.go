package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gnana997/twgen/pkg/config"
	"github.com/gnana997/twgen/pkg/scanner"
	"github.com/gnana997/twgen/pkg/util"
)

// WatchOptions configures the watcher.
type WatchOptions struct {
	// DebounceMs is the quiet period after the last change before a rebuild
	// starts.
	DebounceMs int

	// OnResult is called after each rebuild that was not superseded,
	// whether or not the publisher accepted it.
	OnResult func(*Result, bool)
}

// DefaultWatchOptions returns the default watch options.
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{DebounceMs: config.DefaultDebounceMs}
}

// Watcher rebuilds the stylesheet when content files change.
//
// Changes are coalesced: events arriving inside the debounce window join
// one pending set, and an event arriving while a rebuild runs cancels that
// rebuild and folds its files back into the pending set. A cancelled
// rebuild is never published.
//
// **Usage:**
//
//	w, err := NewWatcher(builder, publisher, DefaultWatchOptions(), logger)
//	if err != nil {
//	    return err
//	}
//	if err := w.Start(ctx); err != nil {
//	    return err
//	}
//	defer w.Stop()
type Watcher struct {
	fsw     *fsnotify.Watcher
	builder *Builder
	pub     *Publisher
	opts    WatchOptions
	root    string
	logger  *slog.Logger

	mu       sync.Mutex
	ctx      context.Context
	pending  map[string]struct{}
	inflight map[string]struct{}
	cancel   context.CancelFunc
	gen      uint64
	timer    *time.Timer
	stats    WatcherStats
	started  bool
	stopped  bool

	wg   sync.WaitGroup
	done chan struct{}
}

// WatcherStats contains watcher counters.
type WatcherStats struct {
	Events    int
	Pending   int
	Rebuilds  int
	Cancelled int
	Failed    int
	Published int
	IsRunning bool
}

// NewWatcher creates a watcher for b's root.
func NewWatcher(b *Builder, pub *Publisher, opts WatchOptions, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	root, err := filepath.Abs(b.Root())
	if err != nil {
		fsw.Close()
		return nil, err
	}
	if opts.DebounceMs <= 0 {
		opts.DebounceMs = config.DefaultDebounceMs
	}

	return &Watcher{
		fsw:     fsw,
		builder: b,
		pub:     pub,
		opts:    opts,
		root:    root,
		logger:  util.OrDefault(logger),
		pending: make(map[string]struct{}),
		done:    make(chan struct{}),
	}, nil
}

// Start watches every non-excluded directory under the root and processes
// events in the background until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.stopped || w.started {
		w.mu.Unlock()
		return errors.New("watcher already started or stopped")
	}
	w.started = true
	w.ctx = ctx
	w.mu.Unlock()

	if _, err := w.walk(w.root); err != nil {
		return fmt.Errorf("failed to setup watches: %w", err)
	}

	w.logger.Info("watching", "root", w.root, "debounceMs", w.opts.DebounceMs)
	go w.eventLoop(ctx)
	return nil
}

// walk adds dir and its non-excluded subdirectories to the watch list and
// returns the content files found along the way.
func (w *Watcher) walk(dir string) ([]string, error) {
	cfg := w.builder.Scanner().Config()
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			if scanner.MatchPath(w.root, path, cfg) {
				files = append(files, path)
			}
			return nil
		}
		if scanner.Excluded(w.root, path, cfg) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
	return files, err
}

// Stop stops watching and waits for an in-flight rebuild to return.
//
// **Thread Safety:** Safe to call multiple times (idempotent).
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
	if w.cancel != nil {
		w.cancel()
	}
	close(w.done)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	w.logger.Info("watcher stopped")
	return err
}

func (w *Watcher) eventLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := filepath.Clean(event.Name)
	if event.Op == fsnotify.Chmod {
		return
	}
	w.logger.Debug("file event", "op", event.Op.String(), "file", path)

	if filepath.Dir(path) == w.root && slices.Contains(config.FileNames, filepath.Base(path)) {
		w.logger.Warn("configuration changed; restart to apply it", "file", path)
		return
	}

	switch {
	case event.Has(fsnotify.Create):
		info, err := os.Stat(path)
		if err == nil && info.IsDir() {
			if scanner.Excluded(w.root, path, w.builder.Scanner().Config()) {
				return
			}
			files, err := w.walk(path)
			if err != nil {
				w.logger.Warn("failed to watch new directory", "path", path, "error", err)
			}
			w.Notify(files...)
			return
		}
		w.notifyIfContent(path)

	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		// The path may have been a directory; forget every file under it.
		prefix := path + string(filepath.Separator)
		var gone []string
		for _, p := range w.builder.Scanner().Store().Paths() {
			if p == path || strings.HasPrefix(p, prefix) {
				gone = append(gone, p)
			}
		}
		w.Notify(gone...)

	case event.Has(fsnotify.Write):
		w.notifyIfContent(path)
	}
}

func (w *Watcher) notifyIfContent(path string) {
	if w.builder.Scanner().MatchPath(w.root, path) {
		w.Notify(path)
	}
}

// Notify marks paths changed and restarts the debounce window. A rebuild
// already running is cancelled and its paths rejoin the pending set.
func (w *Watcher) Notify(paths ...string) {
	if len(paths) == 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}

	w.stats.Events += len(paths)
	for _, p := range paths {
		w.pending[p] = struct{}{}
	}
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
		for p := range w.inflight {
			w.pending[p] = struct{}{}
		}
		w.inflight = nil
	}

	delay := time.Duration(w.opts.DebounceMs) * time.Millisecond
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(delay, w.flush)
}

// flush runs one rebuild over the pending set.
func (w *Watcher) flush() {
	w.mu.Lock()
	if w.stopped || len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	base := w.ctx
	if base == nil {
		base = context.Background()
	}
	ctx, cancel := context.WithCancel(base)
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	w.inflight = w.pending
	w.pending = make(map[string]struct{})
	w.cancel = cancel
	w.gen++
	gen := w.gen
	w.stats.Rebuilds++
	w.wg.Add(1)
	w.mu.Unlock()

	defer w.wg.Done()
	defer cancel()

	r, err := w.builder.Rebuild(ctx, paths)

	w.mu.Lock()
	superseded := ctx.Err() != nil
	if w.gen == gen {
		w.cancel = nil
		w.inflight = nil
	}
	switch {
	case superseded:
		w.stats.Cancelled++
	case err != nil:
		w.stats.Failed++
	}
	w.mu.Unlock()

	if superseded {
		w.logger.Debug("rebuild superseded", "files", len(paths))
		return
	}
	if err != nil {
		w.logger.Error("rebuild failed", "error", err)
		return
	}

	accepted, err := w.pub.Publish(r)
	if err != nil {
		w.logger.Error("publish failed", "error", err)
	}
	if accepted {
		w.mu.Lock()
		w.stats.Published++
		w.mu.Unlock()
	}
	if w.opts.OnResult != nil {
		w.opts.OnResult(r, accepted)
	}
}

// Stats returns watcher counters.
func (w *Watcher) Stats() WatcherStats {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := w.stats
	s.Pending = len(w.pending)
	s.IsRunning = w.started && !w.stopped
	return s
}
