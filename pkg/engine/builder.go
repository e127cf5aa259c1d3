// Package engine wires the pipeline together: theme resolution and utility
// generation run alongside the content scan, then purge and emit produce the
// stylesheet. It also provides last-write-wins publishing and watch mode.
package engine

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/gnana997/twgen/pkg/config"
	"github.com/gnana997/twgen/pkg/emit"
	"github.com/gnana997/twgen/pkg/plugin"
	"github.com/gnana997/twgen/pkg/purge"
	"github.com/gnana997/twgen/pkg/scanner"
	"github.com/gnana997/twgen/pkg/theme"
	"github.com/gnana997/twgen/pkg/util"
	"github.com/gnana997/twgen/pkg/utility"
	"github.com/gnana997/twgen/pkg/variant"
)

// Options tune output rendering.
type Options struct {
	Pretty bool
	Banner string
}

// Builder owns everything computed once per configuration (theme, universe,
// variant registry) and the scanner whose store changes between builds.
//
// Build and Rebuild are safe to call concurrently; each takes a new
// sequence number when it starts.
type Builder struct {
	cfg      *config.Config
	root     string
	opts     Options
	plugins  *plugin.Set
	safelist purge.Safelist
	scanner  *scanner.Scanner
	logger   *slog.Logger

	prepare  func() error
	theme    *theme.Theme
	universe *utility.Universe
	registry *variant.Registry

	seq atomic.Uint64
}

// NewBuilder validates the parts of cfg that do not need the file system
// (plugins, safelist) and creates the scanner. It does no I/O.
func NewBuilder(cfg *config.Config, root string, opts Options, logger *slog.Logger) (*Builder, error) {
	logger = util.OrDefault(logger)
	if cfg == nil {
		cfg = config.Default()
	}

	plugins, err := plugin.Resolve(cfg.Plugins)
	if err != nil {
		return nil, err
	}
	sl, err := purge.NewSafelist(cfg.Safelist...)
	if err != nil {
		return nil, err
	}

	scfg := scanner.DefaultScanConfig()
	if len(cfg.Content) > 0 {
		scfg.Include = cfg.Content
	}
	scfg.Exclude = append(slices.Clone(scfg.Exclude), cfg.Exclude...)
	scfg.Precise = cfg.PreciseScan()
	scfg.Workers = cfg.Scanner.Workers
	scfg.CacheSize = cfg.Scanner.CacheSize

	b := &Builder{
		cfg:      cfg,
		root:     root,
		opts:     opts,
		plugins:  plugins,
		safelist: sl,
		scanner:  scanner.New(scfg, nil, logger),
		logger:   logger,
	}
	b.prepare = sync.OnceValue(b.generate)
	return b, nil
}

// generate resolves the theme and builds the universe and registry.
func (b *Builder) generate() error {
	start := time.Now()

	t, err := theme.Replace(nil, b.cfg.ThemeOverrides())
	if err != nil {
		return err
	}
	t, err = theme.Resolve(t, b.cfg.ThemeExtension())
	if err != nil {
		return err
	}

	u, err := utility.NewGenerator(b.logger).Generate(t, b.plugins.Utilities...)
	if err != nil {
		return err
	}
	reg, err := variant.NewRegistry(t, b.plugins.Variants...)
	if err != nil {
		return err
	}

	b.theme, b.universe, b.registry = t, u, reg
	b.logger.Info("utilities generated",
		"tokens", t.TokenCount(),
		"utilities", u.Len(),
		"variants", len(reg.Names()),
		"ms", time.Since(start).Milliseconds())
	return nil
}

// Prepare resolves the theme and generates the universe without scanning.
// It is idempotent; Build calls it implicitly.
func (b *Builder) Prepare() error {
	return b.prepare()
}

// Build runs a full pass: theme and universe generation in parallel with the
// content scan, then purge and emit.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	seq := b.seq.Add(1)
	start := time.Now()

	var scan *scanner.ScanResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(b.prepare)
	g.Go(func() error {
		var err error
		scan, err = b.scanner.ScanAll(gctx, b.root)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := scan.Discovery.Err(); err != nil && b.safelist.Empty() {
		return nil, err
	}
	return b.finish(seq, start, scan), nil
}

// Rebuild rescans only paths and regenerates the stylesheet. The theme and
// universe from the first Build are reused.
func (b *Builder) Rebuild(ctx context.Context, paths []string) (*Result, error) {
	seq := b.seq.Add(1)
	start := time.Now()

	if err := b.prepare(); err != nil {
		return nil, err
	}
	scan, err := b.scanner.Rescan(ctx, b.root, paths)
	if err != nil {
		return nil, err
	}
	return b.finish(seq, start, scan), nil
}

func (b *Builder) finish(seq uint64, start time.Time, scan *scanner.ScanResult) *Result {
	candidates := b.scanner.Store().Snapshot()
	pr := purge.Purge(b.universe, candidates, b.safelist, b.registry)
	css := emit.Emit(pr.Retained, b.emitOptions())

	var warnings *multierror.Error
	if d := scan.Discovery; d != nil {
		if err := d.Err(); err != nil {
			warnings = multierror.Append(warnings, err)
		} else if unmatched := d.Unmatched(); len(unmatched) > 0 {
			warnings = multierror.Append(warnings, &scanner.GlobResolutionError{Root: d.Root, Patterns: unmatched})
		}
	}
	for _, e := range scan.IOErrors {
		b.logger.Debug("file skipped", "file", e.Path, "error", e.Err)
		warnings = multierror.Append(warnings, e)
	}
	for _, e := range pr.Dropped {
		b.logger.Debug("candidate dropped", "token", e.Token, "variant", e.Variant)
		warnings = multierror.Append(warnings, e)
	}

	r := &Result{
		Seq:      seq,
		CSS:      css,
		Retained: pr.Retained,
		Warnings: warnings,
		Stats: Stats{
			Files:      b.scanner.Store().Stats().Files,
			Scanned:    scan.Stats.FilesScanned,
			Failed:     scan.Stats.FilesFailed,
			Candidates: len(candidates),
			Utilities:  b.universe.Len(),
			Retained:   len(pr.Retained),
			Dropped:    len(pr.Dropped),
			Bytes:      len(css),
			Duration:   time.Since(start),
		},
	}
	b.logger.Info("build complete",
		"seq", seq,
		"files", r.Stats.Files,
		"candidates", r.Stats.Candidates,
		"retained", r.Stats.Retained,
		"bytes", r.Stats.Bytes,
		"ms", r.Stats.Duration.Milliseconds())
	return r
}

func (b *Builder) emitOptions() emit.Options {
	return emit.Options{
		Preflight: b.cfg.PreflightEnabled(),
		Pretty:    b.opts.Pretty,
		Banner:    b.opts.Banner,
	}
}

// Latest returns the sequence number of the newest started build.
func (b *Builder) Latest() uint64 { return b.seq.Load() }

// Root returns the scan root.
func (b *Builder) Root() string { return b.root }

// Config returns the build configuration.
func (b *Builder) Config() *config.Config { return b.cfg }

// Scanner returns the content scanner.
func (b *Builder) Scanner() *scanner.Scanner { return b.scanner }

// Theme returns the resolved theme, preparing it if needed.
func (b *Builder) Theme() (*theme.Theme, error) {
	if err := b.prepare(); err != nil {
		return nil, err
	}
	return b.theme, nil
}

// Universe returns the generated utilities, preparing them if needed.
func (b *Builder) Universe() (*utility.Universe, error) {
	if err := b.prepare(); err != nil {
		return nil, err
	}
	return b.universe, nil
}

// Resolve returns the definition a single class token produces.
func (b *Builder) Resolve(token string) (utility.Definition, bool, error) {
	if err := b.prepare(); err != nil {
		return utility.Definition{}, false, err
	}
	return variant.Resolver{Universe: b.universe, Registry: b.registry}.Resolve(token)
}

// CSSFor emits the rules for classes alone, without preflight or safelist.
// Unknown classes are reported, not fatal.
func (b *Builder) CSSFor(classes []string, pretty bool) (string, *purge.Result, error) {
	if err := b.prepare(); err != nil {
		return "", nil, err
	}
	pr := purge.Purge(b.universe, classes, purge.Safelist{}, b.registry)
	return emit.Emit(pr.Retained, emit.Options{Pretty: pretty}), pr, nil
}

// Close releases scanner resources.
func (b *Builder) Close() {
	b.scanner.Close()
}
