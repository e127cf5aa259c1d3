// Package parser wraps tree-sitter grammars for the precise scanner. It keeps
// one lazily-built parser pool per grammar so workers can parse concurrently.
package parser

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// ParserManager owns the per-grammar parser pools. Callers own the returned
// trees and must Close them.
//
// Example:
//
//	pm := NewParserManager(logger, 0)
//	defer pm.Close()
//
//	tree, err := pm.ParseFile(ctx, src, "app.tsx")
//	if err != nil {
//	    return err
//	}
//	defer tree.Close()
type ParserManager struct {
	pools    map[Grammar]*parserPool
	mu       sync.RWMutex
	poolSize int
	parses   atomic.Int64
	errTrees atomic.Int64
	logger   *slog.Logger
}

// NewParserManager creates a manager. poolSize <= 0 sizes pools by CPU count.
func NewParserManager(logger *slog.Logger, poolSize int) *ParserManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &ParserManager{
		pools:    make(map[Grammar]*parserPool),
		poolSize: poolSize,
		logger:   logger,
	}
}

// Parse parses source with grammar g. Trees containing syntax errors are
// still returned; string literals outside the broken region stay usable.
func (pm *ParserManager) Parse(ctx context.Context, source []byte, g Grammar) (*ts.Tree, error) {
	if g.Lang == LanguageUnknown {
		return nil, fmt.Errorf("cannot parse unknown language")
	}
	pm.parses.Add(1)

	pool, err := pm.pool(g)
	if err != nil {
		return nil, err
	}
	parser, err := pool.acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire %s parser: %w", g, err)
	}
	tree := parser.Parse(source, nil)
	pool.release(parser)

	if tree == nil {
		return nil, fmt.Errorf("%s parser returned no tree", g)
	}
	if tree.RootNode().HasError() {
		pm.errTrees.Add(1)
	}
	return tree, nil
}

// ParseFile detects the grammar from path and parses source.
func (pm *ParserManager) ParseFile(ctx context.Context, source []byte, path string) (*ts.Tree, error) {
	g, ok := DetectGrammar(path)
	if !ok {
		return nil, fmt.Errorf("unsupported file extension: %s", path)
	}
	return pm.Parse(ctx, source, g)
}

// Close frees all pooled parsers. The manager is unusable afterwards.
func (pm *ParserManager) Close() error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	closed := 0
	for _, p := range pm.pools {
		closed += p.close()
	}
	pm.pools = make(map[Grammar]*parserPool)

	pm.logger.Debug("closed parser manager",
		"parsers_closed", closed,
		"parses", pm.parses.Load())
	return nil
}

func (pm *ParserManager) pool(g Grammar) (*parserPool, error) {
	pm.mu.RLock()
	p, ok := pm.pools[g]
	pm.mu.RUnlock()
	if ok {
		return p, nil
	}

	pm.mu.Lock()
	defer pm.mu.Unlock()
	if p, ok = pm.pools[g]; ok {
		return p, nil
	}
	langPtr, err := LanguagePointer(g)
	if err != nil {
		return nil, err
	}
	size := poolSize(pm.poolSize)
	p = newParserPool(g, langPtr, size, pm.logger)
	pm.pools[g] = p
	pm.logger.Debug("created parser pool", "grammar", g.String(), "max", size)
	return p, nil
}

// LanguagePointer returns the raw tree-sitter grammar for g. Queries must be
// compiled against the same grammar the tree was parsed with.
func LanguagePointer(g Grammar) (unsafe.Pointer, error) {
	switch g.Lang {
	case LanguageTypeScript:
		if g.IsTSX {
			return ts_typescript.LanguageTSX(), nil
		}
		return ts_typescript.LanguageTypescript(), nil
	case LanguageJavaScript:
		return ts_javascript.Language(), nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", g.Lang)
	}
}

// Stats returns parser usage counters.
func (pm *ParserManager) Stats() ParserStats {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	created := 0
	for _, p := range pm.pools {
		created += p.createdCount()
	}
	return ParserStats{
		ParsersCreated: created,
		ParsesCalled:   int(pm.parses.Load()),
		TreesWithError: int(pm.errTrees.Load()),
	}
}

// ParserStats contains parser usage statistics.
type ParserStats struct {
	ParsersCreated int
	ParsesCalled   int
	TreesWithError int
}
