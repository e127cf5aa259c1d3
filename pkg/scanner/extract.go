package scanner

import (
	"context"
	"log/slog"

	"github.com/gnana997/twgen/pkg/parser"
	"github.com/gnana997/twgen/pkg/parser/queries"
)

// Extractor turns file contents into candidate tokens.
type Extractor struct {
	pm      *parser.ParserManager
	qm      *queries.QueryManager
	precise bool
	logger  *slog.Logger
}

// NewExtractor creates an extractor. When precise is false the parser pools
// are never created and every file is scanned lexically.
func NewExtractor(precise bool, poolSize int, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Extractor{precise: precise, logger: logger}
	if precise {
		e.pm = parser.NewParserManager(logger, poolSize)
		e.qm = queries.NewQueryManager(logger)
	}
	return e
}

// Extract returns the sorted candidate tokens in data. The second result
// reports whether syntax-aware extraction was used.
func (e *Extractor) Extract(ctx context.Context, path string, data []byte) ([]string, bool) {
	if e.precise {
		if g, ok := parser.DetectGrammar(path); ok {
			if tokens, ok := e.extractPrecise(ctx, g, path, data); ok {
				return tokens, true
			}
		}
	}
	return Tokenize(data), false
}

// extractPrecise tokenizes only string literals. It reports false when the
// tree has syntax errors so the caller falls back to a lexical scan.
func (e *Extractor) extractPrecise(ctx context.Context, g parser.Grammar, path string, data []byte) ([]string, bool) {
	tree, err := e.pm.Parse(ctx, data, g)
	if err != nil {
		e.logger.Debug("precise parse failed", "file", path, "error", err)
		return nil, false
	}
	defer tree.Close()

	if tree.RootNode().HasError() {
		e.logger.Debug("syntax errors, falling back to lexical scan", "file", path)
		return nil, false
	}

	literals, err := e.qm.Literals(tree, g, data)
	if err != nil {
		e.logger.Debug("string query failed", "file", path, "error", err)
		return nil, false
	}

	set := make(map[string]struct{})
	for _, lit := range literals {
		collect([]byte(lit), set)
	}
	return sortedSet(set), true
}

// Close frees parser and query resources.
func (e *Extractor) Close() {
	if e.qm != nil {
		e.qm.Close()
	}
	if e.pm != nil {
		e.pm.Close()
	}
}
