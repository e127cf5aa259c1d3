// Package queries compiles and runs tree-sitter queries that pull string
// literals out of JavaScript and TypeScript sources.
package queries

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/twgen/pkg/parser"
)

// QueryManager compiles the string query once per grammar and caches it.
// Compiled queries are freed by Close.
type QueryManager struct {
	cache  map[parser.Grammar]*ts.Query
	mu     sync.RWMutex
	logger *slog.Logger
}

// NewQueryManager creates a query manager. A nil logger uses slog.Default.
func NewQueryManager(logger *slog.Logger) *QueryManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryManager{
		cache:  make(map[parser.Grammar]*ts.Query),
		logger: logger,
	}
}

// GetQuery returns the compiled string query for g.
func (qm *QueryManager) GetQuery(g parser.Grammar) (*ts.Query, error) {
	qm.mu.RLock()
	q, ok := qm.cache[g]
	qm.mu.RUnlock()
	if ok {
		return q, nil
	}

	qm.mu.Lock()
	defer qm.mu.Unlock()
	if q, ok = qm.cache[g]; ok {
		return q, nil
	}

	langPtr, err := parser.LanguagePointer(g)
	if err != nil {
		return nil, err
	}
	src := StringQuery
	if g.IsTSX || g.Lang == parser.LanguageJavaScript {
		src += JSXQuery
	}
	q, qerr := ts.NewQuery(ts.NewLanguage(langPtr), src)
	if qerr != nil {
		return nil, fmt.Errorf("compile string query for %s: %s", g, qerr.Message)
	}
	qm.cache[g] = q
	qm.logger.Debug("compiled query", "grammar", g.String())
	return q, nil
}

// ExecuteQuery runs query over tree and returns every match.
func (qm *QueryManager) ExecuteQuery(tree *ts.Tree, query *ts.Query, source []byte) ([]QueryMatch, error) {
	if tree == nil {
		return nil, fmt.Errorf("tree is nil")
	}
	if query == nil {
		return nil, fmt.Errorf("query is nil")
	}

	cursor := ts.NewQueryCursor()
	defer cursor.Close()

	names := query.CaptureNames()
	it := cursor.Matches(query, tree.RootNode(), source)

	var matches []QueryMatch
	for m := it.Next(); m != nil; m = it.Next() {
		captures := make([]QueryCapture, 0, len(m.Captures))
		for _, c := range m.Captures {
			var name string
			if int(c.Index) < len(names) {
				name = names[c.Index]
			}
			category, field := parseCaptureName(name)
			captures = append(captures, QueryCapture{
				Name:     name,
				Category: category,
				Field:    field,
				Text:     c.Node.Utf8Text(source),
				Location: nodeLocation(&c.Node),
			})
		}
		matches = append(matches, QueryMatch{
			PatternIndex: uint32(m.PatternIndex),
			Captures:     captures,
		})
	}
	return matches, nil
}

// Literals runs the string query for g over a parsed tree and returns the
// raw literal texts in source order.
func (qm *QueryManager) Literals(tree *ts.Tree, g parser.Grammar, source []byte) ([]string, error) {
	q, err := qm.GetQuery(g)
	if err != nil {
		return nil, err
	}
	matches, err := qm.ExecuteQuery(tree, q, source)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, m := range matches {
		for _, c := range m.Captures {
			out = append(out, c.Text)
		}
	}
	return out, nil
}

// Close frees all compiled queries.
func (qm *QueryManager) Close() error {
	qm.mu.Lock()
	defer qm.mu.Unlock()
	for g, q := range qm.cache {
		q.Close()
		delete(qm.cache, g)
	}
	return nil
}

// QueryMatch is one pattern match.
type QueryMatch struct {
	PatternIndex uint32
	Captures     []QueryCapture
}

// QueryCapture is one captured node.
type QueryCapture struct {
	// Name is the full capture name, e.g. "string.literal".
	Name string

	// Category and Field are Name split at the first dot.
	Category string
	Field    string

	Text     string
	Location Location
}

// Location is a source span. Lines and columns are 1-based; bytes 0-based.
type Location struct {
	StartLine   uint32
	StartColumn uint32
	EndLine     uint32
	EndColumn   uint32
	StartByte   uint32
	EndByte     uint32
}

func parseCaptureName(name string) (category, field string) {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return name, ""
}

func nodeLocation(node *ts.Node) Location {
	start := node.StartPosition()
	end := node.EndPosition()
	return Location{
		StartLine:   uint32(start.Row + 1),
		StartColumn: uint32(start.Column + 1),
		EndLine:     uint32(end.Row + 1),
		EndColumn:   uint32(end.Column + 1),
		StartByte:   uint32(node.StartByte()),
		EndByte:     uint32(node.EndByte()),
	}
}
