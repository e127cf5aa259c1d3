package parser

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// parserPool hands out parsers for one grammar. Parsers are created lazily
// up to max; past that, acquire waits for a release or for ctx to end.
type parserPool struct {
	idle    chan *ts.Parser
	langPtr unsafe.Pointer
	grammar Grammar
	max     int

	mu      sync.Mutex
	created int
	closed  bool

	logger *slog.Logger
}

func newParserPool(g Grammar, langPtr unsafe.Pointer, max int, logger *slog.Logger) *parserPool {
	return &parserPool{
		idle:    make(chan *ts.Parser, max),
		langPtr: langPtr,
		grammar: g,
		max:     max,
		logger:  logger,
	}
}

func (p *parserPool) acquire(ctx context.Context) (*ts.Parser, error) {
	select {
	case parser := <-p.idle:
		return parser, nil
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, fmt.Errorf("parser pool for %s is closed", p.grammar)
	}
	if p.created < p.max {
		parser := ts.NewParser()
		if err := parser.SetLanguage(ts.NewLanguage(p.langPtr)); err != nil {
			p.mu.Unlock()
			parser.Close()
			return nil, fmt.Errorf("set %s grammar: %w", p.grammar, err)
		}
		p.created++
		p.logger.Debug("created parser", "grammar", p.grammar.String(), "pool_size", p.created)
		p.mu.Unlock()
		return parser, nil
	}
	p.mu.Unlock()

	select {
	case parser := <-p.idle:
		return parser, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *parserPool) release(parser *ts.Parser) {
	if parser == nil {
		return
	}
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		parser.Close()
		return
	}
	select {
	case p.idle <- parser:
	default:
		parser.Close()
	}
}

// close frees idle parsers. Parsers still checked out are freed on release.
func (p *parserPool) close() int {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	n := 0
	for {
		select {
		case parser := <-p.idle:
			parser.Close()
			n++
		default:
			return n
		}
	}
}

func (p *parserPool) createdCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.created
}
