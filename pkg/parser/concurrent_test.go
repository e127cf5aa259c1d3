package parser

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcurrentParsing(t *testing.T) {
	const size = 4
	pm := NewParserManager(testLogger(), size)
	defer pm.Close()

	const goroutines = 64
	var wg sync.WaitGroup
	errs := make(chan error, goroutines)

	grammars := []Grammar{
		{Lang: LanguageTypeScript},
		{Lang: LanguageTypeScript, IsTSX: true},
		{Lang: LanguageJavaScript},
	}
	for i := range goroutines {
		wg.Add(1)
		go func(g Grammar) {
			defer wg.Done()
			tree, err := pm.Parse(context.Background(), []byte(`const c = "px-2 py-1";`), g)
			if err != nil {
				errs <- err
				return
			}
			tree.Close()
		}(grammars[i%len(grammars)])
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("parse failed: %v", err)
	}

	stats := pm.Stats()
	assert.Equal(t, goroutines, stats.ParsesCalled)
	assert.LessOrEqual(t, stats.ParsersCreated, size*len(grammars))
	assert.GreaterOrEqual(t, stats.ParsersCreated, len(grammars))
}

func TestPoolAcquire_RespectsContext(t *testing.T) {
	pm := NewParserManager(testLogger(), 1)
	defer pm.Close()

	g := Grammar{Lang: LanguageJavaScript}
	pool, err := pm.pool(g)
	require.NoError(t, err)

	held, err := pool.acquire(context.Background())
	require.NoError(t, err)
	defer pool.release(held)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = pool.acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPoolRelease_AfterClose(t *testing.T) {
	pm := NewParserManager(testLogger(), 1)

	pool, err := pm.pool(Grammar{Lang: LanguageTypeScript})
	require.NoError(t, err)
	p, err := pool.acquire(context.Background())
	require.NoError(t, err)

	require.NoError(t, pm.Close())
	pool.release(p)

	_, err = pool.acquire(context.Background())
	assert.ErrorContains(t, err, "closed")
}
