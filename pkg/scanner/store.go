package scanner

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Signature identifies one version of a file's content.
type Signature struct {
	ModTime time.Time
	Size    int64
	Hash    string
}

type fileEntry struct {
	sig    Signature
	tokens []string
}

// Store holds the candidate set as the union of per-file token sets. Tokens
// are reference counted across files so removing a file only drops tokens no
// other file mentions.
//
// Store is safe for concurrent use; file reads never happen under its lock.
type Store struct {
	mu     sync.RWMutex
	files  map[string]fileEntry
	counts map[string]int

	// cache maps a content hash to its tokens, so identical content
	// (renamed or reverted files) skips tokenization.
	cache *lru.Cache[string, []string]

	hits   atomic.Int64
	misses atomic.Int64
}

// StoreStats reports store contents and cache effectiveness.
type StoreStats struct {
	Files       int
	Candidates  int
	CacheHits   int64
	CacheMisses int64
}

// NewStore returns an empty store. cacheSize <= 0 disables the token cache.
func NewStore(cacheSize int) *Store {
	s := &Store{
		files:  make(map[string]fileEntry),
		counts: make(map[string]int),
	}
	if cacheSize > 0 {
		s.cache, _ = lru.New[string, []string](cacheSize)
	}
	return s
}

// ContentHash returns the hex SHA-256 of content.
func ContentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// MergeFile replaces the tokens recorded for path. It reports whether the
// candidate set changed.
func (s *Store) MergeFile(path string, sig Signature, tokens []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, existed := s.files[path]
	s.files[path] = fileEntry{sig: sig, tokens: tokens}

	changed := false
	for _, t := range tokens {
		if s.counts[t] == 0 {
			changed = true
		}
		s.counts[t]++
	}
	if existed {
		for _, t := range old.tokens {
			if s.release(t) {
				changed = true
			}
		}
	}
	return changed
}

// RemoveFile forgets path. It reports whether the candidate set changed.
func (s *Store) RemoveFile(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.files[path]
	if !ok {
		return false
	}
	delete(s.files, path)

	changed := false
	for _, t := range old.tokens {
		if s.release(t) {
			changed = true
		}
	}
	return changed
}

// release decrements t and reports whether it left the set.
func (s *Store) release(t string) bool {
	n := s.counts[t] - 1
	if n <= 0 {
		delete(s.counts, t)
		return true
	}
	s.counts[t] = n
	return false
}

// Signature returns the recorded signature for path.
func (s *Store) Signature(path string) (Signature, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.files[path]
	return e.sig, ok
}

// Paths returns the recorded file paths, sorted.
func (s *Store) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.files))
	for p := range s.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// CachedTokens looks up tokens by content hash.
func (s *Store) CachedTokens(hash string) ([]string, bool) {
	if s.cache == nil {
		return nil, false
	}
	tokens, ok := s.cache.Get(hash)
	if ok {
		s.hits.Add(1)
	} else {
		s.misses.Add(1)
	}
	return tokens, ok
}

// CacheTokens records tokens for a content hash.
func (s *Store) CacheTokens(hash string, tokens []string) {
	if s.cache != nil {
		s.cache.Add(hash, tokens)
	}
}

// Snapshot returns the current candidate set, sorted. The slice is a copy.
func (s *Store) Snapshot() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.counts))
	for t := range s.counts {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of distinct candidates.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.counts)
}

// Stats returns a point-in-time summary.
func (s *Store) Stats() StoreStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StoreStats{
		Files:       len(s.files),
		Candidates:  len(s.counts),
		CacheHits:   s.hits.Load(),
		CacheMisses: s.misses.Load(),
	}
}
