package scanner

import (
	"context"
	"errors"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gnana997/twgen/pkg/util"
)

// Scanner discovers content files and keeps the candidate Store current.
type Scanner struct {
	cfg    ScanConfig
	store  *Store
	reader *util.SourceReader
	ext    *Extractor
	logger *slog.Logger
}

// New creates a scanner writing into store. A nil store is created from
// cfg.CacheSize.
func New(cfg ScanConfig, store *Store, logger *slog.Logger) *Scanner {
	logger = util.OrDefault(logger)
	if store == nil {
		store = NewStore(cfg.CacheSize)
	}
	return &Scanner{
		cfg:    cfg,
		store:  store,
		reader: util.NewSourceReader(logger),
		ext:    NewExtractor(cfg.Precise, cfg.Workers, logger),
		logger: logger,
	}
}

// Config returns the scan configuration.
func (s *Scanner) Config() ScanConfig { return s.cfg }

// Store returns the candidate store.
func (s *Scanner) Store() *Store { return s.store }

// ReaderStats returns file read counters.
func (s *Scanner) ReaderStats() util.SourceReaderStats { return s.reader.Stats() }

// Close releases parser resources.
func (s *Scanner) Close() {
	s.ext.Close()
}

// Scan lazily yields the candidate tokens of every file matched by patterns
// under root, file by file in path order. Each range re-walks the tree; the
// store is not touched. A nil patterns slice uses the configured includes.
// Unreadable files are logged and skipped.
func (s *Scanner) Scan(ctx context.Context, root string, patterns []string) iter.Seq[CandidateToken] {
	return func(yield func(CandidateToken) bool) {
		cfg := s.cfg
		if patterns != nil {
			cfg.Include = patterns
		}
		d, err := DiscoverFiles(root, cfg)
		if err != nil {
			s.logger.Warn("discovery failed", "root", root, "error", err)
			return
		}
		for _, path := range d.Files {
			if ctx.Err() != nil {
				return
			}
			res, err := s.process(ctx, fileJob{Path: path})
			if err != nil {
				s.logger.Debug("scan failed", "file", path, "error", err)
				continue
			}
			for _, t := range res.Tokens {
				if !yield(CandidateToken{Text: t, Path: path}) {
					return
				}
			}
		}
	}
}

// ScanAll performs a cold (or warm) scan of root: it discovers files,
// tokenizes every file whose signature changed since the last pass on a
// worker pool, merges results into the store, and forgets files that no
// longer match.
func (s *Scanner) ScanAll(ctx context.Context, root string) (*ScanResult, error) {
	start := time.Now()

	d, err := DiscoverFiles(root, s.cfg)
	if err != nil {
		return nil, err
	}
	result := &ScanResult{Discovery: d}
	result.Stats.FilesDiscovered = len(d.Files)

	current := make(map[string]struct{}, len(d.Files))
	var todo []string
	for _, path := range d.Files {
		current[path] = struct{}{}
		if s.unchanged(path) {
			result.Stats.FilesUnchanged++
			continue
		}
		todo = append(todo, path)
	}
	for _, path := range s.store.Paths() {
		if _, ok := current[path]; !ok && s.store.RemoveFile(path) {
			result.Stats.FilesRemoved++
		}
	}

	err = s.run(ctx, todo, result)
	result.Stats.Candidates = s.store.Len()
	result.Stats.Duration = time.Since(start)

	s.logger.Info("scan complete",
		"files", result.Stats.FilesDiscovered,
		"scanned", result.Stats.FilesScanned,
		"unchanged", result.Stats.FilesUnchanged,
		"failed", result.Stats.FilesFailed,
		"candidates", result.Stats.Candidates,
		"ms", result.Stats.Duration.Milliseconds())
	return result, err
}

// Rescan re-reads only the given paths (absolute or relative to root).
// Paths that vanished or no longer match the content globs are removed from
// the store. Cancelling ctx stops outstanding reads; files already merged
// stay merged, so rescanning the same paths later is safe.
func (s *Scanner) Rescan(ctx context.Context, root string, paths []string) (*ScanResult, error) {
	start := time.Now()
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	result := &ScanResult{}
	var todo []string
	seen := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(absRoot, p)
		}
		p = filepath.Clean(p)
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}

		info, statErr := os.Stat(p)
		if errors.Is(statErr, fs.ErrNotExist) || (statErr == nil && info.IsDir()) || !MatchPath(absRoot, p, s.cfg) {
			if s.store.RemoveFile(p) {
				result.Stats.FilesRemoved++
			}
			continue
		}
		todo = append(todo, p)
	}

	err = s.run(ctx, todo, result)
	result.Stats.Candidates = s.store.Len()
	result.Stats.Duration = time.Since(start)

	s.logger.Debug("rescan complete",
		"changed", len(paths),
		"scanned", result.Stats.FilesScanned,
		"removed", result.Stats.FilesRemoved,
		"ms", result.Stats.Duration.Milliseconds())
	return result, err
}

// MatchPath reports whether path is part of the content set under root.
func (s *Scanner) MatchPath(root, path string) bool {
	return MatchPath(root, path, s.cfg)
}

// unchanged reports whether path's size and mtime match the store.
func (s *Scanner) unchanged(path string) bool {
	sig, ok := s.store.Signature(path)
	if !ok {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Size() == sig.Size && info.ModTime().Equal(sig.ModTime)
}

// run tokenizes paths on the worker pool and merges the results. The store
// lock is only taken by MergeFile, never around reads.
func (s *Scanner) run(ctx context.Context, paths []string, result *ScanResult) error {
	if len(paths) == 0 {
		return ctx.Err()
	}

	pool := newWorkerPool(ctx, util.WorkerCount(s.cfg.Workers, len(paths)), s.process, s.logger)
	pool.Start()
	go func() {
		defer pool.Stop()
		for i, p := range paths {
			if err := pool.Submit(fileJob{Path: p, JobID: i}); err != nil {
				return
			}
		}
	}()

	results, errs := pool.Results(), pool.Errors()
	for results != nil || errs != nil {
		select {
		case res, ok := <-results:
			if !ok {
				results = nil
				continue
			}
			s.store.MergeFile(res.Path, res.Sig, res.Tokens)
			result.Stats.FilesScanned++
			if res.Precise {
				result.Stats.PreciseFiles++
			}
			if res.CacheHit {
				result.Stats.CacheHits++
			}
		case e, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			result.Stats.FilesFailed++
			result.IOErrors = append(result.IOErrors, e)
		}
	}
	return ctx.Err()
}

// process reads one file and tokenizes it, consulting the content-hash
// cache first.
func (s *Scanner) process(ctx context.Context, job fileJob) (fileResult, error) {
	if err := ctx.Err(); err != nil {
		return fileResult{}, err
	}
	src, err := s.reader.Open(job.Path)
	if err != nil {
		return fileResult{}, err
	}
	defer src.Close()

	hash := ContentHash(src.Data)
	res := fileResult{
		Path: job.Path,
		Sig:  Signature{ModTime: src.ModTime, Size: src.Size, Hash: hash},
	}
	if tokens, ok := s.store.CachedTokens(hash); ok {
		res.Tokens = tokens
		res.CacheHit = true
		return res, nil
	}
	res.Tokens, res.Precise = s.ext.Extract(ctx, job.Path, src.Data)
	s.store.CacheTokens(hash, res.Tokens)
	return res, nil
}
