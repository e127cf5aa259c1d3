package scanner

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Discovery is the resolved file set for a scan root.
type Discovery struct {
	Root string

	// Files are absolute paths, sorted.
	Files []string

	// Matches counts files per include pattern, in pattern order.
	Matches []PatternMatch
}

// PatternMatch is the number of files one include pattern selected.
type PatternMatch struct {
	Pattern string
	Files   int
}

// Unmatched returns the include patterns that selected nothing.
func (d *Discovery) Unmatched() []string {
	var out []string
	for _, m := range d.Matches {
		if m.Files == 0 {
			out = append(out, m.Pattern)
		}
	}
	return out
}

// Err returns a *GlobResolutionError when no file matched at all.
func (d *Discovery) Err() error {
	if len(d.Files) > 0 || len(d.Matches) == 0 {
		return nil
	}
	return &GlobResolutionError{Root: d.Root, Patterns: d.Unmatched()}
}

func cleanPatterns(patterns []string) []string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = filepath.ToSlash(strings.TrimSpace(p))
		for strings.HasPrefix(p, "./") {
			p = p[2:]
		}
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// DiscoverFiles walks rootDir once, applying exclude globs to directories and
// files and counting include matches per pattern.
func DiscoverFiles(rootDir string, cfg ScanConfig) (*Discovery, error) {
	include := cleanPatterns(cfg.Include)
	exclude := cleanPatterns(cfg.Exclude)

	for _, p := range exclude {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid exclude pattern: %s", p)
		}
	}
	for _, p := range include {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid include pattern: %s", p)
		}
	}

	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path: %w", err)
	}

	counts := make([]int, len(include))
	var files []string

	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(absRoot, path)
		if err != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if excluded(exclude, rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		hit := false
		for i, p := range include {
			if ok, _ := doublestar.Match(p, rel); ok {
				counts[i]++
				hit = true
			}
		}
		if hit {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	matches := make([]PatternMatch, len(include))
	for i, p := range include {
		matches[i] = PatternMatch{Pattern: p, Files: counts[i]}
	}
	return &Discovery{Root: absRoot, Files: files, Matches: matches}, nil
}

// MatchPath reports whether path (absolute, or relative to root) is selected
// by cfg. Used to filter watch events without re-walking the tree.
func MatchPath(root, path string, cfg ScanConfig) bool {
	if filepath.IsAbs(path) {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return false
		}
		path = rel
	}
	rel := filepath.ToSlash(path)
	if strings.HasPrefix(rel, "../") {
		return false
	}
	if excludedPath(cleanPatterns(cfg.Exclude), rel) {
		return false
	}
	for _, p := range cleanPatterns(cfg.Include) {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// Excluded reports whether a directory (relative to root) is skipped.
func Excluded(root, dir string, cfg ScanConfig) bool {
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." {
		return false
	}
	return excluded(cleanPatterns(cfg.Exclude), filepath.ToSlash(rel))
}

func excluded(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// excludedPath checks rel and each of its parent directories, since a
// pattern like "node_modules/**" is meant to prune the whole subtree.
func excludedPath(patterns []string, rel string) bool {
	for p := rel; p != "." && p != ""; p = filepath.ToSlash(filepath.Dir(p)) {
		if excluded(patterns, p) {
			return true
		}
	}
	return false
}
