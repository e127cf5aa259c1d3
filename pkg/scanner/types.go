// Package scanner finds candidate utility class names in project sources.
//
// Files are selected by content globs, read raw, and split into tokens that
// look like utility classes. JS and TS sources are parsed with tree-sitter
// so only string literals are tokenized. Results accumulate in a Store that
// supports incremental updates for watch mode.
package scanner

import "time"

// CandidateToken is a substring that may name a utility class, with the file
// it was found in.
type CandidateToken struct {
	Text string
	Path string
}

// ScanConfig configures discovery and extraction.
type ScanConfig struct {
	// Include glob patterns, relative to the scan root.
	Include []string
	// Exclude glob patterns, applied to files and directories.
	Exclude []string
	// Precise enables tree-sitter extraction for JS/TS sources.
	Precise bool
	// Workers caps the worker pool; 0 sizes it by CPU count.
	Workers int
	// CacheSize bounds the content-hash token cache.
	CacheSize int
}

// DefaultExclude lists directories never worth scanning.
var DefaultExclude = []string{
	"**/node_modules/**",
	"**/.git/**",
	"**/target/**",
	"**/dist/**",
	"**/.next/**",
}

// DefaultScanConfig returns precise scanning of common markup and script
// files with DefaultExclude applied.
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		Include: []string{
			"**/*.html",
			"**/*.{js,jsx,ts,tsx}",
			"**/*.rs",
		},
		Exclude:   append([]string(nil), DefaultExclude...),
		Precise:   true,
		CacheSize: 2048,
	}
}

// ScanStats tracks one ScanAll or Rescan pass.
type ScanStats struct {
	FilesDiscovered int
	FilesScanned    int
	FilesUnchanged  int
	FilesRemoved    int
	FilesFailed     int
	PreciseFiles    int
	CacheHits       int
	Candidates      int
	Duration        time.Duration
}

// ScanResult is the outcome of a pass. The candidates themselves live in
// the Store.
type ScanResult struct {
	Discovery *Discovery
	Stats     ScanStats

	// IOErrors holds one *ScanIOError per unreadable file.
	IOErrors []*ScanIOError
}
