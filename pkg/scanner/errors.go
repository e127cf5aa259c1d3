package scanner

import (
	"fmt"
	"strings"
)

// ScanIOError reports a file that could not be read. It is never fatal: the
// file is skipped and the scan continues.
type ScanIOError struct {
	Path string
	Err  error
}

func (e *ScanIOError) Error() string {
	return fmt.Sprintf("scan %s: %v", e.Path, e.Err)
}

func (e *ScanIOError) Unwrap() error { return e.Err }

// GlobResolutionError reports content patterns that matched no files.
type GlobResolutionError struct {
	Root     string
	Patterns []string
}

func (e *GlobResolutionError) Error() string {
	return fmt.Sprintf("content patterns matched no files under %s: %s", e.Root, strings.Join(e.Patterns, ", "))
}
