package engine

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/gnana997/twgen/pkg/utility"
)

// Result is one built stylesheet.
type Result struct {
	// Seq is the build sequence number; newer builds have larger numbers.
	Seq uint64

	CSS      string
	Retained []utility.Definition
	Stats    Stats

	// Warnings aggregates non-fatal problems: unreadable files, unknown
	// variants, and content patterns that matched nothing. Nil when clean.
	Warnings *multierror.Error
}

// Stats summarizes a build.
type Stats struct {
	Files      int
	Scanned    int
	Failed     int
	Candidates int
	Utilities  int
	Retained   int
	Dropped    int
	Bytes      int
	Duration   time.Duration
}

// WarningList returns the aggregated warnings, or nil.
func (r *Result) WarningList() []error {
	if r.Warnings == nil {
		return nil
	}
	return r.Warnings.Errors
}

// String renders stats for logs.
func (s Stats) String() string {
	return fmt.Sprintf("%d files, %d candidates, %d/%d utilities, %d bytes in %s",
		s.Files, s.Candidates, s.Retained, s.Utilities, s.Bytes, s.Duration.Round(time.Millisecond))
}
