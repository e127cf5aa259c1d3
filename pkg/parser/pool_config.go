package parser

import (
	"github.com/gnana997/twgen/pkg/util"
)

// poolSize returns the per-grammar parser limit. It matches the scanner's
// worker count so workers never queue behind a parser; override <= 0 uses
// the CPU-derived default.
func poolSize(override int) int {
	return util.GetOptimalPoolSizeWithOverride(override)
}
