package util

import "runtime"

// GetOptimalPoolSize returns the worker count for CPU-bound tasks.
//
// Formula: min(max(runtime.NumCPU() * 2, 4), 32)
//
// Used for:
//   - Parser pool size (parsers per language)
//   - Scan worker pool size (concurrent file tokenizers)
func GetOptimalPoolSize() int {
	poolSize := runtime.NumCPU() * 2

	if poolSize < 4 {
		poolSize = 4
	}
	if poolSize > 32 {
		poolSize = 32
	}

	return poolSize
}

// GetOptimalPoolSizeWithOverride returns pool size with optional override.
//
// If override > 0, uses override value (for testing/tuning).
// Otherwise, uses GetOptimalPoolSize().
func GetOptimalPoolSizeWithOverride(override int) int {
	if override > 0 {
		return override
	}
	return GetOptimalPoolSize()
}

// WorkerCount sizes a pool for jobs items, never exceeding the job count.
// Returns at least 1.
func WorkerCount(override, jobs int) int {
	n := GetOptimalPoolSizeWithOverride(override)
	if jobs < n {
		n = jobs
	}
	if n < 1 {
		n = 1
	}
	return n
}
