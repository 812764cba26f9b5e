package fencecache

import "runtime"

// Worker sizing constants.
const (
	// MinWorkers ensures at least one render runs at a time.
	MinWorkers = 1

	// MaxWorkers caps concurrent renders per document.
	MaxWorkers = 32
)

// ResolveWorkers determines how many renders may run at once.
// Priority: explicit workers (capped at MaxWorkers) > GOMAXPROCS.
// Exported for use by CLIs.
func ResolveWorkers(workers int) int {
	if workers > 0 {
		return min(workers, MaxWorkers)
	}

	// GOMAXPROCS is adjusted by automaxprocs in containers.
	n := runtime.GOMAXPROCS(0)

	if n < MinWorkers {
		return MinWorkers
	}
	if n > MaxWorkers {
		return MaxWorkers
	}
	return n
}
