package ports

import "context"

// Port: a cache of the solver's run history.
//
// A failed history refresh must not clear previously known runs; callers
// fall back to the cached list and surface the refresh error separately.
type RunCache interface {
	// Get returns the cached run list. ok is false on a cache miss.
	Get(ctx context.Context) (runs []RunSummary, ok bool, err error)
	// Put replaces the cached run list.
	Put(ctx context.Context, runs []RunSummary) error
	// Invalidate drops the cached list (e.g. after a new submission).
	Invalidate(ctx context.Context) error
}
