// Package epoch holds the single shared cell that detects epoch-edge
// transitions across worker goroutines, the way the rest of the codebase
// guards its one piece of cross-goroutine mutable state with a plain mutex
// rather than anything heavier.
package epoch

import "sync"

// Tracker is a shared, monotonic "last observed epoch" cell. Advance is the
// only mutator; its critical section is a comparison and an assignment, no
// blocking calls.
type Tracker struct {
	mu      sync.Mutex
	current int64
	seen    bool
}

// NewTracker returns a tracker with no epoch observed yet.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Advance reports whether epoch is strictly greater than the stored value
// (or no value has been stored yet) and, if so, stores it. The return value
// answers "did the epoch just advance" — workers use it to decide whether to
// fire handle_epoch on every module.
func (t *Tracker) Advance(candidate int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.seen && candidate <= t.current {
		return false
	}
	t.current = candidate
	t.seen = true
	return true
}

// Current returns the last stored epoch and whether any epoch has been
// observed yet.
func (t *Tracker) Current() (int64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current, t.seen
}
