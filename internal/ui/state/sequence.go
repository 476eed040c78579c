// Package state holds the small pieces of mutable UI state the controller owns.
package state

import "sync/atomic"

// Sequence hands out monotonically increasing request numbers so that only the
// response to the most recently issued request is applied.
type Sequence struct {
	last atomic.Uint64
}

// Next issues a new request number.
func (s *Sequence) Next() uint64 {
	return s.last.Add(1)
}

// IsLatest reports whether n is the most recently issued number.
func (s *Sequence) IsLatest(n uint64) bool {
	return s.last.Load() == n
}

// Last returns the most recently issued number, or zero.
func (s *Sequence) Last() uint64 {
	return s.last.Load()
}
