// Package idgen implements the Registry's id_source: a fetch-and-add
// counter starting at 1, matching the contract shared by
// tweak_id_gen_atomic_add_value.c, tweak_id_gen_sync_fetch_and_add.c,
// and tweak_id_gen_fallback.c (three strategies for one guarantee —
// unique, monotonically increasing, never zero).
package idgen

import "sync/atomic"

// Source hands out unique nonzero ids. The zero Source is ready to use
// and starts at 1; 0 is reserved as "invalid".
type Source struct {
	counter atomic.Uint64
}

// Next returns the next id. Overflow is out of scope.
func (s *Source) Next() uint64 {
	return s.counter.Add(1)
}
