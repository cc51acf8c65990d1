package layout

import "sync"

// Memo caches the last computed layout keyed by the structural fingerprint
// of its inputs. Reactive hosts recompute on every input change; Memo makes
// the common "nothing actually changed" case free while keeping the engines
// themselves stateless.
//
// Memo is safe for concurrent use. Only the most recent result is retained:
// layouts are ephemeral by design and a one-deep cache matches the
// recompute-on-change usage pattern.
type Memo[T any] struct {
	mu     sync.Mutex
	key    string
	value  T
	valid  bool
	hits   int
	misses int
}

// Get returns the cached value when the inputs' fingerprint matches the
// previous call, otherwise runs compute and caches its result.
func (m *Memo[T]) Get(in Inputs, compute func(Inputs) T) T {
	key := in.Fingerprint()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.valid && m.key == key {
		m.hits++
		return m.value
	}

	m.value = compute(in)
	m.key = key
	m.valid = true
	m.misses++
	return m.value
}

// Invalidate drops the cached value.
func (m *Memo[T]) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.valid = false
	var zero T
	m.value = zero
	m.key = ""
}

// Stats returns cumulative hit and miss counts.
func (m *Memo[T]) Stats() (hits, misses int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits, m.misses
}
