// Package shardmap implements a key-partitioned concurrent map: a fixed
// number of independently-locked shards, each a plain Go map, selected by a
// stable multiplicative hash of the key. It is the primitive that lets many
// producer goroutines mutate per-client or per-transaction state with
// minimal global contention.
package shardmap

import (
	"iter"
	"runtime"
	"sync"
)

// shardMultiplier is the odd 64-bit constant used to scramble small
// sequential integer keys (client ids, transaction ids) into shard
// indices; the same constant fxhash uses.
const shardMultiplier = 0x517cc1b727220a95

// Shardable constrains keys to integer-like types that can be hashed
// cheaply without a general-purpose hash function — exactly the kind of
// small, densely-packed identifiers (ClientID, TransactionID) this engine
// uses as keys.
type Shardable interface {
	~uint16 | ~uint32 | ~uint64 | ~uint | ~int
}

// Map is a concurrent map partitioned into a fixed number of shards, each
// guarded by its own sync.RWMutex. Construction picks the shard count;
// callers needing deterministic iteration order must sort after ranging —
// All provides no cross-shard ordering guarantee.
type Map[K Shardable, V any] struct {
	shards []shard[K, V]
	mask   uint64
}

type shard[K Shardable, V any] struct {
	mu sync.RWMutex
	m  map[K]V
}

// New constructs a Map with shards shards (rounded up to the next power of
// two, floored at 1).
func New[K Shardable, V any](shards int) *Map[K, V] {
	n := nextPow2(shards)
	sm := &Map[K, V]{
		shards: make([]shard[K, V], n),
		mask:   uint64(n - 1),
	}
	for i := range sm.shards {
		sm.shards[i].m = make(map[K]V)
	}
	return sm
}

// DefaultShardCount derives a shard count from the host's parallelism,
// floored at 16 so single-core environments still get the spec's stated
// default.
func DefaultShardCount() int {
	n := runtime.GOMAXPROCS(0) * 4
	if n < 16 {
		n = 16
	}
	return nextPow2(n)
}

func nextPow2(n int) int {
	if n < 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func (sm *Map[K, V]) shardFor(key K) *shard[K, V] {
	h := uint64(key) * shardMultiplier
	return &sm.shards[h&sm.mask]
}

// Get reads a snapshot of the value stored under key.
func (sm *Map[K, V]) Get(key K) (V, bool) {
	s := sm.shardFor(key)
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok
}

// Contains reports whether key is present.
func (sm *Map[K, V]) Contains(key K) bool {
	s := sm.shardFor(key)
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.m[key]
	return ok
}

// Insert stores value under key unconditionally.
func (sm *Map[K, V]) Insert(key K, value V) {
	s := sm.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
}

// Delete removes key, if present.
func (sm *Map[K, V]) Delete(key K) {
	s := sm.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
}

// EntryFunc sees the current value for a key (ok is false if absent) and
// returns the next value, whether it should be kept, and an error. When
// keep is false the key is deleted. When err is non-nil the map is left
// unchanged.
type EntryFunc[V any] func(current V, ok bool) (next V, keep bool, err error)

// WithEntry performs an atomic read-modify-write on key, holding the
// shard's exclusive lock for the whole of fn's execution. This is the
// primitive that makes a transaction state transition atomic per account:
// no other goroutine can observe or mutate the same key's entry while fn
// runs. fn must not block on I/O or attempt to acquire another shard's
// lock reentrantly.
func (sm *Map[K, V]) WithEntry(key K, fn EntryFunc[V]) error {
	s := sm.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.m[key]
	next, keep, err := fn(current, ok)
	if err != nil {
		return err
	}
	if !keep {
		delete(s.m, key)
		return nil
	}
	s.m[key] = next
	return nil
}

// All iterates every entry shard-by-shard. Each shard is locked only for
// the duration of copying its entries, so the overall snapshot is not
// atomic across shards — a concurrent writer may be observed mid-iteration
// in one shard and not another. This matches the map's documented
// no-cross-shard-atomicity contract.
func (sm *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for i := range sm.shards {
			s := &sm.shards[i]
			s.mu.RLock()
			snapshot := make(map[K]V, len(s.m))
			for k, v := range s.m {
				snapshot[k] = v
			}
			s.mu.RUnlock()
			for k, v := range snapshot {
				if !yield(k, v) {
					return
				}
			}
		}
	}
}

// Len returns the total number of entries across all shards. It is a
// snapshot, not a guarantee against concurrent mutation.
func (sm *Map[K, V]) Len() int {
	total := 0
	for i := range sm.shards {
		s := &sm.shards[i]
		s.mu.RLock()
		total += len(s.m)
		s.mu.RUnlock()
	}
	return total
}

// ShardCount returns the number of shards the map was constructed with.
func (sm *Map[K, V]) ShardCount() int { return len(sm.shards) }
