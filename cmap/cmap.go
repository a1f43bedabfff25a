// cmap.go
//
// CMap is an append-only chain of Submaps: a lock-free, growable
// associative container. Reads (Lookup, All, Stats) take no locks and run
// freely alongside inserts and each other. Inserts race each other only at
// the single-bucket CAS and at the one-at-a-time expansion gate — there is
// no global lock on the container.
//
// Growth never rehashes. A new Submap is appended, larger than the last,
// and future inserts target only the newest one; older Submaps stay put
// and stay authoritative for the keys already in them. That is what keeps
// Lookup wait-free: a reader never has to wait for, or observe a partial
// view of, an in-progress migration, because there is no migration.

package cmap

import (
	"errors"
	"fmt"
	"iter"
	"runtime"
	"sync/atomic"
)

const (
	defaultMaxLoadFactor    = 0.75
	defaultMaxSubmaps       = 65536
	firstSubmapMinCapacity  = 11
	newSubmapGrowthFactor   = 2
	firstSubmapSizeMultiple = 1.0
)

// ErrInvalidConfig is returned by New when maxLoadFactor or maxSubmaps is
// out of range.
var ErrInvalidConfig = errors.New("cmap: invalid configuration")

// ErrSubmapsExhausted is the fatal, unrecoverable failure raised (as a
// panic) when an insert needs to grow past the configured submap cap.
// Per the design, this condition aborts the operation; it is not expected
// to be handled gracefully, but callers that want to confirm the cause of
// a panic can recover and compare with errors.Is.
var ErrSubmapsExhausted = errors.New("cmap: reached the maximum number of submaps")

// Entry is the (key, value) pair returned by a successful Lookup or
// Insert.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// CMap is a concurrent, open-addressed, growable map from K to V. Zero
// value is not usable; construct with New. There is no Delete — entries
// live until the whole map is dropped, matching the spec's insert/lookup
// only contract.
type CMap[K comparable, V any] struct {
	hasher      Hasher[K]
	maxLoad     float64
	submaps     []atomic.Pointer[submap[K, V]]
	numSubmaps  atomic.Uint64
	numEntries  atomic.Uint64
	expanding   atomic.Bool
}

// New constructs a CMap sized for roughly estimatedEntries entries at
// maxLoadFactor, never growing past maxSubmaps live submaps. Rejects
// maxLoadFactor outside (0, 1) and maxSubmaps < 1.
func New[K comparable, V any](hasher Hasher[K], estimatedEntries int, maxLoadFactor float64, maxSubmaps int) (*CMap[K, V], error) {
	if maxLoadFactor <= 0 || maxLoadFactor >= 1 {
		return nil, fmt.Errorf("%w: max load factor %v must be in (0, 1)", ErrInvalidConfig, maxLoadFactor)
	}
	if maxSubmaps < 1 {
		return nil, fmt.Errorf("%w: max submaps %d must be >= 1", ErrInvalidConfig, maxSubmaps)
	}

	firstCapacity := nextPrime(int(firstSubmapSizeMultiple * float64(estimatedEntries) / maxLoadFactor))
	if firstCapacity < firstSubmapMinCapacity {
		firstCapacity = nextPrime(firstSubmapMinCapacity)
	}

	m := &CMap[K, V]{
		hasher:  hasher,
		maxLoad: maxLoadFactor,
		submaps: make([]atomic.Pointer[submap[K, V]], maxSubmaps),
	}
	m.submaps[0].Store(newSubmap[K, V](firstCapacity, maxLoadFactor))
	m.numSubmaps.Store(1)
	return m, nil
}

// NewDefault constructs a CMap with the reference defaults: max load
// factor 0.75 and up to 65536 submaps.
func NewDefault[K comparable, V any](hasher Hasher[K], estimatedEntries int) (*CMap[K, V], error) {
	return New[K, V](hasher, estimatedEntries, defaultMaxLoadFactor, defaultMaxSubmaps)
}

func (m *CMap[K, V]) liveSubmaps() int {
	return int(m.numSubmaps.Load())
}

func (m *CMap[K, V]) submapAt(i int) *submap[K, V] {
	return m.submaps[i].Load()
}

// Len reports the total number of entries across every submap.
func (m *CMap[K, V]) Len() int { return int(m.numEntries.Load()) }

// Lookup searches every live submap, newest first, for key. Newest-first
// ordering is what lets a reader that observes a freshly completed insert
// on the newest submap return it, even if an older submap also happens to
// be mid-expansion.
func (m *CMap[K, V]) Lookup(key K) (V, bool) {
	var zero V
	h1, h2 := m.hasher.Hash1(key), m.hasher.Hash2(key)

	for i := m.liveSubmaps() - 1; i >= 0; i-- {
		sm := m.submapAt(i)
		if idx, ok := sm.find(key, h1, h2); ok {
			return sm.buckets[idx].value, true
		}
	}
	return zero, false
}

// Insert inserts (key, value) if key is not already present. Returns the
// stored entry and true if this call performed the insert, or the
// existing entry and false if key was already present — the existing
// value is never overwritten. Panics with ErrSubmapsExhausted if growth is
// required but the submap cap has been reached.
func (m *CMap[K, V]) Insert(key K, value V) (Entry[K, V], bool) {
	h1, h2 := m.hasher.Hash1(key), m.hasher.Hash2(key)

	for {
		lastIdx := m.liveSubmaps() - 1

		if lastIdx > 0 {
			for i := lastIdx - 1; i >= 0; i-- {
				sm := m.submapAt(i)
				if idx, ok := sm.find(key, h1, h2); ok {
					return Entry[K, V]{Key: key, Value: sm.buckets[idx].value}, false
				}
			}
		}

		last := m.submapAt(lastIdx)
		if last.isOverloaded() {
			m.expand(lastIdx)
			continue
		}

		idx, inserted, err := last.insert(key, value, h1, h2)
		if err != nil { // errSubmapFull
			m.expand(lastIdx)
			continue
		}
		if inserted {
			m.numEntries.Add(1)
		}
		return Entry[K, V]{Key: key, Value: last.buckets[idx].value}, inserted
	}
}

// expand appends a new, larger submap after observedLastIdx, unless
// another goroutine already did so (or the last submap is no longer
// overloaded) since the caller's snapshot. Only one goroutine expands at
// a time; others spin-yield on the gate and re-check on return.
func (m *CMap[K, V]) expand(observedLastIdx int) {
	for !m.expanding.CompareAndSwap(false, true) {
		runtime.Gosched()
	}
	defer m.expanding.Store(false)

	lastIdx := m.liveSubmaps() - 1
	last := m.submapAt(lastIdx)
	if !last.isOverloaded() || lastIdx != observedLastIdx {
		return // someone else already expanded, or it's no longer overloaded
	}

	if lastIdx+1 >= len(m.submaps) {
		panic(fmt.Errorf("%w: cap is %d", ErrSubmapsExhausted, len(m.submaps)))
	}

	newCapacity := nextPrime(last.capacity() * newSubmapGrowthFactor)
	m.submaps[lastIdx+1].Store(newSubmap[K, V](newCapacity, m.maxLoad))
	m.numSubmaps.Add(1)
}

// All returns a weakly consistent iterator over every (key, value) pair:
// it walks submaps in ascending index order and, within each, buckets in
// ascending position, reflecting every insert completed before All was
// called. Inserts concurrent with iteration may or may not be observed.
// Iteration acquires no locks.
func (m *CMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		live := m.liveSubmaps()
		for si := 0; si < live; si++ {
			sm := m.submapAt(si)
			for bi := 0; bi < sm.capacity(); bi++ {
				b := &sm.buckets[bi]
				if b.loadState() != bucketValid {
					continue
				}
				if !yield(b.key, b.value) {
					return
				}
			}
		}
	}
}
