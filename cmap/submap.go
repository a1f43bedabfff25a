// submap.go
//
// A submap is one fixed-capacity bucket array: immutable in structure once
// created (its length never changes), which is what lets CMap grow by
// appending a new, larger submap instead of rehashing an existing one.
// Capacity is always prime so the probe increment — 1 + H2 mod (cap-1) —
// visits every bucket before repeating.

package cmap

import (
	"errors"
	"runtime"
	"sync/atomic"
)

// errSubmapFull signals the probe returned to its start index without
// finding either a match or a free slot — the submap must be expanded and
// the insert retried. It never escapes the package.
var errSubmapFull = errors.New("cmap: submap full")

type submap[K comparable, V any] struct {
	buckets    []bucket[K, V]
	maxLoad    float64
	validCount atomic.Uint64
}

func newSubmap[K comparable, V any](capacity int, maxLoad float64) *submap[K, V] {
	return &submap[K, V]{
		buckets: make([]bucket[K, V], capacity),
		maxLoad: maxLoad,
	}
}

func (s *submap[K, V]) capacity() int { return len(s.buckets) }

func (s *submap[K, V]) numValid() uint64 { return s.validCount.Load() }

func (s *submap[K, V]) incrValid() { s.validCount.Add(1) }

func (s *submap[K, V]) isOverloaded() bool {
	return float64(s.numValid())/float64(s.capacity()) >= s.maxLoad
}

// probeIncrement computes 1 + H2 mod (capacity-1), which is always
// non-zero and, because capacity is prime, generates a full-period
// probe sequence over [0, capacity).
func (s *submap[K, V]) probeIncrement(h2 uint64) int {
	modulus := uint64(s.capacity() - 1)
	return 1 + int(h2%modulus)
}

// find scans this submap's probe sequence for key, stopping at the first
// valid match, the first empty bucket, or a full revolution back to the
// start. BUSY buckets are skipped — not a match, but not a stop either.
func (s *submap[K, V]) find(key K, h1, h2 uint64) (int, bool) {
	cap := s.capacity()
	start := int(h1 % uint64(cap))
	step := s.probeIncrement(h2)
	idx := start

	for {
		b := &s.buckets[idx]
		switch b.loadState() {
		case bucketValid:
			if b.key == key {
				return idx, true
			}
		case bucketEmpty:
			return 0, false
		}
		idx = (idx + step) % cap
		if idx == start {
			return 0, false
		}
	}
}

// insert probes for key, claiming the first empty bucket it finds via
// CAS. A busy bucket is waited on until it turns valid, so a concurrent
// insert of the same key is seen rather than skipped. Returns (index, true) on a fresh insert, (index, false) if key was
// already present, or errSubmapFull if the probe exhausts the submap
// without either outcome.
func (s *submap[K, V]) insert(key K, value V, h1, h2 uint64) (int, bool, error) {
	cap := s.capacity()
	start := int(h1 % uint64(cap))
	step := s.probeIncrement(h2)
	idx := start

	for {
		b := &s.buckets[idx]

		if b.loadState() == bucketEmpty && b.tryClaim() {
			b.publish(key, value)
			s.incrValid()
			return idx, true, nil
		}

		// A bucket claimed by another inserter may be about to hold this
		// same key; wait for it to publish before comparing.
		for b.loadState() == bucketBusy {
			runtime.Gosched()
		}

		if b.loadState() == bucketValid && b.key == key {
			return idx, false, nil
		}

		idx = (idx + step) % cap
		if idx == start {
			return 0, false, errSubmapFull
		}
	}
}
