// Package dedupe tracks submission ids so a resubmitted batch is scored once.
package dedupe

import (
	"context"
	"sync"
)

// DefaultMaxSize is the number of submission ids remembered when no option is given.
const DefaultMaxSize = 50000

// Deduper records seen submission IDs.
type Deduper interface {
	// SeenAndRecord reports whether id was already seen and records it if not.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord forgets id so the submission can be retried, e.g. after the
	// queue rejected it.
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// entry is one slot of the eviction ring.
type entry struct {
	id  string
	seq uint64
}

// inMemoryDeduper keeps ids in a map and, when bounded, evicts the oldest
// recorded id first. An unrecorded id leaves a stale ring slot that is
// skipped on eviction.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]uint64
	ring    []entry
	head    int // oldest slot
	count   int // live slots in ring, stale ones included
	seq     uint64
	maxSize int
}

// NewInMemoryDeduper creates a deduper. A non-positive max size disables eviction.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{maxSize: DefaultMaxSize}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]uint64)
	if d.maxSize > 0 {
		d.ring = make([]entry, d.maxSize)
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}

	d.seq++
	d.seen[id] = d.seq
	if d.maxSize <= 0 {
		return false
	}

	for len(d.seen) > d.maxSize || d.count == len(d.ring) {
		d.evictOldest()
	}
	d.ring[(d.head+d.count)%len(d.ring)] = entry{id: id, seq: d.seq}
	d.count++
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.seen, id)
}

// evictOldest drops the oldest ring slot. Must be called with d.mu held.
func (d *inMemoryDeduper) evictOldest() {
	if d.count == 0 {
		return
	}
	e := d.ring[d.head]
	if seq, ok := d.seen[e.id]; ok && seq == e.seq {
		delete(d.seen, e.id)
	}
	d.ring[d.head] = entry{}
	d.head = (d.head + 1) % len(d.ring)
	d.count--
}

// Size returns the number of remembered ids.
func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}
