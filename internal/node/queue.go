package node

import (
	"container/heap"

	"dtnsim/internal/bundle"
)

// entry wraps a buffered bundle. Popping from one ordering tombstones
// the entry; the other heap discards tombstones lazily when they
// surface, keeping pops at O(log n) amortized.
type entry struct {
	b       *bundle.Bundle
	removed bool
}

// sendHeap orders entries for transmission: QoS tier ascending, then
// earliest deadline.
type sendHeap []*entry

func (h sendHeap) Len() int           { return len(h) }
func (h sendHeap) Less(i, j int) bool { return h[i].b.Less(h[j].b) }
func (h sendHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *sendHeap) Push(x any) { *h = append(*h, x.(*entry)) }

func (h *sendHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// evictHeap orders non-CRITICAL entries for eviction: latest deadline
// first. CRITICAL bundles are never pushed here.
type evictHeap []*entry

func (h evictHeap) Len() int           { return len(h) }
func (h evictHeap) Less(i, j int) bool { return h[i].b.Deadline > h[j].b.Deadline }
func (h evictHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *evictHeap) Push(x any) { *h = append(*h, x.(*entry)) }

func (h *evictHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// bundleQueue maintains both orderings over one set of buffered bundles.
type bundleQueue struct {
	send    sendHeap
	evict   evictHeap
	entries map[string]*entry
}

func newBundleQueue() *bundleQueue {
	return &bundleQueue{entries: make(map[string]*entry)}
}

// Len is the number of live (non-tombstoned) bundles.
func (q *bundleQueue) Len() int {
	return len(q.entries)
}

// Push inserts a bundle into the transmission ordering and, unless it is
// CRITICAL, into the eviction ordering.
func (q *bundleQueue) Push(b *bundle.Bundle) {
	e := &entry{b: b}
	q.entries[b.ID] = e
	heap.Push(&q.send, e)
	if b.QoS != bundle.QoSCritical {
		heap.Push(&q.evict, e)
	}
}

// PopSend removes and returns the highest-priority bundle, or nil when
// the queue is empty.
func (q *bundleQueue) PopSend() *bundle.Bundle {
	for q.send.Len() > 0 {
		e := heap.Pop(&q.send).(*entry)
		if e.removed {
			continue
		}
		e.removed = true
		delete(q.entries, e.b.ID)
		return e.b
	}
	return nil
}

// PopEvictable removes and returns the eviction victim: the buffered
// non-CRITICAL bundle with the latest deadline. Returns nil when every
// buffered bundle is CRITICAL.
func (q *bundleQueue) PopEvictable() *bundle.Bundle {
	for q.evict.Len() > 0 {
		e := heap.Pop(&q.evict).(*entry)
		if e.removed {
			continue
		}
		e.removed = true
		delete(q.entries, e.b.ID)
		return e.b
	}
	return nil
}
