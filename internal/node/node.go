// Per-node bundle storage, QoS eviction, and contact forwarding policy
package node

import (
	"dtnsim/internal/bundle"
	"dtnsim/internal/ltp"
)

// Position is a node's fixed planar coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stats accumulates per-node counters over a run.
type Stats struct {
	Transmitted  int
	Received     int
	Dropped      int
	Delivered    int
	TotalLatency float64
}

// State is a timestamped snapshot of one node, shaped for reports.
type State struct {
	NodeID      int     `json:"node_id"`
	Timestamp   float64 `json:"timestamp"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	BufferSize  int     `json:"buffer_size"`
	Transmitted int     `json:"bundles_transmitted"`
	Received    int     `json:"bundles_received"`
	Dropped     int     `json:"bundles_dropped"`
	Delivered   int     `json:"delivery_count"`
	AvgLatency  float64 `json:"avg_latency"`
}

// Node is one DTN endpoint: a size-bounded bundle buffer with a QoS
// priority queue kept in lockstep, plus delivery statistics and an LTP
// engine for the (currently unwired) reliable-transport path.
type Node struct {
	ID  int
	Pos Position

	maxBuffer int
	maxHops   int

	buffer map[string]*bundle.Bundle
	queue  *bundleQueue

	ltp       *ltp.Engine
	knowledge map[int][]int

	stats Stats
}

// New creates a node with an empty buffer at a fixed position.
func New(id int, pos Position, maxBuffer, maxHops int, ltpEngine *ltp.Engine) *Node {
	return &Node{
		ID:        id,
		Pos:       pos,
		maxBuffer: maxBuffer,
		maxHops:   maxHops,
		buffer:    make(map[string]*bundle.Bundle),
		queue:     newBundleQueue(),
		ltp:       ltpEngine,
		knowledge: make(map[int][]int),
	}
}

// Receive admits a bundle into the buffer. Duplicates are ignored. A full
// buffer evicts the latest-deadline non-CRITICAL bundle first; if only
// CRITICAL bundles are buffered, admission proceeds one past capacity.
// When this node is the bundle's destination the bundle is delivered in
// the same call: latency is accumulated and it is not buffered for
// further forwarding. Reports whether the bundle was delivered.
func (n *Node) Receive(b *bundle.Bundle, now float64) bool {
	if _, ok := n.buffer[b.ID]; ok {
		return false
	}
	if len(n.buffer) >= n.maxBuffer {
		n.evict()
	}
	b.VisitHistory = append(b.VisitHistory, n.ID)
	n.stats.Received++
	if b.Destination == n.ID {
		n.stats.TotalLatency += now - b.CreationTime
		n.stats.Delivered++
		return true
	}
	n.buffer[b.ID] = b
	n.queue.Push(b)
	return false
}

// evict drops the non-CRITICAL bundle with the latest deadline. No-op
// when every buffered bundle is CRITICAL.
func (n *Node) evict() {
	victim := n.queue.PopEvictable()
	if victim == nil {
		return
	}
	delete(n.buffer, victim.ID)
	n.stats.Dropped++
}

// SelectForContact pops bundles in priority order until the contact's
// bandwidth budget is spent. A popped bundle is selected when it is
// destined for the peer or its hop count is below the limit; either way
// it leaves this node's buffer (single-copy forwarding, no re-queue).
func (n *Node) SelectForContact(peerID int, c bundle.Contact) []*bundle.Bundle {
	var selected []*bundle.Bundle
	budget := c.Capacity
	for budget > 0 {
		b := n.queue.PopSend()
		if b == nil {
			break
		}
		delete(n.buffer, b.ID)
		if b.Destination == peerID || b.HopCount < n.maxHops {
			selected = append(selected, b)
			budget -= b.CostMbps()
		}
	}
	return selected
}

// MergeKnowledge folds the peer's self-entry of its routing-knowledge map
// into ours. The merged state does not influence forwarding decisions; it
// mirrors the gossip exchange of epidemic routing as instrumented state.
func (n *Node) MergeKnowledge(peer *Node) {
	n.knowledge[peer.ID] = append(n.knowledge[peer.ID], peer.knowledge[peer.ID]...)
}

// RecordTransmit counts a successfully transmitted bundle.
func (n *Node) RecordTransmit() {
	n.stats.Transmitted++
}

// RecordLoss counts a bundle lost in transit.
func (n *Node) RecordLoss() {
	n.stats.Dropped++
}

// BufferLen is the number of buffered bundles.
func (n *Node) BufferLen() int {
	return len(n.buffer)
}

// QueueLen is the number of live entries in the priority queue. Always
// equals BufferLen outside of a mutating call.
func (n *Node) QueueLen() int {
	return n.queue.Len()
}

// Buffered reports whether the bundle id is currently buffered.
func (n *Node) Buffered(id string) bool {
	_, ok := n.buffer[id]
	return ok
}

// Stats returns a copy of the node's counters.
func (n *Node) Stats() Stats {
	return n.stats
}

// LTP exposes the node's reliability engine.
func (n *Node) LTP() *ltp.Engine {
	return n.ltp
}

// Statistics snapshots the node's state at the given simulated time.
func (n *Node) Statistics(now float64) State {
	avg := 0.0
	if n.stats.Delivered > 0 {
		avg = n.stats.TotalLatency / float64(n.stats.Delivered)
	}
	return State{
		NodeID:      n.ID,
		Timestamp:   now,
		X:           n.Pos.X,
		Y:           n.Pos.Y,
		BufferSize:  len(n.buffer),
		Transmitted: n.stats.Transmitted,
		Received:    n.stats.Received,
		Dropped:     n.stats.Dropped,
		Delivered:   n.stats.Delivered,
		AvgLatency:  avg,
	}
}
