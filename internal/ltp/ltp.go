// Licklider Transmission Protocol support: bundle segmentation and
// retransmission timeout bookkeeping. Each node owns one Engine, but the
// contact transmission path does not call into it yet; loss there is
// modeled as a single Bernoulli draw. The engine is kept independently
// usable for a transport-accurate transmission procedure.
package ltp

import "dtnsim/internal/bundle"

// Segment is one fixed-size fragment of a bundle.
type Segment struct {
	ID            int
	BundleID      string
	Size          int // bytes, last segment may be short
	EndOfBlock    bool
	Retransmitted int
}

// Engine tracks pending and acknowledged segments per bundle for one node.
type Engine struct {
	nodeID      int
	segmentSize int
	rtoInitial  float64
	maxRetrans  int
	pending     map[string][]Segment
	acked       map[string]map[int]struct{}
	rto         map[string]float64
}

// New creates an LTP engine for the given node.
func New(nodeID, segmentSize int, rtoInitial float64, maxRetrans int) *Engine {
	return &Engine{
		nodeID:      nodeID,
		segmentSize: segmentSize,
		rtoInitial:  rtoInitial,
		maxRetrans:  maxRetrans,
		pending:     make(map[string][]Segment),
		acked:       make(map[string]map[int]struct{}),
		rto:         make(map[string]float64),
	}
}

// SegmentBundle fragments a bundle into segments of the configured size.
// The final segment carries the end-of-block marker. The segments are
// recorded as pending until acknowledged.
func (e *Engine) SegmentBundle(b *bundle.Bundle) []Segment {
	count := (b.Size + e.segmentSize - 1) / e.segmentSize
	segments := make([]Segment, 0, count)
	for i := 0; i < count; i++ {
		size := e.segmentSize
		if i == count-1 {
			size = b.Size - i*e.segmentSize
		}
		segments = append(segments, Segment{
			ID:         i,
			BundleID:   b.ID,
			Size:       size,
			EndOfBlock: i == count-1,
		})
	}
	e.pending[b.ID] = segments
	return segments
}

// HandleAck marks the given segments of a bundle as acknowledged.
func (e *Engine) HandleAck(bundleID string, segmentIDs []int) {
	set, ok := e.acked[bundleID]
	if !ok {
		set = make(map[int]struct{})
		e.acked[bundleID] = set
	}
	for _, id := range segmentIDs {
		set[id] = struct{}{}
	}
}

// BlockComplete reports whether every pending segment of the bundle has
// been acknowledged.
func (e *Engine) BlockComplete(bundleID string) bool {
	pending := e.pending[bundleID]
	if len(pending) == 0 {
		return false
	}
	acked := e.acked[bundleID]
	for _, s := range pending {
		if _, ok := acked[s.ID]; !ok {
			return false
		}
	}
	return true
}

// Pending returns the unacknowledged segments of a bundle.
func (e *Engine) Pending(bundleID string) []Segment {
	acked := e.acked[bundleID]
	var out []Segment
	for _, s := range e.pending[bundleID] {
		if _, ok := acked[s.ID]; !ok {
			out = append(out, s)
		}
	}
	return out
}

// RetransmissionTimeout returns the current RTO for a bundle. The first
// call seeds it from the measured round-trip time (Karn: RTT doubled,
// floored at the configured initial); each later call backs off by 1.5x,
// capped at 60 seconds.
func (e *Engine) RetransmissionTimeout(bundleID string, rtt float64) float64 {
	const (
		backoff = 1.5
		rtoCap  = 60.0
	)
	cur, ok := e.rto[bundleID]
	if !ok {
		cur = rtt * 2.0
		if cur < e.rtoInitial {
			cur = e.rtoInitial
		}
	} else {
		cur *= backoff
	}
	if cur > rtoCap {
		cur = rtoCap
	}
	e.rto[bundleID] = cur
	return cur
}

// MaxRetransmissions returns the configured retransmission budget.
func (e *Engine) MaxRetransmissions() int {
	return e.maxRetrans
}
