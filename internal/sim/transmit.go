package sim

import (
	"dtnsim/internal/bundle"
	"dtnsim/internal/node"
)

// processContact runs one dispatched contact between two endpoints.
// Selection is independent and simultaneous, not a handshake: both sides
// pick their bundles against the full contact capacity before any
// transfer resolves. Each selected bundle then faces one Bernoulli draw
// against the contact's reliability; a lost bundle is gone, there is no
// retransmission on this path.
func (e *Engine) processContact(c bundle.Contact) {
	a := e.nodes[c.NodeA]
	b := e.nodes[c.NodeB]

	fromA := a.SelectForContact(b.ID, c)
	fromB := b.SelectForContact(a.ID, c)

	e.transfer(a, b, fromA, c)
	e.transfer(b, a, fromB, c)

	// Routing gossip. Merged knowledge does not steer forwarding.
	a.MergeKnowledge(b)
	b.MergeKnowledge(a)
}

func (e *Engine) transfer(sender, receiver *node.Node, bundles []*bundle.Bundle, c bundle.Contact) {
	for _, b := range bundles {
		if e.rand.Float64() < c.Reliability {
			receiver.Receive(b, e.now)
			sender.RecordTransmit()
		} else {
			sender.RecordLoss()
		}
	}
}
