package node

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dtnsim/internal/bundle"
	"dtnsim/internal/ltp"
)

func newTestNode(id, maxBuffer, maxHops int) *Node {
	return New(id, Position{}, maxBuffer, maxHops, ltp.New(id, 1024, 5.0, 5))
}

func mkBundle(id string, dest int, qos bundle.QoSLevel, deadline float64) *bundle.Bundle {
	return &bundle.Bundle{
		ID:          id,
		Source:      0,
		Destination: dest,
		Size:        1024,
		Deadline:    deadline,
		QoS:         qos,
	}
}

func TestReceiveBuffersAndTracksHistory(t *testing.T) {
	n := newTestNode(3, 10, 10)
	b := mkBundle("b1", 9, bundle.QoSNormal, 100)

	delivered := n.Receive(b, 5.0)
	assert.False(t, delivered)
	assert.Equal(t, 1, n.BufferLen())
	assert.Equal(t, n.BufferLen(), n.QueueLen())
	assert.Equal(t, []int{3}, b.VisitHistory)
	assert.Equal(t, 1, n.Stats().Received)
}

func TestReceiveDuplicateSuppressed(t *testing.T) {
	n := newTestNode(0, 10, 10)
	b := mkBundle("b1", 9, bundle.QoSNormal, 100)
	n.Receive(b, 0)
	n.Receive(b, 1)

	assert.Equal(t, 1, n.BufferLen())
	assert.Equal(t, 1, n.Stats().Received)
	assert.Equal(t, []int{0}, b.VisitHistory, "history appended once")
}

func TestReceiveAtDestinationDeliversSameCall(t *testing.T) {
	n := newTestNode(7, 10, 10)
	b := mkBundle("b1", 7, bundle.QoSHigh, 100)
	b.CreationTime = 10.0

	delivered := n.Receive(b, 35.0)
	assert.True(t, delivered)
	assert.Equal(t, 0, n.BufferLen(), "delivered bundle is not buffered")
	assert.Equal(t, n.BufferLen(), n.QueueLen())
	assert.Equal(t, 1, n.Stats().Delivered)
	assert.InDelta(t, 25.0, n.Stats().TotalLatency, 1e-9)
}

// Buffer capacity N with N+1 equal-QoS bundles of increasing deadlines:
// exactly one eviction, and the victim has the latest deadline.
func TestEvictionDropsLatestDeadline(t *testing.T) {
	const capacity = 4
	n := newTestNode(0, capacity, 10)
	for i := 0; i <= capacity; i++ {
		n.Receive(mkBundle(fmt.Sprintf("b%d", i), 9, bundle.QoSNormal, float64(100+i*10)), 0)
		assert.Equal(t, n.BufferLen(), n.QueueLen())
	}

	assert.Equal(t, 1, n.Stats().Dropped)
	assert.Equal(t, capacity, n.BufferLen())
	// b3 had the latest deadline among the buffered set when b4 arrived.
	assert.False(t, n.Buffered("b3"))
	assert.True(t, n.Buffered("b4"))
}

func TestEvictionSparesCritical(t *testing.T) {
	n := newTestNode(0, 2, 10)
	n.Receive(mkBundle("crit", 9, bundle.QoSCritical, 500), 0)
	n.Receive(mkBundle("low", 9, bundle.QoSLow, 50), 0)
	n.Receive(mkBundle("norm", 9, bundle.QoSNormal, 100), 0)

	assert.True(t, n.Buffered("crit"), "critical survives while non-critical exists")
	assert.False(t, n.Buffered("low"), "sole non-critical bundle is the victim")
	assert.True(t, n.Buffered("norm"))
	assert.Equal(t, 1, n.Stats().Dropped)
}

// 1 CRITICAL + 1 HIGH + 1 NORMAL + 3 LOW into a capacity-5 buffer:
// exactly one drop, and the victim is LOW.
func TestEvictionQoSScenario(t *testing.T) {
	n := newTestNode(0, 5, 10)
	n.Receive(mkBundle("c", 9, bundle.QoSCritical, 100), 0)
	n.Receive(mkBundle("h", 9, bundle.QoSHigh, 110), 0)
	n.Receive(mkBundle("n", 9, bundle.QoSNormal, 120), 0)
	n.Receive(mkBundle("l1", 9, bundle.QoSLow, 130), 0)
	n.Receive(mkBundle("l2", 9, bundle.QoSLow, 140), 0)
	n.Receive(mkBundle("l3", 9, bundle.QoSLow, 150), 0)

	assert.Equal(t, 1, n.Stats().Dropped)
	assert.Equal(t, 5, n.BufferLen())
	assert.True(t, n.Buffered("c"))
	assert.True(t, n.Buffered("h"))
	assert.True(t, n.Buffered("n"))
	// The victim is the latest-deadline LOW bundle present at overflow.
	assert.False(t, n.Buffered("l2"))
	assert.True(t, n.Buffered("l3"))
}

// An all-CRITICAL buffer admits one bundle past capacity instead of
// evicting; the permissive overflow is deliberate.
func TestReceiveAllCriticalOverflow(t *testing.T) {
	n := newTestNode(0, 2, 10)
	n.Receive(mkBundle("c1", 9, bundle.QoSCritical, 100), 0)
	n.Receive(mkBundle("c2", 9, bundle.QoSCritical, 110), 0)
	n.Receive(mkBundle("c3", 9, bundle.QoSCritical, 120), 0)

	assert.Equal(t, 3, n.BufferLen())
	assert.Equal(t, n.BufferLen(), n.QueueLen())
	assert.Equal(t, 0, n.Stats().Dropped)
}

func TestSelectForContactPriorityOrder(t *testing.T) {
	n := newTestNode(0, 10, 10)
	low := mkBundle("low", 9, bundle.QoSLow, 100)
	crit := mkBundle("crit", 9, bundle.QoSCritical, 100)
	high := mkBundle("high", 9, bundle.QoSHigh, 100)
	n.Receive(low, 0)
	n.Receive(crit, 0)
	n.Receive(high, 0)

	c := bundle.Contact{NodeA: 0, NodeB: 1, StartTime: 0, EndTime: 10, Capacity: 100, Reliability: 1}
	selected := n.SelectForContact(1, c)

	require.Len(t, selected, 3)
	assert.Equal(t, "crit", selected[0].ID)
	assert.Equal(t, "high", selected[1].ID)
	assert.Equal(t, "low", selected[2].ID)
	assert.Equal(t, 0, n.BufferLen(), "selected bundles leave the buffer")
	assert.Equal(t, n.BufferLen(), n.QueueLen())
}

func TestSelectForContactBudgetExhaustion(t *testing.T) {
	n := newTestNode(0, 10, 10)
	// Each bundle costs 1 Mbps (8000 bytes / 8 / 1000).
	for i := 0; i < 5; i++ {
		b := mkBundle(fmt.Sprintf("b%d", i), 9, bundle.QoSNormal, float64(100+i))
		b.Size = 8000
		n.Receive(b, 0)
	}

	c := bundle.Contact{NodeA: 0, NodeB: 1, StartTime: 0, EndTime: 10, Capacity: 3, Reliability: 1}
	selected := n.SelectForContact(1, c)

	// Budget 3 admits three bundles; the loop stops once it hits zero.
	assert.Len(t, selected, 3)
	assert.Equal(t, 2, n.BufferLen())
}

// Hop counts are never incremented on the forwarding path, so the hop
// limit only bites for bundles injected with a pre-set count.
func TestSelectHopLimitInert(t *testing.T) {
	n := newTestNode(0, 10, 3)
	relayed := mkBundle("relayed", 9, bundle.QoSNormal, 100)
	n.Receive(relayed, 0)
	assert.Equal(t, 0, relayed.HopCount, "admission does not increment hop count")

	capped := mkBundle("capped", 9, bundle.QoSNormal, 200)
	capped.HopCount = 3
	n.Receive(capped, 0)
	forPeer := mkBundle("forpeer", 1, bundle.QoSNormal, 300)
	forPeer.HopCount = 99
	n.Receive(forPeer, 0)

	c := bundle.Contact{NodeA: 0, NodeB: 1, StartTime: 0, EndTime: 10, Capacity: 100, Reliability: 1}
	selected := n.SelectForContact(1, c)

	ids := make([]string, len(selected))
	for i, b := range selected {
		ids[i] = b.ID
	}
	assert.ElementsMatch(t, []string{"relayed", "forpeer"}, ids,
		"over-limit bundle skipped unless destined for the peer")
	assert.Equal(t, 0, n.BufferLen(), "skipped bundles still leave the buffer")
}

func TestMergeKnowledgeInert(t *testing.T) {
	a := newTestNode(0, 10, 10)
	b := newTestNode(1, 10, 10)
	b.knowledge[1] = []int{0, 2}

	a.MergeKnowledge(b)
	assert.Equal(t, []int{0, 2}, a.knowledge[1])

	// A second merge appends again; the map is instrumentation only.
	a.MergeKnowledge(b)
	assert.Equal(t, []int{0, 2, 0, 2}, a.knowledge[1])
}

func TestStatisticsSnapshot(t *testing.T) {
	n := New(4, Position{X: 3, Y: -2}, 10, 10, ltp.New(4, 1024, 5.0, 5))
	dest := mkBundle("d", 4, bundle.QoSNormal, 100)
	dest.CreationTime = 1.0
	n.Receive(dest, 11.0)
	n.Receive(mkBundle("relay", 9, bundle.QoSLow, 100), 11.0)
	n.RecordTransmit()
	n.RecordLoss()

	st := n.Statistics(42.0)
	assert.Equal(t, 4, st.NodeID)
	assert.InDelta(t, 42.0, st.Timestamp, 1e-9)
	assert.InDelta(t, 3.0, st.X, 1e-9)
	assert.Equal(t, 1, st.BufferSize)
	assert.Equal(t, 1, st.Transmitted)
	assert.Equal(t, 2, st.Received)
	assert.Equal(t, 1, st.Dropped)
	assert.Equal(t, 1, st.Delivered)
	assert.InDelta(t, 10.0, st.AvgLatency, 1e-9)
}
