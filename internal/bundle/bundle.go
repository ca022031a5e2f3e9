// Bundle and contact value types shared across the simulator
package bundle

import "fmt"

// QoSLevel is a bundle priority tier. Lower values are more important:
// a CRITICAL bundle is transmitted first and is exempt from eviction.
type QoSLevel int

const (
	QoSCritical QoSLevel = iota
	QoSHigh
	QoSNormal
	QoSLow
)

// String returns the tier name used in logs and reports.
func (q QoSLevel) String() string {
	switch q {
	case QoSCritical:
		return "critical"
	case QoSHigh:
		return "high"
	case QoSNormal:
		return "normal"
	case QoSLow:
		return "low"
	}
	return fmt.Sprintf("qos(%d)", int(q))
}

// ParseQoSLevel maps a tier name back to its QoSLevel.
func ParseQoSLevel(s string) (QoSLevel, error) {
	switch s {
	case "critical":
		return QoSCritical, nil
	case "high":
		return QoSHigh, nil
	case "normal":
		return QoSNormal, nil
	case "low":
		return QoSLow, nil
	}
	return 0, fmt.Errorf("unknown qos level %q", s)
}

// Bundle is the atomic message unit routed through the network.
// A bundle lives in exactly one node buffer at a time; transmission
// moves it, it is never duplicated.
type Bundle struct {
	ID           string   `json:"bundle_id"`
	Source       int      `json:"source_id"`
	Destination  int      `json:"destination_id"`
	Size         int      `json:"size"` // bytes
	CreationTime float64  `json:"creation_time"`
	Deadline     float64  `json:"deadline"` // absolute simulated time, sort key only
	QoS          QoSLevel `json:"qos_level"`
	HopCount     int      `json:"hop_count"`
	VisitHistory []int    `json:"visit_history"`
}

// Less orders bundles for transmission: highest priority tier first,
// earliest deadline breaking ties.
func (b *Bundle) Less(other *Bundle) bool {
	if b.QoS != other.QoS {
		return b.QoS < other.QoS
	}
	return b.Deadline < other.Deadline
}

// CostMbps is the bandwidth budget a transmission of this bundle
// consumes, in megabits (size / 8 / 1000).
func (b *Bundle) CostMbps() float64 {
	return float64(b.Size) / 8.0 / 1000.0
}

// Contact is a time-bounded bidirectional link window between two nodes.
// Contacts are immutable once built; the engine only reads them.
type Contact struct {
	NodeA       int     `json:"node_a"`
	NodeB       int     `json:"node_b"`
	StartTime   float64 `json:"start_time"`
	EndTime     float64 `json:"end_time"`
	Capacity    float64 `json:"capacity_mbps"`
	Reliability float64 `json:"reliability"` // 1 - error rate, per-bundle success probability
}

// NewContact builds a validated contact window for manually scripted
// scenarios. Generated schedules satisfy these invariants by construction.
func NewContact(nodeA, nodeB int, start, end, capacity, reliability float64) (Contact, error) {
	c := Contact{NodeA: nodeA, NodeB: nodeB, StartTime: start, EndTime: end, Capacity: capacity, Reliability: reliability}
	if err := c.Validate(); err != nil {
		return Contact{}, err
	}
	return c, nil
}

// Validate rejects degenerate contact windows.
func (c Contact) Validate() error {
	if c.NodeA == c.NodeB {
		return fmt.Errorf("contact connects node %d to itself", c.NodeA)
	}
	if c.EndTime <= c.StartTime {
		return fmt.Errorf("contact %d<->%d: end time %.2f not after start time %.2f", c.NodeA, c.NodeB, c.EndTime, c.StartTime)
	}
	if c.Capacity <= 0 {
		return fmt.Errorf("contact %d<->%d: capacity must be positive, got %.2f", c.NodeA, c.NodeB, c.Capacity)
	}
	if c.Reliability < 0 || c.Reliability > 1 {
		return fmt.Errorf("contact %d<->%d: reliability %.3f outside [0,1]", c.NodeA, c.NodeB, c.Reliability)
	}
	return nil
}

// Duration returns the length of the contact window in seconds.
func (c Contact) Duration() float64 {
	return c.EndTime - c.StartTime
}
