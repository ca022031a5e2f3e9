// Discrete time-stepped DTN simulation engine
package sim

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"dtnsim/internal/bundle"
	"dtnsim/internal/config"
	"dtnsim/internal/ltp"
	"dtnsim/internal/node"
)

// Engine owns the full state of one simulation run: nodes, the contact
// schedule, the seeded random stream, and the metrics timeline. All
// state is instance-scoped, so independent engines can run side by side
// in one process without interfering.
type Engine struct {
	cfg   *config.SimulationConfig
	runID string

	// Single sequential random stream; its draw order (schedule, then
	// per-step traffic, then per-bundle loss) is part of the
	// reproducibility contract.
	rand *rand.Rand

	now         float64
	tick        int
	nodes       []*node.Node
	contacts    []bundle.Contact
	nextContact int
	metrics     []Snapshot

	writer MetricsWriter
	clock  func() time.Time
}

// New validates the configuration, builds the nodes on a circle, and
// generates the contact schedule from the seeded stream.
func New(cfg *config.SimulationConfig, writer MetricsWriter) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	e := &Engine{
		cfg:    cfg,
		runID:  uuid.New().String(),
		rand:   rand.New(rand.NewSource(cfg.RandomSeed)),
		writer: writer,
		clock:  time.Now,
	}
	e.nodes = make([]*node.Node, cfg.NumNodes)
	for i := 0; i < cfg.NumNodes; i++ {
		angle := 2 * math.Pi * float64(i) / float64(cfg.NumNodes)
		pos := node.Position{
			X: cfg.NetworkRadius * math.Cos(angle),
			Y: cfg.NetworkRadius * math.Sin(angle),
		}
		e.nodes[i] = node.New(i, pos, cfg.MaxBufferSize, cfg.MaxHopCount,
			ltp.New(i, cfg.LTPSegmentSize, cfg.LTPRTOInitial, cfg.LTPMaxRetransmissions))
	}
	e.contacts = generateContacts(cfg, e.rand)
	sortContacts(e.contacts)
	return e, nil
}

// SetContacts replaces the generated schedule with a scripted one, for
// test scenarios. Must be called before Run.
func (e *Engine) SetContacts(contacts []bundle.Contact) error {
	if e.tick > 0 {
		return fmt.Errorf("contact schedule cannot change after the run started")
	}
	for _, c := range contacts {
		if err := c.Validate(); err != nil {
			return err
		}
		if c.NodeA < 0 || c.NodeA >= len(e.nodes) || c.NodeB < 0 || c.NodeB >= len(e.nodes) {
			return fmt.Errorf("contact %d<->%d references an unknown node", c.NodeA, c.NodeB)
		}
	}
	e.contacts = append([]bundle.Contact(nil), contacts...)
	sortContacts(e.contacts)
	e.nextContact = 0
	return nil
}

// InjectBundle admits a bundle at its source node, for scripted
// scenarios and manual traffic.
func (e *Engine) InjectBundle(b *bundle.Bundle) error {
	if b.ID == "" {
		return fmt.Errorf("bundle has no id")
	}
	if b.Size < 1 {
		return fmt.Errorf("bundle %s: size must be at least 1 byte, got %d", b.ID, b.Size)
	}
	if b.Source < 0 || b.Source >= len(e.nodes) {
		return fmt.Errorf("bundle %s: unknown source node %d", b.ID, b.Source)
	}
	if b.Destination < 0 || b.Destination >= len(e.nodes) {
		return fmt.Errorf("bundle %s: unknown destination node %d", b.ID, b.Destination)
	}
	if b.Source == b.Destination {
		return fmt.Errorf("bundle %s: source and destination are both node %d", b.ID, b.Source)
	}
	e.nodes[b.Source].Receive(b, e.now)
	return nil
}

// RunID identifies this run in writer rows and reports.
func (e *Engine) RunID() string {
	return e.runID
}

// CurrentTime returns the simulated clock.
func (e *Engine) CurrentTime() float64 {
	return e.now
}

// Config returns the run's configuration snapshot.
func (e *Engine) Config() config.SimulationConfig {
	return *e.cfg
}

// Contacts returns a copy of the contact schedule in dispatch order.
func (e *Engine) Contacts() []bundle.Contact {
	return append([]bundle.Contact(nil), e.contacts...)
}

// Metrics returns a copy of the snapshot timeline collected so far.
func (e *Engine) Metrics() []Snapshot {
	return append([]Snapshot(nil), e.metrics...)
}

// CurrentMetrics aggregates the network state at the current simulated
// time without appending to the timeline.
func (e *Engine) CurrentMetrics() Snapshot {
	return e.collect()
}

// NodeStatistics snapshots one node's state at the current time.
func (e *Engine) NodeStatistics(id int) (node.State, error) {
	if id < 0 || id >= len(e.nodes) {
		return node.State{}, fmt.Errorf("unknown node %d", id)
	}
	return e.nodes[id].Statistics(e.now), nil
}

// NodeBuffered reports whether the bundle is currently buffered at the
// node.
func (e *Engine) NodeBuffered(nodeID int, bundleID string) (bool, error) {
	if nodeID < 0 || nodeID >= len(e.nodes) {
		return false, fmt.Errorf("unknown node %d", nodeID)
	}
	return e.nodes[nodeID].Buffered(bundleID), nil
}

// NodeCount returns the number of nodes in the network.
func (e *Engine) NodeCount() int {
	return len(e.nodes)
}

func sortContacts(contacts []bundle.Contact) {
	sort.SliceStable(contacts, func(i, j int) bool {
		return contacts[i].StartTime < contacts[j].StartTime
	})
}
