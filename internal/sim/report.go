package sim

import (
	"time"

	"dtnsim/internal/bundle"
	"dtnsim/internal/config"
	"dtnsim/internal/node"
)

// Report is the structured record of a finished run: configuration,
// metrics timeline, per-node statistics, and the full contact schedule.
// Encoding and persistence belong to the caller; the engine only builds
// the record.
type Report struct {
	RunID           string                  `json:"run_id"`
	GeneratedAt     time.Time               `json:"generated_at"`
	Configuration   config.SimulationConfig `json:"configuration"`
	ExecutionTime   float64                 `json:"execution_time"` // simulated seconds
	MetricsTimeline []Snapshot              `json:"metrics_timeline"`
	NodeStatistics  []node.State            `json:"node_statistics"`
	ContactSchedule []bundle.Contact        `json:"contact_schedule"`
}

// Report assembles the run record from the engine's accumulated state.
func (e *Engine) Report() Report {
	states := make([]node.State, len(e.nodes))
	for i, n := range e.nodes {
		states[i] = n.Statistics(e.now)
	}
	return Report{
		RunID:           e.runID,
		GeneratedAt:     e.clock().UTC(),
		Configuration:   *e.cfg,
		ExecutionTime:   e.now,
		MetricsTimeline: append([]Snapshot(nil), e.metrics...),
		NodeStatistics:  states,
		ContactSchedule: append([]bundle.Contact(nil), e.contacts...),
	}
}
