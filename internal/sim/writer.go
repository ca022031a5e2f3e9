package sim

// MetricsWriter receives network-wide snapshot rows as the run produces
// them.
type MetricsWriter interface {
	WriteMetrics(MetricsRow) error
}

// Optional: writers can also support batch mode.
type batchMetricsWriter interface {
	WriteMetricsBatch([]MetricsRow) error
}

// NodeStateWriter receives per-node statistics rows at finalization.
type NodeStateWriter interface {
	WriteNodeStates([]NodeStateRow) error
}
