package sim

// MultiWriter fans rows out to several writers.
type MultiWriter struct {
	metrics []MetricsWriter
	nodes   []NodeStateWriter
}

// NewMultiWriter creates a MultiWriter over the given writers.
func NewMultiWriter(metrics []MetricsWriter, nodes []NodeStateWriter) *MultiWriter {
	return &MultiWriter{metrics: metrics, nodes: nodes}
}

// WriteMetrics forwards a row to all metrics writers. The first error is
// returned after every writer has been tried.
func (m *MultiWriter) WriteMetrics(row MetricsRow) error {
	var first error
	for _, w := range m.metrics {
		if err := w.WriteMetrics(row); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// WriteMetricsBatch forwards a batch to all metrics writers, using batch
// mode where supported.
func (m *MultiWriter) WriteMetricsBatch(rows []MetricsRow) error {
	var first error
	for _, w := range m.metrics {
		var err error
		if bw, ok := w.(batchMetricsWriter); ok {
			err = bw.WriteMetricsBatch(rows)
		} else {
			for _, r := range rows {
				if e := w.WriteMetrics(r); e != nil && err == nil {
					err = e
				}
			}
		}
		if err != nil && first == nil {
			first = err
		}
	}
	return first
}

// WriteNodeStates forwards node-state rows to all node-state writers.
func (m *MultiWriter) WriteNodeStates(rows []NodeStateRow) error {
	var first error
	for _, w := range m.nodes {
		if err := w.WriteNodeStates(rows); err != nil && first == nil {
			first = err
		}
	}
	return first
}
