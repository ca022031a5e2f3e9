// Writer implementation printing metrics to STDOUT
package sim

import (
	"encoding/json"
	"fmt"
)

// StdoutWriter prints metrics and node-state rows to STDOUT as JSON lines.
type StdoutWriter struct{}

// WriteMetrics outputs a single metrics row.
func (w *StdoutWriter) WriteMetrics(row MetricsRow) error {
	data, _ := json.Marshal(row)
	fmt.Println(string(data))
	return nil
}

// WriteMetricsBatch outputs multiple metrics rows.
func (w *StdoutWriter) WriteMetricsBatch(rows []MetricsRow) error {
	for _, r := range rows {
		_ = w.WriteMetrics(r)
	}
	return nil
}

// WriteNodeStates prints per-node statistics rows.
func (w *StdoutWriter) WriteNodeStates(rows []NodeStateRow) error {
	for _, r := range rows {
		data, _ := json.Marshal(r)
		fmt.Println(string(data))
	}
	return nil
}
