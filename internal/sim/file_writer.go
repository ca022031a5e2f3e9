package sim

import (
	"encoding/json"
	"os"
)

// FileWriter writes metrics and node-state rows to JSONL files.
type FileWriter struct {
	metricsFile *os.File
	nodeFile    *os.File
	metricsEnc  *json.Encoder
	nodeEnc     *json.Encoder
}

// NewFileWriter creates a FileWriter. nodeStatePath may be empty to skip
// the node-state log.
func NewFileWriter(metricsPath, nodeStatePath string) (*FileWriter, error) {
	mf, err := os.Create(metricsPath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{metricsFile: mf, metricsEnc: json.NewEncoder(mf)}
	if nodeStatePath != "" {
		nf, err := os.Create(nodeStatePath)
		if err != nil {
			mf.Close()
			return nil, err
		}
		fw.nodeFile = nf
		fw.nodeEnc = json.NewEncoder(nf)
	}
	return fw, nil
}

// WriteMetrics logs a single metrics row.
func (f *FileWriter) WriteMetrics(row MetricsRow) error {
	return f.metricsEnc.Encode(row)
}

// WriteMetricsBatch logs multiple metrics rows.
func (f *FileWriter) WriteMetricsBatch(rows []MetricsRow) error {
	for _, r := range rows {
		if err := f.WriteMetrics(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteNodeStates logs per-node statistics rows, if enabled.
func (f *FileWriter) WriteNodeStates(rows []NodeStateRow) error {
	if f.nodeEnc == nil {
		return nil
	}
	for _, r := range rows {
		if err := f.nodeEnc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying files.
func (f *FileWriter) Close() error {
	var err error
	if f.metricsFile != nil {
		if e := f.metricsFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	if f.nodeFile != nil {
		if e := f.nodeFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
