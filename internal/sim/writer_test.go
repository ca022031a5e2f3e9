package sim

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dtnsim/internal/node"
)

func sampleMetricsRow(runID string, simTime float64) MetricsRow {
	return MetricsRow{
		RunID: runID,
		Snapshot: Snapshot{
			Timestamp:          simTime,
			TotalDelivered:     3,
			TotalTransmitted:   4,
			TotalDropped:       1,
			AvgLatency:         12.5,
			DeliveryRatio:      0.75,
			AvgBufferOccupancy: 2.0,
		},
		WrittenAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestFileWriterRoundTrip(t *testing.T) {
	dir := t.TempDir()
	metricsPath := filepath.Join(dir, "metrics.jsonl")
	nodePath := filepath.Join(dir, "nodes.jsonl")

	fw, err := NewFileWriter(metricsPath, nodePath)
	require.NoError(t, err)

	require.NoError(t, fw.WriteMetrics(sampleMetricsRow("run-1", 100)))
	require.NoError(t, fw.WriteMetricsBatch([]MetricsRow{
		sampleMetricsRow("run-1", 200),
		sampleMetricsRow("run-1", 300),
	}))
	require.NoError(t, fw.WriteNodeStates([]NodeStateRow{
		{RunID: "run-1", State: node.State{NodeID: 0, Timestamp: 300, Delivered: 2}},
		{RunID: "run-1", State: node.State{NodeID: 1, Timestamp: 300}},
	}))
	require.NoError(t, fw.Close())

	f, err := os.Open(metricsPath)
	require.NoError(t, err)
	defer f.Close()

	var rows []MetricsRow
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var r MetricsRow
		require.NoError(t, json.Unmarshal(sc.Bytes(), &r))
		rows = append(rows, r)
	}
	require.NoError(t, sc.Err())
	require.Len(t, rows, 3)
	assert.Equal(t, "run-1", rows[0].RunID)
	assert.InDelta(t, 200.0, rows[1].Timestamp, 1e-9)
	assert.InDelta(t, 0.75, rows[2].DeliveryRatio, 1e-9)

	nodeData, err := os.ReadFile(nodePath)
	require.NoError(t, err)
	nodeLines := bytes.Split(bytes.TrimSpace(nodeData), []byte("\n"))
	require.Len(t, nodeLines, 2)
	var nr NodeStateRow
	require.NoError(t, json.Unmarshal(nodeLines[0], &nr))
	assert.Equal(t, 2, nr.Delivered)
}

func TestFileWriterNodeStateOptional(t *testing.T) {
	dir := t.TempDir()
	fw, err := NewFileWriter(filepath.Join(dir, "metrics.jsonl"), "")
	require.NoError(t, err)
	defer fw.Close()

	assert.NoError(t, fw.WriteNodeStates([]NodeStateRow{{RunID: "run-1"}}))
}

// failingWriter always errors, for fan-out error propagation.
type failingWriter struct{}

func (failingWriter) WriteMetrics(MetricsRow) error        { return errors.New("write failed") }
func (failingWriter) WriteNodeStates([]NodeStateRow) error { return errors.New("write failed") }

func TestMultiWriterFanOut(t *testing.T) {
	a := &mockWriter{}
	b := &mockWriter{}
	mw := NewMultiWriter(
		[]MetricsWriter{a, b},
		[]NodeStateWriter{a, b},
	)

	require.NoError(t, mw.WriteMetrics(sampleMetricsRow("run-1", 50)))
	require.NoError(t, mw.WriteMetricsBatch([]MetricsRow{
		sampleMetricsRow("run-1", 100),
		sampleMetricsRow("run-1", 150),
	}))
	require.NoError(t, mw.WriteNodeStates([]NodeStateRow{{RunID: "run-1"}}))

	assert.Len(t, a.rows, 3)
	assert.Len(t, b.rows, 3)
	assert.Len(t, a.nodeRows, 1)
	assert.Len(t, b.nodeRows, 1)
}

func TestMultiWriterFirstErrorWins(t *testing.T) {
	ok := &mockWriter{}
	mw := NewMultiWriter(
		[]MetricsWriter{failingWriter{}, ok},
		[]NodeStateWriter{failingWriter{}, ok},
	)

	assert.Error(t, mw.WriteMetrics(sampleMetricsRow("run-1", 0)))
	assert.Error(t, mw.WriteNodeStates([]NodeStateRow{{RunID: "run-1"}}))
	assert.Len(t, ok.rows, 1, "remaining writers still receive the row")
	assert.Len(t, ok.nodeRows, 1)
}
