package sim

import (
	"context"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"
)

// greptimeClient abstracts the ingester client for testing.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeDBWriter writes metrics and node-state rows to GreptimeDB via
// the ingester client.
type GreptimeDBWriter struct {
	client       greptimeClient
	metricsTable string
	nodeTable    string
}

// NewGreptimeDBWriter connects to GreptimeDB. Empty table names fall
// back to dtn_metrics and dtn_node_state.
func NewGreptimeDBWriter(host, database, metricsTable, nodeTable string) (*GreptimeDBWriter, error) {
	cfg := greptime.NewConfig(host).WithDatabase(database)
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	if metricsTable == "" {
		metricsTable = "dtn_metrics"
	}
	if nodeTable == "" {
		nodeTable = "dtn_node_state"
	}
	return &GreptimeDBWriter{client: client, metricsTable: metricsTable, nodeTable: nodeTable}, nil
}

// WriteMetrics inserts a single metrics row.
func (w *GreptimeDBWriter) WriteMetrics(row MetricsRow) error {
	return w.WriteMetricsBatch([]MetricsRow{row})
}

// WriteMetricsBatch inserts multiple metrics rows.
func (w *GreptimeDBWriter) WriteMetricsBatch(rows []MetricsRow) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := table.New(w.metricsTable)
	if err != nil {
		return err
	}
	if err := tbl.AddTagColumn("run_id", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("sim_time", types.FLOAT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("total_delivered", types.INT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("total_transmitted", types.INT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("total_dropped", types.INT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("avg_latency", types.FLOAT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("delivery_ratio", types.FLOAT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("avg_buffer_utilization", types.FLOAT64); err != nil {
		return err
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return err
	}
	for _, r := range rows {
		err := tbl.AddRow(r.RunID, r.Snapshot.Timestamp,
			int64(r.TotalDelivered), int64(r.TotalTransmitted), int64(r.TotalDropped),
			r.AvgLatency, r.DeliveryRatio, r.AvgBufferOccupancy, r.WrittenAt)
		if err != nil {
			return err
		}
	}
	_, err = w.client.Write(context.Background(), tbl)
	return err
}

// WriteNodeStates inserts per-node statistics rows.
func (w *GreptimeDBWriter) WriteNodeStates(rows []NodeStateRow) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := table.New(w.nodeTable)
	if err != nil {
		return err
	}
	if err := tbl.AddTagColumn("run_id", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddTagColumn("node_id", types.INT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("sim_time", types.FLOAT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("buffer_size", types.INT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("bundles_transmitted", types.INT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("bundles_received", types.INT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("bundles_dropped", types.INT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("delivery_count", types.INT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("avg_latency", types.FLOAT64); err != nil {
		return err
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return err
	}
	for _, r := range rows {
		err := tbl.AddRow(r.RunID, int64(r.NodeID), r.State.Timestamp,
			int64(r.BufferSize), int64(r.Transmitted), int64(r.Received),
			int64(r.Dropped), int64(r.Delivered), r.AvgLatency, r.WrittenAt)
		if err != nil {
			return err
		}
	}
	_, err = w.client.Write(context.Background(), tbl)
	return err
}
