package main

import (
	"os"

	"dtnsim/internal/sim"
)

// newWriters sets up the metrics writer chain based on flags and env
// vars. It returns the writer and a cleanup function to close any
// resources.
func newWriters(printOnly bool, logFile string) (sim.MetricsWriter, func(), error) {
	cleanup := func() {}

	var writer sim.MetricsWriter
	if printOnly || os.Getenv("GREPTIMEDB_ENDPOINT") == "" {
		writer = &sim.StdoutWriter{}
	} else {
		w, err := sim.NewGreptimeDBWriter(
			os.Getenv("GREPTIMEDB_ENDPOINT"),
			"public",
			os.Getenv("GREPTIMEDB_METRICS_TABLE"),
			os.Getenv("GREPTIMEDB_NODE_TABLE"),
		)
		if err != nil {
			return nil, nil, err
		}
		writer = w
	}
	if logFile == "" {
		return writer, cleanup, nil
	}

	fw, err := sim.NewFileWriter(logFile, logFile+".nodes")
	if err != nil {
		return nil, nil, err
	}
	cleanup = func() { fw.Close() }

	nodes := []sim.NodeStateWriter{fw}
	if nw, ok := writer.(sim.NodeStateWriter); ok {
		nodes = append([]sim.NodeStateWriter{nw}, nodes...)
	}
	return sim.NewMultiWriter([]sim.MetricsWriter{writer, fw}, nodes), cleanup, nil
}
