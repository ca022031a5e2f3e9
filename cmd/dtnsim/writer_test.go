package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"dtnsim/internal/sim"
)

func TestNewWritersPrintOnly(t *testing.T) {
	w, cleanup, err := newWriters(true, "")
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	cleanup()
	if _, ok := w.(*sim.StdoutWriter); !ok {
		t.Fatalf("expected *sim.StdoutWriter, got %T", w)
	}
}

func TestNewWritersGreptimeFallback(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "")
	w, cleanup, err := newWriters(false, "")
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	cleanup()
	if _, ok := w.(*sim.StdoutWriter); !ok {
		t.Fatalf("expected *sim.StdoutWriter, got %T", w)
	}
}

func TestNewWritersLogFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "metrics.jsonl")
	w, cleanup, err := newWriters(true, path)
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	defer cleanup()
	if _, ok := w.(*sim.MultiWriter); !ok {
		t.Fatalf("expected *sim.MultiWriter, got %T", w)
	}

	row := sim.MetricsRow{RunID: "run-1", WrittenAt: time.Now()}
	if err := w.WriteMetrics(row); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	nw, ok := w.(sim.NodeStateWriter)
	if !ok {
		t.Fatalf("writer does not implement NodeStateWriter")
	}
	if err := nw.WriteNodeStates([]sim.NodeStateRow{{RunID: "run-1"}}); err != nil {
		t.Fatalf("write node states failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("expected metrics log to be non-empty")
	}
	nodeInfo, err := os.Stat(path + ".nodes")
	if err != nil {
		t.Fatalf("stat nodes failed: %v", err)
	}
	if nodeInfo.Size() == 0 {
		t.Fatalf("expected node log to be non-empty")
	}
}
