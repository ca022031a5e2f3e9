package sim

import (
	"context"
	"fmt"

	"dtnsim/internal/bundle"
	"dtnsim/internal/logging"
)

// Traffic generation draw bounds.
const (
	trafficBatchMin   = 20
	trafficBatchMax   = 30
	bundleSizeMin     = 512 // bytes
	bundleSizeMax     = 4096
	deadlineOffsetMin = 50.0 // seconds from creation
	deadlineOffsetMax = 300.0
)

// injectTraffic generates one batch of bundles with random endpoints and
// admits each at its source node. Draw order per bundle: source,
// destination, size, QoS tier, deadline offset.
func (e *Engine) injectTraffic(ctx context.Context) {
	count := trafficBatchMin + e.rand.Intn(trafficBatchMax-trafficBatchMin+1)
	logging.FromContext(ctx).Debug("injecting traffic", "sim_time", e.now, "bundles", count)

	n := e.cfg.NumNodes
	for i := 0; i < count; i++ {
		source := e.rand.Intn(n)
		destination := e.rand.Intn(n)
		if destination == source {
			destination = (destination + 1) % n
		}
		size := bundleSizeMin + e.rand.Intn(bundleSizeMax-bundleSizeMin+1)
		qos := bundle.QoSLevel(e.rand.Intn(e.cfg.QoSPriorityLevels))
		deadline := e.now + deadlineOffsetMin + e.rand.Float64()*(deadlineOffsetMax-deadlineOffsetMin)

		b := &bundle.Bundle{
			ID:           fmt.Sprintf("bundle_%.2f_%d", e.now, i),
			Source:       source,
			Destination:  destination,
			Size:         size,
			CreationTime: e.now,
			Deadline:     deadline,
			QoS:          qos,
		}
		e.nodes[source].Receive(b, e.now)
	}
}
