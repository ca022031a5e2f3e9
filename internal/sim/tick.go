package sim

import (
	"context"

	"dtnsim/internal/logging"
)

// Run executes the step loop to completion. Within each step traffic is
// injected first, due contacts are dispatched in ascending start-time
// order, and the metrics cadence fires last; the clock then advances by
// the step interval. Finalization forces one last snapshot. The engine's
// accumulated state stays queryable after Run returns.
func (e *Engine) Run(ctx context.Context) error {
	log := logging.FromContext(ctx)
	log.Info("starting simulation",
		"run_id", e.runID,
		"nodes", len(e.nodes),
		"contacts", len(e.contacts),
		"horizon_s", e.cfg.SimulationTime,
		"step_s", e.cfg.StepInterval,
		"seed", e.cfg.RandomSeed)

	// Cadences in whole steps; intervals are validated to be >= the step.
	// A zero traffic interval disables background traffic.
	trafficEvery := 0
	if e.cfg.TrafficInterval > 0 {
		trafficEvery = int(e.cfg.TrafficInterval / e.cfg.StepInterval)
	}
	metricsEvery := int(e.cfg.MetricsInterval / e.cfg.StepInterval)

	// Initial burst before the loop; the tick-0 cadence injects a second
	// batch at t=0.
	if trafficEvery > 0 {
		e.injectTraffic(ctx)
	}

	for e.now < e.cfg.SimulationTime {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if trafficEvery > 0 && e.tick%trafficEvery == 0 {
			e.injectTraffic(ctx)
		}
		e.dispatchContacts(ctx)
		if e.tick%metricsEvery == 0 {
			e.snapshot(ctx)
		}

		e.now += e.cfg.StepInterval
		e.tick++
	}

	e.snapshot(ctx)
	final := e.metrics[len(e.metrics)-1]
	log.Info("simulation complete",
		"run_id", e.runID,
		"delivered", final.TotalDelivered,
		"transmitted", final.TotalTransmitted,
		"dropped", final.TotalDropped,
		"delivery_ratio", final.DeliveryRatio)
	e.writeNodeStates(ctx)
	return nil
}

// dispatchContacts consumes every contact whose window has opened. A
// contact already past its end time is skipped outright; otherwise it is
// processed exactly once, however many steps its window spans.
func (e *Engine) dispatchContacts(ctx context.Context) {
	log := logging.FromContext(ctx)
	for e.nextContact < len(e.contacts) && e.contacts[e.nextContact].StartTime <= e.now {
		c := e.contacts[e.nextContact]
		e.nextContact++
		if c.EndTime <= e.now {
			continue
		}
		log.Debug("contact", "node_a", c.NodeA, "node_b", c.NodeB, "sim_time", e.now, "capacity_mbps", c.Capacity)
		e.processContact(c)
	}
}
