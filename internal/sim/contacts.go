package sim

import (
	"math"
	"math/rand"

	"dtnsim/internal/bundle"
	"dtnsim/internal/config"
)

// Contact window draw bounds.
const (
	maxContactDuration = 60.0 // seconds
	contactStartSpan   = 0.7  // windows start within the first 70% of the horizon
	capacityFactorMin  = 0.5
	errorFactorMin     = 0.5
	errorFactorMax     = 3.0
	minWindowsPerPair  = 2
	maxWindowsPerPair  = 5
)

// generateContacts draws the full stochastic schedule up front. The draw
// order is fixed per node pair (i<j, ascending): one Bernoulli trial for
// the pair, then a window count, then per window start, duration,
// capacity factor, and error-rate factor. Reordering any draw changes
// the schedule for a given seed.
func generateContacts(cfg *config.SimulationConfig, r *rand.Rand) []bundle.Contact {
	var contacts []bundle.Contact
	for i := 0; i < cfg.NumNodes; i++ {
		for j := i + 1; j < cfg.NumNodes; j++ {
			if r.Float64() >= cfg.ContactProbability {
				continue
			}
			count := minWindowsPerPair + r.Intn(maxWindowsPerPair-minWindowsPerPair+1)
			for w := 0; w < count; w++ {
				start := r.Float64() * cfg.SimulationTime * contactStartSpan
				duration := cfg.MinContactDuration + r.Float64()*(maxContactDuration-cfg.MinContactDuration)
				end := math.Min(start+duration, cfg.SimulationTime)
				capacity := cfg.ChannelCapacity * (capacityFactorMin + r.Float64()*(1-capacityFactorMin))
				errorRate := cfg.BaseErrorRate * (errorFactorMin + r.Float64()*(errorFactorMax-errorFactorMin))
				// A base error rate above 1/3 can perturb past 1; clamp so
				// the stored reliability keeps the [0,1] invariant. The
				// Bernoulli draw treats both the same (never succeeds).
				reliability := math.Max(0, 1.0-errorRate)
				contacts = append(contacts, bundle.Contact{
					NodeA:       i,
					NodeB:       j,
					StartTime:   start,
					EndTime:     end,
					Capacity:    capacity,
					Reliability: reliability,
				})
			}
		}
	}
	return contacts
}
