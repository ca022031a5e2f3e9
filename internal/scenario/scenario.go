// Named preset scenarios and YAML scenario files
package scenario

import (
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"dtnsim/internal/bundle"
	"dtnsim/internal/config"
	"dtnsim/internal/sim"
)

// Scenario bundles a configuration with an optional scripted contact
// schedule and pre-injected traffic. A nil Contacts slice keeps the
// engine's generated schedule.
type Scenario struct {
	Name        string
	Description string
	Config      *config.SimulationConfig
	Contacts    []bundle.Contact
	Bundles     []bundle.Bundle
}

// Apply installs the scripted schedule and injects the scenario's
// bundles into a freshly built engine.
func (s *Scenario) Apply(e *sim.Engine) error {
	if s.Contacts != nil {
		if err := e.SetContacts(s.Contacts); err != nil {
			return fmt.Errorf("scenario %s: %w", s.Name, err)
		}
	}
	for i := range s.Bundles {
		b := s.Bundles[i]
		if err := e.InjectBundle(&b); err != nil {
			return fmt.Errorf("scenario %s: %w", s.Name, err)
		}
	}
	return nil
}

// presets are built lazily so each caller gets fresh config and bundle
// values to mutate.
var presets = map[string]func() *Scenario{
	"basic":      basic,
	"deepspace":  deepSpace,
	"congestion": congestion,
}

// Names lists the built-in presets in sorted order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByName returns a fresh copy of the named preset.
func ByName(name string) (*Scenario, error) {
	build, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q (have %v)", name, Names())
	}
	return build(), nil
}

// basic is a three-node line topology. One HIGH bundle must be relayed
// through the middle node over two disjoint contact windows.
func basic() *Scenario {
	cfg := config.Default()
	cfg.NumNodes = 3
	cfg.SimulationTime = 100
	cfg.MaxBufferSize = 20
	cfg.TrafficInterval = 0
	cfg.MetricsInterval = 25
	cfg.RandomSeed = 42
	return &Scenario{
		Name:        "basic",
		Description: "three-node store-and-forward chain with scripted contacts",
		Config:      cfg,
		Contacts: []bundle.Contact{
			{NodeA: 0, NodeB: 1, StartTime: 10, EndTime: 20, Capacity: 100, Reliability: 0.99},
			{NodeA: 1, NodeB: 2, StartTime: 30, EndTime: 40, Capacity: 100, Reliability: 0.99},
		},
		Bundles: []bundle.Bundle{
			{ID: "example_bundle_1", Source: 0, Destination: 2, Size: 1024, CreationTime: 0, Deadline: 100, QoS: bundle.QoSHigh},
		},
	}
}

// deepSpace models three satellites relaying to a ground station over
// short periodic visibility passes on a lossy, capacity-limited link.
func deepSpace() *Scenario {
	cfg := config.Default()
	cfg.NumNodes = 4
	cfg.SimulationTime = 300
	cfg.ChannelCapacity = 50
	cfg.BaseErrorRate = 0.02
	cfg.MaxBufferSize = 100
	cfg.RandomSeed = 123

	const (
		orbitPeriod     = 90.0
		visibleDuration = 10.0
	)
	var passes []bundle.Contact
	for sat := 1; sat < cfg.NumNodes; sat++ {
		for orbit := 0; ; orbit++ {
			start := float64(orbit)*orbitPeriod + 20.0
			if start >= cfg.SimulationTime {
				break
			}
			passes = append(passes, bundle.Contact{
				NodeA:       0, // ground station
				NodeB:       sat,
				StartTime:   start,
				EndTime:     math.Min(start+visibleDuration, cfg.SimulationTime),
				Capacity:    cfg.ChannelCapacity,
				Reliability: 0.98,
			})
		}
	}
	return &Scenario{
		Name:        "deepspace",
		Description: "satellites with periodic ground station passes and background traffic",
		Config:      cfg,
		Contacts:    passes,
	}
}

// congestion overloads a tiny buffer with mixed-QoS traffic so the
// eviction policy is observable: exactly one LOW bundle is dropped.
func congestion() *Scenario {
	cfg := config.Default()
	cfg.NumNodes = 2
	cfg.SimulationTime = 50
	cfg.MaxBufferSize = 5
	cfg.TrafficInterval = 0
	cfg.MetricsInterval = 25
	cfg.RandomSeed = 456

	tiers := []struct {
		id  string
		qos bundle.QoSLevel
	}{
		{"bundle_critical", bundle.QoSCritical},
		{"bundle_high", bundle.QoSHigh},
		{"bundle_normal", bundle.QoSNormal},
		{"bundle_low_1", bundle.QoSLow},
		{"bundle_low_2", bundle.QoSLow},
		{"bundle_low_3", bundle.QoSLow},
	}
	// Deadlines increase with injection order so the LOW bundles carry
	// the latest deadlines and the eviction victim is always LOW.
	bundles := make([]bundle.Bundle, len(tiers))
	for i, tr := range tiers {
		bundles[i] = bundle.Bundle{
			ID:          tr.id,
			Source:      0,
			Destination: 1,
			Size:        1000,
			Deadline:    float64(50 + i),
			QoS:         tr.qos,
		}
	}
	return &Scenario{
		Name:        "congestion",
		Description: "small buffer under mixed-QoS overload, one LOW bundle dropped",
		Config:      cfg,
		Contacts: []bundle.Contact{
			{NodeA: 0, NodeB: 1, StartTime: 10, EndTime: 40, Capacity: 100, Reliability: 0.95},
		},
		Bundles: bundles,
	}
}

// YAML representation of a scenario file. Contact and bundle shapes
// mirror the report JSON field names.
type scenarioFile struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description,omitempty"`
	Config      yaml.Node     `yaml:"config,omitempty"`
	Contacts    []contactSpec `yaml:"contacts,omitempty"`
	Bundles     []bundleSpec  `yaml:"bundles,omitempty"`
}

type contactSpec struct {
	NodeA       int     `yaml:"node_a"`
	NodeB       int     `yaml:"node_b"`
	StartTime   float64 `yaml:"start_time"`
	EndTime     float64 `yaml:"end_time"`
	Capacity    float64 `yaml:"capacity_mbps"`
	Reliability float64 `yaml:"reliability"`
}

type bundleSpec struct {
	ID           string  `yaml:"bundle_id"`
	Source       int     `yaml:"source_id"`
	Destination  int     `yaml:"destination_id"`
	Size         int     `yaml:"size"`
	CreationTime float64 `yaml:"creation_time"`
	Deadline     float64 `yaml:"deadline"`
	QoS          string  `yaml:"qos_level"`
}

// Load reads a YAML scenario definition from disk. A missing config
// section falls back to the defaults.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var f scenarioFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if f.Name == "" {
		return nil, fmt.Errorf("scenario %s has no name", path)
	}

	// The config section is an overlay on the defaults.
	s := &Scenario{Name: f.Name, Description: f.Description, Config: config.Default()}
	if f.Config.Kind != 0 {
		if err := f.Config.Decode(s.Config); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", f.Name, err)
		}
	}
	if err := s.Config.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", f.Name, err)
	}
	if f.Contacts != nil {
		s.Contacts = make([]bundle.Contact, len(f.Contacts))
		for i, c := range f.Contacts {
			contact, err := bundle.NewContact(c.NodeA, c.NodeB, c.StartTime, c.EndTime, c.Capacity, c.Reliability)
			if err != nil {
				return nil, fmt.Errorf("scenario %s: %w", f.Name, err)
			}
			s.Contacts[i] = contact
		}
	}
	for _, b := range f.Bundles {
		qos, err := bundle.ParseQoSLevel(b.QoS)
		if err != nil {
			return nil, fmt.Errorf("scenario %s, bundle %s: %w", f.Name, b.ID, err)
		}
		s.Bundles = append(s.Bundles, bundle.Bundle{
			ID:           b.ID,
			Source:       b.Source,
			Destination:  b.Destination,
			Size:         b.Size,
			CreationTime: b.CreationTime,
			Deadline:     b.Deadline,
			QoS:          qos,
		})
	}
	return s, nil
}
