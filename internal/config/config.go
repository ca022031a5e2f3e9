// YAML config loader with CUE validation integration
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SimulationConfig is the immutable snapshot a run is built from. The
// seed plus the remaining fields fully determine the contact schedule,
// the injected traffic, and the outcome of a run.
type SimulationConfig struct {
	// Network topology
	NumNodes      int     `yaml:"num_nodes" json:"num_nodes"`
	NetworkRadius float64 `yaml:"network_radius" json:"network_radius"` // meters

	// Delay tolerant networking
	MaxBufferSize      int     `yaml:"max_buffer_size" json:"max_buffer_size"` // bundles per node
	MinContactDuration float64 `yaml:"min_contact_duration" json:"min_contact_duration"`
	ContactProbability float64 `yaml:"contact_probability" json:"contact_probability"`

	// LTP protocol parameters
	LTPSegmentSize        int     `yaml:"ltp_segment_size" json:"ltp_segment_size"` // bytes
	LTPMaxRetransmissions int     `yaml:"ltp_max_retransmissions" json:"ltp_max_retransmissions"`
	LTPRTOInitial         float64 `yaml:"ltp_rto_initial" json:"ltp_rto_initial"` // seconds

	// Channel characteristics
	ChannelCapacity float64 `yaml:"channel_capacity" json:"channel_capacity"` // Mbps
	BaseErrorRate   float64 `yaml:"base_error_rate" json:"base_error_rate"`

	// QoS parameters
	QoSPriorityLevels int `yaml:"qos_priority_levels" json:"qos_priority_levels"`
	MaxHopCount       int `yaml:"max_hop_count" json:"max_hop_count"`

	// Simulation timing
	SimulationTime  float64 `yaml:"simulation_time" json:"simulation_time"` // seconds
	StepInterval    float64 `yaml:"step_interval" json:"step_interval"`
	TrafficInterval float64 `yaml:"traffic_interval" json:"traffic_interval"` // 0 disables background traffic
	MetricsInterval float64 `yaml:"metrics_interval" json:"metrics_interval"`

	// Random seed for reproducibility
	RandomSeed int64 `yaml:"random_seed" json:"random_seed"`
}

// Default returns the reference configuration.
func Default() *SimulationConfig {
	return &SimulationConfig{
		NumNodes:              8,
		NetworkRadius:         5000.0,
		MaxBufferSize:         50,
		MinContactDuration:    10.0,
		ContactProbability:    0.6,
		LTPSegmentSize:        1024,
		LTPMaxRetransmissions: 5,
		LTPRTOInitial:         5.0,
		ChannelCapacity:       100.0,
		BaseErrorRate:         0.01,
		QoSPriorityLevels:     4,
		MaxHopCount:           10,
		SimulationTime:        500.0,
		StepInterval:          5.0,
		TrafficInterval:       50.0,
		MetricsInterval:       100.0,
		RandomSeed:            45,
	}
}

// Load reads a YAML config, validates it against the CUE schema, applies
// it over the defaults, and runs the struct-level checks.
func Load(configPath, cueSchemaPath string) (*SimulationConfig, error) {
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate fails fast on degenerate configurations the engine must not
// silently run with.
func (c *SimulationConfig) Validate() error {
	if c.NumNodes < 2 {
		return fmt.Errorf("num_nodes must be at least 2, got %d", c.NumNodes)
	}
	if c.NetworkRadius <= 0 {
		return fmt.Errorf("network_radius must be positive, got %.2f", c.NetworkRadius)
	}
	if c.MaxBufferSize <= 0 {
		return fmt.Errorf("max_buffer_size must be positive, got %d", c.MaxBufferSize)
	}
	if c.MinContactDuration <= 0 || c.MinContactDuration > 60 {
		return fmt.Errorf("min_contact_duration must be in (0,60], got %.2f", c.MinContactDuration)
	}
	if c.ContactProbability < 0 || c.ContactProbability > 1 {
		return fmt.Errorf("contact_probability must be in [0,1], got %.3f", c.ContactProbability)
	}
	if c.LTPSegmentSize <= 0 {
		return fmt.Errorf("ltp_segment_size must be positive, got %d", c.LTPSegmentSize)
	}
	if c.LTPRTOInitial <= 0 {
		return fmt.Errorf("ltp_rto_initial must be positive, got %.2f", c.LTPRTOInitial)
	}
	if c.ChannelCapacity <= 0 {
		return fmt.Errorf("channel_capacity must be positive, got %.2f", c.ChannelCapacity)
	}
	if c.BaseErrorRate < 0 || c.BaseErrorRate >= 1 {
		return fmt.Errorf("base_error_rate must be in [0,1), got %.3f", c.BaseErrorRate)
	}
	if c.QoSPriorityLevels < 1 || c.QoSPriorityLevels > 4 {
		return fmt.Errorf("qos_priority_levels must be in [1,4], got %d", c.QoSPriorityLevels)
	}
	if c.MaxHopCount <= 0 {
		return fmt.Errorf("max_hop_count must be positive, got %d", c.MaxHopCount)
	}
	if c.SimulationTime <= 0 {
		return fmt.Errorf("simulation_time must be positive, got %.2f", c.SimulationTime)
	}
	if c.StepInterval <= 0 || c.StepInterval > c.SimulationTime {
		return fmt.Errorf("step_interval must be in (0, simulation_time], got %.2f", c.StepInterval)
	}
	// Zero disables background traffic (scripted scenarios).
	if c.TrafficInterval != 0 && c.TrafficInterval < c.StepInterval {
		return fmt.Errorf("traffic_interval %.2f smaller than step_interval %.2f", c.TrafficInterval, c.StepInterval)
	}
	if c.MetricsInterval < c.StepInterval {
		return fmt.Errorf("metrics_interval %.2f smaller than step_interval %.2f", c.MetricsInterval, c.StepInterval)
	}
	return nil
}
