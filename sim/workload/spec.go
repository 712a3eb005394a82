package workload

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults applied to unset FlowSpec fields.
const (
	DefaultWindow               = 100.0 // seconds of arrivals when End is unset
	DefaultHighPriorityFraction = 0.5
	DefaultProcessingMin        = 1.0
	DefaultProcessingMax        = 10.0
)

// Spec is the top-level workload configuration: one entry per flow.
type Spec struct {
	Flows []FlowSpec `yaml:"flows"`
}

// FlowSpec describes how packets of one flow are generated.
type FlowSpec struct {
	ID      string  `yaml:"id"`
	Packets int     `yaml:"packets"`
	Start   float64 `yaml:"start"`
	End     float64 `yaml:"end"` // 0 means Start + DefaultWindow

	// Arrival is "uniform" (default) or "poisson". Rate is packets per second
	// and only applies to poisson.
	Arrival string  `yaml:"arrival"`
	Rate    float64 `yaml:"rate"`

	// HighPriorityFraction is the probability a packet is High; nil means 0.5.
	HighPriorityFraction *float64 `yaml:"high_priority_fraction"`
	Processing           *DistSpec `yaml:"processing"` // nil means uniform(1, 10)

	// Src and Dst name the topology link the flow crosses. Both or neither.
	Src            *int64  `yaml:"src"`
	Dst            *int64  `yaml:"dst"`
	PacketSizeBits float64 `yaml:"packet_size_bits"`
}

// DistSpec parameterizes a processing-time distribution.
type DistSpec struct {
	Type   string             `yaml:"type"`
	Params map[string]float64 `yaml:"params"`
}

var (
	validArrivalProcesses = map[string]bool{"": true, "uniform": true, "poisson": true}
	validDistTypes        = map[string]bool{
		"uniform": true, "exponential": true, "constant": true, "gaussian": true,
	}
)

// LoadSpec reads and parses a YAML workload file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadSpec(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workload spec: %w", err)
	}
	var spec Spec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing workload spec: %w", err)
	}
	return &spec, nil
}

// Validate checks that all fields in the spec are valid.
func (s *Spec) Validate() error {
	seen := make(map[string]bool, len(s.Flows))
	for i := range s.Flows {
		f := &s.Flows[i]
		if err := validateFlow(f, i); err != nil {
			return err
		}
		if seen[f.ID] {
			return fmt.Errorf("flow[%d]: duplicate id %q", i, f.ID)
		}
		seen[f.ID] = true
	}
	return nil
}

func validateFlow(f *FlowSpec, idx int) error {
	prefix := fmt.Sprintf("flow[%d]", idx)
	if f.ID == "" {
		return fmt.Errorf("%s: id must not be empty", prefix)
	}
	if f.Packets < 0 {
		return fmt.Errorf("%s: packets must be non-negative, got %d", prefix, f.Packets)
	}
	if err := validateFinite(prefix+".start", f.Start); err != nil {
		return err
	}
	if err := validateFinite(prefix+".end", f.End); err != nil {
		return err
	}
	if f.Start < 0 {
		return fmt.Errorf("%s: start must be non-negative, got %f", prefix, f.Start)
	}
	if f.End != 0 && f.End <= f.Start {
		return fmt.Errorf("%s: end (%f) must be after start (%f)", prefix, f.End, f.Start)
	}
	if !validArrivalProcesses[f.Arrival] {
		return fmt.Errorf("%s: unknown arrival process %q; valid: uniform, poisson", prefix, f.Arrival)
	}
	if f.Arrival == "poisson" {
		if err := validateFinitePositive(prefix+".rate", f.Rate); err != nil {
			return err
		}
	}
	if hp := f.HighPriorityFraction; hp != nil && (math.IsNaN(*hp) || *hp < 0 || *hp > 1) {
		return fmt.Errorf("%s: high_priority_fraction must be in [0, 1], got %f", prefix, *hp)
	}
	if f.Processing != nil {
		if err := validateDistSpec(prefix+".processing", f.Processing); err != nil {
			return err
		}
	}
	if (f.Src == nil) != (f.Dst == nil) {
		return fmt.Errorf("%s: src and dst must be set together", prefix)
	}
	if math.IsNaN(f.PacketSizeBits) || math.IsInf(f.PacketSizeBits, 0) || f.PacketSizeBits < 0 {
		return fmt.Errorf("%s: packet_size_bits must be non-negative, got %f", prefix, f.PacketSizeBits)
	}
	return nil
}

func validateDistSpec(prefix string, d *DistSpec) error {
	if !validDistTypes[d.Type] {
		return fmt.Errorf("%s: unknown distribution type %q; valid: uniform, exponential, constant, gaussian", prefix, d.Type)
	}
	for name, val := range d.Params {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return fmt.Errorf("%s.params.%s must be a finite number, got %f", prefix, name, val)
		}
	}
	return nil
}

func validateFinite(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return fmt.Errorf("%s must be a finite number, got %f", name, val)
	}
	return nil
}

func validateFinitePositive(name string, val float64) error {
	if err := validateFinite(name, val); err != nil {
		return err
	}
	if val <= 0 {
		return fmt.Errorf("%s must be positive, got %f", name, val)
	}
	return nil
}

// window returns the arrival interval with defaults applied.
func (f *FlowSpec) window() (start, end float64) {
	end = f.End
	if end == 0 {
		end = f.Start + DefaultWindow
	}
	return f.Start, end
}

func (f *FlowSpec) highPriorityFraction() float64 {
	if f.HighPriorityFraction == nil {
		return DefaultHighPriorityFraction
	}
	return *f.HighPriorityFraction
}

func (f *FlowSpec) processing() DistSpec {
	if f.Processing == nil {
		return DistSpec{Type: "uniform", Params: map[string]float64{
			"min": DefaultProcessingMin, "max": DefaultProcessingMax,
		}}
	}
	return *f.Processing
}
