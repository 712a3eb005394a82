package sim

import (
	"fmt"
	"math"
	"strings"

	"github.com/flowsim/flowsim/sim/congestion"
	"github.com/flowsim/flowsim/sim/trace"
)

// Congestion controller scopes.
const (
	// ScopeShared uses one controller for every flow (a shared bottleneck).
	ScopeShared = "shared"
	// ScopePerFlow gives each flow its own controller.
	ScopePerFlow = "per-flow"
)

// ValidCongestionScopes is the set of recognized congestion scope names.
var ValidCongestionScopes = map[string]bool{ScopeShared: true, ScopePerFlow: true}

// RateLimiterConfig groups token bucket parameters.
type RateLimiterConfig struct {
	Rate     float64 `yaml:"rate"`     // tokens per second
	Capacity float64 `yaml:"capacity"` // bucket size in tokens
	Clock    string  `yaml:"clock"`    // "simulated" (default) or "wall"
}

// Config is the constructor-time configuration of a FlowSimulator.
// It is not mutable once the simulator is built.
type Config struct {
	MaxQueueSize    int               `yaml:"max_queue_size"`
	Discipline      string            `yaml:"discipline"`
	Quantum         int               `yaml:"quantum"` // reserved for time-sliced RR; validated and logged only
	Horizon         float64           `yaml:"horizon"` // 0 = run until the timeline is empty
	RateLimiter     RateLimiterConfig `yaml:"rate_limiter"`
	Congestion      congestion.Config `yaml:"congestion"`
	CongestionScope string            `yaml:"congestion_scope"`
	Trace           trace.Level       `yaml:"trace"`
}

// DefaultConfig returns the reference configuration: FIFO dispatch, a
// 50-packet queue, a 10 tokens/s bucket of 100 tokens on simulated time and a
// shared loss-based controller.
func DefaultConfig() Config {
	return Config{
		MaxQueueSize: 50,
		Discipline:   DisciplineFIFO,
		Quantum:      5,
		RateLimiter: RateLimiterConfig{
			Rate:     10,
			Capacity: 100,
			Clock:    ClockSimulated,
		},
		Congestion:      congestion.DefaultConfig(),
		CongestionScope: ScopeShared,
		Trace:           trace.LevelNone,
	}
}

// Validate rejects invalid configuration. Nothing is defaulted silently:
// every name must be spelled out.
func (c Config) Validate() error {
	if c.MaxQueueSize < 1 {
		return fmt.Errorf("max_queue_size must be >= 1, got %d", c.MaxQueueSize)
	}
	if !IsValidDiscipline(c.Discipline) {
		return fmt.Errorf("unknown scheduler discipline %q", c.Discipline)
	}
	if c.Quantum < 0 {
		return fmt.Errorf("quantum must be non-negative, got %d", c.Quantum)
	}
	if math.IsNaN(c.Horizon) || c.Horizon < 0 {
		return fmt.Errorf("horizon must be non-negative, got %v", c.Horizon)
	}
	if math.IsNaN(c.RateLimiter.Rate) || math.IsInf(c.RateLimiter.Rate, 0) || c.RateLimiter.Rate <= 0 {
		return fmt.Errorf("rate_limiter.rate must be positive and finite, got %v", c.RateLimiter.Rate)
	}
	if math.IsNaN(c.RateLimiter.Capacity) || math.IsInf(c.RateLimiter.Capacity, 0) || c.RateLimiter.Capacity <= 0 {
		return fmt.Errorf("rate_limiter.capacity must be positive and finite, got %v", c.RateLimiter.Capacity)
	}
	if !ValidLimiterClocks[strings.ToLower(c.RateLimiter.Clock)] {
		return fmt.Errorf("unknown rate_limiter.clock %q", c.RateLimiter.Clock)
	}
	if err := c.Congestion.Validate(); err != nil {
		return fmt.Errorf("congestion: %w", err)
	}
	if !ValidCongestionScopes[strings.ToLower(c.CongestionScope)] {
		return fmt.Errorf("unknown congestion_scope %q", c.CongestionScope)
	}
	if !trace.IsValidLevel(string(c.Trace)) {
		return fmt.Errorf("unknown trace level %q", c.Trace)
	}
	return nil
}
