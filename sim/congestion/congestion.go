// Package congestion implements the congestion window state machines that
// gate admission in the flow simulator.
//
// Both variants share the cubic growth law w(t) = origin + c*t^3, where t is
// the simulated time elapsed since the last congestion signal. The window
// never drops below 1 and never exceeds the configured maximum.
package congestion

import (
	"fmt"
	"math"
	"strings"
)

// Controller computes an admission window and reacts to loss signals.
// Time is simulated seconds supplied through Advance; OnCongestionSignal
// takes effect at the most recent Advance time.
type Controller interface {
	CurrentWindow() float64
	OnCongestionSignal()
	Advance(now float64)
}

// RTTObserver is implemented by delay-sensitive controllers that consume
// round-trip time samples.
type RTTObserver interface {
	ObserveRTT(sample float64)
}

// Variant names.
const (
	VariantLossBased  = "loss-based"
	VariantDelayBased = "delay-based"
)

// variantAliases maps accepted names (including the algorithm names) to variants.
var variantAliases = map[string]string{
	VariantLossBased:  VariantLossBased,
	"cubic":           VariantLossBased,
	VariantDelayBased: VariantDelayBased,
	"vegas":           VariantDelayBased,
}

// IsValidVariant reports whether name is a recognized variant or alias.
func IsValidVariant(name string) bool {
	_, ok := variantAliases[strings.ToLower(name)]
	return ok
}

// Config holds constructor-time congestion parameters.
type Config struct {
	Variant       string  `yaml:"variant"`
	C             float64 `yaml:"c"`     // cubic concavity constant
	Beta          float64 `yaml:"beta"`  // delay-based shrink factor per unit of RTT excess
	Alpha         float64 `yaml:"alpha"` // EWMA weight of a new RTT sample
	MaxWindow     float64 `yaml:"max_window"`
	InitialWindow float64 `yaml:"initial_window"`
}

// DefaultConfig returns the loss-based defaults.
func DefaultConfig() Config {
	return Config{
		Variant:       VariantLossBased,
		C:             0.4,
		Beta:          0.3,
		Alpha:         0.5,
		MaxWindow:     1000,
		InitialWindow: 10,
	}
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Validate checks the variant name and the numeric ranges.
func (c Config) Validate() error {
	if !IsValidVariant(c.Variant) {
		return fmt.Errorf("unknown congestion variant %q", c.Variant)
	}
	if !finite(c.C) || c.C < 0 {
		return fmt.Errorf("congestion c must be finite and non-negative, got %v", c.C)
	}
	if !finite(c.Beta) || c.Beta < 0 {
		return fmt.Errorf("congestion beta must be finite and non-negative, got %v", c.Beta)
	}
	if !finite(c.MaxWindow) || c.MaxWindow < 1 {
		return fmt.Errorf("congestion max_window must be >= 1, got %v", c.MaxWindow)
	}
	if !finite(c.InitialWindow) || c.InitialWindow < 1 || c.InitialWindow > c.MaxWindow {
		return fmt.Errorf("congestion initial_window must be in [1, %v], got %v", c.MaxWindow, c.InitialWindow)
	}
	if variantAliases[strings.ToLower(c.Variant)] == VariantDelayBased {
		if !finite(c.Alpha) || c.Alpha <= 0 || c.Alpha > 1 {
			return fmt.Errorf("congestion alpha must be in (0, 1], got %v", c.Alpha)
		}
	}
	return nil
}

// New creates a Controller for cfg.Variant.
func New(cfg Config) (Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch variantAliases[strings.ToLower(cfg.Variant)] {
	case VariantLossBased:
		return NewCubic(cfg.C, cfg.MaxWindow, cfg.InitialWindow), nil
	case VariantDelayBased:
		return NewVegas(cfg.C, cfg.Beta, cfg.Alpha, cfg.MaxWindow, cfg.InitialWindow), nil
	default:
		return nil, fmt.Errorf("unhandled congestion variant %q", cfg.Variant)
	}
}

// window is the state shared by both variants.
type window struct {
	c         float64
	maxWindow float64

	cwnd           float64
	origin         float64
	lastCongestion float64
	congested      bool    // false until the first signal
	now            float64 // latest Advance time; never moves backwards
}

func newWindow(c, maxWindow, initial float64) window {
	w := window{c: c, maxWindow: maxWindow}
	w.cwnd = w.clamp(initial)
	w.origin = w.cwnd
	return w
}

func (w *window) clamp(v float64) float64 {
	return math.Min(math.Max(v, 1), w.maxWindow)
}

// tick moves the monotonic clock and returns elapsed time since the last signal.
func (w *window) tick(now float64) float64 {
	if now > w.now {
		w.now = now
	}
	return math.Max(w.now-w.lastCongestion, 0)
}

func (w *window) cubic(t float64) float64 {
	return w.origin + w.c*t*t*t
}

func (w *window) collapse() {
	w.lastCongestion = w.now
	w.congested = true
	w.origin = math.Max(w.cwnd/2, 1)
	w.cwnd = w.clamp(w.origin)
}

// State is a read-only snapshot of a controller's window state.
type State struct {
	Window         float64
	OriginPoint    float64
	LastCongestion *float64
	BaseRTT        *float64
	SmoothedRTT    *float64
}

func (w *window) state() State {
	s := State{Window: w.cwnd, OriginPoint: w.origin}
	if w.congested {
		t := w.lastCongestion
		s.LastCongestion = &t
	}
	return s
}
