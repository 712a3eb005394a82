package congestion

import "math"

// Vegas is the delay-based controller. It keeps a baseline RTT (the first
// sample since the last signal) and an exponentially smoothed RTT.
//
//   - smoothed < baseline, or no estimate yet: cubic growth
//   - smoothed > baseline: origin - beta*(smoothed - baseline), floored at 1
//   - smoothed == baseline: hold at origin
//
// The shrink term subtracts the RTT excess. The formula it is usually quoted
// with, origin - beta*(baseline - smoothed), would grow the window as the RTT
// rises, so the sign is flipped here to make rising delay shrink it.
//
// A congestion signal collapses the window like Cubic and also forgets both
// RTT estimates, so the baseline is re-acquired from the next sample.
type Vegas struct {
	window
	beta  float64
	alpha float64

	baseRTT     float64
	smoothedRTT float64
	hasRTT      bool
}

var (
	_ Controller  = &Vegas{}
	_ RTTObserver = &Vegas{}
)

// NewVegas creates a delay-based controller.
func NewVegas(c, beta, alpha, maxWindow, initialWindow float64) *Vegas {
	return &Vegas{
		window: newWindow(c, maxWindow, initialWindow),
		beta:   beta,
		alpha:  alpha,
	}
}

func (v *Vegas) CurrentWindow() float64 { return v.cwnd }

func (v *Vegas) Advance(now float64) {
	t := v.tick(now)
	if !v.congested {
		return
	}
	switch {
	case !v.hasRTT || v.smoothedRTT < v.baseRTT:
		v.cwnd = v.clamp(v.cubic(t))
	case v.smoothedRTT > v.baseRTT:
		v.cwnd = v.clamp(v.origin - v.beta*(v.smoothedRTT-v.baseRTT))
	default:
		v.cwnd = v.clamp(v.origin)
	}
}

// ObserveRTT folds a round-trip sample into the estimators.
// Non-positive and non-finite samples are ignored.
func (v *Vegas) ObserveRTT(sample float64) {
	if sample <= 0 || math.IsNaN(sample) || math.IsInf(sample, 0) {
		return
	}
	if !v.hasRTT {
		v.baseRTT = sample
		v.smoothedRTT = sample
		v.hasRTT = true
		return
	}
	v.smoothedRTT = (1-v.alpha)*v.smoothedRTT + v.alpha*sample
}

func (v *Vegas) OnCongestionSignal() {
	v.collapse()
	v.baseRTT, v.smoothedRTT, v.hasRTT = 0, 0, false
}

// State returns a snapshot including the RTT estimators, nil when unset.
func (v *Vegas) State() State {
	s := v.state()
	if v.hasRTT {
		base, smoothed := v.baseRTT, v.smoothedRTT
		s.BaseRTT, s.SmoothedRTT = &base, &smoothed
	}
	return s
}
