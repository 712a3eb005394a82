package congestion

// Cubic is the loss-based controller. Until the first congestion signal the
// window stays at its initial value; afterwards it regrows cubically from
// half of the window it had when the signal arrived.
type Cubic struct {
	window
}

var _ Controller = &Cubic{}

// NewCubic creates a loss-based controller.
func NewCubic(c, maxWindow, initialWindow float64) *Cubic {
	return &Cubic{window: newWindow(c, maxWindow, initialWindow)}
}

func (cc *Cubic) CurrentWindow() float64 { return cc.cwnd }

func (cc *Cubic) Advance(now float64) {
	t := cc.tick(now)
	if !cc.congested {
		return
	}
	cc.cwnd = cc.clamp(cc.cubic(t))
}

func (cc *Cubic) OnCongestionSignal() {
	cc.collapse()
}

// State returns a snapshot of the window state.
func (cc *Cubic) State() State { return cc.state() }
