package sim

// manualClock is a Clock the test moves by hand.
type manualClock struct {
	t float64
}

func (c *manualClock) Now() float64 { return c.t }

func (c *manualClock) Set(t float64) { c.t = t }

func (c *manualClock) Advance(d float64) { c.t += d }
