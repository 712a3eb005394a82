package sim

import "time"

// Clock supplies the "now" used for token refill, in seconds.
type Clock interface {
	Now() float64
}

// Rate limiter clock sources.
const (
	ClockSimulated = "simulated"
	ClockWall      = "wall"
)

// ValidLimiterClocks is the set of recognized rate limiter clock names.
var ValidLimiterClocks = map[string]bool{ClockSimulated: true, ClockWall: true}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() float64

func (f ClockFunc) Now() float64 { return f() }

// WallClock reports real elapsed seconds since it was created.
// time.Since uses the monotonic reading, so Now never goes backwards.
type WallClock struct {
	start time.Time
}

// NewWallClock creates a WallClock starting at zero.
func NewWallClock() *WallClock {
	return &WallClock{start: time.Now()}
}

func (c *WallClock) Now() float64 {
	return time.Since(c.start).Seconds()
}
