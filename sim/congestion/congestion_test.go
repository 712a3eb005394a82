package congestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func TestCubic_SignalHalvesInitialWindow(t *testing.T) {
	// GIVEN a loss-based controller with initialWindow=10
	cc := NewCubic(0.4, 1000, 10)
	require.Equal(t, 10.0, cc.CurrentWindow())

	// WHEN one congestion signal arrives
	cc.OnCongestionSignal()

	// THEN the window is exactly half
	assert.Equal(t, 5.0, cc.CurrentWindow())
}

func TestCubic_SignalFloorsAtOne(t *testing.T) {
	cc := NewCubic(0.4, 1000, 1)
	cc.OnCongestionSignal()
	assert.Equal(t, 1.0, cc.CurrentWindow())
	cc.OnCongestionSignal()
	assert.Equal(t, 1.0, cc.CurrentWindow())
}

func TestCubic_NoGrowthBeforeFirstSignal(t *testing.T) {
	cc := NewCubic(0.4, 1000, 10)
	for _, now := range []float64{0, 1, 50, 1e6} {
		cc.Advance(now)
		assert.Equal(t, 10.0, cc.CurrentWindow(), "now=%v", now)
	}
}

func TestCubic_RegrowsCubically(t *testing.T) {
	cc := NewCubic(0.4, 1000, 10)
	cc.Advance(2)
	cc.OnCongestionSignal() // origin=5 at t=2

	cc.Advance(5) // elapsed 3
	assert.InDelta(t, 5+0.4*27, cc.CurrentWindow(), eps)
}

func TestCubic_WindowAfterSignalAtMostHalf(t *testing.T) {
	cc := NewCubic(0.4, 1000, 10)
	cc.Advance(0)
	cc.OnCongestionSignal()
	for _, now := range []float64{0.5, 1, 2, 3, 4.5, 7} {
		cc.Advance(now)
		before := cc.CurrentWindow()
		cc.OnCongestionSignal()
		assert.LessOrEqual(t, cc.CurrentWindow(), before/2+eps, "now=%v", now)
		assert.GreaterOrEqual(t, cc.CurrentWindow(), 1.0)
	}
}

func TestCubic_MonotoneBetweenSignalsAndCapped(t *testing.T) {
	// GIVEN a small maximum so the cap is reached quickly
	cc := NewCubic(0.4, 50, 10)
	cc.OnCongestionSignal()

	// WHEN time advances without further signals
	prev := cc.CurrentWindow()
	for now := 0.0; now <= 20; now += 0.25 {
		cc.Advance(now)
		w := cc.CurrentWindow()
		// THEN the window never shrinks and never exceeds the maximum
		assert.GreaterOrEqual(t, w, prev, "now=%v", now)
		assert.LessOrEqual(t, w, 50.0, "now=%v", now)
		prev = w
	}
	assert.Equal(t, 50.0, prev)
}

func TestCubic_BackwardsTimeDoesNotShrink(t *testing.T) {
	cc := NewCubic(0.4, 1000, 10)
	cc.Advance(10)
	cc.OnCongestionSignal()

	// an earlier timestamp must not produce a negative cube
	cc.Advance(4)
	assert.Equal(t, 5.0, cc.CurrentWindow())

	cc.Advance(11)
	assert.InDelta(t, 5.4, cc.CurrentWindow(), eps)
}

func TestCubic_StateSnapshot(t *testing.T) {
	cc := NewCubic(0.4, 1000, 10)
	assert.Nil(t, cc.State().LastCongestion)

	cc.Advance(3)
	cc.OnCongestionSignal()
	s := cc.State()
	require.NotNil(t, s.LastCongestion)
	assert.Equal(t, 3.0, *s.LastCongestion)
	assert.Equal(t, 5.0, s.OriginPoint)
}

func TestVegas_GrowsWhileSmoothedBelowBaseline(t *testing.T) {
	v := NewVegas(0.4, 0.3, 0.5, 1000, 10)
	v.OnCongestionSignal() // origin 5 at t=0
	v.ObserveRTT(10)       // baseline 10
	v.ObserveRTT(5)        // smoothed 7.5

	v.Advance(2)
	assert.InDelta(t, 5+0.4*8, v.CurrentWindow(), eps)
}

func TestVegas_ShrinksWhenSmoothedAboveBaseline(t *testing.T) {
	v := NewVegas(0.4, 0.3, 0.5, 1000, 10)
	v.OnCongestionSignal()
	v.ObserveRTT(10)
	v.ObserveRTT(30) // smoothed 20, excess 10

	v.Advance(2)
	assert.InDelta(t, 5-0.3*10, v.CurrentWindow(), eps)
}

func TestVegas_ShrinkFlooredAtOne(t *testing.T) {
	v := NewVegas(0.4, 0.3, 0.5, 1000, 10)
	v.OnCongestionSignal()
	v.ObserveRTT(10)
	v.ObserveRTT(1000)

	v.Advance(1)
	assert.Equal(t, 1.0, v.CurrentWindow())
}

func TestVegas_HoldsWhenEqual(t *testing.T) {
	v := NewVegas(0.4, 0.3, 0.5, 1000, 10)
	v.OnCongestionSignal()
	v.ObserveRTT(10)
	v.ObserveRTT(10)

	v.Advance(100)
	assert.Equal(t, 5.0, v.CurrentWindow())
}

func TestVegas_SignalResetsEstimators(t *testing.T) {
	v := NewVegas(0.4, 0.3, 0.5, 1000, 10)
	v.ObserveRTT(10)
	require.NotNil(t, v.State().BaseRTT)

	v.OnCongestionSignal()
	s := v.State()
	assert.Nil(t, s.BaseRTT)
	assert.Nil(t, s.SmoothedRTT)

	// the next sample becomes the new baseline
	v.ObserveRTT(42)
	s = v.State()
	require.NotNil(t, s.BaseRTT)
	assert.Equal(t, 42.0, *s.BaseRTT)
}

func TestVegas_IgnoresInvalidSamples(t *testing.T) {
	v := NewVegas(0.4, 0.3, 0.5, 1000, 10)
	v.ObserveRTT(0)
	v.ObserveRTT(-3)
	assert.Nil(t, v.State().BaseRTT)
}

func TestNew_VariantsAndAliases(t *testing.T) {
	tests := []struct {
		variant string
		want    any
	}{
		{"loss-based", &Cubic{}},
		{"cubic", &Cubic{}},
		{"CUBIC", &Cubic{}},
		{"delay-based", &Vegas{}},
		{"vegas", &Vegas{}},
	}
	for _, tt := range tests {
		t.Run(tt.variant, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Variant = tt.variant
			c, err := New(cfg)
			require.NoError(t, err)
			assert.IsType(t, tt.want, c)
			assert.Equal(t, cfg.InitialWindow, c.CurrentWindow())
		})
	}
}

func TestConfig_ValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown variant", func(c *Config) { c.Variant = "reno" }},
		{"empty variant", func(c *Config) { c.Variant = "" }},
		{"negative c", func(c *Config) { c.C = -1 }},
		{"negative beta", func(c *Config) { c.Beta = -0.1 }},
		{"max window below one", func(c *Config) { c.MaxWindow = 0.5 }},
		{"initial above max", func(c *Config) { c.InitialWindow = 2000 }},
		{"initial below one", func(c *Config) { c.InitialWindow = 0 }},
		{"alpha zero for delay-based", func(c *Config) { c.Variant = "vegas"; c.Alpha = 0 }},
		{"alpha above one for delay-based", func(c *Config) { c.Variant = "vegas"; c.Alpha = 1.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
			_, err := New(cfg)
			assert.Error(t, err)
		})
	}
}
