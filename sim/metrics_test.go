package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlowMetrics_EmptyFlowIsZero(t *testing.T) {
	m := newFlowMetrics("f")
	assert.Equal(t, FlowSummary{}, m.Summary())
	assert.Empty(t, m.Series())
}

func TestFlowMetrics_Summary(t *testing.T) {
	// GIVEN 4 arrivals, 1 drop and departures with latencies 2, 4, 6
	m := newFlowMetrics("f")
	m.Arrivals = 4
	m.recordDrop(ReasonQueueFull)
	m.recordDeparture(2.5, 2)
	m.recordDeparture(3.2, 4)
	m.recordDeparture(0.5, 6)

	s := m.Summary()
	// throughput = departures / max(endTime, 1)
	assert.InDelta(t, 3/3.2, s.Throughput, 1e-12)
	assert.InDelta(t, 4.0, s.AverageLatency, 1e-12)
	// population standard deviation of {2,4,6}
	assert.InDelta(t, math.Sqrt(8.0/3.0), s.Jitter, 1e-12)
	assert.InDelta(t, 0.25, s.DropRate, 1e-12)
	assert.Equal(t, 1, m.DropsByReason[ReasonQueueFull])
}

func TestFlowMetrics_ThroughputUsesAtLeastOneSecond(t *testing.T) {
	m := newFlowMetrics("f")
	m.Arrivals = 2
	m.recordDeparture(0.25, 0.1)
	m.recordDeparture(0.5, 0.1)
	assert.Equal(t, 2.0, m.Throughput())
	assert.InDelta(t, 0.0, m.Jitter(), 1e-12)
}

func TestFlowMetrics_SeriesBuckets(t *testing.T) {
	m := newFlowMetrics("f")
	m.Arrivals = 3
	m.recordDeparture(1.2, 1)
	m.recordDeparture(1.9, 3)
	m.recordDeparture(0.4, 2)

	series := m.Series()
	assert.Equal(t, []SecondMetrics{
		{Second: 0, Throughput: 1, AverageLatency: 2, Jitter: -1, DropRate: 0},
		{Second: 1, Throughput: 2, AverageLatency: 2, Jitter: 2, DropRate: 0},
	}, series)
}

func TestStdDev(t *testing.T) {
	assert.Equal(t, 0.0, StdDev(nil))
	assert.Equal(t, 0.0, StdDev([]float64{3}))
	assert.InDelta(t, 1.0, StdDev([]float64{1, 3}), 1e-12)
}
