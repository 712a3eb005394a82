// Tracks per-flow performance metrics: throughput, latency, jitter, drop rate.

package sim

import (
	"math"

	"golang.org/x/exp/slices"

	"github.com/flowsim/flowsim/sim/trace"
)

// Drop reasons, one per admission gate.
const (
	ReasonRateLimited     = "rate-limited"
	ReasonWindowExhausted = "window-exhausted"
	ReasonQueueFull       = "queue-full"
)

// SecondBucket accumulates the departures of one flow within one integer
// second of simulated time.
type SecondBucket struct {
	Throughput   int     // departures in this second
	TotalLatency float64 // sum of their latencies
	Jitter       float64 // difference between the flow's last two latencies at the latest departure
	DropRate     float64 // flow's cumulative drops/arrivals at the latest departure
}

// SecondMetrics is one row of a flow's per-second series.
type SecondMetrics struct {
	Second         int
	Throughput     int
	AverageLatency float64
	Jitter         float64
	DropRate       float64
}

// FlowSummary holds the post-run aggregates of one flow.
type FlowSummary struct {
	Throughput     float64 // departures / max(endTime, 1)
	AverageLatency float64
	Jitter         float64 // population standard deviation of latencies
	DropRate       float64
}

// FlowMetrics aggregates statistics about one flow. Append-only during a run.
type FlowMetrics struct {
	Flow          FlowID
	Arrivals      int
	Departures    int
	Drops         int
	DropsByReason map[string]int
	TotalLatency  float64
	Latencies     []float64 // in departure order
	EndTime       float64   // latest departure time
	Queued        int       // packets still queued when the run ended
	Seconds       map[int]*SecondBucket
}

func newFlowMetrics(id FlowID) *FlowMetrics {
	return &FlowMetrics{
		Flow:          id,
		DropsByReason: make(map[string]int),
		Seconds:       make(map[int]*SecondBucket),
	}
}

func (m *FlowMetrics) recordDrop(reason string) {
	m.Drops++
	m.DropsByReason[reason]++
}

func (m *FlowMetrics) recordDeparture(t, latency float64) {
	m.Departures++
	m.TotalLatency += latency
	m.Latencies = append(m.Latencies, latency)
	m.EndTime = math.Max(m.EndTime, t)

	second := int(math.Floor(t))
	b, ok := m.Seconds[second]
	if !ok {
		b = &SecondBucket{}
		m.Seconds[second] = b
	}
	b.Throughput++
	b.TotalLatency += latency
	b.Jitter = lastJitter(m.Latencies)
	b.DropRate = m.DropRate()
}

// Throughput returns departures per second of simulated time.
func (m *FlowMetrics) Throughput() float64 {
	return float64(m.Departures) / math.Max(m.EndTime, 1)
}

// AverageLatency returns the mean latency, 0 without departures.
func (m *FlowMetrics) AverageLatency() float64 {
	if m.Departures == 0 {
		return 0
	}
	return m.TotalLatency / float64(m.Departures)
}

// Jitter returns the standard deviation of the latency history, 0 for fewer
// than two samples.
func (m *FlowMetrics) Jitter() float64 {
	return StdDev(m.Latencies)
}

// DropRate returns drops/arrivals, 0 without arrivals.
func (m *FlowMetrics) DropRate() float64 {
	if m.Arrivals == 0 {
		return 0
	}
	return float64(m.Drops) / float64(m.Arrivals)
}

// Summary returns the post-run aggregates.
func (m *FlowMetrics) Summary() FlowSummary {
	return FlowSummary{
		Throughput:     m.Throughput(),
		AverageLatency: m.AverageLatency(),
		Jitter:         m.Jitter(),
		DropRate:       m.DropRate(),
	}
}

// Series returns the per-second buckets ordered by second.
func (m *FlowMetrics) Series() []SecondMetrics {
	seconds := make([]int, 0, len(m.Seconds))
	for s := range m.Seconds {
		seconds = append(seconds, s)
	}
	slices.Sort(seconds)

	out := make([]SecondMetrics, 0, len(seconds))
	for _, s := range seconds {
		b := m.Seconds[s]
		avg := 0.0
		if b.Throughput > 0 {
			avg = b.TotalLatency / float64(b.Throughput)
		}
		out = append(out, SecondMetrics{
			Second:         s,
			Throughput:     b.Throughput,
			AverageLatency: avg,
			Jitter:         b.Jitter,
			DropRate:       b.DropRate,
		})
	}
	return out
}

// Result is the read-only outcome of a run.
type Result struct {
	Flows           map[FlowID]*FlowMetrics
	EndClock        float64 // monotonic simulated clock at the end of the run
	EventsProcessed int
	Stopped         bool // true when Stop or the horizon ended the run early
	Trace           *trace.SimulationTrace
}

// FlowIDs returns the flow identifiers in lexical order.
func (r *Result) FlowIDs() []FlowID {
	ids := make([]FlowID, 0, len(r.Flows))
	for id := range r.Flows {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Totals sums arrivals, departures, drops and queued packets over all flows.
func (r *Result) Totals() (arrivals, departures, drops, queued int) {
	for _, m := range r.Flows {
		arrivals += m.Arrivals
		departures += m.Departures
		drops += m.Drops
		queued += m.Queued
	}
	return
}
