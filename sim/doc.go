// Package sim provides the discrete-event engine of the flow simulator.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - event.go: packets and the arrival/departure events that carry them
//   - scheduler.go: the timeline disciplines (fifo, pq, rr, llq)
//   - simulator.go: the event loop and the admission gates
//
// # Architecture
//
// A packet arrival passes three gates in order: the token bucket
// (ratelimit.go), the congestion window (sim/congestion) and the bounded
// flow queue (queue.go). A rejection at any gate drops the packet and raises a
// congestion signal. An admitted packet departs ProcessingTime seconds later.
//
// Sub-packages:
//   - sim/congestion/: loss-based (cubic) and delay-based (vegas) windows
//   - sim/workload/: seeded packet generation per flow
//   - sim/topology/: link bandwidth and latency between nodes
//   - sim/trace/: admission decision trace recording
//   - sim/experiment/: YAML experiment loading and end-to-end runs
//   - sim/report/: per-second CSV series and run summaries
//
// All randomness is drawn from PartitionedRNG (rng.go) so that a seed fully
// determines a run.
package sim
