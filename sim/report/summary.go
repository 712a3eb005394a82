package report

import (
	"fmt"
	"io"

	"golang.org/x/exp/slices"

	"github.com/flowsim/flowsim/sim"
	"github.com/flowsim/flowsim/sim/trace"
)

// PrintSummary writes run totals, per-flow aggregates and, when the run was
// traced, the admission decision summary.
func PrintSummary(w io.Writer, res *sim.Result) {
	arrivals, departures, drops, queued := res.Totals()

	fmt.Fprintln(w, "=== Simulation Metrics ===")
	fmt.Fprintf(w, "Events Processed     : %d\n", res.EventsProcessed)
	fmt.Fprintf(w, "Simulated Time       : %.4f s\n", res.EndClock)
	fmt.Fprintf(w, "Packets Arrived      : %d\n", arrivals)
	fmt.Fprintf(w, "Packets Departed     : %d\n", departures)
	fmt.Fprintf(w, "Packets Dropped      : %d\n", drops)
	fmt.Fprintf(w, "Packets Still Queued : %d\n", queued)
	if res.Stopped {
		fmt.Fprintln(w, "Run ended early (stop or horizon)")
	}

	for _, id := range res.FlowIDs() {
		m := res.Flows[id]
		s := m.Summary()
		fmt.Fprintf(w, "--- Flow %s ---\n", id)
		fmt.Fprintf(w, "Throughput           : %.4f pkt/s\n", s.Throughput)
		fmt.Fprintf(w, "Average Latency      : %.4f s\n", s.AverageLatency)
		fmt.Fprintf(w, "Jitter               : %.4f s\n", s.Jitter)
		fmt.Fprintf(w, "Packet Drop Rate     : %.4f\n", s.DropRate)
		for _, reason := range sortedKeys(m.DropsByReason) {
			fmt.Fprintf(w, "  dropped %-16s: %d\n", reason, m.DropsByReason[reason])
		}
	}

	if res.Trace.Enabled() {
		ts := trace.Summarize(res.Trace)
		fmt.Fprintln(w, "=== Admission Trace ===")
		fmt.Fprintf(w, "Decisions            : %d\n", ts.TotalDecisions)
		fmt.Fprintf(w, "Admitted             : %d\n", ts.AdmittedCount)
		fmt.Fprintf(w, "Rejected             : %d\n", ts.RejectedCount)
		fmt.Fprintf(w, "Peak In Flight       : %d\n", ts.PeakInFlight)
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
