package trace

// Summary aggregates statistics from a SimulationTrace.
type Summary struct {
	TotalDecisions int
	AdmittedCount  int
	RejectedCount  int
	RejectReasons  map[string]int // reason → count of rejected packets
	PeakInFlight   int
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *Summary {
	summary := &Summary{
		RejectReasons: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalDecisions = len(st.Admissions)
	for _, a := range st.Admissions {
		if a.Admitted {
			summary.AdmittedCount++
		} else {
			summary.RejectedCount++
			summary.RejectReasons[a.Reason]++
		}
		if a.InFlight > summary.PeakInFlight {
			summary.PeakInFlight = a.InFlight
		}
	}
	return summary
}
