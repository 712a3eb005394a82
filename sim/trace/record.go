// Package trace provides decision-trace recording for admission analysis.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// AdmissionRecord captures a single admission decision for an arriving packet.
type AdmissionRecord struct {
	Flow     string
	PacketID uint64
	Time     float64 // simulated seconds
	Admitted bool
	Reason   string  // empty when admitted; otherwise the gate that rejected it
	Window   float64 // congestion window at decision time
	InFlight int     // flow queue length at decision time
}
