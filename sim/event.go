package sim

import "fmt"

// FlowID names a traffic flow. Flows are compared lexically wherever the
// simulator needs a deterministic iteration order.
type FlowID string

// PacketID uniquely identifies a packet within one simulation run.
type PacketID uint64

// Priority is a packet's dispatch class. Lower values are dispatched first.
type Priority int

const (
	High Priority = 1
	Low  Priority = 2
)

func (p Priority) String() string {
	switch p {
	case High:
		return "high"
	case Low:
		return "low"
	default:
		return fmt.Sprintf("priority(%d)", int(p))
	}
}

// Packet models a single unit of traffic. A packet is owned by the flow queue
// that admitted it until its departure fires, after which only its arrival
// time is read to compute latency.
type Packet struct {
	ID             PacketID
	Flow           FlowID
	ArrivalTime    float64  // simulated seconds
	ProcessingTime float64  // service time once admitted; always > 0
	Priority       Priority // High or Low
}

func (p *Packet) String() string {
	return fmt.Sprintf("pkt#%d(%s @%.4f)", p.ID, p.Flow, p.ArrivalTime)
}

// EventKind distinguishes arrivals from departures.
type EventKind int

const (
	ArrivalKind EventKind = iota
	DepartureKind
)

func (k EventKind) String() string {
	switch k {
	case ArrivalKind:
		return "arrival"
	case DepartureKind:
		return "departure"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Event is an immutable point on the simulation timeline.
// Ordering: time -> discipline secondary key -> insertion sequence.
type Event struct {
	Kind   EventKind
	Time   float64 // simulated seconds
	Packet *Packet // packet the event refers to; nil only for synthetic events
	Flow   FlowID

	seq uint64 // assigned by the Scheduler on Schedule
}

// NewArrivalEvent creates the arrival of p at p.ArrivalTime.
func NewArrivalEvent(p *Packet) *Event {
	return &Event{Kind: ArrivalKind, Time: p.ArrivalTime, Packet: p, Flow: p.Flow}
}

// NewDepartureEvent creates the departure of p at time t.
func NewDepartureEvent(t float64, p *Packet) *Event {
	return &Event{Kind: DepartureKind, Time: t, Packet: p, Flow: p.Flow}
}

// Priority returns the dispatch class of the event's packet.
// Events without a packet are treated as Low.
func (e *Event) Priority() Priority {
	if e.Packet == nil {
		return Low
	}
	return e.Packet.Priority
}

// Seq returns the insertion sequence assigned by the Scheduler.
func (e *Event) Seq() uint64 {
	return e.seq
}

func (e *Event) String() string {
	return fmt.Sprintf("%s[%s t=%.4f seq=%d]", e.Kind, e.Flow, e.Time, e.seq)
}

// lessByTime orders events by time then insertion sequence.
func lessByTime(a, b *Event) bool {
	if a.Time != b.Time {
		return a.Time < b.Time
	}
	return a.seq < b.seq
}

// lessByTimePriority orders events by time, then priority, then insertion sequence.
func lessByTimePriority(a, b *Event) bool {
	if a.Time != b.Time {
		return a.Time < b.Time
	}
	if pa, pb := a.Priority(), b.Priority(); pa != pb {
		return pa < pb
	}
	return a.seq < b.seq
}
