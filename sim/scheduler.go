package sim

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// Scheduler holds the event timeline and dispatches the next event according
// to its discipline. Next never blocks: an empty timeline returns nil.
type Scheduler interface {
	Schedule(e *Event)
	Next() *Event
	HasPending() bool
	Len() int
	Discipline() string
}

// Discipline names accepted by NewScheduler.
const (
	DisciplineFIFO = "fifo"
	DisciplinePQ   = "pq"
	DisciplineRR   = "rr"
	DisciplineLLQ  = "llq"
)

// ValidDisciplines is the set of recognized discipline names.
// Shared by Config.Validate() and NewScheduler() to avoid duplication.
var ValidDisciplines = map[string]bool{
	DisciplineFIFO: true,
	DisciplinePQ:   true,
	DisciplineRR:   true,
	DisciplineLLQ:  true,
}

// IsValidDiscipline reports whether name (case-insensitive) is a known discipline.
func IsValidDiscipline(name string) bool {
	return ValidDisciplines[strings.ToLower(name)]
}

// NewScheduler creates a Scheduler by discipline name.
// Valid names: "fifo", "pq", "rr", "llq" (case-insensitive).
// An empty name is rejected rather than defaulted.
func NewScheduler(name string) (Scheduler, error) {
	switch strings.ToLower(name) {
	case DisciplineFIFO:
		return &FIFOScheduler{queue: newEventQueue(lessByTime)}, nil
	case DisciplinePQ:
		return &PriorityScheduler{queue: newEventQueue(lessByTimePriority)}, nil
	case DisciplineRR:
		return &RoundRobinScheduler{}, nil
	case DisciplineLLQ:
		return &LowLatencyScheduler{
			high: newEventQueue(lessByTime),
			low:  newEventQueue(lessByTime),
		}, nil
	default:
		return nil, fmt.Errorf("unknown scheduler discipline %q", name)
	}
}

// FIFOScheduler dispatches strictly by time, ties in insertion order.
type FIFOScheduler struct {
	queue *EventQueue
	seq   uint64
}

func (s *FIFOScheduler) Schedule(e *Event) {
	s.seq++
	e.seq = s.seq
	s.queue.PushEvent(e)
}

func (s *FIFOScheduler) Next() *Event     { return s.queue.PopNext() }
func (s *FIFOScheduler) HasPending() bool { return s.queue.Len() > 0 }
func (s *FIFOScheduler) Len() int         { return s.queue.Len() }
func (s *FIFOScheduler) Discipline() string {
	return DisciplineFIFO
}

// PriorityScheduler is a single merged heap keyed by (time, priority).
// At equal time a High packet's event is dispatched before a Low one.
type PriorityScheduler struct {
	queue *EventQueue
	seq   uint64
}

func (s *PriorityScheduler) Schedule(e *Event) {
	s.seq++
	e.seq = s.seq
	s.queue.PushEvent(e)
}

func (s *PriorityScheduler) Next() *Event     { return s.queue.PopNext() }
func (s *PriorityScheduler) HasPending() bool { return s.queue.Len() > 0 }
func (s *PriorityScheduler) Len() int         { return s.queue.Len() }
func (s *PriorityScheduler) Discipline() string {
	return DisciplinePQ
}

// RoundRobinScheduler keeps the pending events in (time, seq) order and a
// cursor into them. Next removes the event at the cursor; the cursor then
// refers to the event that followed it, wrapping to the front once it runs
// off the end. An event inserted before the cursor shifts it so it keeps
// pointing at the same event; an event inserted at the cursor takes its slot
// and is dispatched next.
//
// Consumers must not assume monotonic dispatch times from a Scheduler.
type RoundRobinScheduler struct {
	events []*Event
	cursor int
	seq    uint64
}

func compareEvents(a, b *Event) int {
	switch {
	case a.Time < b.Time:
		return -1
	case a.Time > b.Time:
		return 1
	case a.seq < b.seq:
		return -1
	case a.seq > b.seq:
		return 1
	default:
		return 0
	}
}

func (s *RoundRobinScheduler) Schedule(e *Event) {
	s.seq++
	e.seq = s.seq
	i, _ := slices.BinarySearchFunc(s.events, e, compareEvents)
	if i < s.cursor {
		s.cursor++
	}
	s.events = slices.Insert(s.events, i, e)
}

func (s *RoundRobinScheduler) Next() *Event {
	if len(s.events) == 0 {
		return nil
	}
	e := s.events[s.cursor]
	s.events = slices.Delete(s.events, s.cursor, s.cursor+1)
	if len(s.events) == 0 {
		s.cursor = 0
	} else {
		s.cursor %= len(s.events)
	}
	return e
}

func (s *RoundRobinScheduler) HasPending() bool { return len(s.events) > 0 }
func (s *RoundRobinScheduler) Len() int         { return len(s.events) }
func (s *RoundRobinScheduler) Discipline() string {
	return DisciplineRR
}

// LowLatencyScheduler keeps two independent time-ordered sub-queues and
// always drains the high-priority one first.
type LowLatencyScheduler struct {
	high *EventQueue
	low  *EventQueue
	seq  uint64
}

func (s *LowLatencyScheduler) Schedule(e *Event) {
	s.seq++
	e.seq = s.seq
	if e.Priority() == High {
		s.high.PushEvent(e)
		return
	}
	s.low.PushEvent(e)
}

func (s *LowLatencyScheduler) Next() *Event {
	if s.high.Len() > 0 {
		return s.high.PopNext()
	}
	return s.low.PopNext()
}

func (s *LowLatencyScheduler) HasPending() bool { return s.Len() > 0 }
func (s *LowLatencyScheduler) Len() int         { return s.high.Len() + s.low.Len() }
func (s *LowLatencyScheduler) Discipline() string {
	return DisciplineLLQ
}
