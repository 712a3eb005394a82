package sim

import "container/heap"

// EventQueue implements heap.Interface over events with a pluggable ordering.
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type EventQueue struct {
	events []*Event
	less   func(a, b *Event) bool
}

func newEventQueue(less func(a, b *Event) bool) *EventQueue {
	q := &EventQueue{events: make([]*Event, 0), less: less}
	heap.Init(q)
	return q
}

func (q *EventQueue) Len() int           { return len(q.events) }
func (q *EventQueue) Less(i, j int) bool { return q.less(q.events[i], q.events[j]) }
func (q *EventQueue) Swap(i, j int)      { q.events[i], q.events[j] = q.events[j], q.events[i] }

func (q *EventQueue) Push(x any) {
	q.events = append(q.events, x.(*Event))
}

func (q *EventQueue) Pop() any {
	old := q.events
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	q.events = old[0 : n-1]
	return item
}

// PushEvent adds an event to the heap.
func (q *EventQueue) PushEvent(e *Event) {
	heap.Push(q, e)
}

// PopNext removes and returns the next event, or nil when empty.
func (q *EventQueue) PopNext() *Event {
	if q.Len() == 0 {
		return nil
	}
	return heap.Pop(q).(*Event)
}
