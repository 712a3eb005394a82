// Implements the FlowQueue, which holds a flow's admitted packets.
// Packets are enqueued on admission and removed when their departure fires.

package sim

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// FlowQueue is the ordered sequence of admitted, not yet departed packets of
// one flow. Its length is the flow's in-flight count.
type FlowQueue struct {
	packets []*Packet
	limit   int
}

// NewFlowQueue creates an empty queue bounded by limit packets.
func NewFlowQueue(limit int) *FlowQueue {
	return &FlowQueue{limit: limit}
}

// Enqueue appends p to the back of the queue. It returns false, leaving the
// queue unchanged, when the queue is full.
func (fq *FlowQueue) Enqueue(p *Packet) bool {
	if fq.Full() {
		return false
	}
	fq.packets = append(fq.packets, p)
	return true
}

// Remove deletes p from the queue and reports whether it was present.
// A missing packet means its departure is stale.
func (fq *FlowQueue) Remove(p *Packet) bool {
	i := slices.Index(fq.packets, p)
	if i < 0 {
		return false
	}
	fq.packets = slices.Delete(fq.packets, i, i+1)
	return true
}

// Len returns the number of queued packets.
func (fq *FlowQueue) Len() int {
	return len(fq.packets)
}

// Full reports whether the queue reached its bound.
func (fq *FlowQueue) Full() bool {
	return len(fq.packets) >= fq.limit
}

func (fq *FlowQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, p := range fq.packets {
		sb.WriteString(fmt.Sprint(p))
		if i < len(fq.packets)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
