package workload

import (
	"cmp"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"

	"github.com/flowsim/flowsim/sim"
	"github.com/flowsim/flowsim/sim/topology"
)

// LinkLookup resolves the direct link between two nodes.
// *topology.Topology implements it.
type LinkLookup interface {
	Link(a, b int64) (topology.LinkProps, bool)
}

// Generate creates the packet sequence of every flow in spec.
// Deterministic given the same spec and seed: each flow draws from its own
// RNG partition, so adding or removing a flow leaves the others unchanged.
// Returns packets sorted by ArrivalTime (stable) with sequential IDs.
//
// A flow with src/dst adds the link latency plus PacketSizeBits over the link
// bandwidth to every packet's processing time. links may be nil when no flow
// names src/dst.
func Generate(spec *Spec, seed int64, links LinkLookup) ([]*sim.Packet, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid workload spec: %w", err)
	}

	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(seed))

	var all []*sim.Packet
	for i := range spec.Flows {
		flow := &spec.Flows[i]
		id := sim.FlowID(flow.ID)
		flowRNG := rng.ForSubsystem(sim.SubsystemFlow(id))

		arrivals, err := NewArrivalProcess(flow.Arrival, flow.Rate)
		if err != nil {
			return nil, fmt.Errorf("flow %q arrivals: %w", flow.ID, err)
		}
		service, err := NewTimeSampler(flow.processing())
		if err != nil {
			return nil, fmt.Errorf("flow %q processing distribution: %w", flow.ID, err)
		}
		transfer, err := transferDelay(flow, links)
		if err != nil {
			return nil, err
		}

		start, end := flow.window()
		times := arrivals.Arrivals(flowRNG, flow.Packets, start, end)
		hp := flow.highPriorityFraction()
		for _, at := range times {
			prio := sim.Low
			if flowRNG.Float64() < hp {
				prio = sim.High
			}
			all = append(all, &sim.Packet{
				Flow:           id,
				ArrivalTime:    at,
				ProcessingTime: service.Sample(flowRNG) + transfer,
				Priority:       prio,
			})
		}
		logrus.Debugf("Flow %s: %d packets in [%.2f, %.2f), transfer delay %.6fs", flow.ID, len(times), start, end, transfer)
	}

	slices.SortStableFunc(all, func(a, b *sim.Packet) int {
		return cmp.Compare(a.ArrivalTime, b.ArrivalTime)
	})
	for i, p := range all {
		p.ID = sim.PacketID(i)
	}
	return all, nil
}

func transferDelay(flow *FlowSpec, links LinkLookup) (float64, error) {
	if flow.Src == nil {
		return 0, nil
	}
	if links == nil {
		return 0, fmt.Errorf("flow %q names src/dst but no topology is configured", flow.ID)
	}
	props, ok := links.Link(*flow.Src, *flow.Dst)
	if !ok {
		return 0, fmt.Errorf("flow %q: no link between node %d and node %d", flow.ID, *flow.Src, *flow.Dst)
	}
	return props.Latency + flow.PacketSizeBits/props.Bandwidth, nil
}
