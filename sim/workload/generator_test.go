package workload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowsim/flowsim/sim"
	"github.com/flowsim/flowsim/sim/topology"
)

func twoFlows() *Spec {
	return &Spec{Flows: []FlowSpec{
		{ID: "a", Packets: 100},
		{ID: "b", Packets: 60, Arrival: "poisson", Rate: 2, End: 1000},
	}}
}

func TestGenerate_DeterministicBySeed(t *testing.T) {
	// GIVEN the same spec and seed
	first, err := Generate(twoFlows(), 42, nil)
	require.NoError(t, err)
	second, err := Generate(twoFlows(), 42, nil)
	require.NoError(t, err)

	// THEN the packet sequences are identical
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, *first[i], *second[i], "packet %d", i)
	}

	other, err := Generate(twoFlows(), 43, nil)
	require.NoError(t, err)
	assert.NotEqual(t, first[0].ArrivalTime, other[0].ArrivalTime)
}

func TestGenerate_SortedWithSequentialIDs(t *testing.T) {
	pkts, err := Generate(twoFlows(), 7, nil)
	require.NoError(t, err)
	assert.Len(t, pkts, 160)
	for i, p := range pkts {
		assert.Equal(t, sim.PacketID(i), p.ID)
		assert.Greater(t, p.ProcessingTime, 0.0)
		if i > 0 {
			assert.LessOrEqual(t, pkts[i-1].ArrivalTime, p.ArrivalTime)
		}
	}
}

func TestGenerate_DefaultsMatchReferenceDriver(t *testing.T) {
	pkts, err := Generate(&Spec{Flows: []FlowSpec{{ID: "a", Packets: 2000}}}, 1, nil)
	require.NoError(t, err)

	high := 0
	for _, p := range pkts {
		assert.True(t, p.ArrivalTime >= 0 && p.ArrivalTime < 100)
		assert.True(t, p.ProcessingTime >= 1 && p.ProcessingTime < 10)
		if p.Priority == sim.High {
			high++
		}
	}
	assert.InDelta(t, 0.5, float64(high)/2000, 0.05)
}

func TestGenerate_FlowsAreIsolated(t *testing.T) {
	// GIVEN flow a alone, and flow a next to another flow
	solo, err := Generate(&Spec{Flows: []FlowSpec{{ID: "a", Packets: 20}}}, 5, nil)
	require.NoError(t, err)
	mixed, err := Generate(&Spec{Flows: []FlowSpec{{ID: "z", Packets: 5}, {ID: "a", Packets: 20}}}, 5, nil)
	require.NoError(t, err)

	// THEN flow a's packets are unchanged
	arrivalsOf := func(pkts []*sim.Packet) []float64 {
		var out []float64
		for _, p := range pkts {
			if p.Flow == "a" {
				out = append(out, p.ArrivalTime)
			}
		}
		return out
	}
	assert.Equal(t, arrivalsOf(solo), arrivalsOf(mixed))
}

func TestGenerate_AddsLinkDelay(t *testing.T) {
	topo, err := topology.FromSpec(topology.Spec{Links: []topology.LinkSpec{
		{From: 1, To: 2, Bandwidth: 500, Latency: 0.75},
	}})
	require.NoError(t, err)

	src, dst := int64(2), int64(1)
	spec := &Spec{Flows: []FlowSpec{{
		ID: "r", Packets: 3, Src: &src, Dst: &dst, PacketSizeBits: 1000,
		Processing: &DistSpec{Type: "constant", Params: map[string]float64{"value": 1}},
	}}}
	pkts, err := Generate(spec, 1, topo)
	require.NoError(t, err)

	// 1s service + 0.75s latency + 1000 bits / 500 bps
	for _, p := range pkts {
		assert.InDelta(t, 3.75, p.ProcessingTime, 1e-12)
	}
}

func TestGenerate_LinkErrors(t *testing.T) {
	src, dst := int64(1), int64(3)
	spec := &Spec{Flows: []FlowSpec{{ID: "r", Packets: 1, Src: &src, Dst: &dst}}}

	_, err := Generate(spec, 1, nil)
	assert.Error(t, err, "linked flow without topology")

	// 1-2-3 exists but there is no direct 1-3 link
	topo, err := topology.FromSpec(topology.Spec{Links: []topology.LinkSpec{
		{From: 1, To: 2, Bandwidth: 1},
		{From: 2, To: 3, Bandwidth: 1},
	}})
	require.NoError(t, err)
	_, err = Generate(spec, 1, topo)
	assert.Error(t, err, "no direct link")
}

func TestGenerate_EmptySpec(t *testing.T) {
	pkts, err := Generate(&Spec{}, 1, nil)
	require.NoError(t, err)
	assert.Empty(t, pkts)
}
