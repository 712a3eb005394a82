package topology

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line() Spec {
	// 1 --(10Mb, 5ms)-- 2 --(1Mb, 1ms)-- 3, plus a direct 1-3 link
	return Spec{Links: []LinkSpec{
		{From: 1, To: 2, Bandwidth: 10e6, Latency: 0.005},
		{From: 2, To: 3, Bandwidth: 1e6, Latency: 0.001},
		{From: 1, To: 3, Bandwidth: 100e6, Latency: 0.050},
	}}
}

func TestTopology_LinkIsSymmetric(t *testing.T) {
	topo, err := FromSpec(line())
	require.NoError(t, err)

	ab, ok := topo.Link(1, 2)
	require.True(t, ok)
	ba, ok := topo.Link(2, 1)
	require.True(t, ok)
	assert.Equal(t, ab, ba)
	assert.Equal(t, LinkProps{Bandwidth: 10e6, Latency: 0.005}, ab)

	assert.Equal(t, 3, topo.NumNodes())
	assert.Equal(t, 3, topo.NumLinks())
}

func TestTopology_NoLink(t *testing.T) {
	topo, err := FromSpec(line())
	require.NoError(t, err)

	_, ok := topo.Link(1, 9)
	assert.False(t, ok, "unknown node")
	_, ok = topo.Link(2, 2)
	assert.False(t, ok, "a node has no link to itself")
}

func TestTopology_NoImplicitMultiHop(t *testing.T) {
	// GIVEN 1-2 and 2-3 but no 1-3 link
	topo, err := FromSpec(Spec{Links: []LinkSpec{
		{From: 1, To: 2, Bandwidth: 1, Latency: 1},
		{From: 2, To: 3, Bandwidth: 1, Latency: 1},
	}})
	require.NoError(t, err)

	// THEN 1-3 is "no link" even though a path exists
	_, ok := topo.Link(1, 3)
	assert.False(t, ok)
}

func TestTopology_ZeroLatencyLink(t *testing.T) {
	topo, err := FromSpec(Spec{Links: []LinkSpec{{From: 4, To: 5, Bandwidth: 100, Latency: 0}}})
	require.NoError(t, err)
	p, ok := topo.Link(5, 4)
	require.True(t, ok)
	assert.Equal(t, LinkProps{Bandwidth: 100, Latency: 0}, p)
}

func TestFromSpec_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		links []LinkSpec
	}{
		{"self link", []LinkSpec{{From: 1, To: 1, Bandwidth: 1}}},
		{"zero bandwidth", []LinkSpec{{From: 1, To: 2, Bandwidth: 0}}},
		{"negative latency", []LinkSpec{{From: 1, To: 2, Bandwidth: 1, Latency: -1}}},
		{"NaN latency", []LinkSpec{{From: 1, To: 2, Bandwidth: 1, Latency: math.NaN()}}},
		{"duplicate reversed", []LinkSpec{
			{From: 1, To: 2, Bandwidth: 1},
			{From: 2, To: 1, Bandwidth: 2},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromSpec(Spec{Links: tt.links})
			assert.Error(t, err)
		})
	}
}

func TestLoadSpec_StrictFields(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte(`links:
  - {from: 1, to: 2, bandwidth: 1000, latency: 0.01}
`), 0o644))
	spec, err := LoadSpec(good)
	require.NoError(t, err)
	require.Len(t, spec.Links, 1)
	assert.Equal(t, int64(2), spec.Links[0].To)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte(`links:
  - {from: 1, to: 2, bandwith: 1000}
`), 0o644))
	_, err = LoadSpec(bad)
	assert.Error(t, err)
}
