package workload

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestLoadSpec_ParsesFlows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "w.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`flows:
  - id: video
    packets: 200
    arrival: poisson
    rate: 4
    high_priority_fraction: 0.8
    processing: {type: exponential, params: {mean: 0.5}}
  - id: bulk
    packets: 50
    src: 1
    dst: 3
    packet_size_bits: 12000
`), 0o644))

	spec, err := LoadSpec(path)
	require.NoError(t, err)
	require.NoError(t, spec.Validate())
	require.Len(t, spec.Flows, 2)
	assert.Equal(t, "poisson", spec.Flows[0].Arrival)
	assert.Equal(t, 0.8, *spec.Flows[0].HighPriorityFraction)
	assert.Equal(t, int64(3), *spec.Flows[1].Dst)
}

func TestLoadSpec_RejectsUnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "w.yaml")
	require.NoError(t, os.WriteFile(path, []byte("flows:\n  - id: a\n    pakets: 3\n"), 0o644))
	_, err := LoadSpec(path)
	assert.Error(t, err)
}

func TestSpec_Validate_Rejects(t *testing.T) {
	tests := []struct {
		name string
		flow FlowSpec
	}{
		{"empty id", FlowSpec{Packets: 1}},
		{"negative packets", FlowSpec{ID: "a", Packets: -1}},
		{"end before start", FlowSpec{ID: "a", Start: 10, End: 5}},
		{"unknown arrival", FlowSpec{ID: "a", Arrival: "gamma"}},
		{"poisson without rate", FlowSpec{ID: "a", Arrival: "poisson"}},
		{"priority fraction above one", FlowSpec{ID: "a", HighPriorityFraction: ptr(1.5)}},
		{"unknown distribution", FlowSpec{ID: "a", Processing: &DistSpec{Type: "zipf"}}},
		{"src without dst", FlowSpec{ID: "a", Src: ptr(int64(1))}},
		{"negative size", FlowSpec{ID: "a", PacketSizeBits: -8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := Spec{Flows: []FlowSpec{tt.flow}}
			assert.Error(t, spec.Validate())
		})
	}
}

func TestSpec_Validate_DuplicateIDs(t *testing.T) {
	spec := Spec{Flows: []FlowSpec{{ID: "a"}, {ID: "a"}}}
	assert.ErrorContains(t, spec.Validate(), "duplicate")
}

func TestFlowSpec_Defaults(t *testing.T) {
	f := FlowSpec{ID: "a"}
	start, end := f.window()
	assert.Equal(t, 0.0, start)
	assert.Equal(t, DefaultWindow, end)
	assert.Equal(t, DefaultHighPriorityFraction, f.highPriorityFraction())
	assert.Equal(t, "uniform", f.processing().Type)
}
