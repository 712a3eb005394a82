// Package testutil provides shared test infrastructure for the flow simulator.
// It holds the golden dataset types and assertion helpers used by sim/ tests.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase is a hand-checked scenario: a simulator configuration, an
// explicit packet list and the metrics it must produce.
type GoldenTestCase struct {
	Name          string         `json:"name"`
	Discipline    string         `json:"discipline"`
	MaxQueueSize  int            `json:"max_queue_size"`
	Variant       string         `json:"variant"`
	C             float64        `json:"c"`
	InitialWindow float64        `json:"initial_window"`
	Rate          float64        `json:"rate"`
	Capacity      float64        `json:"capacity"`
	Packets       []GoldenPacket `json:"packets"`

	EndClock float64                  `json:"end_clock"`
	Flows    map[string]GoldenMetrics `json:"flows"`
}

// GoldenPacket is one injected arrival.
type GoldenPacket struct {
	Flow       string  `json:"flow"`
	Arrival    float64 `json:"arrival"`
	Processing float64 `json:"processing"`
	Priority   string  `json:"priority"` // "high" or "low"
}

// GoldenMetrics represents the expected metrics of one flow.
type GoldenMetrics struct {
	// Exact match metrics (integers)
	Arrivals      int            `json:"arrivals"`
	Departures    int            `json:"departures"`
	Drops         int            `json:"drops"`
	DropsByReason map[string]int `json:"drops_by_reason"`

	// Deterministic floating-point metrics (derived from simulated time)
	Throughput     float64 `json:"throughput"`
	AverageLatency float64 `json:"average_latency"`
	Jitter         float64 `json:"jitter"`
	DropRate       float64 `json:"drop_rate"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sim/internal/testutil/ to repo root testdata/
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
