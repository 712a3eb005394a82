// Package topology holds the static network that packets traverse: symmetric
// links between integer node IDs, each with a bandwidth and a latency.
package topology

import (
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/graph/simple"
	"gopkg.in/yaml.v3"
)

// LinkProps are the transmission properties of a link.
type LinkProps struct {
	Bandwidth float64 `yaml:"bandwidth"` // bits per second
	Latency   float64 `yaml:"latency"`   // seconds
}

// LinkSpec describes one undirected link in YAML.
type LinkSpec struct {
	From      int64   `yaml:"from"`
	To        int64   `yaml:"to"`
	Bandwidth float64 `yaml:"bandwidth"`
	Latency   float64 `yaml:"latency"`
}

// Spec is the YAML form of a topology.
type Spec struct {
	Links []LinkSpec `yaml:"links"`
}

// LoadSpec reads a topology description with strict field checking.
func LoadSpec(path string) (*Spec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening topology %s: %w", path, err)
	}
	defer f.Close()

	var spec Spec
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing topology %s: %w", path, err)
	}
	return &spec, nil
}

type linkKey struct{ a, b int64 }

func keyOf(a, b int64) linkKey {
	if a > b {
		a, b = b, a
	}
	return linkKey{a, b}
}

// Topology is an immutable link graph. Edge weights are link latencies;
// bandwidths are kept alongside, keyed by the unordered node pair.
type Topology struct {
	g     *simple.WeightedUndirectedGraph
	links map[linkKey]LinkProps
}

// FromSpec builds a Topology. Self links, non-positive bandwidth, negative
// or non-finite latency and duplicate links are rejected.
func FromSpec(spec Spec) (*Topology, error) {
	t := &Topology{
		g:     simple.NewWeightedUndirectedGraph(0, math.Inf(1)),
		links: make(map[linkKey]LinkProps, len(spec.Links)),
	}
	for i, l := range spec.Links {
		if l.From == l.To {
			return nil, fmt.Errorf("links[%d]: self link on node %d", i, l.From)
		}
		if !(l.Bandwidth > 0) || math.IsInf(l.Bandwidth, 0) {
			return nil, fmt.Errorf("links[%d]: bandwidth must be positive and finite, got %v", i, l.Bandwidth)
		}
		if math.IsNaN(l.Latency) || math.IsInf(l.Latency, 0) || l.Latency < 0 {
			return nil, fmt.Errorf("links[%d]: latency must be non-negative and finite, got %v", i, l.Latency)
		}
		k := keyOf(l.From, l.To)
		if _, dup := t.links[k]; dup {
			return nil, fmt.Errorf("links[%d]: duplicate link %d-%d", i, l.From, l.To)
		}
		t.links[k] = LinkProps{Bandwidth: l.Bandwidth, Latency: l.Latency}
		t.g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(l.From), T: simple.Node(l.To), W: l.Latency})
	}
	return t, nil
}

// Link returns the properties of the direct link between a and b, or false
// when there is none. Links are symmetric: Link(a, b) == Link(b, a).
func (t *Topology) Link(a, b int64) (LinkProps, bool) {
	w, ok := t.g.Weight(a, b)
	if !ok || a == b {
		return LinkProps{}, false
	}
	p := t.links[keyOf(a, b)]
	p.Latency = w
	return p, true
}

// NumNodes returns the number of distinct nodes named by links.
func (t *Topology) NumNodes() int {
	return t.g.Nodes().Len()
}

// NumLinks returns the number of links.
func (t *Topology) NumLinks() int {
	return len(t.links)
}
