package workload

import (
	"fmt"
	"math/rand"
)

// ArrivalProcess places up to n packet arrivals within [start, end).
type ArrivalProcess interface {
	Arrivals(rng *rand.Rand, n int, start, end float64) []float64
}

// UniformArrivals scatters exactly n arrivals uniformly over the window.
type UniformArrivals struct{}

func (UniformArrivals) Arrivals(rng *rand.Rand, n int, start, end float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + rng.Float64()*(end-start)
	}
	return out
}

// PoissonArrivals spaces arrivals by exponential inter-arrival times (CV=1).
// Generation stops after n arrivals or at the end of the window, whichever
// comes first.
type PoissonArrivals struct {
	rate float64 // packets per second
}

func (s *PoissonArrivals) Arrivals(rng *rand.Rand, n int, start, end float64) []float64 {
	out := make([]float64, 0, n)
	t := start
	for len(out) < n {
		t += rng.ExpFloat64() / s.rate
		if t >= end {
			break
		}
		out = append(out, t)
	}
	return out
}

// NewArrivalProcess creates an ArrivalProcess by name. The empty name means uniform.
func NewArrivalProcess(name string, rate float64) (ArrivalProcess, error) {
	switch name {
	case "", "uniform":
		return UniformArrivals{}, nil
	case "poisson":
		if rate <= 0 {
			return nil, fmt.Errorf("poisson arrivals need a positive rate, got %f", rate)
		}
		return &PoissonArrivals{rate: rate}, nil
	default:
		return nil, fmt.Errorf("unknown arrival process %q", name)
	}
}
