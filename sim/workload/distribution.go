package workload

import (
	"fmt"
	"math"
	"math/rand"
)

// minProcessingTime keeps sampled service times strictly positive.
const minProcessingTime = 1e-6

// TimeSampler generates processing-time samples in seconds.
type TimeSampler interface {
	// Sample returns a positive duration (>= minProcessingTime).
	Sample(rng *rand.Rand) float64
}

func positive(v float64) float64 {
	if math.IsNaN(v) || v < minProcessingTime {
		return minProcessingTime
	}
	return v
}

// UniformSampler draws from [min, max).
type UniformSampler struct {
	min, max float64
}

func (s *UniformSampler) Sample(rng *rand.Rand) float64 {
	return positive(s.min + rng.Float64()*(s.max-s.min))
}

// ExponentialSampler produces exponentially-distributed durations.
type ExponentialSampler struct {
	mean float64
}

func (s *ExponentialSampler) Sample(rng *rand.Rand) float64 {
	return positive(rng.ExpFloat64() * s.mean)
}

// GaussianSampler produces clamped Gaussian durations.
type GaussianSampler struct {
	mean, stdDev float64
	min, max     float64
}

func (s *GaussianSampler) Sample(rng *rand.Rand) float64 {
	if s.min == s.max {
		return positive(s.min)
	}
	val := rng.NormFloat64()*s.stdDev + s.mean
	return positive(math.Min(s.max, math.Max(s.min, val)))
}

// ConstantSampler always returns the same fixed value.
type ConstantSampler struct {
	value float64
}

func (s *ConstantSampler) Sample(_ *rand.Rand) float64 {
	return positive(s.value)
}

// requireParam checks that all required keys exist in a params map.
func requireParam(params map[string]float64, keys ...string) error {
	for _, k := range keys {
		if _, ok := params[k]; !ok {
			return fmt.Errorf("distribution requires parameter %q", k)
		}
	}
	return nil
}

// NewTimeSampler creates a TimeSampler from a DistSpec.
func NewTimeSampler(spec DistSpec) (TimeSampler, error) {
	switch spec.Type {
	case "uniform":
		if err := requireParam(spec.Params, "min", "max"); err != nil {
			return nil, err
		}
		lo, hi := spec.Params["min"], spec.Params["max"]
		if lo > hi {
			return nil, fmt.Errorf("uniform min (%f) must not exceed max (%f)", lo, hi)
		}
		return &UniformSampler{min: lo, max: hi}, nil

	case "exponential":
		if err := requireParam(spec.Params, "mean"); err != nil {
			return nil, err
		}
		if spec.Params["mean"] <= 0 {
			return nil, fmt.Errorf("exponential mean must be positive, got %f", spec.Params["mean"])
		}
		return &ExponentialSampler{mean: spec.Params["mean"]}, nil

	case "gaussian":
		if err := requireParam(spec.Params, "mean", "std_dev", "min", "max"); err != nil {
			return nil, err
		}
		if spec.Params["min"] > spec.Params["max"] {
			return nil, fmt.Errorf("gaussian min (%f) must not exceed max (%f)", spec.Params["min"], spec.Params["max"])
		}
		return &GaussianSampler{
			mean:   spec.Params["mean"],
			stdDev: spec.Params["std_dev"],
			min:    spec.Params["min"],
			max:    spec.Params["max"],
		}, nil

	case "constant":
		if err := requireParam(spec.Params, "value"); err != nil {
			return nil, err
		}
		return &ConstantSampler{value: spec.Params["value"]}, nil

	default:
		return nil, fmt.Errorf("unknown distribution type %q", spec.Type)
	}
}
