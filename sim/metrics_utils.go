// sim/metrics_utils.go
package sim

import (
	"gonum.org/v1/gonum/stat"
)

// StdDev returns the population standard deviation of data, 0 for fewer
// than two samples.
func StdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.PopStdDev(data, nil)
}

// lastJitter is the difference between the two most recent latencies.
func lastJitter(latencies []float64) float64 {
	n := len(latencies)
	if n < 2 {
		return 0
	}
	return latencies[n-1] - latencies[n-2]
}
