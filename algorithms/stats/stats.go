package stats

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Basic statistical helpers shared across the engine, using gonum for
// robustness.

// Mean calculates the arithmetic mean of a slice
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	return stat.Mean(values, nil)
}

// Variance calculates the sample variance of a slice
func Variance(values []float64) float64 {
	if len(values) < 2 {
		return 0.0
	}
	return stat.Variance(values, nil)
}

// Median calculates the median of a slice without modifying it
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return stat.Quantile(0.5, stat.Empirical, sorted, nil)
}

// Sum returns the sum of a slice
func Sum(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	return floats.Sum(values)
}

// MeanAbs returns the mean absolute value of a float32 sample buffer.
// Used by the live-path silence gate, so it allocates nothing.
func MeanAbs(samples []float32) float64 {
	if len(samples) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, s := range samples {
		if s < 0 {
			sum -= float64(s)
		} else {
			sum += float64(s)
		}
	}
	return sum / float64(len(samples))
}
