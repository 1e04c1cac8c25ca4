package validator

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Aggregator combines multiple agents' confidence scores into one. The
// default is an equal-weight mean; callers can configure weights without
// changing the Combine contract.
type Aggregator struct {
	weights []float64
}

// NewAggregator creates an aggregator. With no weights (or a weight count
// that does not match the input later), all inputs weigh equally.
func NewAggregator(weights ...float64) *Aggregator {
	return &Aggregator{weights: weights}
}

// Combine returns the weighted mean of the given confidences, rounded to
// the nearest integer. Empty input combines to 0.
func (a *Aggregator) Combine(confidences []int) int {
	if len(confidences) == 0 {
		return 0
	}

	values := make([]float64, len(confidences))
	for i, c := range confidences {
		values[i] = float64(c)
	}

	var weights []float64
	if len(a.weights) == len(values) {
		weights = a.weights
	}

	return int(math.Round(stat.Mean(values, weights)))
}
