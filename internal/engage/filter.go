// Package engage turns raw per-frame face observations into persistent
// per-person tracks with smoothed cognitive metrics and a body language
// label. It is the analysis core of the Darpan presence analysis system.
package engage

import "math"

// Filter is a scalar Kalman filter used to damp per-metric noise over time.
//
// Two tuning constants are fixed at construction: the process noise models
// how much the true signal is expected to drift between updates, and the
// measurement noise models how much each raw reading is trusted. Lower
// measurement noise tracks sudden changes faster; higher values smooth
// harder at the cost of lag.
//
// A Filter must not be shared across people or across metrics; every
// tracked person owns one independent instance per metric.
type Filter struct {
	processNoise     float64
	measurementNoise float64

	estimate   float64
	covariance float64
	primed     bool
}

// NewFilter creates a Filter with the given noise parameters.
func NewFilter(processNoise, measurementNoise float64) *Filter {
	return &Filter{
		processNoise:     processNoise,
		measurementNoise: measurementNoise,
	}
}

// Update feeds one measurement through the predict/correct cycle and
// returns the new estimate. The first call seeds the estimate from the
// measurement itself so the filter never emits an uninitialized value.
func (f *Filter) Update(measurement float64) float64 {
	if math.IsNaN(measurement) || math.IsInf(measurement, 0) {
		// A broken reading must not poison the recursion.
		return f.estimate
	}

	if !f.primed {
		f.estimate = measurement
		f.covariance = f.measurementNoise
		f.primed = true
		return f.estimate
	}

	// Predict: the estimate carries over, uncertainty grows.
	predicted := f.covariance + f.processNoise

	// Correct: nudge the estimate toward the measurement by the gain.
	gain := predicted / (predicted + f.measurementNoise)
	f.estimate += gain * (measurement - f.estimate)
	f.covariance = (1 - gain) * predicted

	return f.estimate
}

// Estimate returns the current estimate without updating the filter.
func (f *Filter) Estimate() float64 {
	return f.estimate
}
