package rbmk

import (
	"math"

	"github.com/gonum/floats"
)

// clamp restricts v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampNonNeg restricts v to [0, +Inf).
func clampNonNeg(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// sanitize maps a non-finite value to the nearest bound, per invariant I1.
// Finite values in range pass through unchanged.
func sanitize(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if math.IsInf(v, 1) {
		return hi
	}
	if math.IsInf(v, -1) {
		return lo
	}
	return clamp(v, lo, hi)
}

// lerp mixes a toward b by fraction frac ∈ [0,1].
func lerp(a, b, frac float64) float64 {
	return a + (b-a)*clamp(frac, 0, 1)
}

// expLagMix returns the exponential-lag mixing coefficient for a step Δt over
// time constant τ, i.e. min(Δt/τ, 1), the idiom §4.2-§4.4 both use.
func expLagMix(dt, tau float64) float64 {
	if tau <= 0 {
		return 1
	}
	return clamp(dt/tau, 0, 1)
}

// weightedSum is a thin wrapper over gonum/floats.Dot, preferring it over a
// hand-rolled loop for vector arithmetic.
func weightedSum(weights, values []float64) float64 {
	return floats.Dot(weights, values)
}

// meanOf returns the arithmetic mean of a slice, or 0 for an empty slice.
func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return floats.Sum(values) / float64(len(values))
}
