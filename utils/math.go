package utils

import (
	"math"
	"math/rand"
)

// Square returns n*n; math.Pow( x, 2 ) is slow, this is faster.
func Square(n float64) float64 {
	return n * n
}

// Float64AlmostEqual reports whether a and b are within epsilon of each other.
func Float64AlmostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}

// IsFinite reports whether v is neither NaN nor an infinity.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// SampleRandomFloatRange samples a random float within [lo, hi) using the given rand.Rand.
func SampleRandomFloatRange(lo, hi float64, r *rand.Rand) float64 {
	return lo + r.Float64()*(hi-lo)
}
