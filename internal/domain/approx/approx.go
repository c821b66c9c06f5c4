// Package approx provides tolerant floating-point comparison used for
// answer-sum validation and award min/max equality checks.
package approx

import "math"

// Default tolerances. The relative tolerance matches the sum-to-100
// invariant on answer sets (1e-6 relative).
const (
	RelTol = 1e-6
	AbsTol = 1e-9
)

// Equal reports whether a and b are equal within the default tolerances.
func Equal(a, b float64) bool {
	return EqualTol(a, b, RelTol, AbsTol)
}

// EqualTol reports whether a and b are equal within the given relative and
// absolute tolerances. Mirrors the semantics of math.isclose.
func EqualTol(a, b, rel, abs float64) bool {
	if a == b {
		return true
	}
	diff := math.Abs(a - b)
	return diff <= rel*math.Max(math.Abs(a), math.Abs(b)) || diff <= abs
}
