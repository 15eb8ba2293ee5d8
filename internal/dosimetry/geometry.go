package dosimetry

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// EquivalentFieldSize converts a rectangular X by Y field to the side of the
// square field with the same scatter, rounded to 1 decimal.
func EquivalentFieldSize(x, y float64) float64 {
	if x <= 0 || y <= 0 {
		return 0
	}
	eqfs := (2.015 * (x * y)) / ((1.015 * x) + y)
	return scalar.Round(eqfs, 1)
}

// ReducedFieldSize is the side of the square with the open area left after
// blocking. The result is NaN when blockedArea exceeds x*y; callers reject
// that input before computing.
func ReducedFieldSize(x, y, blockedArea float64) float64 {
	reduced := math.Sqrt((x * y) - blockedArea)
	return scalar.Round(reduced, 1)
}
