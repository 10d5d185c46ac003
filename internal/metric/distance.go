// Package metric implements the machine's scalar and vector units:
// distances, positions, and speeds, along with the conversions between
// them that the g-code state machine and thermal/snapshot models build on.
package metric

import "math"

// MmPerInch is the canonical millimetres-per-inch conversion factor.
const MmPerInch = 25.4

// Epsilon is the tolerance used to decide whether a Distance is zero.
const Epsilon = 1e-9

// Distance is a scalar length in millimetres.
type Distance struct {
	mm float64
}

// DistanceFromMM builds a Distance from a millimetre value.
func DistanceFromMM(mm float64) Distance {
	return Distance{mm: mm}
}

// DistanceFromInches builds a Distance from an inch value.
func DistanceFromInches(in float64) Distance {
	return Distance{mm: in * MmPerInch}
}

// AsMM returns the distance in millimetres.
func (d Distance) AsMM() float64 { return d.mm }

// AsInches returns the distance in inches.
func (d Distance) AsInches() float64 { return d.mm / MmPerInch }

// Add returns d + other.
func (d Distance) Add(other Distance) Distance {
	return Distance{mm: d.mm + other.mm}
}

// Sub returns d - other.
func (d Distance) Sub(other Distance) Distance {
	return Distance{mm: d.mm - other.mm}
}

// Mul returns d scaled by a dimensionless factor.
func (d Distance) Mul(scalar float64) Distance {
	return Distance{mm: d.mm * scalar}
}

// Div returns d divided by a dimensionless factor.
func (d Distance) Div(scalar float64) Distance {
	return Distance{mm: d.mm / scalar}
}

// IsZero reports whether the distance is zero within machine epsilon.
func (d Distance) IsZero() bool {
	return math.Abs(d.mm) <= Epsilon
}

// Abs returns the absolute value of the distance.
func (d Distance) Abs() Distance {
	return Distance{mm: math.Abs(d.mm)}
}
