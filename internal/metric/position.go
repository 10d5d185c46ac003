package metric

import "math"

// Position is a point in machine space, in millimetres on each axis.
type Position struct {
	X, Y, Z Distance
}

// Origin is the position (0,0,0).
var Origin = Position{}

// PositionMode selects whether motion arguments are interpreted as
// absolute coordinates or as offsets from the current position.
type PositionMode int

const (
	Absolute PositionMode = iota
	Relative
)

// ActivePlane selects which two axes a planar distance is measured across.
type ActivePlane int

const (
	PlaneXY ActivePlane = iota
	PlaneXZ
	PlaneYZ
)

// Translate moves the position along one axis by delta, honoring mode:
// Absolute sets the axis outright, Relative adds to the current value.
func (p Position) TranslateX(delta Distance, mode PositionMode) Position {
	if mode == Absolute {
		p.X = delta
	} else {
		p.X = p.X.Add(delta)
	}
	return p
}

func (p Position) TranslateY(delta Distance, mode PositionMode) Position {
	if mode == Absolute {
		p.Y = delta
	} else {
		p.Y = p.Y.Add(delta)
	}
	return p
}

func (p Position) TranslateZ(delta Distance, mode PositionMode) Position {
	if mode == Absolute {
		p.Z = delta
	} else {
		p.Z = p.Z.Add(delta)
	}
	return p
}

// Distance returns the Euclidean distance between two positions.
func (p Position) Distance(other Position) Distance {
	dx := p.X.Sub(other.X).AsMM()
	dy := p.Y.Sub(other.Y).AsMM()
	dz := p.Z.Sub(other.Z).AsMM()
	return DistanceFromMM(math.Sqrt(dx*dx + dy*dy + dz*dz))
}

// PlanarDistance returns the Euclidean distance between two positions
// projected onto the given plane.
func (p Position) PlanarDistance(other Position, plane ActivePlane) Distance {
	var a1, a2, b1, b2 float64
	switch plane {
	case PlaneXY:
		a1, b1 = p.X.AsMM(), p.Y.AsMM()
		a2, b2 = other.X.AsMM(), other.Y.AsMM()
	case PlaneXZ:
		a1, b1 = p.X.AsMM(), p.Z.AsMM()
		a2, b2 = other.X.AsMM(), other.Z.AsMM()
	case PlaneYZ:
		a1, b1 = p.Y.AsMM(), p.Z.AsMM()
		a2, b2 = other.Y.AsMM(), other.Z.AsMM()
	}
	da, db := a1-a2, b1-b2
	return DistanceFromMM(math.Sqrt(da*da + db*db))
}

// Add returns the componentwise sum of two positions.
func (p Position) Add(other Position) Position {
	return Position{
		X: p.X.Add(other.X),
		Y: p.Y.Add(other.Y),
		Z: p.Z.Add(other.Z),
	}
}
