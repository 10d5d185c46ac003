package machine

import "github.com/printctl/printctl-go/internal/metric"

// Profile selects how a Motion interpolates between its endpoints.
type Profile int

const (
	// ConstantVelocity moves at a fixed Speed.
	ConstantVelocity Profile = iota
	// Instant completes with zero duration regardless of distance.
	Instant
)

// Motion is the motion descriptor execute optionally emits alongside the
// next machine state: a straight-line move between two positions, within
// one plane, at one profile.
type Motion struct {
	Start, End metric.Position
	Plane      metric.ActivePlane
	Profile    Profile
	Speed      metric.Speed // meaningful only when Profile == ConstantVelocity
}

// Distance is the planar distance travelled, per spec.md §3.
func (m Motion) Distance() metric.Distance {
	return m.Start.PlanarDistance(m.End, m.Plane)
}

// Duration is zero for Instant motion, else distance/speed.
func (m Motion) Duration() float64 {
	if m.Profile == Instant {
		return 0
	}
	return m.Speed.Duration(m.Distance()).Seconds()
}
