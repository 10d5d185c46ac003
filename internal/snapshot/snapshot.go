package snapshot

import (
	"math"

	"github.com/printctl/printctl-go/internal/machine"
	"github.com/printctl/printctl-go/internal/metric"
)

// Snapshot is a (before, after) pair for one executed command, combining
// an optional motion with the heater thermal transition implied by the
// post-command state. Duration is the max of both (spec.md §3, §4.3).
type Snapshot struct {
	Before, After machine.MachineState
	Motion        *MotionTransition
	Thermal       *ThermalTransition
}

// New builds a Snapshot from an execute() result.
func New(before, after machine.MachineState, motion *machine.Motion, models HeaterModels) Snapshot {
	s := Snapshot{
		Before:  before,
		After:   after,
		Thermal: NewThermalTransition(models, after),
	}
	if motion != nil {
		s.Motion = &MotionTransition{Motion: *motion}
	}
	return s
}

// Duration is the aggregate duration: the max of the motion (if any) and
// the thermal transition.
func (s Snapshot) Duration() float64 {
	d := s.Thermal.Duration()
	if s.Motion != nil {
		d = math.Max(d, s.Motion.Duration())
	}
	return d
}

// Interpolate returns the machine position and heater readings at global
// τ∈[0,1] of this snapshot's aggregate duration.
func (s Snapshot) Interpolate(tau float64) (metric.Position, ThermalSnapshot) {
	aggregate := s.Duration()
	elapsed := clamp01(tau) * aggregate

	pos := s.After.Position
	if s.Motion != nil {
		mt := localTau(elapsed, s.Motion.Duration())
		pos = s.Motion.Interpolate(mt)
	}

	thermalSnap := s.Thermal.InterpolateElapsed(elapsed)
	return pos, thermalSnap
}
