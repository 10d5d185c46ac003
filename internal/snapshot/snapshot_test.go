package snapshot

import (
	"testing"

	"github.com/printctl/printctl-go/internal/machine"
	"github.com/printctl/printctl-go/internal/metric"
	"github.com/printctl/printctl-go/internal/thermal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testModels() HeaterModels {
	return HeaterModels{
		Bed:   thermal.Lumped{Ambient: 25, PowerW: 60, LossCoeff: 0.5, HeatCapacity: 20},
		Tools: []thermal.Model{thermal.Lumped{Ambient: 25, PowerW: 40, LossCoeff: 0.3, HeatCapacity: 8}},
	}
}

func TestInstantMotionZeroDuration(t *testing.T) {
	before := machine.Default()
	after := before
	after.Position = metric.Position{X: metric.DistanceFromMM(10)}
	motion := &machine.Motion{Start: before.Position, End: after.Position, Profile: machine.Instant}

	snap := New(before, after, motion, testModels())
	assert.Equal(t, 0.0, snap.Motion.Duration())

	pos, _ := snap.Interpolate(0.5)
	assert.Equal(t, after.Position, pos)
}

func TestSnapshotDurationIsMaxOfMotionAndThermal(t *testing.T) {
	before := machine.Default()
	after := before
	target := 200.0
	after.Tools = []machine.ToolState{{Heater: machine.HeaterState{CurrentC: 25, TargetC: &target}}}
	after.Position = metric.Position{X: metric.DistanceFromMM(100)}

	motion := &machine.Motion{
		Start:   before.Position,
		End:     after.Position,
		Profile: machine.ConstantVelocity,
		Speed:   metric.SpeedFromMMPerSec(100),
	}

	snap := New(before, after, motion, testModels())
	require.Greater(t, snap.Thermal.Duration(), snap.Motion.Duration())
	assert.Equal(t, snap.Thermal.Duration(), snap.Duration())
}

func TestCompletedSubTransitionHoldsEndValue(t *testing.T) {
	before := machine.Default()
	after := before
	after.Position = metric.Position{X: metric.DistanceFromMM(1)} // tiny move, short duration
	target := 200.0
	after.Tools = []machine.ToolState{{Heater: machine.HeaterState{CurrentC: 25, TargetC: &target}}}

	motion := &machine.Motion{
		Start:   before.Position,
		End:     after.Position,
		Profile: machine.ConstantVelocity,
		Speed:   metric.SpeedFromMMPerSec(1000), // finishes almost immediately
	}

	snap := New(before, after, motion, testModels())
	// At τ=0 the motion hasn't started yet; by a tiny τ it should already
	// be at End since motion duration << thermal duration.
	pos, _ := snap.Interpolate(0.5)
	assert.Equal(t, after.Position, pos)
}
