package metric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceInchesRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 1, -3.5, 10, 100.125} {
		d := DistanceFromInches(v)
		require.InDelta(t, v, d.AsInches(), 1e-4)
	}
}

func TestDistanceIsZero(t *testing.T) {
	assert.True(t, DistanceFromMM(0).IsZero())
	assert.True(t, DistanceFromMM(1e-10).IsZero())
	assert.False(t, DistanceFromMM(0.001).IsZero())
}

func TestPositionArithmeticCommutativeAssociative(t *testing.T) {
	a := Position{X: DistanceFromMM(1), Y: DistanceFromMM(2), Z: DistanceFromMM(3)}
	b := Position{X: DistanceFromMM(4), Y: DistanceFromMM(-5), Z: DistanceFromMM(6)}
	c := Position{X: DistanceFromMM(7), Y: DistanceFromMM(8), Z: DistanceFromMM(-9)}

	assert.Equal(t, a.Add(b), b.Add(a))
	assert.Equal(t, a.Add(b).Add(c), a.Add(b.Add(c)))
	assert.Equal(t, a, a.Add(Origin))
}

func TestSpeedZeroDurationIsZero(t *testing.T) {
	s := SpeedFromMMPerSec(0)
	assert.Equal(t, 0, int(s.Duration(DistanceFromMM(100))))
}

func TestSpeedFromDistancePerMinute(t *testing.T) {
	s := SpeedFromDistancePerMinute(DistanceFromMM(1800))
	assert.InDelta(t, 30.0, s.AsMMPerSec(), 1e-9)
}

func TestPlanarDistance(t *testing.T) {
	a := Position{X: DistanceFromMM(0), Y: DistanceFromMM(0), Z: DistanceFromMM(0)}
	b := Position{X: DistanceFromMM(3), Y: DistanceFromMM(4), Z: DistanceFromMM(100)}
	assert.InDelta(t, 5.0, a.PlanarDistance(b, PlaneXY).AsMM(), 1e-9)
}
