package simulator

import (
	"strings"
	"testing"

	"github.com/printctl/printctl-go/internal/gcode"
	"github.com/printctl/printctl-go/internal/snapshot"
	"github.com/printctl/printctl-go/internal/thermal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func models() snapshot.HeaterModels {
	return snapshot.HeaterModels{
		Bed:   thermal.Lumped{Ambient: 25, PowerW: 60, LossCoeff: 0.5, HeatCapacity: 20},
		Tools: []thermal.Model{thermal.Lumped{Ambient: 25, PowerW: 40, LossCoeff: 0.3, HeatCapacity: 8}},
	}
}

func TestTimelineContiguousPartition(t *testing.T) {
	prog, err := gcode.ParseProgram(strings.NewReader("G21\nG0 X10 F1800\nG0 X20 F1800\nG28\n"))
	require.NoError(t, err)

	tl := Simulate(prog, models())
	require.Len(t, tl.Entries, len(prog.Stack))

	var sum float64
	for i, e := range tl.Entries {
		sum += e.Range.End - e.Range.Start
		if i > 0 {
			assert.Equal(t, tl.Entries[i-1].Range.End, e.Range.Start)
		}
	}
	assert.InDelta(t, tl.TotalDuration, sum, 1e-9)
}

func TestTimelineQueryAt(t *testing.T) {
	prog, err := gcode.ParseProgram(strings.NewReader("G21\nG0 X10 F60\nG0 X20 F60\n"))
	require.NoError(t, err)

	tl := Simulate(prog, models())
	require.Greater(t, tl.TotalDuration, 0.0)

	_, _, ok := tl.At(0)
	assert.True(t, ok)

	// Positioning defaults to relative, so the moves end at X=30; at 1 mm/s,
	// 1e-6 s before the end the head is 1e-6 mm short of it.
	pos, _, ok := tl.At(tl.TotalDuration - 1e-6)
	assert.True(t, ok)
	assert.InDelta(t, 30-1e-6, pos.X.AsMM(), 1e-6)
}

func TestStatisticsReportsTotalDuration(t *testing.T) {
	prog, err := gcode.ParseProgram(strings.NewReader("G21\nG0 X10 F1800\n"))
	require.NoError(t, err)

	tl := Simulate(prog, models())
	stats := tl.Statistics()
	assert.Equal(t, tl.TotalDuration, stats.TotalDuration)
}
