// Package simulator folds a g-code program through the machine state
// machine and snapshot engine to produce a deterministic timeline of
// snapshots (spec C6), queryable at any wall-clock offset.
package simulator

import (
	"sort"

	"github.com/printctl/printctl-go/internal/gcode"
	"github.com/printctl/printctl-go/internal/machine"
	"github.com/printctl/printctl-go/internal/metric"
	"github.com/printctl/printctl-go/internal/snapshot"
)

// Range is a half-open span of wall-clock seconds [Start, End).
type Range struct {
	Start, End float64
}

func (r Range) contains(t float64) bool {
	return t >= r.Start && t < r.End
}

// Entry pairs a time range with the Snapshot active during it.
type Entry struct {
	Range    Range
	Snapshot snapshot.Snapshot
}

// Timeline is the simulator's output: total duration plus an ordered,
// contiguous partition of snapshots covering [0, TotalDuration).
type Timeline struct {
	TotalDuration float64
	Entries       []Entry
}

// Simulate folds prog's command stack through Execute, building one
// Snapshot per command and appending it to the timeline.
func Simulate(prog *gcode.Program, models snapshot.HeaterModels) Timeline {
	return SimulateFrom(machine.Default(), prog, models)
}

// SimulateFrom is Simulate with a caller-supplied initial state, useful
// for resuming a preview mid-program.
func SimulateFrom(initial machine.MachineState, prog *gcode.Program, models snapshot.HeaterModels) Timeline {
	state := initial
	var tElapsed float64
	var entries []Entry

	for _, code := range prog.Stack {
		next, motion := machine.Execute(state, code)
		snap := snapshot.New(state, next, motion, models)
		d := snap.Duration()
		entries = append(entries, Entry{
			Range:    Range{Start: tElapsed, End: tElapsed + d},
			Snapshot: snap,
		})
		tElapsed += d
		state = next
	}

	return Timeline{TotalDuration: tElapsed, Entries: entries}
}

// At queries the interpolated machine position and thermal snapshot at
// wall-clock t via a binary search over entry ranges, per spec.md §4.4.
func (tl Timeline) At(t float64) (metric.Position, snapshot.ThermalSnapshot, bool) {
	if len(tl.Entries) == 0 {
		return metric.Origin, snapshot.ThermalSnapshot{}, false
	}
	idx := sort.Search(len(tl.Entries), func(i int) bool {
		return tl.Entries[i].Range.End > t
	})
	if idx >= len(tl.Entries) {
		idx = len(tl.Entries) - 1
	}
	entry := tl.Entries[idx]
	if !entry.Range.contains(t) && t < entry.Range.Start {
		return metric.Origin, snapshot.ThermalSnapshot{}, false
	}

	dur := entry.Range.End - entry.Range.Start
	var tau float64
	if dur <= 0 {
		tau = 1
	} else {
		tau = (t - entry.Range.Start) / dur
	}
	pos, therm := entry.Snapshot.Interpolate(tau)
	return pos, therm, true
}
