// Package machine implements the pure g-code state machine (spec C3): a
// function from (MachineState, gcode.Code) to (MachineState, *Motion).
package machine

import "github.com/printctl/printctl-go/internal/metric"

// HeaterState is a heater's current reading and, if heating, its target.
type HeaterState struct {
	CurrentC float64
	TargetC  *float64 // nil means "not heating"
}

// Heating reports whether the heater has an active target.
func (h HeaterState) Heating() bool { return h.TargetC != nil }

// ToolState is one extruder's accumulated extrusion and heater.
type ToolState struct {
	Extrusion metric.Distance
	Heater    HeaterState
}

// Homed tracks which axes have been homed since startup.
type Homed struct {
	X, Y, Z bool
}

// FanState is a single fan's speed, 0..255.
type FanState struct {
	Speed uint8
}

// MachineState is the full machine model as of some point in the program.
type MachineState struct {
	Units                metric.Units
	Position             metric.Position
	Feedrate             metric.Speed
	Homed                Homed
	ActivePlane          metric.ActivePlane
	Positioning          metric.PositionMode
	ExtrusionPositioning metric.PositionMode
	ActiveToolIndex      int
	Tools                []ToolState
	Fans                 []FanState
	CoolingFan           FanState
	BedHeater            HeaterState
}

// Default returns the machine's power-on state: millimetres, relative
// positioning, one tool, plane XY, nothing homed.
func Default() MachineState {
	return MachineState{
		Units:                metric.Millimeters,
		Position:             metric.Origin,
		Feedrate:             metric.SpeedFromMMPerSec(0),
		ActivePlane:          metric.PlaneXY,
		Positioning:          metric.Relative,
		ExtrusionPositioning: metric.Relative,
		ActiveToolIndex:      0,
		Tools:                []ToolState{{}},
	}
}

// ActiveTool returns the currently selected tool. Invariant (spec.md §3):
// ActiveToolIndex < len(Tools) whenever Tools is non-empty.
func (s MachineState) ActiveTool() ToolState {
	if len(s.Tools) == 0 {
		return ToolState{}
	}
	return s.Tools[s.ActiveToolIndex]
}

// clone returns a shallow copy with an independently-sliced Tools/Fans so
// mutating the copy never aliases the original (execute is pure).
func (s MachineState) clone() MachineState {
	next := s
	next.Tools = append([]ToolState(nil), s.Tools...)
	next.Fans = append([]FanState(nil), s.Fans...)
	return next
}
