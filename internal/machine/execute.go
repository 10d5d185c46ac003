package machine

import (
	"github.com/printctl/printctl-go/internal/gcode"
	"github.com/printctl/printctl-go/internal/metric"
)

// Execute is the pure function (state, gcode) -> (state', motion?) from
// spec.md §4.2. It never mutates state and never consults anything outside
// its two arguments.
func Execute(state MachineState, code gcode.Code) (MachineState, *Motion) {
	switch code.Mnemonic {
	case gcode.MnemonicG:
		return executeG(state, code)
	case gcode.MnemonicM:
		return executeM(state, code), nil
	case gcode.MnemonicT:
		return executeToolChange(state, code), nil
	default:
		return state, nil
	}
}

func executeG(state MachineState, code gcode.Code) (MachineState, *Motion) {
	switch code.Major {
	case 20:
		next := state.clone()
		next.Units = metric.Inches
		return next, nil
	case 21:
		next := state.clone()
		next.Units = metric.Millimeters
		return next, nil
	case 90:
		next := state.clone()
		next.Positioning = metric.Absolute
		return next, nil
	case 91:
		next := state.clone()
		next.Positioning = metric.Relative
		return next, nil
	case 28:
		return executeHome(state)
	case 0, 1:
		return executeMove(state, code)
	default:
		return state, nil
	}
}

func executeM(state MachineState, code gcode.Code) MachineState {
	switch code.Major {
	case 82:
		next := state.clone()
		next.ExtrusionPositioning = metric.Absolute
		return next
	case 83:
		next := state.clone()
		next.ExtrusionPositioning = metric.Relative
		return next
	default:
		return state
	}
}

func executeHome(state MachineState) (MachineState, *Motion) {
	next := state.clone()
	start := next.Position
	next.Position = metric.Origin
	next.Homed = Homed{X: true, Y: true, Z: true}
	motion := &Motion{
		Start:   start,
		End:     metric.Origin,
		Plane:   next.ActivePlane,
		Profile: Instant,
	}
	return next, motion
}

func executeMove(state MachineState, code gcode.Code) (MachineState, *Motion) {
	next := state.clone()
	start := next.Position

	if f, ok := code.Arg('F'); ok {
		d := metric.DistanceFromUnits(float64(f.Value), next.Units)
		next.Feedrate = metric.SpeedFromDistancePerMinute(d)
	}
	if x, ok := code.Arg('X'); ok {
		next.Position = next.Position.TranslateX(metric.DistanceFromUnits(float64(x.Value), next.Units), next.Positioning)
	}
	if y, ok := code.Arg('Y'); ok {
		next.Position = next.Position.TranslateY(metric.DistanceFromUnits(float64(y.Value), next.Units), next.Positioning)
	}
	if z, ok := code.Arg('Z'); ok {
		next.Position = next.Position.TranslateZ(metric.DistanceFromUnits(float64(z.Value), next.Units), next.Positioning)
	}
	if e, ok := code.Arg('E'); ok {
		applyExtrusion(&next, e.Value)
	}

	motion := &Motion{
		Start:   start,
		End:     next.Position,
		Plane:   next.ActivePlane,
		Profile: ConstantVelocity,
		Speed:   next.Feedrate,
	}
	return next, motion
}

func applyExtrusion(state *MachineState, value float32) {
	if len(state.Tools) == 0 {
		return
	}
	tool := state.Tools[state.ActiveToolIndex]
	d := metric.DistanceFromUnits(float64(value), state.Units)
	if state.ExtrusionPositioning == metric.Absolute {
		tool.Extrusion = d
	} else {
		tool.Extrusion = tool.Extrusion.Add(d)
	}
	state.Tools[state.ActiveToolIndex] = tool
}

// executeToolChange reassigns ActiveToolIndex, clamping out-of-range
// selections to the last valid index rather than failing.
func executeToolChange(state MachineState, code gcode.Code) MachineState {
	next := state.clone()
	if len(next.Tools) == 0 {
		return next
	}
	idx := int(code.Major)
	if idx >= len(next.Tools) {
		idx = len(next.Tools) - 1
	}
	if idx < 0 {
		idx = 0
	}
	next.ActiveToolIndex = idx
	return next
}
