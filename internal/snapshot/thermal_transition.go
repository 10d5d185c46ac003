package snapshot

import (
	"math"

	"github.com/printctl/printctl-go/internal/machine"
	"github.com/printctl/printctl-go/internal/thermal"
)

// ThermalReading is one heater's temperature and optional target at a
// point in time.
type ThermalReading struct {
	Temp   float64
	Target *float64
}

// ThermalSnapshot is the interpolated reading for the bed and every tool
// heater at some instant.
type ThermalSnapshot struct {
	Bed   ThermalReading
	Tools []ThermalReading
}

// HeaterModels supplies the thermal.Model used for the bed and for each
// tool index, parameterising the simulator per spec.md §4.4.
type HeaterModels struct {
	Bed   thermal.Model
	Tools []thermal.Model
}

func (h HeaterModels) toolModel(idx int) thermal.Model {
	if idx < len(h.Tools) && h.Tools[idx] != nil {
		return h.Tools[idx]
	}
	return thermal.Lumped{Ambient: 25, PowerW: 0, LossCoeff: 1, HeatCapacity: 1}
}

// ThermalTransition wraps the bed and tool heater models against the
// post-command machine state's heater readings.
type ThermalTransition struct {
	bedModel    thermal.Model
	bedHeater   machine.HeaterState
	toolModels  []thermal.Model
	toolHeaters []machine.HeaterState
}

// NewThermalTransition builds the transition from post-command state,
// per spec.md §4.3: "from post-command machine state".
func NewThermalTransition(models HeaterModels, after machine.MachineState) *ThermalTransition {
	tt := &ThermalTransition{
		bedModel:  models.Bed,
		bedHeater: after.BedHeater,
	}
	for i, tool := range after.Tools {
		tt.toolModels = append(tt.toolModels, models.toolModel(i))
		tt.toolHeaters = append(tt.toolHeaters, tool.Heater)
	}
	return tt
}

// Duration is the max settle-time across the bed and every tool.
func (tt *ThermalTransition) Duration() float64 {
	d := tt.bedModel.SettleTime(tt.bedHeater.CurrentC, tt.bedHeater.TargetC)
	for i, h := range tt.toolHeaters {
		d = math.Max(d, tt.toolModels[i].SettleTime(h.CurrentC, h.TargetC))
	}
	return d
}

// InterpolateElapsed returns the per-heater readings at elapsed seconds,
// each projected through its own local τ (spec.md §4.3).
func (tt *ThermalTransition) InterpolateElapsed(elapsed float64) ThermalSnapshot {
	bedDuration := tt.bedModel.SettleTime(tt.bedHeater.CurrentC, tt.bedHeater.TargetC)
	bedTau := localTau(elapsed, bedDuration)
	snap := ThermalSnapshot{
		Bed: ThermalReading{
			Temp:   tt.bedModel.Temperature(tt.bedHeater.CurrentC, bedTau*durationOrZero(bedDuration)),
			Target: tt.bedHeater.TargetC,
		},
	}
	for i, h := range tt.toolHeaters {
		d := tt.toolModels[i].SettleTime(h.CurrentC, h.TargetC)
		tau := localTau(elapsed, d)
		snap.Tools = append(snap.Tools, ThermalReading{
			Temp:   tt.toolModels[i].Temperature(h.CurrentC, tau*durationOrZero(d)),
			Target: h.TargetC,
		})
	}
	return snap
}

// durationOrZero guards against infinite settle times (unreachable
// target under the model) making the elapsed-seconds argument to
// Temperature blow up: an infinite duration means the heater never
// "arrives", so we always evaluate it at t=0 (its initial reading).
func durationOrZero(d float64) float64 {
	if math.IsInf(d, 1) {
		return 0
	}
	return d
}
