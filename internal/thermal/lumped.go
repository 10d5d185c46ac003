// Package thermal implements first-order lumped heater dynamics (spec C4):
// exponential approach to a steady-state temperature, and the settle-time
// needed to reach a target within the model's own precision.
package thermal

import "math"

// Model is the capability contract spec.md §3 describes for a heater: it
// can predict temperature at a future time and estimate how long reaching
// a target would take.
type Model interface {
	// Temperature returns the predicted temperature starting from initial
	// after t seconds have elapsed.
	Temperature(initial float64, t float64) float64
	// SettleTime estimates seconds to reach target from initial. A nil
	// target means "not heating", settle time is zero.
	SettleTime(initial float64, target *float64) float64
}

// Lumped is the canonical single-node heater model: ambient loss balanced
// against a constant heater power.
type Lumped struct {
	Ambient     float64
	PowerW      float64
	LossCoeff   float64
	HeatCapacity float64
}

// Steady returns the temperature the heater settles at given infinite time.
func (l Lumped) Steady() float64 {
	return l.Ambient + l.PowerW/l.LossCoeff
}

// k is the model's rate constant, loss_coeff/heat_capacity (the inverse of
// its time constant).
func (l Lumped) k() float64 {
	return l.LossCoeff / l.HeatCapacity
}

// Temperature implements Model.
func (l Lumped) Temperature(initial float64, t float64) float64 {
	steady := l.Steady()
	return steady + (initial-steady)*math.Exp(-l.k()*t)
}

// SettleTime implements Model. Clamped to >= 0; zero if target is nil.
func (l Lumped) SettleTime(initial float64, target *float64) float64 {
	if target == nil {
		return 0
	}
	steady := l.Steady()
	num := math.Abs(*target - steady)
	den := math.Abs(initial - steady)
	if den == 0 {
		if num == 0 {
			return 0
		}
		// initial is already at steady state but a different target was
		// requested: unreachable in finite time under this model.
		return math.Inf(1)
	}
	t := -math.Log(num/den) / l.k()
	if t < 0 {
		return 0
	}
	return t
}
