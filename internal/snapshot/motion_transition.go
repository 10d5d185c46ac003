// Package snapshot implements the derived snapshot/transition model (spec
// C5): per-command motion+thermal transitions with interpolate(τ) and
// duration(), used to build deterministic previews and statistics.
package snapshot

import (
	"github.com/printctl/printctl-go/internal/machine"
	"github.com/printctl/printctl-go/internal/metric"
)

// MotionTransition wraps a machine.Motion with the Transition contract:
// Interpolate and Duration.
type MotionTransition struct {
	Motion machine.Motion
}

// Duration returns the motion's own duration in seconds.
func (t MotionTransition) Duration() float64 {
	return t.Motion.Duration()
}

// Interpolate returns the position at local τ∈[0,1]. Instant motion always
// returns End with zero duration, per spec.md §4.3.
func (t MotionTransition) Interpolate(tau float64) metric.Position {
	if t.Motion.Profile == machine.Instant {
		return t.Motion.End
	}
	tau = clamp01(tau)
	return lerpPosition(t.Motion.Start, t.Motion.End, tau)
}

func clamp01(tau float64) float64 {
	if tau < 0 {
		return 0
	}
	if tau > 1 {
		return 1
	}
	return tau
}

func lerpPosition(a, b metric.Position, tau float64) metric.Position {
	return metric.Position{
		X: lerpDistance(a.X, b.X, tau),
		Y: lerpDistance(a.Y, b.Y, tau),
		Z: lerpDistance(a.Z, b.Z, tau),
	}
}

func lerpDistance(a, b metric.Distance, tau float64) metric.Distance {
	return metric.DistanceFromMM(a.AsMM() + (b.AsMM()-a.AsMM())*tau)
}

// localTau projects a global elapsed-seconds value into this sub-
// transition's own [0,1] range, clamped so a completed transition holds
// its end value (spec.md §4.3).
func localTau(elapsed, duration float64) float64 {
	if duration <= 0 {
		if elapsed >= 0 {
			return 1
		}
		return 0
	}
	return clamp01(elapsed / duration)
}
