// Package metrics provides aggregate run metrics observed once per
// step and stored with the run metadata.
package metrics

import (
	"math"

	"github.com/vortexlabs/talaria/internal/reactor"
)

// TrackingError is the mean absolute deviation of the actual vertical
// velocity from the ramped target.
type TrackingError struct {
	sum     float64
	samples int
}

func NewTrackingError() *TrackingError { return &TrackingError{} }

func (m *TrackingError) Name() string { return "tracking_error" }

func (m *TrackingError) Observe(res reactor.StepResult, t float64) {
	m.sum += math.Abs(res.TargetVelocity - res.VerticalVelocity)
	m.samples++
}

func (m *TrackingError) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *TrackingError) Reset() {
	m.sum = 0
	m.samples = 0
}

// PowerSaturation is the fraction of steps spent at the power clamp.
type PowerSaturation struct {
	max       float64
	saturated int
	samples   int
}

func NewPowerSaturation(powerMax float64) *PowerSaturation {
	return &PowerSaturation{max: powerMax}
}

func (m *PowerSaturation) Name() string { return "power_saturation" }

func (m *PowerSaturation) Observe(res reactor.StepResult, t float64) {
	m.samples++
	if res.PowerInput >= m.max {
		m.saturated++
	}
}

func (m *PowerSaturation) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return float64(m.saturated) / float64(m.samples)
}

func (m *PowerSaturation) Reset() {
	m.saturated = 0
	m.samples = 0
}

// PeakTension is the maximum tensile load seen across the run.
type PeakTension struct {
	peak float64
}

func NewPeakTension() *PeakTension { return &PeakTension{} }

func (m *PeakTension) Name() string { return "peak_tension" }

func (m *PeakTension) Observe(res reactor.StepResult, t float64) {
	if res.Tension > m.peak {
		m.peak = res.Tension
	}
}

func (m *PeakTension) Value() float64 { return m.peak }

func (m *PeakTension) Reset() { m.peak = 0 }
