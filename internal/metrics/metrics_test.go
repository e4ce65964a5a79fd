package metrics

import (
	"math"
	"testing"

	"github.com/vortexlabs/talaria/internal/reactor"
)

func TestTrackingError(t *testing.T) {
	m := NewTrackingError()

	m.Observe(reactor.StepResult{TargetVelocity: 1e-4, VerticalVelocity: 1e-4}, 0)
	m.Observe(reactor.StepResult{TargetVelocity: 2e-4, VerticalVelocity: 1e-4}, 1)
	m.Observe(reactor.StepResult{TargetVelocity: 1e-4, VerticalVelocity: 3e-4}, 2)

	want := (0 + 1e-4 + 2e-4) / 3
	if math.Abs(m.Value()-want) > 1e-18 {
		t.Errorf("tracking error = %g, want %g", m.Value(), want)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("reset should zero the metric, got %g", m.Value())
	}
}

func TestPowerSaturation(t *testing.T) {
	m := NewPowerSaturation(150.0)

	m.Observe(reactor.StepResult{PowerInput: 150.0}, 0)
	m.Observe(reactor.StepResult{PowerInput: 75.0}, 1)
	m.Observe(reactor.StepResult{PowerInput: 150.0}, 2)
	m.Observe(reactor.StepResult{PowerInput: 0}, 3)

	if m.Value() != 0.5 {
		t.Errorf("saturation fraction = %g, want 0.5", m.Value())
	}
}

func TestPeakTension(t *testing.T) {
	m := NewPeakTension()

	for _, tension := range []float64{1e-9, 5e-9, 2e-9} {
		m.Observe(reactor.StepResult{Tension: tension}, 0)
	}
	if m.Value() != 5e-9 {
		t.Errorf("peak tension = %g, want 5e-9", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("reset should zero the peak, got %g", m.Value())
	}
}

func TestMetricsEmpty(t *testing.T) {
	if v := NewTrackingError().Value(); v != 0 {
		t.Errorf("empty tracking error = %g", v)
	}
	if v := NewPowerSaturation(150).Value(); v != 0 {
		t.Errorf("empty saturation = %g", v)
	}
}
