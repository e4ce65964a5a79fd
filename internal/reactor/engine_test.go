package reactor

import (
	"math"
	"math/rand"
	"testing"
)

// precisionConfig mirrors the high-precision operating window.
func precisionConfig() Config {
	return Config{
		Gravity:         9.81,
		FluidDensity:    750.0,
		ParticleDensity: 8900.0,
		FilamentDensity: 2200.0,
		Viscosity:       0.4e-3,

		TankRadius:     0.05,
		CoreRadius:     3.0e-6,
		FilamentRadius: 20e-9,

		LiftSpeed:       0.0004,
		FluidRPM:        100.0,
		MagnetRPM:       99.95,
		MagnetStiffness: 2e-5,

		GrowthRate:    80e-6,
		AdhesionLimit: 400e-9,
		SeedLength:    1e-9,

		Kp: 80000.0,
		Ki: 5000.0,
		Kd: 500.0,

		RampTime:      20.0,
		NoiseStd:      2e-4,
		PowerMax:      150.0,
		IntegralClamp: 0.5,

		CoolingRate:      2.0,
		VaporVolumeCoeff: 1e-13,

		StabilizationWindow: 5.0,

		Dt: 0.0005,
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"negative viscosity", func(c *Config) { c.Viscosity = -1 }},
		{"zero core radius", func(c *Config) { c.CoreRadius = 0 }},
		{"zero growth rate", func(c *Config) { c.GrowthRate = 0 }},
		{"zero adhesion", func(c *Config) { c.AdhesionLimit = 0 }},
		{"zero ramp", func(c *Config) { c.RampTime = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := precisionConfig()
			tt.mutate(&cfg)
			if _, err := New(cfg, nil); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestEngineInitialState(t *testing.T) {
	eng, err := New(precisionConfig(), nil)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	st := eng.State()
	if st.Position.X != 0.05 || st.Position.Y != 0 || st.Position.Z != 0 {
		t.Errorf("expected start at (R, 0, 0), got %+v", st.Position)
	}
	if st.FilamentLength != 1e-9 {
		t.Errorf("expected seed length, got %g", st.FilamentLength)
	}
}

func TestEngineGrowthRate(t *testing.T) {
	cfg := precisionConfig()
	eng, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	prev := eng.State().FilamentLength
	steps := 1000
	for i := 0; i < steps; i++ {
		res, err := eng.Advance(float64(i) * cfg.Dt)
		if err != nil {
			t.Fatalf("advance: %v", err)
		}
		if res.FilamentLength <= prev {
			t.Fatalf("length must grow strictly between breaks: %g -> %g", prev, res.FilamentLength)
		}
		prev = res.FilamentLength
	}

	want := cfg.SeedLength + cfg.GrowthRate*cfg.Dt*float64(steps)
	if math.Abs(prev-want)/want > 1e-9 {
		t.Errorf("length after %d steps = %g, want %g", steps, prev, want)
	}
}

func TestEngineBreakResetsLength(t *testing.T) {
	cfg := precisionConfig()
	cfg.AdhesionLimit = 1e-30 // any slip tears the filament off
	eng, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	var broke bool
	var recordBefore float64
	for i := 0; i < 50; i++ {
		t0 := 6.0 + float64(i)*cfg.Dt // past the stabilization window
		recordBefore = eng.State().MaxLength
		res, err := eng.Advance(t0)
		if err != nil {
			t.Fatalf("advance: %v", err)
		}
		if res.Broke {
			broke = true
			if res.FilamentLength != cfg.SeedLength {
				t.Errorf("break must reset length to seed, got %g", res.FilamentLength)
			}
			st := eng.State()
			if st.BreakCount != 1 {
				t.Errorf("break count = %d, want 1", st.BreakCount)
			}
			if st.MaxLength < recordBefore {
				t.Errorf("max length record decreased on break: %g -> %g", recordBefore, st.MaxLength)
			}
			break
		}
	}
	if !broke {
		t.Fatal("expected a break once the filament cleared the aspect gate")
	}
}

func TestEngineNoBreakInsideWindow(t *testing.T) {
	cfg := precisionConfig()
	cfg.AdhesionLimit = 1e-30 // tension exceeds the limit almost immediately
	eng, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	// 100 steps, all inside the first 5 seconds.
	for i := 0; i < 100; i++ {
		res, err := eng.Advance(float64(i) * cfg.Dt)
		if err != nil {
			t.Fatalf("advance: %v", err)
		}
		if res.Broke {
			t.Fatalf("no break may fire at t <= %g, broke at step %d", cfg.StabilizationWindow, i)
		}
	}
	if got := eng.State().BreakCount; got != 0 {
		t.Errorf("break count = %d, want 0", got)
	}
}

func TestEngineMaxLengthSurvivesBreaks(t *testing.T) {
	cfg := precisionConfig()
	cfg.AdhesionLimit = 1e-30
	eng, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	breaks := 0
	prevRecord := 0.0
	for i := 0; i < 500 && breaks < 3; i++ {
		t0 := 6.0 + float64(i)*cfg.Dt
		res, err := eng.Advance(t0)
		if err != nil {
			t.Fatalf("advance: %v", err)
		}
		st := eng.State()
		if st.MaxLength < prevRecord {
			t.Fatalf("record decreased: %g -> %g", prevRecord, st.MaxLength)
		}
		prevRecord = st.MaxLength
		if res.Broke {
			breaks++
		}
	}
	if breaks < 2 {
		t.Fatalf("expected repeated breaks, got %d", breaks)
	}
}

func TestEngineClampInvariants(t *testing.T) {
	cfg := precisionConfig()
	rng := rand.New(rand.NewSource(42))
	eng, err := New(cfg, SensorNoise(rng, cfg.NoiseStd))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	for i := 0; i < 5000; i++ {
		res, err := eng.Advance(float64(i) * cfg.Dt)
		if err != nil {
			t.Fatalf("advance: %v", err)
		}
		st := eng.State()
		if res.PowerInput < 0 || res.PowerInput > cfg.PowerMax {
			t.Fatalf("power %g outside [0, %g]", res.PowerInput, cfg.PowerMax)
		}
		if st.PIDIntegral < -cfg.IntegralClamp || st.PIDIntegral > cfg.IntegralClamp {
			t.Fatalf("integral %g outside clamp", st.PIDIntegral)
		}
		if st.ThermalEnergy < 0 {
			t.Fatalf("thermal energy %g negative", st.ThermalEnergy)
		}
		if res.VaporRadius < 0 {
			t.Fatalf("vapor radius %g negative", res.VaporRadius)
		}
		if !res.Position.IsValid() {
			t.Fatalf("position not finite: %+v", res.Position)
		}
	}
}

func TestEngineDeterminism(t *testing.T) {
	cfg := precisionConfig()

	run := func(seed int64) State {
		rng := rand.New(rand.NewSource(seed))
		eng, err := New(cfg, SensorNoise(rng, cfg.NoiseStd))
		if err != nil {
			t.Fatalf("new engine: %v", err)
		}
		for i := 0; i < 2000; i++ {
			if _, err := eng.Advance(float64(i) * cfg.Dt); err != nil {
				t.Fatalf("advance: %v", err)
			}
		}
		return eng.State()
	}

	a, b := run(7), run(7)
	if a != b {
		t.Error("same seed must reproduce the same trajectory")
	}
	c := run(8)
	if a == c {
		t.Error("different seeds should diverge")
	}
}

func TestEngineNetUpwardDrift(t *testing.T) {
	cfg := precisionConfig()
	eng, err := New(cfg, nil) // noise fixed to zero
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	var zAt5 float64
	var last StepResult
	steps := 20000 // 10 s simulated
	for i := 0; i < steps; i++ {
		t0 := float64(i) * cfg.Dt
		res, err := eng.Advance(t0)
		if err != nil {
			t.Fatalf("advance at t=%g: %v", t0, err)
		}
		if i == steps/2 {
			zAt5 = res.Position.Z
		}
		last = res
	}

	if last.Position.Z <= zAt5 {
		t.Errorf("no net upward drift: z(5s)=%g, z(10s)=%g", zAt5, last.Position.Z)
	}
	if got := eng.State().BreakCount; got != 0 {
		t.Errorf("nominal precision run must not snap, got %d breaks", got)
	}
}
