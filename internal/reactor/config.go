package reactor

import "fmt"

// Config holds every constant of one reactor run. It is immutable once
// handed to New; the two operating profiles in internal/config are two
// instances of this type, not two engines.
type Config struct {
	// Physics and fluid dynamics.
	Gravity         float64 `yaml:"gravity"`          // m/s^2
	FluidDensity    float64 `yaml:"fluid_density"`    // kg/m^3 (dodecane)
	ParticleDensity float64 `yaml:"particle_density"` // kg/m^3 (Co-Fe/Co-Mo alloy)
	FilamentDensity float64 `yaml:"filament_density"` // kg/m^3 (graphite-like)
	Viscosity       float64 `yaml:"viscosity"`        // Pa.s

	// Reactor geometry.
	TankRadius     float64 `yaml:"tank_radius"`     // m
	CoreRadius     float64 `yaml:"core_radius"`     // m
	FilamentRadius float64 `yaml:"filament_radius"` // m

	// Process setpoints.
	LiftSpeed       float64 `yaml:"lift_speed"`       // m/s
	FluidRPM        float64 `yaml:"fluid_rpm"`        // rev/min
	MagnetRPM       float64 `yaml:"magnet_rpm"`       // rev/min
	MagnetStiffness float64 `yaml:"magnet_stiffness"` // N/m

	// Growth kinetics and anchoring.
	GrowthRate    float64 `yaml:"growth_rate"`    // m/s
	AdhesionLimit float64 `yaml:"adhesion_limit"` // N
	SeedLength    float64 `yaml:"seed_length"`    // m, filament length after a break

	// Controller gains, tuned for the thermal inertia of the shell.
	Kp float64 `yaml:"kp"`
	Ki float64 `yaml:"ki"`
	Kd float64 `yaml:"kd"`

	// Controller envelope.
	RampTime      float64 `yaml:"ramp_time"`      // s, soft-start window
	NoiseStd      float64 `yaml:"noise_std"`      // m/s, sensor noise sigma
	PowerMax      float64 `yaml:"power_max"`      // arbitrary units
	IntegralClamp float64 `yaml:"integral_clamp"` // anti-windup bound

	// Thermodynamics.
	CoolingRate      float64 `yaml:"cooling_rate"`       // 1/s, linear leak into bulk fluid
	VaporVolumeCoeff float64 `yaml:"vapor_volume_coeff"` // m^3 per energy unit

	// Failure model.
	StabilizationWindow float64 `yaml:"stabilization_window"` // s, no breaks before this

	// Timing.
	Dt float64 `yaml:"dt"` // s
}

// Validate checks the constraints the engine relies on. Profile
// configs always pass; it exists to fail fast on hand-edited files.
func (c Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g", c.Dt)
	}
	if c.Viscosity <= 0 {
		return fmt.Errorf("viscosity must be positive, got %g", c.Viscosity)
	}
	if c.CoreRadius <= 0 || c.FilamentRadius <= 0 || c.TankRadius <= 0 {
		return fmt.Errorf("radii must be positive (core=%g filament=%g tank=%g)",
			c.CoreRadius, c.FilamentRadius, c.TankRadius)
	}
	if c.GrowthRate <= 0 {
		return fmt.Errorf("growth rate must be positive, got %g", c.GrowthRate)
	}
	if c.SeedLength <= 0 {
		return fmt.Errorf("seed length must be positive, got %g", c.SeedLength)
	}
	if c.AdhesionLimit <= 0 {
		return fmt.Errorf("adhesion limit must be positive, got %g", c.AdhesionLimit)
	}
	if c.RampTime <= 0 {
		return fmt.Errorf("ramp time must be positive, got %g", c.RampTime)
	}
	if c.PowerMax <= 0 || c.IntegralClamp <= 0 {
		return fmt.Errorf("controller clamps must be positive (power=%g integral=%g)",
			c.PowerMax, c.IntegralClamp)
	}
	return nil
}
