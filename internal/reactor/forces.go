package reactor

import "math"

// slenderAspectGate is the minimum length-to-radius ratio before the
// slender-body drag approximation applies. Below it the filament is
// too short for the logarithmic correction and contributes no drag.
const slenderAspectGate = 10.0

// ForceBalance solves the overdamped drift of the particle-plus-
// filament system: inertia is neglected and external forces balance
// instantaneously against drag, consistent with the low-Reynolds
// regime of a micron-scale particle.
type ForceBalance struct {
	Gravity         float64
	FluidDensity    float64
	ParticleDensity float64
	FilamentDensity float64
	Viscosity       float64
	CoreRadius      float64
	FilamentRadius  float64
	FluidOmega      float64 // rad/s, for the co-rotating centrifugal term
	Trap            Trap
}

func NewForceBalance(cfg Config, trap Trap) ForceBalance {
	return ForceBalance{
		Gravity:         cfg.Gravity,
		FluidDensity:    cfg.FluidDensity,
		ParticleDensity: cfg.ParticleDensity,
		FilamentDensity: cfg.FilamentDensity,
		Viscosity:       cfg.Viscosity,
		CoreRadius:      cfg.CoreRadius,
		FilamentRadius:  cfg.FilamentRadius,
		FluidOmega:      rpmToRad(cfg.FluidRPM),
		Trap:            trap,
	}
}

// FilamentDrag returns the slender-body drag coefficient for the
// current filament length, or zero below the aspect gate.
func (f ForceBalance) FilamentDrag(length float64) (float64, error) {
	if length <= slenderAspectGate*f.FilamentRadius {
		return 0, nil
	}
	denom := math.Log(2*length/f.FilamentRadius) - 0.5
	if denom <= 0 {
		return 0, ErrSlenderAspect
	}
	return 2 * math.Pi * f.Viscosity * length / denom, nil
}

// Resolve computes the drift velocity of the system at time t. It
// returns the filament drag coefficient alongside so the break check
// can reuse it for the tension estimate.
func (f ForceBalance) Resolve(st State, t float64) (drift Vec3, gammaFil float64, err error) {
	volCore := sphereVolume(f.CoreRadius)
	volVapor := sphereVolume(st.VaporRadius)
	volFil := math.Pi * f.FilamentRadius * f.FilamentRadius * st.FilamentLength

	// The vapor shell displaces fluid but carries no mass.
	massCore := volCore * f.ParticleDensity
	massFil := volFil * f.FilamentDensity
	totalMass := massCore + massFil

	buoyancy := (volCore + volVapor) * f.FluidDensity * f.Gravity
	gravity := totalMass * f.Gravity

	force := f.Trap.Force(st.Position, t)
	force.X += totalMass * f.FluidOmega * f.FluidOmega * st.Position.X
	force.Y += totalMass * f.FluidOmega * f.FluidOmega * st.Position.Y
	force.Z += buoyancy - gravity

	gammaSphere := 6 * math.Pi * f.Viscosity * (f.CoreRadius + st.VaporRadius)
	gammaFil, err = f.FilamentDrag(st.FilamentLength)
	if err != nil {
		return Vec3{}, 0, err
	}

	gammaTotal := gammaSphere + gammaFil
	if gammaTotal <= 0 {
		return Vec3{}, 0, ErrDragVanished
	}

	// Isotropic drag: one scalar coefficient for all three axes.
	return force.Scale(1 / gammaTotal), gammaFil, nil
}

func sphereVolume(r float64) float64 {
	return 4.0 / 3.0 * math.Pi * r * r * r
}
