package config

import (
	"fmt"
	"sort"

	"github.com/vortexlabs/talaria/internal/reactor"
)

// DefaultProfile is used when no profile is named.
const DefaultProfile = "precision"

// base holds the constants shared by every profile. The profiles
// differ only in viscosity, magnet RPM, adhesion limit and duration:
// one engine, two operating windows.
func base() reactor.Config {
	return reactor.Config{
		Gravity:         9.81,
		FluidDensity:    750.0,  // dodecane
		ParticleDensity: 8900.0, // Co-Fe / Co-Mo alloy
		FilamentDensity: 2200.0, // graphite-like

		TankRadius:     0.05,
		CoreRadius:     3.0e-6,
		FilamentRadius: 20e-9,

		LiftSpeed:       0.0004,
		FluidRPM:        100.0,
		MagnetStiffness: 2e-5,

		GrowthRate: 80e-6,
		SeedLength: 1e-9,

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

// Profiles are the two validated operating windows.
//
//   - precision: high-temperature regime (thin fluid), 0.05 RPM slip,
//     enhanced Co-Mo anchoring; targets >1 m of growth.
//   - robust: medium temperature, relaxed 0.2 RPM motor tolerance,
//     standard anchoring; targets 250 mm with industrial margins.
var Profiles = map[string]func() *Settings{
	"precision": func() *Settings {
		r := base()
		r.Viscosity = 0.4e-3
		r.MagnetRPM = 99.95
		r.AdhesionLimit = 400e-9
		return &Settings{
			Profile: "precision",
			Reactor: r,
			Run:     Run{Duration: 12500.0, SampleEvery: 1000},
		}
	},
	"robust": func() *Settings {
		r := base()
		r.Viscosity = 0.6e-3
		r.MagnetRPM = 99.8
		r.AdhesionLimit = 300e-9
		return &Settings{
			Profile: "robust",
			Reactor: r,
			Run:     Run{Duration: 4200.0, SampleEvery: 1000},
		}
	},
}

// Profile returns a fresh settings instance for the named profile.
func Profile(name string) (*Settings, error) {
	mk, ok := Profiles[name]
	if !ok {
		return nil, fmt.Errorf("unknown profile: %s (available: %v)", name, ListProfiles())
	}
	return mk(), nil
}

// ListProfiles returns the profile names in stable order.
func ListProfiles() []string {
	names := make([]string, 0, len(Profiles))
	for name := range Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
